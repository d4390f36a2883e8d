package padel_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"

	"github.com/teemow/padel-mcp/internal/availability"
	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/padel"
	"github.com/teemow/padel-mcp/internal/server"
	"github.com/teemow/padel-mcp/internal/tools/common"
)

// GetCourtAvailabilitiesTool is the name of the availability search tool.
const GetCourtAvailabilitiesTool = "padel_get_court_availabilities"

func registerAvailabilityTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool(GetCourtAvailabilitiesTool,
		mcp.WithDescription(fmt.Sprintf(
			"Find available padel court slots between two dates (inclusive, at most %d days apart). "+
				"Slot times are returned as local time of each club.", availability.MaxRangeDays)),
		mcp.WithTitleAnnotation("Find padel court availabilities"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("startDate",
			mcp.Required(),
			mcp.Description("First day to search, formatted YYYY-MM-DD"),
		),
		mcp.WithString("endDate",
			mcp.Required(),
			mcp.Description("Last day to search, formatted YYYY-MM-DD"),
		),
		mcp.WithArray("durations",
			mcp.Description("Booking durations in minutes. Allowed values: 60, 90, 120. Other values are ignored."),
			mcp.Items(map[string]any{
				"type": "integer",
				"enum": padel.ValidDurations,
			}),
		),
		mcp.WithArray("clubNames",
			mcp.Description("Club names to restrict the search to, matched case-insensitively. Unknown names are ignored."),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithNumber("courtType",
			mcp.Description("Court type: 0 for indoor, 1 for outdoor. Omit for both."),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		GetCourtAvailabilitiesTool,
		instrumentation.ServicePadel,
		instrumentation.OperationListAvailabilities,
		sc,
		handleGetCourtAvailabilities(sc),
	))

	return nil
}

// availabilityRequest maps loosely typed tool arguments onto a query.
// Missing dates become empty strings and are rejected by the handler.
func availabilityRequest(args map[string]any) availability.Request {
	return availability.Request{
		StartDate: common.StringArg(args, "startDate"),
		EndDate:   common.StringArg(args, "endDate"),
		Durations: common.IntListArg(args, "durations"),
		ClubNames: common.StringListArg(args, "clubNames"),
		CourtType: common.OptionalIntArg(args, "courtType"),
	}
}

func handleGetCourtAvailabilities(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := availabilityRequest(request.GetArguments())

		envelope := sc.Availability().GetCourtAvailabilities(ctx, req)

		trace.SpanFromContext(ctx).SetAttributes(instrumentation.NewSpanAttributeBuilder().
			WithDateRange(req.StartDate, req.EndDate).
			WithClubFilterCount(len(req.ClubNames)).
			WithResultCount(len(envelope.Availabilities)).
			Build()...)

		payload, err := envelope.JSON()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(payload), nil
	}
}
