package padel_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/logging"
	"github.com/teemow/padel-mcp/internal/padel"
	"github.com/teemow/padel-mcp/internal/server"
	"github.com/teemow/padel-mcp/internal/tools/common"
)

const (
	// ListClubsTool is the name of the club directory tool.
	ListClubsTool = "padel_list_clubs"

	msgClubListFailed = "Failed to retrieve club information"
)

// ClubListResult is the envelope returned by padel_list_clubs.
type ClubListResult struct {
	Success bool         `json:"success"`
	Error   *string      `json:"error"`
	Clubs   []padel.Club `json:"clubs"`
}

func clubListFailure(msg string) ClubListResult {
	return ClubListResult{Success: false, Error: &msg, Clubs: []padel.Club{}}
}

func registerClubTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool(ListClubsTool,
		mcp.WithDescription("List the padel clubs known to the booking service, with their provider and timezone"),
		mcp.WithTitleAnnotation("List padel clubs"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(true),
		mcp.WithString("nameFilter",
			mcp.Description("Only return clubs whose name contains this text (case-insensitive)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		ListClubsTool,
		instrumentation.ServicePadel,
		instrumentation.OperationListClubs,
		sc,
		handleListClubs(sc),
	))

	return nil
}

func handleListClubs(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := strings.TrimSpace(common.StringArg(request.GetArguments(), "nameFilter"))

		resp, err := sc.Clubs().ListClubs(ctx)
		if err != nil || resp == nil {
			logger := logging.WithTool(sc.Logger(), ListClubsTool)
			if err != nil {
				logger.Warn("club directory lookup failed", logging.Err(err))
			} else {
				logger.Warn("club directory lookup returned no body")
			}
			return textResult(clubListFailure(msgClubListFailed)), nil
		}

		return textResult(ClubListResult{
			Success: true,
			Clubs:   padel.FilterClubsByName(resp.Clubs, filter),
		}), nil
	}
}
