package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/padel-mcp/internal/availability"
	"github.com/teemow/padel-mcp/internal/padel"
	"github.com/teemow/padel-mcp/internal/server"
)

const (
	// ClubsURI is the URI of the club directory resource.
	ClubsURI = "padel://clubs"

	// ConfigURI is the URI of the query configuration resource.
	ConfigURI = "padel://config"

	mimeJSON = "application/json"
)

// RegisterPadelResources registers the padel resources with the MCP server.
func RegisterPadelResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	clubsResource := mcp.NewResource(
		ClubsURI,
		"Padel Clubs",
		mcp.WithResourceDescription("Directory of padel clubs with their provider and timezone"),
		mcp.WithMIMEType(mimeJSON),
	)

	s.AddResource(clubsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleClubs(ctx, request, sc)
	})

	configResource := mcp.NewResource(
		ConfigURI,
		"Padel Query Configuration",
		mcp.WithResourceDescription("Limits and defaults applied to court availability searches"),
		mcp.WithMIMEType(mimeJSON),
	)

	s.AddResource(configResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleConfig(ctx, request, sc)
	})

	return nil
}

func handleClubs(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	resp, err := sc.Clubs().ListClubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("failed to list clubs: %w", padel.ErrEmptyResponse)
	}
	if resp.Clubs == nil {
		resp.Clubs = []padel.Club{}
	}

	return jsonContents(request.Params.URI, resp)
}

type queryConfig struct {
	DefaultTimezone string         `json:"defaultTimezone"`
	MaxRangeDays    int            `json:"maxRangeDays"`
	Durations       []int          `json:"durations"`
	CourtTypes      map[string]int `json:"courtTypes"`
}

func handleConfig(_ context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	cfg := queryConfig{
		DefaultTimezone: sc.Availability().DefaultLocation().String(),
		MaxRangeDays:    availability.MaxRangeDays,
		Durations:       append([]int(nil), padel.ValidDurations...),
		CourtTypes: map[string]int{
			padel.CourtTypeIndoor.String():  int(padel.CourtTypeIndoor),
			padel.CourtTypeOutdoor.String(): int(padel.CourtTypeOutdoor),
		},
	}
	return jsonContents(request.Params.URI, cfg)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
