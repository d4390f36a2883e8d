package padel_tools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/padel-mcp/internal/server"
)

// RegisterPadelTools registers all padel tools with the MCP server
func RegisterPadelTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := registerAvailabilityTools(s, sc); err != nil {
		return fmt.Errorf("failed to register availability tools: %w", err)
	}

	if err := registerClubTools(s, sc); err != nil {
		return fmt.Errorf("failed to register club tools: %w", err)
	}

	return nil
}

// compactJSON encodes v without insignificant whitespace or HTML escaping.
func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func textResult(v any) *mcp.CallToolResult {
	payload, err := compactJSON(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err))
	}
	return mcp.NewToolResultText(payload)
}
