package common

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/padel-mcp/internal/instrumentation"
	"github.com/teemow/padel-mcp/internal/logging"
	"github.com/teemow/padel-mcp/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with a span, metrics and
// audit logging.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return InstrumentedToolHandlerWithService(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService is like InstrumentedToolHandler but also
// tags the invocation with the upstream service and operation it drives.
//
// The handler records:
//   - a tool.<name> server span
//   - mcp_tool_invocations_total and mcp_tool_duration_seconds
//   - one audit line per invocation
//
// Upstream operation metrics are recorded by the padel client itself, once
// per upstream call.
//
// An invocation counts as failed when the handler returns an error, when the
// result is flagged IsError, or when its JSON envelope reports success:false.
func InstrumentedToolHandlerWithService(
	toolName string,
	serviceName string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithArguments(request.GetArguments())
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
			sc.Logger().ErrorContext(ctx, "tool handler failed", logging.Tool(toolName), logging.Err(err))
		case resultFailed(result):
			failure := errors.New(ResultErrorMessage(result))
			invocation.CompleteWithError(failure)
			instrumentation.SetSpanError(span, failure)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocation(ctx, toolName, invocation.Status(), duration)
		auditLogger.LogToolInvocation(ctx, invocation)

		return result, err
	}
}

type envelopeStatus struct {
	Success *bool   `json:"success"`
	Error   *string `json:"error"`
}

func resultFailed(result *mcp.CallToolResult) bool {
	if result == nil {
		return false
	}
	if result.IsError {
		return true
	}
	status, ok := parseEnvelope(result)
	return ok && status.Success != nil && !*status.Success
}

// ResultErrorMessage returns the failure text carried by result: the error
// field of a JSON envelope, or the first text content otherwise.
func ResultErrorMessage(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	if status, ok := parseEnvelope(result); ok && status.Error != nil {
		return *status.Error
	}
	text, _ := FirstText(result)
	return text
}

func parseEnvelope(result *mcp.CallToolResult) (envelopeStatus, bool) {
	var status envelopeStatus
	text, ok := FirstText(result)
	if !ok || json.Unmarshal([]byte(text), &status) != nil {
		return status, false
	}
	return status, true
}

// FirstText returns the first text content of result.
func FirstText(result *mcp.CallToolResult) (string, bool) {
	if result == nil {
		return "", false
	}
	for _, c := range result.Content {
		switch tc := c.(type) {
		case mcp.TextContent:
			return tc.Text, true
		case *mcp.TextContent:
			return tc.Text, true
		}
	}
	return "", false
}
