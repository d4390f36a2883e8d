package instrumentation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
)

func newJSONLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	return line
}

func TestNewToolInvocation(t *testing.T) {
	ti := NewToolInvocation("padel_list_clubs")

	if _, err := uuid.Parse(ti.ID); err != nil {
		t.Errorf("expected uuid invocation ID, got %q", ti.ID)
	}
	if ti.StartTime.IsZero() {
		t.Error("expected start time to be set")
	}
	if other := NewToolInvocation("padel_list_clubs"); other.ID == ti.ID {
		t.Error("expected unique invocation IDs")
	}
}

func TestToolInvocation_Complete(t *testing.T) {
	ti := NewToolInvocation("tool").CompleteSuccess()
	if !ti.Success || ti.Status() != StatusSuccess {
		t.Errorf("expected success, got %v/%s", ti.Success, ti.Status())
	}

	ti = NewToolInvocation("tool").CompleteWithError(errors.New("boom"))
	if ti.Success || ti.Status() != StatusError {
		t.Errorf("expected error, got %v/%s", ti.Success, ti.Status())
	}
	if ti.Error != "boom" {
		t.Errorf("expected error text 'boom', got %q", ti.Error)
	}
}

func TestAuditLogger_LogToolInvocation(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(newJSONLogger(&buf))

	ti := NewToolInvocation("padel_get_court_availabilities").
		WithService(ServicePadel, OperationListAvailabilities).
		WithArguments(map[string]any{"startDate": "2024-01-15"}).
		CompleteSuccess()
	al.LogToolInvocation(context.Background(), ti)

	line := decodeLine(t, &buf)
	if line["msg"] != "tool_executed" {
		t.Errorf("expected tool_executed, got %v", line["msg"])
	}
	if line["level"] != "INFO" {
		t.Errorf("expected INFO level, got %v", line["level"])
	}
	if line["invocation_id"] != ti.ID {
		t.Errorf("expected invocation_id %q, got %v", ti.ID, line["invocation_id"])
	}
	if line["operation"] != OperationListAvailabilities {
		t.Errorf("unexpected operation %v", line["operation"])
	}
	if _, ok := line["arguments"]; ok {
		t.Error("arguments must be omitted by default")
	}
}

func TestAuditLogger_Failure(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(newJSONLogger(&buf), AuditLoggingConfig{Enabled: true, IncludeArguments: true})

	ti := NewToolInvocation("padel_list_clubs").
		WithArguments(map[string]any{"nameFilter": "warsaw"}).
		CompleteWithError(errors.New("upstream down"))
	al.LogToolInvocation(context.Background(), ti)

	line := decodeLine(t, &buf)
	if line["msg"] != "tool_failed" {
		t.Errorf("expected tool_failed, got %v", line["msg"])
	}
	if line["level"] != "WARN" {
		t.Errorf("expected WARN level, got %v", line["level"])
	}
	if line["error"] != "upstream down" {
		t.Errorf("unexpected error %v", line["error"])
	}
	args, ok := line["arguments"].(map[string]any)
	if !ok || args["nameFilter"] != "warsaw" {
		t.Errorf("expected arguments to be logged, got %v", line["arguments"])
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLoggerWithConfig(newJSONLogger(&buf), AuditLoggingConfig{Enabled: false})
	al.LogToolInvocation(context.Background(), NewToolInvocation("tool").CompleteSuccess())

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}

	al.SetEnabled(true)
	al.LogToolInvocation(context.Background(), NewToolInvocation("tool").CompleteSuccess())
	if buf.Len() == 0 {
		t.Error("expected output after enabling")
	}

	var nilLogger *AuditLogger
	nilLogger.LogToolInvocation(context.Background(), NewToolInvocation("tool"))
}
