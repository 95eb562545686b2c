package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"golang.org/x/oauth2"

	"github.com/driveflow/driveflow/internal/google"
	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()

	store := google.NewFileTokenStoreAt(t.TempDir())
	auth := google.NewAuthenticatorWithConfig(&oauth2.Config{ClientID: "test"}, store)

	sc, err := server.NewServerContext(context.Background(), auth)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestInstrumentedToolHandlerPassesThrough(t *testing.T) {
	sc := newTestServerContext(t)

	var called bool
	handler := InstrumentedToolHandler("list-folders", sc, func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !called {
		t.Error("inner handler was not called")
	}
	if result.IsError {
		t.Error("result marked as error")
	}
}

func TestInstrumentedToolHandlerAuditsFailures(t *testing.T) {
	sc := newTestServerContext(t)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandlerWithService("delete-file", "drive", "delete", sc,
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, errors.New("boom")
		})

	_, err := handler(context.Background(), callRequest(map[string]interface{}{"account": "work"}))
	if err == nil {
		t.Fatal("expected handler error to propagate")
	}

	out := buf.String()
	if !strings.Contains(out, "tool_failed") {
		t.Errorf("audit log missing tool_failed: %s", out)
	}
	if !strings.Contains(out, "tool=delete-file") {
		t.Errorf("audit log missing tool name: %s", out)
	}
	if !strings.Contains(out, "account=work") {
		t.Errorf("audit log missing account: %s", out)
	}
	if !strings.Contains(out, "service=drive") {
		t.Errorf("audit log missing service: %s", out)
	}
}

func TestInstrumentedToolHandlerTreatsToolErrorsAsFailures(t *testing.T) {
	sc := newTestServerContext(t)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	handler := InstrumentedToolHandler("create-folder", sc,
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultError("name is required"), nil
		})

	result, err := handler(context.Background(), callRequest(nil))
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if !result.IsError {
		t.Fatal("expected a tool error result")
	}
	if !strings.Contains(buf.String(), "tool_failed") {
		t.Errorf("audit log should record tool errors as failures: %s", buf.String())
	}
}
