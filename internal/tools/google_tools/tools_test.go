package google_tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/oauth2"

	"github.com/driveflow/driveflow/internal/google"
	"github.com/driveflow/driveflow/internal/server"
)

func newToolServer(t *testing.T) *mcpserver.MCPServer {
	t.Helper()

	store := google.NewFileTokenStoreAt(t.TempDir())
	auth := google.NewAuthenticatorWithConfig(&oauth2.Config{
		ClientID: "test-client",
		Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth"},
	}, store)

	sc, err := server.NewServerContext(context.Background(), auth)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	s := mcpserver.NewMCPServer("driveflow-test", "0.0.1", mcpserver.WithToolCapabilities(true))
	if err := RegisterGoogleTools(s, sc); err != nil {
		t.Fatalf("RegisterGoogleTools() error = %v", err)
	}
	return s
}

func callTool(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]interface{}) string {
	t.Helper()

	message, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      name,
			"arguments": args,
		},
	})
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	response := s.HandleMessage(context.Background(), message)
	out, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("failed to marshal response: %v", err)
	}
	return string(out)
}

func TestGetAuthURLReturnsConsentURL(t *testing.T) {
	s := newToolServer(t)

	response := callTool(t, s, "google-get-auth-url", map[string]interface{}{
		"account": "work",
	})

	if !strings.Contains(response, "accounts.example.com/auth") {
		t.Errorf("expected consent URL in response, got: %s", response)
	}
	if !strings.Contains(response, `\"work\"`) && !strings.Contains(response, "work") {
		t.Errorf("expected account name in response, got: %s", response)
	}
}

func TestSaveAuthCodeRequiresCode(t *testing.T) {
	s := newToolServer(t)

	response := callTool(t, s, "google-save-auth-code", map[string]interface{}{})

	if !strings.Contains(response, "auth_code is required") {
		t.Errorf("expected auth_code validation error, got: %s", response)
	}
}
