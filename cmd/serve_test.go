package cmd

import (
	"context"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/oauth2"

	"github.com/driveflow/driveflow/internal/google"
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

func TestRegisterAllTools(t *testing.T) {
	for _, readOnly := range []bool{false, true} {
		sc := newTestServerContext(t)
		mcpSrv := mcpserver.NewMCPServer("driveflow-test", "0.0.1",
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithResourceCapabilities(false, true),
			mcpserver.WithPromptCapabilities(true),
		)

		if err := registerAllTools(mcpSrv, sc, readOnly); err != nil {
			t.Errorf("registerAllTools(readOnly=%v) error = %v", readOnly, err)
		}
	}
}

func TestNewAuthenticatorRequiresCredentialsFile(t *testing.T) {
	_, err := newAuthenticator("/nonexistent/credentials.json", t.TempDir())
	if err == nil {
		t.Error("newAuthenticator() with missing credentials file should fail")
	}
}

func TestParseCommaSeparatedList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single address",
			input:    "a@example.com",
			expected: []string{"a@example.com"},
		},
		{
			name:     "multiple addresses",
			input:    "a@example.com,b@example.com",
			expected: []string{"a@example.com", "b@example.com"},
		},
		{
			name:     "addresses with spaces around comma",
			input:    "a@example.com, b@example.com",
			expected: []string{"a@example.com", "b@example.com"},
		},
		{
			name:     "trailing comma",
			input:    "a@example.com,",
			expected: []string{"a@example.com"},
		},
		{
			name:     "only commas and spaces",
			input:    ", , ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseCommaSeparatedList(tt.input)

			if len(result) != len(tt.expected) {
				t.Fatalf("parseCommaSeparatedList(%q) = %v, want %v", tt.input, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("parseCommaSeparatedList(%q)[%d] = %q, want %q", tt.input, i, result[i], tt.expected[i])
				}
			}
		})
	}
}
