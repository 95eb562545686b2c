package email_tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/wneessen/go-mail"
	"golang.org/x/oauth2"

	"github.com/driveflow/driveflow/internal/google"
	"github.com/driveflow/driveflow/internal/mailer"
	"github.com/driveflow/driveflow/internal/server"
)

type fakeDialer struct {
	messages []*mail.Msg
	settings mailer.Settings
	err      error
}

func (f *fakeDialer) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.messages = append(f.messages, messages...)
	return f.err
}

// installFakeSender reroutes newSender through a recording dialer for
// the duration of the test.
func installFakeSender(t *testing.T) *fakeDialer {
	t.Helper()

	dialer := &fakeDialer{}
	previous := newSender
	newSender = func(settings mailer.Settings) *mailer.Sender {
		dialer.settings = settings
		return mailer.NewSenderWithDialer(settings, func(mailer.Settings) (mailer.Dialer, error) {
			return dialer, nil
		})
	}
	t.Cleanup(func() { newSender = previous })

	return dialer
}

func newTestContext(t *testing.T, sources []mailer.Source) *server.ServerContext {
	t.Helper()

	store := google.NewFileTokenStoreAt(t.TempDir())
	auth := google.NewAuthenticatorWithConfig(&oauth2.Config{ClientID: "test"}, store)

	sc, err := server.NewServerContext(context.Background(), auth)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })

	if sources != nil {
		sc.SetMailSources(sources)
	}

	return sc
}

func newToolServer(t *testing.T, sc *server.ServerContext) *mcpserver.MCPServer {
	t.Helper()

	s := mcpserver.NewMCPServer("driveflow-test", "0.0.1", mcpserver.WithToolCapabilities(true))
	if err := RegisterEmailTools(s, sc); err != nil {
		t.Fatalf("RegisterEmailTools() error = %v", err)
	}
	return s
}

func callTool(t *testing.T, s *mcpserver.MCPServer, args map[string]interface{}) string {
	t.Helper()

	message, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/call",
		"params": map[string]interface{}{
			"name":      "send-file-email",
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

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	return path
}

func fullSettings() mailer.Settings {
	return mailer.Settings{
		Server:   "smtp.example.com",
		Port:     587,
		User:     "user@example.com",
		Password: "secret",
		Sender:   "sender@example.com",
	}
}

func TestSendFileEmailSendsContentAndAttachment(t *testing.T) {
	dialer := installFakeSender(t)
	sc := newTestContext(t, []mailer.Source{mailer.StaticSource{Values: fullSettings()}})
	s := newToolServer(t, sc)

	path := writeTestFile(t, "report.txt", "quarterly numbers")

	response := callTool(t, s, map[string]interface{}{
		"file_path": path,
		"to":        "alice@example.com",
		"subject":   "Report",
	})

	if strings.Contains(response, `"isError":true`) {
		t.Fatalf("unexpected tool error: %s", response)
	}
	if len(dialer.messages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(dialer.messages))
	}

	msg := dialer.messages[0]
	if to := msg.GetToString(); len(to) != 1 || !strings.Contains(to[0], "alice@example.com") {
		t.Errorf("To = %v, want alice", to)
	}
	if attachments := msg.GetAttachments(); len(attachments) != 1 || attachments[0].Name != "report.txt" {
		t.Errorf("attachments = %v, want report.txt", attachments)
	}
}

func TestSendFileEmailAcceptsRecipientArray(t *testing.T) {
	dialer := installFakeSender(t)
	sc := newTestContext(t, []mailer.Source{mailer.StaticSource{Values: fullSettings()}})
	s := newToolServer(t, sc)

	path := writeTestFile(t, "notes.txt", "hello")

	response := callTool(t, s, map[string]interface{}{
		"file_path": path,
		"to":        []interface{}{"alice@example.com", "bob@example.com"},
		"subject":   "Notes",
		"cc":        "carol@example.com, dave@example.com",
	})

	if strings.Contains(response, `"isError":true`) {
		t.Fatalf("unexpected tool error: %s", response)
	}
	msg := dialer.messages[0]
	if to := msg.GetToString(); len(to) != 2 {
		t.Errorf("To = %v, want two recipients", to)
	}
	if cc := msg.GetCcString(); len(cc) != 2 {
		t.Errorf("Cc = %v, want two recipients", cc)
	}
}

func TestSendFileEmailRequiresFile(t *testing.T) {
	dialer := installFakeSender(t)
	sc := newTestContext(t, []mailer.Source{mailer.StaticSource{Values: fullSettings()}})
	s := newToolServer(t, sc)

	response := callTool(t, s, map[string]interface{}{
		"file_path": filepath.Join(t.TempDir(), "missing.txt"),
		"to":        "alice@example.com",
		"subject":   "Report",
	})

	if !strings.Contains(response, "Failed to read file") {
		t.Errorf("expected file read error, got: %s", response)
	}
	if len(dialer.messages) != 0 {
		t.Errorf("dialer was called %d times, want 0", len(dialer.messages))
	}
}

func TestSendFileEmailNamesMissingSettings(t *testing.T) {
	dialer := installFakeSender(t)
	sc := newTestContext(t, []mailer.Source{mailer.StaticSource{}})
	s := newToolServer(t, sc)

	path := writeTestFile(t, "report.txt", "content")

	response := callTool(t, s, map[string]interface{}{
		"file_path": path,
		"to":        "alice@example.com",
		"subject":   "Report",
	})

	if !strings.Contains(response, "missing required email settings") {
		t.Errorf("expected settings error, got: %s", response)
	}
	if len(dialer.messages) != 0 {
		t.Errorf("dialer was called %d times, want 0", len(dialer.messages))
	}
}

func TestSendFileEmailCallOverridesWinOverSources(t *testing.T) {
	dialer := installFakeSender(t)
	sc := newTestContext(t, []mailer.Source{mailer.StaticSource{Values: fullSettings()}})
	s := newToolServer(t, sc)

	path := writeTestFile(t, "report.txt", "content")

	response := callTool(t, s, map[string]interface{}{
		"file_path":   path,
		"to":          "alice@example.com",
		"subject":     "Report",
		"smtp_server": "smtp.override.example",
		"smtp_port":   float64(2525),
	})

	if strings.Contains(response, `"isError":true`) {
		t.Fatalf("unexpected tool error: %s", response)
	}
	if dialer.settings.Server != "smtp.override.example" {
		t.Errorf("Server = %q, want override", dialer.settings.Server)
	}
	if dialer.settings.Port != 2525 {
		t.Errorf("Port = %d, want 2525", dialer.settings.Port)
	}
	// Fields without overrides still come from the configured source.
	if dialer.settings.User != "user@example.com" {
		t.Errorf("User = %q, want configured user", dialer.settings.User)
	}
}

func TestFileBodyBannersContent(t *testing.T) {
	body := mailer.FileBody("report.txt", "numbers")

	if !strings.HasPrefix(body, "File: report.txt\n") {
		t.Errorf("body missing filename header: %q", body)
	}
	if !strings.Contains(body, "FILE CONTENTS") || !strings.Contains(body, "numbers") {
		t.Errorf("body missing banner or content: %q", body)
	}
}
