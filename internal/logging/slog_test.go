package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"regular email", "alice@example.com"},
		{"another email", "bob@example.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if !strings.HasPrefix(got, "user:") {
				t.Errorf("AnonymizeEmail(%q) = %q, want user: prefix", tt.email, got)
			}
			if strings.Contains(got, tt.email) {
				t.Errorf("AnonymizeEmail(%q) = %q, leaks the address", tt.email, got)
			}
			if got != AnonymizeEmail(tt.email) {
				t.Errorf("AnonymizeEmail(%q) is not deterministic", tt.email)
			}
		})
	}

	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, want empty", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken(""); got != "<empty>" {
		t.Errorf("SanitizeToken(\"\") = %q, want <empty>", got)
	}

	token := "ya29.secret-token-value"
	got := SanitizeToken(token)
	if strings.Contains(got, "secret") {
		t.Errorf("SanitizeToken() = %q, leaks token content", got)
	}
	if !strings.Contains(got, "23") {
		t.Errorf("SanitizeToken() = %q, want length indicator", got)
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"alice@example.com", "example.com"},
		{"no-at-sign", ""},
		{"", ""},
		{"two@at@signs", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.email); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestErrOmitsNilError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("operation done", Err(nil))
	if strings.Contains(buf.String(), "error") {
		t.Errorf("log output %q should not contain an error attribute", buf.String())
	}

	buf.Reset()
	logger.Info("operation failed", Err(errors.New("boom")))
	if !strings.Contains(buf.String(), "error=boom") {
		t.Errorf("log output %q missing error attribute", buf.String())
	}
}

func TestWithHelpersAttachAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	WithTool(WithAccount(logger, "work"), "create-doc").Info("called")

	out := buf.String()
	if !strings.Contains(out, "account=work") {
		t.Errorf("log output %q missing account attribute", out)
	}
	if !strings.Contains(out, "tool=create-doc") {
		t.Errorf("log output %q missing tool attribute", out)
	}
}
