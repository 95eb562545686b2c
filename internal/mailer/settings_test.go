package mailer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestResolvePrecedence(t *testing.T) {
	configPath := writeConfig(t, `{
		"email": {
			"smtp_server": "smtp.config.example.com",
			"smtp_port": 587,
			"smtp_user": "config-user",
			"smtp_password": "config-pass"
		}
	}`)

	t.Setenv("SMTP_SERVER", "smtp.env.example.com")
	t.Setenv("SMTP_PORT", "25")
	t.Setenv("SMTP_USER", "env-user")
	t.Setenv("SMTP_PASSWORD", "env-pass")
	t.Setenv("SENDER_EMAIL", "env-sender@example.com")

	t.Run("config file wins over environment", func(t *testing.T) {
		settings, err := Resolve(FileSource{Path: configPath}, EnvSource{})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if settings.Server != "smtp.config.example.com" {
			t.Errorf("Server = %q, want config value", settings.Server)
		}
		if settings.Port != 587 {
			t.Errorf("Port = %d, want 587", settings.Port)
		}
		// Sender is absent from the config file, so the environment
		// fills it in.
		if settings.Sender != "env-sender@example.com" {
			t.Errorf("Sender = %q, want environment value", settings.Sender)
		}
	})

	t.Run("explicit overrides win over both", func(t *testing.T) {
		override := StaticSource{Values: Settings{
			Server: "smtp.override.example.com",
			User:   "override-user",
		}}
		settings, err := Resolve(override, FileSource{Path: configPath}, EnvSource{})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if settings.Server != "smtp.override.example.com" {
			t.Errorf("Server = %q, want override value", settings.Server)
		}
		if settings.User != "override-user" {
			t.Errorf("User = %q, want override value", settings.User)
		}
		if settings.Password != "config-pass" {
			t.Errorf("Password = %q, want config value", settings.Password)
		}
	})
}

func TestResolveSenderDefaultsToUser(t *testing.T) {
	settings, err := Resolve(StaticSource{Values: Settings{
		Server:   "smtp.example.com",
		Port:     587,
		User:     "user@example.com",
		Password: "secret",
	}})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if settings.Sender != "user@example.com" {
		t.Errorf("Sender = %q, want the SMTP user", settings.Sender)
	}
}

func TestResolveNamesAllMissingSettings(t *testing.T) {
	_, err := Resolve(StaticSource{Values: Settings{Server: "smtp.example.com"}})
	if err == nil {
		t.Fatal("Resolve() with missing settings should fail")
	}

	for _, want := range []string{"smtp_port", "smtp_user", "smtp_password"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if strings.Contains(err.Error(), "smtp_server") {
		t.Errorf("error %q should not name the provided server setting", err)
	}
}

func TestFileSourceMissingFileIsEmpty(t *testing.T) {
	settings, err := (FileSource{Path: filepath.Join(t.TempDir(), "nope.json")}).Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if settings != (Settings{}) {
		t.Errorf("Settings() = %+v, want zero value", settings)
	}
}

func TestFileSourceRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	if _, err := (FileSource{Path: path}).Settings(); err == nil {
		t.Error("Settings() with malformed JSON should fail")
	}
}

func TestEnvSourceParsesPortAndTLS(t *testing.T) {
	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USE_TLS", "false")

	settings, err := (EnvSource{}).Settings()
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if settings.Port != 2525 {
		t.Errorf("Port = %d, want 2525", settings.Port)
	}
	if settings.UseTLS == nil || *settings.UseTLS {
		t.Errorf("UseTLS = %v, want false", settings.UseTLS)
	}
}

func TestEnvSourceRejectsInvalidPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	if _, err := (EnvSource{}).Settings(); err == nil {
		t.Error("Settings() with invalid port should fail")
	}
}
