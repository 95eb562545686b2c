package mailer

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings holds SMTP connection settings. Zero-valued fields are
// treated as unset during resolution.
type Settings struct {
	// Server is the SMTP server hostname
	Server string
	// Port is the SMTP server port
	Port int
	// User is the SMTP username
	User string
	// Password is the SMTP password
	Password string
	// Sender is the From address. Defaults to User when unset.
	Sender string
	// UseTLS controls transport encryption. Nil means unset, in which
	// case TLS is enabled.
	UseTLS *bool
}

// Source provides SMTP settings from one configuration origin
type Source interface {
	// Settings returns the settings this source can provide. Fields the
	// source does not know stay at their zero value.
	Settings() (Settings, error)
}

// StaticSource wraps fixed settings, typically per-call overrides
type StaticSource struct {
	Values Settings
}

func (s StaticSource) Settings() (Settings, error) {
	return s.Values, nil
}

// FileSource reads SMTP settings from the "email" section of a JSON
// config file. A missing file is not an error, it simply provides
// nothing.
type FileSource struct {
	Path string
}

func (s FileSource) Settings() (Settings, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", s.Path, err)
	}

	var config struct {
		Email struct {
			Server   string `json:"smtp_server"`
			Port     int    `json:"smtp_port"`
			User     string `json:"smtp_user"`
			Password string `json:"smtp_password"`
			Sender   string `json:"sender_email"`
			UseTLS   *bool  `json:"use_tls"`
		} `json:"email"`
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file %s: %w", s.Path, err)
	}

	return Settings{
		Server:   config.Email.Server,
		Port:     config.Email.Port,
		User:     config.Email.User,
		Password: config.Email.Password,
		Sender:   config.Email.Sender,
		UseTLS:   config.Email.UseTLS,
	}, nil
}

// EnvSource reads SMTP settings from environment variables
type EnvSource struct{}

func (EnvSource) Settings() (Settings, error) {
	settings := Settings{
		Server:   os.Getenv("SMTP_SERVER"),
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		Sender:   os.Getenv("SENDER_EMAIL"),
	}

	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid SMTP_PORT %q: %w", raw, err)
		}
		settings.Port = port
	}

	if raw := os.Getenv("SMTP_USE_TLS"); raw != "" {
		useTLS, err := strconv.ParseBool(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("invalid SMTP_USE_TLS %q: %w", raw, err)
		}
		settings.UseTLS = &useTLS
	}

	return settings, nil
}

// DefaultConfigFile returns the path to the JSON config file, honoring
// the DRIVEFLOW_CONFIG environment variable
func DefaultConfigFile() string {
	if path := os.Getenv("DRIVEFLOW_CONFIG"); path != "" {
		return path
	}
	return "config.json"
}

// DefaultSources returns the standard non-override sources in
// precedence order: config file first, then environment
func DefaultSources() []Source {
	return []Source{
		FileSource{Path: DefaultConfigFile()},
		EnvSource{},
	}
}

// Resolve merges settings from the given sources, earlier sources
// winning field by field, and validates the result. The sender defaults
// to the SMTP user. The returned error names every missing setting.
func Resolve(sources ...Source) (Settings, error) {
	var merged Settings

	for _, source := range sources {
		settings, err := source.Settings()
		if err != nil {
			return Settings{}, err
		}

		if merged.Server == "" {
			merged.Server = settings.Server
		}
		if merged.Port == 0 {
			merged.Port = settings.Port
		}
		if merged.User == "" {
			merged.User = settings.User
		}
		if merged.Password == "" {
			merged.Password = settings.Password
		}
		if merged.Sender == "" {
			merged.Sender = settings.Sender
		}
		if merged.UseTLS == nil {
			merged.UseTLS = settings.UseTLS
		}
	}

	if merged.Sender == "" {
		merged.Sender = merged.User
	}

	var missing []string
	if merged.Server == "" {
		missing = append(missing, "smtp_server")
	}
	if merged.Port == 0 {
		missing = append(missing, "smtp_port")
	}
	if merged.User == "" {
		missing = append(missing, "smtp_user")
	}
	if merged.Password == "" {
		missing = append(missing, "smtp_password")
	}
	if merged.Sender == "" {
		missing = append(missing, "sender_email")
	}
	if len(missing) > 0 {
		return Settings{}, fmt.Errorf("missing required email settings: %s (set them via tool arguments, the config file, or environment variables)", strings.Join(missing, ", "))
	}

	return merged, nil
}
