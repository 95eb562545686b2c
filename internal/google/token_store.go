package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when no token has been stored for an account.
var ErrNoToken = errors.New("no stored token")

// TokenStore persists OAuth tokens per account. Implementations must be safe
// for concurrent use by multiple goroutines.
type TokenStore interface {
	// Load retrieves the token for the given account.
	// Returns ErrNoToken if no token has been stored.
	Load(account string) (*oauth2.Token, error)

	// Save persists the token for the given account, replacing any
	// previously stored token.
	Save(account string, token *oauth2.Token) error

	// Has reports whether a token exists for the given account.
	Has(account string) bool
}

// FileTokenStore stores tokens as JSON files in a directory, one file per
// account. This is the default store for local/stdio deployments.
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore creates a FileTokenStore rooted at the user cache
// directory (e.g. ~/.cache/driveflow on Linux).
func NewFileTokenStore() *FileTokenStore {
	return &FileTokenStore{dir: filepath.Join(userCacheDir(), "driveflow")}
}

// NewFileTokenStoreAt creates a FileTokenStore rooted at the given directory.
func NewFileTokenStoreAt(dir string) *FileTokenStore {
	return &FileTokenStore{dir: dir}
}

// Dir returns the directory token files are written to.
func (s *FileTokenStore) Dir() string {
	return s.dir
}

// Load reads and decodes the token file for the given account.
func (s *FileTokenStore) Load(account string) (*oauth2.Token, error) {
	path, err := s.tokenFilePath(account)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("account %s: %w", account, ErrNoToken)
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	if token.RefreshToken == "" && token.AccessToken == "" {
		return nil, fmt.Errorf("token file %s contains no usable token", path)
	}

	return &token, nil
}

// Save writes the token for the given account as JSON with owner-only
// permissions.
func (s *FileTokenStore) Save(account string, token *oauth2.Token) error {
	if token == nil {
		return fmt.Errorf("token is required")
	}

	path, err := s.tokenFilePath(account)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Has reports whether a token file exists for the given account.
func (s *FileTokenStore) Has(account string) bool {
	path, err := s.tokenFilePath(account)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// tokenFilePath returns the token file path for an account after validating
// the account name.
func (s *FileTokenStore) tokenFilePath(account string) (string, error) {
	if err := validateAccountName(account); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, "google-"+account+".json"), nil
}

// validateAccountName rejects account names that could escape the token
// directory or produce surprising file names.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name is required")
	}
	if len(account) > 64 {
		return fmt.Errorf("account name too long (max 64 characters)")
	}
	if strings.Contains(account, "..") {
		return fmt.Errorf("invalid account name %q", account)
	}
	for _, r := range account {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.' || r == '@':
		default:
			return fmt.Errorf("invalid character %q in account name", r)
		}
	}
	return nil
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
