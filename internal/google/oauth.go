package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// RefreshResult values passed to the refresh callback.
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
)

// DefaultCredentialsFile returns the path to the OAuth client secret file.
// The GOOGLE_CREDENTIALS_FILE environment variable overrides the default
// of "credentials.json" in the working directory.
func DefaultCredentialsFile() string {
	if path := os.Getenv("GOOGLE_CREDENTIALS_FILE"); path != "" {
		return path
	}
	return "credentials.json"
}

// Authenticator manages OAuth tokens for Google APIs. It combines the OAuth
// client configuration from a client secret file with a TokenStore for
// per-account token persistence.
type Authenticator struct {
	conf  *oauth2.Config
	store TokenStore

	// onRefresh, if set, is called with RefreshSuccess or RefreshFailure
	// whenever an access token refresh is observed.
	onRefresh func(result string)

	mu sync.Mutex
}

// NewAuthenticator creates an Authenticator from a client secret JSON file.
// Returns an actionable error if the file is missing or malformed.
func NewAuthenticator(credentialsFile string, store TokenStore) (*Authenticator, error) {
	if store == nil {
		return nil, fmt.Errorf("token store is required")
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret file %s (download it from the Google Cloud console): %w", credentialsFile, err)
	}

	conf, err := google.ConfigFromJSON(data, DefaultOAuthScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret file %s: %w", credentialsFile, err)
	}

	return &Authenticator{conf: conf, store: store}, nil
}

// NewAuthenticatorWithConfig creates an Authenticator from an existing OAuth
// configuration. Used by tests and callers that build the config themselves.
func NewAuthenticatorWithConfig(conf *oauth2.Config, store TokenStore) *Authenticator {
	return &Authenticator{conf: conf, store: store}
}

// SetRefreshCallback registers a callback invoked after each observed token
// refresh. Used to record refresh metrics without coupling this package to
// the instrumentation layer.
func (a *Authenticator) SetRefreshCallback(fn func(result string)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onRefresh = fn
}

// HasToken reports whether a stored token exists for the account.
func (a *Authenticator) HasToken(account string) bool {
	return a.store.Has(account)
}

// AuthURL returns the authorization URL for the out-of-band (code paste)
// flow for the given account.
func (a *Authenticator) AuthURL(account string) string {
	conf := a.oobConfig()
	return conf.AuthCodeURL(account, oauth2.AccessTypeOffline)
}

// SaveAuthCode exchanges an authorization code from the out-of-band flow and
// persists the resulting token for the account.
func (a *Authenticator) SaveAuthCode(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	if authCode == "" {
		return fmt.Errorf("authorization code is required")
	}

	conf := a.oobConfig()
	token, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return a.store.Save(account, token)
}

// TokenSource returns a token source for the account. Expired access tokens
// are refreshed transparently and refreshed tokens are written back to the
// store so later processes reuse them.
// Returns an error wrapping ErrNoToken if the account has never authorized.
func (a *Authenticator) TokenSource(ctx context.Context, account string) (oauth2.TokenSource, error) {
	token, err := a.store.Load(account)
	if err != nil {
		return nil, err
	}

	return &persistingTokenSource{
		inner:   a.conf.TokenSource(ctx, token),
		store:   a.store,
		account: account,
		last:    token.AccessToken,
		notify:  a.refreshCallback(),
	}, nil
}

// HTTPClient returns an HTTP client that authenticates requests for the
// account. The client is configured to use HTTP/1.1 to avoid HTTP/2
// protocol errors with the Google APIs.
func (a *Authenticator) HTTPClient(ctx context.Context, account string) (*http.Client, error) {
	ts, err := a.TokenSource(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	return client, nil
}

func (a *Authenticator) refreshCallback() func(result string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.onRefresh
}

// oobConfig returns a copy of the OAuth config with the out-of-band redirect
// URL set, for the code paste flow used by the MCP auth tools.
func (a *Authenticator) oobConfig() *oauth2.Config {
	conf := *a.conf
	conf.RedirectURL = "urn:ietf:wg:oauth:2.0:oob"
	return &conf
}

// AuthenticationErrorMessage returns a user-facing message explaining how to
// authorize the given account.
func AuthenticationErrorMessage(account string) string {
	return fmt.Sprintf(`No Google OAuth token found for account %q.

To authorize, either:
  - Run: driveflow authorize --account %s
  - Or call the google-get-auth-url tool, visit the URL, and pass the code
    to google-save-auth-code`, account, account)
}

// persistingTokenSource wraps an oauth2.TokenSource and saves the token back
// to the store whenever the access token changes (i.e. after a refresh).
// The underlying source already caches valid tokens, so an expired token
// triggers exactly one refresh round trip.
type persistingTokenSource struct {
	inner   oauth2.TokenSource
	store   TokenStore
	account string
	notify  func(result string)

	mu   sync.Mutex
	last string
}

// Token returns a valid token, refreshing and persisting it if needed.
func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.inner.Token()
	if err != nil {
		if s.notify != nil {
			s.notify(RefreshFailure)
		}
		return nil, fmt.Errorf("failed to refresh token for account %s: %w", s.account, err)
	}

	s.mu.Lock()
	changed := token.AccessToken != s.last
	if changed {
		s.last = token.AccessToken
	}
	s.mu.Unlock()

	if changed {
		if err := s.store.Save(s.account, token); err != nil {
			// The token is still valid for this process; persisting it is
			// best effort.
			if s.notify != nil {
				s.notify(RefreshFailure)
			}
			return token, nil
		}
		if s.notify != nil {
			s.notify(RefreshSuccess)
		}
	}

	return token, nil
}
