package google

import (
	"context"
	"strings"
	"sync"
	"testing"

	"golang.org/x/oauth2"
)

// memTokenStore is an in-memory TokenStore for tests.
type memTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*oauth2.Token
	saves  int
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{tokens: make(map[string]*oauth2.Token)}
}

func (s *memTokenStore) Load(account string) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[account]
	if !ok {
		return nil, ErrNoToken
	}
	return token, nil
}

func (s *memTokenStore) Save(account string, token *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[account] = token
	s.saves++
	return nil
}

func (s *memTokenStore) Has(account string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tokens[account]
	return ok
}

// countingTokenSource hands out a fixed token and counts calls.
type countingTokenSource struct {
	token *oauth2.Token
	calls int
}

func (c *countingTokenSource) Token() (*oauth2.Token, error) {
	c.calls++
	return c.token, nil
}

func TestPersistingTokenSourceSavesOnRefresh(t *testing.T) {
	store := newMemTokenStore()
	refreshed := &oauth2.Token{AccessToken: "new-access", RefreshToken: "refresh"}
	inner := &countingTokenSource{token: refreshed}

	var results []string
	ts := &persistingTokenSource{
		inner:   inner,
		store:   store,
		account: "default",
		last:    "old-access",
		notify:  func(result string) { results = append(results, result) },
	}

	token, err := ts.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.AccessToken != "new-access" {
		t.Errorf("AccessToken = %q, want new-access", token.AccessToken)
	}
	if store.saves != 1 {
		t.Errorf("store saves = %d, want 1", store.saves)
	}
	if len(results) != 1 || results[0] != RefreshSuccess {
		t.Errorf("refresh notifications = %v, want [success]", results)
	}

	// A second call with the same access token must not save again.
	if _, err := ts.Token(); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("store saves after unchanged token = %d, want 1", store.saves)
	}
	if inner.calls != 2 {
		t.Errorf("inner source calls = %d, want 2", inner.calls)
	}
}

func TestPersistingTokenSourceUnchangedTokenNoSave(t *testing.T) {
	store := newMemTokenStore()
	inner := &countingTokenSource{token: &oauth2.Token{AccessToken: "same"}}

	ts := &persistingTokenSource{
		inner:   inner,
		store:   store,
		account: "default",
		last:    "same",
	}

	if _, err := ts.Token(); err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if store.saves != 0 {
		t.Errorf("store saves = %d, want 0 for unchanged token", store.saves)
	}
}

func TestAuthenticatorTokenSourceRequiresStoredToken(t *testing.T) {
	auth := NewAuthenticatorWithConfig(&oauth2.Config{ClientID: "id"}, newMemTokenStore())

	if _, err := auth.TokenSource(context.Background(), "default"); err == nil {
		t.Error("TokenSource() without stored token should fail")
	}
}

func TestAuthURLCarriesAccountState(t *testing.T) {
	conf := &oauth2.Config{
		ClientID: "client-id",
		Endpoint: oauth2.Endpoint{AuthURL: "https://accounts.example.com/auth"},
	}
	auth := NewAuthenticatorWithConfig(conf, newMemTokenStore())

	url := auth.AuthURL("work")
	if !strings.Contains(url, "state=work") {
		t.Errorf("AuthURL() = %q, want state=work", url)
	}
	if !strings.Contains(url, "access_type=offline") {
		t.Errorf("AuthURL() = %q, want access_type=offline", url)
	}
}

func TestAuthenticationErrorMessage(t *testing.T) {
	msg := AuthenticationErrorMessage("work")
	if !strings.Contains(msg, "work") {
		t.Errorf("message should name the account: %s", msg)
	}
	if !strings.Contains(msg, "authorize") {
		t.Errorf("message should point at the authorize command: %s", msg)
	}
}
