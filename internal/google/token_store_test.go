package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"simple name", "default", false},
		{"email address", "jane@example.com", false},
		{"with dash and underscore", "work_account-2", false},
		{"empty", "", true},
		{"path traversal", "../etc/passwd", true},
		{"forward slash", "a/b", true},
		{"backslash", "a\\b", true},
		{"null byte", "a\x00b", true},
		{"too long", string(make([]byte, 65)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	store := NewFileTokenStoreAt(t.TempDir())

	assert.False(t, store.Has("default"))
	_, err := store.Load("default")
	assert.ErrorIs(t, err, ErrNoToken)

	token := &oauth2.Token{
		AccessToken:  "access-123",
		RefreshToken: "refresh-456",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Truncate(time.Second),
	}
	require.NoError(t, store.Save("default", token))

	assert.True(t, store.Has("default"))

	loaded, err := store.Load("default")
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, loaded.AccessToken)
	assert.Equal(t, token.RefreshToken, loaded.RefreshToken)
	assert.True(t, loaded.Expiry.Equal(token.Expiry), "Expiry = %v, want %v", loaded.Expiry, token.Expiry)
}

func TestFileTokenStoreAccountsAreIsolated(t *testing.T) {
	store := NewFileTokenStoreAt(t.TempDir())

	require.NoError(t, store.Save("work", &oauth2.Token{AccessToken: "a", RefreshToken: "r"}))

	assert.False(t, store.Has("personal"))
	_, err := store.Load("personal")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileTokenStoreRejectsInvalidAccount(t *testing.T) {
	store := NewFileTokenStoreAt(t.TempDir())

	assert.Error(t, store.Save("../escape", &oauth2.Token{AccessToken: "a"}))
	assert.False(t, store.Has("../escape"))
}
