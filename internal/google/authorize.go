package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Authorize runs the interactive loopback consent flow for the account.
// It starts a listener on a random localhost port, prints the consent URL
// via the returned prompt function, waits for Google to redirect back with
// an authorization code, exchanges it, and persists the token.
//
// The prompt function receives the URL the user must open in a browser.
func (a *Authenticator) Authorize(ctx context.Context, account string, prompt func(url string)) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("failed to start local callback listener: %w", err)
	}
	defer listener.Close()

	conf := *a.conf
	conf.RedirectURL = fmt.Sprintf("http://%s/callback", listener.Addr().String())

	state, err := randomState()
	if err != nil {
		return err
	}

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		if errMsg := r.URL.Query().Get("error"); errMsg != "" {
			http.Error(w, "Authorization failed: "+errMsg, http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("authorization denied: %s", errMsg)}
			return
		}
		if r.URL.Query().Get("state") != state {
			http.Error(w, "State mismatch. Please restart the authorization.", http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("state parameter mismatch")}
			return
		}
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "No authorization code received.", http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("no authorization code in callback")}
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h1>Authorization successful</h1><p>You can close this window and return to the terminal.</p></body></html>")
		results <- callback{code: code}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			slog.Error("callback server stopped", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	prompt(conf.AuthCodeURL(state, oauth2.AccessTypeOffline))

	var result callback
	select {
	case result = <-results:
	case <-ctx.Done():
		return ctx.Err()
	}
	if result.err != nil {
		return result.err
	}

	token, err := conf.Exchange(ctx, result.code)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	if err := a.store.Save(account, token); err != nil {
		return err
	}

	slog.Info("authorization complete", "account", account)
	return nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
