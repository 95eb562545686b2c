package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newAuthorizeCmd() *cobra.Command {
	var (
		account         string
		credentialsFile string
		tokenDir        string
	)

	cmd := &cobra.Command{
		Use:   "authorize",
		Short: "Authorize a Google account",
		Long: `Run the Google OAuth consent flow for an account and store the
resulting token on disk. The command starts a temporary local callback
server, prints the consent URL, and waits for the browser redirect.

Tokens are stored per account, so you can authorize several Google
accounts and pick one per tool call with the account argument.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuthorize(account, credentialsFile, tokenDir)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Account name to store the token under")
	cmd.Flags().StringVar(&credentialsFile, "credentials", "", "Path to the Google OAuth client secret file. Can also use GOOGLE_CREDENTIALS_FILE env var (default: credentials.json)")
	cmd.Flags().StringVar(&tokenDir, "token-dir", "", "Directory for stored OAuth tokens (default: user cache directory)")

	return cmd
}

func runAuthorize(account, credentialsFile, tokenDir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	auth, err := newAuthenticator(credentialsFile, tokenDir)
	if err != nil {
		return err
	}

	err = auth.Authorize(ctx, account, func(url string) {
		fmt.Printf("Open the following URL in your browser to authorize %q:\n\n%s\n\n", account, url)
		fmt.Println("Waiting for authorization...")
	})
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	fmt.Printf("Account %q authorized successfully.\n", account)
	return nil
}
