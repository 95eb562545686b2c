package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driveflow/driveflow/internal/drive"
	"github.com/driveflow/driveflow/internal/server"
)

func newUploadCmd() *cobra.Command {
	var (
		folder          string
		account         string
		credentialsFile string
		tokenDir        string
	)

	cmd := &cobra.Command{
		Use:   "upload FILE",
		Short: "Upload a file to Google Drive",
		Long: `Upload a local file to Google Drive and print the created file ID and
view link. Useful as a smoke test that credentials and the stored token
work before wiring the server into an MCP client.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(args[0], folder, account, credentialsFile, tokenDir)
		},
	}

	cmd.Flags().StringVar(&folder, "folder", "", "Destination folder ID (default: Drive root)")
	cmd.Flags().StringVar(&account, "account", "default", "Google account to upload with")
	cmd.Flags().StringVar(&credentialsFile, "credentials", "", "Path to the Google OAuth client secret file. Can also use GOOGLE_CREDENTIALS_FILE env var (default: credentials.json)")
	cmd.Flags().StringVar(&tokenDir, "token-dir", "", "Directory for stored OAuth tokens (default: user cache directory)")

	return cmd
}

func runUpload(path, folder, account, credentialsFile, tokenDir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	auth, err := newAuthenticator(credentialsFile, tokenDir)
	if err != nil {
		return err
	}

	serverContext, err := server.NewServerContext(ctx, auth)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	client, err := serverContext.DriveClientForAccount(account)
	if err != nil {
		return err
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	name := filepath.Base(path)
	options := &drive.UploadOptions{
		MimeType: mime.TypeByExtension(filepath.Ext(name)),
	}
	if folder != "" {
		options.ParentFolders = []string{folder}
	}

	info, err := client.UploadFile(ctx, name, file, options)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Uploaded %s\n  ID:   %s\n  Link: %s\n", info.Name, info.ID, info.WebViewLink)
	return nil
}
