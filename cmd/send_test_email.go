package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/driveflow/driveflow/internal/mailer"
)

func newSendTestEmailCmd() *cobra.Command {
	var (
		to         string
		filePath   string
		subject    string
		configFile string
	)

	cmd := &cobra.Command{
		Use:   "send-test-email",
		Short: "Send a test email to verify SMTP settings",
		Long: `Send a single email using the configured SMTP settings to verify
that the config file or environment variables are correct. With --file,
the file contents are included in the body and the file is attached,
matching what the send-file-email tool produces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSendTestEmail(to, filePath, subject, configFile)
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Recipient address, comma-separated for multiple (required)")
	cmd.Flags().StringVar(&filePath, "file", "", "File to attach and include in the body")
	cmd.Flags().StringVar(&subject, "subject", "driveflow test email", "Email subject")
	cmd.Flags().StringVar(&configFile, "config", "", "Path to the JSON config file with email settings. Can also use DRIVEFLOW_CONFIG env var (default: config.json)")
	cmd.MarkFlagRequired("to")

	return cmd
}

func runSendTestEmail(to, filePath, subject, configFile string) error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sources := mailer.DefaultSources()
	if configFile != "" {
		sources = []mailer.Source{
			mailer.FileSource{Path: configFile},
			mailer.EnvSource{},
		}
	}

	settings, err := mailer.Resolve(sources...)
	if err != nil {
		return err
	}

	message := &mailer.Message{
		To:      parseCommaSeparatedList(to),
		Subject: subject,
		Body:    "This is a test email to verify the SMTP configuration.\n",
	}

	if filePath != "" {
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filePath, err)
		}
		name := filepath.Base(filePath)
		message.Body = mailer.FileBody(name, string(content))
		message.Attachments = []mailer.Attachment{{Filename: name, Content: content}}
	}

	if err := mailer.NewSender(settings).Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send test email: %w", err)
	}

	fmt.Printf("Test email sent to %s via %s:%d\n", to, settings.Server, settings.Port)
	return nil
}

func parseCommaSeparatedList(raw string) []string {
	var recipients []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			recipients = append(recipients, trimmed)
		}
	}
	return recipients
}
