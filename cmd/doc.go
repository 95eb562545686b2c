// Package cmd implements the command-line interface for driveflow.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing Google Drive, Docs, and email tools
//   - authorize: Run the interactive Google OAuth consent flow for an account
//   - upload: Upload a local file to Google Drive as a smoke test
//   - send-test-email: Send a file by email to verify the SMTP configuration
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
