// Package email_tools provides the send-file-email MCP tool, which
// reads a local file and mails its content inline plus as an
// attachment over SMTP.
//
// SMTP settings resolve in priority order: per-call arguments, then
// the JSON config file, then environment variables. See the mailer
// package for details.
package email_tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/mailer"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/batch"
	"github.com/driveflow/driveflow/internal/tools/common"
)

// newSender builds the sender from resolved settings. Tests replace it
// with a constructor that records instead of dialing out.
var newSender = func(settings mailer.Settings) *mailer.Sender {
	return mailer.NewSender(settings)
}

// settingsOverridesFromArgs collects per-call SMTP settings from the
// tool arguments. Returns a zero Settings when nothing was overridden.
func settingsOverridesFromArgs(args map[string]interface{}) mailer.Settings {
	var overrides mailer.Settings

	if serverVal, ok := args["smtp_server"].(string); ok && serverVal != "" {
		overrides.Server = serverVal
	}
	if portVal, ok := args["smtp_port"].(float64); ok && portVal > 0 {
		overrides.Port = int(portVal)
	}
	if userVal, ok := args["smtp_user"].(string); ok && userVal != "" {
		overrides.User = userVal
	}
	if passwordVal, ok := args["smtp_password"].(string); ok && passwordVal != "" {
		overrides.Password = passwordVal
	}
	if senderVal, ok := args["sender_email"].(string); ok && senderVal != "" {
		overrides.Sender = senderVal
	}
	if tlsVal, ok := args["use_tls"].(bool); ok {
		overrides.UseTLS = &tlsVal
	}

	return overrides
}

// RegisterEmailTools registers email tools with the MCP server
func RegisterEmailTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	tool := mcp.NewTool("send-file-email",
		mcp.WithDescription("Send the contents of a local file by email, inline and as an attachment"),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Path to the file whose contents will be sent"),
		),
		mcp.WithString("to",
			mcp.Required(),
			mcp.Description("Recipient email address, or an array of addresses"),
		),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Email subject"),
		),
		mcp.WithString("cc",
			mcp.Description("Comma-separated list of CC recipient addresses"),
		),
		mcp.WithString("body",
			mcp.Description("Custom body text replacing the default file content banner"),
		),
		mcp.WithString("smtp_server",
			mcp.Description("SMTP server override for this call"),
		),
		mcp.WithNumber("smtp_port",
			mcp.Description("SMTP port override for this call"),
		),
		mcp.WithString("smtp_user",
			mcp.Description("SMTP user override for this call"),
		),
		mcp.WithString("smtp_password",
			mcp.Description("SMTP password override for this call"),
		),
		mcp.WithString("sender_email",
			mcp.Description("Sender address override for this call"),
		),
		mcp.WithBoolean("use_tls",
			mcp.Description("Whether to use STARTTLS (default: true)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandler("send-file-email", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()

			filePath, ok := args["file_path"].(string)
			if !ok || filePath == "" {
				return mcp.NewToolResultError("file_path is required"), nil
			}

			to, err := batch.ParseStringOrArray(args["to"], "to")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			subject, ok := args["subject"].(string)
			if !ok || subject == "" {
				return mcp.NewToolResultError("subject is required"), nil
			}

			var cc []string
			if ccStr, ok := args["cc"].(string); ok && ccStr != "" {
				cc = common.ParseCommaSeparatedList(ccStr)
			}

			content, err := os.ReadFile(filePath)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to read file: %v", err)), nil
			}
			filename := filepath.Base(filePath)

			body := mailer.FileBody(filename, string(content))
			if bodyVal, ok := args["body"].(string); ok && bodyVal != "" {
				body = bodyVal
			}

			overrides := settingsOverridesFromArgs(args)
			sources := append([]mailer.Source{mailer.StaticSource{Values: overrides}}, sc.MailSources()...)
			settings, err := mailer.Resolve(sources...)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			message := &mailer.Message{
				To:      to,
				Cc:      cc,
				Subject: subject,
				Body:    body,
				Attachments: []mailer.Attachment{
					{Filename: filename, Content: content},
				},
			}

			start := time.Now()
			sendCtx, span := instrumentation.StartSMTPSpan(ctx)
			err = newSender(settings).Send(sendCtx, message)
			if err != nil {
				instrumentation.SetSpanError(span, err)
			} else {
				instrumentation.SetSpanSuccess(span)
			}
			span.End()
			if metrics := sc.Metrics(); metrics != nil {
				status := instrumentation.StatusSuccess
				if err != nil {
					status = instrumentation.StatusError
				}
				metrics.RecordEmailSend(ctx, status, time.Since(start))
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to send email: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Email sent successfully!\n\nTo: %v\nSubject: %s\nFile: %s", to, subject, filename)), nil
		}))

	return nil
}
