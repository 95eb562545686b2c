package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/google"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/docs_tools"
	"github.com/driveflow/driveflow/internal/tools/drive_tools"
	"github.com/driveflow/driveflow/internal/tools/email_tools"
	"github.com/driveflow/driveflow/internal/tools/google_tools"
)

func newGenerateDocsCmd() *cobra.Command {
	var (
		outputFile string
	)

	cmd := &cobra.Command{
		Use:   "generate-docs",
		Short: "Generate MCP tool documentation",
		Long: `Generate markdown documentation for all available MCP tools.
This command introspects the registered tools and outputs their documentation
in markdown format, ensuring the documentation is always accurate and in sync
with the actual tool implementations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateDocs(outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

// toolCategory pairs a section title with the registration function
// that produces its tools.
type toolCategory struct {
	title    string
	register func(*mcpserver.MCPServer, *server.ServerContext) error
}

func toolCategories() []toolCategory {
	return []toolCategory{
		{
			title: "Google Drive Tools",
			register: func(s *mcpserver.MCPServer, sc *server.ServerContext) error {
				return drive_tools.RegisterDriveTools(s, sc, false)
			},
		},
		{
			title: "Google Docs Tools",
			register: func(s *mcpserver.MCPServer, sc *server.ServerContext) error {
				return docs_tools.RegisterDocsTools(s, sc, false)
			},
		},
		{
			title:    "Email Tools",
			register: email_tools.RegisterEmailTools,
		},
		{
			title:    "Authorization Tools",
			register: google_tools.RegisterGoogleTools,
		},
	}
}

func runGenerateDocs(outputFile string) error {
	// Doc generation only needs the tool schemas, no real credentials.
	auth := google.NewAuthenticatorWithConfig(&oauth2.Config{}, google.NewFileTokenStore())

	serverContext, err := server.NewServerContext(context.Background(), auth)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		_ = serverContext.Shutdown()
	}()

	var sb strings.Builder
	sb.WriteString("# MCP Tools Reference\n\n")
	sb.WriteString("This document provides a complete reference of all tools available when running driveflow as an MCP server.\n\n")
	sb.WriteString("**Note:** This documentation is automatically generated from the tool definitions.\n\n")

	sb.WriteString("## Multi-Account Support\n\n")
	sb.WriteString("All Google-related MCP tools support an optional `account` parameter to specify which Google account to use:\n\n")
	sb.WriteString("- **Default behavior:** If `account` is not specified, the `default` account is used\n")
	sb.WriteString("- **Multiple accounts:** You can manage multiple Google accounts (e.g., `work`, `personal`)\n")
	sb.WriteString("- **Per-tool specification:** Each tool call can use a different account\n\n")

	// Register each category into its own server so tools stay grouped
	// the way they are registered.
	for _, category := range toolCategories() {
		mcpSrv := mcpserver.NewMCPServer("driveflow", version,
			mcpserver.WithToolCapabilities(true),
		)
		if err := category.register(mcpSrv, serverContext); err != nil {
			return fmt.Errorf("failed to register %s: %w", category.title, err)
		}

		serverTools := mcpSrv.ListTools()
		tools := make([]mcp.Tool, 0, len(serverTools))
		for _, serverTool := range serverTools {
			tools = append(tools, serverTool.Tool)
		}
		sort.Slice(tools, func(i, j int) bool {
			return tools[i].Name < tools[j].Name
		})

		sb.WriteString(fmt.Sprintf("## %s\n\n", category.title))
		for _, tool := range tools {
			sb.WriteString(generateToolMarkdown(tool))
			sb.WriteString("\n")
		}
	}

	markdown := sb.String()
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(markdown), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Documentation written to: %s\n", outputFile)
	} else {
		fmt.Print(markdown)
	}

	return nil
}

func generateToolMarkdown(tool mcp.Tool) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("### %s\n\n", tool.Name))

	if tool.Description != "" {
		sb.WriteString(fmt.Sprintf("%s\n\n", tool.Description))
	}

	if len(tool.InputSchema.Properties) > 0 {
		sb.WriteString("**Arguments:**\n")

		propNames := make([]string, 0, len(tool.InputSchema.Properties))
		for name := range tool.InputSchema.Properties {
			propNames = append(propNames, name)
		}
		sort.Strings(propNames)

		for _, name := range propNames {
			requiredStr := "optional"
			if contains(tool.InputSchema.Required, name) {
				requiredStr = "required"
			}

			propMap, ok := tool.InputSchema.Properties[name].(map[string]interface{})
			if !ok {
				continue
			}

			sb.WriteString(fmt.Sprintf("- `%s` (%s): ", name, requiredStr))
			if desc, ok := propMap["description"].(string); ok {
				sb.WriteString(desc)
			} else if propType, ok := propMap["type"].(string); ok {
				sb.WriteString(fmt.Sprintf("%s parameter", propType))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
