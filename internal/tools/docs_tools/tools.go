package docs_tools

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/docs"
	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/common"
)

// textExportFormats are the export formats returned as plain text
// instead of base64.
var textExportFormats = map[string]bool{
	"txt":  true,
	"html": true,
}

// RegisterDocsTools registers all Google Docs-related tools with the MCP server
func RegisterDocsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if !readOnly {
		registerCreateDocTool(s, sc)
		registerUpdateDocTool(s, sc)
		registerDeleteDocTool(s, sc)
	}

	registerSearchDocsTool(s, sc)
	registerExportDocTool(s, sc)

	return nil
}

func registerCreateDocTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("create-doc",
		mcp.WithDescription("Create a new Google Doc with an optional initial body"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the document"),
		),
		mcp.WithString("content",
			mcp.Description("Initial text content of the document"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		"create-doc", instrumentation.ServiceDocs, instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			title, ok := args["title"].(string)
			if !ok || title == "" {
				return mcp.NewToolResultError("title is required"), nil
			}

			content, _ := args["content"].(string)

			client, err := sc.DocsClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			info, err := client.Create(ctx, title, content)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create document: %v", err)), nil
			}

			result, _ := json.MarshalIndent(info, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Document created successfully:\n%s", string(result))), nil
		}))
}

func registerUpdateDocTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("update-doc",
		mcp.WithDescription("Update a Google Doc by appending to or replacing its body"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("doc_id",
			mcp.Required(),
			mcp.Description("The ID of the document to update"),
		),
		mcp.WithString("content",
			mcp.Required(),
			mcp.Description("The text to write"),
		),
		mcp.WithString("mode",
			mcp.Description("Update mode: 'append' adds to the end, 'replace' overwrites the body (default: append)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		"update-doc", instrumentation.ServiceDocs, instrumentation.OperationUpdate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			docID, ok := args["doc_id"].(string)
			if !ok || docID == "" {
				return mcp.NewToolResultError("doc_id is required"), nil
			}

			content, ok := args["content"].(string)
			if !ok || content == "" {
				return mcp.NewToolResultError("content is required"), nil
			}

			mode := "append"
			if modeVal, ok := args["mode"].(string); ok && modeVal != "" {
				mode = modeVal
			}
			if mode != "append" && mode != "replace" {
				return mcp.NewToolResultError(fmt.Sprintf("invalid mode %q: must be 'append' or 'replace'", mode)), nil
			}

			client, err := sc.DocsClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			switch mode {
			case "append":
				err = client.Append(ctx, docID, content)
			case "replace":
				err = client.ReplaceAll(ctx, docID, content)
			}
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to update document: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Document updated successfully (%s): %s", mode, docs.DocumentURL(docID))), nil
		}))
}

func registerSearchDocsTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("search-docs",
		mcp.WithDescription("Search Google Docs by full-text content"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The text to search for"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of documents to return (default: 10)"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		"search-docs", instrumentation.ServiceDocs, instrumentation.OperationSearch, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			query, ok := args["query"].(string)
			if !ok || query == "" {
				return mcp.NewToolResultError("query is required"), nil
			}

			maxResults := 0
			if maxVal, ok := args["max_results"].(float64); ok && maxVal > 0 {
				maxResults = int(maxVal)
			}

			client, err := sc.DocsClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			results, err := client.Search(ctx, query, maxResults)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to search documents: %v", err)), nil
			}

			if len(results) == 0 {
				return mcp.NewToolResultText(fmt.Sprintf("No documents found matching %q", query)), nil
			}

			result, _ := json.MarshalIndent(results, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Found %d document(s):\n%s", len(results), string(result))), nil
		}))
}

func registerDeleteDocTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("delete-doc",
		mcp.WithDescription("Delete a Google Doc"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("doc_id",
			mcp.Required(),
			mcp.Description("The ID of the document to delete"),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		"delete-doc", instrumentation.ServiceDocs, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			docID, ok := args["doc_id"].(string)
			if !ok || docID == "" {
				return mcp.NewToolResultError("doc_id is required"), nil
			}

			client, err := sc.DocsClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			title, err := client.Delete(ctx, docID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete document: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Document %q (%s) deleted successfully", title, docID)), nil
		}))
}

func registerExportDocTool(s *mcpserver.MCPServer, sc *server.ServerContext) {
	tool := mcp.NewTool("export-doc",
		mcp.WithDescription("Export a Google Doc to another format. Text formats (txt, html) are returned as text, binary formats as base64."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("doc_id",
			mcp.Required(),
			mcp.Description("The ID of the document to export"),
		),
		mcp.WithString("format",
			mcp.Required(),
			mcp.Description("The export format: "+strings.Join(docs.SupportedExportFormats(), ", ")),
		),
	)

	s.AddTool(tool, common.InstrumentedToolHandlerWithService(
		"export-doc", instrumentation.ServiceDocs, instrumentation.OperationExport, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			docID, ok := args["doc_id"].(string)
			if !ok || docID == "" {
				return mcp.NewToolResultError("doc_id is required"), nil
			}

			format, ok := args["format"].(string)
			if !ok || format == "" {
				return mcp.NewToolResultError("format is required"), nil
			}
			if _, supported := docs.ExportFormats[format]; !supported {
				return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q: supported formats are %s",
					format, strings.Join(docs.SupportedExportFormats(), ", "))), nil
			}

			client, err := sc.DocsClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			content, title, err := client.Export(ctx, docID, format)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to export document: %v", err)), nil
			}

			if textExportFormats[format] {
				return mcp.NewToolResultText(fmt.Sprintf("Document %q exported as %s:\n%s", title, format, string(content))), nil
			}

			encoded := base64.StdEncoding.EncodeToString(content)
			return mcp.NewToolResultText(fmt.Sprintf("Document %q exported as %s (base64, %d bytes):\n%s", title, format, len(content), encoded)), nil
		}))
}
