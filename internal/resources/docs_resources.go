package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/server"
)

const docsListURI = "googledocs://list"

// RegisterDocsResources registers Google Docs resources with the MCP server
func RegisterDocsResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listResource := mcp.NewResource(
		docsListURI,
		"Google Docs",
		mcp.WithResourceDescription("Recently modified Google Docs"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(listResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleDocsList(ctx, request, sc)
	})

	docTemplate := mcp.NewResourceTemplate(
		"googledocs://{docID}",
		"Google Doc Content",
		mcp.WithTemplateDescription("The plain text content of a Google Doc"),
		mcp.WithTemplateMIMEType("text/plain"),
	)

	s.AddResourceTemplate(docTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleDocContent(ctx, request, sc)
	})

	return nil
}

func handleDocsList(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	client, err := sc.DocsClient()
	if err != nil {
		return nil, err
	}

	documents, err := client.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	jsonData, err := json.MarshalIndent(documents, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document list: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func handleDocContent(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	docID := strings.TrimPrefix(request.Params.URI, "googledocs://")
	if docID == "" || docID == "list" {
		return nil, fmt.Errorf("invalid document URI %q", request.Params.URI)
	}

	client, err := sc.DocsClient()
	if err != nil {
		return nil, err
	}

	text, err := client.GetAsPlainText(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", docID, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     text,
		},
	}, nil
}
