package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/drive"
	"github.com/driveflow/driveflow/internal/server"
)

const filesListURI = "gdrive://files"

// RegisterDriveResources registers Google Drive resources with the MCP server
func RegisterDriveResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	filesResource := mcp.NewResource(
		filesListURI,
		"Google Drive Files",
		mcp.WithResourceDescription("Recently modified files in Google Drive"),
		mcp.WithMIMEType("application/json"),
	)

	s.AddResource(filesResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleFilesList(ctx, request, sc)
	})

	fileTemplate := mcp.NewResourceTemplate(
		"gdrive://file/{fileID}",
		"Google Drive File Metadata",
		mcp.WithTemplateDescription("Metadata for a single Google Drive file"),
		mcp.WithTemplateMIMEType("application/json"),
	)

	s.AddResourceTemplate(fileTemplate, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleFileMetadata(ctx, request, sc)
	})

	return nil
}

func handleFilesList(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	client, err := sc.DriveClient()
	if err != nil {
		return nil, err
	}

	files, _, err := client.ListFiles(ctx, &drive.ListOptions{
		MaxResults: 50,
		OrderBy:    "modifiedTime desc",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	jsonData, err := json.MarshalIndent(files, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file list: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

func handleFileMetadata(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	fileID := strings.TrimPrefix(request.Params.URI, "gdrive://file/")
	if fileID == "" || fileID == request.Params.URI {
		return nil, fmt.Errorf("invalid file URI %q", request.Params.URI)
	}

	client, err := sc.DriveClient()
	if err != nil {
		return nil, err
	}

	info, err := client.GetFile(ctx, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get file %s: %w", fileID, err)
	}

	jsonData, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal file metadata: %w", err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}
