package drive_tools

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/drive"
	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/batch"
	"github.com/driveflow/driveflow/internal/tools/common"
)

// fetchClient is the HTTP client used by upload-file-from-url. Tests
// replace it to point at a local server.
var fetchClient = &http.Client{Timeout: 60 * time.Second}

// batchUploadEntry is a single item of the upload-batch files argument.
type batchUploadEntry struct {
	Name          string `json:"name"`
	ContentBase64 string `json:"content_base64"`
	MimeType      string `json:"mime_type,omitempty"`
}

// registerFileTools registers file management tools
func registerFileTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if !readOnly {
		uploadFileTool := mcp.NewTool("upload-file-base64",
			mcp.WithDescription("Upload a file to Google Drive from base64-encoded content"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the file in Google Drive"),
			),
			mcp.WithString("content_base64",
				mcp.Required(),
				mcp.Description("The file content, base64-encoded"),
			),
			mcp.WithString("mime_type",
				mcp.Description("The MIME type of the file (detected by Drive when omitted)"),
			),
			mcp.WithString("parent_folders",
				mcp.Description("Comma-separated list of parent folder IDs"),
			),
		)

		s.AddTool(uploadFileTool, common.InstrumentedToolHandlerWithService(
			"upload-file-base64", instrumentation.ServiceDrive, instrumentation.OperationUpload, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				name, ok := args["name"].(string)
				if !ok || name == "" {
					return mcp.NewToolResultError("name is required"), nil
				}

				contentStr, ok := args["content_base64"].(string)
				if !ok || contentStr == "" {
					return mcp.NewToolResultError("content_base64 is required"), nil
				}

				content, err := base64.StdEncoding.DecodeString(contentStr)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to decode base64 content: %v", err)), nil
				}

				options := &drive.UploadOptions{}
				if mimeType, ok := args["mime_type"].(string); ok && mimeType != "" {
					options.MimeType = mimeType
				}
				if parentsStr, ok := args["parent_folders"].(string); ok && parentsStr != "" {
					options.ParentFolders = common.ParseCommaSeparatedList(parentsStr)
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				fileInfo, err := client.UploadFile(ctx, name, bytes.NewReader(content), options)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to upload file: %v", err)), nil
				}

				result, _ := json.MarshalIndent(fileInfo, "", "  ")
				return mcp.NewToolResultText(fmt.Sprintf("File uploaded successfully:\n%s", string(result))), nil
			}))

		uploadFromURLTool := mcp.NewTool("upload-file-from-url",
			mcp.WithDescription("Fetch a URL and upload the response body as a file to Google Drive"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("url",
				mcp.Required(),
				mcp.Description("The URL to fetch"),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the file in Google Drive"),
			),
			mcp.WithString("mime_type",
				mcp.Description("The MIME type of the file (default: the response Content-Type)"),
			),
			mcp.WithString("parent_folders",
				mcp.Description("Comma-separated list of parent folder IDs"),
			),
		)

		s.AddTool(uploadFromURLTool, common.InstrumentedToolHandlerWithService(
			"upload-file-from-url", instrumentation.ServiceDrive, instrumentation.OperationUpload, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				url, ok := args["url"].(string)
				if !ok || url == "" {
					return mcp.NewToolResultError("url is required"), nil
				}

				name, ok := args["name"].(string)
				if !ok || name == "" {
					return mcp.NewToolResultError("name is required"), nil
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Invalid URL: %v", err)), nil
				}

				resp, err := fetchClient.Do(req)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch URL: %v", err)), nil
				}
				defer resp.Body.Close()

				if resp.StatusCode != http.StatusOK {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to fetch URL: unexpected status %s", resp.Status)), nil
				}

				options := &drive.UploadOptions{
					MimeType: resp.Header.Get("Content-Type"),
				}
				if mimeType, ok := args["mime_type"].(string); ok && mimeType != "" {
					options.MimeType = mimeType
				}
				if parentsStr, ok := args["parent_folders"].(string); ok && parentsStr != "" {
					options.ParentFolders = common.ParseCommaSeparatedList(parentsStr)
				}

				fileInfo, err := client.UploadFile(ctx, name, resp.Body, options)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to upload file: %v", err)), nil
				}

				result, _ := json.MarshalIndent(fileInfo, "", "  ")
				return mcp.NewToolResultText(fmt.Sprintf("File uploaded successfully from %s:\n%s", url, string(result))), nil
			}))

		uploadBatchTool := mcp.NewTool("upload-batch",
			mcp.WithDescription("Upload multiple files to Google Drive in one call. Each entry is a JSON object with name and content_base64, and optionally mime_type."),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("files",
				mcp.Required(),
				mcp.Description(`JSON object or array of JSON objects, e.g. {"name": "a.txt", "content_base64": "..."}`),
			),
			mcp.WithString("parent_folders",
				mcp.Description("Comma-separated list of parent folder IDs applied to every file"),
			),
		)

		s.AddTool(uploadBatchTool, common.InstrumentedToolHandlerWithService(
			"upload-batch", instrumentation.ServiceDrive, instrumentation.OperationUpload, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				entries, err := batch.ParseStringOrArray(args["files"], "files")
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				var parentFolders []string
				if parentsStr, ok := args["parent_folders"].(string); ok && parentsStr != "" {
					parentFolders = common.ParseCommaSeparatedList(parentsStr)
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				results := make([]batch.Result, 0, len(entries))
				for i, raw := range entries {
					id := fmt.Sprintf("files[%d]", i)

					var entry batchUploadEntry
					if err := json.Unmarshal([]byte(raw), &entry); err != nil {
						results = append(results, batch.Failed(id, fmt.Errorf("invalid JSON entry: %w", err)))
						continue
					}
					if entry.Name != "" {
						id = entry.Name
					}
					if entry.Name == "" || entry.ContentBase64 == "" {
						results = append(results, batch.Failed(id, fmt.Errorf("name and content_base64 are required")))
						continue
					}

					content, err := base64.StdEncoding.DecodeString(entry.ContentBase64)
					if err != nil {
						results = append(results, batch.Failed(id, fmt.Errorf("invalid base64 content: %w", err)))
						continue
					}

					fileInfo, err := client.UploadFile(ctx, entry.Name, bytes.NewReader(content), &drive.UploadOptions{
						MimeType:      entry.MimeType,
						ParentFolders: parentFolders,
					})
					if err != nil {
						results = append(results, batch.Failed(id, err))
						continue
					}

					results = append(results, batch.Succeeded(id, fmt.Sprintf("uploaded as %s", fileInfo.ID)))
				}

				return mcp.NewToolResultText(batch.Summarize(results)), nil
			}))

		copyFileTool := mcp.NewTool("copy-file",
			mcp.WithDescription("Copy a file in Google Drive, optionally into a destination folder"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("file_id",
				mcp.Required(),
				mcp.Description("The ID of the file to copy"),
			),
			mcp.WithString("name",
				mcp.Description("The name of the copy (default: 'Copy of <original>')"),
			),
			mcp.WithString("destination_folder",
				mcp.Description("The ID of the folder to place the copy in"),
			),
		)

		s.AddTool(copyFileTool, common.InstrumentedToolHandlerWithService(
			"copy-file", instrumentation.ServiceDrive, instrumentation.OperationCopy, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				fileID, ok := args["file_id"].(string)
				if !ok || fileID == "" {
					return mcp.NewToolResultError("file_id is required"), nil
				}

				options := &drive.CopyOptions{}
				if name, ok := args["name"].(string); ok && name != "" {
					options.Name = name
				}
				if destination, ok := args["destination_folder"].(string); ok && destination != "" {
					options.DestinationFolder = destination
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				fileInfo, err := client.CopyFile(ctx, fileID, options)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to copy file: %v", err)), nil
				}

				result, _ := json.MarshalIndent(fileInfo, "", "  ")
				return mcp.NewToolResultText(fmt.Sprintf("File copied successfully:\n%s", string(result))), nil
			}))

		deleteFileTool := mcp.NewTool("delete-file",
			mcp.WithDescription("Permanently delete a file from Google Drive"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("file_id",
				mcp.Required(),
				mcp.Description("The ID of the file to delete"),
			),
		)

		s.AddTool(deleteFileTool, common.InstrumentedToolHandlerWithService(
			"delete-file", instrumentation.ServiceDrive, instrumentation.OperationDelete, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				fileID, ok := args["file_id"].(string)
				if !ok || fileID == "" {
					return mcp.NewToolResultError("file_id is required"), nil
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				if err := client.DeleteFile(ctx, fileID); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to delete file: %v", err)), nil
				}

				return mcp.NewToolResultText(fmt.Sprintf("File %s deleted successfully", fileID)), nil
			}))
	}

	downloadFileTool := mcp.NewTool("download-file-base64",
		mcp.WithDescription("Download the content of a file from Google Drive"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file to download"),
		),
		mcp.WithBoolean("as_text",
			mcp.Description("Return the content as plain text instead of base64 (default: false)"),
		),
	)

	s.AddTool(downloadFileTool, common.InstrumentedToolHandlerWithService(
		"download-file-base64", instrumentation.ServiceDrive, instrumentation.OperationDownload, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			fileID, ok := args["file_id"].(string)
			if !ok || fileID == "" {
				return mcp.NewToolResultError("file_id is required"), nil
			}

			asText := false
			if asTextVal, ok := args["as_text"].(bool); ok {
				asText = asTextVal
			}

			client, err := sc.DriveClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			body, err := client.DownloadFile(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to download file: %v", err)), nil
			}
			defer body.Close()

			content, err := io.ReadAll(body)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to read file content: %v", err)), nil
			}

			if asText {
				return mcp.NewToolResultText(string(content)), nil
			}

			encoded := base64.StdEncoding.EncodeToString(content)
			return mcp.NewToolResultText(fmt.Sprintf("File content (base64, %d bytes):\n%s", len(content), encoded)), nil
		}))

	return nil
}
