package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/common"
)

// registerFolderTools registers folder management tools
func registerFolderTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if !readOnly {
		createFolderTool := mcp.NewTool("create-folder",
			mcp.WithDescription("Create a new folder in Google Drive"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("The name of the folder"),
			),
			mcp.WithString("parent_folders",
				mcp.Description("Comma-separated list of parent folder IDs where the folder should be created"),
			),
		)

		s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithService(
			"create-folder", instrumentation.ServiceDrive, instrumentation.OperationCreate, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				name, ok := args["name"].(string)
				if !ok || name == "" {
					return mcp.NewToolResultError("name is required"), nil
				}

				var parentFolders []string
				if parentsStr, ok := args["parent_folders"].(string); ok && parentsStr != "" {
					parentFolders = common.ParseCommaSeparatedList(parentsStr)
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				folderInfo, err := client.CreateFolder(ctx, name, parentFolders)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
				}

				result, _ := json.MarshalIndent(folderInfo, "", "  ")
				return mcp.NewToolResultText(fmt.Sprintf("Folder created successfully:\n%s", string(result))), nil
			}))
	}

	listFoldersTool := mcp.NewTool("list-folders",
		mcp.WithDescription("List folders in Google Drive, optionally scoped to a parent folder"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("parent_id",
			mcp.Description("Only list folders inside this parent folder"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of folders to return (default: 50)"),
		),
	)

	s.AddTool(listFoldersTool, common.InstrumentedToolHandlerWithService(
		"list-folders", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args := request.GetArguments()
			account := common.GetAccountFromArgs(args)

			parentID, _ := args["parent_id"].(string)

			maxResults := 50
			if maxVal, ok := args["max_results"].(float64); ok && maxVal > 0 {
				maxResults = int(maxVal)
			}

			client, err := sc.DriveClientForAccount(account)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			folders, err := client.ListFolders(ctx, parentID, maxResults)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list folders: %v", err)), nil
			}

			if len(folders) == 0 {
				return mcp.NewToolResultText("No folders found"), nil
			}

			result, _ := json.MarshalIndent(folders, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Found %d folder(s):\n%s", len(folders), string(result))), nil
		}))

	return nil
}
