package drive_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/driveflow/driveflow/internal/drive"
	"github.com/driveflow/driveflow/internal/instrumentation"
	"github.com/driveflow/driveflow/internal/server"
	"github.com/driveflow/driveflow/internal/tools/common"
)

// registerShareTools registers permission and sharing tools
func registerShareTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if !readOnly {
		shareTool := mcp.NewTool("share-drive-item",
			mcp.WithDescription("Share a Google Drive file or folder by granting a permission"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("file_id",
				mcp.Required(),
				mcp.Description("The ID of the file or folder to share"),
			),
			mcp.WithString("role",
				mcp.Required(),
				mcp.Description("The role to grant: reader, commenter, writer, or organizer"),
			),
			mcp.WithString("type",
				mcp.Required(),
				mcp.Description("The grantee type: user, group, domain, or anyone"),
			),
			mcp.WithString("email_address",
				mcp.Description("The email address of the user or group (required for type user or group)"),
			),
			mcp.WithString("domain",
				mcp.Description("The domain to share with (required for type domain)"),
			),
			mcp.WithBoolean("send_notification",
				mcp.Description("Send a notification email to the grantee (default: false)"),
			),
			mcp.WithString("email_message",
				mcp.Description("Custom message included in the notification email"),
			),
		)

		s.AddTool(shareTool, common.InstrumentedToolHandlerWithService(
			"share-drive-item", instrumentation.ServiceDrive, instrumentation.OperationShare, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				fileID, ok := args["file_id"].(string)
				if !ok || fileID == "" {
					return mcp.NewToolResultError("file_id is required"), nil
				}

				role, ok := args["role"].(string)
				if !ok || role == "" {
					return mcp.NewToolResultError("role is required"), nil
				}

				permType, ok := args["type"].(string)
				if !ok || permType == "" {
					return mcp.NewToolResultError("type is required"), nil
				}

				options := &drive.ShareOptions{
					Role: role,
					Type: permType,
				}

				if email, ok := args["email_address"].(string); ok && email != "" {
					options.EmailAddress = email
				}
				if domain, ok := args["domain"].(string); ok && domain != "" {
					options.Domain = domain
				}
				if (permType == "user" || permType == "group") && options.EmailAddress == "" {
					return mcp.NewToolResultError(fmt.Sprintf("email_address is required for type %s", permType)), nil
				}
				if permType == "domain" && options.Domain == "" {
					return mcp.NewToolResultError("domain is required for type domain"), nil
				}

				if notify, ok := args["send_notification"].(bool); ok && notify {
					options.SendNotificationEmail = true
					if message, ok := args["email_message"].(string); ok {
						options.EmailMessage = message
					}
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				permission, err := client.ShareFile(ctx, fileID, options)
				if err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to share item: %v", err)), nil
				}

				result, _ := json.MarshalIndent(permission, "", "  ")
				return mcp.NewToolResultText(fmt.Sprintf("Item shared successfully:\n%s", string(result))), nil
			}))

		removePermissionTool := mcp.NewTool("remove-permission",
			mcp.WithDescription("Remove a permission from a Google Drive file or folder"),
			mcp.WithString("account",
				mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
			),
			mcp.WithString("file_id",
				mcp.Required(),
				mcp.Description("The ID of the file or folder"),
			),
			mcp.WithString("permission_id",
				mcp.Required(),
				mcp.Description("The ID of the permission to remove (see list-permissions)"),
			),
		)

		s.AddTool(removePermissionTool, common.InstrumentedToolHandlerWithService(
			"remove-permission", instrumentation.ServiceDrive, instrumentation.OperationShare, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				args := request.GetArguments()
				account := common.GetAccountFromArgs(args)

				fileID, ok := args["file_id"].(string)
				if !ok || fileID == "" {
					return mcp.NewToolResultError("file_id is required"), nil
				}

				permissionID, ok := args["permission_id"].(string)
				if !ok || permissionID == "" {
					return mcp.NewToolResultError("permission_id is required"), nil
				}

				client, err := sc.DriveClientForAccount(account)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}

				if err := client.RemovePermission(ctx, fileID, permissionID); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("Failed to remove permission: %v", err)), nil
				}

				return mcp.NewToolResultText(fmt.Sprintf("Permission %s removed from %s", permissionID, fileID)), nil
			}))
	}

	listPermissionsTool := mcp.NewTool("list-permissions",
		mcp.WithDescription("List the permissions on a Google Drive file or folder"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("file_id",
			mcp.Required(),
			mcp.Description("The ID of the file or folder"),
		),
	)

	s.AddTool(listPermissionsTool, common.InstrumentedToolHandlerWithService(
		"list-permissions", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
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

			permissions, err := client.ListPermissions(ctx, fileID)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list permissions: %v", err)), nil
			}

			if len(permissions) == 0 {
				return mcp.NewToolResultText("No permissions found"), nil
			}

			result, _ := json.MarshalIndent(permissions, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Found %d permission(s):\n%s", len(permissions), string(result))), nil
		}))

	return nil
}
