// Package drive_tools provides MCP tools for working with Google Drive.
//
// The package registers tools for file, folder, and permission
// management. Write operations are skipped when the server runs in
// read-only mode.
//
// File operations:
//   - upload-file-base64: upload base64-encoded content as a new file
//   - upload-file-from-url: fetch a URL and upload the response body
//   - upload-batch: upload several files in one call with per-file results
//   - download-file-base64: download a file, optionally base64-encoded
//   - copy-file: copy a file, optionally into a destination folder
//   - delete-file: permanently delete a file
//
// Folder operations:
//   - create-folder: create a folder, optionally inside parents
//   - list-folders: list folders, optionally scoped to a parent
//
// Sharing operations:
//   - share-drive-item: grant a permission on a file or folder
//   - list-permissions: list the permissions on a file
//   - remove-permission: revoke a permission
//
// All tools accept an optional "account" argument (default: "default")
// to select which Google account's credentials to use.
package drive_tools
