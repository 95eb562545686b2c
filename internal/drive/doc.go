// Package drive provides a client for interacting with the Google Drive API.
//
// The client supports the file management surface exposed over MCP:
//   - Uploading files with metadata
//   - Listing and searching files and folders
//   - Downloading and exporting file content
//   - Copying files, optionally into a different folder
//   - Creating folders, moving and renaming files
//   - Deleting files
//   - Managing sharing and permissions
//
// Each client instance is bound to a specific account; multiple accounts can
// be used side by side. Authentication comes from the google package's
// Authenticator, which persists and refreshes OAuth tokens per account.
//
// Errors from the Drive API are wrapped with operation context and surfaced
// to the caller unchanged; the client does not retry or reshape responses
// beyond converting them into the typed structs in this package.
package drive
