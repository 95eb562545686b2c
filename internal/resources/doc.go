// Package resources exposes Google Drive and Docs data as MCP
// resources.
//
// Registered resources:
//   - googledocs://list: recent Google Docs as JSON
//   - googledocs://{docID}: the plain text of a document
//   - gdrive://files: recent Drive files as JSON
//   - gdrive://file/{fileID}: metadata for a single file
//
// All resources read through the "default" account. Clients that need
// another account should use the corresponding tools, which accept an
// account argument.
package resources
