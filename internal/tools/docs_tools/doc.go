// Package docs_tools provides MCP tools for working with Google Docs.
//
// Registered tools:
//   - create-doc: create a document with an optional initial body
//   - update-doc: append to or replace a document's body
//   - search-docs: full-text search across Google Docs
//   - delete-doc: delete a document
//   - export-doc: export a document as pdf, docx, txt, html, odt, rtf, or epub
//
// Write operations are skipped when the server runs in read-only mode.
// All tools accept an optional "account" argument (default: "default")
// to select which Google account's credentials to use.
package docs_tools
