// Package docs provides a client for creating and editing Google Docs.
//
// The client wraps both the Docs and Drive API services: the Docs API
// handles document content (create, append, replace, text extraction)
// while the Drive API handles everything that treats a document as a
// file (search, delete, export).
//
// Content updates go through documents.batchUpdate. Appends insert at
// the end of the body, replacements delete the existing body range and
// insert fresh text at the start. Multi-tab documents are supported for
// reading; edits target the default body.
package docs
