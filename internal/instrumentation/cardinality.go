package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values to prevent
// metrics explosion in the backend.

// ExtractUserDomain extracts the domain part from an email address.
// This reduces cardinality by using the domain instead of the full
// email.
//
// Example:
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
//	ExtractUserDomain("")                  // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for Google API metrics.
// Status, OAuth, and Service constants are defined in config.go.
const (
	OperationList     = "list"
	OperationGet      = "get"
	OperationCreate   = "create"
	OperationUpdate   = "update"
	OperationDelete   = "delete"
	OperationUpload   = "upload"
	OperationDownload = "download"
	OperationCopy     = "copy"
	OperationShare    = "share"
	OperationSearch   = "search"
	OperationExport   = "export"
	OperationSend     = "send"
)
