package docs

// DocumentInfo holds summary information about a Google Doc
type DocumentInfo struct {
	// ID is the document ID
	ID string
	// Title is the document title
	Title string
	// URL is the link to open the document in a browser
	URL string
	// CreatedTime is when the document was created (RFC 3339)
	CreatedTime string
	// ModifiedTime is when the document was last modified (RFC 3339)
	ModifiedTime string
}

// ExportFormats maps user-facing export format names to the MIME types
// the Drive export endpoint expects
var ExportFormats = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
	"html": "text/html",
	"odt":  "application/vnd.oasis.opendocument.text",
	"rtf":  "application/rtf",
	"epub": "application/epub+zip",
}

// SupportedExportFormats returns the sorted list of format names
// accepted by Export, for use in error messages and tool descriptions
func SupportedExportFormats() []string {
	return []string{"docx", "epub", "html", "odt", "pdf", "rtf", "txt"}
}
