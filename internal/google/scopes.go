package google

// DefaultOAuthScopes are the Google OAuth scopes required for full
// functionality. These scopes are used consistently across the application
// when building OAuth configurations.
//
// The scopes provide access to:
//   - Google Docs: read and write
//   - Google Drive: full access (upload, copy, share, delete)
//   - Google Drive metadata: read-only listing
var DefaultOAuthScopes = []string{
	// Google Docs scope
	"https://www.googleapis.com/auth/documents",

	// Google Drive scopes
	"https://www.googleapis.com/auth/drive",
	"https://www.googleapis.com/auth/drive.readonly",
}
