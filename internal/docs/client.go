package docs

import (
	"context"
	"fmt"
	"io"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	drivepkg "github.com/driveflow/driveflow/internal/drive"
	"github.com/driveflow/driveflow/internal/google"
)

// Client wraps the Google Docs and Drive API services
type Client struct {
	docsService  *docs.Service
	driveService *drive.Service
	account      string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccount creates a new Google Docs client authenticated as
// the given account. The authenticator must hold a stored token for the
// account.
func NewClientForAccount(ctx context.Context, account string, auth *google.Authenticator) (*Client, error) {
	if auth == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}

	httpClient, err := auth.HTTPClient(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth client for account %s: %w", account, err)
	}

	docsService, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		docsService:  docsService,
		driveService: driveService,
		account:      account,
	}, nil
}

// NewClientWithServices creates a client from pre-built API services.
// Used by tests to inject fake backends.
func NewClientWithServices(docsService *docs.Service, driveService *drive.Service, account string) *Client {
	return &Client{
		docsService:  docsService,
		driveService: driveService,
		account:      account,
	}
}

// Create creates a new Google Doc with the given title. When content is
// non-empty it is inserted as the document body.
func (c *Client) Create(ctx context.Context, title, content string) (*DocumentInfo, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	doc, err := c.docsService.Documents.Create(&docs.Document{Title: title}).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if content != "" {
		// A fresh document body starts with a single newline, so the
		// first writable index is 1.
		_, err = c.docsService.Documents.BatchUpdate(doc.DocumentId, &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{{
				InsertText: &docs.InsertTextRequest{
					Location: &docs.Location{Index: 1},
					Text:     content,
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("created document %s but failed to insert content: %w", doc.DocumentId, err)
		}
	}

	return &DocumentInfo{
		ID:    doc.DocumentId,
		Title: doc.Title,
		URL:   DocumentURL(doc.DocumentId),
	}, nil
}

// Get retrieves a Google Doc by document ID. All tabs are fetched so
// that multi-tab documents are fully readable.
func (c *Client) Get(ctx context.Context, documentID string) (*docs.Document, error) {
	if documentID == "" {
		return nil, fmt.Errorf("documentID is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).
		IncludeTabsContent(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return doc, nil
}

// GetAsPlainText extracts plain text from a Google Doc
func (c *Client) GetAsPlainText(ctx context.Context, documentID string) (string, error) {
	doc, err := c.Get(ctx, documentID)
	if err != nil {
		return "", err
	}

	return DocumentToPlainText(doc)
}

// GetAsMarkdown converts a Google Doc to Markdown
func (c *Client) GetAsMarkdown(ctx context.Context, documentID string) (string, error) {
	doc, err := c.Get(ctx, documentID)
	if err != nil {
		return "", err
	}

	return DocumentToMarkdown(doc)
}

// Append adds text to the end of a document's body. A newline is
// inserted before the new text unless the document is empty.
func (c *Client) Append(ctx context.Context, documentID, text string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	end := bodyEndIndex(doc)
	insert := text
	if end > 1 {
		insert = "\n" + text
	}

	_, err = c.docsService.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Location: &docs.Location{Index: end},
				Text:     insert,
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append to document %s: %w", documentID, err)
	}

	return nil
}

// ReplaceAll replaces the entire body of a document with the given text
func (c *Client) ReplaceAll(ctx context.Context, documentID, text string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	doc, err := c.docsService.Documents.Get(documentID).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	var requests []*docs.Request

	// An empty body has nothing to delete. The deletable range excludes
	// the trailing newline the Docs API keeps at the end of the body.
	if end := bodyEndIndex(doc); end > 1 {
		requests = append(requests, &docs.Request{
			DeleteContentRange: &docs.DeleteContentRangeRequest{
				Range: &docs.Range{
					StartIndex: 1,
					EndIndex:   end,
				},
			},
		})
	}

	requests = append(requests, &docs.Request{
		InsertText: &docs.InsertTextRequest{
			Location: &docs.Location{Index: 1},
			Text:     text,
		},
	})

	_, err = c.docsService.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to replace content of document %s: %w", documentID, err)
	}

	return nil
}

// Delete moves a document to the trash and returns its title
func (c *Client) Delete(ctx context.Context, documentID string) (string, error) {
	if documentID == "" {
		return "", fmt.Errorf("documentID is required")
	}

	// Fetch the title first so the caller can report what was deleted.
	doc, err := c.docsService.Documents.Get(documentID).
		Fields("title").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	if err := c.driveService.Files.Delete(documentID).Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("failed to delete document %s: %w", documentID, err)
	}

	return doc.Title, nil
}

// Search finds Google Docs whose content matches the query
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]*DocumentInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	q := fmt.Sprintf("mimeType='%s' and trashed=false and fullText contains '%s'",
		drivepkg.DocumentMimeType, drivepkg.EscapeQueryTerm(query))

	list, err := c.driveService.Files.List().
		Q(q).
		PageSize(int64(maxResults)).
		Fields("files(id, name, createdTime, modifiedTime, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}

	results := make([]*DocumentInfo, 0, len(list.Files))
	for _, file := range list.Files {
		results = append(results, &DocumentInfo{
			ID:           file.Id,
			Title:        file.Name,
			URL:          file.WebViewLink,
			CreatedTime:  file.CreatedTime,
			ModifiedTime: file.ModifiedTime,
		})
	}

	return results, nil
}

// List returns the user's Google Docs, most recently modified first
func (c *Client) List(ctx context.Context, maxResults int) ([]*DocumentInfo, error) {
	if maxResults <= 0 {
		maxResults = 50
	}

	list, err := c.driveService.Files.List().
		Q(fmt.Sprintf("mimeType='%s' and trashed=false", drivepkg.DocumentMimeType)).
		OrderBy("modifiedTime desc").
		PageSize(int64(maxResults)).
		Fields("files(id, name, createdTime, modifiedTime, webViewLink)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	results := make([]*DocumentInfo, 0, len(list.Files))
	for _, file := range list.Files {
		results = append(results, &DocumentInfo{
			ID:           file.Id,
			Title:        file.Name,
			URL:          file.WebViewLink,
			CreatedTime:  file.CreatedTime,
			ModifiedTime: file.ModifiedTime,
		})
	}

	return results, nil
}

// Export converts a Google Doc to the requested format and returns the
// exported bytes. The document must actually be a Google Doc: binary
// files stored on Drive cannot be exported.
func (c *Client) Export(ctx context.Context, documentID, format string) ([]byte, string, error) {
	if documentID == "" {
		return nil, "", fmt.Errorf("documentID is required")
	}

	mimeType, ok := ExportFormats[format]
	if !ok {
		return nil, "", fmt.Errorf("unsupported format %q: supported formats are %v", format, SupportedExportFormats())
	}

	file, err := c.driveService.Files.Get(documentID).
		Fields("id, name, mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get file %s: %w", documentID, err)
	}

	if file.MimeType != drivepkg.DocumentMimeType {
		return nil, "", fmt.Errorf("file %s is not a Google Doc (mimeType %s): only Google Docs can be exported", documentID, file.MimeType)
	}

	resp, err := c.driveService.Files.Export(documentID, mimeType).
		Context(ctx).
		Download()
	if err != nil {
		return nil, "", fmt.Errorf("failed to export document %s as %s: %w", documentID, format, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read exported content: %w", err)
	}

	return data, file.Name, nil
}

// DocumentURL returns the browser URL for a document ID
func DocumentURL(documentID string) string {
	return "https://docs.google.com/document/d/" + documentID + "/edit"
}

// bodyEndIndex returns the end index of the document body's editable
// range. The Docs API requires the final newline of the body to stay in
// place, so the usable end is one before the last element's EndIndex.
func bodyEndIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}

	last := doc.Body.Content[len(doc.Body.Content)-1]
	if last.EndIndex <= 1 {
		return 1
	}

	return last.EndIndex - 1
}
