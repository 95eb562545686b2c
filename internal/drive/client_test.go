package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

func TestEscapeQueryTerm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "report", "report"},
		{"single quote", "jane's notes", `jane\'s notes`},
		{"backslash", `a\b`, `a\\b`},
		{"both", `it's a\b`, `it\'s a\\b`},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeQueryTerm(tt.input); got != tt.want {
				t.Errorf("EscapeQueryTerm(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// newTestClient returns a Client backed by a fake Drive API server.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	service, err := drive.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create test Drive service: %v", err)
	}

	return NewClientWithService(service, "default"), srv
}

func TestUploadFileSendsMetadataAndContent(t *testing.T) {
	var gotMeta drive.File
	var gotContent string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/files") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
			t.Fatalf("expected multipart upload, got %q (err %v)", mediaType, err)
		}

		mr := multipart.NewReader(r.Body, params["boundary"])

		metaPart, err := mr.NextPart()
		if err != nil {
			t.Fatalf("missing metadata part: %v", err)
		}
		if err := json.NewDecoder(metaPart).Decode(&gotMeta); err != nil {
			t.Fatalf("failed to decode metadata: %v", err)
		}

		mediaPart, err := mr.NextPart()
		if err != nil {
			t.Fatalf("missing media part: %v", err)
		}
		content, _ := io.ReadAll(mediaPart)
		gotContent = string(content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&drive.File{
			Id:       "file-1",
			Name:     gotMeta.Name,
			MimeType: gotMeta.MimeType,
		})
	}))

	info, err := client.UploadFile(context.Background(), "report.txt",
		strings.NewReader("hello drive"),
		&UploadOptions{
			MimeType:      "text/plain",
			ParentFolders: []string{"folder-9"},
		})
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}

	if info.ID != "file-1" {
		t.Errorf("ID = %q, want file-1", info.ID)
	}
	if gotMeta.Name != "report.txt" {
		t.Errorf("uploaded name = %q, want report.txt", gotMeta.Name)
	}
	if gotMeta.MimeType != "text/plain" {
		t.Errorf("uploaded mimeType = %q, want text/plain", gotMeta.MimeType)
	}
	if len(gotMeta.Parents) != 1 || gotMeta.Parents[0] != "folder-9" {
		t.Errorf("uploaded parents = %v, want [folder-9]", gotMeta.Parents)
	}
	if gotContent != "hello drive" {
		t.Errorf("uploaded content = %q, want %q", gotContent, "hello drive")
	}
}

func TestUploadFileRequiresNameAndContent(t *testing.T) {
	client := NewClientWithService(nil, "default")

	if _, err := client.UploadFile(context.Background(), "", strings.NewReader("x"), nil); err == nil {
		t.Error("UploadFile() with empty name should fail")
	}
	if _, err := client.UploadFile(context.Background(), "name", nil, nil); err == nil {
		t.Error("UploadFile() with nil content should fail")
	}
}

func TestCopyFileMovesIntoDestinationFolder(t *testing.T) {
	var calls []string

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.HasSuffix(r.URL.Path, "/copy"):
			_ = json.NewEncoder(w).Encode(&drive.File{
				Id:      "copy-1",
				Name:    "copy of report",
				Parents: []string{"old-parent"},
			})
		case r.Method == http.MethodPatch:
			if got := r.URL.Query().Get("addParents"); got != "dest-folder" {
				t.Errorf("addParents = %q, want dest-folder", got)
			}
			if got := r.URL.Query().Get("removeParents"); got != "old-parent" {
				t.Errorf("removeParents = %q, want old-parent", got)
			}
			_ = json.NewEncoder(w).Encode(&drive.File{
				Id:      "copy-1",
				Name:    "copy of report",
				Parents: []string{"dest-folder"},
			})
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	info, err := client.CopyFile(context.Background(), "file-1", &CopyOptions{
		DestinationFolder: "dest-folder",
	})
	if err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("got %d API calls, want 2 (copy then move): %v", len(calls), calls)
	}
	if len(info.Parents) != 1 || info.Parents[0] != "dest-folder" {
		t.Errorf("Parents = %v, want [dest-folder]", info.Parents)
	}
}

func TestCopyFileWithoutDestinationIsSingleCall(t *testing.T) {
	var calls int

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(&drive.File{Id: "copy-1"})
	}))

	if _, err := client.CopyFile(context.Background(), "file-1", nil); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d API calls, want 1", calls)
	}
}
