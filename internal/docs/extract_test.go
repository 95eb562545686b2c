package docs

import (
	"strings"
	"testing"

	docs "google.golang.org/api/docs/v1"
)

func paragraph(text string) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{
			Elements: []*docs.ParagraphElement{
				{TextRun: &docs.TextRun{Content: text}},
			},
		},
	}
}

func heading(level, text string) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{
			ParagraphStyle: &docs.ParagraphStyle{
				NamedStyleType: "HEADING_" + level,
			},
			Elements: []*docs.ParagraphElement{
				{TextRun: &docs.TextRun{Content: text}},
			},
		},
	}
}

func TestDocumentToPlainText(t *testing.T) {
	tests := []struct {
		name     string
		doc      *docs.Document
		expected string
		wantErr  bool
	}{
		{
			name:    "Nil document",
			doc:     nil,
			wantErr: true,
		},
		{
			name: "Title and body",
			doc: &docs.Document{
				Title: "Meeting Notes",
				Body: &docs.Body{
					Content: []*docs.StructuralElement{
						paragraph("First point.\n"),
						paragraph("Second point.\n"),
					},
				},
			},
			expected: "Meeting Notes\n\nFirst point.\nSecond point.\n",
		},
		{
			name: "Tabbed document",
			doc: &docs.Document{
				Title: "Plan",
				Tabs: []*docs.Tab{
					{
						TabProperties: &docs.TabProperties{Title: "Overview"},
						DocumentTab: &docs.DocumentTab{
							Body: &docs.Body{
								Content: []*docs.StructuralElement{
									paragraph("Tab content.\n"),
								},
							},
						},
					},
				},
			},
			expected: "Plan\n\n=== Overview ===\n\nTab content.\n",
		},
		{
			name: "Table cells separated by tabs",
			doc: &docs.Document{
				Body: &docs.Body{
					Content: []*docs.StructuralElement{
						{
							Table: &docs.Table{
								TableRows: []*docs.TableRow{
									{
										TableCells: []*docs.TableCell{
											{Content: []*docs.StructuralElement{paragraph("a")}},
											{Content: []*docs.StructuralElement{paragraph("b")}},
										},
									},
								},
							},
						},
					},
				},
			},
			expected: "a\tb\t\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DocumentToPlainText(tt.doc)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DocumentToPlainText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Errorf("DocumentToPlainText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDocumentToMarkdown(t *testing.T) {
	doc := &docs.Document{
		Title: "Design",
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				heading("1", "Goals\n"),
				paragraph("Keep it simple.\n"),
				heading("2", "Details\n"),
			},
		},
	}

	got, err := DocumentToMarkdown(doc)
	if err != nil {
		t.Fatalf("DocumentToMarkdown() error = %v", err)
	}

	for _, want := range []string{"# Design\n", "# Goals\n", "## Details\n", "Keep it simple.\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown output missing %q:\n%s", want, got)
		}
	}
}

func TestDocumentToMarkdownStyles(t *testing.T) {
	doc := &docs.Document{
		Body: &docs.Body{
			Content: []*docs.StructuralElement{
				{
					Paragraph: &docs.Paragraph{
						Elements: []*docs.ParagraphElement{
							{TextRun: &docs.TextRun{Content: "bold", TextStyle: &docs.TextStyle{Bold: true}}},
							{TextRun: &docs.TextRun{Content: " and "}},
							{TextRun: &docs.TextRun{Content: "a link", TextStyle: &docs.TextStyle{Link: &docs.Link{Url: "https://example.com"}}}},
						},
					},
				},
			},
		},
	}

	got, err := DocumentToMarkdown(doc)
	if err != nil {
		t.Fatalf("DocumentToMarkdown() error = %v", err)
	}

	if !strings.Contains(got, "**bold**") {
		t.Errorf("expected bold markup in %q", got)
	}
	if !strings.Contains(got, "[a link](https://example.com)") {
		t.Errorf("expected link markup in %q", got)
	}
}
