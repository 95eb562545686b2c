package docs

import (
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
)

// DocumentToPlainText extracts plain text from a Google Doc. Both
// legacy documents (doc.Body) and tabbed documents (doc.Tabs) are
// supported.
func DocumentToPlainText(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var text strings.Builder

	if doc.Title != "" {
		text.WriteString(doc.Title)
		text.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		for i, tab := range doc.Tabs {
			writeTabText(&text, tab, i)
		}
	} else if doc.Body != nil {
		for _, element := range doc.Body.Content {
			writeElementText(&text, element)
		}
	}

	return text.String(), nil
}

func writeTabText(text *strings.Builder, tab *docs.Tab, index int) {
	if tab.TabProperties != nil && tab.TabProperties.Title != "" {
		fmt.Fprintf(text, "=== %s ===\n\n", tab.TabProperties.Title)
	} else if index > 0 {
		fmt.Fprintf(text, "=== Tab %d ===\n\n", index+1)
	}

	if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
		for _, element := range tab.DocumentTab.Body.Content {
			writeElementText(text, element)
		}
	}

	for i, child := range tab.ChildTabs {
		writeTabText(text, child, i+1)
	}
}

func writeElementText(text *strings.Builder, element *docs.StructuralElement) {
	switch {
	case element.Paragraph != nil:
		for _, elem := range element.Paragraph.Elements {
			if elem.TextRun != nil {
				text.WriteString(elem.TextRun.Content)
			}
		}
	case element.Table != nil:
		for _, row := range element.Table.TableRows {
			for _, cell := range row.TableCells {
				for _, cellElement := range cell.Content {
					writeElementText(text, cellElement)
				}
				text.WriteString("\t")
			}
			text.WriteString("\n")
		}
	}
}

// DocumentToMarkdown converts a Google Doc to Markdown. Headings, bold,
// italic, links and tables are preserved; anything else falls back to
// plain text.
func DocumentToMarkdown(doc *docs.Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("document is nil")
	}

	var md strings.Builder

	if doc.Title != "" {
		md.WriteString("# ")
		md.WriteString(doc.Title)
		md.WriteString("\n\n")
	}

	if len(doc.Tabs) > 0 {
		for i, tab := range doc.Tabs {
			if tab.TabProperties != nil && tab.TabProperties.Title != "" {
				fmt.Fprintf(&md, "## %s\n\n", tab.TabProperties.Title)
			} else if i > 0 {
				fmt.Fprintf(&md, "## Tab %d\n\n", i+1)
			}
			if tab.DocumentTab != nil && tab.DocumentTab.Body != nil {
				for _, element := range tab.DocumentTab.Body.Content {
					writeElementMarkdown(&md, element)
				}
			}
		}
	} else if doc.Body != nil {
		for _, element := range doc.Body.Content {
			writeElementMarkdown(&md, element)
		}
	}

	return md.String(), nil
}

func writeElementMarkdown(md *strings.Builder, element *docs.StructuralElement) {
	switch {
	case element.Paragraph != nil:
		writeParagraphMarkdown(md, element.Paragraph)
	case element.Table != nil:
		writeTableMarkdown(md, element.Table)
	case element.SectionBreak != nil:
		md.WriteString("\n---\n\n")
	}
}

func writeParagraphMarkdown(md *strings.Builder, para *docs.Paragraph) {
	if para == nil || len(para.Elements) == 0 {
		return
	}

	headingLevel := 0
	if para.ParagraphStyle != nil {
		if level, ok := strings.CutPrefix(para.ParagraphStyle.NamedStyleType, "HEADING_"); ok && len(level) == 1 && level[0] >= '1' && level[0] <= '6' {
			headingLevel = int(level[0] - '0')
		}
	}

	if headingLevel > 0 {
		md.WriteString(strings.Repeat("#", headingLevel))
		md.WriteString(" ")
	} else if para.Bullet != nil {
		// List type tracking would need the document's list metadata,
		// so every list renders as a bullet list.
		md.WriteString("- ")
	}

	for _, elem := range para.Elements {
		if elem.TextRun != nil {
			writeTextRunMarkdown(md, elem.TextRun)
		} else if elem.InlineObjectElement != nil {
			md.WriteString("[inline object]")
		}
	}

	md.WriteString("\n")
	if headingLevel > 0 || para.Bullet == nil {
		md.WriteString("\n")
	}
}

func writeTextRunMarkdown(md *strings.Builder, run *docs.TextRun) {
	content := run.Content
	if content == "" {
		return
	}

	style := run.TextStyle
	if style == nil {
		md.WriteString(content)
		return
	}

	if style.Link != nil && style.Link.Url != "" {
		fmt.Fprintf(md, "[%s](%s)", strings.TrimSpace(content), style.Link.Url)
		return
	}

	switch {
	case style.Bold && style.Italic:
		fmt.Fprintf(md, "***%s***", content)
	case style.Bold:
		fmt.Fprintf(md, "**%s**", content)
	case style.Italic:
		fmt.Fprintf(md, "*%s*", content)
	default:
		md.WriteString(content)
	}
}

func writeTableMarkdown(md *strings.Builder, table *docs.Table) {
	if table == nil || len(table.TableRows) == 0 {
		return
	}

	for rowIndex, row := range table.TableRows {
		md.WriteString("|")
		for _, cell := range row.TableCells {
			md.WriteString(" ")
			var cellText strings.Builder
			for _, element := range cell.Content {
				if element.Paragraph != nil {
					for _, elem := range element.Paragraph.Elements {
						if elem.TextRun != nil {
							cellText.WriteString(elem.TextRun.Content)
						}
					}
				}
			}
			md.WriteString(strings.ReplaceAll(strings.TrimSpace(cellText.String()), "\n", " "))
			md.WriteString(" |")
		}
		md.WriteString("\n")

		if rowIndex == 0 {
			md.WriteString("|")
			for range row.TableCells {
				md.WriteString(" --- |")
			}
			md.WriteString("\n")
		}
	}

	md.WriteString("\n")
}
