package export

import (
	"strings"
)

// markdownRenderer walks blocks into GitHub-flavored markdown text.
type markdownRenderer struct{}

func (r *markdownRenderer) ContentType() string { return "text/markdown; charset=utf-8" }
func (r *markdownRenderer) Extension() string   { return "md" }

func (r *markdownRenderer) Render(doc *Document) ([]byte, error) {
	return []byte(Markdown(doc)), nil
}

// Markdown converts a document to markdown text. Shared by the markdown
// renderer and as the intermediate form for the HTML renderer.
func Markdown(doc *Document) string {
	var b strings.Builder
	if doc.Title != "" {
		b.WriteString("# " + doc.Title + "\n\n")
	}
	for _, block := range doc.Blocks {
		switch block.Type {
		case "heading_1":
			b.WriteString("# " + block.PlainText() + "\n\n")
		case "heading_2":
			b.WriteString("## " + block.PlainText() + "\n\n")
		case "heading_3":
			b.WriteString("### " + block.PlainText() + "\n\n")
		case "bulleted_list_item":
			b.WriteString("- " + block.PlainText() + "\n")
		case "code":
			lang := ""
			if block.Code != nil {
				lang = block.Code.Language
			}
			b.WriteString("```" + lang + "\n" + block.PlainText() + "\n```\n\n")
		case "divider":
			b.WriteString("---\n\n")
		default:
			if text := block.PlainText(); text != "" {
				b.WriteString(text + "\n\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
