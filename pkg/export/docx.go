package export

import (
	"bytes"

	docx "github.com/fumiama/go-docx"
)

// docxRenderer produces a Word document: one paragraph per block, headings
// sized up. Rich formatting beyond that is out of scope.
type docxRenderer struct{}

func (r *docxRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (r *docxRenderer) Extension() string { return "docx" }

func (r *docxRenderer) Render(doc *Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	if doc.Title != "" {
		w.AddParagraph().AddText(doc.Title).Size("36")
	}

	for _, block := range doc.Blocks {
		text := block.PlainText()
		switch block.Type {
		case "heading_1":
			w.AddParagraph().AddText(text).Size("32")
		case "heading_2":
			w.AddParagraph().AddText(text).Size("28")
		case "heading_3":
			w.AddParagraph().AddText(text).Size("24")
		case "bulleted_list_item":
			w.AddParagraph().AddText("• " + text)
		case "divider":
			w.AddParagraph().AddText("—")
		default:
			if text == "" {
				continue
			}
			w.AddParagraph().AddText(text)
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
