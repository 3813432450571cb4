package export

import (
	"bytes"

	"github.com/go-pdf/fpdf"
)

// pdfRenderer produces a simple typeset PDF: title, headings, bullets, and
// monospaced code. Layout sophistication is deliberately out of scope.
type pdfRenderer struct{}

func (r *pdfRenderer) ContentType() string { return "application/pdf" }
func (r *pdfRenderer) Extension() string   { return "pdf" }

func (r *pdfRenderer) Render(doc *Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 9, doc.Title, "", "L", false)
		pdf.Ln(4)
	}

	for _, block := range doc.Blocks {
		text := block.PlainText()
		switch block.Type {
		case "heading_1":
			pdf.SetFont("Helvetica", "B", 16)
			pdf.MultiCell(0, 8, text, "", "L", false)
			pdf.Ln(2)
		case "heading_2":
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 7, text, "", "L", false)
			pdf.Ln(2)
		case "heading_3":
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, text, "", "L", false)
			pdf.Ln(1)
		case "bulleted_list_item":
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, "• "+text, "", "L", false)
		case "code":
			pdf.SetFont("Courier", "", 10)
			pdf.MultiCell(0, 5, text, "", "L", false)
			pdf.Ln(2)
		case "divider":
			x, y := pdf.GetXY()
			pageWidth, _ := pdf.GetPageSize()
			pdf.Line(x, y+2, pageWidth-15, y+2)
			pdf.Ln(5)
		default:
			if text == "" {
				continue
			}
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, text, "", "L", false)
			pdf.Ln(2)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
