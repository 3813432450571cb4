package export

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlRenderer converts the document's markdown form to HTML via goldmark.
type htmlRenderer struct{}

func (r *htmlRenderer) ContentType() string { return "text/html; charset=utf-8" }
func (r *htmlRenderer) Extension() string   { return "html" }

func (r *htmlRenderer) Render(doc *Document) ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(doc)), &body); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}

	var out bytes.Buffer
	fmt.Fprintf(&out, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n</head>\n<body>\n", html.EscapeString(doc.Title))
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	return out.Bytes(), nil
}
