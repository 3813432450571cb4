// Package export renders a page's block content into downloadable document
// formats. Rendering is delegated to off-the-shelf formatting libraries;
// this package only walks blocks and drives the renderers.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/iancoleman/strcase"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// Format is a supported export format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatPDF      Format = "pdf"
	FormatDOCX     Format = "docx"
)

// ErrUnsupportedFormat is returned for formats the exporter cannot render.
var ErrUnsupportedFormat = fmt.Errorf("unsupported export format")

// ParseFormat normalizes a format string from a request.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Document is the renderer input: a page title plus its content blocks.
type Document struct {
	Title  string
	Blocks []recordstore.Block
}

// Renderer produces one output format from a document.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	ContentType() string
	Extension() string
}

// Fetcher is the slice of the record store the exporter needs.
// recordstore.Client satisfies it.
type Fetcher interface {
	GetPage(ctx context.Context, pageID string) (*recordstore.Page, error)
	ListBlocks(ctx context.Context, pageID string) ([]recordstore.Block, error)
}

var _ Fetcher = (*recordstore.Client)(nil)

// File is a rendered export ready to serve.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Exporter fetches a page's content and renders it in a requested format.
type Exporter struct {
	fetcher   Fetcher
	renderers map[Format]Renderer
	logger    hclog.Logger
}

// NewExporter creates an exporter with the standard renderer set. The
// logger may be nil.
func NewExporter(fetcher Fetcher, logger hclog.Logger) *Exporter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Exporter{
		fetcher: fetcher,
		logger:  logger,
		renderers: map[Format]Renderer{
			FormatMarkdown: &markdownRenderer{},
			FormatHTML:     &htmlRenderer{},
			FormatPDF:      &pdfRenderer{},
			FormatDOCX:     &docxRenderer{},
		},
	}
}

// Export fetches the page and its blocks live and renders them.
func (e *Exporter) Export(ctx context.Context, pageID string, format Format) (*File, error) {
	renderer, ok := e.renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	page, err := e.fetcher.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page for export: %w", err)
	}
	blocks, err := e.fetcher.ListBlocks(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page content for export: %w", err)
	}

	doc := &Document{Title: page.TitleText(), Blocks: blocks}
	data, err := renderer.Render(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s export: %w", format, err)
	}

	e.logger.Info("rendered export",
		"page_id", pageID,
		"format", format,
		"bytes", len(data),
	)
	return &File{
		Name:        Filename(doc.Title, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// Filename derives a download filename from a page title.
func Filename(title, extension string) string {
	slug := strcase.ToSnake(strings.TrimSpace(title))
	if slug == "" {
		slug = "export"
	}
	return slug + "." + extension
}
