package recordstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

type appendBlocksRequest struct {
	Children []Block `json:"children"`
}

// AppendBlocks appends content blocks to the end of a page.
func (c *Client) AppendBlocks(ctx context.Context, pageID string, blocks []Block) error {
	if len(blocks) == 0 {
		return nil
	}
	path := "/v1/blocks/" + pageID + "/children"
	req := appendBlocksRequest{Children: blocks}
	if err := c.do(ctx, http.MethodPatch, path, req, nil); err != nil {
		return fmt.Errorf("failed to append blocks: %w", err)
	}
	return nil
}

// ListBlocks retrieves all content blocks of a page, following pagination
// cursors.
func (c *Client) ListBlocks(ctx context.Context, pageID string) ([]Block, error) {
	var blocks []Block
	cursor := ""
	for {
		path := "/v1/blocks/" + pageID + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var list BlockList
		if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
			return nil, fmt.Errorf("failed to list blocks: %w", err)
		}
		blocks = append(blocks, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			break
		}
		cursor = list.NextCursor
	}
	return blocks, nil
}

// Text block helpers used when converting inbound content payloads.

// NewParagraph builds a paragraph block from plain text.
func NewParagraph(text string) Block {
	return Block{
		Object:    "block",
		Type:      "paragraph",
		Paragraph: &TextBlockContent{RichText: NewRichText(text)},
	}
}

// NewHeading builds a heading block at level 1-3. Levels outside that range
// are clamped.
func NewHeading(level int, text string) Block {
	content := &TextBlockContent{RichText: NewRichText(text)}
	b := Block{Object: "block"}
	switch {
	case level <= 1:
		b.Type = "heading_1"
		b.Heading1 = content
	case level == 2:
		b.Type = "heading_2"
		b.Heading2 = content
	default:
		b.Type = "heading_3"
		b.Heading3 = content
	}
	return b
}

// NewBullet builds a bulleted list item block.
func NewBullet(text string) Block {
	return Block{
		Object:           "block",
		Type:             "bulleted_list_item",
		BulletedListItem: &TextBlockContent{RichText: NewRichText(text)},
	}
}

// NewCode builds a code block. An empty language defaults to "plain text",
// which the provider requires.
func NewCode(text, language string) Block {
	if language == "" {
		language = "plain text"
	}
	return Block{
		Object: "block",
		Type:   "code",
		Code:   &CodeBlockContent{RichText: NewRichText(text), Language: language},
	}
}

// NewDivider builds a divider block.
func NewDivider() Block {
	return Block{Object: "block", Type: "divider", Divider: &struct{}{}}
}
