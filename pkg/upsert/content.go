package upsert

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// Content is the optional structured content attached to an upsert. Either
// Markdown (converted to blocks by a line-oriented splitter) or Blocks
// (explicit, loosely-shaped block objects) may be set; when both are set the
// explicit blocks win.
type Content struct {
	Markdown string                   `json:"markdown,omitempty"`
	Blocks   []map[string]interface{} `json:"blocks,omitempty"`
}

// blockInput is the decoded shape of one explicit block object.
type blockInput struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Level    int    `json:"level"`
	Language string `json:"language"`
}

// ToBlocks converts the content payload into provider blocks.
func (c *Content) ToBlocks() ([]recordstore.Block, error) {
	if c == nil {
		return nil, nil
	}
	if len(c.Blocks) > 0 {
		return explicitBlocks(c.Blocks)
	}
	if c.Markdown != "" {
		return markdownBlocks(c.Markdown), nil
	}
	return nil, nil
}

func explicitBlocks(raw []map[string]interface{}) ([]recordstore.Block, error) {
	blocks := make([]recordstore.Block, 0, len(raw))
	for i, m := range raw {
		var in blockInput
		cfg := &mapstructure.DecoderConfig{Result: &in, TagName: "json"}
		dec, err := mapstructure.NewDecoder(cfg)
		if err == nil {
			err = dec.Decode(m)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid content block at index %d: %w", i, err)
		}

		switch in.Type {
		case "paragraph", "":
			blocks = append(blocks, recordstore.NewParagraph(in.Text))
		case "heading":
			level := in.Level
			if level == 0 {
				level = 1
			}
			blocks = append(blocks, recordstore.NewHeading(level, in.Text))
		case "bullet":
			blocks = append(blocks, recordstore.NewBullet(in.Text))
		case "code":
			blocks = append(blocks, recordstore.NewCode(in.Text, in.Language))
		case "divider":
			blocks = append(blocks, recordstore.NewDivider())
		default:
			return nil, fmt.Errorf("unknown content block type %q at index %d", in.Type, i)
		}
	}
	return blocks, nil
}

// markdownBlocks splits markdown text into blocks line by line. Headings,
// bullets, fenced code, and dividers are recognized; consecutive plain lines
// collapse into one paragraph. This is a converter, not a markdown parser:
// inline formatting is passed through as plain text.
func markdownBlocks(md string) []recordstore.Block {
	var blocks []recordstore.Block
	var paragraph []string
	var code []string
	var codeLang string
	inCode := false

	flushParagraph := func() {
		if len(paragraph) > 0 {
			blocks = append(blocks, recordstore.NewParagraph(strings.Join(paragraph, " ")))
			paragraph = nil
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		if inCode {
			if strings.HasPrefix(trimmed, "```") {
				blocks = append(blocks, recordstore.NewCode(strings.Join(code, "\n"), codeLang))
				code = nil
				inCode = false
				continue
			}
			code = append(code, line)
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "```"):
			flushParagraph()
			codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			inCode = true
		case strings.HasPrefix(trimmed, "### "):
			flushParagraph()
			blocks = append(blocks, recordstore.NewHeading(3, strings.TrimPrefix(trimmed, "### ")))
		case strings.HasPrefix(trimmed, "## "):
			flushParagraph()
			blocks = append(blocks, recordstore.NewHeading(2, strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# "):
			flushParagraph()
			blocks = append(blocks, recordstore.NewHeading(1, strings.TrimPrefix(trimmed, "# ")))
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			flushParagraph()
			blocks = append(blocks, recordstore.NewBullet(trimmed[2:]))
		case trimmed == "---":
			flushParagraph()
			blocks = append(blocks, recordstore.NewDivider())
		case trimmed == "":
			flushParagraph()
		default:
			paragraph = append(paragraph, trimmed)
		}
	}

	// An unterminated fence still flushes as code.
	if inCode && len(code) > 0 {
		blocks = append(blocks, recordstore.NewCode(strings.Join(code, "\n"), codeLang))
	}
	flushParagraph()
	return blocks
}
