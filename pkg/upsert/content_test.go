package upsert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentMarkdownBlocks(t *testing.T) {
	c := &Content{Markdown: `# Heading

Paragraph line one
continues here.

## Sub
- first
- second

---

` + "```go\nfmt.Println(\"hi\")\n```"}

	blocks, err := c.ToBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 7)

	assert.Equal(t, "heading_1", blocks[0].Type)
	assert.Equal(t, "Heading", blocks[0].PlainText())

	assert.Equal(t, "paragraph", blocks[1].Type)
	assert.Equal(t, "Paragraph line one continues here.", blocks[1].PlainText(),
		"consecutive plain lines collapse into one paragraph")

	assert.Equal(t, "heading_2", blocks[2].Type)
	assert.Equal(t, "bulleted_list_item", blocks[3].Type)
	assert.Equal(t, "first", blocks[3].PlainText())
	assert.Equal(t, "bulleted_list_item", blocks[4].Type)
	assert.Equal(t, "divider", blocks[5].Type)

	// The fenced code keeps its language and interior newlines.
	assert.Equal(t, "code", blocks[6].Type)
	assert.Equal(t, "go", blocks[6].Code.Language)
	assert.Equal(t, `fmt.Println("hi")`, blocks[6].PlainText())
}

func TestContentExplicitBlocks(t *testing.T) {
	c := &Content{Blocks: []map[string]interface{}{
		{"type": "heading", "text": "Title", "level": 2},
		{"type": "paragraph", "text": "Body"},
		{"type": "code", "text": "x = 1", "language": "python"},
		{"type": "divider"},
	}}

	blocks, err := c.ToBlocks()
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	assert.Equal(t, "heading_2", blocks[0].Type)
	assert.Equal(t, "paragraph", blocks[1].Type)
	assert.Equal(t, "python", blocks[2].Code.Language)
	assert.Equal(t, "divider", blocks[3].Type)
}

func TestContentUnknownBlockType(t *testing.T) {
	c := &Content{Blocks: []map[string]interface{}{
		{"type": "table", "text": "nope"},
	}}
	_, err := c.ToBlocks()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table")
}

func TestContentNil(t *testing.T) {
	var c *Content
	blocks, err := c.ToBlocks()
	require.NoError(t, err)
	assert.Nil(t, blocks)
}
