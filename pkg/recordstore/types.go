package recordstore

// Wire types for the hosted record store (a Notion-style workspace database
// API). Every type here mirrors the provider's JSON shapes; nothing is
// persisted locally.

// RichText is one span of formatted text in a title, rich_text property, or
// block. Only the "text" variant is written by this gateway; PlainText is
// populated on reads.
type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// TextContent is the writable payload of a text span.
type TextContent struct {
	Content string `json:"content"`
	Link    *Link  `json:"link,omitempty"`
}

// Link is an optional hyperlink on a text span.
type Link struct {
	URL string `json:"url"`
}

// NewRichText builds a single-span rich text value from plain text.
func NewRichText(s string) []RichText {
	return []RichText{{Type: "text", Text: &TextContent{Content: s}}}
}

// PlainString flattens a rich text array to its concatenated plain text.
func PlainString(spans []RichText) string {
	var out string
	for _, s := range spans {
		if s.PlainText != "" {
			out += s.PlainText
		} else if s.Text != nil {
			out += s.Text.Content
		}
	}
	return out
}

// Option is one entry of a select, multi_select, or status option set.
type Option struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// OptionSet is the schema-side configuration of an enumerated property.
type OptionSet struct {
	Options []Option `json:"options"`
}

// RelationConfig is the schema-side configuration of a relation property.
// DatabaseID is the database the relation points into.
type RelationConfig struct {
	DatabaseID string `json:"database_id"`
}

// PropertyDescriptor describes one property of a database schema: its kind
// and, for enumerated kinds, the valid option set.
type PropertyDescriptor struct {
	ID          string          `json:"id,omitempty"`
	Type        string          `json:"type"`
	Select      *OptionSet      `json:"select,omitempty"`
	MultiSelect *OptionSet      `json:"multi_select,omitempty"`
	Status      *OptionSet      `json:"status,omitempty"`
	Relation    *RelationConfig `json:"relation,omitempty"`
}

// Property kinds understood by the gateway. Anything else is treated as
// unsupported and skipped at build time.
const (
	KindTitle       = "title"
	KindRichText    = "rich_text"
	KindSelect      = "select"
	KindMultiSelect = "multi_select"
	KindStatus      = "status"
	KindDate        = "date"
	KindNumber      = "number"
	KindCheckbox    = "checkbox"
	KindURL         = "url"
	KindPeople      = "people"
	KindFiles       = "files"
	KindRelation    = "relation"
)

// OptionNames returns the valid option names for select/status/multi_select
// descriptors, in the provider's order. Nil for other kinds.
func (d PropertyDescriptor) OptionNames() []string {
	var set *OptionSet
	switch d.Type {
	case KindSelect:
		set = d.Select
	case KindMultiSelect:
		set = d.MultiSelect
	case KindStatus:
		set = d.Status
	}
	if set == nil {
		return nil
	}
	names := make([]string, 0, len(set.Options))
	for _, o := range set.Options {
		names = append(names, o.Name)
	}
	return names
}

// DateValue is the date property payload: an ISO start, optional end, and
// optional IANA timezone.
type DateValue struct {
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	TimeZone string `json:"time_zone,omitempty"`
}

// UserRef references a workspace user by id.
type UserRef struct {
	Object string `json:"object,omitempty"`
	ID     string `json:"id"`
}

// PageRef references another page by id, as stored in relation properties.
type PageRef struct {
	ID string `json:"id"`
}

// ExternalFile is the writable file payload: an external URL plus a display
// name.
type ExternalFile struct {
	URL string `json:"url"`
}

// FileValue is one entry of a files property.
type FileValue struct {
	Type     string        `json:"type,omitempty"`
	Name     string        `json:"name,omitempty"`
	External *ExternalFile `json:"external,omitempty"`
}

// PropertyValue is the value of one page property, writable and readable.
// Exactly one of the kind fields is set, matching Type.
type PropertyValue struct {
	ID          string      `json:"id,omitempty"`
	Type        string      `json:"type,omitempty"`
	Title       []RichText  `json:"title,omitempty"`
	RichText    []RichText  `json:"rich_text,omitempty"`
	Select      *Option     `json:"select,omitempty"`
	MultiSelect []Option    `json:"multi_select,omitempty"`
	Status      *Option     `json:"status,omitempty"`
	Date        *DateValue  `json:"date,omitempty"`
	Number      *float64    `json:"number,omitempty"`
	Checkbox    *bool       `json:"checkbox,omitempty"`
	URL         *string     `json:"url,omitempty"`
	People      []UserRef   `json:"people,omitempty"`
	Files       []FileValue `json:"files,omitempty"`
	Relation    []PageRef   `json:"relation,omitempty"`
}

// Parent identifies what a page hangs off of.
type Parent struct {
	Type       string `json:"type,omitempty"`
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// Page is a record in a workspace database.
type Page struct {
	Object         string                   `json:"object,omitempty"`
	ID             string                   `json:"id"`
	URL            string                   `json:"url,omitempty"`
	Archived       bool                     `json:"archived,omitempty"`
	Parent         *Parent                  `json:"parent,omitempty"`
	Properties     map[string]PropertyValue `json:"properties,omitempty"`
	LastEditedTime string                   `json:"last_edited_time,omitempty"`
}

// TitleText returns the page's title plain text, or "" when the page has no
// title-kind property.
func (p *Page) TitleText() string {
	for _, pv := range p.Properties {
		if pv.Type == KindTitle {
			return PlainString(pv.Title)
		}
	}
	return ""
}

// Database is the provider's database object, carrying the property schema.
type Database struct {
	Object     string                        `json:"object,omitempty"`
	ID         string                        `json:"id"`
	Title      []RichText                    `json:"title,omitempty"`
	Properties map[string]PropertyDescriptor `json:"properties"`
}

// Person carries the email of a person-type user.
type Person struct {
	Email string `json:"email,omitempty"`
}

// User is a workspace directory entry.
type User struct {
	Object string  `json:"object,omitempty"`
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Type   string  `json:"type,omitempty"`
	Person *Person `json:"person,omitempty"`
}

// TextFilter matches text-bearing properties. Exactly one condition is set.
type TextFilter struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

// Filter is a single-property database query filter. Only title filtering is
// needed by the gateway.
type Filter struct {
	Property string      `json:"property"`
	Title    *TextFilter `json:"title,omitempty"`
}

// Query is a database query request.
type Query struct {
	Filter      *Filter `json:"filter,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
}

// PageList is the provider's paginated page-list response, shared by database
// queries and global search.
type PageList struct {
	Object     string `json:"object,omitempty"`
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more,omitempty"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// SearchFilter restricts global search results by object type.
type SearchFilter struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// SearchSort orders global search results.
type SearchSort struct {
	Direction string `json:"direction"`
	Timestamp string `json:"timestamp"`
}

// SearchRequest is the store-wide search request.
type SearchRequest struct {
	Query    string        `json:"query"`
	Filter   *SearchFilter `json:"filter,omitempty"`
	Sort     *SearchSort   `json:"sort,omitempty"`
	PageSize int           `json:"page_size,omitempty"`
}

// UserList is the paginated user directory response.
type UserList struct {
	Results    []User `json:"results"`
	HasMore    bool   `json:"has_more,omitempty"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// TextBlockContent is the body of paragraph, heading, and list-item blocks.
type TextBlockContent struct {
	RichText []RichText `json:"rich_text"`
}

// CodeBlockContent is the body of a code block.
type CodeBlockContent struct {
	RichText []RichText `json:"rich_text"`
	Language string     `json:"language,omitempty"`
}

// Block is one unit of page content. Exactly one of the content fields is
// set, matching Type.
type Block struct {
	Object           string            `json:"object,omitempty"`
	ID               string            `json:"id,omitempty"`
	Type             string            `json:"type"`
	Paragraph        *TextBlockContent `json:"paragraph,omitempty"`
	Heading1         *TextBlockContent `json:"heading_1,omitempty"`
	Heading2         *TextBlockContent `json:"heading_2,omitempty"`
	Heading3         *TextBlockContent `json:"heading_3,omitempty"`
	BulletedListItem *TextBlockContent `json:"bulleted_list_item,omitempty"`
	Code             *CodeBlockContent `json:"code,omitempty"`
	Divider          *struct{}         `json:"divider,omitempty"`
}

// BlockList is the paginated block-children response.
type BlockList struct {
	Results    []Block `json:"results"`
	HasMore    bool    `json:"has_more,omitempty"`
	NextCursor string  `json:"next_cursor,omitempty"`
}

// PlainText returns the block's concatenated text content, ignoring
// formatting. Dividers and unknown block types yield "".
func (b Block) PlainText() string {
	switch {
	case b.Paragraph != nil:
		return PlainString(b.Paragraph.RichText)
	case b.Heading1 != nil:
		return PlainString(b.Heading1.RichText)
	case b.Heading2 != nil:
		return PlainString(b.Heading2.RichText)
	case b.Heading3 != nil:
		return PlainString(b.Heading3.RichText)
	case b.BulletedListItem != nil:
		return PlainString(b.BulletedListItem.RichText)
	case b.Code != nil:
		return PlainString(b.Code.RichText)
	}
	return ""
}
