package recordstore

import (
	"context"
	"fmt"
	"net/http"
)

type createPageRequest struct {
	Parent     Parent                   `json:"parent"`
	Properties map[string]PropertyValue `json:"properties"`
}

type updatePageRequest struct {
	Properties map[string]PropertyValue `json:"properties,omitempty"`
	Archived   *bool                    `json:"archived,omitempty"`
}

// GetPage retrieves a single page by id.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	var page Page
	if err := c.do(ctx, http.MethodGet, "/v1/pages/"+pageID, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	return &page, nil
}

// CreatePage creates a new record in the given database.
func (c *Client) CreatePage(
	ctx context.Context,
	databaseID string,
	properties map[string]PropertyValue,
) (*Page, error) {
	req := createPageRequest{
		Parent:     Parent{Type: "database_id", DatabaseID: databaseID},
		Properties: properties,
	}
	var page Page
	if err := c.do(ctx, http.MethodPost, "/v1/pages", req, &page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	return &page, nil
}

// UpdatePage patches an existing record's properties.
func (c *Client) UpdatePage(
	ctx context.Context,
	pageID string,
	properties map[string]PropertyValue,
) (*Page, error) {
	req := updatePageRequest{Properties: properties}
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, req, &page); err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}
	return &page, nil
}

// ArchivePage marks a page archived. The provider treats this as a soft
// delete; the page remains retrievable.
func (c *Client) ArchivePage(ctx context.Context, pageID string) (*Page, error) {
	archived := true
	req := updatePageRequest{Archived: &archived}
	var page Page
	if err := c.do(ctx, http.MethodPatch, "/v1/pages/"+pageID, req, &page); err != nil {
		return nil, fmt.Errorf("failed to archive page: %w", err)
	}
	return &page, nil
}
