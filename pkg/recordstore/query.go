package recordstore

import (
	"context"
	"fmt"
	"net/http"
)

// QueryDatabase runs a filtered query against one database and returns a
// single page of results.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, q *Query) (*PageList, error) {
	if q == nil {
		q = &Query{}
	}
	var list PageList
	path := "/v1/databases/" + databaseID + "/query"
	if err := c.do(ctx, http.MethodPost, path, q, &list); err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}
	return &list, nil
}

// Search runs a store-wide search. Callers restrict to page results and
// most-recently-edited ordering via the request's Filter and Sort.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*PageList, error) {
	if req == nil {
		req = &SearchRequest{}
	}
	var list PageList
	if err := c.do(ctx, http.MethodPost, "/v1/search", req, &list); err != nil {
		return nil, fmt.Errorf("failed to search record store: %w", err)
	}
	return &list, nil
}
