package recordstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListUsers walks the workspace user directory to the end, following
// pagination cursors.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	cursor := ""
	for {
		path := "/v1/users?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var list UserList
		if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		users = append(users, list.Results...)
		if !list.HasMore || list.NextCursor == "" {
			break
		}
		cursor = list.NextCursor
	}
	return users, nil
}
