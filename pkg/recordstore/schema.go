package recordstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoTitleProperty is returned when a database schema carries no
// title-kind property. Creation is impossible against such a database, so
// callers treat this as a distinct condition rather than a generic provider
// error.
var ErrNoTitleProperty = errors.New("no title property found in database schema")

// Schema is the introspected property schema of one database.
type Schema struct {
	DatabaseID string

	// TitleProperty is the name of the title-kind property.
	TitleProperty string

	// Properties maps property name (case-sensitive) to its descriptor.
	Properties map[string]PropertyDescriptor
}

// Descriptor looks up a property by name. The second return is false for
// unknown names.
func (s *Schema) Descriptor(name string) (PropertyDescriptor, bool) {
	d, ok := s.Properties[name]
	return d, ok
}

// FetchSchema retrieves the database's property definitions. The fetch is
// always live: no memoization, so option validation reflects the remote
// configuration at time of call, at the cost of a round trip per operation.
func (c *Client) FetchSchema(ctx context.Context, databaseID string) (*Schema, error) {
	var db Database
	if err := c.do(ctx, http.MethodGet, "/v1/databases/"+databaseID, nil, &db); err != nil {
		return nil, fmt.Errorf("failed to fetch database schema: %w", err)
	}

	schema := &Schema{
		DatabaseID: db.ID,
		Properties: db.Properties,
	}
	if schema.DatabaseID == "" {
		schema.DatabaseID = databaseID
	}
	for name, d := range db.Properties {
		if d.Type == KindTitle {
			schema.TitleProperty = name
			break
		}
	}
	return schema, nil
}
