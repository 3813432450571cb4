// Package upsert implements the schema-adaptive record upsert engine: it
// discovers a database's property schema at call time, maps loosely-typed
// input fields to the provider's strongly-typed property payloads, resolves
// human-readable relation references to stable identifiers, and performs
// idempotent create-or-update with per-field partial-failure tolerance.
package upsert

import (
	"context"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// Store is the narrow slice of the record store the upsert engine consumes.
// recordstore.Client satisfies it; tests use an in-memory fake.
type Store interface {
	// FetchSchema retrieves a database's property schema. Live per call,
	// never cached.
	FetchSchema(ctx context.Context, databaseID string) (*recordstore.Schema, error)

	// QueryDatabase runs a filtered query against one database.
	QueryDatabase(ctx context.Context, databaseID string, q *recordstore.Query) (*recordstore.PageList, error)

	// Search runs a store-wide search.
	Search(ctx context.Context, req *recordstore.SearchRequest) (*recordstore.PageList, error)

	// CreatePage creates a record in a database.
	CreatePage(ctx context.Context, databaseID string, properties map[string]recordstore.PropertyValue) (*recordstore.Page, error)

	// UpdatePage patches an existing record's properties.
	UpdatePage(ctx context.Context, pageID string, properties map[string]recordstore.PropertyValue) (*recordstore.Page, error)

	// AppendBlocks appends content blocks to a page.
	AppendBlocks(ctx context.Context, pageID string, blocks []recordstore.Block) error

	// ListUsers lists the workspace user directory.
	ListUsers(ctx context.Context) ([]recordstore.User, error)
}

// Compile-time check: the HTTP client implements the Store contract.
var _ Store = (*recordstore.Client)(nil)
