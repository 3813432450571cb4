package upsert

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// Resolver turns a human-readable page title into a stable page id using an
// ordered list of lookup tiers. Each tier is tried only when the previous
// one yields no match, so the cheap precise strategies run first and the
// expensive store-wide search is a last resort. New tiers append to the list
// without restructuring control flow.
type Resolver struct {
	store  Store
	logger hclog.Logger
	tiers  []resolverTier
}

// resolverTier attempts one lookup strategy. It returns "" (no error) when
// the strategy finds nothing.
type resolverTier func(ctx context.Context, databaseID, titleProperty, text string) (string, error)

// NewResolver creates a resolver with the standard three tiers: exact title
// match, title substring match, and global search filtered by parent
// database. The logger may be nil.
func NewResolver(store Store, logger hclog.Logger) *Resolver {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	r := &Resolver{store: store, logger: logger}
	r.tiers = []resolverTier{
		r.exactMatch,
		r.substringMatch,
		r.globalSearch,
	}
	return r
}

// Resolve maps a title to a page id within the given database. Returns ""
// when no tier matches. Provider errors abort resolution.
func (r *Resolver) Resolve(ctx context.Context, databaseID, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	schema, err := r.store.FetchSchema(ctx, databaseID)
	if err != nil {
		return "", fmt.Errorf("failed to fetch target database schema: %w", err)
	}
	if schema.TitleProperty == "" {
		return "", recordstore.ErrNoTitleProperty
	}

	for i, tier := range r.tiers {
		id, err := tier(ctx, databaseID, schema.TitleProperty, text)
		if err != nil {
			return "", err
		}
		if id != "" {
			r.logger.Debug("resolved relation title",
				"database_id", databaseID,
				"title", text,
				"tier", i+1,
			)
			return id, nil
		}
	}
	return "", nil
}

// exactMatch queries the database for a case-sensitive title equality hit.
func (r *Resolver) exactMatch(ctx context.Context, databaseID, titleProperty, text string) (string, error) {
	list, err := r.store.QueryDatabase(ctx, databaseID, &recordstore.Query{
		Filter: &recordstore.Filter{
			Property: titleProperty,
			Title:    &recordstore.TextFilter{Equals: text},
		},
		PageSize: 1,
	})
	if err != nil {
		return "", fmt.Errorf("exact title query failed: %w", err)
	}
	if len(list.Results) > 0 {
		return list.Results[0].ID, nil
	}
	return "", nil
}

// substringMatch queries the database for a title-contains hit, first of up
// to 5 candidates.
func (r *Resolver) substringMatch(ctx context.Context, databaseID, titleProperty, text string) (string, error) {
	list, err := r.store.QueryDatabase(ctx, databaseID, &recordstore.Query{
		Filter: &recordstore.Filter{
			Property: titleProperty,
			Title:    &recordstore.TextFilter{Contains: text},
		},
		PageSize: 5,
	})
	if err != nil {
		return "", fmt.Errorf("substring title query failed: %w", err)
	}
	if len(list.Results) > 0 {
		return list.Results[0].ID, nil
	}
	return "", nil
}

// globalSearch runs a store-wide search restricted to pages, most recently
// edited first, keeps candidates whose parent database is the target, and
// prefers one whose title equals the query case-insensitively.
func (r *Resolver) globalSearch(ctx context.Context, databaseID, titleProperty, text string) (string, error) {
	list, err := r.store.Search(ctx, &recordstore.SearchRequest{
		Query:    text,
		Filter:   &recordstore.SearchFilter{Property: "object", Value: "page"},
		Sort:     &recordstore.SearchSort{Direction: "descending", Timestamp: "last_edited_time"},
		PageSize: 20,
	})
	if err != nil {
		return "", fmt.Errorf("global search failed: %w", err)
	}

	want := normalizeIDForCompare(databaseID)
	var first string
	for _, page := range list.Results {
		if page.Parent == nil || normalizeIDForCompare(page.Parent.DatabaseID) != want {
			continue
		}
		if strings.EqualFold(page.TitleText(), text) {
			return page.ID, nil
		}
		if first == "" {
			first = page.ID
		}
	}
	return first, nil
}

// normalizeIDForCompare strips separators and case so dashed and bare id
// forms compare equal.
func normalizeIDForCompare(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}
