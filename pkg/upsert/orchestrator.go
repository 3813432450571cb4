package upsert

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// Request is one upsert operation: create when PageID is empty, update
// otherwise. Fields map property names to raw values of flexible shape;
// validity is determined only against the live schema.
type Request struct {
	DatabaseID string
	PageID     string
	Title      string
	Fields     map[string]interface{}
	Content    *Content
}

// Result reports a completed upsert, including per-field skips and the
// outcome of the optional content append. A failed append never rolls back
// the record write; it is reported here as explicit partial success.
type Result struct {
	Mode               string
	DatabaseID         string
	PageID             string
	PageURL            string
	Skipped            map[string]SkipDetail
	RelationNormalized []string
	ContentAppended    bool
	ContentError       string
}

// UnresolvedRelation names one relation field whose title reference could
// not be resolved to a page id.
type UnresolvedRelation struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// RelationError aborts an upsert when one or more relation titles cannot be
// disambiguated. A dangling or ambiguous relation is judged worse than no
// write at all, so nothing is applied. Suggestions sample valid titles from
// the target database so the caller can self-correct.
type RelationError struct {
	Unresolved  []UnresolvedRelation
	Suggestions []string
}

func (e *RelationError) Error() string {
	names := make([]string, 0, len(e.Unresolved))
	for _, u := range e.Unresolved {
		names = append(names, u.Property)
	}
	return fmt.Sprintf("relation title not found for: %s", strings.Join(names, ", "))
}

// TitleError aborts a create that would produce a record without a title.
type TitleError struct {
	Code  string
	Field string
	Hint  string
}

func (e *TitleError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field %q)", e.Code, e.Field)
	}
	return e.Code
}

// Title error codes.
const (
	CodeTitleRequired         = "title_required"
	CodeTitleRequiredOnCreate = "title_required_on_create"
)

// Upsert modes.
const (
	ModeCreate = "create"
	ModeUpdate = "update"
)

// Orchestrator runs the full upsert flow: schema fetch, relation
// normalization, property building, a single create or update call, and the
// optional content append. All provider calls are sequential within one
// operation.
type Orchestrator struct {
	store     Store
	builder   *Builder
	resolver  *Resolver
	directory *Directory
	logger    hclog.Logger
}

// NewOrchestrator wires an orchestrator over the given store. The logger
// may be nil.
func NewOrchestrator(store Store, logger hclog.Logger) *Orchestrator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	directory := NewDirectory(store, logger.Named("directory"))
	return &Orchestrator{
		store:     store,
		builder:   NewBuilder(directory),
		resolver:  NewResolver(store, logger.Named("resolver")),
		directory: directory,
		logger:    logger,
	}
}

// Upsert creates or updates one record. Field-level problems degrade to
// per-field skips; unresolvable relation titles and missing titles on create
// abort before any write.
func (o *Orchestrator) Upsert(ctx context.Context, req *Request) (*Result, error) {
	mode := ModeCreate
	if req.PageID != "" {
		mode = ModeUpdate
	}

	schema, err := o.store.FetchSchema(ctx, req.DatabaseID)
	if err != nil {
		return nil, err
	}
	if mode == ModeCreate && schema.TitleProperty == "" {
		return nil, recordstore.ErrNoTitleProperty
	}

	fields := make(map[string]interface{}, len(req.Fields))
	for k, v := range req.Fields {
		fields[k] = v
	}

	// An explicit title becomes the schema's title property unless the
	// caller already set that field directly.
	if req.Title != "" && schema.TitleProperty != "" {
		if _, ok := fields[schema.TitleProperty]; !ok {
			fields[schema.TitleProperty] = req.Title
		}
	}

	normalized, relErr := o.normalizeRelations(ctx, schema, fields)
	if relErr != nil {
		return nil, relErr
	}

	properties := make(map[string]recordstore.PropertyValue)
	skipped := make(map[string]SkipDetail)
	var titleReject string

	for name, raw := range fields {
		desc, ok := schema.Descriptor(name)
		if !ok {
			skipped[name] = SkipDetail{Reason: SkipUnknownProperty}
			continue
		}
		outcome := o.builder.Build(ctx, desc, raw)
		switch {
		case outcome.Applied():
			properties[name] = *outcome.Payload
		case outcome.Reject != nil:
			if desc.Type == recordstore.KindTitle && mode == ModeCreate {
				titleReject = name
			} else {
				// Outside of creation a rejected title degrades to a skip
				// like any other field.
				skipped[name] = SkipDetail{Reason: SkipInvalidText}
			}
		default:
			skipped[name] = *outcome.Skip
		}
	}

	if titleReject != "" {
		return nil, &TitleError{
			Code:  CodeTitleRequired,
			Field: titleReject,
			Hint:  "the title value is empty; a record cannot be created without a title",
		}
	}
	if mode == ModeCreate {
		if _, ok := properties[schema.TitleProperty]; !ok {
			return nil, &TitleError{
				Code:  CodeTitleRequiredOnCreate,
				Field: schema.TitleProperty,
				Hint:  fmt.Sprintf("supply title or populate the %q field", schema.TitleProperty),
			}
		}
	}

	var page *recordstore.Page
	if mode == ModeCreate {
		page, err = o.store.CreatePage(ctx, schema.DatabaseID, properties)
	} else {
		page, err = o.store.UpdatePage(ctx, req.PageID, properties)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{
		Mode:               mode,
		DatabaseID:         schema.DatabaseID,
		PageID:             page.ID,
		PageURL:            page.URL,
		RelationNormalized: normalized,
	}
	if len(skipped) > 0 {
		result.Skipped = skipped
	}

	blocks, blockErr := req.Content.ToBlocks()
	if blockErr != nil {
		result.ContentError = blockErr.Error()
	} else if len(blocks) > 0 {
		if err := o.store.AppendBlocks(ctx, page.ID, blocks); err != nil {
			// The record write already succeeded; surface the append
			// failure as partial success rather than rolling back.
			o.logger.Warn("content append failed after successful write",
				"page_id", page.ID,
				"error", err,
			)
			result.ContentError = err.Error()
		} else {
			result.ContentAppended = true
		}
	}

	o.logger.Info("upsert complete",
		"mode", mode,
		"database_id", schema.DatabaseID,
		"page_id", page.ID,
		"skipped", len(skipped),
		"relations_normalized", len(normalized),
	)
	return result, nil
}

// normalizeRelations rewrites relation-typed fields whose values are title
// strings into page id references. Values that already parse as ids pass
// through untouched. Any title that no resolver tier can place aborts the
// operation.
func (o *Orchestrator) normalizeRelations(
	ctx context.Context,
	schema *recordstore.Schema,
	fields map[string]interface{},
) ([]string, error) {
	var normalized []string
	var unresolved []UnresolvedRelation
	suggestDB := ""

	for name, raw := range fields {
		desc, ok := schema.Descriptor(name)
		if !ok || desc.Type != recordstore.KindRelation || desc.Relation == nil {
			continue
		}
		targetDB := desc.Relation.DatabaseID
		if targetDB == "" {
			continue
		}

		values := valueSlice(raw)
		out := make([]interface{}, 0, len(values))
		changed := false
		for _, v := range values {
			s, isString := v.(string)
			if !isString {
				out = append(out, v)
				continue
			}
			if _, isID := canonicalID(s); isID {
				out = append(out, s)
				continue
			}

			id, err := o.resolver.Resolve(ctx, targetDB, s)
			if err != nil {
				return nil, err
			}
			if id == "" {
				unresolved = append(unresolved, UnresolvedRelation{Property: name, Value: s})
				if suggestDB == "" {
					suggestDB = targetDB
				}
				out = append(out, s)
				continue
			}
			out = append(out, id)
			changed = true
		}
		if changed {
			fields[name] = out
			normalized = append(normalized, name)
		}
	}

	if len(unresolved) > 0 {
		suggestions, err := o.sampleTitles(ctx, suggestDB)
		if err != nil {
			o.logger.Warn("failed to fetch relation suggestions", "error", err)
		}
		if suggestions == nil {
			// The wire shape promises an array; an empty or failed sample
			// must not serialize as null.
			suggestions = []string{}
		}
		sort.Slice(unresolved, func(i, j int) bool {
			return unresolved[i].Property < unresolved[j].Property
		})
		return nil, &RelationError{Unresolved: unresolved, Suggestions: suggestions}
	}

	sort.Strings(normalized)
	return normalized, nil
}

// sampleTitles fetches up to 10 existing titles from a database, used as
// suggestions on relation resolution failure.
func (o *Orchestrator) sampleTitles(ctx context.Context, databaseID string) ([]string, error) {
	if databaseID == "" {
		return nil, nil
	}
	list, err := o.store.QueryDatabase(ctx, databaseID, &recordstore.Query{PageSize: 10})
	if err != nil {
		return nil, err
	}
	var titles []string
	for _, page := range list.Results {
		if t := page.TitleText(); t != "" {
			titles = append(titles, t)
		}
	}
	return titles, nil
}

// IsHardStop reports whether the error is one of the orchestrator's
// precondition failures rather than a provider error.
func IsHardStop(err error) bool {
	var relErr *RelationError
	var titleErr *TitleError
	return errors.As(err, &relErr) || errors.As(err, &titleErr) ||
		errors.Is(err, recordstore.ErrNoTitleProperty)
}
