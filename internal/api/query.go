package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/forgeworks/pagebridge/internal/server"
	"github.com/forgeworks/pagebridge/pkg/recordstore"
)

// QueryRequest lists records of a database, optionally filtered by title
// text.
type QueryRequest struct {
	DB            string `json:"db"`
	TitleContains string `json:"title_contains,omitempty"`
	PageSize      int    `json:"page_size,omitempty"`
}

func (req *QueryRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DB, validation.Required),
		validation.Field(&req.PageSize, validation.Max(100)),
	)
}

// QueryRow is one record in the query response.
type QueryRow struct {
	PageID string `json:"page_id"`
	Title  string `json:"title"`
	URL    string `json:"url,omitempty"`
}

// QueryResponse is the query success body.
type QueryResponse struct {
	OK         bool       `json:"ok"`
	DatabaseID string     `json:"database_id"`
	Results    []QueryRow `json:"results"`
	HasMore    bool       `json:"has_more,omitempty"`
}

// QueryHandler lists records of a configured database.
func QueryHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		req := &QueryRequest{}
		if err := decodeRequest(r, req); err != nil {
			srv.Logger.Error("error decoding query request", "error", err)
			respondError(srv, w, http.StatusBadRequest, "bad_request", errorBody{
				"details": err.Error(),
			})
			return
		}
		if err := req.Validate(); err != nil {
			respondError(srv, w, http.StatusBadRequest, "bad_request", errorBody{
				"details": err.Error(),
			})
			return
		}

		databaseID, ok := srv.Config.ResolveDatabase(req.DB)
		if !ok {
			respondError(srv, w, http.StatusBadRequest, "unknown_database", errorBody{
				"details": "no database configured for key " + req.DB,
			})
			return
		}

		query := &recordstore.Query{PageSize: req.PageSize}
		if query.PageSize == 0 {
			query.PageSize = 25
		}
		if req.TitleContains != "" {
			schema, err := srv.Store.FetchSchema(r.Context(), databaseID)
			if err != nil {
				srv.Logger.Error("error fetching schema for query", "db", req.DB, "error", err)
				respondStoreError(srv, w, err)
				return
			}
			if schema.TitleProperty != "" {
				query.Filter = &recordstore.Filter{
					Property: schema.TitleProperty,
					Title:    &recordstore.TextFilter{Contains: req.TitleContains},
				}
			}
		}

		list, err := srv.Store.QueryDatabase(r.Context(), databaseID, query)
		if err != nil {
			srv.Logger.Error("error querying database", "db", req.DB, "error", err)
			respondStoreError(srv, w, err)
			return
		}

		rows := make([]QueryRow, 0, len(list.Results))
		for _, page := range list.Results {
			rows = append(rows, QueryRow{
				PageID: page.ID,
				Title:  page.TitleText(),
				URL:    page.URL,
			})
		}

		respondJSON(srv, w, http.StatusOK, QueryResponse{
			OK:         true,
			DatabaseID: databaseID,
			Results:    rows,
			HasMore:    list.HasMore,
		})
	})
}
