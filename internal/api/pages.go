package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/forgeworks/pagebridge/internal/server"
	"github.com/forgeworks/pagebridge/pkg/upsert"
)

// PagesRequest is the upsert request: create when page_id is absent, update
// otherwise. Field values are deliberately untyped; validity is decided
// against the live database schema.
type PagesRequest struct {
	DB      string                 `json:"db"`
	PageID  string                 `json:"page_id,omitempty"`
	Title   string                 `json:"title,omitempty"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
	Content *upsert.Content        `json:"content,omitempty"`
}

// Validate checks the request shape before any provider call.
func (req *PagesRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.DB, validation.Required),
	)
}

// PagesResponse is the upsert success body.
type PagesResponse struct {
	OK                 bool                         `json:"ok"`
	Mode               string                       `json:"mode"`
	DatabaseID         string                       `json:"database_id"`
	PageID             string                       `json:"page_id"`
	PageURL            string                       `json:"page_url,omitempty"`
	Skipped            map[string]upsert.SkipDetail `json:"skipped"`
	RelationNormalized []string                     `json:"relation_normalized"`
	ContentAppended    bool                         `json:"content_appended,omitempty"`
	ContentError       string                       `json:"content_error,omitempty"`
}

// PagesHandler performs the schema-adaptive create-or-update of one record.
func PagesHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		req := &PagesRequest{}
		if err := decodeRequest(r, req); err != nil {
			srv.Logger.Error("error decoding pages request", "error", err)
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

		result, err := srv.Upserter.Upsert(r.Context(), &upsert.Request{
			DatabaseID: databaseID,
			PageID:     req.PageID,
			Title:      req.Title,
			Fields:     req.Fields,
			Content:    req.Content,
		})
		if err != nil {
			if !upsert.IsHardStop(err) {
				srv.Logger.Error("upsert failed",
					"db", req.DB,
					"page_id", req.PageID,
					"error", err,
				)
			}
			respondUpsertError(srv, w, err)
			return
		}

		respondJSON(srv, w, http.StatusOK, PagesResponse{
			OK:                 true,
			Mode:               result.Mode,
			DatabaseID:         result.DatabaseID,
			PageID:             result.PageID,
			PageURL:            result.PageURL,
			Skipped:            result.Skipped,
			RelationNormalized: result.RelationNormalized,
			ContentAppended:    result.ContentAppended,
			ContentError:       result.ContentError,
		})
	})
}
