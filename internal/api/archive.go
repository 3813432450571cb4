package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/forgeworks/pagebridge/internal/server"
)

// ArchiveRequest archives (soft-deletes) one record.
type ArchiveRequest struct {
	PageID string `json:"page_id"`
}

func (req *ArchiveRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.PageID, validation.Required),
	)
}

// ArchiveResponse is the archive success body.
type ArchiveResponse struct {
	OK       bool   `json:"ok"`
	PageID   string `json:"page_id"`
	Archived bool   `json:"archived"`
}

// ArchiveHandler archives a record in the remote store.
func ArchiveHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		req := &ArchiveRequest{}
		if err := decodeRequest(r, req); err != nil {
			srv.Logger.Error("error decoding archive request", "error", err)
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

		page, err := srv.Store.ArchivePage(r.Context(), req.PageID)
		if err != nil {
			srv.Logger.Error("error archiving page", "page_id", req.PageID, "error", err)
			respondStoreError(srv, w, err)
			return
		}

		respondJSON(srv, w, http.StatusOK, ArchiveResponse{
			OK:       true,
			PageID:   page.ID,
			Archived: true,
		})
	})
}
