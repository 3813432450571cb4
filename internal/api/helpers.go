package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/forgeworks/pagebridge/internal/server"
	"github.com/forgeworks/pagebridge/pkg/recordstore"
	"github.com/forgeworks/pagebridge/pkg/upsert"
)

// decodeRequest decodes a JSON request body into the given struct.
func decodeRequest(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// respondJSON writes a JSON response with the given status.
func respondJSON(srv server.Server, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		srv.Logger.Error("error encoding response", "error", err)
	}
}

// errorBody is the envelope of every failure response: ok:false, a short
// machine-readable code, and whatever detail fields help the caller
// self-correct.
type errorBody map[string]interface{}

// respondError writes a failure response. Extra key-value detail fields are
// merged into the body.
func respondError(srv server.Server, w http.ResponseWriter, status int, code string, extra errorBody) {
	body := errorBody{"ok": false, "error": code}
	for k, v := range extra {
		body[k] = v
	}
	respondJSON(srv, w, status, body)
}

// respondUpsertError maps orchestrator and provider errors onto the wire.
// Hard stops get structured bodies; provider errors pass through with the
// upstream status and payload unmodified.
func respondUpsertError(srv server.Server, w http.ResponseWriter, err error) {
	var relErr *upsert.RelationError
	if errors.As(err, &relErr) {
		respondError(srv, w, http.StatusUnprocessableEntity, "relation_title_not_found", errorBody{
			"unresolved":  relErr.Unresolved,
			"suggestions": relErr.Suggestions,
		})
		return
	}

	var titleErr *upsert.TitleError
	if errors.As(err, &titleErr) {
		extra := errorBody{"hint": titleErr.Hint}
		if titleErr.Field != "" {
			extra["field"] = titleErr.Field
		}
		respondError(srv, w, http.StatusBadRequest, titleErr.Code, extra)
		return
	}

	if errors.Is(err, recordstore.ErrNoTitleProperty) {
		respondError(srv, w, http.StatusBadRequest, "no_title_property", errorBody{
			"hint": "the target database has no title property; creation is impossible",
		})
		return
	}

	respondStoreError(srv, w, err)
}

// respondStoreError surfaces a provider error with its upstream status and
// detail, or 502 for transport-level failures.
func respondStoreError(srv server.Server, w http.ResponseWriter, err error) {
	var apiErr *recordstore.APIError
	if errors.As(err, &apiErr) {
		respondError(srv, w, apiErr.StatusCode, "record_store_error", errorBody{
			"details": apiErr.Message,
			"code":    apiErr.Code,
		})
		return
	}
	respondError(srv, w, http.StatusBadGateway, "record_store_unreachable", errorBody{
		"details": err.Error(),
	})
}
