package api

import (
	"fmt"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/forgeworks/pagebridge/internal/server"
	"github.com/forgeworks/pagebridge/pkg/export"
)

// ExportRequest renders a page's content as a downloadable document.
type ExportRequest struct {
	PageID string `json:"page_id"`
	Format string `json:"format,omitempty"`
}

func (req *ExportRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.PageID, validation.Required),
	)
}

// ExportHandler fetches a page's blocks and streams the rendered file.
func ExportHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		req := &ExportRequest{}
		if err := decodeRequest(r, req); err != nil {
			srv.Logger.Error("error decoding export request", "error", err)
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

		formatName := req.Format
		if formatName == "" {
			formatName = srv.Config.Export.DefaultFormat
		}
		format, err := export.ParseFormat(formatName)
		if err != nil {
			respondError(srv, w, http.StatusBadRequest, "unsupported_format", errorBody{
				"details":   err.Error(),
				"available": []string{"markdown", "html", "pdf", "docx"},
			})
			return
		}

		file, err := srv.Exporter.Export(r.Context(), req.PageID, format)
		if err != nil {
			srv.Logger.Error("error rendering export",
				"page_id", req.PageID,
				"format", format,
				"error", err,
			)
			respondStoreError(srv, w, err)
			return
		}

		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", file.Name))
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(file.Data); err != nil {
			srv.Logger.Error("error writing export response", "error", err)
		}
	})
}
