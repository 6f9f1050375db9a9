package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/heimdex-editor/internal/editor"
	"github.com/heimdex/heimdex-editor/internal/export"
)

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.Request
		if !decodeJSON(w, r, &req) {
			return
		}

		// Snapshot under the lock, then write files without holding it.
		var snap export.Snapshot
		err := cfg.Manager.Do(chi.URLParam(r, "sessionID"), func(s *editor.Session) error {
			snap = export.Snapshot{
				SessionID: s.ID(),
				Video:     s.Video(),
				Segments:  s.Timeline().Segments(),
				Text:      s.Text().Items(),
			}
			return nil
		})
		if err != nil {
			writeDomainError(w, cfg.Logger, err)
			return
		}

		result, err := cfg.Exports.Export(r.Context(), snap, req)
		if err != nil {
			writeDomainError(w, cfg.Logger, err)
			return
		}
		WriteJSON(w, http.StatusCreated, result)
	}
}

func listExportsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		exports, err := cfg.Exports.History(r.Context(), sessionID, 50)
		if err != nil {
			writeDomainError(w, cfg.Logger, err)
			return
		}

		resp := ExportsResponse{Exports: make([]ExportResponse, len(exports))}
		for i, e := range exports {
			resp.Exports[i] = ExportToResponse(e)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}
