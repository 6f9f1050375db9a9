package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/heimdex-editor/internal/editor"
)

var textPresets = map[string]editor.TextPreset{
	"":         editor.TextOverlayPreset,
	"text":     editor.TextOverlayPreset,
	"subtitle": editor.SubtitlePreset,
}

func addTextHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddTextRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		preset, ok := textPresets[req.Preset]
		if !ok {
			WriteError(w, http.StatusBadRequest, "preset must be text or subtitle", "BAD_REQUEST")
			return
		}
		if req.Content != "" {
			preset.Payload.Content = req.Content
		}
		doSession(cfg, w, r, http.StatusCreated, func(s *editor.Session) (any, error) {
			id, err := s.AddText(preset)
			if err != nil {
				return nil, err
			}
			item, _ := s.Text().Get(id)
			return item, nil
		})
	}
}

func updateTextHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateTextRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			updated := false
			if req.Content != nil {
				updated = s.UpdateTextContent(itemID, *req.Content)
			}
			if req.Style != nil {
				updated = s.UpdateTextStyle(itemID, *req.Style)
			}
			return UpdatedResponse{Updated: updated}, nil
		})
	}
}

func textTimingHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimingRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.StartTime == nil || req.EndTime == nil {
			missingField(w, "start_time and end_time")
			return
		}
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.UpdateTextTiming(itemID, *req.StartTime, *req.EndTime); err != nil {
				return nil, err
			}
			item, _ := s.Text().Get(itemID)
			return item, nil
		})
	}
}

func textPositionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editor.Position
		if !decodeJSON(w, r, &req) {
			return
		}
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return UpdatedResponse{Updated: s.Text().UpdatePosition(itemID, req)}, nil
		})
	}
}

func removeTextHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return RemovedResponse{Removed: s.RemoveText(itemID)}, nil
		})
	}
}

func selectTextHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.Text().Select(req.ID); err != nil {
				return nil, err
			}
			return s.Selection(), nil
		})
	}
}

func updateImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateImageRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			updated := false
			if req.Style != nil {
				updated = s.UpdateImageStyle(itemID, *req.Style)
			}
			if req.Size != nil {
				updated = s.UpdateImageSize(itemID, *req.Size)
			}
			return UpdatedResponse{Updated: updated}, nil
		})
	}
}

func imageTimingHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimingRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.StartTime == nil || req.EndTime == nil {
			missingField(w, "start_time and end_time")
			return
		}
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.UpdateImageTiming(itemID, *req.StartTime, *req.EndTime); err != nil {
				return nil, err
			}
			item, _ := s.Image().Get(itemID)
			return item, nil
		})
	}
}

func imagePositionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editor.Position
		if !decodeJSON(w, r, &req) {
			return
		}
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return UpdatedResponse{Updated: s.Image().UpdatePosition(itemID, req)}, nil
		})
	}
}

func removeImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID := chi.URLParam(r, "itemID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return RemovedResponse{Removed: s.RemoveImage(itemID)}, nil
		})
	}
}

func selectImageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.Image().Select(req.ID); err != nil {
				return nil, err
			}
			return s.Selection(), nil
		})
	}
}
