package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/heimdex-editor/internal/editor"
)

func addAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AddAudioRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		volume := editor.DefaultVolume(req.Type)
		if req.Volume != nil {
			volume = *req.Volume
		}
		if req.Name == "" {
			req.Name = string(req.Type)
		}
		doSession(cfg, w, r, http.StatusCreated, func(s *editor.Session) (any, error) {
			id, err := s.Audio().Add(req.Name, req.Type, volume, req.IsMuted)
			if err != nil {
				return nil, err
			}
			track, _ := s.Audio().Get(id)
			return track, nil
		})
	}
}

func updateAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req editor.AudioTrackChanges
		if !decodeJSON(w, r, &req) {
			return
		}
		trackID := chi.URLParam(r, "trackID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return UpdatedResponse{Updated: s.Audio().Update(trackID, req)}, nil
		})
	}
}

func toggleMuteHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackID := chi.URLParam(r, "trackID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return UpdatedResponse{Updated: s.Audio().ToggleMute(trackID)}, nil
		})
	}
}

func setVolumeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VolumeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Volume == nil {
			missingField(w, "volume")
			return
		}
		trackID := chi.URLParam(r, "trackID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return UpdatedResponse{Updated: s.Audio().SetVolume(trackID, *req.Volume)}, nil
		})
	}
}

func removeAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trackID := chi.URLParam(r, "trackID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			removed, err := s.Audio().Remove(trackID)
			if err != nil {
				return nil, err
			}
			return RemovedResponse{Removed: removed}, nil
		})
	}
}

func selectAudioHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.Audio().Select(req.ID); err != nil {
				return nil, err
			}
			return s.Selection(), nil
		})
	}
}
