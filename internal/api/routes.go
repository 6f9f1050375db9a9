package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/heimdex-editor/internal/editor"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSAllowlist())

	r.Get("/health", healthHandler(cfg))

	r.With(LoopbackGuard()).Get("/media/{assetID}", serveMediaHandler(cfg))
	r.With(LoopbackGuard()).Head("/media/{assetID}", serveMediaHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/status", statusHandler(cfg))
		r.Post("/playback/pause", driverHandler(cfg, true))
		r.Post("/playback/resume", driverHandler(cfg, false))

		r.Get("/sessions", listSessionsHandler(cfg))
		r.Post("/sessions", createSessionHandler(cfg))

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", getSessionHandler(cfg))
			r.Delete("/", deleteSessionHandler(cfg))
			r.Post("/reset", resetSessionHandler(cfg))

			r.Post("/media", uploadVideoHandler(cfg))
			r.Post("/duration", setDurationHandler(cfg))

			r.Get("/clock", getClockHandler(cfg))
			r.Post("/clock/toggle", togglePlaybackHandler(cfg))
			r.Post("/clock/seek", seekHandler(cfg, false))
			r.Post("/clock/tick", seekHandler(cfg, true))
			r.Get("/frame", frameHandler(cfg))
			r.Get("/markers", markersHandler(cfg))

			r.Post("/segments/reorder", reorderSegmentsHandler(cfg))
			r.Post("/segments/select", selectSegmentHandler(cfg))
			r.Post("/segments/split-at-playhead", splitAtPlayheadHandler(cfg))
			r.Post("/segments/{segmentID}/split", splitSegmentHandler(cfg))
			r.Put("/segments/{segmentID}/timing", retimeSegmentHandler(cfg))
			r.Delete("/segments/{segmentID}", removeSegmentHandler(cfg))
			r.Put("/zoom", zoomHandler(cfg))

			r.Post("/text", addTextHandler(cfg))
			r.Post("/text/select", selectTextHandler(cfg))
			r.Patch("/text/{itemID}", updateTextHandler(cfg))
			r.Put("/text/{itemID}/timing", textTimingHandler(cfg))
			r.Put("/text/{itemID}/position", textPositionHandler(cfg))
			r.Delete("/text/{itemID}", removeTextHandler(cfg))

			r.Post("/images", uploadImageHandler(cfg))
			r.Post("/images/select", selectImageHandler(cfg))
			r.Patch("/images/{itemID}", updateImageHandler(cfg))
			r.Put("/images/{itemID}/timing", imageTimingHandler(cfg))
			r.Put("/images/{itemID}/position", imagePositionHandler(cfg))
			r.Delete("/images/{itemID}", removeImageHandler(cfg))

			r.Post("/audio", addAudioHandler(cfg))
			r.Post("/audio/select", selectAudioHandler(cfg))
			r.Patch("/audio/{trackID}", updateAudioHandler(cfg))
			r.Post("/audio/{trackID}/mute", toggleMuteHandler(cfg))
			r.Put("/audio/{trackID}/volume", setVolumeHandler(cfg))
			r.Post("/audio/{trackID}/file", uploadAudioHandler(cfg))
			r.Delete("/audio/{trackID}", removeAudioHandler(cfg))

			r.Post("/exports", exportHandler(cfg))
			r.Get("/exports", listExportsHandler(cfg))
		})
	})

	return r
}

// doSession runs fn under the session lock and writes its result. A nil
// result with a nil error is answered with 204.
func doSession(cfg ServerConfig, w http.ResponseWriter, r *http.Request, status int, fn func(*editor.Session) (any, error)) {
	var out any
	err := cfg.Manager.Do(chi.URLParam(r, "sessionID"), func(s *editor.Session) error {
		var err error
		out, err = fn(s)
		return err
	})
	if err != nil {
		writeDomainError(w, cfg.Logger, err)
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteJSON(w, status, out)
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{State: "idle", Driver: "stopped"}

		resp.Sessions, resp.Playing = cfg.Manager.Stats()
		if resp.Playing > 0 {
			resp.State = "playing"
		}

		if cfg.Driver != nil {
			switch {
			case cfg.Driver.IsPaused():
				resp.Driver = "paused"
			case cfg.Driver.IsRunning():
				resp.Driver = "running"
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func driverHandler(cfg ServerConfig, pause bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Driver == nil {
			WriteError(w, http.StatusServiceUnavailable, "playback driver not configured", "UNAVAILABLE")
			return
		}
		if pause {
			cfg.Driver.Pause()
		} else {
			cfg.Driver.Resume()
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listSessionsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := SessionsResponse{Sessions: []SessionSummary{}}
		for _, id := range cfg.Manager.IDs() {
			err := cfg.Manager.Do(id, func(s *editor.Session) error {
				resp.Sessions = append(resp.Sessions, SessionToSummary(s))
				return nil
			})
			if err != nil {
				// Deleted between IDs and Do.
				cfg.Logger.Debug("skipping session", "session_id", id, "error", err)
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func createSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: cfg.Manager.Create()})
	}
}

func getSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return SessionToResponse(s), nil
		})
	}
}

func deleteSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Manager.Delete(chi.URLParam(r, "sessionID")); err != nil {
			writeDomainError(w, cfg.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func resetSessionHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			s.ResetAll()
			return SessionToResponse(s), nil
		})
	}
}

func setDurationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DurationRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Duration == nil {
			missingField(w, "duration")
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.SetDuration(*req.Duration); err != nil {
				return nil, err
			}
			return s.Clock().State(), nil
		})
	}
}

func getClockHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return s.Clock().State(), nil
		})
	}
}

func togglePlaybackHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return PlaybackResponse{IsPlaying: s.Clock().TogglePlayback()}, nil
		})
	}
}

// seekHandler serves both user seeks and player time updates; the two differ
// only in who issued them.
func seekHandler(cfg ServerConfig, tick bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Time == nil {
			missingField(w, "time")
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if tick {
				s.Clock().Tick(*req.Time)
			} else {
				s.Clock().Seek(*req.Time)
			}
			return s.Clock().State(), nil
		})
	}
}

func frameHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var at *float64
		if q := r.URL.Query().Get("t"); q != "" {
			t, err := strconv.ParseFloat(q, 64)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "t must be a number of seconds", "BAD_REQUEST")
				return
			}
			at = &t
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if at == nil {
				return s.Compose(), nil
			}
			return s.ComposeAt(*at), nil
		})
	}
}

func markersHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			markers := editor.Markers(s.Clock().Duration())
			if markers == nil {
				markers = []editor.Marker{}
			}
			return MarkersResponse{Markers: markers}, nil
		})
	}
}
