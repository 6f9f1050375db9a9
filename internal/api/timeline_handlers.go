package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/heimdex/heimdex-editor/internal/editor"
)

func splitSegmentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SplitRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.At == nil {
			missingField(w, "at")
			return
		}
		segmentID := chi.URLParam(r, "segmentID")
		doSession(cfg, w, r, http.StatusCreated, func(s *editor.Session) (any, error) {
			id, err := s.Timeline().Split(segmentID, *req.At)
			if err != nil {
				return nil, err
			}
			return CreatedResponse{ID: id}, nil
		})
	}
}

func splitAtPlayheadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doSession(cfg, w, r, http.StatusCreated, func(s *editor.Session) (any, error) {
			id, err := s.SplitSelectedAtPlayhead()
			if err != nil {
				return nil, err
			}
			return CreatedResponse{ID: id}, nil
		})
	}
}

func removeSegmentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segmentID := chi.URLParam(r, "segmentID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return nil, s.Timeline().Remove(segmentID)
		})
	}
}

func retimeSegmentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TimingRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.StartTime == nil || req.EndTime == nil {
			missingField(w, "start_time and end_time")
			return
		}
		segmentID := chi.URLParam(r, "segmentID")
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.Timeline().Retime(segmentID, *req.StartTime, *req.EndTime); err != nil {
				return nil, err
			}
			seg, _ := s.Timeline().Segment(segmentID)
			return seg, nil
		})
	}
}

func reorderSegmentsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ReorderRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.SourceIndex == nil || req.DestinationIndex == nil {
			missingField(w, "source_index and destination_index")
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.Timeline().Reorder(*req.SourceIndex, *req.DestinationIndex); err != nil {
				return nil, err
			}
			return s.Timeline().Segments(), nil
		})
	}
}

func selectSegmentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SelectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			if err := s.Timeline().Select(req.ID); err != nil {
				return nil, err
			}
			return s.Selection(), nil
		})
	}
}

func zoomHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ZoomRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Zoom == nil {
			missingField(w, "zoom")
			return
		}
		doSession(cfg, w, r, http.StatusOK, func(s *editor.Session) (any, error) {
			return ZoomResponse{Zoom: s.Timeline().SetZoom(*req.Zoom)}, nil
		})
	}
}
