package api

import (
	"time"

	"github.com/heimdex/heimdex-editor/internal/catalog"
	"github.com/heimdex/heimdex-editor/internal/editor"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State    string `json:"state"`
	Sessions int    `json:"sessions"`
	Playing  int    `json:"playing"`
	Driver   string `json:"driver"`
}

type SessionSummary struct {
	ID        string  `json:"id"`
	Video     string  `json:"video,omitempty"`
	Duration  float64 `json:"duration"`
	CreatedAt string  `json:"created_at"`
}

type SessionsResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SessionResponse is the full editor state the front end renders from.
type SessionResponse struct {
	ID        string              `json:"id"`
	CreatedAt string              `json:"created_at"`
	Video     editor.MediaRef     `json:"video"`
	Clock     editor.ClockState   `json:"clock"`
	Segments  []editor.Segment    `json:"segments"`
	Zoom      float64             `json:"zoom"`
	Text      []editor.TextItem   `json:"text"`
	Images    []editor.ImageItem  `json:"images"`
	Audio     []editor.AudioTrack `json:"audio"`
	Selection editor.Selection    `json:"selection"`
}

type TimeRequest struct {
	Time *float64 `json:"time"`
}

type DurationRequest struct {
	Duration *float64 `json:"duration"`
}

type PlaybackResponse struct {
	IsPlaying bool `json:"is_playing"`
}

type SplitRequest struct {
	At *float64 `json:"at"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

type TimingRequest struct {
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
}

type ReorderRequest struct {
	SourceIndex      *int `json:"source_index"`
	DestinationIndex *int `json:"destination_index"`
}

type SelectRequest struct {
	ID string `json:"id"`
}

type ZoomRequest struct {
	Zoom *float64 `json:"zoom"`
}

type ZoomResponse struct {
	Zoom float64 `json:"zoom"`
}

type AddTextRequest struct {
	Preset  string `json:"preset"`
	Content string `json:"content,omitempty"`
}

type UpdateTextRequest struct {
	Content *string                  `json:"content,omitempty"`
	Style   *editor.TextStyleChanges `json:"style,omitempty"`
}

type UpdateImageRequest struct {
	Style *editor.ImageStyleChanges `json:"style,omitempty"`
	Size  *editor.Size              `json:"size,omitempty"`
}

type UpdatedResponse struct {
	Updated bool `json:"updated"`
}

type RemovedResponse struct {
	Removed bool `json:"removed"`
}

type AddAudioRequest struct {
	Name    string           `json:"name"`
	Type    editor.AudioType `json:"type"`
	Volume  *float64         `json:"volume,omitempty"`
	IsMuted bool             `json:"is_muted"`
}

type VolumeRequest struct {
	Volume *float64 `json:"volume"`
}

type MediaResponse struct {
	AssetID  string  `json:"asset_id"`
	Handle   string  `json:"handle"`
	Kind     string  `json:"kind"`
	Filename string  `json:"filename"`
	Size     int64   `json:"size"`
	URL      string  `json:"url"`
	ItemID   string  `json:"item_id,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

type MarkersResponse struct {
	Markers []editor.Marker `json:"markers"`
}

type ExportResponse struct {
	ID           string `json:"id"`
	Format       string `json:"format"`
	Status       string `json:"status"`
	OutputPath   string `json:"output_path,omitempty"`
	SegmentCount int    `json:"segment_count"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
}

type ExportsResponse struct {
	Exports []ExportResponse `json:"exports"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func SessionToResponse(s *editor.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID(),
		CreatedAt: s.CreatedAt().Format(time.RFC3339),
		Video:     s.Video(),
		Clock:     s.Clock().State(),
		Segments:  s.Timeline().Segments(),
		Zoom:      s.Timeline().Zoom(),
		Text:      s.Text().Items(),
		Images:    s.Image().Items(),
		Audio:     s.Audio().Tracks(),
		Selection: s.Selection(),
	}
}

func SessionToSummary(s *editor.Session) SessionSummary {
	return SessionSummary{
		ID:        s.ID(),
		Video:     s.Video().Name,
		Duration:  s.Clock().Duration(),
		CreatedAt: s.CreatedAt().Format(time.RFC3339),
	}
}

func AssetToResponse(a *catalog.Asset) MediaResponse {
	return MediaResponse{
		AssetID:  a.ID,
		Handle:   a.Handle(),
		Kind:     a.Kind,
		Filename: a.Filename,
		Size:     a.Size,
		URL:      "/media/" + a.ID,
	}
}

func ExportToResponse(e *catalog.Export) ExportResponse {
	return ExportResponse{
		ID:           e.ID,
		Format:       e.Format,
		Status:       e.Status,
		OutputPath:   e.OutputPath,
		SegmentCount: e.SegmentCount,
		Error:        e.Error,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
}
