package catalog

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AssetKindVideo = "video"
	AssetKindImage = "image"
	AssetKindAudio = "audio"

	ExportStatusPending   = "pending"
	ExportStatusRunning   = "running"
	ExportStatusCompleted = "completed"
	ExportStatusFailed    = "failed"

	HandlePrefix = "media://"
)

// Asset is one uploaded media file owned by an editing session.
type Asset struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Path        string    `json:"-"`
	SessionID   string    `json:"session_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Handle is the opaque reference tracks hold for the asset.
func (a *Asset) Handle() string {
	return HandlePrefix + a.ID
}

type Export struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id"`
	Format       string    `json:"format"`
	Status       string    `json:"status"`
	OutputPath   string    `json:"output_path,omitempty"`
	SegmentCount int       `json:"segment_count"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var mediaExtensions = map[string]string{
	".mp4":  AssetKindVideo,
	".webm": AssetKindVideo,
	".mov":  AssetKindVideo,
	".avi":  AssetKindVideo,
	".png":  AssetKindImage,
	".jpg":  AssetKindImage,
	".jpeg": AssetKindImage,
	".gif":  AssetKindImage,
	".webp": AssetKindImage,
	".mp3":  AssetKindAudio,
	".wav":  AssetKindAudio,
	".m4a":  AssetKindAudio,
	".ogg":  AssetKindAudio,
}

func NewID() string {
	return uuid.New().String()
}

// ParseHandle extracts the asset id from a media:// handle.
func ParseHandle(handle string) (string, bool) {
	if !strings.HasPrefix(handle, HandlePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(handle, HandlePrefix)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// KindOf classifies an upload by MIME type, falling back to the extension.
func KindOf(filename, contentType string) string {
	major, _, _ := strings.Cut(strings.ToLower(contentType), "/")
	switch major {
	case AssetKindVideo, AssetKindImage, AssetKindAudio:
		return major
	}
	return mediaExtensions[strings.ToLower(filepath.Ext(filename))]
}
