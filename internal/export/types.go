package export

import "github.com/heimdex/heimdex-editor/internal/editor"

const (
	FormatEDL    = "edl"
	FormatSRT    = "srt"
	FormatRender = "mp4"
)

// Request describes one export of a session's current edit.
type Request struct {
	Name      string  `json:"name"`
	Format    string  `json:"format"`
	FrameRate float64 `json:"frame_rate"`
	OutputDir string  `json:"output_dir"`
}

// Snapshot is the session state an export reads. It is captured under the
// session lock so the export itself can run without holding it.
type Snapshot struct {
	SessionID string
	Video     editor.MediaRef
	Segments  []editor.Segment
	Text      []editor.TextItem
}

type Result struct {
	ExportID     string `json:"export_id"`
	Status       string `json:"status"`
	Format       string `json:"format"`
	OutputPath   string `json:"output_path"`
	SegmentCount int    `json:"segment_count"`
	CueCount     int    `json:"cue_count,omitempty"`
}
