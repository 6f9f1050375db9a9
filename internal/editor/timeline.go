package editor

import (
	"fmt"
	"math"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 5.0
	DefaultZoom = 1.0
)

// Segment is a contiguous slice of the base media. Duration always equals
// EndTime - StartTime.
type Segment struct {
	ID        string  `json:"id"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Duration  float64 `json:"duration"`
}

func newSegment(start, end float64) Segment {
	return Segment{ID: newID("segment"), StartTime: start, EndTime: end, Duration: end - start}
}

// Timeline keeps segments in presentation order. Presentation order and the
// segments' time values are edited independently: Reorder never touches
// times, Retime never moves a segment.
type Timeline struct {
	segments []Segment
	selected string
	zoom     float64
}

func NewTimeline() *Timeline {
	return &Timeline{zoom: DefaultZoom}
}

// Initialize replaces every segment with one spanning [0, duration].
func (t *Timeline) Initialize(duration float64) error {
	if !(duration > 0) || math.IsInf(duration, 0) {
		return fmt.Errorf("initialize timeline with duration %v: %w", duration, ErrInvalidTimeRange)
	}
	t.segments = []Segment{newSegment(0, duration)}
	t.selected = ""
	return nil
}

// Segments returns a copy of the timeline in presentation order.
func (t *Timeline) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

func (t *Timeline) Len() int { return len(t.segments) }

func (t *Timeline) Segment(id string) (Segment, bool) {
	i := t.indexOf(id)
	if i < 0 {
		return Segment{}, false
	}
	return t.segments[i], true
}

func (t *Timeline) Selected() (string, bool) {
	return t.selected, t.selected != ""
}

// Split cuts a segment at atTime, which must lie strictly inside it. The
// original keeps [start, atTime]; a new segment [atTime, end] is appended to
// the end of the presentation order. Returns the new segment's id.
func (t *Timeline) Split(id string, atTime float64) (string, error) {
	i := t.indexOf(id)
	if i < 0 {
		return "", fmt.Errorf("split segment %s: %w", id, ErrNotFound)
	}
	seg := t.segments[i]
	if !(atTime > seg.StartTime && atTime < seg.EndTime) {
		return "", fmt.Errorf("split segment %s at %v: %w", id, atTime, ErrInvalidSplitPoint)
	}

	tail := newSegment(atTime, seg.EndTime)
	t.segments[i].EndTime = atTime
	t.segments[i].Duration = atTime - seg.StartTime
	t.segments = append(t.segments, tail)
	return tail.ID, nil
}

// Remove deletes a segment. The last remaining segment is protected.
func (t *Timeline) Remove(id string) error {
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("remove segment %s: %w", id, ErrNotFound)
	}
	if len(t.segments) <= 1 {
		return ErrLastSegmentProtected
	}
	t.segments = append(t.segments[:i], t.segments[i+1:]...)
	if t.selected == id {
		t.selected = ""
	}
	return nil
}

// Retime overwrites a segment's window. Clamping against neighbours and the
// media duration is left to the caller; only 0 <= start < end is enforced.
func (t *Timeline) Retime(id string, start, end float64) error {
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("retime segment %s: %w", id, ErrNotFound)
	}
	if !(start >= 0 && start < end) || math.IsInf(end, 0) {
		return fmt.Errorf("retime segment %s to [%v, %v]: %w", id, start, end, ErrInvalidTimeRange)
	}
	t.segments[i].StartTime = start
	t.segments[i].EndTime = end
	t.segments[i].Duration = end - start
	return nil
}

// Reorder moves the segment at src to dst in presentation order.
func (t *Timeline) Reorder(src, dst int) error {
	n := len(t.segments)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return fmt.Errorf("reorder %d -> %d of %d segments: %w", src, dst, n, ErrIndexOutOfRange)
	}
	if src == dst {
		return nil
	}
	moved := t.segments[src]
	t.segments = append(t.segments[:src], t.segments[src+1:]...)
	t.segments = append(t.segments[:dst], append([]Segment{moved}, t.segments[dst:]...)...)
	return nil
}

// Select points the segment selection at id; an empty id clears it.
func (t *Timeline) Select(id string) error {
	if id != "" && t.indexOf(id) < 0 {
		return fmt.Errorf("select segment %s: %w", id, ErrNotFound)
	}
	t.selected = id
	return nil
}

func (t *Timeline) Zoom() float64 { return t.zoom }

// SetZoom stores the display zoom, clamped to [MinZoom, MaxZoom].
func (t *Timeline) SetZoom(z float64) float64 {
	if math.IsNaN(z) {
		z = DefaultZoom
	}
	t.zoom = clamp(z, MinZoom, MaxZoom)
	return t.zoom
}

func (t *Timeline) reset() {
	t.segments = nil
	t.selected = ""
	t.zoom = DefaultZoom
}

func (t *Timeline) indexOf(id string) int {
	for i := range t.segments {
		if t.segments[i].ID == id {
			return i
		}
	}
	return -1
}
