package editor

import (
	"errors"
	"testing"
)

func newTestTimeline(t *testing.T, duration float64) (*Timeline, string) {
	t.Helper()
	tl := NewTimeline()
	if err := tl.Initialize(duration); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return tl, tl.Segments()[0].ID
}

func assertSegmentInvariants(t *testing.T, tl *Timeline) {
	t.Helper()
	if tl.Len() < 1 {
		t.Fatal("timeline has no segments")
	}
	for _, s := range tl.Segments() {
		if !(s.StartTime < s.EndTime) {
			t.Errorf("segment %s: start %v not before end %v", s.ID, s.StartTime, s.EndTime)
		}
		if s.Duration != s.EndTime-s.StartTime {
			t.Errorf("segment %s: duration %v, want %v", s.ID, s.Duration, s.EndTime-s.StartTime)
		}
	}
}

func TestTimeline_Initialize(t *testing.T) {
	tl, id := newTestTimeline(t, 10)

	segs := tl.Segments()
	if len(segs) != 1 {
		t.Fatalf("len(segments) = %d, want 1", len(segs))
	}
	if segs[0].StartTime != 0 || segs[0].EndTime != 10 || segs[0].Duration != 10 {
		t.Errorf("segment = %+v, want [0,10] duration 10", segs[0])
	}

	if err := tl.Select(id); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if err := tl.Initialize(20); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if _, ok := tl.Selected(); ok {
		t.Error("Initialize() should clear the selection")
	}
	if got := tl.Segments()[0].EndTime; got != 20 {
		t.Errorf("EndTime after re-initialize = %v, want 20", got)
	}
}

func TestTimeline_InitializeRejectsEmptyDuration(t *testing.T) {
	tl := NewTimeline()
	for _, d := range []float64{0, -1} {
		if err := tl.Initialize(d); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("Initialize(%v) error = %v, want ErrInvalidTimeRange", d, err)
		}
	}
}

func TestTimeline_Split(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	if err := tl.Select(id); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	newID, err := tl.Split(id, 4)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if newID == id || newID == "" {
		t.Fatalf("Split() returned id %q, want a fresh id", newID)
	}

	segs := tl.Segments()
	if len(segs) != 2 {
		t.Fatalf("len(segments) = %d, want 2", len(segs))
	}
	if segs[0].ID != id || segs[0].StartTime != 0 || segs[0].EndTime != 4 {
		t.Errorf("first segment = %+v, want original [0,4]", segs[0])
	}
	if segs[1].ID != newID || segs[1].StartTime != 4 || segs[1].EndTime != 10 {
		t.Errorf("second segment = %+v, want new [4,10]", segs[1])
	}
	if segs[0].Duration+segs[1].Duration != 10 {
		t.Errorf("durations sum to %v, want 10", segs[0].Duration+segs[1].Duration)
	}
	if sel, _ := tl.Selected(); sel != id {
		t.Errorf("selection = %q, want original %q", sel, id)
	}
	assertSegmentInvariants(t, tl)
}

func TestTimeline_SplitAppendsAfterRemaining(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	second, err := tl.Split(id, 5)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	third, err := tl.Split(id, 2)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	segs := tl.Segments()
	want := []string{id, second, third}
	for i, w := range want {
		if segs[i].ID != w {
			t.Errorf("segments[%d].ID = %s, want %s", i, segs[i].ID, w)
		}
	}
	assertSegmentInvariants(t, tl)
}

func TestTimeline_SplitInvalidPoint(t *testing.T) {
	tests := []struct {
		name string
		at   float64
	}{
		{"at start", 0},
		{"at end", 10},
		{"before start", -1},
		{"after end", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, id := newTestTimeline(t, 10)
			before := tl.Segments()

			_, err := tl.Split(id, tt.at)
			if !errors.Is(err, ErrInvalidSplitPoint) {
				t.Fatalf("Split(%v) error = %v, want ErrInvalidSplitPoint", tt.at, err)
			}
			after := tl.Segments()
			if len(after) != 1 || after[0] != before[0] {
				t.Errorf("timeline changed on failed split: %+v", after)
			}
		})
	}
}

func TestTimeline_SplitUnknownSegment(t *testing.T) {
	tl, _ := newTestTimeline(t, 10)
	if _, err := tl.Split("missing", 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Split() error = %v, want ErrNotFound", err)
	}
}

func TestTimeline_RemoveLastSegmentProtected(t *testing.T) {
	tl, id := newTestTimeline(t, 10)

	err := tl.Remove(id)
	if !errors.Is(err, ErrLastSegmentProtected) {
		t.Fatalf("Remove() error = %v, want ErrLastSegmentProtected", err)
	}
	if tl.Len() != 1 {
		t.Errorf("len(segments) = %d, want 1", tl.Len())
	}
}

func TestTimeline_RemoveClearsSelection(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	newID, err := tl.Split(id, 4)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if err := tl.Select(newID); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if err := tl.Remove(newID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, ok := tl.Selected(); ok {
		t.Error("selection should be none after removing the selected segment")
	}
	if tl.Len() != 1 {
		t.Errorf("len(segments) = %d, want 1", tl.Len())
	}
}

func TestTimeline_RemoveUnselectedKeepsSelection(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	newID, _ := tl.Split(id, 4)
	_ = tl.Select(id)

	if err := tl.Remove(newID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if sel, _ := tl.Selected(); sel != id {
		t.Errorf("selection = %q, want %q", sel, id)
	}
}

func TestTimeline_Retime(t *testing.T) {
	tl, id := newTestTimeline(t, 10)

	if err := tl.Retime(id, 1.5, 7.25); err != nil {
		t.Fatalf("Retime() error = %v", err)
	}
	seg, _ := tl.Segment(id)
	if seg.StartTime != 1.5 || seg.EndTime != 7.25 || seg.Duration != 5.75 {
		t.Errorf("segment = %+v, want [1.5,7.25] duration 5.75", seg)
	}

	for _, r := range [][2]float64{{5, 5}, {6, 2}, {-1, 3}} {
		if err := tl.Retime(id, r[0], r[1]); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("Retime(%v, %v) error = %v, want ErrInvalidTimeRange", r[0], r[1], err)
		}
	}
	if got, _ := tl.Segment(id); got != seg {
		t.Errorf("segment changed on failed retime: %+v", got)
	}
	assertSegmentInvariants(t, tl)
}

func TestTimeline_ReorderPreservesTimes(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	b, _ := tl.Split(id, 3)
	c, _ := tl.Split(b, 6)

	before := map[string]Segment{}
	for _, s := range tl.Segments() {
		before[s.ID] = s
	}

	if err := tl.Reorder(0, 2); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	segs := tl.Segments()
	wantOrder := []string{b, c, id}
	for i, w := range wantOrder {
		if segs[i].ID != w {
			t.Errorf("segments[%d].ID = %s, want %s", i, segs[i].ID, w)
		}
		if segs[i] != before[segs[i].ID] {
			t.Errorf("segment %s changed: %+v -> %+v", segs[i].ID, before[segs[i].ID], segs[i])
		}
	}

	if err := tl.Reorder(2, 0); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}
	segs = tl.Segments()
	for i, w := range []string{id, b, c} {
		if segs[i].ID != w {
			t.Errorf("after reverse reorder segments[%d].ID = %s, want %s", i, segs[i].ID, w)
		}
	}
}

func TestTimeline_ReorderBounds(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	_, _ = tl.Split(id, 5)

	if err := tl.Reorder(1, 1); err != nil {
		t.Errorf("Reorder(1, 1) error = %v, want nil", err)
	}

	for _, r := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -1}} {
		if err := tl.Reorder(r[0], r[1]); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("Reorder(%d, %d) error = %v, want ErrIndexOutOfRange", r[0], r[1], err)
		}
	}
	if tl.Segments()[0].ID != id {
		t.Error("failed reorder changed presentation order")
	}
}

func TestTimeline_SelectUnknown(t *testing.T) {
	tl, id := newTestTimeline(t, 10)
	_ = tl.Select(id)

	if err := tl.Select("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Select() error = %v, want ErrNotFound", err)
	}
	if sel, _ := tl.Selected(); sel != id {
		t.Errorf("selection = %q, want unchanged %q", sel, id)
	}
	if err := tl.Select(""); err != nil {
		t.Fatalf("Select(\"\") error = %v", err)
	}
	if _, ok := tl.Selected(); ok {
		t.Error("Select(\"\") should clear the selection")
	}
}

func TestTimeline_SetZoom(t *testing.T) {
	tl := NewTimeline()
	tests := []struct {
		in, want float64
	}{
		{2, 2},
		{0.1, MinZoom},
		{10, MaxZoom},
	}
	for _, tt := range tests {
		if got := tl.SetZoom(tt.in); got != tt.want {
			t.Errorf("SetZoom(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
