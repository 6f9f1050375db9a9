package editor

import (
	"errors"
	"slices"
	"testing"
)

type countingReleaser struct {
	released map[string]int
}

func newCountingReleaser() *countingReleaser {
	return &countingReleaser{released: make(map[string]int)}
}

func (r *countingReleaser) Release(handle string) error {
	r.released[handle]++
	return nil
}

func textPayload(content string) TextPayload {
	p := TextOverlayPreset.Payload
	p.Content = content
	return p
}

func TestWindow_ContainsIsClosed(t *testing.T) {
	w := Window{StartTime: 2, EndTime: 5}
	tests := []struct {
		at   float64
		want bool
	}{
		{2, true},
		{5, true},
		{3.5, true},
		{1.999, false},
		{5.001, false},
	}
	for _, tt := range tests {
		if got := w.Contains(tt.at); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestDefaultWindow(t *testing.T) {
	tests := []struct {
		name     string
		now, dur float64
		want     Window
	}{
		{"middle", 5, 10, Window{4.5, 7.5}},
		{"near start", 0.25, 10, Window{0, 2.75}},
		{"near end", 9, 10, Window{8.5, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultWindow(tt.now, tt.dur, TextLeadIn, TextLeadOut)
			if got != tt.want {
				t.Errorf("DefaultWindow() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTrack_AddSelectsNewItem(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)

	first, err := tr.Add(Window{0, 3}, Position{0.5, 0.5}, textPayload("a"), "", 10)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	second, err := tr.Add(Window{1, 4}, Position{0.5, 0.5}, textPayload("b"), "", 10)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if first == second {
		t.Fatal("Add() returned duplicate ids")
	}
	if sel, _ := tr.Selected(); sel != second {
		t.Errorf("selection = %q, want newest %q", sel, second)
	}
}

func TestTrack_AddRejectsBadWindow(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	bad := []Window{{3, 3}, {4, 2}, {-1, 2}, {2, 11}}
	for _, w := range bad {
		if _, err := tr.Add(w, Position{}, textPayload("x"), "", 10); !errors.Is(err, ErrInvalidTimeRange) {
			t.Errorf("Add(%+v) error = %v, want ErrInvalidTimeRange", w, err)
		}
	}
	if tr.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tr.Len())
	}
}

func TestTrack_PositionIsClamped(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	id, _ := tr.Add(Window{0, 1}, Position{X: 1.5, Y: -0.2}, textPayload("x"), "", 10)

	it, _ := tr.Get(id)
	if it.Position != (Position{X: 1, Y: 0}) {
		t.Errorf("Position = %+v, want {1 0}", it.Position)
	}
}

func TestTrack_RemoveSelectionConsistency(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	a, _ := tr.Add(Window{0, 3}, Position{}, textPayload("a"), "", 10)
	b, _ := tr.Add(Window{0, 3}, Position{}, textPayload("b"), "", 10)

	if !tr.Remove(a) {
		t.Fatal("Remove() of unselected item returned false")
	}
	if sel, _ := tr.Selected(); sel != b {
		t.Errorf("removing unselected item changed selection to %q", sel)
	}

	if !tr.Remove(b) {
		t.Fatal("Remove() of selected item returned false")
	}
	if _, ok := tr.Selected(); ok {
		t.Error("selection should be none after removing the selected item")
	}
}

func TestTrack_RemoveReleasesOnce(t *testing.T) {
	rel := newCountingReleaser()
	tr := NewTrack[ImagePayload]("image", rel, nil)
	id, _ := tr.Add(Window{0, 5}, Position{}, ImagePayload{URL: "media://1"}, "media://1", 10)
	other, _ := tr.Add(Window{0, 5}, Position{}, ImagePayload{URL: "media://2"}, "media://2", 10)

	if !tr.Remove(id) {
		t.Fatal("first Remove() returned false")
	}
	before := tr.Items()

	if tr.Remove(id) {
		t.Error("second Remove() on stale id returned true")
	}
	if rel.released["media://1"] != 1 {
		t.Errorf("handle released %d times, want 1", rel.released["media://1"])
	}
	if rel.released["media://2"] != 0 {
		t.Error("unrelated handle was released")
	}
	after := tr.Items()
	if len(after) != len(before) || after[0].ID != other {
		t.Errorf("stale remove changed state: %+v", after)
	}
}

func TestTrack_UpdateMissingIsNoop(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	id, _ := tr.Add(Window{0, 3}, Position{}, textPayload("a"), "", 10)

	called := false
	if tr.Update("missing", func(*TextItem) { called = true }) {
		t.Error("Update() on missing id returned true")
	}
	if called {
		t.Error("Update() on missing id invoked the mutation")
	}
	if it, _ := tr.Get(id); it.Payload.Content != "a" {
		t.Errorf("content = %q, want a", it.Payload.Content)
	}
}

func TestTrack_UpdateTiming(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	id, _ := tr.Add(Window{0, 3}, Position{}, textPayload("a"), "", 10)

	if err := tr.UpdateTiming(id, Window{2, 6}, 10); err != nil {
		t.Fatalf("UpdateTiming() error = %v", err)
	}
	if it, _ := tr.Get(id); it.Window != (Window{2, 6}) {
		t.Errorf("window = %+v, want [2,6]", it.Window)
	}

	if err := tr.UpdateTiming(id, Window{6, 2}, 10); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("UpdateTiming(inverted) error = %v, want ErrInvalidTimeRange", err)
	}
	if it, _ := tr.Get(id); it.Window != (Window{2, 6}) {
		t.Errorf("window changed on failed update: %+v", it.Window)
	}
	if err := tr.UpdateTiming("missing", Window{1, 2}, 10); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateTiming(missing) error = %v, want ErrNotFound", err)
	}
}

func TestTrack_VisibleAtOrderAndRestart(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	a, _ := tr.Add(Window{2, 5}, Position{}, textPayload("a"), "", 10)
	_, _ = tr.Add(Window{6, 8}, Position{}, textPayload("b"), "", 10)
	c, _ := tr.Add(Window{0, 2}, Position{}, textPayload("c"), "", 10)

	seq := tr.VisibleAt(2)
	for round := 0; round < 2; round++ {
		var ids []string
		for it := range seq {
			ids = append(ids, it.ID)
		}
		if !slices.Equal(ids, []string{a, c}) {
			t.Errorf("round %d: visible = %v, want [%s %s]", round, ids, a, c)
		}
	}

	if n := len(slices.Collect(tr.VisibleAt(5.001))); n != 0 {
		t.Errorf("visible at 5.001 = %d items, want 0", n)
	}
}

func TestTrack_SelectUnknown(t *testing.T) {
	tr := NewTrack[TextPayload]("text", nil, nil)
	id, _ := tr.Add(Window{0, 3}, Position{}, textPayload("a"), "", 10)

	if err := tr.Select("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Select() error = %v, want ErrNotFound", err)
	}
	if sel, _ := tr.Selected(); sel != id {
		t.Errorf("selection = %q, want %q", sel, id)
	}
}

func TestTextStyle_ApplyMergesProvidedFields(t *testing.T) {
	style := SubtitlePreset.Payload.Style
	size := 40.0
	bold := true

	style.Apply(TextStyleChanges{FontSize: &size, IsBold: &bold})

	if style.FontSize != 40 || !style.IsBold {
		t.Errorf("style = %+v, want size 40 bold", style)
	}
	if style.FontFamily != "Arial" || style.BackgroundColor != "#00000080" {
		t.Errorf("untouched fields changed: %+v", style)
	}
}

func TestImageStyle_ApplyClampsOpacity(t *testing.T) {
	style := DefaultImageStyle
	op := 3.0
	color := "#000000"

	style.Apply(ImageStyleChanges{Opacity: &op, BorderColor: &color})

	if style.Opacity != 1 {
		t.Errorf("Opacity = %v, want 1", style.Opacity)
	}
	if style.BorderColor != "#000000" {
		t.Errorf("BorderColor = %q, want #000000", style.BorderColor)
	}
}

func TestFitImageSize(t *testing.T) {
	tests := []struct {
		name string
		w, h float64
		want Size
	}{
		{"wide image scaled down", 600, 300, Size{300, 150}},
		{"small image kept", 200, 100, Size{200, 100}},
		{"unknown dimensions", 0, 0, Size{300, 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitImageSize(tt.w, tt.h, 300); got != tt.want {
				t.Errorf("FitImageSize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
