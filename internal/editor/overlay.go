package editor

import (
	"fmt"
	"iter"
	"log/slog"
	"math"
)

// Window is a closed interval [StartTime, EndTime], inclusive on both ends.
type Window struct {
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

func (w Window) Contains(t float64) bool {
	return t >= w.StartTime && t <= w.EndTime
}

func (w Window) valid(duration float64) bool {
	if math.IsNaN(w.StartTime) || math.IsNaN(w.EndTime) {
		return false
	}
	if w.StartTime < 0 || w.StartTime >= w.EndTime {
		return false
	}
	return duration <= 0 || w.EndTime <= duration
}

// DefaultWindow centers a new item's window on now, clamped to the media.
func DefaultWindow(now, duration, before, after float64) Window {
	return Window{
		StartTime: math.Max(0, now-before),
		EndTime:   math.Min(duration, now+after),
	}
}

// Position is the item's anchor in normalized frame coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) clamped() Position {
	return Position{X: clamp(p.X, 0, 1), Y: clamp(p.Y, 0, 1)}
}

// Item is one time-windowed overlay entry. Handle, when set, is a resource
// the track owns and releases on removal.
type Item[P any] struct {
	ID       string   `json:"id"`
	Window   Window   `json:"window"`
	Position Position `json:"position"`
	Payload  P        `json:"payload"`
	Handle   string   `json:"handle,omitempty"`
}

// Track is an insertion-ordered collection of overlay items of one kind plus
// that kind's selection.
type Track[P any] struct {
	kind     string
	items    []*Item[P]
	selected string
	releaser Releaser
	logger   *slog.Logger
}

func NewTrack[P any](kind string, releaser Releaser, logger *slog.Logger) *Track[P] {
	if releaser == nil {
		releaser = nopReleaser{}
	}
	return &Track[P]{kind: kind, releaser: releaser, logger: logger}
}

func (t *Track[P]) Kind() string { return t.kind }
func (t *Track[P]) Len() int     { return len(t.items) }

// Add appends an item and makes it the track's selection. The window must
// satisfy 0 <= start < end <= duration.
func (t *Track[P]) Add(window Window, position Position, payload P, handle string, duration float64) (string, error) {
	if !window.valid(duration) {
		return "", fmt.Errorf("add %s overlay [%v, %v]: %w", t.kind, window.StartTime, window.EndTime, ErrInvalidTimeRange)
	}
	item := &Item[P]{
		ID:       newID(t.kind),
		Window:   window,
		Position: position.clamped(),
		Payload:  payload,
		Handle:   handle,
	}
	t.items = append(t.items, item)
	t.selected = item.ID
	return item.ID, nil
}

// Remove deletes an item, clears the selection if it pointed there and
// releases the owned handle. A stale id is a no-op and reports false.
func (t *Track[P]) Remove(id string) bool {
	i := t.indexOf(id)
	if i < 0 {
		return false
	}
	item := t.items[i]
	t.items = append(t.items[:i], t.items[i+1:]...)
	if t.selected == id {
		t.selected = ""
	}
	t.release(item)
	return true
}

// Update applies fn to the item with id. Missing ids are a silent no-op.
func (t *Track[P]) Update(id string, fn func(*Item[P])) bool {
	i := t.indexOf(id)
	if i < 0 {
		return false
	}
	fn(t.items[i])
	return true
}

// UpdateTiming overwrites an item's window after validating it.
func (t *Track[P]) UpdateTiming(id string, window Window, duration float64) error {
	i := t.indexOf(id)
	if i < 0 {
		return fmt.Errorf("update %s timing %s: %w", t.kind, id, ErrNotFound)
	}
	if !window.valid(duration) {
		return fmt.Errorf("update %s timing [%v, %v]: %w", t.kind, window.StartTime, window.EndTime, ErrInvalidTimeRange)
	}
	t.items[i].Window = window
	return nil
}

func (t *Track[P]) UpdatePosition(id string, position Position) bool {
	return t.Update(id, func(it *Item[P]) { it.Position = position.clamped() })
}

// Select points the track selection at id; an empty id clears it.
func (t *Track[P]) Select(id string) error {
	if id != "" && t.indexOf(id) < 0 {
		return fmt.Errorf("select %s %s: %w", t.kind, id, ErrNotFound)
	}
	t.selected = id
	return nil
}

func (t *Track[P]) Selected() (string, bool) {
	return t.selected, t.selected != ""
}

func (t *Track[P]) Get(id string) (Item[P], bool) {
	i := t.indexOf(id)
	if i < 0 {
		return Item[P]{}, false
	}
	return *t.items[i], true
}

// Items returns copies of every item in insertion order.
func (t *Track[P]) Items() []Item[P] {
	out := make([]Item[P], len(t.items))
	for i, it := range t.items {
		out[i] = *it
	}
	return out
}

// VisibleAt yields, in insertion order, the items whose window contains at.
// The sequence is lazy and can be ranged over any number of times.
func (t *Track[P]) VisibleAt(at float64) iter.Seq[Item[P]] {
	return func(yield func(Item[P]) bool) {
		for _, it := range t.items {
			if !it.Window.Contains(at) {
				continue
			}
			if !yield(*it) {
				return
			}
		}
	}
}

// clampTo pulls every window inside [0, duration]. A window lying wholly past
// the end keeps its length and ends at duration.
func (t *Track[P]) clampTo(duration float64) {
	for _, it := range t.items {
		w := it.Window
		if w.EndTime <= duration {
			continue
		}
		length := w.EndTime - w.StartTime
		w.EndTime = duration
		if w.StartTime >= duration {
			w.StartTime = math.Max(0, duration-length)
		}
		it.Window = w
	}
}

// reset drops every item, releasing owned handles once each.
func (t *Track[P]) reset() {
	items := t.items
	t.items = nil
	t.selected = ""
	for _, it := range items {
		t.release(it)
	}
}

func (t *Track[P]) release(it *Item[P]) {
	if it.Handle == "" {
		return
	}
	handle := it.Handle
	it.Handle = ""
	if err := t.releaser.Release(handle); err != nil && t.logger != nil {
		t.logger.Warn("failed to release overlay resource", "track", t.kind, "item_id", it.ID, "error", err)
	}
}

func (t *Track[P]) indexOf(id string) int {
	for i, it := range t.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
