package editor

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/heimdex/heimdex-editor/internal/logging"
)

// MediaRef is the base video loaded into a session.
type MediaRef struct {
	Name     string  `json:"name"`
	Handle   string  `json:"handle"`
	Duration float64 `json:"duration"`
}

// Selection is the per-track "currently selected" pointer; empty means none.
type Selection struct {
	Segment string `json:"segment,omitempty"`
	Text    string `json:"text,omitempty"`
	Image   string `json:"image,omitempty"`
	Audio   string `json:"audio,omitempty"`
}

// Session is one editing instance: clock, segment timeline, overlay tracks,
// audio lanes and their selections. It is not safe for concurrent use;
// Manager serializes access.
type Session struct {
	id        string
	createdAt time.Time

	clock    Clock
	timeline *Timeline
	text     *Track[TextPayload]
	image    *Track[ImagePayload]
	audio    *AudioTracks
	video    MediaRef

	releaser Releaser
	logger   *slog.Logger
}

func NewSession(releaser Releaser, logger *slog.Logger) *Session {
	if releaser == nil {
		releaser = nopReleaser{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	id := newID("session")
	logger = logging.WithSessionID(logger, id)
	return &Session{
		id:        id,
		createdAt: time.Now(),
		timeline:  NewTimeline(),
		text:      NewTrack[TextPayload]("text", releaser, logger),
		image:     NewTrack[ImagePayload]("image", releaser, logger),
		audio:     NewAudioTracks(releaser, logger),
		releaser:  releaser,
		logger:    logger,
	}
}

func (s *Session) ID() string                  { return s.id }
func (s *Session) CreatedAt() time.Time        { return s.createdAt }
func (s *Session) Clock() *Clock               { return &s.clock }
func (s *Session) Timeline() *Timeline         { return s.timeline }
func (s *Session) Text() *Track[TextPayload]   { return s.text }
func (s *Session) Image() *Track[ImagePayload] { return s.image }
func (s *Session) Audio() *AudioTracks         { return s.audio }
func (s *Session) Video() MediaRef             { return s.video }

func (s *Session) Selection() Selection {
	var sel Selection
	sel.Segment, _ = s.timeline.Selected()
	sel.Text, _ = s.text.Selected()
	sel.Image, _ = s.image.Selected()
	sel.Audio, _ = s.audio.Selected()
	return sel
}

// LoadMedia installs a new base video. The session takes ownership of handle
// and releases the previous video's handle. A positive duration also sets the
// clock and rebuilds the timeline as a single segment. A zero duration means
// it is not known yet: the clock and timeline are cleared until SetDuration.
func (s *Session) LoadMedia(name, handle string, duration float64) error {
	if duration < 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		return fmt.Errorf("load media %q: %w", name, ErrInvalidTimeRange)
	}
	prev := s.video
	s.video = MediaRef{Name: name, Handle: handle}
	if prev.Handle != "" && prev.Handle != handle {
		s.release(prev.Handle, "video")
	}
	if duration > 0 {
		if err := s.SetDuration(duration); err != nil {
			return err
		}
	} else {
		s.timeline.reset()
		s.clock.reset()
	}
	s.logger.Debug("media loaded", "name", name, "duration", duration)
	return nil
}

// SetDuration records a newly known media duration: the clock re-clamps, the
// timeline is re-initialized to one segment spanning it and overlay windows
// are pulled inside it. Non-positive durations change nothing.
func (s *Session) SetDuration(d float64) error {
	if !(d > 0) || math.IsInf(d, 0) {
		return fmt.Errorf("set duration %v: %w", d, ErrInvalidTimeRange)
	}
	if err := s.timeline.Initialize(d); err != nil {
		return err
	}
	s.clock.SetDuration(d)
	s.video.Duration = d
	s.text.clampTo(d)
	s.image.clampTo(d)
	return nil
}

// AdvancePlayback moves a playing clock forward by dt seconds and stops it at
// the end of the media.
func (s *Session) AdvancePlayback(dt float64) {
	if s.clock.Advance(dt) {
		s.clock.Stop()
		s.logger.Debug("playback reached end", "time", s.clock.CurrentTime())
	}
}

// SplitSelectedAtPlayhead splits the selected segment at the clock position.
func (s *Session) SplitSelectedAtPlayhead() (string, error) {
	id, ok := s.timeline.Selected()
	if !ok {
		return "", fmt.Errorf("split at playhead: no segment selected: %w", ErrNotFound)
	}
	return s.timeline.Split(id, s.clock.CurrentTime())
}

// AddText adds a text item built from preset with the default window around
// the playhead.
func (s *Session) AddText(preset TextPreset) (string, error) {
	w := DefaultWindow(s.clock.CurrentTime(), s.clock.Duration(), TextLeadIn, TextLeadOut)
	return s.AddTextWindow(w, preset.Position, preset.Payload)
}

func (s *Session) AddTextWindow(w Window, pos Position, payload TextPayload) (string, error) {
	id, err := s.text.Add(w, pos, payload, "", s.clock.Duration())
	if err != nil {
		return "", err
	}
	s.logger.Debug("text overlay added", "item_id", id)
	return id, nil
}

func (s *Session) RemoveText(id string) bool {
	return s.text.Remove(id)
}

func (s *Session) UpdateTextContent(id, content string) bool {
	return s.text.Update(id, func(it *TextItem) { it.Payload.Content = content })
}

func (s *Session) UpdateTextStyle(id string, c TextStyleChanges) bool {
	return s.text.Update(id, func(it *TextItem) { it.Payload.Style.Apply(c) })
}

func (s *Session) UpdateTextTiming(id string, start, end float64) error {
	return s.text.UpdateTiming(id, Window{StartTime: start, EndTime: end}, s.clock.Duration())
}

// ImageUpload describes an uploaded image about to become an overlay. The
// session owns Handle once AddImage succeeds.
type ImageUpload struct {
	Filename      string
	Handle        string
	NaturalWidth  float64
	NaturalHeight float64
}

const maxImageWidth = 300

// AddImage places an image at the frame center for ImageDefaultLength seconds
// from the playhead.
func (s *Session) AddImage(up ImageUpload) (string, error) {
	now, d := s.clock.CurrentTime(), s.clock.Duration()
	w := DefaultWindow(now, d, 0, ImageDefaultLength)
	if d > 0 && w.StartTime >= w.EndTime {
		// Playhead on the last frame: end the image there instead.
		w = Window{StartTime: math.Max(0, d-ImageDefaultLength), EndTime: d}
	}
	payload := ImagePayload{
		URL:      up.Handle,
		Filename: up.Filename,
		Size:     FitImageSize(up.NaturalWidth, up.NaturalHeight, maxImageWidth),
		Style:    DefaultImageStyle,
	}
	id, err := s.image.Add(w, Position{X: 0.5, Y: 0.5}, payload, up.Handle, s.clock.Duration())
	if err != nil {
		return "", err
	}
	s.logger.Debug("image overlay added", "item_id", id, "filename", up.Filename)
	return id, nil
}

func (s *Session) RemoveImage(id string) bool {
	return s.image.Remove(id)
}

func (s *Session) UpdateImageStyle(id string, c ImageStyleChanges) bool {
	return s.image.Update(id, func(it *ImageItem) { it.Payload.Style.Apply(c) })
}

func (s *Session) UpdateImageSize(id string, size Size) bool {
	if size.Width <= 0 || size.Height <= 0 {
		return false
	}
	return s.image.Update(id, func(it *ImageItem) { it.Payload.Size = size })
}

func (s *Session) UpdateImageTiming(id string, start, end float64) error {
	return s.image.UpdateTiming(id, Window{StartTime: start, EndTime: end}, s.clock.Duration())
}

// Compose returns the overlays visible at the current clock position.
func (s *Session) Compose() Frame {
	return Compose(s.text, s.image, s.clock.CurrentTime())
}

func (s *Session) ComposeAt(t float64) Frame {
	return Compose(s.text, s.image, t)
}

// ResetAll returns every component to its initial state and releases every
// owned handle once.
func (s *Session) ResetAll() {
	s.text.reset()
	s.image.reset()
	s.audio.reset()
	s.timeline.reset()
	s.clock.reset()
	if s.video.Handle != "" {
		s.release(s.video.Handle, "video")
	}
	s.video = MediaRef{}
	s.logger.Debug("session reset")
}

func (s *Session) release(handle, kind string) {
	if err := s.releaser.Release(handle); err != nil {
		s.logger.Warn("failed to release resource", "kind", kind, "error", err)
	}
}
