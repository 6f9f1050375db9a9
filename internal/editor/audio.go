package editor

import (
	"fmt"
	"log/slog"
)

type AudioType string

const (
	AudioMain       AudioType = "main"
	AudioBackground AudioType = "background"
	AudioVoiceover  AudioType = "voiceover"

	MainAudioID = "main-audio"
)

// DefaultVolume returns the starting volume for a new track of type t.
func DefaultVolume(t AudioType) float64 {
	if t == AudioBackground {
		return 0.7
	}
	return 1
}

type AudioTrack struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Type    AudioType `json:"type"`
	Volume  float64   `json:"volume"`
	IsMuted bool      `json:"is_muted"`
	File    string    `json:"file,omitempty"`
	URL     string    `json:"url,omitempty"`
}

type AudioTrackChanges struct {
	Name    *string  `json:"name,omitempty"`
	Volume  *float64 `json:"volume,omitempty"`
	IsMuted *bool    `json:"is_muted,omitempty"`
}

// AudioTracks holds the session's audio lanes. Exactly one main track exists
// and it never carries a file of its own.
type AudioTracks struct {
	tracks   []AudioTrack
	selected string
	releaser Releaser
	logger   *slog.Logger
}

func NewAudioTracks(releaser Releaser, logger *slog.Logger) *AudioTracks {
	if releaser == nil {
		releaser = nopReleaser{}
	}
	a := &AudioTracks{releaser: releaser, logger: logger}
	a.tracks = []AudioTrack{mainTrack()}
	return a
}

func mainTrack() AudioTrack {
	return AudioTrack{ID: MainAudioID, Name: "Main Audio", Type: AudioMain, Volume: 1}
}

func (a *AudioTracks) Tracks() []AudioTrack {
	out := make([]AudioTrack, len(a.tracks))
	copy(out, a.tracks)
	return out
}

func (a *AudioTracks) Get(id string) (AudioTrack, bool) {
	i := a.indexOf(id)
	if i < 0 {
		return AudioTrack{}, false
	}
	return a.tracks[i], true
}

func (a *AudioTracks) Add(name string, typ AudioType, volume float64, muted bool) (string, error) {
	if typ != AudioBackground && typ != AudioVoiceover {
		return "", fmt.Errorf("add audio track of type %q: %w", typ, ErrInvalidAudioType)
	}
	track := AudioTrack{
		ID:      newID("audio"),
		Name:    name,
		Type:    typ,
		Volume:  clamp(volume, 0, 1),
		IsMuted: muted,
	}
	a.tracks = append(a.tracks, track)
	return track.ID, nil
}

// Remove deletes a non-main track and releases its media. Stale ids are a
// no-op reporting false.
func (a *AudioTracks) Remove(id string) (bool, error) {
	if id == MainAudioID {
		return false, ErrMainTrackProtected
	}
	i := a.indexOf(id)
	if i < 0 {
		return false, nil
	}
	track := a.tracks[i]
	a.tracks = append(a.tracks[:i], a.tracks[i+1:]...)
	if a.selected == id {
		a.selected = ""
	}
	a.release(track)
	return true, nil
}

// Update merges the given fields. Missing ids are a silent no-op.
func (a *AudioTracks) Update(id string, c AudioTrackChanges) bool {
	i := a.indexOf(id)
	if i < 0 {
		return false
	}
	t := &a.tracks[i]
	if c.Name != nil {
		t.Name = *c.Name
	}
	if c.Volume != nil {
		t.Volume = clamp(*c.Volume, 0, 1)
	}
	if c.IsMuted != nil {
		t.IsMuted = *c.IsMuted
	}
	return true
}

func (a *AudioTracks) ToggleMute(id string) bool {
	i := a.indexOf(id)
	if i < 0 {
		return false
	}
	a.tracks[i].IsMuted = !a.tracks[i].IsMuted
	return true
}

func (a *AudioTracks) SetVolume(id string, volume float64) bool {
	return a.Update(id, AudioTrackChanges{Volume: &volume})
}

// SetFile attaches media to a non-main track, releasing whatever handle the
// track held before. The track takes ownership of handle.
func (a *AudioTracks) SetFile(id, filename, handle string) error {
	if id == MainAudioID {
		return ErrMainTrackProtected
	}
	i := a.indexOf(id)
	if i < 0 {
		return fmt.Errorf("set audio file on %s: %w", id, ErrNotFound)
	}
	prev := a.tracks[i]
	a.tracks[i].File = filename
	a.tracks[i].URL = handle
	if prev.URL != "" && prev.URL != handle {
		a.release(prev)
	}
	return nil
}

func (a *AudioTracks) Select(id string) error {
	if id != "" && a.indexOf(id) < 0 {
		return fmt.Errorf("select audio track %s: %w", id, ErrNotFound)
	}
	a.selected = id
	return nil
}

func (a *AudioTracks) Selected() (string, bool) {
	return a.selected, a.selected != ""
}

func (a *AudioTracks) reset() {
	tracks := a.tracks
	a.tracks = []AudioTrack{mainTrack()}
	a.selected = ""
	for _, t := range tracks {
		a.release(t)
	}
}

func (a *AudioTracks) release(t AudioTrack) {
	if t.URL == "" || t.Type == AudioMain {
		return
	}
	if err := a.releaser.Release(t.URL); err != nil && a.logger != nil {
		a.logger.Warn("failed to release audio resource", "track_id", t.ID, "error", err)
	}
}

func (a *AudioTracks) indexOf(id string) int {
	for i := range a.tracks {
		if a.tracks[i].ID == id {
			return i
		}
	}
	return -1
}
