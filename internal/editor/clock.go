package editor

import "math"

// ClockState is a read-only snapshot of the playback clock.
type ClockState struct {
	CurrentTime float64 `json:"current_time"`
	Duration    float64 `json:"duration"`
	IsPlaying   bool    `json:"is_playing"`
}

// Clock is the single source of truth for "now". It never reads track state;
// tracks derive visibility and edit defaults from it.
type Clock struct {
	currentTime float64
	duration    float64
	playing     bool
}

func (c *Clock) State() ClockState {
	return ClockState{CurrentTime: c.currentTime, Duration: c.duration, IsPlaying: c.playing}
}

func (c *Clock) CurrentTime() float64 { return c.currentTime }
func (c *Clock) Duration() float64    { return c.duration }
func (c *Clock) IsPlaying() bool      { return c.playing }

// TogglePlayback flips between stopped and playing and returns the new state.
func (c *Clock) TogglePlayback() bool {
	c.playing = !c.playing
	return c.playing
}

func (c *Clock) Stop() {
	c.playing = false
}

// Seek moves the playhead. Legal in either state; isPlaying is untouched.
func (c *Clock) Seek(t float64) {
	c.currentTime = clamp(t, 0, c.duration)
}

// Tick applies a media-time update reported by the player.
func (c *Clock) Tick(t float64) {
	c.currentTime = clamp(t, 0, c.duration)
}

// Advance moves the playhead forward by dt seconds while playing and reports
// whether the end of the media was reached.
func (c *Clock) Advance(dt float64) bool {
	if !c.playing || dt <= 0 {
		return false
	}
	c.Tick(c.currentTime + dt)
	return c.currentTime >= c.duration
}

// SetDuration records the loaded media's duration and re-clamps the playhead.
func (c *Clock) SetDuration(d float64) {
	if d < 0 {
		d = 0
	}
	c.duration = d
	c.currentTime = clamp(c.currentTime, 0, d)
}

func (c *Clock) reset() {
	*c = Clock{}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
