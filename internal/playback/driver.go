package playback

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/heimdex/heimdex-editor/internal/editor"
)

// Sessions is the part of editor.Manager the driver needs.
type Sessions interface {
	IDs() []string
	Do(id string, fn func(*editor.Session) error) error
}

// Driver plays back sessions server-side: on every tick it advances the
// clock of each playing session by the wall time since the previous tick.
type Driver struct {
	sessions Sessions
	interval time.Duration
	logger   *slog.Logger
	running  atomic.Bool
	paused   atomic.Bool
}

func NewDriver(sessions Sessions, interval time.Duration, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		sessions: sessions,
		interval: interval,
		logger:   logger,
	}
}

func (d *Driver) Start(ctx context.Context) {
	if d.running.Swap(true) {
		return
	}

	d.logger.Info("playback driver started", "interval", d.interval)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("playback driver stopping")
			d.running.Store(false)
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if !d.paused.Load() {
				d.Step(dt)
			}
		}
	}
}

// Step advances every playing session by dt and returns how many moved.
func (d *Driver) Step(dt time.Duration) int {
	seconds := dt.Seconds()
	if seconds <= 0 {
		return 0
	}

	advanced := 0
	for _, id := range d.sessions.IDs() {
		err := d.sessions.Do(id, func(s *editor.Session) error {
			if !s.Clock().IsPlaying() {
				return nil
			}
			s.AdvancePlayback(seconds)
			advanced++
			return nil
		})
		if err != nil {
			// Deleted between IDs and Do.
			d.logger.Debug("skipping session", "session_id", id, "error", err)
		}
	}
	return advanced
}

func (d *Driver) Pause() {
	d.paused.Store(true)
	d.logger.Info("playback driver paused")
}

func (d *Driver) Resume() {
	d.paused.Store(false)
	d.logger.Info("playback driver resumed")
}

func (d *Driver) IsPaused() bool {
	return d.paused.Load()
}

func (d *Driver) IsRunning() bool {
	return d.running.Load()
}
