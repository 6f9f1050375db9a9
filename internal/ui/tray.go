package ui

import (
	_ "embed"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/getlantern/systray"
)

//go:embed icon.png
var iconBytes []byte

const refreshInterval = 2 * time.Second

// SessionStats reports live and playing session counts.
type SessionStats interface {
	Stats() (sessions, playing int)
}

// PlaybackControl is the playback driver as seen from the tray.
type PlaybackControl interface {
	Pause()
	Resume()
	IsPaused() bool
}

type Tray struct {
	sessions SessionStats
	playback PlaybackControl
	apiURL   string
	logger   *slog.Logger

	statusItem *systray.MenuItem
	pauseItem  *systray.MenuItem

	mu   sync.Mutex
	done chan struct{}

	onQuit func()
}

type TrayConfig struct {
	Sessions SessionStats
	Playback PlaybackControl
	APIURL   string
	Logger   *slog.Logger
	OnQuit   func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		sessions: cfg.Sessions,
		playback: cfg.Playback,
		apiURL:   cfg.APIURL,
		logger:   cfg.Logger,
		done:     make(chan struct{}),
		onQuit:   cfg.OnQuit,
	}
}

func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("Heimdex")
	systray.SetTooltip("Heimdex Editor " + t.apiURL)

	t.statusItem = systray.AddMenuItem(statusTitle(0, 0, false), "Editing sessions")
	t.statusItem.Disable()

	urlItem := systray.AddMenuItem("API: "+t.apiURL, "Local API address")
	urlItem.Disable()

	systray.AddSeparator()

	t.pauseItem = systray.AddMenuItem(pauseTitle(false), "Pause or resume the playback clock")

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit Heimdex Editor")

	go t.refreshLoop()

	go func() {
		for {
			select {
			case <-t.pauseItem.ClickedCh:
				t.togglePause()
			case <-quitItem.ClickedCh:
				t.logger.Info("quit requested from tray")
				if t.onQuit != nil {
					t.onQuit()
				}
				systray.Quit()
				return
			}
		}
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	close(t.done)
	t.logger.Info("system tray exiting")
}

func (t *Tray) refreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.done:
			return
		case <-ticker.C:
			t.refresh()
		}
	}
}

func (t *Tray) refresh() {
	if t.sessions == nil {
		return
	}
	sessions, playing := t.sessions.Stats()

	t.mu.Lock()
	defer t.mu.Unlock()
	paused := t.playback != nil && t.playback.IsPaused()
	t.statusItem.SetTitle(statusTitle(sessions, playing, paused))
}

func (t *Tray) togglePause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.playback == nil {
		return
	}

	if t.playback.IsPaused() {
		t.playback.Resume()
	} else {
		t.playback.Pause()
	}
	t.pauseItem.SetTitle(pauseTitle(t.playback.IsPaused()))
}

func (t *Tray) Quit() {
	systray.Quit()
}

func statusTitle(sessions, playing int, paused bool) string {
	switch {
	case paused:
		return fmt.Sprintf("Sessions: %d (playback paused)", sessions)
	case playing > 0:
		return fmt.Sprintf("Sessions: %d (%d playing)", sessions, playing)
	default:
		return fmt.Sprintf("Sessions: %d", sessions)
	}
}

func pauseTitle(paused bool) string {
	if paused {
		return "Resume Playback"
	}
	return "Pause Playback"
}
