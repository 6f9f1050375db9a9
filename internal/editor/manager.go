package editor

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

type managedSession struct {
	mu      sync.Mutex
	session *Session
	closed  bool
}

// Manager owns the live sessions. Every event for a session goes through Do,
// which runs it to completion before the next one starts, in arrival order.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*managedSession
	releaser Releaser
	logger   *slog.Logger
}

func NewManager(releaser Releaser, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		sessions: make(map[string]*managedSession),
		releaser: releaser,
		logger:   logger,
	}
}

func (m *Manager) Create() string {
	s := NewSession(m.releaser, m.logger)
	m.mu.Lock()
	m.sessions[s.ID()] = &managedSession{session: s}
	m.mu.Unlock()
	m.logger.Info("session created", "session_id", s.ID())
	return s.ID()
}

// Do runs fn against the session with id while holding that session's lock.
func (m *Manager) Do(id string, fn func(*Session) error) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.closed {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return fn(ms.session)
}

// Delete resets the session, releasing its handles, and forgets it.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	ms, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	ms.mu.Lock()
	ms.closed = true
	ms.session.ResetAll()
	ms.mu.Unlock()
	m.logger.Info("session deleted", "session_id", id)
	return nil
}

// IDs lists the live session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()
	sort.Strings(ids)
	return ids
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Stats counts live sessions and how many of them are playing.
func (m *Manager) Stats() (sessions, playing int) {
	for _, id := range m.IDs() {
		err := m.Do(id, func(s *Session) error {
			sessions++
			if s.Clock().IsPlaying() {
				playing++
			}
			return nil
		})
		if err != nil {
			m.logger.Debug("skipping session", "session_id", id, "error", err)
		}
	}
	return sessions, playing
}

// Close deletes every session.
func (m *Manager) Close() {
	for _, id := range m.IDs() {
		_ = m.Delete(id)
	}
}
