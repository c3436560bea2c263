package scan

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = errors.New("scan session not found")

type managedSession struct {
	session *Session
	decoder *ChannelDecoder
}

// Manager tracks live scan sessions by ID.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]managedSession

	seller  Seller
	metrics Recorder
	cfg     Config
	newID   func() string
}

func NewManager(seller Seller, metrics Recorder, cfg Config) *Manager {
	return &Manager{
		sessions: make(map[string]managedSession),
		seller:   seller,
		metrics:  metrics,
		cfg:      cfg,
		newID:    uuid.NewString,
	}
}

// StartSession creates a session around a fresh decode feed and starts it.
func (m *Manager) StartSession(ctx context.Context) (*Session, error) {
	id := m.newID()
	decoder := NewChannelDecoder()
	session := NewSession(id, m.seller, decoder, LogFeedback{SessionID: id}, m.metrics, m.cfg)

	if err := session.Start(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = managedSession{session: session, decoder: decoder}
	m.mu.Unlock()

	m.metrics.RecordSessionStarted()
	return session, nil
}

// Get returns the session with the given ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry.session, nil
}

// Feed delivers a decoded payload to the session with the given ID.
func (m *Manager) Feed(id, payload string) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	return entry.decoder.Feed(payload)
}

// StopSession stops and forgets the session with the given ID.
func (m *Manager) StopSession(id string) error {
	m.mu.Lock()
	entry, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	entry.session.Stop()
	m.metrics.RecordSessionStopped()
	return nil
}

// StopAll stops every live session. Called on shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	entries := make([]managedSession, 0, len(m.sessions))
	for id, entry := range m.sessions {
		entries = append(entries, entry)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, entry := range entries {
		entry.session.Stop()
		m.metrics.RecordSessionStopped()
	}
}
