package session

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
)

// ErrSessionNotFound signals a lookup for a session id the manager does not
// hold.
var ErrSessionNotFound = errors.New("session not found")

// Manager holds the live editing sessions, keyed by id.
type Manager struct {
	threshold float64
	log       *slog.Logger

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewManager returns an empty manager. threshold is the validation
// confidence threshold handed to each session's reconciler.
func NewManager(threshold float64, log *slog.Logger) *Manager {
	return &Manager{
		threshold: threshold,
		log:       log,
		sessions:  make(map[uuid.UUID]*Session),
	}
}

// Create opens a session around the given document, running the id repair and
// position normalization passes first.
func (m *Manager) Create(doc *models.WorkoutStructure) *Session {
	s := newSession(doc, m.threshold, m.log)
	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()
	m.log.Info("session created", "session", s.id, "blocks", len(s.doc.Blocks))
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Close discards a session.
func (m *Manager) Close(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// The context-taking wrappers below let the manager serve as a local
// datasource for the MCP tools, which are written against an interface that
// an HTTP client also satisfies.

// CreateSession opens a session and returns its first snapshot.
func (m *Manager) CreateSession(_ context.Context, doc *models.WorkoutStructure) (Snapshot, error) {
	return m.Create(doc).Get(), nil
}

// GetSnapshot returns the current snapshot of a session.
func (m *Manager) GetSnapshot(_ context.Context, id uuid.UUID) (Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Get(), nil
}

// ApplyCommand applies one command to a session.
func (m *Manager) ApplyCommand(_ context.Context, id uuid.UUID, cmd Command) (Snapshot, error) {
	s, err := m.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Apply(cmd)
}

// ProjectWorkout projects a session's document for the given device.
func (m *Manager) ProjectWorkout(_ context.Context, id uuid.UUID, device models.Device) (*models.WorkoutStructure, error) {
	s, err := m.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Project(device), nil
}

// Sessions returns a snapshot of every live session.
func (m *Manager) Sessions(_ context.Context) ([]Snapshot, error) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(sessions))
	for _, s := range sessions {
		snaps = append(snaps, s.Get())
	}
	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].SessionID.String() < snaps[j].SessionID.String()
	})
	return snaps, nil
}
