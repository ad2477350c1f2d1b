package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/barekit/orbitai/pkg/ledger/record"
)

// InMemory implements the ledger with a slice.
type InMemory struct {
	mu     sync.RWMutex
	events []record.Event
	now    func() time.Time
}

// New creates a new InMemory ledger.
func New() *InMemory {
	return &InMemory{now: time.Now}
}

// Append adds an event.
func (m *InMemory) Append(ctx context.Context, e record.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = m.now()
	}
	m.events = append(m.events, e)
	return nil
}

// History returns a copy of the session's events, oldest first.
func (m *InMemory) History(ctx context.Context, sessionID string) ([]record.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []record.Event
	for _, e := range m.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// Latest returns the newest event for deploymentID.
func (m *InMemory) Latest(ctx context.Context, deploymentID string) (*record.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].DeploymentID == deploymentID && deploymentID != "" {
			e := m.events[i]
			return &e, nil
		}
	}
	return nil, record.ErrNotFound
}
