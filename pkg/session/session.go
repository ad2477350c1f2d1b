// Package session holds per-conversation state and the TTL store that owns it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

// Phase is the coarse stage of a conversation.
type Phase string

const (
	PhaseGreeting      Phase = "greeting"
	PhaseDiscovery     Phase = "discovery"
	PhaseConfiguration Phase = "configuration"
	PhaseReview        Phase = "review"
	PhaseDeploying     Phase = "deploying"
	PhaseDeployed      Phase = "deployed"
)

// Role is the author of a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is one conversation.
//
// A Session is mutated only while its turn lock is held (see Lock); the
// store itself never touches a session's fields after creating it.
type Session struct {
	ID            string
	UserID        string
	WalletAddress string

	Phase    Phase
	Step     slot.Slot
	Messages []Message
	Values   *slot.Values

	// ChainID is generated once so every rebuild of the config keeps it.
	ChainID int64
	Config  *orbit.Config

	DeploymentID     string
	DeploymentStatus string

	CreatedAt time.Time
	UpdatedAt time.Time

	turn sync.Mutex
	now  func() time.Time
}

func newSession(id, userID, wallet string, now func() time.Time) *Session {
	ts := now()
	return &Session{
		ID:            id,
		UserID:        userID,
		WalletAddress: wallet,
		Phase:         PhaseGreeting,
		Step:          slot.UseCase,
		Messages:      []Message{},
		Values:        slot.NewValues(),
		CreatedAt:     ts,
		UpdatedAt:     ts,
		now:           now,
	}
}

// Lock serializes turns on this session.
func (s *Session) Lock() { s.turn.Lock() }

// Unlock releases the turn lock.
func (s *Session) Unlock() { s.turn.Unlock() }

// AddMessage appends a transcript entry and bumps UpdatedAt.
func (s *Session) AddMessage(role Role, content string) Message {
	m := Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}
	s.Messages = append(s.Messages, m)
	s.UpdatedAt = m.Timestamp
	return m
}

// Recent returns up to n of the latest messages, oldest first.
func (s *Session) Recent(n int) []Message {
	if n <= 0 || n >= len(s.Messages) {
		out := make([]Message, len(s.Messages))
		copy(out, s.Messages)
		return out
	}
	out := make([]Message, n)
	copy(out, s.Messages[len(s.Messages)-n:])
	return out
}

// Progress is the cursor-based completion summary.
func (s *Session) Progress() slot.Progress {
	return slot.ProgressAt(s.Step)
}

// Touch bumps UpdatedAt.
func (s *Session) Touch() {
	s.UpdatedAt = s.now()
}
