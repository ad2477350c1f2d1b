// Package ledger keeps an audit trail of deployment submissions and status polls.
// Conversation state never goes here; it stays in the in-memory session store.
package ledger

import (
	"context"

	"github.com/barekit/orbitai/pkg/ledger/record"
)

type (
	Event = record.Event
	Kind  = record.Kind
)

const (
	KindSubmitted = record.KindSubmitted
	KindRejected  = record.KindRejected
	KindStatus    = record.KindStatus
)

// ErrNotFound is returned by Latest when a deployment id has no events.
var ErrNotFound = record.ErrNotFound

// Ledger is an append-only store of deployment events.
type Ledger interface {
	// Append records an event. A zero CreatedAt is set to the current time.
	Append(ctx context.Context, e Event) error
	// History returns a session's events, oldest first.
	History(ctx context.Context, sessionID string) ([]Event, error)
	// Latest returns the newest event for a deployment id.
	Latest(ctx context.Context, deploymentID string) (*Event, error)
}
