// Package record defines the deployment ledger entry shared by every backend.
package record

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no event exists for a deployment id.
var ErrNotFound = errors.New("ledger entry not found")

// Kind classifies a ledger event.
type Kind string

const (
	KindSubmitted Kind = "submitted"
	KindRejected  Kind = "rejected"
	KindStatus    Kind = "status"
)

// Event is one ledger line: a deploy submission, a rejected submission, or a status poll.
type Event struct {
	Kind         Kind      `json:"kind"`
	SessionID    string    `json:"session_id"`
	DeploymentID string    `json:"deployment_id,omitempty"`
	ConfigID     string    `json:"config_id,omitempty"`
	ChainName    string    `json:"chain_name,omitempty"`
	ChainID      int64     `json:"chain_id,omitempty"`
	ParentChain  string    `json:"parent_chain,omitempty"`
	Status       string    `json:"status,omitempty"`
	Progress     int       `json:"progress"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
