package assistant

import (
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/session"
	"github.com/barekit/orbitai/pkg/slot"
)

// SubmitRequest is one user message.
type SubmitRequest struct {
	SessionID     string
	Message       string
	WalletAddress string
	UserID        string
}

// QuickAction is a suggested reply a client can render as a button.
// Value is sent back verbatim as the next message.
type QuickAction struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Deployment is the deployment state of a session.
type Deployment struct {
	ID     string `json:"deployment_id"`
	Status string `json:"status"`
}

// Reply is the outcome of one turn.
type Reply struct {
	SessionID    string               `json:"session_id"`
	Message      string               `json:"message"`
	Phase        session.Phase        `json:"phase"`
	CurrentStep  slot.Slot            `json:"current_step"`
	Progress     slot.Progress        `json:"config_progress"`
	Collected    map[string]any       `json:"collected_params"`
	Defaults     []slot.Slot          `json:"defaults"`
	Config       *orbit.BackendConfig `json:"config,omitempty"`
	Deployment   *Deployment          `json:"deployment,omitempty"`
	QuickActions []QuickAction        `json:"quick_actions,omitempty"`
}

// Snapshot is the full state of a session.
type Snapshot struct {
	SessionID   string               `json:"session_id"`
	Phase       session.Phase        `json:"phase"`
	CurrentStep slot.Slot            `json:"current_step"`
	Progress    slot.Progress        `json:"config_progress"`
	Collected   map[string]any       `json:"collected_params"`
	Config      *orbit.BackendConfig `json:"config,omitempty"`
	Deployment  *Deployment          `json:"deployment,omitempty"`
	Messages    []session.Message    `json:"messages"`
}

// DeployRequest starts a deployment for a session. ConfigID, when set, reuses
// a record the deployment service already saved instead of saving it again.
type DeployRequest struct {
	SessionID string
	ConfigID  string
}

// DeployResult is returned once the deployment service accepted a submission.
type DeployResult struct {
	DeploymentID string `json:"deployment_id"`
	ConfigID     string `json:"config_id,omitempty"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}
