// Package assistant is the conversational service: it routes each message
// through the slot state machine, generates the reply, and proxies deployments.
package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/barekit/orbitai/pkg/assembler"
	"github.com/barekit/orbitai/pkg/deploy"
	"github.com/barekit/orbitai/pkg/intent"
	"github.com/barekit/orbitai/pkg/knowledge"
	"github.com/barekit/orbitai/pkg/ledger"
	"github.com/barekit/orbitai/pkg/ledger/inmemory"
	"github.com/barekit/orbitai/pkg/llm"
	"github.com/barekit/orbitai/pkg/metrics"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/preflight"
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/prompt"
	"github.com/barekit/orbitai/pkg/session"
)

// Deployer is the deployment service contract.
type Deployer interface {
	Submit(ctx context.Context, cfg orbit.BackendConfig) (*deploy.Submission, error)
	StartDeployment(ctx context.Context, configID string) (string, error)
	Status(ctx context.Context, deploymentID string) (*deploy.Status, error)
}

// Service owns the session store and every collaborator a turn needs.
type Service struct {
	sessions  *session.Store
	router    *intent.Router
	assembler *assembler.Assembler
	generator llm.Provider
	deployer  Deployer
	ledger    ledger.Ledger
	preflight *preflight.Checker
	glossary  *knowledge.Glossary
	metrics   *metrics.Metrics
	logger    *slog.Logger

	sessionOpts []session.Option
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator sets the text-generation provider, usually an *llm.Chain.
// Without one every reply is the canned question.
func WithGenerator(p llm.Provider) Option {
	return func(s *Service) {
		s.generator = p
	}
}

// WithRouter replaces the default intent router.
func WithRouter(r *intent.Router) Option {
	return func(s *Service) {
		s.router = r
	}
}

// WithAssembler replaces the default config assembler.
func WithAssembler(a *assembler.Assembler) Option {
	return func(s *Service) {
		s.assembler = a
	}
}

// WithDeployer sets the deployment service client.
func WithDeployer(d Deployer) Option {
	return func(s *Service) {
		s.deployer = d
	}
}

// WithLedger sets where deployment events are recorded.
func WithLedger(l ledger.Ledger) Option {
	return func(s *Service) {
		s.ledger = l
	}
}

// WithPreflight enables parent chain checks before each deployment.
func WithPreflight(c *preflight.Checker) Option {
	return func(s *Service) {
		s.preflight = c
	}
}

// WithGlossary sets the concept source for the system instruction.
func WithGlossary(g *knowledge.Glossary) Option {
	return func(s *Service) {
		s.glossary = g
	}
}

// WithMetrics enables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithSessionOptions configures the session store (TTL, clock).
func WithSessionOptions(opts ...session.Option) Option {
	return func(s *Service) {
		s.sessionOpts = append(s.sessionOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service. Missing collaborators get in-process defaults:
// an in-memory ledger and a deployment client for deploy.DefaultBaseURL.
func New(opts ...Option) *Service {
	s := &Service{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.router == nil {
		s.router = intent.NewRouter(intent.WithLogger(s.logger))
	}
	if s.assembler == nil {
		s.assembler = assembler.New()
	}
	if s.deployer == nil {
		s.deployer = deploy.NewClient()
	}
	if s.ledger == nil {
		s.ledger = inmemory.New()
	}

	storeOpts := []session.Option{
		session.WithGreeting(prompt.Greeting()),
		session.WithLogger(s.logger),
		session.WithExpireHook(s.metrics.Expired),
	}
	s.sessions = session.NewStore(append(storeOpts, s.sessionOpts...)...)
	return s
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	s.sessions.Run(ctx, interval)
}

// Presets lists the preset catalog.
func (s *Service) Presets() []preset.Preset {
	return preset.All()
}

// Session returns the state of a live session.
func (s *Service) Session(id string) (*Snapshot, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return snapshot(sess), nil
}

// Reset starts the session over, keeping its id and wallet.
func (s *Service) Reset(id string) *Snapshot {
	sess := s.sessions.Reset(id)
	s.metrics.Sessions(s.sessions.Len())
	s.logger.Info("Session reset", "session_id", sess.ID)

	sess.Lock()
	defer sess.Unlock()
	return snapshot(sess)
}

// Deployments returns the recorded deployment events of a session.
func (s *Service) Deployments(ctx context.Context, sessionID string) ([]ledger.Event, error) {
	return s.ledger.History(ctx, sessionID)
}

func snapshot(sess *session.Session) *Snapshot {
	snap := &Snapshot{
		SessionID:   sess.ID,
		Phase:       sess.Phase,
		CurrentStep: sess.Step,
		Progress:    sess.Progress(),
		Collected:   sess.Values.Snapshot(),
		Deployment:  deployment(sess),
		Messages:    sess.Recent(0),
	}
	if sess.Config != nil {
		b := sess.Config.Backend()
		snap.Config = &b
	}
	return snap
}

func deployment(sess *session.Session) *Deployment {
	if sess.DeploymentID == "" {
		return nil
	}
	return &Deployment{ID: sess.DeploymentID, Status: sess.DeploymentStatus}
}
