package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barekit/orbitai/pkg/assembler"
	"github.com/barekit/orbitai/pkg/deploy"
	"github.com/barekit/orbitai/pkg/ledger"
	"github.com/barekit/orbitai/pkg/ledger/inmemory"
	"github.com/barekit/orbitai/pkg/llm"
	"github.com/barekit/orbitai/pkg/metrics"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/preflight"
	"github.com/barekit/orbitai/pkg/prompt"
	"github.com/barekit/orbitai/pkg/session"
	"github.com/barekit/orbitai/pkg/slot"
)

const wallet = "0x9999999999999999999999999999999999999999"

var script = []string{
	"an NFT marketplace",
	"Pixel Bazaar",
	"sepolia",
	"anytrust",
	"4",
	"use my wallet",
	"ETH",
	"2 seconds",
	"40 million",
	"one week",
}

type fakeGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
	last  []llm.Message
}

func (f *fakeGenerator) Chat(ctx context.Context, msgs []llm.Message) (*llm.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = msgs
	if f.err != nil {
		return nil, f.err
	}
	m := llm.Assistant(f.reply)
	return &m, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(opts ...Option) *Service {
	base := []Option{
		WithLogger(quietLogger()),
		WithAssembler(assembler.New(assembler.WithChainIDSource(func() int64 { return 412345 }))),
	}
	return New(append(base, opts...)...)
}

func walk(t *testing.T, s *Service, id string) *Reply {
	t.Helper()
	var r *Reply
	var err error
	for _, msg := range script {
		r, err = s.Submit(context.Background(), SubmitRequest{SessionID: id, Message: msg, WalletAddress: wallet})
		require.NoError(t, err, msg)
	}
	return r
}

func TestSubmit_NewSession(t *testing.T) {
	s := newService()

	r, err := s.Submit(context.Background(), SubmitRequest{Message: "hi"})
	require.NoError(t, err)
	assert.Len(t, r.SessionID, 36)
	assert.Equal(t, session.PhaseGreeting, r.Phase)
	assert.Equal(t, slot.UseCase, r.CurrentStep)
	assert.Equal(t, prompt.Greeting(), r.Message)
	assert.Len(t, r.QuickActions, 5)
	assert.Nil(t, r.Config)

	snap, err := s.Session(r.SessionID)
	require.NoError(t, err)
	require.Len(t, snap.Messages, 3)
	assert.Equal(t, session.RoleAssistant, snap.Messages[0].Role)
	assert.Equal(t, prompt.Greeting(), snap.Messages[0].Content)
	assert.Equal(t, "hi", snap.Messages[1].Content)
}

func TestSubmit_EmptyMessage(t *testing.T) {
	_, err := newService().Submit(context.Background(), SubmitRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestSubmit_PhasesThroughReview(t *testing.T) {
	s := newService()
	ctx := context.Background()

	r, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "an NFT marketplace", WalletAddress: wallet})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseConfiguration, r.Phase)
	assert.Equal(t, slot.ChainName, r.CurrentStep)
	assert.Equal(t, "nft", r.Collected["use_case"])
	assert.Len(t, r.Defaults, 7)

	r = walk(t, s, "s2")
	assert.Equal(t, session.PhaseReview, r.Phase)
	assert.Equal(t, slot.Complete, r.CurrentStep)
	assert.Equal(t, 100, r.Progress.Percentage)
	assert.True(t, strings.HasPrefix(r.Message, "Here's the full configuration for Pixel Bazaar"), r.Message)
	assert.NotContains(t, r.Message, "Before deploying")
	require.NotNil(t, r.Config)
	assert.Equal(t, int64(412345), r.Config.ChainID)
	assert.Equal(t, wallet, r.Config.OwnerAddress)
	assert.Len(t, r.Config.Validators, 4)
	assert.Nil(t, r.QuickActions)
}

func TestSubmit_EditDuringReview(t *testing.T) {
	s := newService()
	walk(t, s, "s1")

	r, err := s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "actually put it on mainnet"})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseReview, r.Phase)
	assert.True(t, strings.HasPrefix(r.Message, "Got it, parent chain set to arbitrum-one."), r.Message)
	require.NotNil(t, r.Config)
	assert.Equal(t, "arbitrum-one", r.Config.ParentChain)
	assert.Equal(t, int64(412345), r.Config.ChainID)

	r, err = s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "go back"})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseConfiguration, r.Phase)
	assert.Equal(t, slot.ChallengePeriod, r.CurrentStep)
	assert.True(t, strings.HasPrefix(r.Message, "No problem! Let's go back."))
	assert.Nil(t, r.Config)
}

func TestSubmit_UsesGenerator(t *testing.T) {
	gen := &fakeGenerator{reply: "  Love it! What should we call it?  "}
	s := newService(WithGenerator(gen))
	ctx := context.Background()

	_, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "hello"})
	require.NoError(t, err)
	r, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "a gaming chain"})
	require.NoError(t, err)

	assert.Equal(t, "Love it! What should we call it?", r.Message)
	assert.Equal(t, 2, gen.calls)

	msgs := gen.last
	require.NotEmpty(t, msgs)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "use_case: gaming")
	// greeting, "hello" and its reply; the current message is not history
	history := msgs[1+len(prompt.FewShot()) : len(msgs)-2]
	require.Len(t, history, 3)
	assert.Equal(t, prompt.Greeting(), history[0].Content)
	assert.Equal(t, llm.User("a gaming chain"), msgs[len(msgs)-2])
	assert.Contains(t, msgs[len(msgs)-1].Content, "'chain_name'")
}

func TestSubmit_BackfillHint(t *testing.T) {
	gen := &fakeGenerator{reply: "Mainnet it is."}
	s := newService(WithGenerator(gen))
	ctx := context.Background()

	_, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "gaming"})
	require.NoError(t, err)
	r, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "actually put it on mainnet"})
	require.NoError(t, err)
	assert.Equal(t, slot.ChainName, r.CurrentStep)
	assert.Contains(t, gen.last[len(gen.last)-1].Content, "'parent_chain' with arbitrum-one")
}

func TestSubmit_FallsBackToCannedQuestion(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	gen := &fakeGenerator{err: errors.New("rate limited")}
	s := newService(WithGenerator(gen), WithMetrics(m))
	ctx := context.Background()

	_, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "gaming"})
	require.NoError(t, err)
	r, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "put it on mainnet"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.Message, "Got it, parent chain set to arbitrum-one.\n\n"), r.Message)
	assert.Contains(t, r.Message, "What would you like to call your chain?")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("canned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("answered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns.WithLabelValues("cross_slot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LiveSessions))
}

func TestSubmit_GoBackIsCanned(t *testing.T) {
	gen := &fakeGenerator{reply: "generated"}
	s := newService(WithGenerator(gen))

	r, err := s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "go back"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.Message, "We're already at the first step."))
	assert.Equal(t, 0, gen.calls)
}

func TestSubmit_SerializesTurns(t *testing.T) {
	s := newService()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(context.Background(), SubmitRequest{SessionID: "busy", Message: "hi"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	snap, err := s.Session("busy")
	require.NoError(t, err)
	require.Len(t, snap.Messages, 41)
	for i := 1; i < len(snap.Messages); i += 2 {
		assert.Equal(t, session.RoleUser, snap.Messages[i].Role)
		assert.Equal(t, session.RoleAssistant, snap.Messages[i+1].Role)
	}
}

func TestSession_NotFoundAndReset(t *testing.T) {
	s := newService()
	_, err := s.Session("missing")
	assert.ErrorIs(t, err, session.ErrNotFound)

	walk(t, s, "s1")
	first := s.Reset("s1")
	second := s.Reset("s1")
	for _, snap := range []*Snapshot{first, second} {
		assert.Equal(t, "s1", snap.SessionID)
		assert.Equal(t, session.PhaseGreeting, snap.Phase)
		assert.Equal(t, slot.UseCase, snap.CurrentStep)
		assert.Empty(t, snap.Collected)
		require.Len(t, snap.Messages, 1)
		assert.Equal(t, prompt.Greeting(), snap.Messages[0].Content)
	}
	assert.NotEqual(t, first.Messages[0].ID, second.Messages[0].ID)
}

func TestSubmit_ExpiredSessionIsRecreated(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	s := newService(WithSessionOptions(session.WithClock(clock), session.WithTTL(time.Hour)))

	_, err := s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "gaming"})
	require.NoError(t, err)

	mu.Lock()
	now = now.Add(2 * time.Hour)
	mu.Unlock()

	_, err = s.Session("s1")
	assert.ErrorIs(t, err, session.ErrNotFound)

	r, err := s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "s1", r.SessionID)
	assert.Equal(t, slot.UseCase, r.CurrentStep)
	assert.Empty(t, r.Collected)
}

type backend struct {
	srv      *httptest.Server
	mu       sync.Mutex
	saves    int
	status   string
	rejectAt string
}

func newBackend(t *testing.T) *backend {
	b := &backend{status: deploy.StatusInProgress}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/orbit/config", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.saves++
		if b.rejectAt == "config" {
			http.Error(w, "invalid config", http.StatusUnprocessableEntity)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"configId":"cfg-1"}`))
	})
	mux.HandleFunc("POST /api/orbit/deploy", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"deploymentId":"dep-1"}`))
	})
	mux.HandleFunc("GET /api/orbit/deploy/status/dep-1", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"` + b.status + `","progress":50}`))
	})
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) client() *deploy.Client {
	return deploy.NewClient(deploy.WithBaseURL(b.srv.URL))
}

func TestDeploy_Incomplete(t *testing.T) {
	s := newService()
	_, err := s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "hi"})
	require.NoError(t, err)

	_, err = s.Deploy(context.Background(), DeployRequest{SessionID: "s1"})
	assert.ErrorIs(t, err, ErrConfigIncomplete)

	_, err = s.Deploy(context.Background(), DeployRequest{SessionID: "missing"})
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDeploy_InvalidConfig(t *testing.T) {
	s := newService()
	_, err := s.Submit(context.Background(), SubmitRequest{SessionID: "s1", Message: "gaming"})
	require.NoError(t, err)

	_, err = s.Deploy(context.Background(), DeployRequest{SessionID: "s1"})
	require.ErrorIs(t, err, ErrInvalidConfig)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Problems, "Valid owner address is required")
}

func TestDeploy_AndFollowStatus(t *testing.T) {
	b := newBackend(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	led := inmemory.New()
	s := newService(WithDeployer(b.client()), WithLedger(led), WithMetrics(m))
	ctx := context.Background()
	walk(t, s, "s1")

	res, err := s.Deploy(ctx, DeployRequest{SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, &DeployResult{
		DeploymentID: "dep-1",
		ConfigID:     "cfg-1",
		Status:       "started",
		Message:      "Deployment initiated for Pixel Bazaar",
	}, res)

	snap, err := s.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, session.PhaseDeploying, snap.Phase)
	assert.Equal(t, &Deployment{ID: "dep-1", Status: "started"}, snap.Deployment)

	st, err := s.DeployStatus(ctx, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, deploy.StatusInProgress, st.Status)

	b.mu.Lock()
	b.status = deploy.StatusCompleted
	b.mu.Unlock()
	_, err = s.DeployStatus(ctx, "dep-1")
	require.NoError(t, err)

	snap, err = s.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, session.PhaseDeployed, snap.Phase)
	assert.Equal(t, "completed", snap.Deployment.Status)

	events, err := s.Deployments(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, ledger.KindSubmitted, events[0].Kind)
	assert.Equal(t, "cfg-1", events[0].ConfigID)
	assert.Equal(t, ledger.KindStatus, events[2].Kind)
	assert.Equal(t, deploy.StatusCompleted, events[2].Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DeploySubmissions.WithLabelValues("submitted")))

	// a turn does not leave the deployed phase
	r, err := s.Submit(ctx, SubmitRequest{SessionID: "s1", Message: "thanks!"})
	require.NoError(t, err)
	assert.Equal(t, session.PhaseDeployed, r.Phase)
}

func TestDeploy_Rejected(t *testing.T) {
	b := newBackend(t)
	b.rejectAt = "config"
	led := inmemory.New()
	s := newService(WithDeployer(b.client()), WithLedger(led))
	walk(t, s, "s1")

	_, err := s.Deploy(context.Background(), DeployRequest{SessionID: "s1"})
	var apiErr *deploy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)

	snap, err := s.Session("s1")
	require.NoError(t, err)
	assert.Equal(t, session.PhaseReview, snap.Phase)
	assert.Nil(t, snap.Deployment)

	events, err := led.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ledger.KindRejected, events[0].Kind)
	assert.Contains(t, events[0].Error, "invalid config")
}

func TestDeploy_ReusesConfigID(t *testing.T) {
	b := newBackend(t)
	s := newService(WithDeployer(b.client()))
	walk(t, s, "s1")

	res, err := s.Deploy(context.Background(), DeployRequest{SessionID: "s1", ConfigID: "cfg-7"})
	require.NoError(t, err)
	assert.Equal(t, "cfg-7", res.ConfigID)
	assert.Equal(t, "dep-1", res.DeploymentID)
	assert.Equal(t, 0, b.saves)
}

func TestDeploy_PreflightFailure(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := dead.URL
	dead.Close()

	b := newBackend(t)
	checker := preflight.NewChecker(map[orbit.ParentChain]string{orbit.ParentArbitrumSepolia: url}).WithTimeout(time.Second)
	s := newService(WithDeployer(b.client()), WithPreflight(checker))
	walk(t, s, "s1")

	_, err := s.Deploy(context.Background(), DeployRequest{SessionID: "s1"})
	require.ErrorIs(t, err, ErrPreflightFailed)
	var perr *PreflightError
	require.True(t, errors.As(err, &perr))
	assert.False(t, perr.Report.OK)
	assert.Equal(t, 0, b.saves)
}

func TestDeployStatus_UnknownDeployment(t *testing.T) {
	b := newBackend(t)
	s := newService(WithDeployer(b.client()))

	_, err := s.DeployStatus(context.Background(), "nope")
	assert.ErrorIs(t, err, deploy.ErrNotFound)
}
