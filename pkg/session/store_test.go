package session

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barekit/orbitai/pkg/slot"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(clock *fakeClock, opts ...Option) *Store {
	base := []Option{
		WithClock(clock.Now),
		WithTTL(time.Hour),
		WithGreeting("What are you building?"),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewStore(append(base, opts...)...)
}

func TestGetOrCreate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newTestStore(clock)

	s, created := store.GetOrCreate("abc", "user-1", "")
	require.True(t, created)
	assert.Equal(t, "abc", s.ID)
	assert.Equal(t, PhaseGreeting, s.Phase)
	assert.Equal(t, slot.UseCase, s.Step)
	require.Len(t, s.Messages, 1)
	assert.Equal(t, RoleAssistant, s.Messages[0].Role)
	assert.Equal(t, "What are you building?", s.Messages[0].Content)

	again, created := store.GetOrCreate("abc", "", "0x1111111111111111111111111111111111111111")
	assert.False(t, created)
	assert.Same(t, s, again)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", again.WalletAddress)
	assert.Equal(t, "user-1", again.UserID)

	fresh, created := store.GetOrCreate("", "", "")
	assert.True(t, created)
	assert.Len(t, fresh.ID, 36)
}

func TestGetNotFound(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})
	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTTLExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	var expired int
	store := newTestStore(clock, WithExpireHook(func(n int) { expired += n }))

	s, _ := store.GetOrCreate("abc", "", "")
	s.Values.Set(slot.UseCaseValue{UseCase: "gaming"})

	clock.Advance(59 * time.Minute)
	_, err := store.Get("abc")
	require.NoError(t, err, "fetch touches the session")

	clock.Advance(59 * time.Minute)
	_, err = store.Get("abc")
	require.NoError(t, err)

	clock.Advance(61 * time.Minute)
	_, err = store.Get("abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 0, store.Len())

	// addressing the same id again transparently creates a clean session
	again, created := store.GetOrCreate("abc", "", "")
	assert.True(t, created)
	assert.Equal(t, "abc", again.ID)
	assert.False(t, again.Values.Has(slot.UseCase))
}

func TestReset(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	store := newTestStore(clock)
	wallet := "0x2222222222222222222222222222222222222222"

	s, _ := store.GetOrCreate("abc", "user-1", wallet)
	s.Step = slot.GasLimit
	s.Phase = PhaseConfiguration
	s.AddMessage(RoleUser, "hello there")

	clock.Advance(time.Second)
	first := store.Reset("abc")
	clock.Advance(time.Second)
	second := store.Reset("abc")

	for _, r := range []*Session{first, second} {
		assert.Equal(t, "abc", r.ID)
		assert.Equal(t, "user-1", r.UserID)
		assert.Equal(t, wallet, r.WalletAddress)
		assert.Equal(t, PhaseGreeting, r.Phase)
		assert.Equal(t, slot.UseCase, r.Step)
		require.Len(t, r.Messages, 1)
		assert.Equal(t, 0, r.Values.Len())
	}
	assert.Equal(t, first.Messages[0].Content, second.Messages[0].Content)
	assert.NotEqual(t, first.Messages[0].ID, second.Messages[0].ID)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	got, err := store.Get("abc")
	require.NoError(t, err)
	assert.Same(t, second, got)

	unknown := store.Reset("never-seen")
	assert.Equal(t, "never-seen", unknown.ID)
}

func TestRecentAndProgress(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})
	s, _ := store.GetOrCreate("abc", "", "")
	for i := 0; i < 12; i++ {
		s.AddMessage(RoleUser, "msg")
	}
	assert.Len(t, s.Recent(10), 10)
	assert.Len(t, s.Recent(0), 13)
	assert.Equal(t, s.Messages[12].ID, s.Recent(10)[9].ID)

	s.Step = slot.Validators
	assert.Equal(t, 40, s.Progress().Percentage)
}

func TestRunSweeps(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	swept := make(chan int, 1)
	store := newTestStore(clock, WithExpireHook(func(n int) {
		select {
		case swept <- n:
		default:
		}
	}))
	store.GetOrCreate("abc", "", "")
	clock.Advance(2 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go store.Run(ctx, 5*time.Millisecond)

	select {
	case n := <-swept:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("background sweep did not run")
	}
}

func TestTurnLockSerializes(t *testing.T) {
	store := newTestStore(&fakeClock{now: time.Now()})
	s, _ := store.GetOrCreate("abc", "", "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Lock()
			defer s.Unlock()
			s.AddMessage(RoleUser, "x")
		}()
	}
	wg.Wait()
	assert.Len(t, s.Messages, 51)
}
