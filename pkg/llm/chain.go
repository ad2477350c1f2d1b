package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// DefaultTimeout bounds each provider call made by a Chain.
const DefaultTimeout = 20 * time.Second

type member struct {
	name     string
	provider Provider
}

// Chain tries providers in order and returns the first non-empty reply.
// Each attempt gets its own timeout.
type Chain struct {
	members    []member
	timeout    time.Duration
	logger     *slog.Logger
	onFallback func(name string, err error)
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithProvider appends a provider. Nil providers are skipped so optional
// providers can be passed unconditionally.
func WithProvider(name string, p Provider) ChainOption {
	return func(c *Chain) {
		if p != nil {
			c.members = append(c.members, member{name: name, provider: p})
		}
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) ChainOption {
	return func(c *Chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		c.logger = l
	}
}

// WithFallbackHook is called every time a provider fails and the chain moves on.
func WithFallbackHook(fn func(name string, err error)) ChainOption {
	return func(c *Chain) {
		c.onFallback = fn
	}
}

// NewChain creates a Chain.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Len is the number of configured providers.
func (c *Chain) Len() int { return len(c.members) }

// Names lists the configured providers in call order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.members))
	for i, m := range c.members {
		names[i] = m.name
	}
	return names
}

// Chat implements Provider.
func (c *Chain) Chat(ctx context.Context, messages []Message) (*Message, error) {
	if len(c.members) == 0 {
		return nil, ErrNoProvider
	}

	var errs []error
	for _, m := range c.members {
		reply, err := c.call(ctx, m, messages)
		if err == nil {
			return reply, nil
		}
		c.logger.Error("Text generation failed", "provider", m.name, "error", err)
		if c.onFallback != nil {
			c.onFallback(m.name, err)
		}
		errs = append(errs, fmt.Errorf("%s: %w", m.name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.Join(errs...)
}

func (c *Chain) call(ctx context.Context, m member, messages []Message) (*Message, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := m.provider.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	if reply == nil || strings.TrimSpace(reply.Content) == "" {
		return nil, ErrEmptyResponse
	}
	return reply, nil
}
