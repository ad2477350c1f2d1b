// Package intent routes a user message to the slot it answers and applies the result
// to the conversation's cursor and collected values.
package intent

import (
	"log/slog"
	"strings"

	"github.com/barekit/orbitai/pkg/extract"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/slot"
)

// Kind is what a routed message turned out to be.
type Kind string

const (
	// KindCasual is chatter; nothing changed.
	KindCasual Kind = "casual"
	// KindGoBack moved the cursor back one slot (or stayed at the first slot).
	KindGoBack Kind = "go_back"
	// KindCrossSlot filled a slot other than the current one; the cursor did not move.
	KindCrossSlot Kind = "cross_slot"
	// KindAnswered filled the current slot and advanced the cursor.
	KindAnswered Kind = "answered"
	// KindUnresolved extracted nothing; the current question must be asked again.
	KindUnresolved Kind = "unresolved"
)

// Turn is the mutable conversation state a message is routed against.
type Turn struct {
	Cursor slot.Slot
	Values *slot.Values
	Wallet string
}

// Outcome describes what Route did.
type Outcome struct {
	Kind Kind
	// Slot is the slot that received Value, for KindAnswered and KindCrossSlot.
	Slot  slot.Slot
	Value slot.Value
	// From is the cursor before the message was routed.
	From slot.Slot
	// Moved is false for a go-back at the first slot.
	Moved bool
	// Propagated lists the slots pre-filled from the preset after a use case was chosen.
	Propagated []slot.Slot
}

// Completed reports whether this message moved the cursor onto Complete.
func (o Outcome) Completed() bool {
	return o.Kind == KindAnswered && o.Slot.Next() == slot.Complete
}

// Router is the slot-filling state machine.
type Router struct {
	extractors *extract.Registry
	signals    []Signal
	logger     *slog.Logger
}

// Option configures a Router.
type Option func(*Router)

// WithExtractors replaces the extractor registry.
func WithExtractors(r *extract.Registry) Option {
	return func(rt *Router) {
		rt.extractors = r
	}
}

// WithSignals replaces the cross-slot signals.
func WithSignals(signals ...Signal) Option {
	return func(rt *Router) {
		rt.signals = signals
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(rt *Router) {
		rt.logger = l
	}
}

// NewRouter creates a Router with the built-in extractors and signals.
func NewRouter(opts ...Option) *Router {
	r := &Router{
		extractors: extract.Default(),
		signals:    DefaultSignals(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route classifies message and applies it to t.
//
// Go-back is checked first, then casual chatter. Otherwise a signal for a
// different slot retargets the message there without moving the cursor;
// if that finds nothing, the current slot's extractor runs and a hit
// advances the cursor.
func (r *Router) Route(t *Turn, message string) Outcome {
	if t.Values == nil {
		t.Values = slot.NewValues()
	}
	if !t.Cursor.Valid() {
		t.Cursor = slot.UseCase
	}
	out := Outcome{From: t.Cursor}

	if IsGoBack(message) {
		prev := t.Cursor.Prev()
		out.Kind = KindGoBack
		out.Moved = prev != t.Cursor
		t.Cursor = prev
		return out
	}

	if IsCasual(message) {
		out.Kind = KindCasual
		return out
	}

	ctx := r.context(t)

	if target, ok := r.foreignSlot(t.Cursor, message); ok {
		strict := ctx
		strict.Strict = true
		if val, ok := r.extractors.Extract(target, message, strict); ok {
			r.logger.Info("Cross-slot answer detected", "slot", target, "current", t.Cursor, "value", val.String())
			t.Values.Set(val)
			out.Kind = KindCrossSlot
			out.Slot = target
			out.Value = val
			return out
		}
		r.logger.Debug("Cross-slot signal without a value", "slot", target, "current", t.Cursor)
	}

	if t.Cursor == slot.Complete {
		out.Kind = KindUnresolved
		return out
	}

	val, ok := r.extractors.Extract(t.Cursor, message, ctx)
	if !ok {
		out.Kind = KindUnresolved
		return out
	}

	t.Values.Set(val)
	out.Kind = KindAnswered
	out.Slot = t.Cursor
	out.Value = val

	if uc, isUseCase := val.(slot.UseCaseValue); isUseCase {
		out.Propagated = PropagateDefaults(t.Values, preset.Get(uc.UseCase))
	}

	t.Cursor = t.Cursor.Next()
	r.logger.Debug("Slot answered", "slot", out.Slot, "value", val.String(), "next", t.Cursor)
	return out
}

func (r *Router) foreignSlot(current slot.Slot, message string) (slot.Slot, bool) {
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, s := range r.signals {
		if s.Slot == current {
			continue
		}
		if s.Match(current, lower) {
			return s.Slot, true
		}
	}
	return "", false
}

func (r *Router) context(t *Turn) extract.Context {
	ctx := extract.Context{Wallet: t.Wallet}
	if uc, ok := slot.Lookup[slot.UseCaseValue](t.Values, slot.UseCase); ok {
		ctx.Preset = preset.Get(uc.UseCase)
	} else {
		ctx.Preset = preset.Get(orbit.UseCaseGeneral)
	}
	return ctx
}

// PropagateDefaults fills every slot the preset covers that the user has not confirmed,
// flagging each as a default. It returns the slots it wrote.
func PropagateDefaults(v *slot.Values, p preset.Preset) []slot.Slot {
	d := p.Defaults
	candidates := []slot.Value{
		slot.ParentChainValue{Chain: d.ParentChain},
		slot.DataAvailabilityValue{Mode: d.DataAvailability},
		slot.ValidatorsValue{Count: d.Validators},
		slot.NativeTokenValue{Token: d.NativeToken},
		slot.BlockTimeValue{Seconds: d.BlockTime},
		slot.GasLimitValue{Limit: d.GasLimit},
		slot.ChallengePeriodValue{Days: d.ChallengePeriodDays},
	}
	var written []slot.Slot
	for _, c := range candidates {
		if v.SetDefault(c) {
			written = append(written, c.Slot())
		}
	}
	return written
}
