// Package extract turns free-text messages into typed slot values.
//
// Every slot has its own Extractor so a heuristic can be replaced without
// touching the router. Extractors never mutate their inputs, and "no value"
// is reported as (nil, false), never as an error.
package extract

import (
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/slot"
)

// Context is the read-only session state an extractor may consult.
type Context struct {
	// Preset is the active preset; the zero value means the general preset.
	Preset preset.Preset
	// Wallet is the address bound to the session, if any.
	Wallet string
	// Strict disables every fallback to a preset default, so only an
	// explicit answer produces a value. Used when a message is retargeted
	// to a slot other than the one being asked.
	Strict bool
}

func (c Context) defaults() preset.Defaults {
	if c.Preset.ID == "" {
		return preset.Get("").Defaults
	}
	return c.Preset.Defaults
}

// Extractor parses a message into a value for one slot.
type Extractor interface {
	Slot() slot.Slot
	Extract(message string, ctx Context) (slot.Value, bool)
}

// Registry dispatches extraction to the extractor registered for a slot.
type Registry struct {
	extractors map[slot.Slot]Extractor
}

// NewRegistry builds a registry holding the given extractors.
// Later registrations for the same slot replace earlier ones.
func NewRegistry(extractors ...Extractor) *Registry {
	r := &Registry{extractors: make(map[slot.Slot]Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

// Default returns a registry with the built-in extractor for every slot.
func Default() *Registry {
	return NewRegistry(
		UseCase{},
		ChainName{},
		ParentChain{},
		DataAvailability{},
		Validators{},
		OwnerAddress{},
		NativeToken{},
		BlockTime{},
		GasLimit{},
		ChallengePeriod{},
	)
}

// Register installs e for its slot.
func (r *Registry) Register(e Extractor) {
	r.extractors[e.Slot()] = e
}

// Extract runs the extractor for s. Unknown slots and Complete yield no value.
func (r *Registry) Extract(s slot.Slot, message string, ctx Context) (slot.Value, bool) {
	e, ok := r.extractors[s]
	if !ok {
		return nil, false
	}
	return e.Extract(message, ctx)
}
