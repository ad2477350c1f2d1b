package extract

import (
	"regexp"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

var (
	testnetTerms = wordPrefix("sepolia", "test")
	mainnetTerms = regexp.MustCompile(`\bone\b|\bmain|\bproduction`)
	novaTerms    = wordPrefix("nova")
)

// ParentChain maps network talk onto a parent chain.
// Anything unrecognized resolves to Arbitrum Sepolia; mainnet is never assumed.
type ParentChain struct{}

func (ParentChain) Slot() slot.Slot { return slot.ParentChain }

func (ParentChain) Extract(message string, ctx Context) (slot.Value, bool) {
	lower := normalize(message)
	switch {
	case testnetTerms.MatchString(lower):
		return slot.ParentChainValue{Chain: orbit.ParentArbitrumSepolia}, true
	case mainnetTerms.MatchString(lower):
		return slot.ParentChainValue{Chain: orbit.ParentArbitrumOne}, true
	case novaTerms.MatchString(lower):
		return slot.ParentChainValue{Chain: orbit.ParentArbitrumNova}, true
	case ctx.Strict:
		return nil, false
	}
	return slot.ParentChainValue{Chain: orbit.ParentArbitrumSepolia}, true
}

// The rollup patterns must be checked before the anytrust ones:
// "full security" and "roll up" must never fall through to a looser match.
var (
	rollupTerms   = []string{"rollup", "roll up", "roll-up", "ethereum da", "full rollup", "full security"}
	anytrustTerms = wordPrefix("anytrust", "any trust", "any-trust", "cheaper", "fast", "dac")
)

// DataAvailability picks rollup or AnyTrust. A bare affirmation takes the preset's mode;
// anything else is ambiguous.
type DataAvailability struct{}

func (DataAvailability) Slot() slot.Slot { return slot.DataAvailability }

func (DataAvailability) Extract(message string, ctx Context) (slot.Value, bool) {
	lower := normalize(message)
	if containsAny(lower, rollupTerms...) {
		return slot.DataAvailabilityValue{Mode: orbit.DARollup}, true
	}
	if anytrustTerms.MatchString(lower) {
		return slot.DataAvailabilityValue{Mode: orbit.DAAnyTrust}, true
	}
	if !ctx.Strict && isAffirmation(lower) {
		return slot.DataAvailabilityValue{Mode: ctx.defaults().DataAvailability}, true
	}
	return nil, false
}
