package extract

import (
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

// WalletPhrases are the ways a user asks to use the connected wallet.
var WalletPhrases = []string{
	"my wallet", "connected wallet", "use my", "my address",
	"current wallet", "this wallet", "same wallet",
}

// OwnerAddress resolves the chain owner from an address literal, or the connected wallet
// when the user asks for it.
// There is no default: without a valid address the question is asked again.
type OwnerAddress struct{}

func (OwnerAddress) Slot() slot.Slot { return slot.OwnerAddress }

func (OwnerAddress) Extract(message string, ctx Context) (slot.Value, bool) {
	if raw := addressInText.FindString(message); raw != "" {
		if addr, err := orbit.NormalizeAddress(raw); err == nil {
			return slot.OwnerAddressValue{Address: addr}, true
		}
	}

	if !HasWalletIntent(message) {
		return nil, false
	}
	addr, err := orbit.NormalizeAddress(ctx.Wallet)
	if err != nil {
		return nil, false
	}
	return slot.OwnerAddressValue{Address: addr}, true
}

// HasWalletIntent reports whether message asks for the connected wallet.
func HasWalletIntent(message string) bool {
	return containsAny(normalize(message), WalletPhrases...)
}
