package assistant

import (
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/slot"
)

// quickActions suggests replies for slots with a small closed set of answers.
func quickActions(step slot.Slot) []QuickAction {
	switch step {
	case slot.UseCase:
		presets := preset.All()
		out := make([]QuickAction, 0, len(presets))
		for _, p := range presets {
			out = append(out, QuickAction{Label: p.Icon + " " + p.Name, Value: string(p.ID)})
		}
		return out
	case slot.ParentChain:
		return []QuickAction{
			{Label: "Arbitrum Sepolia (testnet)", Value: "testnet"},
			{Label: "Arbitrum One (mainnet)", Value: "mainnet"},
			{Label: "Arbitrum Nova", Value: "nova"},
		}
	case slot.DataAvailability:
		return []QuickAction{
			{Label: "AnyTrust (cheaper)", Value: "anytrust"},
			{Label: "Rollup (most secure)", Value: "rollup"},
		}
	case slot.NativeToken:
		return []QuickAction{
			{Label: "Use ETH", Value: "ETH"},
		}
	}
	return nil
}
