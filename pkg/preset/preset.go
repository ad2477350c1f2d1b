// Package preset holds the built-in use-case presets and their recommended defaults.
package preset

import (
	"strings"

	"github.com/barekit/orbitai/pkg/orbit"
)

// Defaults is the bundle of recommended values for every slot except use case and chain name.
// Owner address has no sensible default and is always asked for.
type Defaults struct {
	ParentChain         orbit.ParentChain `json:"parent_chain"`
	DataAvailability    orbit.DAMode      `json:"data_availability"`
	Validators          int               `json:"validators"`
	NativeToken         orbit.NativeToken `json:"native_token"`
	BlockTime           int               `json:"block_time"`
	GasLimit            int64             `json:"gas_limit"`
	ChallengePeriodDays int               `json:"challenge_period_days"`
}

// Preset is an immutable named bundle of defaults.
type Preset struct {
	ID          orbit.UseCase `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Defaults    Defaults      `json:"defaults"`
}

// order fixes the catalog listing order.
var order = []orbit.UseCase{
	orbit.UseCaseGaming,
	orbit.UseCaseDeFi,
	orbit.UseCaseEnterprise,
	orbit.UseCaseNFT,
	orbit.UseCaseGeneral,
}

var catalog = map[orbit.UseCase]Preset{
	orbit.UseCaseGaming: {
		ID:          orbit.UseCaseGaming,
		Name:        "Gaming",
		Description: "Optimized for fast transactions and low latency gaming",
		Icon:        "🎮",
		Defaults: Defaults{
			ParentChain:         orbit.ParentArbitrumSepolia,
			DataAvailability:    orbit.DAAnyTrust,
			Validators:          3,
			NativeToken:         orbit.ETH(),
			BlockTime:           1,
			GasLimit:            50_000_000,
			ChallengePeriodDays: 7,
		},
	},
	orbit.UseCaseDeFi: {
		ID:          orbit.UseCaseDeFi,
		Name:        "DeFi",
		Description: "Maximum security for financial applications",
		Icon:        "💰",
		Defaults: Defaults{
			ParentChain:         orbit.ParentArbitrumSepolia,
			DataAvailability:    orbit.DARollup,
			Validators:          5,
			NativeToken:         orbit.ETH(),
			BlockTime:           2,
			GasLimit:            30_000_000,
			ChallengePeriodDays: 7,
		},
	},
	orbit.UseCaseEnterprise: {
		ID:          orbit.UseCaseEnterprise,
		Name:        "Enterprise",
		Description: "Private chain for business applications",
		Icon:        "🏢",
		Defaults: Defaults{
			ParentChain:         orbit.ParentArbitrumSepolia,
			DataAvailability:    orbit.DAAnyTrust,
			Validators:          5,
			NativeToken:         orbit.ETH(),
			BlockTime:           3,
			GasLimit:            30_000_000,
			ChallengePeriodDays: 14,
		},
	},
	orbit.UseCaseNFT: {
		ID:          orbit.UseCaseNFT,
		Name:        "NFT Platform",
		Description: "Optimized for NFT minting and trading",
		Icon:        "🖼️",
		Defaults: Defaults{
			ParentChain:         orbit.ParentArbitrumSepolia,
			DataAvailability:    orbit.DAAnyTrust,
			Validators:          3,
			NativeToken:         orbit.ETH(),
			BlockTime:           2,
			GasLimit:            40_000_000,
			ChallengePeriodDays: 7,
		},
	},
	orbit.UseCaseGeneral: {
		ID:          orbit.UseCaseGeneral,
		Name:        "General Purpose",
		Description: "Balanced configuration for mixed use cases",
		Icon:        "⚡",
		Defaults: Defaults{
			ParentChain:         orbit.ParentArbitrumSepolia,
			DataAvailability:    orbit.DAAnyTrust,
			Validators:          3,
			NativeToken:         orbit.ETH(),
			BlockTime:           2,
			GasLimit:            30_000_000,
			ChallengePeriodDays: 7,
		},
	},
}

// Get returns the preset for a use case; unknown use cases get the general preset.
func Get(useCase orbit.UseCase) Preset {
	if p, ok := catalog[orbit.UseCase(strings.ToLower(string(useCase)))]; ok {
		return p
	}
	return catalog[orbit.UseCaseGeneral]
}

// Lookup returns the preset for a use case and whether it exists.
func Lookup(useCase orbit.UseCase) (Preset, bool) {
	p, ok := catalog[useCase]
	return p, ok
}

// All returns every preset in catalog order.
func All() []Preset {
	out := make([]Preset, 0, len(order))
	for _, id := range order {
		out = append(out, catalog[id])
	}
	return out
}
