package orbit

// UseCase is the category of chain the user is building.
type UseCase string

const (
	UseCaseGaming     UseCase = "gaming"
	UseCaseDeFi       UseCase = "defi"
	UseCaseEnterprise UseCase = "enterprise"
	UseCaseNFT        UseCase = "nft"
	UseCaseGeneral    UseCase = "general"
)

// ParentChain is the chain an L3 settles to.
type ParentChain string

const (
	ParentArbitrumSepolia ParentChain = "arbitrum-sepolia"
	ParentArbitrumOne     ParentChain = "arbitrum-one"
	ParentArbitrumNova    ParentChain = "arbitrum-nova"
)

// DAMode is the data availability mode of the chain.
type DAMode string

const (
	DAAnyTrust DAMode = "anytrust"
	DARollup   DAMode = "rollup"
)

// ParseParentChain returns the parent chain for s, or false if s is not a known parent chain.
func ParseParentChain(s string) (ParentChain, bool) {
	switch p := ParentChain(s); p {
	case ParentArbitrumSepolia, ParentArbitrumOne, ParentArbitrumNova:
		return p, true
	}
	return "", false
}

// ParseDAMode returns the DA mode for s, or false if s is not a known mode.
func ParseDAMode(s string) (DAMode, bool) {
	switch m := DAMode(s); m {
	case DAAnyTrust, DARollup:
		return m, true
	}
	return "", false
}

// ParentChainInfo describes a supported parent chain.
type ParentChainInfo struct {
	ID          ParentChain `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	ChainID     uint64      `json:"chain_id"`
}

var parentChains = map[ParentChain]ParentChainInfo{
	ParentArbitrumSepolia: {
		ID:          ParentArbitrumSepolia,
		Name:        "Arbitrum Sepolia",
		Description: "Testnet - recommended for development",
		ChainID:     421614,
	},
	ParentArbitrumOne: {
		ID:          ParentArbitrumOne,
		Name:        "Arbitrum One",
		Description: "Mainnet - for production deployments",
		ChainID:     42161,
	},
	ParentArbitrumNova: {
		ID:          ParentArbitrumNova,
		Name:        "Arbitrum Nova",
		Description: "High-throughput chain with AnyTrust",
		ChainID:     42170,
	},
}

// ParentChainDetails returns info about p, falling back to Arbitrum Sepolia.
func ParentChainDetails(p ParentChain) ParentChainInfo {
	if info, ok := parentChains[p]; ok {
		return info
	}
	return parentChains[ParentArbitrumSepolia]
}

// NativeToken is the gas token of the chain.
type NativeToken struct {
	Name     string `json:"name" validate:"required"`
	Symbol   string `json:"symbol" validate:"required"`
	Decimals int    `json:"decimals" validate:"min=0,max=36"`
}

// ETH is the default native token.
func ETH() NativeToken {
	return NativeToken{Name: "Ether", Symbol: "ETH", Decimals: 18}
}

// CustomToken is the placeholder descriptor for a user-supplied gas token.
func CustomToken(symbol string) NativeToken {
	if symbol == "" {
		symbol = "TOKEN"
	}
	return NativeToken{Name: "Custom", Symbol: symbol, Decimals: 18}
}
