package orbit

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chain ID band reserved for generated L3 chains.
const (
	MinChainID = 412000
	MaxChainID = 999999
)

// ChainConfig is the nested chain-detail block of a Config.
type ChainConfig struct {
	ChainName           string      `json:"chain_name"`
	NativeToken         NativeToken `json:"native_token"`
	SequencerURL        string      `json:"sequencer_url,omitempty"`
	BlockTime           int         `json:"block_time" validate:"min=1,max=30"`
	GasLimit            int64       `json:"gas_limit" validate:"min=1000000"`
	ChallengePeriodDays int         `json:"challenge_period_days"`
}

// Config is the assembled configuration record for one Orbit L3 chain.
// A Config is never patched once built; rebuild from the session instead.
type Config struct {
	Name             string      `json:"name" validate:"required"`
	ChainID          int64       `json:"chain_id" validate:"min=412000,max=999999"`
	ParentChain      ParentChain `json:"parent_chain"`
	OwnerAddress     string      `json:"owner_address" validate:"required,eth_addr,ne=0x0000000000000000000000000000000000000000"`
	Validators       []string    `json:"validators" validate:"min=1,dive,eth_addr"`
	DataAvailability DAMode      `json:"data_availability"`
	ChainConfig      ChainConfig `json:"chain_config"`
	UseCase          UseCase     `json:"use_case,omitempty"`

	SequencerAddress   string `json:"sequencer_address,omitempty" validate:"omitempty,eth_addr"`
	BatchPosterAddress string `json:"batch_poster_address,omitempty" validate:"omitempty,eth_addr"`
}

var (
	nameStrip = regexp.MustCompile(`[^a-zA-Z0-9\s-]`)
	nameSpace = regexp.MustCompile(`\s+`)
)

// URLSafeName turns a display name into a lowercase, hyphenated identifier.
// It returns "" when nothing alphanumeric remains.
func URLSafeName(name string) string {
	clean := nameStrip.ReplaceAllString(name, "")
	clean = nameSpace.ReplaceAllString(strings.TrimSpace(clean), "-")
	return strings.Trim(strings.ToLower(clean), "-")
}

// DisplayName renders a chain name for humans: hyphens become spaces and words are title-cased.
func DisplayName(name string) string {
	return TitleCase(strings.ReplaceAll(name, "-", " "))
}

// TitleCase upper-cases the first letter of each space-separated word and lower-cases the rest.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

// SequencerURL derives the sequencer endpoint from the chain name.
func SequencerURL(chainName string) string {
	clean := strings.ToLower(chainName)
	clean = strings.NewReplacer(" ", "-", "_", "-").Replace(clean)
	return fmt.Sprintf("https://sequencer-%s.example.com", clean)
}

// BackendToken is the native token block of the backend payload.
type BackendToken struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// BackendConfig is the shape the deployment service accepts.
type BackendConfig struct {
	Name               string       `json:"name"`
	ChainID            int64        `json:"chainId"`
	ParentChain        string       `json:"parentChain"`
	Description        string       `json:"description"`
	OwnerAddress       string       `json:"ownerAddress"`
	SequencerAddress   string       `json:"sequencerAddress"`
	BatchPosterAddress string       `json:"batchPosterAddress"`
	Validators         []string     `json:"validators"`
	DataAvailability   string       `json:"dataAvailability"`
	ChallengePeriod    int          `json:"challengePeriod"`
	L2GasPrice         string       `json:"l2GasPrice"`
	L1GasPrice         string       `json:"l1GasPrice"`
	NativeToken        BackendToken `json:"nativeToken"`
	BlockTime          int          `json:"blockTime"`
	GasLimit           int64        `json:"gasLimit"`
}

// Backend converts the record to the deployment service payload.
// The sequencer and batch poster default to the owner.
func (c *Config) Backend() BackendConfig {
	sequencer := c.SequencerAddress
	if sequencer == "" {
		sequencer = c.OwnerAddress
	}
	batchPoster := c.BatchPosterAddress
	if batchPoster == "" {
		batchPoster = sequencer
	}
	useCase := string(c.UseCase)
	if useCase == "" {
		useCase = string(UseCaseGeneral)
	}

	validators := make([]string, len(c.Validators))
	copy(validators, c.Validators)

	return BackendConfig{
		Name:               c.ChainConfig.ChainName,
		ChainID:            c.ChainID,
		ParentChain:        string(c.ParentChain),
		Description:        fmt.Sprintf("L3 chain for %s use case", useCase),
		OwnerAddress:       c.OwnerAddress,
		SequencerAddress:   sequencer,
		BatchPosterAddress: batchPoster,
		Validators:         validators,
		DataAvailability:   string(c.DataAvailability),
		ChallengePeriod:    c.ChainConfig.ChallengePeriodDays * 86400,
		L2GasPrice:         "0.1",
		L1GasPrice:         "10",
		NativeToken: BackendToken{
			Name:     c.ChainConfig.NativeToken.Name,
			Symbol:   c.ChainConfig.NativeToken.Symbol,
			Decimals: c.ChainConfig.NativeToken.Decimals,
		},
		BlockTime: c.ChainConfig.BlockTime,
		GasLimit:  c.ChainConfig.GasLimit,
	}
}

// Summary renders the review box shown before deployment.
func (c *Config) Summary() string {
	owner := c.OwnerAddress
	if len(owner) == 42 {
		owner = owner[:10] + "..." + owner[36:]
	}
	lines := []string{
		"┌─────────────────────────────────────────┐",
		fmt.Sprintf("│  %s L3 Chain", c.ChainConfig.ChainName),
		"├─────────────────────────────────────────┤",
		fmt.Sprintf("│  Chain ID:        %s", groupThousands(c.ChainID)),
		fmt.Sprintf("│  Parent Chain:    %s", ParentChainDetails(c.ParentChain).Name),
		fmt.Sprintf("│  DA Mode:         %s", TitleCase(string(c.DataAvailability))),
		fmt.Sprintf("│  Block Time:      %d second(s)", c.ChainConfig.BlockTime),
		fmt.Sprintf("│  Gas Limit:       %s", groupThousands(c.ChainConfig.GasLimit)),
		fmt.Sprintf("│  Validators:      %d", len(c.Validators)),
		fmt.Sprintf("│  Native Token:    %s", c.ChainConfig.NativeToken.Symbol),
		fmt.Sprintf("│  Challenge Period: %d days", c.ChainConfig.ChallengePeriodDays),
		fmt.Sprintf("│  Owner:           %s", owner),
		"└─────────────────────────────────────────┘",
	}
	return strings.Join(lines, "\n")
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
