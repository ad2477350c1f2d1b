package orbit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Name:             "gameverse",
		ChainID:          412345,
		ParentChain:      ParentArbitrumSepolia,
		OwnerAddress:     "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
		Validators:       PlaceholderValidators(3),
		DataAvailability: DAAnyTrust,
		UseCase:          UseCaseGaming,
		ChainConfig: ChainConfig{
			ChainName:           "Gameverse",
			NativeToken:         ETH(),
			SequencerURL:        SequencerURL("gameverse"),
			BlockTime:           1,
			GasLimit:            50_000_000,
			ChallengePeriodDays: 7,
		},
	}
}

func TestNormalizeAddress(t *testing.T) {
	got, err := NormalizeAddress("0xABCDEFabcdefABCDEFabcdefABCDEFabcdefABCD")
	require.NoError(t, err)
	assert.Equal(t, "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd", got)

	bad := []string{
		"",
		"abcdefabcdefabcdefabcdefabcdefabcdefabcd",
		"0xabc",
		"0xabcdefabcdefabcdefabcdefabcdefabcdefabcd0",
		"0xgbcdefabcdefabcdefabcdefabcdefabcdefabcd",
		"0Xabcdefabcdefabcdefabcdefabcdefabcdefabcd",
	}
	for _, s := range bad {
		_, err := NormalizeAddress(s)
		assert.ErrorIs(t, err, ErrInvalidAddress, s)
	}
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, IsZeroAddress(ZeroAddress))
	assert.False(t, IsZeroAddress("0x1111111111111111111111111111111111111111"))
	assert.False(t, IsZeroAddress("not-an-address"))
}

func TestPlaceholderValidators(t *testing.T) {
	got := PlaceholderValidators(17)
	require.Len(t, got, 17)
	assert.Equal(t, "0x1111111111111111111111111111111111111111", got[0])
	assert.Equal(t, "0xffffffffffffffffffffffffffffffffffffffff", got[14])
	assert.Equal(t, "0x1010101010101010101010101010101010101010", got[15])
	for _, addr := range got {
		assert.True(t, IsValidAddress(addr), addr)
	}
	assert.Equal(t, got[:3], PlaceholderValidators(3))
}

func TestURLSafeName(t *testing.T) {
	assert.Equal(t, "game-verse", URLSafeName("Game Verse"))
	assert.Equal(t, "my-chain", URLSafeName("  My   Chain!! "))
	assert.Equal(t, "", URLSafeName("!!!"))
	assert.Equal(t, "Game Verse", DisplayName("game-verse"))
}

func TestSequencerURL(t *testing.T) {
	assert.Equal(t, "https://sequencer-game-verse.example.com", SequencerURL("Game Verse"))
	assert.Equal(t, "https://sequencer-my-chain.example.com", SequencerURL("my_chain"))
}

func TestValidate_OK(t *testing.T) {
	ok, errs := Validate(validConfig())
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	c := validConfig()
	c.Name = ""
	c.OwnerAddress = ZeroAddress
	c.Validators = nil
	c.ChainConfig.BlockTime = 45
	c.ChainConfig.GasLimit = 500

	ok, errs := Validate(c)
	assert.False(t, ok)
	assert.ElementsMatch(t, []string{
		"Chain name is required",
		"Valid owner address is required",
		"At least 1 validator is required",
		"Block time must be between 1-30 seconds",
		"Gas limit too low",
	}, errs)
}

func TestValidate_BadValidatorAddress(t *testing.T) {
	c := validConfig()
	c.Validators = []string{"0x123"}
	ok, errs := Validate(c)
	assert.False(t, ok)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Invalid validator address")
}

func TestValidate_Nil(t *testing.T) {
	ok, errs := Validate(nil)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)
}

func TestBackend(t *testing.T) {
	c := validConfig()
	b := c.Backend()

	assert.Equal(t, "Gameverse", b.Name)
	assert.Equal(t, int64(412345), b.ChainID)
	assert.Equal(t, "arbitrum-sepolia", b.ParentChain)
	assert.Equal(t, "L3 chain for gaming use case", b.Description)
	assert.Equal(t, c.OwnerAddress, b.SequencerAddress)
	assert.Equal(t, c.OwnerAddress, b.BatchPosterAddress)
	assert.Equal(t, 7*86400, b.ChallengePeriod)
	assert.Equal(t, "ETH", b.NativeToken.Symbol)

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"chainId", "parentChain", "ownerAddress", "dataAvailability", "nativeToken", "gasLimit"} {
		assert.Contains(t, fields, key)
	}

	// the payload owns its validator slice
	b.Validators[0] = "changed"
	assert.NotEqual(t, "changed", c.Validators[0])
}

func TestSummary(t *testing.T) {
	s := validConfig().Summary()
	assert.Contains(t, s, "Gameverse L3 Chain")
	assert.Contains(t, s, "412,345")
	assert.Contains(t, s, "50,000,000")
	assert.Contains(t, s, "Arbitrum Sepolia")
	assert.Contains(t, s, "Anytrust")
	assert.Contains(t, s, "0xabcdefab...efabcd")
}

func TestParse(t *testing.T) {
	p, ok := ParseParentChain("arbitrum-nova")
	assert.True(t, ok)
	assert.Equal(t, ParentArbitrumNova, p)
	_, ok = ParseParentChain("ethereum")
	assert.False(t, ok)

	m, ok := ParseDAMode("rollup")
	assert.True(t, ok)
	assert.Equal(t, DARollup, m)
	_, ok = ParseDAMode("celestia")
	assert.False(t, ok)

	assert.Equal(t, uint64(421614), ParentChainDetails("unknown").ChainID)
}
