package assembler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

const owner = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"

func fixedIDs() Option {
	return WithChainIDSource(func() int64 { return 424242 })
}

func fullValues() *slot.Values {
	v := slot.NewValues()
	v.Set(slot.UseCaseValue{UseCase: orbit.UseCaseGaming})
	v.Set(slot.ChainNameValue{Name: "Game Verse"})
	v.Set(slot.ParentChainValue{Chain: orbit.ParentArbitrumNova})
	v.Set(slot.DataAvailabilityValue{Mode: orbit.DARollup})
	v.Set(slot.ValidatorsValue{Count: 4})
	v.Set(slot.OwnerAddressValue{Address: owner})
	v.Set(slot.NativeTokenValue{Token: orbit.CustomToken("GAME")})
	v.Set(slot.BlockTimeValue{Seconds: 2})
	v.Set(slot.GasLimitValue{Limit: 40_000_000})
	v.Set(slot.ChallengePeriodValue{Days: 14})
	return v
}

func TestBuild_NoValues(t *testing.T) {
	a := New(fixedIDs())
	_, err := a.Build(Input{})
	assert.ErrorIs(t, err, ErrNoValues)
	_, err = a.Build(Input{Values: slot.NewValues()})
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestBuild_Full(t *testing.T) {
	c, err := New(fixedIDs()).Build(Input{Values: fullValues()})
	require.NoError(t, err)

	assert.Equal(t, "game-verse", c.Name)
	assert.Equal(t, int64(424242), c.ChainID)
	assert.Equal(t, orbit.ParentArbitrumNova, c.ParentChain)
	assert.Equal(t, owner, c.OwnerAddress)
	assert.Equal(t, orbit.PlaceholderValidators(4), c.Validators)
	assert.Equal(t, orbit.DARollup, c.DataAvailability)
	assert.Equal(t, orbit.UseCaseGaming, c.UseCase)
	assert.Equal(t, "Game Verse", c.ChainConfig.ChainName)
	assert.Equal(t, "GAME", c.ChainConfig.NativeToken.Symbol)
	assert.Equal(t, "https://sequencer-game-verse.example.com", c.ChainConfig.SequencerURL)
	assert.Equal(t, 2, c.ChainConfig.BlockTime)
	assert.Equal(t, int64(40_000_000), c.ChainConfig.GasLimit)
	assert.Equal(t, 14, c.ChainConfig.ChallengePeriodDays)
}

func TestBuild_RoundTripValidates(t *testing.T) {
	c, err := New(fixedIDs()).Build(Input{Values: fullValues()})
	require.NoError(t, err)

	raw, err := json.Marshal(c.Backend())
	require.NoError(t, err)
	var payload orbit.BackendConfig
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, c.Validators, payload.Validators)
	assert.Equal(t, 14*86400, payload.ChallengePeriod)

	ok, errs := Validate(c)
	assert.True(t, ok)
	assert.Empty(t, errs)
}

func TestBuild_FallsBackToPresetDefaults(t *testing.T) {
	v := slot.NewValues()
	v.Set(slot.UseCaseValue{UseCase: orbit.UseCaseEnterprise})

	c, err := New(fixedIDs()).Build(Input{Values: v})
	require.NoError(t, err)
	assert.Equal(t, "orbit-chain-424242", c.Name)
	assert.Equal(t, "Orbit Chain 424242", c.ChainConfig.ChainName)
	assert.Equal(t, orbit.ParentArbitrumSepolia, c.ParentChain)
	assert.Equal(t, orbit.DAAnyTrust, c.DataAvailability)
	assert.Len(t, c.Validators, 5)
	assert.Equal(t, 3, c.ChainConfig.BlockTime)
	assert.Equal(t, 14, c.ChainConfig.ChallengePeriodDays)
	assert.Equal(t, "ETH", c.ChainConfig.NativeToken.Symbol)

	// structurally complete but policy-invalid until an owner is known
	assert.Equal(t, orbit.ZeroAddress, c.OwnerAddress)
	ok, errs := Validate(c)
	assert.False(t, ok)
	assert.Contains(t, errs, "Valid owner address is required")
}

func TestBuild_OwnerFromWallet(t *testing.T) {
	v := slot.NewValues()
	v.Set(slot.ChainNameValue{Name: "x-chain"})

	c, err := New(fixedIDs()).Build(Input{Values: v, Wallet: "0x1234567890ABCDEF1234567890abcdef12345678"})
	require.NoError(t, err)
	assert.Equal(t, "0x1234567890abcdef1234567890abcdef12345678", c.OwnerAddress)
	assert.Equal(t, orbit.UseCaseGeneral, c.UseCase)

	c, err = New(fixedIDs()).Build(Input{Values: v, Wallet: "not-a-wallet"})
	require.NoError(t, err)
	assert.Equal(t, orbit.ZeroAddress, c.OwnerAddress)
}

func TestBuild_ExplicitValidatorsAndStableChainID(t *testing.T) {
	v := fullValues()
	addrs := []string{
		"0x1111111111111111111111111111111111111111",
		"0x2222222222222222222222222222222222222222",
	}
	v.Set(slot.ValidatorsValue{Count: 2, Addresses: addrs})

	calls := 0
	a := New(WithChainIDSource(func() int64 { calls++; return 450000 }))
	c, err := a.Build(Input{Values: v, ChainID: 433333})
	require.NoError(t, err)
	assert.Equal(t, int64(433333), c.ChainID)
	assert.Equal(t, 0, calls)
	assert.Equal(t, addrs, c.Validators)

	c.Validators[0] = "changed"
	rebuilt, err := a.Build(Input{Values: v, ChainID: 433333})
	require.NoError(t, err)
	assert.Equal(t, addrs[0], rebuilt.Validators[0])
}

func TestRandomChainID(t *testing.T) {
	for i := 0; i < 1000; i++ {
		id := RandomChainID()
		require.GreaterOrEqual(t, id, int64(GeneratedChainIDMin))
		require.LessOrEqual(t, id, int64(GeneratedChainIDMax))
	}
}
