// Package assembler turns collected slot values into a Configuration Record.
package assembler

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/slot"
)

// ErrNoValues is returned when nothing has been collected yet.
var ErrNoValues = errors.New("no values collected")

// Generated chain ids are drawn from this band, a subset of the valid range.
const (
	GeneratedChainIDMin = 412000
	GeneratedChainIDMax = 499999
)

// Input is everything Build reads.
type Input struct {
	Values *slot.Values
	// ChainID is reused when non-zero; otherwise one is generated.
	ChainID int64
	// Wallet is the owner when no owner address was collected.
	Wallet string
}

// Assembler builds records. The zero value is not usable; call New.
type Assembler struct {
	chainID func() int64
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithChainIDSource replaces the random chain id generator.
func WithChainIDSource(fn func() int64) Option {
	return func(a *Assembler) {
		a.chainID = fn
	}
}

// New creates an Assembler.
func New(opts ...Option) *Assembler {
	a := &Assembler{chainID: RandomChainID}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RandomChainID draws a chain id from the generated band.
func RandomChainID() int64 {
	return GeneratedChainIDMin + rand.Int64N(GeneratedChainIDMax-GeneratedChainIDMin+1)
}

// Build merges each collected value over the active preset's default and
// returns a new record. It does not validate; see Validate.
func (a *Assembler) Build(in Input) (*orbit.Config, error) {
	v := in.Values
	if v == nil || v.Len() == 0 {
		return nil, ErrNoValues
	}

	useCase := orbit.UseCaseGeneral
	if uc, ok := slot.Lookup[slot.UseCaseValue](v, slot.UseCase); ok {
		useCase = uc.UseCase
	}
	d := preset.Get(useCase).Defaults

	chainID := in.ChainID
	if chainID == 0 {
		chainID = a.chainID()
	}

	name := fmt.Sprintf("orbit-chain-%d", chainID)
	if n, ok := slot.Lookup[slot.ChainNameValue](v, slot.ChainName); ok && n.Name != "" {
		name = n.Name
	}

	parent := orbit.ParentArbitrumSepolia
	if p, ok := slot.Lookup[slot.ParentChainValue](v, slot.ParentChain); ok {
		if pc, valid := orbit.ParseParentChain(string(p.Chain)); valid {
			parent = pc
		}
	}

	da := d.DataAvailability
	if m, ok := slot.Lookup[slot.DataAvailabilityValue](v, slot.DataAvailability); ok {
		if mode, valid := orbit.ParseDAMode(string(m.Mode)); valid {
			da = mode
		}
	}

	validators := orbit.PlaceholderValidators(d.Validators)
	if val, ok := slot.Lookup[slot.ValidatorsValue](v, slot.Validators); ok {
		if len(val.Addresses) > 0 {
			validators = make([]string, len(val.Addresses))
			copy(validators, val.Addresses)
		} else {
			validators = orbit.PlaceholderValidators(val.Count)
		}
	}

	owner := orbit.ZeroAddress
	if o, ok := slot.Lookup[slot.OwnerAddressValue](v, slot.OwnerAddress); ok {
		owner = o.Address
	} else if w, err := orbit.NormalizeAddress(in.Wallet); err == nil {
		owner = w
	}

	token := orbit.ETH()
	if t, ok := slot.Lookup[slot.NativeTokenValue](v, slot.NativeToken); ok {
		token = t.Token
	}

	blockTime := d.BlockTime
	if bt, ok := slot.Lookup[slot.BlockTimeValue](v, slot.BlockTime); ok {
		blockTime = bt.Seconds
	}

	gasLimit := d.GasLimit
	if gl, ok := slot.Lookup[slot.GasLimitValue](v, slot.GasLimit); ok {
		gasLimit = gl.Limit
	}

	challenge := d.ChallengePeriodDays
	if cp, ok := slot.Lookup[slot.ChallengePeriodValue](v, slot.ChallengePeriod); ok {
		challenge = cp.Days
	}

	return &orbit.Config{
		Name:             orbit.URLSafeName(name),
		ChainID:          chainID,
		ParentChain:      parent,
		OwnerAddress:     owner,
		Validators:       validators,
		DataAvailability: da,
		UseCase:          useCase,
		ChainConfig: orbit.ChainConfig{
			ChainName:           orbit.DisplayName(name),
			NativeToken:         token,
			SequencerURL:        orbit.SequencerURL(name),
			BlockTime:           blockTime,
			GasLimit:            gasLimit,
			ChallengePeriodDays: challenge,
		},
	}, nil
}

// Validate checks a built record against the deployment policy.
func Validate(c *orbit.Config) (bool, []string) {
	return orbit.Validate(c)
}
