package slot

import (
	"fmt"
	"strings"

	"github.com/barekit/orbitai/pkg/orbit"
)

// Value is a typed answer for exactly one slot.
// Raw returns the plain JSON-shaped form used in client snapshots.
type Value interface {
	Slot() Slot
	Raw() any
	String() string
}

type UseCaseValue struct{ UseCase orbit.UseCase }

func (UseCaseValue) Slot() Slot { return UseCase }
func (v UseCaseValue) Raw() any { return string(v.UseCase) }
func (v UseCaseValue) String() string { return string(v.UseCase) }

type ChainNameValue struct{ Name string }

func (ChainNameValue) Slot() Slot { return ChainName }
func (v ChainNameValue) Raw() any { return v.Name }
func (v ChainNameValue) String() string { return v.Name }

type ParentChainValue struct{ Chain orbit.ParentChain }

func (ParentChainValue) Slot() Slot { return ParentChain }
func (v ParentChainValue) Raw() any { return string(v.Chain) }
func (v ParentChainValue) String() string { return string(v.Chain) }

type DataAvailabilityValue struct{ Mode orbit.DAMode }

func (DataAvailabilityValue) Slot() Slot { return DataAvailability }
func (v DataAvailabilityValue) Raw() any { return string(v.Mode) }
func (v DataAvailabilityValue) String() string { return string(v.Mode) }

// ValidatorsValue is either a bare count or an explicit address list.
// When Addresses is set, Count equals its length.
type ValidatorsValue struct {
	Count     int
	Addresses []string
}

func (ValidatorsValue) Slot() Slot { return Validators }

func (v ValidatorsValue) Raw() any {
	if len(v.Addresses) > 0 {
		out := make([]string, len(v.Addresses))
		copy(out, v.Addresses)
		return out
	}
	return v.Count
}

func (v ValidatorsValue) String() string {
	if len(v.Addresses) > 0 {
		return strings.Join(v.Addresses, ", ")
	}
	return fmt.Sprintf("%d", v.Count)
}

type OwnerAddressValue struct{ Address string }

func (OwnerAddressValue) Slot() Slot { return OwnerAddress }
func (v OwnerAddressValue) Raw() any { return v.Address }
func (v OwnerAddressValue) String() string { return v.Address }

type NativeTokenValue struct{ Token orbit.NativeToken }

func (NativeTokenValue) Slot() Slot { return NativeToken }
func (v NativeTokenValue) Raw() any {
	return map[string]any{"name": v.Token.Name, "symbol": v.Token.Symbol, "decimals": v.Token.Decimals}
}
func (v NativeTokenValue) String() string { return v.Token.Symbol }

type BlockTimeValue struct{ Seconds int }

func (BlockTimeValue) Slot() Slot { return BlockTime }
func (v BlockTimeValue) Raw() any { return v.Seconds }
func (v BlockTimeValue) String() string { return fmt.Sprintf("%ds", v.Seconds) }

type GasLimitValue struct{ Limit int64 }

func (GasLimitValue) Slot() Slot { return GasLimit }
func (v GasLimitValue) Raw() any { return v.Limit }
func (v GasLimitValue) String() string { return fmt.Sprintf("%d", v.Limit) }

type ChallengePeriodValue struct{ Days int }

func (ChallengePeriodValue) Slot() Slot { return ChallengePeriod }
func (v ChallengePeriodValue) Raw() any { return v.Days }
func (v ChallengePeriodValue) String() string { return fmt.Sprintf("%d days", v.Days) }
