// Package slot models the ordered configuration questions, the cursor over them,
// and the typed values collected for each one.
package slot

import "strings"

// Slot identifies one configuration question.
type Slot string

const (
	UseCase          Slot = "use_case"
	ChainName        Slot = "chain_name"
	ParentChain      Slot = "parent_chain"
	DataAvailability Slot = "data_availability"
	Validators       Slot = "validators"
	OwnerAddress     Slot = "owner_address"
	NativeToken      Slot = "native_token"
	BlockTime        Slot = "block_time"
	GasLimit         Slot = "gas_limit"
	ChallengePeriod  Slot = "challenge_period"

	// Complete is the terminal cursor position; it holds no value.
	Complete Slot = "complete"
)

var order = []Slot{
	UseCase,
	ChainName,
	ParentChain,
	DataAvailability,
	Validators,
	OwnerAddress,
	NativeToken,
	BlockTime,
	GasLimit,
	ChallengePeriod,
	Complete,
}

var labels = map[Slot]string{
	UseCase:          "use case",
	ChainName:        "chain name",
	ParentChain:      "parent chain",
	DataAvailability: "data availability",
	Validators:       "validators",
	OwnerAddress:     "owner address",
	NativeToken:      "native token",
	BlockTime:        "block time",
	GasLimit:         "gas limit",
	ChallengePeriod:  "challenge period",
	Complete:         "complete",
}

// All returns the answerable slots in question order, without Complete.
func All() []Slot {
	out := make([]Slot, len(order)-1)
	copy(out, order[:len(order)-1])
	return out
}

// Count is the number of answerable slots.
func Count() int { return len(order) - 1 }

// Parse resolves a slot tag such as "gas_limit".
func Parse(s string) (Slot, bool) {
	sl := Slot(strings.ToLower(strings.TrimSpace(s)))
	if sl.Index() < 0 {
		return "", false
	}
	return sl, true
}

// Index is the position of s in question order, or -1 for an unknown slot.
func (s Slot) Index() int {
	for i, o := range order {
		if o == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known slot, Complete included.
func (s Slot) Valid() bool { return s.Index() >= 0 }

// Next returns the following slot. Complete stays Complete.
func (s Slot) Next() Slot {
	i := s.Index()
	if i < 0 || i >= len(order)-1 {
		return Complete
	}
	return order[i+1]
}

// Prev returns the preceding slot. The first slot stays where it is.
func (s Slot) Prev() Slot {
	i := s.Index()
	if i <= 0 {
		return order[0]
	}
	return order[i-1]
}

// Label is the human form of the tag, e.g. "gas limit".
func (s Slot) Label() string {
	if l, ok := labels[s]; ok {
		return l
	}
	return strings.ReplaceAll(string(s), "_", " ")
}

func (s Slot) String() string { return string(s) }

// Progress is the cursor-based completion summary shown to clients.
type Progress struct {
	Completed  []Slot `json:"completed"`
	Remaining  []Slot `json:"remaining"`
	Percentage int    `json:"percentage"`
}

// ProgressAt computes progress for a cursor: every slot before the cursor counts as completed.
func ProgressAt(cursor Slot) Progress {
	idx := cursor.Index()
	if idx < 0 {
		idx = 0
	}
	p := Progress{Completed: []Slot{}, Remaining: []Slot{}}
	for i, s := range order {
		if s == Complete {
			continue
		}
		if i < idx {
			p.Completed = append(p.Completed, s)
		} else {
			p.Remaining = append(p.Remaining, s)
		}
	}
	p.Percentage = len(p.Completed) * 100 / Count()
	return p
}
