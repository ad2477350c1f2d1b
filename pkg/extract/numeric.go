package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

const (
	MinValidators = 1
	MaxValidators = 20

	MinBlockTime = 1
	MaxBlockTime = 30

	MinChallengeDays = 1
	MaxChallengeDays = 30
)

// Validators reads a validator count, or an explicit list of validator addresses.
// A number outside [1,20] is ambiguous and yields no value; no number at all
// takes the preset's count.
type Validators struct{}

func (Validators) Slot() slot.Slot { return slot.Validators }

func (Validators) Extract(message string, ctx Context) (slot.Value, bool) {
	if addrs := addressesIn(message); len(addrs) > 0 {
		if len(addrs) > MaxValidators {
			return nil, false
		}
		return slot.ValidatorsValue{Count: len(addrs), Addresses: addrs}, true
	}

	lower := normalize(message)
	if m := firstNumber.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < MinValidators || n > MaxValidators {
			return nil, false
		}
		return slot.ValidatorsValue{Count: n}, true
	}

	n, ok, ambiguous := spelledNumber(lower)
	switch {
	case ambiguous:
		return nil, false
	case ok:
		return slot.ValidatorsValue{Count: n}, true
	case ctx.Strict:
		return nil, false
	}
	return slot.ValidatorsValue{Count: ctx.defaults().Validators}, true
}

// addressesIn returns the distinct well-formed addresses in message, lowercased, in order.
func addressesIn(message string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, raw := range addressInText.FindAllString(message, -1) {
		addr, err := orbit.NormalizeAddress(raw)
		if err != nil || seen[addr] {
			continue
		}
		seen[addr] = true
		out = append(out, addr)
	}
	return out
}

var (
	secondsPattern = regexp.MustCompile(`\b(\d+)(\.\d+)?\s*s(?:ec(?:ond)?s?)?\b`)
	fastTerms      = wordPrefix("fast", "quick")
	slowTerms      = wordPrefix("slow")
)

// BlockTime reads a block time in seconds: "1s", "2 seconds", a bare "2", or fast/slow.
// Fractional seconds are not supported and yield no value.
type BlockTime struct{}

func (BlockTime) Slot() slot.Slot { return slot.BlockTime }

func (BlockTime) Extract(message string, ctx Context) (slot.Value, bool) {
	lower := normalize(message)

	raw := ""
	if m := secondsPattern.FindStringSubmatch(lower); m != nil {
		if m[2] != "" {
			return nil, false
		}
		raw = m[1]
	} else if bareNumber.MatchString(lower) {
		raw = lower
	}
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < MinBlockTime || n > MaxBlockTime {
			return nil, false
		}
		return slot.BlockTimeValue{Seconds: n}, true
	}

	switch {
	case fastTerms.MatchString(lower):
		return slot.BlockTimeValue{Seconds: 1}, true
	case slowTerms.MatchString(lower):
		return slot.BlockTimeValue{Seconds: 3}, true
	case ctx.Strict:
		return nil, false
	}
	return slot.BlockTimeValue{Seconds: ctx.defaults().BlockTime}, true
}

var (
	gasLiteral     = regexp.MustCompile(`\b(\d{7,9})\b`)
	gasMillions    = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:m|mil|million)\b`)
	standardGas    = regexp.MustCompile(`\b30\b|\bstandard`)
	highGas        = regexp.MustCompile(`\b50\b|\bhigh`)
	maxGasMillions = 999.0
)

// GasLimit reads a block gas limit: a 7-9 digit literal, "40 million", or standard/high.
type GasLimit struct{}

func (GasLimit) Slot() slot.Slot { return slot.GasLimit }

func (GasLimit) Extract(message string, ctx Context) (slot.Value, bool) {
	lower := stripDigitGroups(normalize(message))

	if m := gasLiteral.FindStringSubmatch(lower); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil && n >= 1_000_000 {
			return slot.GasLimitValue{Limit: n}, true
		}
	}
	if m := gasMillions.FindStringSubmatch(lower); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil && f >= 1 && f <= maxGasMillions {
			return slot.GasLimitValue{Limit: int64(math.Round(f * 1_000_000))}, true
		}
	}

	switch {
	case standardGas.MatchString(lower):
		return slot.GasLimitValue{Limit: 30_000_000}, true
	case highGas.MatchString(lower):
		return slot.GasLimitValue{Limit: 50_000_000}, true
	case ctx.Strict:
		return nil, false
	}
	return slot.GasLimitValue{Limit: ctx.defaults().GasLimit}, true
}

var (
	twoWeeks    = regexp.MustCompile(`\b14\b|\btwo[\s-]weeks?\b|\b2\s*weeks?\b|\bfourteen\b`)
	oneWeek     = regexp.MustCompile(`\b7\b|\bone[\s-]week\b|\b1\s*week\b|\ba\s+week\b|\bseven\b`)
	daysPattern = regexp.MustCompile(`\b(\d+)\s*(?:days?|d)\b`)
)

// ChallengePeriod reads the fraud-proof window in days.
type ChallengePeriod struct{}

func (ChallengePeriod) Slot() slot.Slot { return slot.ChallengePeriod }

func (ChallengePeriod) Extract(message string, ctx Context) (slot.Value, bool) {
	lower := normalize(message)

	switch {
	case twoWeeks.MatchString(lower):
		return slot.ChallengePeriodValue{Days: 14}, true
	case oneWeek.MatchString(lower):
		return slot.ChallengePeriodValue{Days: 7}, true
	}

	raw := ""
	if m := daysPattern.FindStringSubmatch(lower); m != nil {
		raw = m[1]
	} else if bareNumber.MatchString(lower) {
		raw = lower
	}
	if raw != "" {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || n < MinChallengeDays || n > MaxChallengeDays {
			return nil, false
		}
		return slot.ChallengePeriodValue{Days: n}, true
	}

	if ctx.Strict {
		return nil, false
	}
	return slot.ChallengePeriodValue{Days: ctx.defaults().ChallengePeriodDays}, true
}
