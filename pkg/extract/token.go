package extract

import (
	"regexp"
	"strings"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

var (
	customTerms = wordPrefix("custom")
	ethTerms    = regexp.MustCompile(`\beth\b|\bether\b`)
	tokenSymbol = regexp.MustCompile(`(?i)\b(?:called|named|symbol|ticker)\s*:?\s*\$?([a-z][a-z0-9]{1,10})\b`)
	notASymbol  = map[string]bool{"TOKEN": true, "COIN": true, "THE": true, "IT": true}
)

// NativeToken chooses between ETH and a custom gas token.
// Without an explicit choice the slot resolves to ETH.
type NativeToken struct{}

func (NativeToken) Slot() slot.Slot { return slot.NativeToken }

func (NativeToken) Extract(message string, ctx Context) (slot.Value, bool) {
	lower := normalize(message)
	if customTerms.MatchString(lower) {
		symbol := ""
		if m := tokenSymbol.FindStringSubmatch(message); m != nil {
			if s := strings.ToUpper(m[1]); !notASymbol[s] {
				symbol = s
			}
		}
		return slot.NativeTokenValue{Token: orbit.CustomToken(symbol)}, true
	}
	if ethTerms.MatchString(lower) || isAffirmation(lower) || !ctx.Strict {
		return slot.NativeTokenValue{Token: orbit.ETH()}, true
	}
	return nil, false
}
