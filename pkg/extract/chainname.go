package extract

import (
	"regexp"
	"strings"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

var (
	namingPhrase = regexp.MustCompile(`(?i)(?:called|named|name\s+is|name:|call\s+it)\s+["']?([a-zA-Z0-9][a-zA-Z0-9\s-]*)["']?`)

	// vocabulary of the other slots; a message using it is not a name
	otherSlotVocabulary = wholeWord(
		"mainnet", "testnet", "sepolia", "nova", "arbitrum",
		"rollup", "anytrust", "trust",
		"validator", "eth", "ether", "custom token",
		"wallet", "address",
		"second", "fast", "slow",
		"million", "gas",
		"day", "week", "challenge",
		"production", "deploy",
	)

	nameFiller = map[string]bool{"the": true, "a": true, "an": true, "is": true, "be": true, "it": true}
)

const (
	minNameLen = 3
	maxNameLen = 50
)

// ChainName picks the chain's display name out of a naming phrase or a short literal reply.
type ChainName struct{}

func (ChainName) Slot() slot.Slot { return slot.ChainName }

func (ChainName) Extract(message string, _ Context) (slot.Value, bool) {
	msg := strings.TrimSpace(message)
	lower := strings.ToLower(msg)
	if rejectAsName(lower) {
		return nil, false
	}

	if m := namingPhrase.FindStringSubmatch(msg); m != nil {
		name := strings.TrimSpace(m[1])
		if len(name) >= 2 && len(name) <= maxNameLen && !rejectAsName(strings.ToLower(name)) {
			return nameValue(name)
		}
	}

	// questions are never names
	if strings.HasSuffix(msg, "?") || len(msg) < minNameLen || len(msg) > maxNameLen {
		return nil, false
	}

	words := strings.Fields(strings.Trim(msg, `"'.!`))
	if len(words) == 1 {
		return nameValue(words[0])
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if !nameFiller[strings.ToLower(w)] {
			parts = append(parts, w)
		}
	}
	if len(parts) == 0 {
		return nil, false
	}
	return nameValue(strings.Join(parts, " "))
}

func rejectAsName(lower string) bool {
	return strings.Contains(lower, "0x") || otherSlotVocabulary.MatchString(lower)
}

// nameValue keeps single words as typed and title-cases multi-word names.
func nameValue(name string) (slot.Value, bool) {
	if orbit.URLSafeName(name) == "" {
		return nil, false
	}
	if strings.Contains(name, " ") {
		name = orbit.TitleCase(name)
	}
	return slot.ChainNameValue{Name: name}, true
}
