package intent

import (
	"strings"

	"github.com/barekit/orbitai/pkg/extract"
	"github.com/barekit/orbitai/pkg/slot"
)

// Signal ties a slot to the message content that shows the user is answering it.
// Match receives the slot being asked and the lowercased message.
type Signal struct {
	Slot  slot.Slot
	Match func(current slot.Slot, lower string) bool
}

func keywords(words ...string) func(slot.Slot, string) bool {
	return func(_ slot.Slot, lower string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}
}

// ownerMentioned matches a wallet phrase or a single address literal.
// Several addresses read as a validator list, never as an owner. While validators
// are being asked, or when the message talks about a validator, a lone literal
// belongs to the validator list.
func ownerMentioned(current slot.Slot, lower string) bool {
	if strings.Contains(lower, "validator") {
		return false
	}
	if extract.HasWalletIntent(lower) {
		return true
	}
	if current == slot.Validators {
		return false
	}
	return strings.Count(lower, "0x") == 1
}

// DefaultSignals are scanned in order; the first match on a slot other than the current one wins.
func DefaultSignals() []Signal {
	return []Signal{
		{slot.ParentChain, keywords(
			"mainnet", "testnet", "sepolia", "arbitrum one",
			"arbitrum nova", "production", "main net",
		)},
		{slot.DataAvailability, keywords(
			"anytrust", "any trust", "rollup", "roll up", "roll-up",
			"data availability", "full rollup", "full security",
			"ethereum da", "dac committee",
		)},
		{slot.Validators, keywords("validator")},
		{slot.OwnerAddress, ownerMentioned},
		{slot.NativeToken, keywords("custom token", "native token", "gas token")},
	}
}

var casualPhrases = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hola": true, "sup": true, "yo": true,
	"what's up": true, "whats up": true, "wassup": true,
	"good morning": true, "good afternoon": true, "good evening": true,
	"how are you": true, "how's it going": true, "how are things": true,
	"thanks": true, "thank you": true, "thx": true,
	"ok": true, "okay": true, "cool": true, "nice": true, "great": true, "awesome": true,
	"hmm": true, "um": true, "uh": true, "err": true,
	"help": true, "what": true, "huh": true, "?": true,
	"test": true, "testing": true, "asdf": true, "aaa": true, "bbb": true,
}

var greetingStarters = []string{"hi ", "hey ", "hello ", "yo "}

// IsCasual reports whether message is chatter that must not touch any slot.
// Very short messages are casual unless they are a bare number such as "5" or "14".
func IsCasual(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))
	if casualPhrases[lower] {
		return true
	}
	if lower == "" || (len(lower) <= 2 && strings.Trim(lower, "0123456789") != "") {
		return true
	}
	for _, g := range greetingStarters {
		if strings.HasPrefix(lower, g) {
			return true
		}
	}
	return false
}

var goBackCommands = map[string]bool{"go back": true, "back": true, "previous": true, "undo": true}

// IsGoBack reports whether message is a literal step-back command.
func IsGoBack(message string) bool {
	return goBackCommands[strings.ToLower(strings.TrimSpace(message))]
}
