// Package prompt holds the assistant's canned questions and builds the message
// list sent to the text-generation provider each turn.
package prompt

import (
	"fmt"

	"github.com/barekit/orbitai/pkg/extract"
	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/preset"
	"github.com/barekit/orbitai/pkg/slot"
)

const nextStep = "Let's continue with the next step."

// Question returns the canned question for s. Recommendations come from p.
func Question(s slot.Slot, p preset.Preset) string {
	d := p.Defaults
	switch s {
	case slot.UseCase:
		return `Hey! I'll help you launch your own L3 chain. To start, what are you building?

For example:
- A gaming platform
- A DeFi protocol
- An enterprise app
- An NFT platform
- Something else`
	case slot.ChainName:
		return `What would you like to call your chain?

Pick something memorable that fits your project.`
	case slot.ParentChain:
		return `Next, the parent chain. This is where your L3 settles its transactions:

- Arbitrum Sepolia - testnet, the best place to start
- Arbitrum One - mainnet, for production
- Arbitrum Nova - high throughput with AnyTrust

I'd suggest Arbitrum Sepolia while you're testing. Which one do you want?`
	case slot.DataAvailability:
		return fmt.Sprintf(`Now pick a data availability mode. It decides where your chain's data lives:

- AnyTrust - lower fees, data kept by a trusted committee
  Good for gaming, social and NFT apps

- Rollup - maximum security, all data posted to Ethereum
  Good for DeFi and anything holding real value

For your use case I'd go with %s. Sound good?`, daName(d.DataAvailability))
	case slot.Validators:
		return fmt.Sprintf(`Next up: validators. These nodes check every transaction on your chain, a bit like referees.

How many would you like?
- 3 validators - simple, fine for most apps
- 5 validators - more decentralized
- Any other number up to %d

I'd suggest %d.`, extract.MaxValidators, d.Validators)
	case slot.OwnerAddress:
		return `Almost there! I need the owner address. The owner is the admin who can change chain settings later.

You can:
- Say "use my wallet" to use your connected address
- Or paste another address`
	case slot.NativeToken:
		return `Which token should pay for gas on your chain?

- ETH - standard and familiar to users
- Custom token - your own gas token

I'd start with ETH. What would you like?`
	case slot.BlockTime:
		return fmt.Sprintf(`How fast should blocks be produced?

- 1 second - very fast, great for games
- 2 seconds - balanced
- 3 seconds - more room per block

For %s chains I'd suggest %d-second blocks.`, p.Name, d.BlockTime)
	case slot.GasLimit:
		return fmt.Sprintf(`Last technical setting: the gas limit. It caps how much computation fits in one block.

- 30 million - standard, works for most apps
- 50 million - high throughput, good for gaming and NFTs
- Or tell me your own number

I'd recommend %s for your use case.`, millions(d.GasLimit))
	case slot.ChallengePeriod:
		return fmt.Sprintf(`The challenge period is the window for catching fraud before withdrawals finalize.

- 7 days - the industry standard
- 14 days - extra safety for enterprise

I'd go with %d days. Does that work?`, d.ChallengePeriodDays)
	}
	return nextStep
}

// Greeting is the first assistant message of every session.
func Greeting() string {
	return Question(slot.UseCase, preset.Get(orbit.UseCaseGeneral))
}

// Review presents the assembled record and the next actions.
func Review(c *orbit.Config) string {
	return fmt.Sprintf(`Here's the full configuration for %s:

%s

Does everything look right? You can:
- Deploy now - launch your chain
- Edit a setting - just tell me what to change
- Start over - say reset`, c.ChainConfig.ChainName, c.Summary())
}

// GoBack is the canned reply to a go-back command. moved is false when the
// cursor was already at the first slot.
func GoBack(to slot.Slot, moved bool, p preset.Preset) string {
	if !moved {
		return "We're already at the first step. Let's continue from here.\n\n" + Question(to, p)
	}
	return "No problem! Let's go back.\n\n" + Question(to, p)
}

// Acknowledge confirms a value the user gave for a slot other than the one being asked.
func Acknowledge(v slot.Value) string {
	return fmt.Sprintf("Got it, %s set to %s.", v.Slot().Label(), v.String())
}

// Fallback is the reply used when no provider answered: the question, preceded
// by an acknowledgement when a value was filled out of order.
func Fallback(question string, backfilled slot.Value) string {
	if backfilled == nil {
		return question
	}
	return Acknowledge(backfilled) + "\n\n" + question
}

func daName(m orbit.DAMode) string {
	if m == orbit.DARollup {
		return "Rollup"
	}
	return "AnyTrust"
}

func millions(n int64) string {
	if n%1_000_000 == 0 {
		return fmt.Sprintf("%d million", n/1_000_000)
	}
	return fmt.Sprintf("%d", n)
}
