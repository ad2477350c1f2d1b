package extract

import (
	"regexp"

	"github.com/barekit/orbitai/pkg/orbit"
	"github.com/barekit/orbitai/pkg/slot"
)

type useCaseTerms struct {
	useCase orbit.UseCase
	match   *regexp.Regexp
}

// checked in order; the first category with a matching term wins
var useCaseCatalog = []useCaseTerms{
	{orbit.UseCaseGaming, wordPrefix("gaming", "game", "player", "esports", "nft game", "play to earn", "p2e")},
	{orbit.UseCaseDeFi, wordPrefix("defi", "finance", "financial", "trading", "exchange", "lending", "yield", "swap", "dex")},
	{orbit.UseCaseEnterprise, wordPrefix("enterprise", "private", "business", "corporate", "internal")},
	{orbit.UseCaseNFT, wordPrefix("nft", "collectible", "art", "marketplace", "token")},
	{orbit.UseCaseGeneral, wordPrefix("general", "basic", "simple")},
}

var genericBuildTerms = wordPrefix("app", "chain", "project", "build", "create", "creating", "making", "make", "platform")

// UseCase classifies the kind of chain being built.
// Generic build talk resolves to general; anything else is ambiguous.
type UseCase struct{}

func (UseCase) Slot() slot.Slot { return slot.UseCase }

func (UseCase) Extract(message string, _ Context) (slot.Value, bool) {
	lower := normalize(message)
	for _, c := range useCaseCatalog {
		if c.match.MatchString(lower) {
			return slot.UseCaseValue{UseCase: c.useCase}, true
		}
	}
	if genericBuildTerms.MatchString(lower) {
		return slot.UseCaseValue{UseCase: orbit.UseCaseGeneral}, true
	}
	return nil, false
}
