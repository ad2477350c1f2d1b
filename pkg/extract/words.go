package extract

import (
	"regexp"
	"strings"
)

var (
	addressInText = regexp.MustCompile(`\b0x[a-fA-F0-9]{40}\b`)
	digitGroup    = regexp.MustCompile(`(\d)[,_](\d)`)
	firstNumber   = regexp.MustCompile(`\b(\d+)\b`)
	bareNumber    = regexp.MustCompile(`^\d+$`)
	wordToken     = regexp.MustCompile(`[a-z]+`)
)

var affirmations = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "yup": true, "y": true,
	"ok": true, "okay": true, "sure": true, "fine": true,
	"sounds good": true, "that's fine": true, "thats fine": true,
	"works for me": true, "default": true, "use default": true,
	"go with default": true, "recommended": true, "looks good": true,
}

var smallNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// number words outside the small-number map; their presence makes a count ambiguous
var largeNumbers = map[string]bool{
	"zero": true, "eleven": true, "twelve": true, "thirteen": true, "fourteen": true,
	"fifteen": true, "sixteen": true, "seventeen": true, "eighteen": true, "nineteen": true,
	"twenty": true, "thirty": true, "forty": true, "fifty": true, "sixty": true,
	"seventy": true, "eighty": true, "ninety": true, "hundred": true, "thousand": true,
	"dozen": true,
}

func normalize(message string) string {
	return strings.ToLower(strings.TrimSpace(message))
}

func isAffirmation(lower string) bool {
	return affirmations[strings.TrimRight(lower, "!. ")]
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// wordPrefix matches any of words at the start of a word, so "game" matches
// "games" but "art" does not match "start".
func wordPrefix(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)`)
}

// wholeWord matches any of words as whole words, allowing a plural suffix.
func wholeWord(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)(?:s|es)?\b`)
}

// stripDigitGroups turns "30,000,000" into "30000000".
func stripDigitGroups(s string) string {
	for {
		next := digitGroup.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

// spelledNumber finds the first spelled count in lower. ok is false when the
// text holds no number word; ambiguous is true when it holds a word outside one..ten.
func spelledNumber(lower string) (n int, ok bool, ambiguous bool) {
	for _, tok := range wordToken.FindAllString(lower, -1) {
		if largeNumbers[tok] {
			return 0, false, true
		}
	}
	for _, tok := range wordToken.FindAllString(lower, -1) {
		if v, found := smallNumbers[tok]; found {
			return v, true, false
		}
	}
	return 0, false, false
}
