package orbit

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrInvalidAddress is returned when a string is not a 0x-prefixed 40-hex-digit address.
var ErrInvalidAddress = errors.New("invalid ethereum address")

var addressPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// ZeroAddress is the all-zero address in normalized form.
var ZeroAddress = strings.ToLower(common.Address{}.Hex())

// IsValidAddress reports whether s is exactly 0x followed by 40 hex digits.
func IsValidAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// NormalizeAddress validates s and returns it lowercased.
// Nothing but case is ever changed; a missing prefix is an error.
func NormalizeAddress(s string) (string, error) {
	if !IsValidAddress(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return strings.ToLower(s), nil
}

// IsZeroAddress reports whether s is the zero address.
func IsZeroAddress(s string) bool {
	return IsValidAddress(s) && common.HexToAddress(s) == (common.Address{})
}

// PlaceholderValidators returns n deterministic placeholder addresses:
// 0x1111..., 0x2222..., with the hex of the 1-based index repeated to 40 digits.
func PlaceholderValidators(n int) []string {
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		digit := fmt.Sprintf("%x", i)
		out = append(out, "0x"+strings.Repeat(digit, 40)[:40])
	}
	return out
}
