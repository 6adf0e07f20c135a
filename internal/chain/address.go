package chain

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ValidAddress reports whether s is a well-formed 20-byte hex address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

// NormalizeAddress lowercases an address for use as a map key or comparison
// operand. Addresses from wallets and user input differ only in checksum
// casing.
func NormalizeAddress(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SameAddress compares two addresses case-insensitively.
func SameAddress(a, b string) bool {
	return NormalizeAddress(a) == NormalizeAddress(b)
}
