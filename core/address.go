package core

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// CanonicalAddress returns the lowercased form of an Ethereum address.
// Every store key, token claim and address comparison in the system uses the
// canonical form, so checksum-case variants of the same address never miss.
func CanonicalAddress(address string) string {
	return strings.ToLower(address)
}

// ValidAddress reports whether s is a well-formed 0x-prefixed hex Ethereum
// address. The prefix is required so canonical forms are uniform store keys.
func ValidAddress(s string) bool {
	return strings.HasPrefix(CanonicalAddress(s), "0x") && common.IsHexAddress(s)
}

// SameAddress compares two addresses in canonical form.
func SameAddress(a, b string) bool {
	return CanonicalAddress(a) == CanonicalAddress(b)
}
