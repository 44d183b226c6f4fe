package domain

import (
	"crypto/sha256"
	"math/big"
	"strings"
)

// IDLength is the number of characters produced by HashID
const IDLength = 16

// HashID derives a deterministic node id from a qualified identifier.
//
// The SHA-256 digest of the identifier is rendered in base36 and cut to
// IDLength characters; shorter renderings are right padded with '0'.
func HashID(qualifiedName string) string {
	sum := sha256.Sum256([]byte(qualifiedName))
	encoded := new(big.Int).SetBytes(sum[:]).Text(36)

	if len(encoded) >= IDLength {
		return encoded[:IDLength]
	}
	return encoded + strings.Repeat("0", IDLength-len(encoded))
}
