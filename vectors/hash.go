package vectors

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeHash computes SHA256 hash of encoded suite bytes
func ComputeHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Digest returns the hash of the Borsh encoding of s. Two platforms holding
// the same suite report the same digest.
func (s *Suite) Digest() (string, error) {
	b, err := Encode(s, FormatBorsh)
	if err != nil {
		return "", err
	}
	return ComputeHash(b), nil
}
