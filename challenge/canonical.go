package challenge

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/securesign/securesign-core/errcode"
)

// Canonicalize validates a JSON challenge and returns the bytes to sign.
func Canonicalize(data []byte) ([]byte, error) {
	c, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return c.Canonical()
}

// Canonical returns the canonical byte string of a valid challenge. Each call
// returns a new buffer.
func (c *Challenge) Canonical() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, v := range c.values() {
		buf.WriteString(v)
		buf.WriteByte(Separator)
	}

	out := buf.Bytes()
	if bytes.IndexByte(out, 0) >= 0 {
		return nil, errcode.New(errcode.CStringError, "canonical challenge contains NUL")
	}
	return out, nil
}

// values renders the fields in FieldOrder.
func (c *Challenge) values() []string {
	byKey := map[string]string{
		KeyVersion:         c.Version,
		KeyAlgorithm:       c.Algorithm,
		KeySignatureFormat: c.SignatureFormat,
		KeyAudience:        c.Audience,
		KeyNonce:           c.Nonce,
		KeyTimestamp:       strconv.FormatInt(c.Timestamp, 10),
		KeyExpiration:      strconv.FormatInt(c.Expiration, 10),
		KeyMethod:          asciiUpper(c.Method),
		KeyPath:            c.Path,
		KeyQuery:           c.Query,
		KeyBodyHash:        c.BodyHash,
		KeyKeyID:           c.KeyID,
		KeyChallengeID:     c.ChallengeID,
	}

	out := make([]string, len(FieldOrder))
	for i, key := range FieldOrder {
		out[i] = byKey[key]
	}
	return out
}

// asciiUpper upper-cases a-z only, leaving any other rune untouched.
func asciiUpper(s string) string {
	return strings.Map(func(r rune) rune {
		if 'a' <= r && r <= 'z' {
			return r - ('a' - 'A')
		}
		return r
	}, s)
}

// ComputeHash returns the hex SHA-256 of a canonical challenge.
func ComputeHash(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
