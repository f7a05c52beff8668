// Package challenge validates SecureSign challenges and serializes them into
// the canonical byte string that the device signs.
//
// A challenge is a JSON object issued by the relying party:
//
//	{
//	  "version": "SS1",
//	  "algorithm": "ES256",
//	  "signatureFormat": "P1363",
//	  "kid": "device-key",
//	  "aud": "https://api.example.com",
//	  "nonce": "q5c2...",
//	  "ts": 1700000000,
//	  "exp": 1700000300,
//	  "method": "post",
//	  "path": "/v1/register/finish-challenge"
//	}
//
// # Canonical form
//
// The canonical form is the values of FieldOrder, each followed by '|':
//
//	SS1|ES256|P1363|<aud>|<nonce>|<ts>|<exp>|<METHOD>|<path>|<query>|<bodyHash>|<kid>|<challengeId>|
//
// The verifier recomputes the same bytes, so FieldOrder and the value
// formatting are fixed and must never change within a version tag.
//
// # Validation
//
// Canonicalize checks, in order and stopping at the first failure: non-empty
// UTF-8 input, a JSON object, version, algorithm, signature format, the
// ts/exp window and finally the absence of '|' and NUL in every string value.
// Each failure carries its errcode code.
package challenge

const (
	// Version is the only accepted value of the version field.
	Version = "SS1"
	// Algorithm is the only accepted value of the algorithm field.
	Algorithm = "ES256"
	// SignatureFormat is the only accepted value of the signatureFormat field.
	SignatureFormat = "P1363"

	// Separator terminates every field of the canonical form.
	Separator = '|'
)

// JSON keys.
const (
	KeyVersion         = "version"
	KeyAlgorithm       = "algorithm"
	KeySignatureFormat = "signatureFormat"
	KeyAudience        = "aud"
	KeyNonce           = "nonce"
	KeyTimestamp       = "ts"
	KeyExpiration      = "exp"
	KeyMethod          = "method"
	KeyPath            = "path"
	KeyQuery           = "query"
	KeyBodyHash        = "bodyHash"
	KeyKeyID           = "kid"
	KeyChallengeID     = "challengeId"
)

// Short spellings of the tag fields emitted by older servers.
var aliases = map[string]string{
	KeyVersion:         "ver",
	KeyAlgorithm:       "alg",
	KeySignatureFormat: "sigFormat",
}

// FieldOrder is the pinned order of the canonical form.
var FieldOrder = [...]string{
	KeyVersion,
	KeyAlgorithm,
	KeySignatureFormat,
	KeyAudience,
	KeyNonce,
	KeyTimestamp,
	KeyExpiration,
	KeyMethod,
	KeyPath,
	KeyQuery,
	KeyBodyHash,
	KeyKeyID,
	KeyChallengeID,
}

// optionalKeys are string fields that may be absent or null.
var optionalKeys = []string{
	KeyAudience,
	KeyNonce,
	KeyMethod,
	KeyPath,
	KeyQuery,
	KeyBodyHash,
	KeyKeyID,
	KeyChallengeID,
}

// Challenge is a validated challenge. Optional fields that were absent hold
// the empty string.
type Challenge struct {
	Version         string `json:"version"`
	Algorithm       string `json:"algorithm"`
	SignatureFormat string `json:"signatureFormat"`
	Audience        string `json:"aud,omitempty"`
	Nonce           string `json:"nonce,omitempty"`
	Timestamp       int64  `json:"ts"`
	Expiration      int64  `json:"exp"`
	Method          string `json:"method,omitempty"`
	Path            string `json:"path,omitempty"`
	Query           string `json:"query,omitempty"`
	BodyHash        string `json:"bodyHash,omitempty"`
	KeyID           string `json:"kid,omitempty"`
	ChallengeID     string `json:"challengeId,omitempty"`
}
