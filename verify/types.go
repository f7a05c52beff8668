// Package verify provides the relying-party side of SecureSign: it checks that
// a device signature covers the canonical form of a challenge.
//
// The verification process validates:
//   - the challenge itself, with the same rules the device applies
//   - the signing key, resolved from the challenge kid
//   - the ECDSA P-256 signature over the canonical bytes, in P1363 or DER form
//   - optionally, that the current time falls inside [ts, exp)
//
// # Verification Flow
//
//	service := verify.NewService(&keys.DirResolver{Dir: dir})
//	result, err := service.Verify(ctx, &verify.VerifyRequest{
//		Challenge: challengeJSON,
//		Signature: sig,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	if !result.Valid {
//		log.Printf("Verification failed: %s", result.Message)
//	}
//
// Malformed input (an invalid challenge, an unknown key, an undecodable
// signature) is returned as an error carrying its errcode code. A well formed
// request that does not verify returns a result with Valid set to false.
package verify

import (
	"crypto/ecdsa"

	"github.com/securesign/securesign-core/challenge"
)

// SignatureFormat selects how VerifyRequest.Signature is encoded.
type SignatureFormat string

const (
	// FormatAuto treats 64-byte signatures as P1363 and anything else as DER.
	FormatAuto  SignatureFormat = ""
	FormatP1363 SignatureFormat = "p1363"
	FormatDER   SignatureFormat = "der"
)

// VerifyRequest represents the parameters for verification
type VerifyRequest struct {
	// Challenge is the JSON challenge exactly as issued.
	Challenge []byte
	// Signature is the raw signature bytes.
	Signature []byte
	Format    SignatureFormat
	// KeyID overrides the challenge kid.
	KeyID string
	// CheckExpiry rejects signatures outside the challenge window.
	CheckExpiry bool
}

// VerifyResult represents the result of verification
type VerifyResult struct {
	Valid           bool                 `json:"valid"`
	SignatureValid  bool                 `json:"signatureValid"`
	Expired         bool                 `json:"expired,omitempty"`
	KeyID           string               `json:"kid"`
	PublicKeySPKI   string               `json:"publicKey"`
	SignatureFormat SignatureFormat      `json:"signatureFormat"`
	Canonical       string               `json:"canonical"`
	CanonicalHash   string               `json:"canonicalHash"`
	SignatureP1363  []byte               `json:"-"`
	Message         string               `json:"message,omitempty"`
	Challenge       *challenge.Challenge `json:"-"`
	PublicKey       *ecdsa.PublicKey     `json:"-"`
}
