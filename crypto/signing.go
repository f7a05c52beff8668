// Package crypto provides the signature and public key encodings shared by the
// Android and iOS signers.
//
// This package provides:
//   - DER ⇄ IEEE P1363 conversion of ECDSA P-256 signatures
//   - SEC1 ⇄ SubjectPublicKeyInfo conversion of P-256 public keys
//   - ECDSA P-256 signing and verification with SHA-256
//
// # Signature conversion
//
// Hardware keystores return ASN.1 DER signatures. Convert them to the fixed
// 64-byte r||s form before base64url encoding:
//
//	p1363, err := crypto.DerToP1363(der)
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Convert back when a verifier needs DER:
//
//	der, err := crypto.P1363ToDer(p1363)
//
// # Public keys
//
// The Secure Enclave exports a 65-byte uncompressed SEC1 point. Servers expect
// SubjectPublicKeyInfo:
//
//	spki, err := crypto.Sec1ToSPKIBase64URL(sec1)
//
// Errors returned by this package carry errcode codes.
package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"math/big"
)

// SignWithECDSA signs data with an ECDSA private key using SHA256 and returns
// the DER encoded signature, the same shape a platform keystore produces.
func SignWithECDSA(privateKey *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	hash := sha256.Sum256(data)

	der, err := ecdsa.SignASN1(rand.Reader, privateKey, hash[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign with ECDSA: %w", err)
	}
	return der, nil
}

// SignP1363 signs data and returns the 64-byte r||s signature.
func SignP1363(privateKey *ecdsa.PrivateKey, data []byte) ([]byte, error) {
	der, err := SignWithECDSA(privateKey, data)
	if err != nil {
		return nil, err
	}
	return DerToP1363(der)
}

// VerifyECDSASignature verifies a 64-byte r||s signature over data
func VerifyECDSASignature(publicKey *ecdsa.PublicKey, data []byte, signature []byte) bool {
	hash := sha256.Sum256(data)

	if len(signature) != P1363Size {
		return false
	}

	r := new(big.Int).SetBytes(signature[:ScalarSize])
	s := new(big.Int).SetBytes(signature[ScalarSize:])

	return ecdsa.Verify(publicKey, hash[:], r, s)
}
