package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/securesign/securesign-core/errcode"
)

// Sec1Size is the length of an uncompressed SEC1 P-256 point (0x04 || X || Y).
const Sec1Size = 65

// Sec1ToSPKI converts an uncompressed SEC1 P-256 public key, as exported by the
// Secure Enclave and Android Keystore, to DER SubjectPublicKeyInfo.
func Sec1ToSPKI(sec1 []byte) ([]byte, error) {
	if len(sec1) != Sec1Size {
		return nil, errcode.Errorf(errcode.PublicKeyFormatConversionFailed,
			"invalid public key length: expected %d bytes, got %d", Sec1Size, len(sec1))
	}
	if sec1[0] != 0x04 {
		return nil, errcode.New(errcode.PublicKeyFormatConversionFailed,
			"invalid public key format: expected uncompressed format (0x04 prefix)")
	}

	pub, err := ecdh.P256().NewPublicKey(sec1)
	if err != nil {
		return nil, errcode.Wrap(errcode.PublicKeyFormatConversionFailed, "invalid P-256 point", err)
	}

	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return nil, errcode.Wrap(errcode.PublicKeyFormatConversionFailed, "failed to marshal SubjectPublicKeyInfo", err)
	}
	return der, nil
}

// Sec1ToSPKIBase64URL is Sec1ToSPKI followed by unpadded base64url encoding.
func Sec1ToSPKIBase64URL(sec1 []byte) (string, error) {
	der, err := Sec1ToSPKI(sec1)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(der), nil
}

// ParseSPKI parses a DER SubjectPublicKeyInfo holding a P-256 key.
func ParseSPKI(der []byte) (*ecdsa.PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, errcode.Wrap(errcode.PublicKeyFormatConversionFailed, "failed to parse SubjectPublicKeyInfo", err)
	}
	pub, ok := parsed.(*ecdsa.PublicKey)
	if !ok {
		return nil, errcode.Errorf(errcode.AlgorithmNotSupported, "unsupported public key type %T", parsed)
	}
	if pub.Curve != elliptic.P256() {
		return nil, errcode.Errorf(errcode.AlgorithmNotSupported, "unsupported curve: %s, only P-256 is supported", pub.Curve.Params().Name)
	}
	return pub, nil
}

// ParseSPKIBase64URL decodes an unpadded base64url SubjectPublicKeyInfo.
func ParseSPKIBase64URL(s string) (*ecdsa.PublicKey, error) {
	der, err := DecodeBase64URL(s)
	if err != nil {
		return nil, errcode.Wrap(errcode.PublicKeyFormatConversionFailed, "failed to decode public key", err)
	}
	return ParseSPKI(der)
}

// MarshalSec1 returns the uncompressed SEC1 encoding of a P-256 public key.
// Keys on other curves return errcode.PublicKeyFormatConversionFailed.
func MarshalSec1(pub *ecdsa.PublicKey) ([]byte, error) {
	if pub == nil || pub.Curve != elliptic.P256() {
		return nil, errcode.New(errcode.PublicKeyFormatConversionFailed, "public key is not a P-256 key")
	}
	key, err := pub.ECDH()
	if err != nil {
		return nil, errcode.Wrap(errcode.PublicKeyExtractionFailed, "failed to convert public key", err)
	}
	return key.Bytes(), nil
}

// DecodeBase64URL accepts base64url with or without padding, the way the
// Android helper normalizes its input.
func DecodeBase64URL(s string) ([]byte, error) {
	enc := base64.URLEncoding
	if len(s)%4 != 0 {
		enc = base64.RawURLEncoding
	}
	b, err := enc.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64url: %w", err)
	}
	return b, nil
}
