package crypto

import (
	"crypto/elliptic"
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	cbasn1 "golang.org/x/crypto/cryptobyte/asn1"

	"github.com/securesign/securesign-core/errcode"
)

const (
	// ScalarSize is the width of one P-256 signature component.
	ScalarSize = 32
	// P1363Size is the width of an r||s signature.
	P1363Size = 2 * ScalarSize
)

// curveOrder is n for P-256. Valid r and s lie in [1, n-1].
var curveOrder = elliptic.P256().Params().N

// DerToP1363 converts an ASN.1 DER ECDSA signature
//
//	SEQUENCE { INTEGER r, INTEGER s }
//
// to the 64-byte IEEE P1363 form r||s, each component left padded to 32 bytes.
//
// Framing errors (bad tags, truncated or non-minimal lengths, trailing bytes,
// empty, negative, zero or non-minimally padded integers, and integers not
// below the curve order) return errcode.InvalidDerFormat. A well formed
// integer whose magnitude does not fit in 32 bytes returns
// errcode.SignatureConversionFailed.
func DerToP1363(der []byte) ([]byte, error) {
	input := cryptobyte.String(der)

	var seq cryptobyte.String
	if !input.ReadASN1(&seq, cbasn1.SEQUENCE) {
		return nil, errcode.New(errcode.InvalidDerFormat, "malformed signature: expected DER SEQUENCE")
	}
	if !input.Empty() {
		return nil, errcode.Errorf(errcode.InvalidDerFormat, "malformed signature: %d trailing bytes", len(input))
	}

	var r, s cryptobyte.String
	if !seq.ReadASN1(&r, cbasn1.INTEGER) {
		return nil, errcode.New(errcode.InvalidDerFormat, "malformed signature: R is not a DER INTEGER")
	}
	if !seq.ReadASN1(&s, cbasn1.INTEGER) {
		return nil, errcode.New(errcode.InvalidDerFormat, "malformed signature: S is not a DER INTEGER")
	}
	if !seq.Empty() {
		return nil, errcode.New(errcode.InvalidDerFormat, "malformed signature: unexpected data after S")
	}

	rBytes, err := scalarFromInteger("R", r)
	if err != nil {
		return nil, err
	}
	sBytes, err := scalarFromInteger("S", s)
	if err != nil {
		return nil, err
	}

	out := make([]byte, P1363Size)
	copy(out[ScalarSize-len(rBytes):ScalarSize], rBytes)
	copy(out[P1363Size-len(sBytes):], sBytes)
	return out, nil
}

// scalarFromInteger returns the unsigned big-endian magnitude of a DER INTEGER
// body without its sign pad.
func scalarFromInteger(name string, v []byte) ([]byte, error) {
	if len(v) == 0 {
		return nil, errcode.Errorf(errcode.InvalidDerFormat, "malformed signature: %s is empty", name)
	}
	if v[0]&0x80 != 0 {
		return nil, errcode.Errorf(errcode.InvalidDerFormat, "malformed signature: %s is negative", name)
	}
	if v[0] == 0x00 {
		if len(v) == 1 {
			return nil, errcode.Errorf(errcode.InvalidDerFormat, "malformed signature: %s is zero", name)
		}
		// The pad byte is only legal when it keeps the value positive.
		if v[1]&0x80 == 0 {
			return nil, errcode.Errorf(errcode.InvalidDerFormat, "malformed signature: %s has a superfluous leading zero", name)
		}
		v = v[1:]
	}
	if len(v) > ScalarSize {
		return nil, errcode.Errorf(errcode.SignatureConversionFailed,
			"signature conversion failed: %s is %d bytes, exceeds %d", name, len(v), ScalarSize)
	}
	if new(big.Int).SetBytes(v).Cmp(curveOrder) >= 0 {
		return nil, errcode.Errorf(errcode.InvalidDerFormat, "malformed signature: %s is not below the curve order", name)
	}
	return v, nil
}

// P1363ToDer converts a 64-byte r||s signature to ASN.1 DER with minimally
// encoded integers. Any 64-byte input is accepted; other lengths return
// errcode.InvalidDerFormat.
//
// The range is wider than DerToP1363 accepts: a zero half encodes as
// 02 01 00 and a half at or above the curve order encodes as is, and
// DerToP1363 rejects both. Only r and s in [1, n-1] round trip.
func P1363ToDer(sig []byte) ([]byte, error) {
	if len(sig) != P1363Size {
		return nil, errcode.Errorf(errcode.InvalidDerFormat,
			"invalid P1363 signature length: expected %d bytes, got %d", P1363Size, len(sig))
	}

	var b cryptobyte.Builder
	b.AddASN1(cbasn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addInteger(b, sig[:ScalarSize])
		addInteger(b, sig[ScalarSize:])
	})

	der, err := b.Bytes()
	if err != nil {
		return nil, errcode.Wrap(errcode.SignatureConversionFailed, "failed to build DER signature", err)
	}
	return der, nil
}

// addInteger appends magnitude as a minimal, non-negative DER INTEGER.
func addInteger(b *cryptobyte.Builder, magnitude []byte) {
	for len(magnitude) > 1 && magnitude[0] == 0x00 {
		magnitude = magnitude[1:]
	}
	b.AddASN1(cbasn1.INTEGER, func(b *cryptobyte.Builder) {
		if magnitude[0]&0x80 != 0 {
			b.AddUint8(0x00)
		}
		b.AddBytes(magnitude)
	})
}
