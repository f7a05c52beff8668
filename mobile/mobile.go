// Package mobile is the gomobile-bindable surface of the core.
//
// Functions here only take and return types gomobile can bind ([]byte,
// string, int32, error). The numeric code of a failure is recovered on the
// platform side with ErrorCode:
//
//	p1363, err := Mobile.derToP1363(der)
//	if (err != null) { val code = Mobile.errorCode(err) }
//
// Every successful call returns a newly allocated, non-empty buffer. A panic
// inside the core is reported as an error with code 9999 instead of crashing
// the host process.
package mobile

import (
	"github.com/securesign/securesign-core/challenge"
	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
)

// DerToP1363 converts a DER ECDSA signature to 64-byte r||s.
func DerToP1363(der []byte) ([]byte, error) {
	return call(func() ([]byte, error) {
		return crypto.DerToP1363(der)
	})
}

// P1363ToDer converts a 64-byte r||s signature to DER.
func P1363ToDer(sig []byte) ([]byte, error) {
	return call(func() ([]byte, error) {
		return crypto.P1363ToDer(sig)
	})
}

// CanonicalizeChallenge validates a JSON challenge and returns the bytes to
// sign.
func CanonicalizeChallenge(challengeJSON []byte) ([]byte, error) {
	return call(func() ([]byte, error) {
		if len(challengeJSON) == 0 {
			return nil, errcode.New(errcode.InvalidInput, "challenge is empty")
		}
		return challenge.Canonicalize(challengeJSON)
	})
}

// Sec1ToSPKI converts a 65-byte uncompressed P-256 point to SPKI DER.
func Sec1ToSPKI(sec1 []byte) ([]byte, error) {
	return call(func() ([]byte, error) {
		return crypto.Sec1ToSPKI(sec1)
	})
}

// Sec1ToSPKIBase64URL converts a 65-byte uncompressed P-256 point to unpadded
// base64url SPKI, the form servers register.
func Sec1ToSPKIBase64URL(sec1 []byte) (string, error) {
	out, err := call(func() ([]byte, error) {
		s, err := crypto.Sec1ToSPKIBase64URL(sec1)
		return []byte(s), err
	})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// ErrorCode returns the numeric code of err, 0 for nil and 9999 for errors
// that carry no code.
func ErrorCode(err error) int32 {
	return int32(errcode.CodeOf(err))
}

// ErrorName returns the symbolic name of a code, e.g. "InvalidDerFormat".
func ErrorName(code int32) string {
	return errcode.Code(code).String()
}

// call runs fn, turning panics and empty successes into coded errors.
func call(fn func() ([]byte, error)) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = errcode.Errorf(errcode.Unknown, "internal error: %v", r)
		}
	}()

	out, err = fn()
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errcode.New(errcode.Unknown, "internal error: empty result")
	}
	return out, nil
}
