// Package errcode defines the numeric error codes shared by every SecureSign
// platform and the error type that carries them.
//
// The codes are part of the wire contract with the calling application layer,
// which uses them to drive retry and registration logic. They must never be
// renumbered.
//
// # Matching
//
// Every Code is itself an error, so callers can match on the code alone:
//
//	if errors.Is(err, errcode.InvalidExpiration) {
//		// ask the server for a fresh challenge
//	}
//
// Or extract the number for a bridge:
//
//	code := errcode.CodeOf(err) // errcode.Unknown for unclassified errors
package errcode

import (
	"errors"
	"fmt"
)

// Code is a stable numeric error code.
type Code int32

// OK is returned by CodeOf for a nil error.
const OK Code = 0

// Key management (1001-1012). Produced by the platform keystores and by the
// software keystore in package keys.
const (
	KeyGenerationFailed             Code = 1001
	PublicKeyExtractionFailed       Code = 1002
	AccessControlCreationFailed     Code = 1003
	KeyDeletionFailed               Code = 1004
	KeyNotFound                     Code = 1005
	InvalidKeyID                    Code = 1006
	InvalidKeyReference             Code = 1007
	AuthenticationFailed            Code = 1008
	KeychainQueryFailed             Code = 1009
	PublicKeyFormatConversionFailed Code = 1010
	KeyAlreadyExists                Code = 1011
	KeyInfoExtractionFailed         Code = 1012
)

// Biometric (2001-2004). Only produced by the platform glue.
const (
	BiometricUnavailable   Code = 2001
	BiometricNotEnrolled   Code = 2002
	BiometricLockedOut     Code = 2003
	AuthenticationCanceled Code = 2004
)

// Challenge canonicalization (3001-3009).
const (
	InvalidInput      Code = 3001
	InvalidVersion    Code = 3002
	InvalidAlgorithm  Code = 3003
	InvalidSigFormat  Code = 3004
	InvalidExpiration Code = 3005
	ForbiddenChars    Code = 3006
	JSONParseError    Code = 3007
	UTF8Error         Code = 3008
	CStringError      Code = 3009
)

// Signature conversion (4001-4002).
const (
	InvalidDerFormat          Code = 4001
	SignatureConversionFailed Code = 4002
)

// Platform (5001-5002) and the reserved catch-all.
const (
	AlgorithmNotSupported Code = 5001
	NoActivity            Code = 5002

	// Unknown is reserved for unexpected failures and is never used for an
	// expected rejection path.
	Unknown Code = 9999
)

var names = map[Code]string{
	OK:                              "OK",
	KeyGenerationFailed:             "KeyGenerationFailed",
	PublicKeyExtractionFailed:       "PublicKeyExtractionFailed",
	AccessControlCreationFailed:     "AccessControlCreationFailed",
	KeyDeletionFailed:               "KeyDeletionFailed",
	KeyNotFound:                     "KeyNotFound",
	InvalidKeyID:                    "InvalidKeyId",
	InvalidKeyReference:             "InvalidKeyReference",
	AuthenticationFailed:            "AuthenticationFailed",
	KeychainQueryFailed:             "KeychainQueryFailed",
	PublicKeyFormatConversionFailed: "PublicKeyFormatConversionFailed",
	KeyAlreadyExists:                "KeyAlreadyExists",
	KeyInfoExtractionFailed:         "KeyInfoExtractionFailed",
	BiometricUnavailable:            "BiometricUnavailable",
	BiometricNotEnrolled:            "BiometricNotEnrolled",
	BiometricLockedOut:              "BiometricLockedOut",
	AuthenticationCanceled:          "AuthenticationCancelled",
	InvalidInput:                    "InvalidInput",
	InvalidVersion:                  "InvalidVersion",
	InvalidAlgorithm:                "InvalidAlgorithm",
	InvalidSigFormat:                "InvalidSigFormat",
	InvalidExpiration:               "InvalidExpiration",
	ForbiddenChars:                  "ForbiddenChars",
	JSONParseError:                  "JsonParseError",
	UTF8Error:                       "Utf8Error",
	CStringError:                    "CStringError",
	InvalidDerFormat:                "InvalidDerFormat",
	SignatureConversionFailed:       "SignatureConversionFailed",
	AlgorithmNotSupported:           "AlgorithmNotSupported",
	NoActivity:                      "NoActivity",
	Unknown:                         "Unknown",
}

// String returns the cross-platform name of the code.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", int32(c))
}

// Error makes a bare Code usable as an errors.Is target.
func (c Code) Error() string {
	return fmt.Sprintf("%s (%d)", c.String(), int32(c))
}

// Error is an error tagged with a Code.
type Error struct {
	Code Code
	Msg  string
	Err  error
}

// New returns an Error with the given code and message.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Errorf formats a message like fmt.Errorf, keeping any %w operand as the
// wrapped cause.
func Errorf(code Code, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Code: code, Msg: err.Error(), Err: errors.Unwrap(err)}
}

// Wrap tags err with code. A nil err yields nil.
func Wrap(code Code, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Msg: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Code.String()
	}
	if e.Err != nil && e.Msg != "" && !containsCause(e.Msg, e.Err) {
		msg = msg + ": " + e.Err.Error()
	}
	return fmt.Sprintf("%s [%d]", msg, int32(e.Code))
}

func containsCause(msg string, cause error) bool {
	c := cause.Error()
	return len(msg) >= len(c) && msg[len(msg)-len(c):] == c
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the same Code, or an *Error with the same Code.
func (e *Error) Is(target error) bool {
	switch t := target.(type) {
	case Code:
		return e.Code == t
	case *Error:
		return t != nil && e.Code == t.Code
	}
	return false
}

// CodeOf returns the code carried by err. Errors that carry no code map to
// Unknown.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Unknown
}
