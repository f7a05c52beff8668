package errcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireCodes(t *testing.T) {
	// These numbers are shared with the Android and iOS layers.
	tests := []struct {
		code Code
		want int32
		name string
	}{
		{InvalidInput, 3001, "InvalidInput"},
		{InvalidVersion, 3002, "InvalidVersion"},
		{InvalidAlgorithm, 3003, "InvalidAlgorithm"},
		{InvalidSigFormat, 3004, "InvalidSigFormat"},
		{InvalidExpiration, 3005, "InvalidExpiration"},
		{ForbiddenChars, 3006, "ForbiddenChars"},
		{JSONParseError, 3007, "JsonParseError"},
		{UTF8Error, 3008, "Utf8Error"},
		{CStringError, 3009, "CStringError"},
		{InvalidDerFormat, 4001, "InvalidDerFormat"},
		{SignatureConversionFailed, 4002, "SignatureConversionFailed"},
		{PublicKeyFormatConversionFailed, 1010, "PublicKeyFormatConversionFailed"},
		{Unknown, 9999, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, int32(tt.code))
			assert.Equal(t, tt.name, tt.code.String())
		})
	}
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "Code(1234)", Code(1234).String())
	assert.Equal(t, "InvalidDerFormat (4001)", InvalidDerFormat.Error())
}

func TestErrorMessage(t *testing.T) {
	t.Run("message only", func(t *testing.T) {
		err := New(InvalidVersion, "version must be SS1")
		assert.Equal(t, "version must be SS1 [3002]", err.Error())
	})

	t.Run("empty message uses code name", func(t *testing.T) {
		err := &Error{Code: ForbiddenChars}
		assert.Equal(t, "ForbiddenChars [3006]", err.Error())
	})

	t.Run("wrapped cause is appended once", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(KeyNotFound, "failed to read key", cause)
		assert.Equal(t, "failed to read key: boom [1005]", err.Error())

		formatted := Errorf(KeyNotFound, "failed to read key: %w", cause)
		assert.Equal(t, "failed to read key: boom [1005]", formatted.Error())
	})
}

func TestErrorMatching(t *testing.T) {
	cause := errors.New("underlying")
	err := fmt.Errorf("canonicalize: %w", Wrap(JSONParseError, "bad json", cause))

	assert.True(t, errors.Is(err, JSONParseError))
	assert.True(t, errors.Is(err, &Error{Code: JSONParseError}))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, InvalidVersion))

	var tagged *Error
	require.True(t, errors.As(err, &tagged))
	assert.Equal(t, JSONParseError, tagged.Code)
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(Unknown, "nothing", nil))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, OK, CodeOf(nil))
	assert.Equal(t, InvalidDerFormat, CodeOf(New(InvalidDerFormat, "x")))
	assert.Equal(t, InvalidExpiration, CodeOf(fmt.Errorf("wrapped: %w", InvalidExpiration)))
	assert.Equal(t, Unknown, CodeOf(errors.New("plain")))
}
