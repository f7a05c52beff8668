package mobile

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
	"github.com/securesign/securesign-core/testdata"
)

func TestSignatureConversion(t *testing.T) {
	p1363 := make([]byte, 64)
	for i := range p1363 {
		p1363[i] = byte(i + 1)
	}

	der, err := P1363ToDer(p1363)
	require.NoError(t, err)
	assert.Equal(t, byte(0x30), der[0])

	back, err := DerToP1363(der)
	require.NoError(t, err)
	assert.Equal(t, p1363, back)

	_, err = DerToP1363([]byte{0x30})
	require.Error(t, err)
	assert.Equal(t, int32(4001), ErrorCode(err))

	_, err = P1363ToDer(make([]byte, 10))
	assert.Equal(t, int32(4001), ErrorCode(err))
}

func TestCanonicalizeChallenge(t *testing.T) {
	out, err := CanonicalizeChallenge(testdata.ChallengeJSON)
	require.NoError(t, err)
	assert.Equal(t, testdata.ChallengeCanonical, out)

	tests := []struct {
		name  string
		input []byte
		code  int32
	}{
		{"nil", nil, 3001},
		{"empty", []byte{}, 3001},
		{"invalid utf-8", []byte{0xFF}, 3008},
		{"wrong algorithm", []byte(`{"version":"SS1","algorithm":"RS256","signatureFormat":"P1363","ts":1000,"exp":2000}`), 3003},
		{"lone surrogate", []byte(`{"version":"SS1","algorithm":"ES256","signatureFormat":"P1363","ts":1000,"exp":2000,"nonce":"\ud800"}`), 3007},
		{"deep nesting", []byte(`{"x":` + strings.Repeat("[", 100000) + strings.Repeat("]", 100000) + `}`), 3007},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := CanonicalizeChallenge(tt.input)
			require.Error(t, err)
			assert.Nil(t, out)
			assert.Equal(t, tt.code, ErrorCode(err))
		})
	}
}

func TestSec1ToSPKI(t *testing.T) {
	key := testKey(t)
	sec1, err := crypto.MarshalSec1(&key.PublicKey)
	require.NoError(t, err)

	der, err := Sec1ToSPKI(sec1)
	require.NoError(t, err)
	assert.NotEmpty(t, der)

	encoded, err := Sec1ToSPKIBase64URL(sec1)
	require.NoError(t, err)
	pub, err := crypto.ParseSPKIBase64URL(encoded)
	require.NoError(t, err)
	assert.True(t, pub.Equal(&key.PublicKey))

	_, err = Sec1ToSPKI(sec1[:64])
	assert.Equal(t, int32(1010), ErrorCode(err))

	s, err := Sec1ToSPKIBase64URL(nil)
	assert.Empty(t, s)
	assert.Equal(t, int32(1010), ErrorCode(err))
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, int32(0), ErrorCode(nil))
	assert.Equal(t, int32(9999), ErrorCode(errors.New("plain")))
	assert.Equal(t, int32(3006), ErrorCode(errcode.New(errcode.ForbiddenChars, "x")))

	assert.Equal(t, "InvalidDerFormat", ErrorName(4001))
	assert.Equal(t, "Code(12345)", ErrorName(12345))
}

func TestCall(t *testing.T) {
	t.Run("panic becomes unknown", func(t *testing.T) {
		out, err := call(func() ([]byte, error) {
			var m map[string]int
			m["boom"] = 1
			return []byte{1}, nil
		})
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, int32(9999), ErrorCode(err))
		assert.Contains(t, err.Error(), "internal error")
	})

	t.Run("empty success is an error", func(t *testing.T) {
		out, err := call(func() ([]byte, error) { return []byte{}, nil })
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, int32(9999), ErrorCode(err))
	})

	t.Run("output dropped on error", func(t *testing.T) {
		out, err := call(func() ([]byte, error) {
			return []byte{1}, errcode.New(errcode.InvalidDerFormat, "bad")
		})
		require.Error(t, err)
		assert.Nil(t, out)
		assert.Equal(t, int32(4001), ErrorCode(err))
	})
}

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return key
}
