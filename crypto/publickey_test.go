package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securesign/securesign-core/errcode"
)

func TestMarshalSec1OtherCurve(t *testing.T) {
	p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
	require.NoError(t, err)

	_, err = MarshalSec1(&p384.PublicKey)
	require.Error(t, err)
	require.Equal(t, errcode.PublicKeyFormatConversionFailed, errcode.CodeOf(err))

	_, err = MarshalSec1(nil)
	require.Equal(t, errcode.PublicKeyFormatConversionFailed, errcode.CodeOf(err))
}

func TestSec1ToSPKI(t *testing.T) {
	key := getTestKey()
	sec1, err := MarshalSec1(&key.PublicKey)
	require.NoError(t, err)
	require.Len(t, sec1, Sec1Size)
	require.Equal(t, byte(0x04), sec1[0])

	t.Run("valid point", func(t *testing.T) {
		der, err := Sec1ToSPKI(sec1)
		require.NoError(t, err)

		parsed, err := x509.ParsePKIXPublicKey(der)
		require.NoError(t, err)
		pub, ok := parsed.(*ecdsa.PublicKey)
		require.True(t, ok)
		assert.True(t, pub.Equal(&key.PublicKey))
	})

	t.Run("base64url has no padding", func(t *testing.T) {
		encoded, err := Sec1ToSPKIBase64URL(sec1)
		require.NoError(t, err)
		assert.NotContains(t, encoded, "=")
		assert.NotContains(t, encoded, "+")
		assert.NotContains(t, encoded, "/")

		pub, err := ParseSPKIBase64URL(encoded)
		require.NoError(t, err)
		assert.True(t, pub.Equal(&key.PublicKey))
	})

	t.Run("rejects bad input", func(t *testing.T) {
		offCurve := append([]byte(nil), sec1...)
		offCurve[64] ^= 0x01

		compressed := append([]byte{0x02}, sec1[1:33]...)

		wrongPrefix := append([]byte(nil), sec1...)
		wrongPrefix[0] = 0x03

		for name, input := range map[string][]byte{
			"empty":        nil,
			"compressed":   compressed,
			"wrong prefix": wrongPrefix,
			"off curve":    offCurve,
			"too long":     append(append([]byte(nil), sec1...), 0x00),
		} {
			_, err := Sec1ToSPKI(input)
			require.Error(t, err, name)
			assert.Equal(t, errcode.PublicKeyFormatConversionFailed, errcode.CodeOf(err), name)
		}
	})
}

func TestParseSPKI(t *testing.T) {
	t.Run("rejects other curves", func(t *testing.T) {
		p384, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.MarshalPKIXPublicKey(&p384.PublicKey)
		require.NoError(t, err)

		_, err = ParseSPKI(der)
		require.Error(t, err)
		assert.Equal(t, errcode.AlgorithmNotSupported, errcode.CodeOf(err))
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseSPKI([]byte{0x30, 0x00})
		require.Error(t, err)
		assert.Equal(t, errcode.PublicKeyFormatConversionFailed, errcode.CodeOf(err))
	})

	t.Run("invalid base64url", func(t *testing.T) {
		_, err := ParseSPKIBase64URL("not base64!")
		require.Error(t, err)
		assert.Equal(t, errcode.PublicKeyFormatConversionFailed, errcode.CodeOf(err))
	})
}

func TestDecodeBase64URL(t *testing.T) {
	raw := []byte{0xFB, 0xFF, 0x01}
	padded := base64.URLEncoding.EncodeToString(raw[:2])
	unpadded := base64.RawURLEncoding.EncodeToString(raw[:2])

	got, err := DecodeBase64URL(padded)
	require.NoError(t, err)
	assert.Equal(t, raw[:2], got)

	got, err = DecodeBase64URL(unpadded)
	require.NoError(t, err)
	assert.Equal(t, raw[:2], got)

	got, err = DecodeBase64URL(base64.RawURLEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
}
