package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type asn1Signature struct {
	R, S *big.Int
}

// Fixed test key for deterministic tests
func getTestKey() *ecdsa.PrivateKey {
	// Fixed P-256 private key for testing (NOT FOR PRODUCTION USE)
	d, _ := new(big.Int).SetString("c9806898a0334916c860748880a541f093b579a9b1f32934d86c363c39800357", 16)

	curve := elliptic.P256()
	key := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{Curve: curve},
		D:         d,
	}
	key.X, key.Y = curve.ScalarBaseMult(d.Bytes())
	return key
}

func TestSignWithECDSA(t *testing.T) {
	key := getTestKey()
	data := []byte("test data")

	t.Run("successful signing", func(t *testing.T) {
		signature, err := SignWithECDSA(key, data)
		require.NoError(t, err)
		assert.NotEmpty(t, signature)

		// Verify DER format
		var sig asn1Signature
		rest, err := asn1.Unmarshal(signature, &sig)
		assert.NoError(t, err)
		assert.Empty(t, rest)
	})

	t.Run("nil key panics", func(t *testing.T) {
		require.Panics(t, func() {
			_, _ = SignWithECDSA(nil, data)
		})
	})

	t.Run("empty data succeeds", func(t *testing.T) {
		signature, err := SignWithECDSA(key, []byte{})
		assert.NoError(t, err)
		assert.NotEmpty(t, signature)
	})
}

func TestSignP1363(t *testing.T) {
	key := getTestKey()
	data := []byte("SS1|ES256|P1363|||1000|2000|||||||")

	sig, err := SignP1363(key, data)
	require.NoError(t, err)
	require.Len(t, sig, P1363Size)
	assert.True(t, VerifyECDSASignature(&key.PublicKey, data, sig))
}

func TestVerifyECDSASignature(t *testing.T) {
	key := getTestKey()
	data := []byte("test data")

	der, err := SignWithECDSA(key, data)
	require.NoError(t, err)

	validSig, err := DerToP1363(der)
	require.NoError(t, err)

	t.Run("valid signature", func(t *testing.T) {
		assert.True(t, VerifyECDSASignature(&key.PublicKey, data, validSig))
	})

	t.Run("wrong data", func(t *testing.T) {
		assert.False(t, VerifyECDSASignature(&key.PublicKey, []byte("wrong"), validSig))
	})

	t.Run("wrong key", func(t *testing.T) {
		otherKey := &ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{
				Curve: elliptic.P256(),
				X:     big.NewInt(1),
				Y:     big.NewInt(2),
			},
			D: big.NewInt(3),
		}
		assert.False(t, VerifyECDSASignature(&otherKey.PublicKey, data, validSig))
	})

	t.Run("corrupted signature", func(t *testing.T) {
		badSig := make([]byte, 64)
		copy(badSig, validSig)
		badSig[0] ^= 0xFF
		assert.False(t, VerifyECDSASignature(&key.PublicKey, data, badSig))
	})

	t.Run("wrong signature length", func(t *testing.T) {
		assert.False(t, VerifyECDSASignature(&key.PublicKey, data, []byte("short")))
		assert.False(t, VerifyECDSASignature(&key.PublicKey, data, make([]byte, 65)))
	})
}

func TestSignAndVerifyIntegration(t *testing.T) {
	key := getTestKey()
	testData := [][]byte{
		{},
		[]byte("Hello, World!"),
		make([]byte, 1000),
	}

	for _, data := range testData {
		derSig, err := SignWithECDSA(key, data)
		require.NoError(t, err)

		rsSig, err := DerToP1363(derSig)
		require.NoError(t, err)

		assert.True(t, VerifyECDSASignature(&key.PublicKey, data, rsSig))
		assert.False(t, VerifyECDSASignature(&key.PublicKey, append(data, 'x'), rsSig))

		// The codec's DER output must be what a strict verifier accepts.
		reencoded, err := P1363ToDer(rsSig)
		require.NoError(t, err)
		assert.Equal(t, derSig, reencoded)
	}
}

func BenchmarkDerToP1363(b *testing.B) {
	key := getTestKey()
	der, err := SignWithECDSA(key, []byte("benchmark"))
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = DerToP1363(der)
	}
}
