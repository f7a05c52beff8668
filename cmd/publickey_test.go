package cmd

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/errcode"
)

func TestPublicKeyCommand(t *testing.T) {
	cmd := PublicKeyCommand()

	require.NotNil(t, cmd)
	require.Equal(t, "publickey", cmd.Name)
	require.NotEmpty(t, cmd.Usage)

	sub := findSubcommand(t, cmd, "spki")
	require.True(t, findStringFlag(t, sub, "sec1").Required)
	require.Equal(t, encodingHex, findStringFlag(t, sub, "encoding").Value)
	require.Equal(t, encodingBase64URL, findStringFlag(t, sub, "output-encoding").Value)
}

func TestSPKICommand(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	sec1, err := crypto.MarshalSec1(&priv.PublicKey)
	require.NoError(t, err)

	want, err := crypto.Sec1ToSPKIBase64URL(sec1)
	require.NoError(t, err)

	stdout, _, err := runApp(t, "", "publickey", "spki", "--sec1", hex.EncodeToString(sec1))
	require.NoError(t, err)
	require.Equal(t, want, strings.TrimSpace(stdout))

	pub, err := crypto.ParseSPKIBase64URL(strings.TrimSpace(stdout))
	require.NoError(t, err)
	require.True(t, pub.Equal(&priv.PublicKey))

	_, _, err = runApp(t, "", "publickey", "spki", "--sec1", hex.EncodeToString(sec1[:33]))
	require.Error(t, err)
	require.Equal(t, errcode.PublicKeyFormatConversionFailed, errcode.CodeOf(err))
}
