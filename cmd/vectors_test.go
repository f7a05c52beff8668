package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/securesign/securesign-core/vectors"
)

func TestVectorsCommand(t *testing.T) {
	cmd := VectorsCommand()

	require.NotNil(t, cmd)
	require.Equal(t, "vectors", cmd.Name)
	require.NotEmpty(t, cmd.Usage)
	require.Len(t, cmd.Commands, 2)

	export := findSubcommand(t, cmd, "export")
	require.True(t, findStringFlag(t, export, "out").Required)
	require.False(t, findStringFlag(t, export, "format").Required)

	check := findSubcommand(t, cmd, "check")
	require.False(t, findStringFlag(t, check, "in").Required)
}

func TestVectorsExportAndCheck(t *testing.T) {
	digest, err := vectors.Builtin().Digest()
	require.NoError(t, err)

	for _, name := range []string{"suite.borsh", "suite.cbor"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			stdout, stderr, err := runApp(t, "", "vectors", "export", "--out", path)
			require.NoError(t, err)
			require.Equal(t, digest, strings.TrimSpace(stdout))
			require.Contains(t, stderr, path)

			suite, err := vectors.DecodeFromFile(path)
			require.NoError(t, err)
			require.Len(t, suite.Vectors, len(vectors.Builtin().Vectors))

			stdout, _, err = runApp(t, "", "vectors", "check", "--in", path)
			require.NoError(t, err)
			require.Contains(t, stdout, "0 failed")
		})
	}
}

func TestVectorsExportExplicitFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "suite.dat")

	_, _, err := runApp(t, "", "vectors", "export", "--out", path)
	require.Error(t, err)

	_, _, err = runApp(t, "", "vectors", "export", "--out", path, "--format", "cbor")
	require.NoError(t, err)

	_, _, err = runApp(t, "", "vectors", "check", "--in", path, "--format", "cbor")
	require.NoError(t, err)
}

func TestVectorsCheckBuiltin(t *testing.T) {
	stdout, _, err := runApp(t, "", "vectors", "check", "--json")
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.EqualValues(t, 0, out["failed"])
}

func TestVectorsCheckFailure(t *testing.T) {
	suite := vectors.Builtin()
	suite.Vectors[0].Expected = []byte{0x00}

	data, err := vectors.Encode(suite, vectors.FormatCBOR)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "broken.cbor")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	stdout, _, err := runApp(t, "", "vectors", "check", "--in", path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrConformance))
	require.Contains(t, stdout, "FAIL "+suite.Vectors[0].Name)
}

func TestVectorsCheckMissingFile(t *testing.T) {
	_, _, err := runApp(t, "", "vectors", "check", "--in", filepath.Join(t.TempDir(), "missing.cbor"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read file")
}
