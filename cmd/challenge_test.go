package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/securesign/securesign-core/challenge"
	"github.com/securesign/securesign-core/errcode"
	"github.com/securesign/securesign-core/testdata"
)

func TestChallengeCommand(t *testing.T) {
	cmd := ChallengeCommand()

	require.NotNil(t, cmd)
	require.Equal(t, "challenge", cmd.Name)
	require.NotEmpty(t, cmd.Usage)

	sub := findSubcommand(t, cmd, "canonicalize")
	require.False(t, findStringFlag(t, sub, "challenge").Required)
	require.False(t, findStringFlag(t, sub, "challenge-file").Required)
}

func TestCanonicalizeCommand(t *testing.T) {
	want := string(testdata.ChallengeCanonical) + "\n"

	t.Run("from flag", func(t *testing.T) {
		stdout, stderr, err := runApp(t, "", "challenge", "canonicalize",
			"--challenge", string(testdata.ChallengeJSON))
		require.NoError(t, err)
		require.Equal(t, want, stdout)
		require.Contains(t, stderr, challenge.ComputeHash(testdata.ChallengeCanonical))
	})

	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "challenge.json")
		require.NoError(t, os.WriteFile(path, testdata.ChallengeJSON, 0o600))

		stdout, _, err := runApp(t, "", "challenge", "canonicalize", "--challenge-file", path)
		require.NoError(t, err)
		require.Equal(t, want, stdout)
	})

	t.Run("from stdin", func(t *testing.T) {
		stdout, _, err := runApp(t, string(testdata.ChallengeJSON),
			"challenge", "canonicalize", "--challenge-file", "-")
		require.NoError(t, err)
		require.Equal(t, want, stdout)
	})

	t.Run("json output", func(t *testing.T) {
		stdout, _, err := runApp(t, "", "challenge", "canonicalize",
			"--challenge", string(testdata.ChallengeJSON), "--json")
		require.NoError(t, err)

		var out map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		require.Equal(t, string(testdata.ChallengeCanonical), out["canonical"])
		require.Equal(t, challenge.ComputeHash(testdata.ChallengeCanonical), out["sha256"])
	})

	t.Run("invalid challenge keeps its code", func(t *testing.T) {
		_, _, err := runApp(t, "", "challenge", "canonicalize",
			"--challenge", `{"version":"SS2"}`)
		require.Error(t, err)
		require.Equal(t, errcode.InvalidVersion, errcode.CodeOf(err))
	})

	t.Run("missing input", func(t *testing.T) {
		_, _, err := runApp(t, "", "challenge", "canonicalize")
		require.Error(t, err)
		require.Contains(t, err.Error(), "either --challenge or --challenge-file must be provided")
	})

	t.Run("both inputs", func(t *testing.T) {
		_, _, err := runApp(t, "", "challenge", "canonicalize",
			"--challenge", "{}", "--challenge-file", "x.json")
		require.Error(t, err)
		require.Contains(t, err.Error(), "only one of --challenge or --challenge-file")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := runApp(t, "", "challenge", "canonicalize",
			"--challenge-file", filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to read file")
	})
}
