package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"cdr.dev/slog/v3"
	"cdr.dev/slog/v3/sloggers/sloghuman"
	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/keys"
)

// Binary encodings accepted and produced by the commands.
const (
	encodingHex       = "hex"
	encodingBase64URL = "base64url"
	encodingBase64    = "base64"
)

// stdout returns the writer for command results.
func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// stderr returns the writer for summaries and logs.
func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// newLogger builds the human logger for a command, at debug level when
// --verbose is set on the root.
func newLogger(cmd *cli.Command) slog.Logger {
	logger := slog.Make(sloghuman.Sink(stderr(cmd)))
	if cmd.Root().Bool("verbose") {
		return logger.Leveled(slog.LevelDebug)
	}
	return logger.Leveled(slog.LevelWarn)
}

func encodingFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "encoding",
		Usage: usage + " (hex, base64url, base64)",
		Value: encodingHex,
	}
}

func decodeBinary(s, encoding string) ([]byte, error) {
	s = strings.TrimSpace(s)
	switch encoding {
	case encodingHex:
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, fmt.Errorf("failed to decode hex: %w", err)
		}
		return b, nil
	case encodingBase64URL:
		return crypto.DecodeBase64URL(s)
	case encodingBase64:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", encoding)
}

func encodeBinary(b []byte, encoding string) (string, error) {
	switch encoding {
	case encodingHex:
		return hex.EncodeToString(b), nil
	case encodingBase64URL:
		return base64.RawURLEncoding.EncodeToString(b), nil
	case encodingBase64:
		return base64.StdEncoding.EncodeToString(b), nil
	}
	return "", fmt.Errorf("unsupported encoding %q", encoding)
}

// readInput returns the --<name> flag value, or the contents of the
// --<name>-file flag ("-" reads stdin). Exactly one must be set.
func readInput(cmd *cli.Command, name string) ([]byte, error) {
	value := cmd.String(name)
	path := cmd.String(name + "-file")

	if value == "" && path == "" {
		return nil, fmt.Errorf("either --%s or --%s-file must be provided", name, name)
	}
	if value != "" && path != "" {
		return nil, fmt.Errorf("only one of --%s or --%s-file should be provided", name, name)
	}
	if value != "" {
		return []byte(value), nil
	}

	if path == "-" {
		reader := cmd.Root().Reader
		if reader == nil {
			reader = os.Stdin
		}
		b, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return b, nil
}

func inputFlags(name, usage string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  name,
			Usage: usage,
		},
		&cli.StringFlag{
			Name:  name + "-file",
			Usage: "Path to a file holding the " + name + " (- for stdin)",
		},
	}
}

func keyDirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "key-dir",
		Usage:   "Key directory (default ~/.config/securesign/keys)",
		Sources: cli.EnvVars(keys.EnvKeyDir),
	}
}

func keyNameFlag(required bool) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "key-name",
		Usage:    "Key name, also used as the challenge kid",
		Sources:  cli.EnvVars("SECURESIGN_KEY_NAME"),
		Required: required,
	}
}

// keyDir resolves --key-dir, falling back to keys.DefaultDir.
func keyDir(cmd *cli.Command) (string, error) {
	if dir := cmd.String("key-dir"); dir != "" {
		return dir, nil
	}
	return keys.DefaultDir()
}
