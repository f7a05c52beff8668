package cmd

import (
	"context"
	"fmt"

	"cdr.dev/slog/v3"
	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/challenge"
	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/keys"
)

// KeyCommand creates the software keystore commands
func KeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "key",
		Usage: "Manage software signing keys",
		Commands: []*cli.Command{
			keyGenerateCommand(),
			keyPublicCommand(),
			keySignCommand(),
			keyDeleteCommand(),
		},
	}
}

func keyGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a P-256 key pair and print its public key",
		Flags: []cli.Flag{
			keyDirFlag(),
			keyNameFlag(true),
		},
		Action: runKeyGenerateCommand,
	}
}

func runKeyGenerateCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	dir, err := keyDir(cmd)
	if err != nil {
		return err
	}
	name := cmd.String("key-name")

	if _, err := keys.GenerateKey(dir, name); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	spki, err := keys.PublicKeySPKI(dir, name)
	if err != nil {
		return err
	}
	logger.Info(ctx, "generated key", slog.F("name", name), slog.F("dir", dir))

	_, _ = fmt.Fprintln(stdout(cmd), spki)
	_, _ = fmt.Fprintf(stderr(cmd), "✓ Key %q written to %s\n", name, dir)
	return nil
}

func keyPublicCommand() *cli.Command {
	return &cli.Command{
		Name:  "public",
		Usage: "Print the base64url SPKI public key of a stored key",
		Flags: []cli.Flag{
			keyDirFlag(),
			keyNameFlag(true),
		},
		Action: runKeyPublicCommand,
	}
}

func runKeyPublicCommand(ctx context.Context, cmd *cli.Command) error {
	dir, err := keyDir(cmd)
	if err != nil {
		return err
	}

	spki, err := keys.PublicKeySPKI(dir, cmd.String("key-name"))
	if err != nil {
		return fmt.Errorf("failed to load public key: %w", err)
	}
	_, _ = fmt.Fprintln(stdout(cmd), spki)
	return nil
}

func keySignCommand() *cli.Command {
	flags := []cli.Flag{
		keyDirFlag(),
		keyNameFlag(true),
		&cli.StringFlag{
			Name:  "format",
			Usage: "Signature format (p1363, der)",
			Value: "p1363",
		},
		&cli.StringFlag{
			Name:  "output-encoding",
			Usage: "Encoding of the signature",
			Value: encodingBase64URL,
		},
	}
	flags = append(flags, inputFlags("challenge", "Challenge JSON")...)

	return &cli.Command{
		Name:   "sign",
		Usage:  "Canonicalize a challenge and sign it like a device would",
		Flags:  flags,
		Action: runKeySignCommand,
	}
}

func runKeySignCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	input, err := readInput(cmd, "challenge")
	if err != nil {
		return err
	}
	canonical, err := challenge.Canonicalize(input)
	if err != nil {
		return fmt.Errorf("invalid challenge: %w", err)
	}

	dir, err := keyDir(cmd)
	if err != nil {
		return err
	}
	provider := &keys.FileKeyProvider{Dir: dir, KeyName: cmd.String("key-name")}
	priv, err := provider.GetSigningKey(ctx)
	if err != nil {
		return fmt.Errorf("failed to load signing key: %w", err)
	}

	var sig []byte
	switch format := cmd.String("format"); format {
	case "p1363":
		sig, err = crypto.SignP1363(priv, canonical)
	case "der":
		sig, err = crypto.SignWithECDSA(priv, canonical)
	default:
		return fmt.Errorf("unsupported signature format %q", format)
	}
	if err != nil {
		return err
	}
	logger.Debug(ctx, "signed challenge",
		slog.F("kid", provider.KeyID()),
		slog.F("canonical", string(canonical)),
		slog.F("format", cmd.String("format")),
	)

	encoded, err := encodeBinary(sig, cmd.String("output-encoding"))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout(cmd), encoded)
	return nil
}

func keyDeleteCommand() *cli.Command {
	return &cli.Command{
		Name:  "delete",
		Usage: "Delete a stored key",
		Flags: []cli.Flag{
			keyDirFlag(),
			keyNameFlag(true),
		},
		Action: runKeyDeleteCommand,
	}
}

func runKeyDeleteCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	dir, err := keyDir(cmd)
	if err != nil {
		return err
	}
	name := cmd.String("key-name")
	if err := keys.DeleteKey(dir, name); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	logger.Info(ctx, "deleted key", slog.F("name", name), slog.F("dir", dir))
	return nil
}
