package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/crypto"
)

// PublicKeyCommand creates the public key commands
func PublicKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "publickey",
		Usage: "Convert P-256 public keys",
		Commands: []*cli.Command{
			{
				Name:  "spki",
				Usage: "Convert a 65-byte uncompressed SEC1 point to SubjectPublicKeyInfo",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "sec1",
						Usage:    "Uncompressed SEC1 point",
						Required: true,
					},
					encodingFlag("Encoding of --sec1"),
					&cli.StringFlag{
						Name:  "output-encoding",
						Usage: "Encoding of the SPKI DER",
						Value: encodingBase64URL,
					},
				},
				Action: runSPKICommand,
			},
		},
	}
}

func runSPKICommand(ctx context.Context, cmd *cli.Command) error {
	sec1, err := decodeBinary(cmd.String("sec1"), cmd.String("encoding"))
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}

	spki, err := crypto.Sec1ToSPKI(sec1)
	if err != nil {
		return fmt.Errorf("failed to convert public key: %w", err)
	}

	encoded, err := encodeBinary(spki, cmd.String("output-encoding"))
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout(cmd), encoded)
	return nil
}
