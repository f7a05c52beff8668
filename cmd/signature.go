package cmd

import (
	"context"
	"fmt"

	"cdr.dev/slog/v3"
	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/crypto"
)

// SignatureCommand creates the signature conversion commands
func SignatureCommand() *cli.Command {
	return &cli.Command{
		Name:  "signature",
		Usage: "Convert ECDSA P-256 signatures between DER and P1363",
		Commands: []*cli.Command{
			signatureConvertCommand("der-to-p1363", "Convert an ASN.1 DER signature to 64-byte r||s", crypto.DerToP1363),
			signatureConvertCommand("p1363-to-der", "Convert a 64-byte r||s signature to ASN.1 DER", crypto.P1363ToDer),
		},
	}
}

func signatureConvertCommand(name, usage string, convert func([]byte) ([]byte, error)) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "signature",
				Usage:    "Input signature",
				Required: true,
			},
			encodingFlag("Encoding of --signature"),
			&cli.StringFlag{
				Name:  "output-encoding",
				Usage: "Encoding of the result (defaults to --encoding)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSignatureConvert(ctx, cmd, convert)
		},
	}
}

func runSignatureConvert(ctx context.Context, cmd *cli.Command, convert func([]byte) ([]byte, error)) error {
	logger := newLogger(cmd)

	encoding := cmd.String("encoding")
	outputEncoding := cmd.String("output-encoding")
	if outputEncoding == "" {
		outputEncoding = encoding
	}

	input, err := decodeBinary(cmd.String("signature"), encoding)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	out, err := convert(input)
	if err != nil {
		return fmt.Errorf("failed to convert signature: %w", err)
	}
	logger.Debug(ctx, "converted signature",
		slog.F("command", cmd.Name),
		slog.F("input_len", len(input)),
		slog.F("output_len", len(out)),
	)

	encoded, err := encodeBinary(out, outputEncoding)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(stdout(cmd), encoded)
	return nil
}
