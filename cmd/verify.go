package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cdr.dev/slog/v3"
	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/crypto"
	"github.com/securesign/securesign-core/keys"
	"github.com/securesign/securesign-core/verify"
)

// ErrVerificationFailed is returned when a well formed signature does not
// verify.
var ErrVerificationFailed = errors.New("verification failed")

// VerifyCommand creates the verify command
func VerifyCommand() *cli.Command {
	flags := inputFlags("challenge", "Challenge JSON as issued")
	flags = append(flags,
		&cli.StringFlag{
			Name:     "signature",
			Usage:    "Device signature",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "encoding",
			Usage: "Encoding of --signature (hex, base64url, base64)",
			Value: encodingBase64URL,
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Signature format (p1363, der); detected from the length when empty",
		},
		&cli.StringFlag{
			Name:  "kid",
			Usage: "Key ID, overriding the challenge kid",
		},
		&cli.StringFlag{
			Name:  "public-key",
			Usage: "Base64url SPKI public key; the key directory is used when empty",
		},
		keyDirFlag(),
		&cli.BoolFlag{
			Name:  "check-expiry",
			Usage: "Reject signatures outside the challenge [ts, exp) window",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output in JSON format",
		},
	)

	return &cli.Command{
		Name:   "verify",
		Usage:  "Verify a device signature over a challenge",
		Flags:  flags,
		Action: runVerifyCommand,
	}
}

func runVerifyCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	challengeJSON, err := readInput(cmd, "challenge")
	if err != nil {
		return err
	}
	sig, err := decodeBinary(cmd.String("signature"), cmd.String("encoding"))
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	resolver, err := buildResolver(cmd)
	if err != nil {
		return err
	}

	// Perform verification
	service := verify.NewService(resolver)
	result, err := service.Verify(ctx, &verify.VerifyRequest{
		Challenge:   challengeJSON,
		Signature:   sig,
		Format:      verify.SignatureFormat(cmd.String("format")),
		KeyID:       cmd.String("kid"),
		CheckExpiry: cmd.Bool("check-expiry"),
	})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	logger.Debug(ctx, "verified signature",
		slog.F("kid", result.KeyID),
		slog.F("valid", result.Valid),
		slog.F("canonical_sha256", result.CanonicalHash),
	)

	formatter := verify.NewFormatter()
	if cmd.Bool("json") {
		jsonOutput, err := json.MarshalIndent(formatter.FormatVerificationResult(result), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, _ = fmt.Fprintln(stdout(cmd), string(jsonOutput))
	} else {
		_, _ = fmt.Fprint(stdout(cmd), formatter.FormatVerificationText(result, ""))
	}

	if !result.Valid {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, result.Message)
	}
	return nil
}

func buildResolver(cmd *cli.Command) (verify.KeyResolver, error) {
	if spki := cmd.String("public-key"); spki != "" {
		pub, err := crypto.ParseSPKIBase64URL(spki)
		if err != nil {
			return nil, fmt.Errorf("invalid --public-key: %w", err)
		}
		return &keys.FixedResolver{Key: pub}, nil
	}

	dir, err := keyDir(cmd)
	if err != nil {
		return nil, err
	}
	return &keys.DirResolver{Dir: dir}, nil
}
