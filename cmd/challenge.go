package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"cdr.dev/slog/v3"
	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/challenge"
)

// ChallengeCommand creates the challenge commands
func ChallengeCommand() *cli.Command {
	return &cli.Command{
		Name:  "challenge",
		Usage: "Validate and canonicalize challenges",
		Commands: []*cli.Command{
			canonicalizeCommand(),
		},
	}
}

func canonicalizeCommand() *cli.Command {
	flags := inputFlags("challenge", "Challenge JSON")
	flags = append(flags, &cli.BoolFlag{
		Name:  "json",
		Usage: "Output in JSON format",
	})

	return &cli.Command{
		Name:   "canonicalize",
		Usage:  "Print the canonical bytes a device signs for a challenge",
		Flags:  flags,
		Action: runCanonicalizeCommand,
	}
}

func runCanonicalizeCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	input, err := readInput(cmd, "challenge")
	if err != nil {
		return err
	}

	c, err := challenge.Parse(input)
	if err != nil {
		return fmt.Errorf("invalid challenge: %w", err)
	}
	canonical, err := c.Canonical()
	if err != nil {
		return fmt.Errorf("invalid challenge: %w", err)
	}
	hash := challenge.ComputeHash(canonical)
	logger.Debug(ctx, "canonicalized challenge",
		slog.F("kid", c.KeyID),
		slog.F("ts", c.Timestamp),
		slog.F("exp", c.Expiration),
		slog.F("sha256", hash),
	)

	if cmd.Bool("json") {
		jsonBytes, err := json.MarshalIndent(map[string]interface{}{
			"canonical": string(canonical),
			"sha256":    hash,
			"challenge": c,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, _ = fmt.Fprintln(stdout(cmd), string(jsonBytes))
		return nil
	}

	_, _ = fmt.Fprintln(stdout(cmd), string(canonical))
	_, _ = fmt.Fprintf(stderr(cmd), "✓ Challenge valid (SHA-256 %s)\n", hash)
	return nil
}
