package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cdr.dev/slog/v3"
	"github.com/urfave/cli/v3"

	"github.com/securesign/securesign-core/verify"
	"github.com/securesign/securesign-core/vectors"
)

// ErrConformance is returned when a suite run has failing vectors.
var ErrConformance = errors.New("conformance vectors failed")

// VectorsCommand creates the conformance vector commands
func VectorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "vectors",
		Usage: "Export and check cross-platform conformance vectors",
		Commands: []*cli.Command{
			vectorsExportCommand(),
			vectorsCheckCommand(),
		},
	}
}

func vectorsExportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write the built-in suite as Borsh or CBOR",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "out",
				Usage:    "Output file path",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Encoding (borsh, cbor); inferred from the extension when empty",
			},
		},
		Action: runVectorsExportCommand,
	}
}

func vectorFormat(cmd *cli.Command, path string) (vectors.Format, error) {
	if f := cmd.String("format"); f != "" {
		return vectors.ParseFormat(f)
	}
	return vectors.FormatFromPath(path)
}

func runVectorsExportCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	path := cmd.String("out")
	format, err := vectorFormat(cmd, path)
	if err != nil {
		return err
	}

	suite := vectors.Builtin()
	data, err := vectors.Encode(suite, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vectors: %w", err)
	}

	digest, err := suite.Digest()
	if err != nil {
		return err
	}
	logger.Info(ctx, "exported vectors",
		slog.F("path", path),
		slog.F("format", string(format)),
		slog.F("count", len(suite.Vectors)),
		slog.F("bytes", len(data)),
	)

	_, _ = fmt.Fprintf(stderr(cmd), "✓ Wrote %d vectors to %s\n", len(suite.Vectors), path)
	_, _ = fmt.Fprintln(stdout(cmd), digest)
	return nil
}

func vectorsCheckCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run a suite against this implementation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "in",
				Usage: "Suite file; the built-in suite is used when empty",
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Encoding (borsh, cbor); inferred from the extension when empty",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output in JSON format",
			},
		},
		Action: runVectorsCheckCommand,
	}
}

func runVectorsCheckCommand(ctx context.Context, cmd *cli.Command) error {
	logger := newLogger(cmd)

	suite := vectors.Builtin()
	if path := cmd.String("in"); path != "" {
		format, err := vectorFormat(cmd, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		if suite, err = vectors.Decode(data, format); err != nil {
			return err
		}
		logger.Debug(ctx, "loaded vectors", slog.F("path", path), slog.F("count", len(suite.Vectors)))
	}

	report := vectors.Run(suite)
	formatter := verify.NewFormatter()

	if cmd.Bool("json") {
		jsonOutput, err := json.MarshalIndent(formatter.FormatReportJSON(report), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, _ = fmt.Fprintln(stdout(cmd), string(jsonOutput))
	} else {
		_, _ = fmt.Fprint(stdout(cmd), formatter.FormatReport(report))
	}

	if !report.OK() {
		return fmt.Errorf("%w: %d of %d", ErrConformance, report.Failed, len(report.Results))
	}
	return nil
}
