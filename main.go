package main

import (
	"context"
	"os"

	"cdr.dev/slog/v3"
	"cdr.dev/slog/v3/sloggers/sloghuman"

	"github.com/securesign/securesign-core/cmd"
	"github.com/securesign/securesign-core/errcode"
)

func main() {
	ctx := context.Background()
	app := cmd.App()

	if err := app.Run(ctx, os.Args); err != nil {
		logger := slog.Make(sloghuman.Sink(os.Stderr))
		logger.Error(ctx, "command failed",
			slog.Error(err),
			slog.F("code", int32(errcode.CodeOf(err))),
		)
		os.Exit(1)
	}
}
