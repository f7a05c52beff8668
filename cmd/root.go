// Package cmd implements the securesign command line tool.
package cmd

import (
	"github.com/urfave/cli/v3"
)

// App creates the root command
func App() *cli.Command {
	return &cli.Command{
		Name:  "securesign",
		Usage: "SecureSign signature and challenge tooling",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("SECURESIGN_VERBOSE"),
			},
		},
		Commands: []*cli.Command{
			SignatureCommand(),
			ChallengeCommand(),
			PublicKeyCommand(),
			KeyCommand(),
			VerifyCommand(),
			VectorsCommand(),
		},
	}
}
