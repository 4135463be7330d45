// Package cli wires the phpsniff commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpsniff/internal/configloader"
	"github.com/yaklabco/phpsniff/internal/logging"
)

// BuildInfo is stamped into the binary at link time.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

const rootLong = `phpsniff checks PHP sources against a coding standard and fixes what it can.

Rules see a lossless token stream and stage edits on it, so a fix never
touches bytes outside the tokens it names. Fixed content is tokenized again
before it is written, and files are replaced atomically, with a backup unless
disabled.

Environment:
`

// NewRootCommand builds the phpsniff command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug bool
		color string
	)

	root := &cobra.Command{
		Use:   "phpsniff",
		Short: "A token-based PHP style linter and fixer",
		Long:  rootLong + configloader.EnvHelp(),
		PersistentPreRun: func(*cobra.Command, []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	flags := root.PersistentFlags()
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.String("config", "", "path to config file")
	flags.StringVar(&color, "color", "auto", "colorize output: auto, always, never")

	root.AddCommand(
		newLintCommand(info),
		newFixCommand(info),
		newWatchCommand(info),
		newRestoreCommand(),
		newRulesCommand(),
		newInitCommand(),
		newVersionCommand(info),
	)

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(root)
	return root
}
