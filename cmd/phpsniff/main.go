// Command phpsniff lints and fixes PHP sources.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/phpsniff/internal/cli"
	"github.com/yaklabco/phpsniff/internal/logging"
)

// Set with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // link-time stamps
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date}).Execute()

	// Lint findings were already reported; only the exit code remains.
	if err != nil && !errors.Is(err, cli.ErrLintIssuesFound) {
		logging.Default().Error("phpsniff failed", logging.FieldError, err)
	}
	os.Exit(cli.ExitCode(err))
}
