package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/phpsniff/internal/configloader"
	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/fsutil"
	"github.com/yaklabco/phpsniff/pkg/runner"
)

type restoreFlags struct {
	keep   bool
	dryRun bool
}

func newRestoreCommand() *cobra.Command {
	flags := &restoreFlags{}

	cmd := &cobra.Command{
		Use:   "restore [paths...]",
		Short: "Undo fixes by restoring files from their backups",
		Long: `Restore PHP files from the backups written by fix, then delete the backups.

The backup location follows backups.mode from the configuration. Files
without a backup are left alone.

Examples:
  phpsniff restore                 Restore every file under the current directory
  phpsniff restore src/Cart.php    Restore one file
  phpsniff restore --dry-run src   List what would be restored`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.keep, "keep", false, "keep backup files after restoring")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "list files that have a backup without restoring them")
	return cmd
}

func runRestore(cmd *cobra.Command, args []string, flags *restoreFlags) error {
	ctx := commandContext(cmd)
	logger := logging.FromContext(ctx)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	loaded, err := configloader.Load(ctx, configloader.LoadOptions{WorkingDir: workDir, ExplicitPath: configPath})
	if err != nil {
		return withCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}
	cfg := loaded.Config
	mode := fsutil.BackupMode(cfg.Backups.Mode)

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir
	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	restored := 0
	for _, path := range files {
		if !fsutil.BackupExists(path, mode) {
			continue
		}
		display := relativeTo(workDir, path)
		if flags.dryRun {
			fmt.Fprintln(out, "would restore", display)
			restored++
			continue
		}

		ok, err := fsutil.RestoreBackup(ctx, path, mode)
		if err != nil {
			return withCode(ExitIOError, err)
		}
		if !ok {
			continue
		}
		if !flags.keep {
			if _, err := fsutil.RemoveBackup(path, mode); err != nil {
				return withCode(ExitIOError, err)
			}
		}
		fmt.Fprintln(out, "restored", display)
		restored++
	}

	logger.Debug("restore finished", logging.FieldFiles, restored, logging.FieldDryRun, flags.dryRun)
	if restored == 0 {
		fmt.Fprintln(out, "no backups found")
	}
	return nil
}

func relativeTo(dir, path string) string {
	if rel, err := filepath.Rel(dir, path); err == nil {
		return rel
	}
	return path
}
