package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/config"
)

// defaultDebounce groups the bursts of events an editor save produces.
const defaultDebounce = 300 * time.Millisecond

// skippedWatchDirs are never watched.
//
//nolint:gochecknoglobals // Read-only lookup table.
var skippedWatchDirs = []string{"vendor", "node_modules"}

func newWatchCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Re-lint PHP files whenever they change",
		Long: `Lint once, then watch the given paths and lint again after every change
to a PHP file. Stop with Ctrl-C.

Examples:
  phpsniff watch src/            # Re-lint src/ on every save
  phpsniff watch --fix           # Fix files as they are saved`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, &cfg, flags, info, debounce)
		},
	}

	addLintFlags(cmd, &cfg, flags)
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before re-linting")

	return cmd
}

func runWatch(
	cmd *cobra.Command,
	args []string,
	cfg *config.Config,
	flags *lintFlags,
	info BuildInfo,
	debounce time.Duration,
) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := newLintSession(ctx, cmd, args, cfg, flags, info)
	if err != nil {
		return err
	}
	logger := session.logger

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("initializing file watcher: %w", err)
	}
	defer watcher.Close()

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
	}
	dirs, err := watchDirs(roots)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if _, err := session.run(ctx); err != nil {
		return err
	}
	logger.Info("watching for changes", logging.FieldPaths, roots)

	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return errors.New("file watcher closed")
			}
			if event.Has(fsnotify.Create) {
				if stat, err := os.Stat(event.Name); err == nil && stat.IsDir() && !skipWatchDir(stat.Name()) {
					if err := watcher.Add(event.Name); err != nil {
						logger.Warn("cannot watch directory", logging.FieldPath, event.Name, logging.FieldError, err)
					}
					continue
				}
			}
			if !isWatchedFile(event.Name, session.cfg.Extensions) {
				continue
			}
			logger.Debug("file changed", logging.FieldPath, event.Name, logging.FieldEvent, event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return errors.New("file watcher closed")
			}
			logger.Warn("file watcher error", logging.FieldError, err)

		case <-timer.C:
			if _, err := session.run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("lint run failed", logging.FieldError, err)
			}
		}
	}
}

// watchDirs returns every directory under roots that should be watched.
// A file root contributes its parent directory.
func watchDirs(roots []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && skipWatchDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	return dirs, nil
}

// skipWatchDir reports whether a directory is hidden or holds dependencies.
func skipWatchDir(name string) bool {
	return strings.HasPrefix(name, ".") || slices.Contains(skippedWatchDirs, name)
}

// isWatchedFile reports whether a change to path should trigger a lint run.
func isWatchedFile(path string, extensions []string) bool {
	if len(extensions) == 0 {
		extensions = config.DefaultExtensions()
	}
	return slices.Contains(extensions, strings.ToLower(filepath.Ext(path)))
}
