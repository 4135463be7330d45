package lint

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/fsutil"
)

// DefaultMaxFixPasses bounds the fix loop when PipelineOptions leaves it zero.
// Rules whose fixes keep producing new edits stop here and are reported as
// not converged.
const DefaultMaxFixPasses = 10

// Error categories returned by the pipeline; test with errors.Is.
var (
	ErrFileNotFound     = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrParseFailure     = errors.New("parse failure")
	ErrWriteFailure     = errors.New("write failure")
)

// PipelineResult is the outcome of running one file through the pipeline.
type PipelineResult struct {
	// FileResult is the lint result of the last pass, i.e. of the content
	// that was (or would be) written.
	*FileResult

	Path         string
	OriginalInfo *fsutil.Snapshot

	Modified        bool
	ModifiedContent []byte

	// Diff is set in dry-run mode only.
	Diff *fix.Diff

	Skipped    bool
	SkipReason string

	BackupCreated bool
	Written       bool

	FixPasses         int
	TotalEditsApplied int

	// Converged is false when MaxFixPasses ran out with edits still pending.
	Converged bool
}

// Summary is a one-phrase status for the file.
func (pr *PipelineResult) Summary() string {
	switch {
	case pr.Skipped:
		return "skipped: " + pr.SkipReason
	case pr.Written && pr.BackupCreated:
		return "fixed (backup created)"
	case pr.Written:
		return "fixed"
	case pr.Modified:
		return "changes pending"
	case pr.FileResult != nil && pr.HasIssues():
		return "issues found"
	}
	return "ok"
}

// PipelineOptions controls fixing and writing.
type PipelineOptions struct {
	Fix    bool
	DryRun bool
	Backup fsutil.BackupConfig

	// StrictRaceDetection compares content hashes before writing instead of
	// only size and modification time.
	StrictRaceDetection bool

	// ReParseAfterFix tokenizes fixed content again and discards the fixes
	// if that fails.
	ReParseAfterFix bool

	// Run is shared by every file of a run; nil is allowed.
	Run *RunContext

	// MaxFixPasses of 0 means DefaultMaxFixPasses.
	MaxFixPasses int
}

// DefaultPipelineOptions returns lint-only options with the safety checks on.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		Backup:              fsutil.DefaultBackupConfig(),
		StrictRaceDetection: true,
		ReParseAfterFix:     true,
	}
}

// Pipeline wraps an Engine with file I/O, the fix loop and safe writes.
type Pipeline struct {
	Engine *Engine
}

// NewPipeline returns a pipeline around engine.
func NewPipeline(engine *Engine) *Pipeline {
	return &Pipeline{Engine: engine}
}

// ProcessFile reads path, lints and optionally fixes it, and writes the
// result back unless in dry-run mode. The write is skipped when the file
// changed on disk while it was being processed; otherwise an optional backup
// is taken and the file replaced atomically.
func (p *Pipeline) ProcessFile(
	ctx context.Context,
	path string,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	content, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	result, err := p.ProcessContent(ctx, path, content, cfg, opts)
	if err != nil {
		return nil, err
	}
	result.OriginalInfo = snap

	if result.Modified && !opts.DryRun {
		if err := p.commit(ctx, result, snap, opts); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (p *Pipeline) commit(ctx context.Context, result *PipelineResult, snap *fsutil.Snapshot, opts PipelineOptions) error {
	changed, err := snap.Changed(ctx, opts.StrictRaceDetection)
	if err != nil {
		return fmt.Errorf("check modified: %w", err)
	}
	if changed {
		result.Skipped = true
		result.SkipReason = "file modified during processing"
		return nil
	}

	if opts.Backup.Enabled {
		result.BackupCreated, err = fsutil.CreateBackup(ctx, result.Path, opts.Backup)
		if err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := fsutil.WriteAtomic(ctx, result.Path, result.ModifiedContent, snap.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true
	return nil
}

// ProcessContent is ProcessFile without the file I/O. In dry-run mode the
// result carries a diff of the fixes.
func (p *Pipeline) ProcessContent(
	ctx context.Context,
	path string,
	original []byte,
	cfg *config.Config,
	opts PipelineOptions,
) (*PipelineResult, error) {
	result := &PipelineResult{Path: path}

	fixed, err := p.fixLoop(ctx, path, original, cfg, opts, result)
	if err != nil {
		return nil, err
	}
	if !result.Modified {
		return result, nil
	}

	if opts.ReParseAfterFix {
		if _, err := p.Engine.Tokenizer.Tokenize(ctx, path, fixed); err != nil {
			result.Modified = false
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("re-tokenize failed: %v", err)
			return result, nil
		}
	}

	result.ModifiedContent = fixed
	if opts.DryRun {
		result.Diff = fix.GenerateDiff(path, original, fixed)
	}
	return result, nil
}

// fixLoop lints content and, when fixing, applies the edits and lints again
// until a pass yields no edits. Edits dropped as conflicting get another
// chance on the next pass. result.FileResult holds the last pass.
func (p *Pipeline) fixLoop(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	opts PipelineOptions,
	result *PipelineResult,
) ([]byte, error) {
	limit := opts.MaxFixPasses
	if limit <= 0 {
		limit = DefaultMaxFixPasses
	}
	result.Converged = true

	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("processing cancelled: %w", err)
		}

		fr, err := p.Engine.LintFile(ctx, path, content, cfg, opts.Run)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParseFailure, err)
		}
		result.FileResult = fr

		switch {
		case !opts.Fix || len(fr.Edits) == 0:
			return content, nil
		case result.FixPasses == limit:
			result.Converged = false
			logging.FromContext(ctx).Debug("fix passes exhausted", logging.FieldPasses, limit)
			return content, nil
		}

		content = fix.ApplyEdits(content, fr.Edits)
		result.FixPasses++
		result.TotalEditsApplied += len(fr.Edits)
		result.Modified = true
	}
}

func categorizeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fsutil.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied), errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	return err
}

// IsPipelineError reports whether err belongs to one of the pipeline's
// error categories.
func IsPipelineError(err error) bool {
	for _, target := range []error{ErrFileNotFound, ErrPermissionDenied, ErrParseFailure, ErrWriteFailure} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// BackupConfigFromConfig derives backup settings; --no-backups wins over
// the config file.
func BackupConfigFromConfig(cfg *config.Config) fsutil.BackupConfig {
	if cfg == nil {
		return fsutil.DefaultBackupConfig()
	}
	return fsutil.BackupConfig{
		Enabled: cfg.Backups.Enabled && !cfg.NoBackups,
		Mode:    fsutil.BackupMode(cfg.Backups.Mode),
	}
}

// PipelineOptionsFromConfig derives pipeline options from cfg.
func PipelineOptionsFromConfig(cfg *config.Config) PipelineOptions {
	opts := DefaultPipelineOptions()
	if cfg != nil {
		opts.Fix = cfg.Fix
		opts.DryRun = cfg.DryRun
		opts.Backup = BackupConfigFromConfig(cfg)
	}
	return opts
}
