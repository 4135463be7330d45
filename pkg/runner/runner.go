package runner

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing with safety guarantees.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and processes them with at most
// opts.Jobs files in flight. Outcomes are reported in discovery order no
// matter which worker finishes first. A failing file does not stop the run;
// cancelling ctx does.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx)

	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)
	logger.Debug("discovered files", logging.FieldFilesDiscovered, len(files))

	if len(files) == 0 {
		return result, nil
	}

	run := opts.Run
	if run == nil {
		var legacy []string
		if opts.Config != nil {
			legacy = opts.Config.LegacyProjects
		}
		run, err = lint.NewRunContext(legacy)
		if err != nil {
			return nil, fmt.Errorf("run context: %w", err)
		}
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	pipelineOpts := lint.PipelineOptionsFromConfig(opts.Config)
	pipelineOpts.Run = run

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, path := range files {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			outcomes[i] = r.process(ctx, path, opts, pipelineOpts)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for i, outcome := range outcomes {
		if done[i] {
			result.accumulate(outcome)
		}
	}

	logger.Debug("run finished",
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldDiagnosticsTotal, result.Stats.DiagnosticsTotal,
		logging.FieldFilesModified, result.Stats.FilesModified,
	)

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// process runs the pipeline on one file.
func (r *Runner) process(ctx context.Context, path string, opts Options, pipelineOpts lint.PipelineOptions) FileOutcome {
	outcome := FileOutcome{Path: path}
	ctx = logging.WithFile(ctx, path)

	pr, err := r.Pipeline.ProcessFile(ctx, path, opts.Config, pipelineOpts)
	if err != nil {
		logging.FromContext(ctx).Debug("file failed", logging.FieldError, err)
		outcome.Error = err
		return outcome
	}
	outcome.Result = pr
	return outcome
}
