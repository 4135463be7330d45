// Package reporter renders lint results as terminal text, JSON, SARIF,
// unified diffs or summary tables.
package reporter

import (
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/analysis"
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/runner"
)

// Format names an output format. It is the configuration type, so a
// configured format is used as is.
type Format = config.OutputFormat

const (
	FormatText    = config.FormatText
	FormatJSON    = config.FormatJSON
	FormatSARIF   = config.FormatSARIF
	FormatDiff    = config.FormatDiff
	FormatSummary = config.FormatSummary
)

// Formats lists every supported format.
func Formats() []Format {
	return config.OutputFormats()
}

// ParseFormat accepts a format name in any case; "" means text.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatText, nil
	}
	if f := Format(strings.ToLower(s)); f.IsValid() {
		return f, nil
	}

	names := make([]string, 0, len(Formats()))
	for _, f := range Formats() {
		names = append(names, f.String())
	}
	return "", fmt.Errorf("unknown format %q; valid formats: %s", s, strings.Join(names, ", "))
}

// Renderer writes an analysis.Report. Counting is done by analysis;
// renderers only present.
type Renderer interface {
	Render(ctx context.Context, report *analysis.Report) error
}

// Reporter writes the results of a run and returns how many issues it
// reported.
type Reporter interface {
	Report(ctx context.Context, result *runner.Result) (int, error)
}

var _ Reporter = (*analyzingReporter)(nil)

// analyzingReporter builds the views its renderer needs, then renders.
type analyzingReporter struct {
	renderer Renderer
	views    analysis.Options
}

func (r *analyzingReporter) Report(ctx context.Context, result *runner.Result) (int, error) {
	report := analysis.Analyze(result, r.views)
	if err := r.renderer.Render(ctx, report); err != nil {
		return 0, fmt.Errorf("render: %w", err)
	}
	return report.Totals.Issues, nil
}

// New returns the Reporter for opts.Format, text when unset.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.Format == "" {
		opts.Format = FormatText
	}

	renderer, err := NewRenderer(opts)
	if err != nil {
		return nil, err
	}
	return &analyzingReporter{renderer: renderer, views: opts.analysisOptions()}, nil
}

// NewRenderer returns the Renderer for opts.Format.
func NewRenderer(opts Options) (Renderer, error) {
	switch opts.Format {
	case FormatText:
		return NewTextRenderer(opts), nil
	case FormatJSON:
		return NewJSONRenderer(opts), nil
	case FormatSARIF:
		return NewSARIFRenderer(opts), nil
	case FormatDiff:
		return NewDiffRenderer(opts), nil
	case FormatSummary:
		return NewSummaryRenderer(opts), nil
	}
	return nil, fmt.Errorf("unsupported format: %s", opts.Format)
}
