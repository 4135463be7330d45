package reporter

import (
	"io"
	"os"

	"github.com/yaklabco/phpsniff/pkg/analysis"
	"github.com/yaklabco/phpsniff/pkg/config"
)

const bufWriterSize = 64 * 1024

// Options configures a Reporter.
type Options struct {
	Writer io.Writer
	Format Format

	// Color is "auto", "always" or "never".
	Color string

	// ShowContext prints the offending line with a caret (text format).
	ShowContext bool
	ShowSummary bool
	GroupByFile bool

	// Compact minifies JSON and SARIF.
	Compact bool

	RuleFormat config.RuleFormat

	// SortBy orders the tables of the summary format.
	SortBy analysis.SortField

	// WorkingDir, when set, makes printed paths relative to it.
	WorkingDir string

	// ToolVersion and RuleDescriptions feed the SARIF driver metadata.
	ToolVersion      string
	RuleDescriptions map[string]string
}

// DefaultOptions prints grouped, colored text with context to stdout.
func DefaultOptions() Options {
	return Options{
		Writer:      os.Stdout,
		Format:      FormatText,
		Color:       "auto",
		ShowContext: true,
		ShowSummary: true,
		GroupByFile: true,
		RuleFormat:  config.RuleFormatID,
		SortBy:      analysis.SortByCount,
		ToolVersion: "dev",
	}
}

// analysisOptions requests only the views the format renders.
func (o Options) analysisOptions() analysis.Options {
	views := analysis.Options{
		IncludeSource: o.Format == FormatText && o.ShowContext,
		SortBy:        o.SortBy,
		SortDesc:      true,
		WorkingDir:    o.WorkingDir,
	}
	switch o.Format {
	case FormatSummary:
		views.IncludeByFile = true
		views.IncludeByRule = true
	case FormatSARIF:
		views.IncludeDiagnostics = true
		views.IncludeByRule = true
	default:
		views.IncludeDiagnostics = true
	}
	if views.SortBy == "" {
		views.SortBy = analysis.SortByCount
	}
	return views
}
