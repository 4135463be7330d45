package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/phpsniff/internal/ui/pretty"
	"github.com/yaklabco/phpsniff/pkg/analysis"
)

// TextRenderer formats results as styled terminal output.
type TextRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer(opts Options) *TextRenderer {
	return &TextRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Render implements Renderer.
func (r *TextRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if report.Totals.Files == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(bw, r.styles.Success.Render("No files to check."))
		}
		return nil
	}

	for _, fe := range report.FileErrors {
		fmt.Fprintln(bw, r.styles.FormatFileError(fe))
	}
	if len(report.FileErrors) > 0 {
		fmt.Fprintln(bw)
	}

	if r.opts.GroupByFile {
		r.renderGrouped(bw, report.Diagnostics)
	} else {
		for i := range report.Diagnostics {
			fmt.Fprint(bw, r.styles.FormatDiagnostic(&report.Diagnostics[i], r.opts.ShowContext, r.opts.RuleFormat))
		}
	}

	if r.opts.ShowSummary {
		fmt.Fprint(bw, r.styles.FormatSummaryOneLine(report.Totals))
	}
	return nil
}

// renderGrouped writes diagnostics under a header per file. Diagnostics
// arrive grouped by file already, in discovery order.
func (r *TextRenderer) renderGrouped(bw *bufio.Writer, diags []analysis.DiagnosticEntry) {
	for start := 0; start < len(diags); {
		end := start
		for end < len(diags) && diags[end].FilePath == diags[start].FilePath {
			end++
		}

		fmt.Fprintln(bw, r.styles.FormatFileHeader(diags[start].FilePath, end-start))
		for i := start; i < end; i++ {
			fmt.Fprint(bw, r.styles.FormatDiagnostic(&diags[i], r.opts.ShowContext, r.opts.RuleFormat))
		}
		fmt.Fprintln(bw)

		start = end
	}
}
