package reporter

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/yaklabco/phpsniff/internal/ui/pretty"
	"github.com/yaklabco/phpsniff/pkg/analysis"
)

// SummaryRenderer prints the per-rule and per-file tables instead of
// individual diagnostics.
type SummaryRenderer struct {
	opts   Options
	styles *pretty.Styles
}

func NewSummaryRenderer(opts Options) *SummaryRenderer {
	color := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryRenderer{opts: opts, styles: pretty.NewStyles(color)}
}

func (r *SummaryRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	for _, fe := range report.FileErrors {
		fmt.Fprintln(bw, r.styles.FormatFileError(fe))
	}

	totals := report.Totals
	if totals.HasIssues() {
		r.section(bw, "Rules", r.styles.RuleTable(report.ByRule))
		fmt.Fprintln(bw)
		r.section(bw, "Files", r.styles.FileTable(report.ByFile))
		if r.opts.ShowSummary {
			fmt.Fprint(bw, r.styles.FormatSummary(totals))
			return nil
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprint(bw, r.styles.FormatSummaryOneLine(totals))
	return nil
}

func (r *SummaryRenderer) section(w io.Writer, title, table string) {
	fmt.Fprintln(w, r.styles.Bold.Render(title))
	fmt.Fprint(w, table)
}
