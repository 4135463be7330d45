package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/phpsniff/internal/ui/pretty"
	"github.com/yaklabco/phpsniff/pkg/analysis"
	"github.com/yaklabco/phpsniff/pkg/fix"
)

// DiffRenderer formats pending fixes as git-style unified diffs.
type DiffRenderer struct {
	opts   Options
	styles *pretty.Styles
}

// NewDiffRenderer creates a new diff renderer.
func NewDiffRenderer(opts Options) *DiffRenderer {
	return &DiffRenderer{
		opts:   opts,
		styles: pretty.NewStyles(pretty.IsColorEnabled(opts.Color, opts.Writer)),
	}
}

// Render implements Renderer.
func (r *DiffRenderer) Render(_ context.Context, report *analysis.Report) (err error) {
	bw := bufio.NewWriterSize(r.opts.Writer, bufWriterSize)
	defer func() {
		if flushErr := bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	for _, fe := range report.FileErrors {
		fmt.Fprintln(bw, r.styles.FormatFileError(fe))
	}

	var additions, deletions int
	for _, entry := range report.Diffs {
		additions += entry.Diff.Additions
		deletions += entry.Diff.Deletions
		r.writeDiff(bw, entry.Path, entry.Diff)
	}

	if len(report.Diffs) > 0 && r.opts.ShowSummary {
		r.writeSummary(bw, len(report.Diffs), additions, deletions)
	}
	return nil
}

// writeDiff outputs a single file's diff under a git header.
func (r *DiffRenderer) writeDiff(bw *bufio.Writer, path string, diff *fix.Diff) {
	fmt.Fprintln(bw, r.styles.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", path, path)))
	fmt.Fprintln(bw, r.styles.DiffRemove.Render("--- a/"+path))
	fmt.Fprintln(bw, r.styles.DiffAdd.Render("+++ b/"+path))

	for _, hunk := range diff.Hunks {
		fmt.Fprintln(bw, r.styles.DiffHunk.Render(fmt.Sprintf("@@ -%d,%d +%d,%d @@",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)))
		for _, line := range hunk.Lines {
			fmt.Fprintln(bw, r.styleLine(line))
		}
	}

	fmt.Fprintln(bw)
}

func (r *DiffRenderer) styleLine(line fix.DiffLine) string {
	switch line.Kind {
	case fix.DiffLineAdd:
		return r.styles.DiffAdd.Render("+" + line.Content)
	case fix.DiffLineRemove:
		return r.styles.DiffRemove.Render("-" + line.Content)
	default:
		return r.styles.DiffContext.Render(" " + line.Content)
	}
}

// writeSummary writes a git-style "N files changed" line.
func (r *DiffRenderer) writeSummary(bw *bufio.Writer, files, additions, deletions int) {
	parts := []string{fmt.Sprintf("%d %s changed", files, pluralWord(files, "file"))}
	if additions > 0 {
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, pluralWord(additions, "insertion"))))
	}
	if deletions > 0 {
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, pluralWord(deletions, "deletion"))))
	}
	fmt.Fprintln(bw, strings.Join(parts, ", "))
}

func pluralWord(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
