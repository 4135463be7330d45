package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/analysis"
)

const summaryDividerWidth = 40

// plural returns word with an "s" unless n is one.
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// FormatSummaryOneLine formats run totals as a single line.
// Example: "12 issues (8 errors, 4 warnings) in 3 files, 6 fixable".
func (s *Styles) FormatSummaryOneLine(totals analysis.Totals) string {
	var parts []string

	if totals.Issues == 0 {
		parts = append(parts, s.Success.Render("No issues found")+s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(totals.Files, "file"))))
	} else {
		var severities []string
		if totals.Errors > 0 {
			severities = append(severities, s.Error.Render(plural(totals.Errors, "error")))
		}
		if totals.Warnings > 0 {
			severities = append(severities, s.Warning.Render(plural(totals.Warnings, "warning")))
		}
		if totals.Infos > 0 {
			severities = append(severities, s.Info.Render(fmt.Sprintf("%d info", totals.Infos)))
		}

		main := plural(totals.Issues, "issue")
		if len(severities) > 0 {
			main += " (" + strings.Join(severities, ", ") + ")"
		}
		parts = append(parts, main+" in "+plural(totals.FilesWithIssues, "file"))

		if totals.Fixable > 0 {
			parts = append(parts, s.Fixable.Render(fmt.Sprintf("%d fixable", totals.Fixable)))
		}
	}

	if totals.EditsApplied > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixed in %s", totals.EditsApplied, plural(totals.FilesModified, "file"))))
	}
	if totals.FilesNotConverged > 0 {
		parts = append(parts, s.Warning.Render(plural(totals.FilesNotConverged, "file")+" did not converge"))
	}
	if totals.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", totals.FilesSkipped)))
	}
	if totals.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", totals.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run totals as a summary block.
func (s *Styles) FormatSummary(totals analysis.Totals) string {
	var builder strings.Builder

	row := func(label string, value int, style func(...string) string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", style(strconv.Itoa(value))))
	}

	builder.WriteString("\n" + s.Bold.Render("Summary") + "\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked", totals.Files, s.Message.Render)
	if totals.FilesWithIssues > 0 {
		row("Files with issues", totals.FilesWithIssues, s.Failure.Render)
	}
	if totals.FilesModified > 0 {
		row("Files modified", totals.FilesModified, s.Success.Render)
	}
	if totals.FilesErrored > 0 {
		row("Files failed", totals.FilesErrored, s.Error.Render)
	}

	builder.WriteString("\n")
	row("Total issues", totals.Issues, s.Message.Render)
	if totals.Errors > 0 {
		row("  Errors", totals.Errors, s.Error.Render)
	}
	if totals.Warnings > 0 {
		row("  Warnings", totals.Warnings, s.Warning.Render)
	}
	if totals.Infos > 0 {
		row("  Info", totals.Infos, s.Info.Render)
	}
	builder.WriteString("\n")

	switch {
	case totals.Errors > 0 || totals.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case totals.Warnings > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
