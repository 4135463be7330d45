package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/analysis"
	"github.com/yaklabco/phpsniff/pkg/config"
)

// contextIndent aligns source context under the diagnostic line.
const contextIndent = "        "

// FormatDiagnostic formats a single diagnostic for terminal output:
//
//	  src/Cart.php:12:9  warning  Use "!=" instead of "<>"  (PS003)
//	        if ($a <> $b) {
//	               ^
func (s *Styles) FormatDiagnostic(entry *analysis.DiagnosticEntry, showContext bool, ruleFormat config.RuleFormat) string {
	var builder strings.Builder

	location := fmt.Sprintf("%s:%d:%d", s.FilePath.Render(entry.FilePath), entry.StartLine, entry.StartColumn)
	rule := config.FormatRuleID(ruleFormat, entry.RuleID, entry.RuleName)

	fmt.Fprintf(&builder, "  %s  %s  %s  %s",
		location,
		s.FormatSeverity(config.Severity(entry.Severity)),
		s.Message.Render(entry.Message),
		s.RuleID.Render("("+rule+")"),
	)
	if entry.Fixable {
		builder.WriteString(" " + s.Fixable.Render("[fixable]"))
	}
	builder.WriteString("\n")

	if showContext && entry.SourceLine != "" {
		builder.WriteString(s.FormatSourceContext(entry.SourceLine, entry.StartColumn))
	}

	if entry.Suggestion != "" {
		builder.WriteString("    " + s.Dim.Render("Suggestion:") + " " + s.Suggestion.Render(entry.Suggestion) + "\n")
	}

	return builder.String()
}

// FormatSeverity returns a styled severity string.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	if sev == "" {
		sev = config.SeverityWarning
	}
	return s.Severity(sev).Render(string(sev))
}

// FormatSourceContext formats the source line with a caret under column.
// Tabs before the column are kept so the caret lines up in a terminal.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	builder.WriteString(contextIndent + s.SourceLine.Render(line) + "\n")

	if column > 0 {
		builder.WriteString(contextIndent + caretPadding(line, column) + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// caretPadding returns the whitespace that precedes a 1-based byte column.
func caretPadding(line string, column int) string {
	width := min(column-1, len(line))
	pad := make([]byte, 0, column-1)
	for i := range width {
		if line[i] == '\t' {
			pad = append(pad, '\t')
		} else {
			pad = append(pad, ' ')
		}
	}
	for range column - 1 - width {
		pad = append(pad, ' ')
	}
	return string(pad)
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, issueCount int) string {
	header := s.FilePath.Render(path)
	switch {
	case issueCount == 1:
		header += s.Dim.Render(" (1 issue)")
	case issueCount > 1:
		header += s.Dim.Render(fmt.Sprintf(" (%d issues)", issueCount))
	}
	return header
}

// FormatFileError formats a file that could not be processed, or a rule
// that failed on it.
func (s *Styles) FormatFileError(fe analysis.FileError) string {
	msg := "error: " + fe.Message
	if fe.RuleID != "" {
		msg = fmt.Sprintf("rule %s failed: %s", fe.RuleID, fe.Message)
	}
	return s.FilePath.Render(fe.Path) + ": " + s.Error.Render(msg)
}
