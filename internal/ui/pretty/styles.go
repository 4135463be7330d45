// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/phpsniff/pkg/config"
)

// ANSI 16-color palette indexes.
const (
	colorRed    = "9"
	colorGreen  = "10"
	colorYellow = "11"
	colorBlue   = "12"
	colorCyan   = "14"
	colorGray   = "8"
	colorLight  = "7"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Diagnostic components
	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	// Diff styles
	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Failure lipgloss.Style
	Fixable lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableBorder lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style

	colorEnabled bool
}

// NewStyles creates a new Styles with the given color mode.
// With color disabled every style renders text unchanged.
func NewStyles(colorEnabled bool) *Styles {
	plain := lipgloss.NewStyle()
	fg := func(color string) lipgloss.Style {
		if !colorEnabled {
			return plain
		}
		return plain.Foreground(lipgloss.Color(color))
	}
	bold := func(s lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return s
		}
		return s.Bold(true)
	}
	italic := func(s lipgloss.Style) lipgloss.Style {
		if !colorEnabled {
			return s
		}
		return s.Italic(true)
	}

	return &Styles{
		Error:   bold(fg(colorRed)),
		Warning: bold(fg(colorYellow)),
		Info:    bold(fg(colorBlue)),

		FilePath:   bold(plain),
		Location:   fg(colorGray),
		RuleID:     fg(colorGray),
		Message:    plain,
		Suggestion: italic(fg(colorGreen)),
		SourceLine: fg(colorLight),
		Caret:      fg(colorRed),

		DiffHeader:  bold(plain),
		DiffHunk:    fg(colorCyan),
		DiffAdd:     fg(colorGreen),
		DiffRemove:  fg(colorRed),
		DiffContext: fg(colorGray),

		Success: bold(fg(colorGreen)),
		Failure: bold(fg(colorRed)),
		Fixable: fg(colorGreen),

		TableHeader: bold(fg(colorLight)),
		TableBorder: fg(colorGray),

		Dim:  fg(colorGray),
		Bold: bold(plain),

		colorEnabled: colorEnabled,
	}
}

// ColorEnabled reports whether the styles emit ANSI sequences.
func (s *Styles) ColorEnabled() bool {
	return s.colorEnabled
}

// Severity returns the style for a severity level.
func (s *Styles) Severity(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Message
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY, NO_COLOR is not
// set and TERM is not "dumb".
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		// https://no-color.org/
		if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
