package pretty

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/yaklabco/phpsniff/pkg/analysis"
)

// Column limits for summary tables.
const (
	maxRuleNameLength = 32
	maxFilePathLength = 60
	fixableMark       = "✓"
)

// newTable returns a table with the shared border and header styling.
// rowStyle picks the style of each data row.
func (s *Styles) newTable(headers []string, rowStyle func(row int) lipgloss.Style) *table.Table {
	cell := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.TableBorder).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader.Inherit(cell)
			}
			style := rowStyle(row).Inherit(cell)
			if col > 0 {
				style = style.Align(lipgloss.Right)
			}
			return style
		})
}

// rowStyle colors a row by its worst severity.
func (s *Styles) rowStyle(errors, warnings int) lipgloss.Style {
	switch {
	case errors > 0:
		return s.Error.UnsetBold()
	case warnings > 0:
		return s.Warning.UnsetBold()
	default:
		return s.Message
	}
}

// RuleTable renders per-rule counts as a bordered table.
func (s *Styles) RuleTable(rules []analysis.RuleAnalysis) string {
	if len(rules) == 0 {
		return ""
	}

	t := s.newTable([]string{"Rule", "Count", "Errors", "Warnings", "Fixable"}, func(row int) lipgloss.Style {
		if row < 0 || row >= len(rules) {
			return s.Message
		}
		return s.rowStyle(rules[row].Errors, rules[row].Warnings)
	})
	for _, rule := range rules {
		name := rule.RuleID
		if rule.RuleName != "" {
			name += " " + rule.RuleName
		}
		fixable := ""
		if rule.Fixable {
			fixable = fixableMark
		}
		t.Row(
			truncateEnd(name, maxRuleNameLength),
			strconv.Itoa(rule.Issues),
			strconv.Itoa(rule.Errors),
			strconv.Itoa(rule.Warnings),
			fixable,
		)
	}
	return t.Render() + "\n"
}

// FileTable renders per-file counts as a bordered table.
func (s *Styles) FileTable(files []analysis.FileAnalysis) string {
	if len(files) == 0 {
		return ""
	}

	t := s.newTable([]string{"File", "Count", "Errors", "Warnings", "Fixable"}, func(row int) lipgloss.Style {
		if row < 0 || row >= len(files) {
			return s.Message
		}
		return s.rowStyle(files[row].Errors, files[row].Warnings)
	})
	for _, file := range files {
		t.Row(
			truncateStart(file.Path, maxFilePathLength),
			strconv.Itoa(file.Issues),
			strconv.Itoa(file.Errors),
			strconv.Itoa(file.Warnings),
			strconv.Itoa(file.Fixable),
		)
	}
	return t.Render() + "\n"
}

// truncateEnd shortens str to maxLen runes, marking the cut with an ellipsis.
func truncateEnd(str string, maxLen int) string {
	runes := []rune(str)
	if len(runes) <= maxLen {
		return str
	}
	return string(runes[:maxLen-1]) + "…"
}

// truncateStart shortens a path to maxLen runes, keeping the file name.
func truncateStart(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	return "…" + string(runes[len(runes)-maxLen+1:])
}
