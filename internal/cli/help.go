package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/phpsniff/internal/ui/pretty"
)

// flagColumnGap is the minimum run of spaces pflag puts between a flag and its usage.
const flagColumnGap = 2

// HelpFormatter renders Cobra help and usage text with the output palette.
type HelpFormatter struct {
	command lipgloss.Style
	heading lipgloss.Style
	name    lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{
		command: styles.DiffHunk.Bold(styles.ColorEnabled()),
		heading: styles.Warning,
		name:    styles.Fixable,
		flag:    styles.Info.UnsetBold(),
		dim:     styles.Dim,
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}
{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}
{{- if .HasExample}}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end}}
{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ name (pad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}
{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}
{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}
{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{ trim . }}

{{end}}`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command": h.command.Render,
		"heading": h.heading.Render,
		"name":    h.name.Render,
		"dim":     h.dim.Render,
		"flags":   h.flagUsages,
		"join":    strings.Join,
		"pad":     rpad,
		"trim":    trimTrailingWhitespaces,
	}
}

// ApplyToCommand installs the styled help and usage functions on cmd.
// Subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()
	usage := template.Must(template.New("usage").Funcs(funcs).Parse(usageTemplate))
	help := template.Must(template.New("help").Funcs(funcs).Parse(helpTemplate + usageTemplate))

	cmd.SetUsageFunc(func(c *cobra.Command) error {
		if err := usage.Execute(c.OutOrStdout(), c); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := help.Execute(c.OutOrStdout(), c); err != nil {
			c.PrintErrln(err)
		}
	})
}

// flagUsages styles pflag's usage table line by line.
func (h *HelpFormatter) flagUsages(set *pflag.FlagSet) string {
	usages := strings.TrimSuffix(set.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

// flagLine styles "  -f, --flag type   usage", keeping pflag's alignment.
func (h *HelpFormatter) flagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	names, gap, usage, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}

	words := strings.Fields(names)
	for i, word := range words {
		if strings.HasPrefix(word, "-") {
			words[i] = h.flag.Render(strings.TrimSuffix(word, ",")) + strings.Repeat(",", strings.Count(word, ","))
		} else {
			words[i] = h.dim.Render(word)
		}
	}
	return indent + strings.Join(words, " ") + gap + usage
}

// splitFlagLine splits a flag line at the first run of at least
// flagColumnGap spaces.
func splitFlagLine(line string) (names, gap, usage string, ok bool) {
	idx := strings.Index(line, strings.Repeat(" ", flagColumnGap))
	if idx < 0 {
		return "", "", "", false
	}
	rest := strings.TrimLeft(line[idx:], " ")
	if rest == "" {
		return "", "", "", false
	}
	return line[:idx], line[idx : len(line)-len(rest)], rest, true
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
