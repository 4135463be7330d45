package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// commentWrapWidth is the maximum width for wrapped comments in templates.
const commentWrapWidth = 70

// TemplateOptions selects the starter config GenerateTemplate writes.
type TemplateOptions struct {
	// Full lists every rule with its documentation and defaults; otherwise
	// the template is a commented-out sketch.
	Full bool

	Format string // "yaml" (default) or "json"

	// IncludeRules limits a full template to these IDs.
	IncludeRules []string
}

// RuleInfo is the rule metadata a template needs.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
	Options     map[string]any
}

// RuleInfoProvider lists the registered rules. The lint packages import
// config, so they install the provider instead.
type RuleInfoProvider func() []RuleInfo

// DefaultRuleInfoProvider is set by the rules package during init.
//
//nolint:gochecknoglobals // Intentional extension point for rule info.
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	if opts.Format == "json" {
		return templateJSON(opts)
	}
	if opts.Full {
		return fullTemplate(opts), nil
	}
	return []byte(minimalTemplate), nil
}

const minimalTemplate = `# phpsniff configuration
# See: https://github.com/yaklabco/phpsniff

# Default severity for rules that don't set one: error, warning, or info
# severity_default: warning

# File extensions treated as PHP
# extensions: [".php", ".phtml", ".inc"]

# Composer package names (path.Match patterns) of legacy projects.
# Some rules relax their policy for these.
# legacy_projects:
#   - "acme/legacy-*"

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"

# Rule-specific configuration
# rules:
#   PS019:
#     options:
#       max_length: 120
#   PS017:
#     enabled: false
`

const fullHeader = `# phpsniff configuration - Full Template
# See: https://github.com/yaklabco/phpsniff
#
# This template includes all available rules with their default settings.

severity_default: warning

extensions:
  - ".php"
  - ".phtml"
  - ".inc"

# legacy_projects:
#   - "acme/legacy-*"

backups:
  enabled: true
  mode: sidecar

ignore:
  - "vendor/**"
  - ".git/**"

rules:
`

func fullTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(fullHeader)
	for _, rule := range selectRules(opts) {
		writeRuleBlock(&buf, rule)
	}
	return buf.Bytes()
}

// writeRuleBlock emits one commented rules entry at the template's two-space
// indent.
func writeRuleBlock(buf *bytes.Buffer, rule RuleInfo) {
	const indent = "  # "

	fmt.Fprintf(buf, "\n%s%s: %s\n", indent, rule.ID, rule.Name)
	for _, line := range wrapWords(rule.Description, commentWrapWidth) {
		buf.WriteString(indent + line + "\n")
	}
	if len(rule.Tags) > 0 {
		buf.WriteString(indent + "Tags: " + strings.Join(rule.Tags, ", ") + "\n")
	}
	if rule.CanFix {
		buf.WriteString(indent + "Auto-fix: yes\n")
	}

	fmt.Fprintf(buf, "  %s:\n    enabled: %t\n    severity: %s\n", rule.ID, rule.Enabled, rule.Severity)
	if len(rule.Options) == 0 {
		return
	}
	buf.WriteString("    options:\n")
	for _, key := range slices.Sorted(maps.Keys(rule.Options)) {
		fmt.Fprintf(buf, "      %s: %v\n", key, rule.Options[key])
	}
}

func selectRules(opts TemplateOptions) []RuleInfo {
	rules := ruleInfos()
	if len(opts.IncludeRules) > 0 {
		rules = slices.DeleteFunc(rules, func(r RuleInfo) bool {
			return !slices.Contains(opts.IncludeRules, r.ID)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })
	return rules
}

// ruleInfos asks DefaultRuleInfoProvider for the registered rules. Without
// the rules package linked in, a short built-in list stands in.
func ruleInfos() []RuleInfo {
	if DefaultRuleInfoProvider != nil {
		return DefaultRuleInfoProvider()
	}
	return []RuleInfo{
		{
			ID: "PS003", Name: "not-equal-operator", Enabled: true, Severity: SeverityWarning,
			Description: "Use != instead of <>",
			Tags:        []string{"operators"}, CanFix: true,
		},
		{
			ID: "PS019", Name: "method-signature-length", Enabled: true, Severity: SeverityWarning,
			Description: "Method signatures longer than the limit wrap one parameter per line",
			Tags:        []string{"functions", "line_length"}, CanFix: true,
			Options:     map[string]any{"max_length": 120},
		},
	}
}

// wrapWords greedily packs the words of text into lines of at most width
// bytes. A single longer word gets a line of its own.
func wrapWords(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// templateJSON renders the template as a JSON document. JSON has no
// comments, so only settings are emitted.
func templateJSON(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	cfg.Ignore = []string{"vendor/**", ".git/**"}

	if opts.Full {
		for _, r := range selectRules(opts) {
			enabled := r.Enabled
			severity := string(r.Severity)
			cfg.Rules[r.ID] = RuleConfig{Enabled: &enabled, Severity: &severity, Options: r.Options}
		}
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# phpsniff configuration
# See: https://github.com/yaklabco/phpsniff`
}
