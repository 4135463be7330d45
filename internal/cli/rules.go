package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

type rulesFlags struct {
	ruleFormat string
	format     string
	tag        string
}

const formatJSON = "json"

// ruleInfo is one listed rule; it is also the JSON shape.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	Enabled     bool     `json:"enabled"`
	Fixable     bool     `json:"fixable"`
	Tags        []string `json:"tags,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List all available lint rules with their IDs, descriptions,
default severity, and whether they support auto-fixing.

Examples:
  phpsniff rules                  List every rule
  phpsniff rules --tag naming     List naming rules only
  phpsniff rules --format json    Machine-readable listing with sniff aliases`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRules(cmd.OutOrStdout(), lint.DefaultRegistry, flags)
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.format, "format", "text",
		"output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules with this tag")

	return cmd
}

func runRules(out io.Writer, registry *lint.Registry, flags *rulesFlags) error {
	ruleFormat, err := parseRuleFormat(flags.ruleFormat)
	if err != nil {
		return err
	}
	if flags.format != "" && flags.format != "text" && flags.format != formatJSON {
		return usageError(fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	infos := []ruleInfo{}
	for _, rule := range registry.Rules() {
		if flags.tag != "" && !slices.Contains(rule.Tags(), flags.tag) {
			continue
		}
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Enabled:     rule.DefaultEnabled(),
			Fixable:     rule.CanFix(),
			Tags:        rule.Tags(),
			Aliases:     registry.Aliases(rule.ID()),
		})
	}

	if flags.format == formatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("encoding rules: %w", err)
		}
		return nil
	}

	logger := log.NewWithOptions(out, log.Options{Level: log.InfoLevel})
	if len(infos) == 0 {
		logger.Info("no rules match", "tag", flags.tag)
		return nil
	}
	for _, info := range infos {
		logger.Info(config.FormatRuleID(ruleFormat, info.ID, info.Name), info.keyvals()...)
	}
	return nil
}

// keyvals renders a rule as log fields; the enabled field only appears for
// rules that are off by default.
func (info ruleInfo) keyvals() []any {
	fixable := "-"
	if info.Fixable {
		fixable = "yes"
	}
	kv := []any{logging.FieldSeverity, info.Severity, logging.FieldFixable, fixable}
	if !info.Enabled {
		kv = append(kv, "enabled", false)
	}
	return append(kv, logging.FieldDescription, info.Description)
}
