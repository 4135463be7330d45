package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/internal/cli"
	"github.com/yaklabco/phpsniff/pkg/fsutil"
)

// notEqualSource uses "<>", which PS003 (not-equal-operator) reports as a fixable warning.
const notEqualSource = "<?php\n\nif ($a <> $b) {\n    echo $a;\n}\n"

// assignmentSource assigns inside a condition, which PS001 reports as an error.
const assignmentSource = "<?php\n\nif ($row = fetch()) {\n    echo $row;\n}\n"

// cleanSource triggers no rule.
const cleanSource = "<?php\n\nif ($a != $b) {\n    echo $a;\n}\n"

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeConfig writes a config file into a fresh directory so that no other
// project config takes part in the run.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), ".phpsniff.yml", content)
}

// execute runs the CLI with args and returns stdout and the command error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo())

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), err
}

// lintArgs builds "lint --config cfg --color never <extra...>".
func lintArgs(cfg string, extra ...string) []string {
	return append([]string{"lint", "--config", cfg, "--color", "never", "--no-context"}, extra...)
}

func TestIntegration_RuleFormatFlag(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	tests := []struct {
		name           string
		ruleFormat     string
		wantContains   []string
		wantNotContain []string
	}{
		{
			name:           "id",
			ruleFormat:     "id",
			wantContains:   []string{"(PS003)"},
			wantNotContain: []string{"not-equal-operator"},
		},
		{
			name:           "name",
			ruleFormat:     "name",
			wantContains:   []string{"(not-equal-operator)"},
			wantNotContain: []string{"PS003"},
		},
		{
			name:         "combined",
			ruleFormat:   "combined",
			wantContains: []string{"(PS003/not-equal-operator)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output, err := execute(t, lintArgs(cfg, "--rule-format", tt.ruleFormat, file)...)
			require.NoError(t, err, "warnings alone must not fail the run")

			for _, want := range tt.wantContains {
				assert.Contains(t, output, want)
			}
			for _, notWant := range tt.wantNotContain {
				assert.NotContains(t, output, notWant)
			}
		})
	}
}

func TestIntegration_InvalidRuleFormat(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	_, err := execute(t, lintArgs(cfg, "--rule-format", "short", file)...)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_DisableRuleInConfig(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)

	tests := []struct {
		name string
		key  string
	}{
		{"by id", "PS003"},
		{"by name", "not-equal-operator"},
		{"by sniff code", "Generic.PHP.DisallowAlternativeNotEqual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := writeConfig(t, "rules:\n  "+tt.key+":\n    enabled: false\n")

			output, err := execute(t, lintArgs(cfg, file)...)
			require.NoError(t, err)
			assert.NotContains(t, output, "PS003")
		})
	}
}

func TestIntegration_DisableFlag(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--disable", "not-equal-operator", file)...)
	require.NoError(t, err)
	assert.NotContains(t, output, "PS003")
}

func TestIntegration_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	warnFile := writeFile(t, dir, "Warn.php", notEqualSource)
	errFile := writeFile(t, dir, "Err.php", assignmentSource)
	cleanFile := writeFile(t, dir, "Clean.php", cleanSource)
	cfg := writeConfig(t, "severity_default: warning\n")
	escalated := writeConfig(t, "rules:\n  PS003:\n    severity: error\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"clean", lintArgs(cfg, cleanFile), cli.ExitSuccess},
		{"warnings", lintArgs(cfg, warnFile), cli.ExitSuccess},
		{"strict warnings", lintArgs(cfg, "--strict", warnFile), cli.ExitLintWarnings},
		{"errors", lintArgs(cfg, errFile), cli.ExitLintErrors},
		{"configured severity", lintArgs(escalated, warnFile), cli.ExitLintErrors},
		{"missing path", lintArgs(cfg, filepath.Join(dir, "Missing.php")), cli.ExitIOError},
		{"unknown format", lintArgs(cfg, "--format", "table", warnFile), cli.ExitInvalidUsage},
		{"unknown sort", lintArgs(cfg, "--sort", "random", warnFile), cli.ExitInvalidUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, tt.args...)
			assert.Equal(t, tt.want, cli.ExitCode(err), "error: %v", err)
		})
	}
}

func TestIntegration_StrictErrorsMentionIssues(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Err.php", assignmentSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, file)...)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Contains(t, output, "PS001")
	assert.Contains(t, output, "error")
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "rules:\n  PS003:\n    severity: fatal\n")

	_, err := execute(t, lintArgs(cfg, file)...)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_FixCommand(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	_, err := execute(t, "fix", "--config", cfg, "--color", "never", "--no-backups", file)
	require.NoError(t, err)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, cleanSource, string(content))
}

func TestIntegration_RestoreUndoesFix(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "backups:\n  enabled: true\n  mode: sidecar\n")

	_, err := execute(t, "fix", "--config", cfg, "--color", "never", file)
	require.NoError(t, err)
	require.FileExists(t, file+fsutil.BackupSuffix)

	output, err := execute(t, "restore", "--config", cfg, "--dry-run", file)
	require.NoError(t, err)
	assert.Contains(t, output, "would restore")
	require.FileExists(t, file+fsutil.BackupSuffix)

	output, err = execute(t, "restore", "--config", cfg, file)
	require.NoError(t, err)
	assert.Contains(t, output, "restored")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, notEqualSource, string(content))
	assert.NoFileExists(t, file+fsutil.BackupSuffix)

	output, err = execute(t, "restore", "--config", cfg, file)
	require.NoError(t, err)
	assert.Contains(t, output, "no backups found")
}

func TestIntegration_FixRulesLimitsFixes(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	_, err := execute(t, lintArgs(cfg, "--fix", "--no-backups", "--fix-rules", "PS004", file)...)
	require.NoError(t, err)

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, notEqualSource, string(content), "PS003 fixes were not requested")
}

func TestIntegration_DryRunShowsDiff(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--dry-run", file)...)
	require.NoError(t, err)

	assert.Contains(t, output, "-if ($a <> $b) {")
	assert.Contains(t, output, "+if ($a != $b) {")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, notEqualSource, string(content), "dry run must not write")
}

func TestIntegration_IgnoreFlag(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "legacy/Old.php", notEqualSource)
	writeFile(t, dir, "src/New.php", assignmentSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--ignore", "legacy/", dir)...)
	require.Error(t, err)
	assert.Contains(t, output, "New.php")
	assert.NotContains(t, output, "Old.php")
}

func TestIntegration_JSONOutput(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--format", "json", file)...)
	require.NoError(t, err)

	var decoded struct {
		Diagnostics []struct {
			RuleID    string `json:"ruleId"`
			RuleName  string `json:"ruleName"`
			StartLine int    `json:"startLine"`
			Fixable   bool   `json:"fixable"`
		} `json:"diagnostics"`
		Summary struct {
			Files  int `json:"filesChecked"`
			Issues int `json:"totalIssues"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))

	require.NotEmpty(t, decoded.Diagnostics)
	var found bool
	for _, d := range decoded.Diagnostics {
		if d.RuleID == "PS003" {
			found = true
			assert.Equal(t, "not-equal-operator", d.RuleName)
			assert.Equal(t, 3, d.StartLine)
			assert.True(t, d.Fixable)
		}
	}
	assert.True(t, found, "PS003 diagnostic missing")
	assert.Equal(t, 1, decoded.Summary.Files)
	assert.Equal(t, len(decoded.Diagnostics), decoded.Summary.Issues)
}

func TestIntegration_SARIFOutput(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Cart.php", notEqualSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--format", "sarif", file)...)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.Equal(t, "2.1.0", decoded["version"])
	assert.Contains(t, output, `"ruleId": "PS003"`)
}

func TestIntegration_SummaryFormat(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "Cart.php", notEqualSource)
	writeFile(t, dir, "Order.php", assignmentSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--format", "summary", dir)...)
	require.Error(t, err)

	assert.Contains(t, output, "Rules")
	assert.Contains(t, output, "Files")
	assert.Contains(t, output, "PS001")
	assert.Contains(t, output, "PS003")
	assert.Contains(t, output, "Cart.php")
	assert.Contains(t, output, "Order.php")
	assert.Contains(t, output, "Lint failed with errors")
}

func TestIntegration_SummaryFormatNoIssues(t *testing.T) {
	t.Parallel()

	file := writeFile(t, t.TempDir(), "Clean.php", cleanSource)
	cfg := writeConfig(t, "severity_default: warning\n")

	output, err := execute(t, lintArgs(cfg, "--format", "summary", file)...)
	require.NoError(t, err)

	assert.Contains(t, output, "No issues found")
	assert.NotContains(t, output, "Rules")
}

func TestIntegration_RulesCommand(t *testing.T) {
	t.Parallel()

	output, err := execute(t, "rules", "--tag", "naming", "--rule-format", "id")
	require.NoError(t, err)

	assert.Contains(t, output, "PS010")
	assert.NotContains(t, output, "PS003")
}

func TestIntegration_RulesCommandJSON(t *testing.T) {
	t.Parallel()

	output, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var rules []struct {
		ID      string   `json:"id"`
		Name    string   `json:"name"`
		Fixable bool     `json:"fixable"`
		Aliases []string `json:"aliases"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &rules))
	require.Len(t, rules, 20)

	for _, rule := range rules {
		if rule.ID != "PS003" {
			continue
		}
		assert.Equal(t, "not-equal-operator", rule.Name)
		assert.True(t, rule.Fixable)
		assert.Contains(t, rule.Aliases, "Generic.PHP.DisallowAlternativeNotEqual")
	}
}

func TestIntegration_RulesCommandInvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "rules", "--format", "xml")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}
