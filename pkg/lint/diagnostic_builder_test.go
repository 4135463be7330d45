package lint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

const testRuleIDDiag = "PS001"

func TestNewDiagnostic_TokenPosition(t *testing.T) {
	t.Parallel()

	s := mustStream(t, "<?php\n$value = 1;\n")
	i := first(t, s, "$value")

	diag := lint.NewDiagnostic(testRuleIDDiag, s, i, "test").Build()

	assert.Equal(t, testRuleIDDiag, diag.RuleID)
	assert.Equal(t, "test.php", diag.FilePath)
	assert.Equal(t, i, diag.TokenIndex)
	assert.Equal(t, 2, diag.StartLine)
	assert.Equal(t, 1, diag.StartColumn)
	assert.Equal(t, 2, diag.EndLine)
	assert.Equal(t, 7, diag.EndColumn)
}

func TestDiagnosticBuilder_WithEnd(t *testing.T) {
	t.Parallel()

	s := mustStream(t, "<?php\nfoo(\n    $a\n);\n")
	start := first(t, s, "foo")
	end := first(t, s, ")")

	diag := lint.NewDiagnostic(testRuleIDDiag, s, start, "test").
		WithEnd(s, end).
		Build()

	assert.Equal(t, 2, diag.StartLine)
	assert.Equal(t, 4, diag.EndLine)
	assert.Equal(t, 2, diag.EndColumn)
}

func TestNewDiagnostic_NoStream(t *testing.T) {
	t.Parallel()

	diag := lint.NewDiagnostic(testRuleIDDiag, nil, 3, "test").Build()

	assert.Empty(t, diag.FilePath)
	assert.Equal(t, 3, diag.TokenIndex)
	assert.Zero(t, diag.StartLine)
	assert.Zero(t, diag.StartColumn)
}

func TestNewDiagnostic_IndexOutOfRange(t *testing.T) {
	t.Parallel()

	s := mustStream(t, "<?php\n")
	diag := lint.NewDiagnostic(testRuleIDDiag, s, 99, "test").Build()

	assert.Equal(t, "test.php", diag.FilePath)
	assert.Zero(t, diag.StartLine)
}

func TestNewDiagnosticAt(t *testing.T) {
	t.Parallel()

	diag := lint.NewDiagnosticAt("PS002", "file.php", 5, 10, "test").Build()

	assert.Equal(t, "PS002", diag.RuleID)
	assert.Equal(t, "file.php", diag.FilePath)
	assert.Equal(t, -1, diag.TokenIndex)
	assert.Equal(t, 5, diag.StartLine)
	assert.Equal(t, 10, diag.StartColumn)
	assert.Equal(t, 5, diag.EndLine)
	assert.Equal(t, 10, diag.EndColumn)
}

func TestDiagnosticBuilder_Chaining(t *testing.T) {
	t.Parallel()

	edit := fix.TextEdit{StartOffset: 0, EndOffset: 5, NewText: "hello"}

	diag, ok := lint.NewDiagnostic(testRuleIDDiag, nil, 0, "test message").
		WithRuleName("no-inline-assignment").
		WithSeverity(config.SeverityError).
		WithSuggestion("try this").
		WithFixable(true).
		WithEdit(edit).
		Report()

	assert.True(t, ok)
	assert.Equal(t, "no-inline-assignment", diag.RuleName)
	assert.Equal(t, "test message", diag.Message)
	assert.Equal(t, config.SeverityError, diag.Severity)
	assert.Equal(t, "try this", diag.Suggestion)
	assert.True(t, diag.Fixable)
	assert.Equal(t, []fix.TextEdit{edit}, diag.FixEdits)
	assert.True(t, diag.HasFix())
}

func TestBaseRule_Report(t *testing.T) {
	t.Parallel()

	s := mustStream(t, "<?php\n$a <> $b;\n")
	ctx := lint.NewRuleContext(t.Context(), s, nil, nil)

	fixable := lint.NewBaseRule("PS003", "not-equal-operator", "", nil, true)
	diag, ok := fixable.Report(ctx, first(t, s, "<>"), "use !=").Report()
	assert.True(t, ok)
	assert.Equal(t, "not-equal-operator", diag.RuleName)
	assert.True(t, diag.Fixable)
	assert.Equal(t, 4, diag.StartColumn)

	detector := lint.NewBaseRule("PS001", "no-inline-assignment", "", nil, false)
	diag, _ = detector.Report(ctx, 0, "x").Report()
	assert.False(t, diag.Fixable)
	assert.False(t, diag.HasFix())
}
