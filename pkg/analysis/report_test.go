package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/config"
)

func TestTotals_Predicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		totals     Totals
		wantIssues bool
		wantErrors bool
	}{
		{name: "clean"},
		{name: "warnings only", totals: Totals{Issues: 5, Warnings: 5}, wantIssues: true},
		{name: "errors", totals: Totals{Issues: 3, Errors: 3}, wantIssues: true, wantErrors: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantIssues, tt.totals.HasIssues())
			assert.Equal(t, tt.wantErrors, tt.totals.HasErrors())
		})
	}
}

func TestTally_Order(t *testing.T) {
	t.Parallel()

	var busy, loud tally
	for range 3 {
		busy.add(config.SeverityWarning)
	}
	loud.add(config.SeverityError)
	loud.add("")

	assert.Equal(t, 3, busy.issues)
	assert.Equal(t, 2, loud.issues)
	assert.Equal(t, 1, loud.errors)
	assert.Zero(t, loud.warnings, "unknown severities only count as issues")

	assert.Negative(t, busy.order(loud, Options{SortBy: SortByCount, SortDesc: true}))
	assert.Positive(t, busy.order(loud, Options{SortBy: SortByCount}))
	assert.Positive(t, busy.order(loud, Options{SortBy: SortBySeverity}))
	assert.Zero(t, busy.order(loud, Options{SortBy: SortByAlpha}))
}

func TestReport_JSONOmitsTerminalFields(t *testing.T) {
	t.Parallel()

	report := Report{
		Version: ReportVersion,
		Diagnostics: []DiagnosticEntry{{
			FilePath:   "a.php",
			RuleID:     "PS003",
			SourceLine: "if ($a <> $b) {}",
		}},
		Diffs: []DiffEntry{{Path: "a.php"}},
	}

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sourceLine")
	assert.NotContains(t, string(data), "if ($a")
	assert.NotContains(t, string(data), "Diffs")
	assert.Contains(t, string(data), `"ruleId":"PS003"`)
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()

	assert.True(t, opts.IncludeDiagnostics)
	assert.True(t, opts.IncludeByFile)
	assert.True(t, opts.IncludeByRule)
	assert.True(t, opts.IncludeSource)
	assert.Equal(t, SortByCount, opts.SortBy)
	assert.True(t, opts.SortDesc)
}

func TestSortField_IsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, SortByCount.IsValid())
	assert.True(t, SortByAlpha.IsValid())
	assert.True(t, SortBySeverity.IsValid())
	assert.False(t, SortField("invalid").IsValid())
}
