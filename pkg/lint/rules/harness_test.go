package rules

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/parser/php"
)

// harness runs rules over PHP source the way the CLI does: a check pass,
// then the fix loop, then a second fix run to prove idempotence.
type harness struct {
	options map[string]any
	run     *lint.RunContext
	path    string
}

// ruleCase is one table entry shared by the rule tests.
type ruleCase struct {
	name      string
	input     string
	wantDiags int
	wantFix   string // empty means unchanged
	options   map[string]any
}

func (h harness) check(t *testing.T, src string, rules ...lint.Rule) ([]lint.Diagnostic, string) {
	t.Helper()

	registry := lint.NewRegistry()
	for _, rule := range rules {
		registry.Register(rule)
	}
	engine := lint.NewEngine(php.New(), registry)

	cfg := config.NewConfig()
	if h.options != nil {
		for _, rule := range rules {
			cfg.Rules[rule.ID()] = config.RuleConfig{Options: h.options}
		}
	}
	path := h.path
	if path == "" {
		path = "test.php"
	}
	ctx := context.Background()

	checked, err := engine.LintFile(ctx, path, []byte(src), cfg, h.run)
	require.NoError(t, err)
	require.NoError(t, checked.Err())
	assert.Empty(t, checked.Edits, "check mode must not stage edits")

	cfg.Fix = true
	pipeline := lint.NewPipeline(engine)
	opts := lint.DefaultPipelineOptions()
	opts.Fix = true
	opts.Run = h.run

	fixed, err := pipeline.ProcessContent(ctx, path, []byte(src), cfg, opts)
	require.NoError(t, err)
	require.False(t, fixed.Skipped, fixed.SkipReason)
	require.True(t, fixed.Converged, "fixing must reach a fixed point")
	require.NoError(t, fixed.Err())

	for _, d := range fixed.Diagnostics {
		assert.False(t, d.Fixable, "fixable violation left after fixing: %s", d.Message)
	}

	out := src
	if fixed.Modified {
		out = string(fixed.ModifiedContent)
	}

	again, err := pipeline.ProcessContent(ctx, path, []byte(out), cfg, opts)
	require.NoError(t, err)
	assert.False(t, again.Modified, "fixing twice must not change the output again")

	return checked.Diagnostics, out
}

// runCases runs table tests against a single rule.
func runCases(t *testing.T, newRule func() lint.Rule, tests []ruleCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := harness{options: tt.options}
			diags, fixed := h.check(t, tt.input, newRule())
			assert.Len(t, diags, tt.wantDiags)

			want := tt.wantFix
			if want == "" {
				want = tt.input
			}
			if diff := cmp.Diff(want, fixed); diff != "" {
				t.Errorf("fixed output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
