package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/lint"
)

func TestNotEqualOperatorRule(t *testing.T) {
	runCases(t, func() lint.Rule { return NewNotEqualOperatorRule() }, []ruleCase{
		{
			name:      "angle brackets",
			input:     "<?php\nif ($a <> $b) {}\n",
			wantDiags: 1,
			wantFix:   "<?php\nif ($a != $b) {}\n",
		},
		{
			name:      "several operators",
			input:     "<?php\n$x = $a <> 1 || $b<>2;\n",
			wantDiags: 2,
			wantFix:   "<?php\n$x = $a != 1 || $b!=2;\n",
		},
		{
			name:      "already canonical",
			input:     "<?php\nif ($a != $b) {}\n",
			wantDiags: 0,
		},
		{
			name:      "inside a string",
			input:     "<?php\n$s = '<>';\n",
			wantDiags: 0,
		},
	})
}

func TestIsNullRule(t *testing.T) {
	runCases(t, func() lint.Rule { return NewIsNullRule() }, []ruleCase{
		{
			name:      "condition",
			input:     "<?php\nif (is_null($a)) {}\n",
			wantDiags: 1,
			wantFix:   "<?php\nif ($a === null) {}\n",
		},
		{
			name:      "negated",
			input:     "<?php\nif (!is_null($a->b)) {}\n",
			wantDiags: 1,
			wantFix:   "<?php\nif ($a->b !== null) {}\n",
		},
		{
			name:      "fully qualified",
			input:     "<?php\nreturn \\is_null($items[0]);\n",
			wantDiags: 1,
			wantFix:   "<?php\nreturn $items[0] === null;\n",
		},
		{
			name:      "tight neighbour gets parentheses",
			input:     "<?php\n$x = is_null($a) . 'y';\n",
			wantDiags: 1,
			wantFix:   "<?php\n$x = ($a === null) . 'y';\n",
		},
		{
			name:      "logical operators are loose",
			input:     "<?php\n$x = is_null($a) && $b;\n",
			wantDiags: 1,
			wantFix:   "<?php\n$x = $a === null && $b;\n",
		},
		{
			name:      "complex argument is left alone",
			input:     "<?php\n$x = is_null($a + 1);\n",
			wantDiags: 0,
		},
		{
			name:      "complex argument in strict mode",
			input:     "<?php\n$x = is_null($a + 1);\n",
			wantDiags: 1,
			options:   map[string]any{"strict": true},
		},
		{
			name:      "method named is_null",
			input:     "<?php\n$o->is_null($a);\n",
			wantDiags: 0,
		},
		{
			name:      "function declaration",
			input:     "<?php\nfunction is_null($a) {}\n",
			wantDiags: 0,
		},
	})
}

func TestIsNullRule_StrictDiagnosticIsNotFixable(t *testing.T) {
	h := harness{options: map[string]any{"strict": true}}
	diags, _ := h.check(t, "<?php\n$x = is_null($a, $b);\n", NewIsNullRule())
	require.Len(t, diags, 1)
	assert.False(t, diags[0].Fixable)
}

func TestConcatSpacingRule(t *testing.T) {
	runCases(t, func() lint.Rule { return NewConcatSpacingRule() }, []ruleCase{
		{
			name:      "no spaces",
			input:     "<?php\n$a = 'x'.$b;\n",
			wantDiags: 1,
			wantFix:   "<?php\n$a = 'x' . $b;\n",
		},
		{
			name:      "too many spaces",
			input:     "<?php\n$a = 'x'  .   $b;\n",
			wantDiags: 1,
			wantFix:   "<?php\n$a = 'x' . $b;\n",
		},
		{
			name:      "chain",
			input:     "<?php\n$a = $b.'-'.$c;\n",
			wantDiags: 2,
			wantFix:   "<?php\n$a = $b . '-' . $c;\n",
		},
		{
			name:      "operator leading a line",
			input:     "<?php\n$a = 'x'\n    . $b;\n",
			wantDiags: 0,
		},
		{
			name:      "operator ending a line",
			input:     "<?php\n$a = 'x' .\n    $b;\n",
			wantDiags: 0,
		},
		{
			name:      "concat assignment is not checked",
			input:     "<?php\n$a .= 'x';\n",
			wantDiags: 0,
		},
	})
}

func TestCastSpacingRule(t *testing.T) {
	runCases(t, func() lint.Rule { return NewCastSpacingRule() }, []ruleCase{
		{
			name:      "space after cast",
			input:     "<?php\n$a = (int) $b;\n",
			wantDiags: 1,
			wantFix:   "<?php\n$a = (int)$b;\n",
		},
		{
			name:      "spaces inside cast",
			input:     "<?php\n$a = ( string )$b;\n",
			wantDiags: 1,
			wantFix:   "<?php\n$a = (string)$b;\n",
		},
		{
			name:      "both",
			input:     "<?php\n$a = ( bool )  $b;\n",
			wantDiags: 1,
			wantFix:   "<?php\n$a = (bool)$b;\n",
		},
		{
			name:      "compact",
			input:     "<?php\n$a = (array)$b;\n",
			wantDiags: 0,
		},
		{
			name:      "parenthesized expression",
			input:     "<?php\n$a = ($b) + 1;\n",
			wantDiags: 0,
		},
	})
}
