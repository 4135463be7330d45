package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// ConstantVisibilityRule requires class constants to declare their visibility.
type ConstantVisibilityRule struct {
	lint.BaseRule
}

// NewConstantVisibilityRule creates the PS013 rule.
func NewConstantVisibilityRule() *ConstantVisibilityRule {
	return &ConstantVisibilityRule{
		BaseRule: lint.NewBaseRule(
			"PS013",
			"constant-visibility",
			"Visibility must be declared on all class constants",
			[]string{"classes", "psr12"},
			true,
			token.Const,
		),
	}
}

// Check reports class constants without public, protected or private.
func (r *ConstantVisibilityRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	if !isClassConstant(ctx, i) {
		return lint.Diagnostic{}, false
	}
	if lint.DeclarationModifiers(ctx.Stream, i).Visibility != token.Unknown {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, i, "Visibility must be declared on all constants").Report()
}

// Fix makes the constant explicitly public, which it was implicitly.
func (r *ConstantVisibilityRule) Fix(_ *lint.RuleContext, i int, cs *fix.Changeset) error {
	cs.InsertBefore(i, "public ")
	return nil
}

// DefaultMaxSignatureLength is the default PS019 max_length.
const DefaultMaxSignatureLength = 120

// SignatureLengthRule wraps function signatures that exceed a line length.
type SignatureLengthRule struct {
	lint.BaseRule
}

// NewSignatureLengthRule creates the PS019 rule.
func NewSignatureLengthRule() *SignatureLengthRule {
	return &SignatureLengthRule{
		BaseRule: lint.NewBaseRule(
			"PS019",
			"method-signature-length",
			"Function signatures longer than max_length must put each parameter on its own line",
			[]string{"functions", "line_length"},
			true,
			token.Function,
		),
	}
}

// longSignature returns the parameter list of a named function whose
// signature fits on one line that is longer than limit.
func longSignature(s *token.Stream, fn, limit int) (int, int, int, bool) {
	if _, ok := lint.DeclarationName(s, fn); !ok {
		return 0, 0, 0, false
	}
	open, closer, ok := lint.ParameterList(s, fn)
	if !ok {
		return 0, 0, 0, false
	}
	line := s.Tokens[fn].Line
	if s.Tokens[open].Line != line || s.Tokens[closer].Line != line {
		return 0, 0, 0, false
	}
	length := len(strings.TrimRight(string(s.LineContent(line)), "\r\n"))
	if length <= limit {
		return 0, 0, 0, false
	}
	return open, closer, length, true
}

// Check reports the function keyword of the long signature.
func (r *SignatureLengthRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	limit := ctx.OptionInt("max_length", DefaultMaxSignatureLength)
	open, closer, length, ok := longSignature(s, i, limit)
	if !ok {
		return lint.Diagnostic{}, false
	}
	fixable := len(lint.SplitList(s, open)) > 0 && !hasComment(s, open, closer)
	return r.Report(ctx, i, fmt.Sprintf("Function signature is %d characters long; the limit is %d", length, limit)).
		WithFixable(fixable).
		Report()
}

// Fix puts every parameter on its own line, indented one level deeper than
// the declaration, and the closing parenthesis on a line of its own.
func (r *SignatureLengthRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	limit := ctx.OptionInt("max_length", DefaultMaxSignatureLength)
	open, closer, _, ok := longSignature(s, i, limit)
	if !ok {
		return nil
	}
	params := lint.SplitList(s, open)
	if len(params) == 0 {
		return nil
	}

	indent := token.Indentation(s, i)
	inner := indent + indentUnit(indent)

	var b strings.Builder
	for k, p := range params {
		b.WriteString(s.EOL + inner + s.TextBetween(p.Start, p.End))
		if k < len(params)-1 {
			b.WriteString(",")
		}
	}
	b.WriteString(s.EOL + indent)
	cs.Replace(open+1, closer-1, b.String())
	return nil
}
