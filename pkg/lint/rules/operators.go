package rules

import (
	"strings"

	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// NotEqualOperatorRule replaces the "<>" operator with "!=".
type NotEqualOperatorRule struct {
	lint.BaseRule
}

// NewNotEqualOperatorRule creates the PS003 rule.
func NewNotEqualOperatorRule() *NotEqualOperatorRule {
	return &NotEqualOperatorRule{
		BaseRule: lint.NewBaseRule(
			"PS003",
			"not-equal-operator",
			`Use "!=" instead of "<>"`,
			[]string{"operators"},
			true,
			token.IsNotEqual,
		),
	}
}

// Check reports "<>".
func (r *NotEqualOperatorRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	if ctx.Stream.Text(i) != "<>" {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, i, `Operator "<>" is discouraged; use "!=" instead`).Report()
}

// Fix rewrites the operator.
func (r *NotEqualOperatorRule) Fix(_ *lint.RuleContext, i int, cs *fix.Changeset) error {
	cs.ReplaceToken(i, "!=")
	return nil
}

// IsNullRule replaces is_null() calls with strict comparisons.
type IsNullRule struct {
	lint.BaseRule
}

// NewIsNullRule creates the PS006 rule.
func NewIsNullRule() *IsNullRule {
	return &IsNullRule{
		BaseRule: lint.NewBaseRule(
			"PS006",
			"no-is-null",
			"Compare with null using === instead of calling is_null()",
			[]string{"operators", "functions"},
			true,
			token.String,
		),
	}
}

// isNullCall describes one is_null(...) call.
type isNullCall struct {
	start   int // "!" for negated calls, otherwise the function name
	closer  int
	arg     lint.Span
	negated bool
}

func parseIsNullCall(s *token.Stream, i int) (isNullCall, []lint.Span, bool) {
	if !strings.EqualFold(strings.TrimPrefix(s.Text(i), "\\"), "is_null") {
		return isNullCall{}, nil, false
	}
	prev, hasPrev := token.PreviousNonEmpty(s, i-1)
	if hasPrev {
		switch s.Kind(prev) {
		case token.ObjectOperator, token.NullsafeObjectOperator, token.DoubleColon,
			token.Function, token.New, token.Const:
			return isNullCall{}, nil, false
		}
	}
	open, ok := token.NextNonEmpty(s, i+1)
	if !ok || s.Kind(open) != token.OpenParen {
		return isNullCall{}, nil, false
	}
	closer, ok := s.Tokens[open].Match()
	if !ok {
		return isNullCall{}, nil, false
	}

	call := isNullCall{start: i, closer: closer}
	if hasPrev && s.Kind(prev) == token.BooleanNot {
		call.start = prev
		call.negated = true
	}
	args := lint.SplitList(s, open)
	if len(args) == 1 {
		call.arg = args[0]
	}
	return call, args, true
}

// Check reports is_null calls. Calls whose argument is not a plain variable,
// property or element access are reported only in strict mode, and never fixed.
func (r *IsNullRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	call, args, ok := parseIsNullCall(s, i)
	if !ok {
		return lint.Diagnostic{}, false
	}

	simple := len(args) == 1 && isSimpleOperand(s, call.arg) && !hasComment(s, i, call.closer)
	if !simple && !ctx.OptionBool("strict", false) {
		return lint.Diagnostic{}, false
	}

	msg := `Use "=== null" instead of is_null()`
	if call.negated {
		msg = `Use "!== null" instead of !is_null()`
	}
	return r.Report(ctx, call.start, msg).
		WithEnd(s, call.closer).
		WithFixable(simple).
		Report()
}

// Fix rewrites the call as a comparison, parenthesized when the neighbours
// bind tighter than ===.
func (r *IsNullRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	call, args, ok := parseIsNullCall(s, i)
	if !ok || len(args) != 1 {
		return nil
	}

	op := "==="
	if call.negated {
		op = "!=="
	}
	expr := s.TextBetween(call.arg.Start, call.arg.End) + " " + op + " null"
	if !looseContext(s, call.start, call.closer) {
		expr = "(" + expr + ")"
	}
	cs.Replace(call.start, call.closer, expr)
	return nil
}

// isSimpleOperand reports whether span is a variable, constant, property,
// static member, element access or call chain without operators.
func isSimpleOperand(s *token.Stream, span lint.Span) bool {
	for j := span.Start; j <= span.End; j++ {
		switch s.Kind(j) {
		case token.Variable, token.String, token.Static,
			token.ObjectOperator, token.NullsafeObjectOperator, token.DoubleColon:
		case token.OpenSquare, token.OpenParen:
			if j == span.Start {
				return false
			}
			end, ok := s.Tokens[j].Match()
			if !ok {
				return false
			}
			j = end
		default:
			return false
		}
	}
	return true
}

// looseContext reports whether an expression spanning start..end sits between
// tokens that bind no tighter than a comparison.
func looseContext(s *token.Stream, start, end int) bool {
	if prev, ok := token.PreviousNonEmpty(s, start-1); ok && !looseNeighbour(s, prev) {
		return false
	}
	if next, ok := token.NextNonEmpty(s, end+1); ok && !looseNeighbour(s, next) {
		return false
	}
	return true
}

func looseNeighbour(s *token.Stream, i int) bool {
	switch s.Kind(i) {
	case token.OpenParen, token.CloseParen, token.OpenSquare, token.CloseSquare,
		token.OpenShortArray, token.CloseShortArray, token.OpenCurly, token.CloseCurly,
		token.Comma, token.Semicolon, token.Colon, token.Question, token.DoubleArrow,
		token.Equal, token.AssignOp, token.ConcatEqual,
		token.Return, token.Throw, token.OpenTag, token.CloseTag:
		return true
	case token.Operator:
		switch strings.ToLower(s.Text(i)) {
		case "&&", "||", "??", "and", "or", "xor":
			return true
		}
	case token.Keyword:
		switch strings.ToLower(s.Text(i)) {
		case "echo", "print", "yield":
			return true
		}
	}
	return false
}

// ConcatSpacingRule requires exactly one space around the concatenation operator.
type ConcatSpacingRule struct {
	lint.BaseRule
}

// NewConcatSpacingRule creates the PS007 rule.
func NewConcatSpacingRule() *ConcatSpacingRule {
	return &ConcatSpacingRule{
		BaseRule: lint.NewBaseRule(
			"PS007",
			"concat-spacing",
			"Concatenation operators must be surrounded by exactly one space",
			[]string{"operators", "whitespace"},
			true,
			token.Concat,
		),
	}
}

// concatSides reports whether the spacing left and right of the operator at i is correct.
// An operator that starts or ends a line only needs the space on its other side.
func concatSides(s *token.Stream, i int) (bool, bool) {
	return concatLeftOK(s, i), concatRightOK(s, i)
}

func concatLeftOK(s *token.Stream, i int) bool {
	if i == 0 {
		return true
	}
	if start := token.LineStart(s, i); start == i || (start == i-1 && s.Kind(start) == token.Whitespace) {
		return true
	}
	switch s.Kind(i - 1) {
	case token.Whitespace:
		return s.Text(i-1) == " "
	case token.Comment:
		return true
	}
	return false
}

func concatRightOK(s *token.Stream, i int) bool {
	if i+1 >= s.Len() {
		return true
	}
	switch s.Kind(i + 1) {
	case token.Whitespace:
		text := s.Text(i + 1)
		return text == " " || containsNewline(s, i+1)
	case token.Comment:
		return true
	}
	return false
}

// Check reports missing or extra spaces around ".".
func (r *ConcatSpacingRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	left, right := concatSides(ctx.Stream, i)
	if left && right {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, i, "Concatenation operator must be surrounded by a single space").Report()
}

// Fix normalizes both sides.
func (r *ConcatSpacingRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	left, right := concatSides(s, i)
	if !left {
		if s.Kind(i-1) == token.Whitespace {
			cs.ReplaceToken(i-1, " ")
		} else {
			cs.InsertBefore(i, " ")
		}
	}
	if !right {
		if s.Kind(i+1) == token.Whitespace {
			cs.ReplaceToken(i+1, " ")
		} else {
			cs.InsertAfter(i, " ")
		}
	}
	return nil
}

// CastSpacingRule forbids whitespace after and inside type casts.
type CastSpacingRule struct {
	lint.BaseRule
}

// NewCastSpacingRule creates the PS008 rule.
func NewCastSpacingRule() *CastSpacingRule {
	return &CastSpacingRule{
		BaseRule: lint.NewBaseRule(
			"PS008",
			"cast-spacing",
			"Type casts must not be followed by or contain whitespace",
			[]string{"whitespace"},
			true,
			token.Cast,
		),
	}
}

func compactCast(text string) string {
	return strings.Join(strings.Fields(text), "")
}

func spaceAfterCast(s *token.Stream, i int) bool {
	return s.Kind(i+1) == token.Whitespace && !containsNewline(s, i+1)
}

// Check reports "(int) $a" and "( int )".
func (r *CastSpacingRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	text := s.Text(i)
	switch {
	case compactCast(text) != text:
		return r.Report(ctx, i, "Type cast must not contain whitespace").Report()
	case spaceAfterCast(s, i):
		return r.Report(ctx, i, "Type cast must not be followed by whitespace").Report()
	}
	return lint.Diagnostic{}, false
}

// Fix removes the whitespace.
func (r *CastSpacingRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	if text := s.Text(i); compactCast(text) != text {
		cs.ReplaceToken(i, compactCast(text))
	}
	if spaceAfterCast(s, i) {
		cs.Remove(i+1, i+1)
	}
	return nil
}
