package rules

import (
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// ShortArraySyntaxRule rewrites array(...) as [...].
type ShortArraySyntaxRule struct {
	lint.BaseRule
}

// NewShortArraySyntaxRule creates the PS004 rule.
func NewShortArraySyntaxRule() *ShortArraySyntaxRule {
	return &ShortArraySyntaxRule{
		BaseRule: lint.NewBaseRule(
			"PS004",
			"short-array-syntax",
			"Use the short array syntax [] instead of array()",
			[]string{"arrays"},
			true,
			token.Array,
		),
	}
}

// longArray returns the parentheses of the array(...) construct at i.
// The array type in signatures is not followed by a parenthesis.
func longArray(s *token.Stream, i int) (int, int, bool) {
	open, ok := token.NextNonEmpty(s, i+1)
	if !ok || s.Kind(open) != token.OpenParen {
		return 0, 0, false
	}
	closer, ok := s.Tokens[open].Match()
	return open, closer, ok
}

// Check reports long array syntax.
func (r *ShortArraySyntaxRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	open, _, ok := longArray(s, i)
	if !ok {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, i, "Short array syntax must be used to define arrays").
		WithEnd(s, open).
		WithFixable(onlyWhitespace(s, i, open)).
		Report()
}

// Fix replaces the keyword and both parentheses.
func (r *ShortArraySyntaxRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	open, closer, ok := longArray(ctx.Stream, i)
	if !ok {
		return nil
	}
	cs.Replace(i, open, "[")
	cs.ReplaceToken(closer, "]")
	return nil
}

// TrailingCommaRule requires a comma after the last element of a multi-line array.
type TrailingCommaRule struct {
	lint.BaseRule
}

// NewTrailingCommaRule creates the PS005 rule.
func NewTrailingCommaRule() *TrailingCommaRule {
	return &TrailingCommaRule{
		BaseRule: lint.NewBaseRule(
			"PS005",
			"multiline-array-trailing-comma",
			"Multi-line arrays must have a trailing comma after the last element",
			[]string{"arrays"},
			true,
			token.OpenShortArray, token.Array,
		),
	}
}

// missingTrailingComma returns the last element token of the array starting
// at i when the array spans lines, its closer is on a line of its own and the
// last element has no comma.
func missingTrailingComma(s *token.Stream, i int) (int, bool) {
	open, closer := i, 0
	if s.Kind(i) == token.Array {
		var ok bool
		if open, closer, ok = longArray(s, i); !ok {
			return 0, false
		}
	} else {
		var ok bool
		if closer, ok = s.Tokens[i].Match(); !ok {
			return 0, false
		}
	}

	if s.Tokens[open].Line == s.Tokens[closer].Line {
		return 0, false
	}
	last, ok := token.PreviousNonEmpty(s, closer-1, token.Until(open))
	if !ok || s.Kind(last) == token.Comma {
		return 0, false
	}
	if s.Tokens[last].Line == s.Tokens[closer].Line {
		return 0, false
	}
	return last, true
}

// Check reports the last element.
func (r *TrailingCommaRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	last, ok := missingTrailingComma(ctx.Stream, i)
	if !ok {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, last, "Multi-line array must have a trailing comma after the last element").Report()
}

// Fix appends the comma to the last element.
func (r *TrailingCommaRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	if last, ok := missingTrailingComma(ctx.Stream, i); ok {
		cs.InsertAfter(last, ",")
	}
	return nil
}
