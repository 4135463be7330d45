package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// InlineAssignmentRule reports assignments inside control structure conditions.
// Extracting the assignment changes evaluation order, so the rule only detects.
type InlineAssignmentRule struct {
	lint.BaseRule
}

// NewInlineAssignmentRule creates the PS001 rule.
func NewInlineAssignmentRule() *InlineAssignmentRule {
	return &InlineAssignmentRule{
		BaseRule: lint.NewBaseRule(
			"PS001",
			"no-inline-assignment",
			"Conditions of if, elseif and while must not contain assignments",
			[]string{"control-structures", "bug-risk"},
			false,
			token.If, token.ElseIf, token.While,
		),
	}
}

// DefaultSeverity reports assignments in conditions as errors.
func (r *InlineAssignmentRule) DefaultSeverity() config.Severity {
	return config.SeverityError
}

// Check reports the control keyword when its condition assigns.
func (r *InlineAssignmentRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	open, ok := token.NextNonEmpty(s, i+1)
	if !ok || s.Kind(open) != token.OpenParen {
		return lint.Diagnostic{}, false
	}
	closer, ok := s.Tokens[open].Match()
	if !ok {
		return lint.Diagnostic{}, false
	}

	assign, ok := findAssignment(s, open, closer)
	if !ok {
		return lint.Diagnostic{}, false
	}

	keyword := strings.ToLower(s.Text(i))
	return r.Report(ctx, i, fmt.Sprintf("Assignment in %s condition; assign before the %s", keyword, keyword)).
		WithSuggestion(fmt.Sprintf("move %q out of the condition", strings.TrimSpace(s.Text(assign)))).
		Report()
}

// findAssignment returns the first assignment operator between open and
// closer that is not part of a nested closure or anonymous class.
func findAssignment(s *token.Stream, open, closer int) (int, bool) {
	for j := open + 1; j < closer; j++ {
		switch s.Kind(j) {
		case token.Equal, token.AssignOp, token.ConcatEqual:
			return j, true
		case token.Function, token.Class:
			if _, end, ok := s.Tokens[j].Scope(); ok && end < closer {
				j = end
			}
		case token.Fn:
			if end, ok := token.StatementEnd(s, j); ok && end < closer {
				j = end
			}
		}
	}
	return 0, false
}

// ElseIfRule replaces "else if" with "elseif".
type ElseIfRule struct {
	lint.BaseRule
}

// NewElseIfRule creates the PS002 rule.
func NewElseIfRule() *ElseIfRule {
	return &ElseIfRule{
		BaseRule: lint.NewBaseRule(
			"PS002",
			"elseif-keyword",
			"Use elseif instead of else if",
			[]string{"control-structures", "psr12"},
			true,
			token.Else,
		),
	}
}

// Check reports an else directly followed by if.
func (r *ElseIfRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	next, ok := token.NextNonEmpty(s, i+1)
	if !ok || s.Kind(next) != token.If {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, i, `Usage of "else if" is discouraged; use "elseif" instead`).
		WithEnd(s, next).
		WithFixable(onlyWhitespace(s, i, next)).
		Report()
}

// Fix merges the two keywords.
func (r *ElseIfRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	next, ok := token.NextNonEmpty(s, i+1)
	if !ok || s.Kind(next) != token.If {
		return nil
	}
	cs.Replace(i, next, "elseif")
	return nil
}
