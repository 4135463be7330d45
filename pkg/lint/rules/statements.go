package rules

import (
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// OneStatementPerLineRule moves a second statement on a line to its own line.
type OneStatementPerLineRule struct {
	lint.BaseRule
}

// NewOneStatementPerLineRule creates the PS009 rule.
func NewOneStatementPerLineRule() *OneStatementPerLineRule {
	return &OneStatementPerLineRule{
		BaseRule: lint.NewBaseRule(
			"PS009",
			"one-statement-per-line",
			"Each statement must be on a line by itself",
			[]string{"formatting", "psr2"},
			true,
			token.Semicolon,
		),
	}
}

// followingStatement returns the first token of a statement that shares a
// line with the semicolon at i. Semicolons inside parentheses (for loops)
// are ignored, as are trailing comments and closing braces.
func followingStatement(s *token.Stream, i int) (int, bool) {
	if s.Tokens[i].Nesting > 0 {
		return 0, false
	}
	next, ok := token.FindNext(s, []token.Kind{token.Whitespace}, i+1, token.Exclude(), token.SameLine())
	if !ok {
		return 0, false
	}
	switch s.Kind(next) {
	case token.Comment, token.CloseTag, token.CloseCurly, token.Semicolon:
		return 0, false
	}
	return next, true
}

// Check reports the statement following the semicolon.
func (r *OneStatementPerLineRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	next, ok := followingStatement(ctx.Stream, i)
	if !ok {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, next, "Each statement must be on a line by itself").Report()
}

// Fix breaks the line after the semicolon, keeping the current indentation.
func (r *OneStatementPerLineRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	if _, ok := followingStatement(s, i); !ok {
		return nil
	}
	text := s.EOL + token.Indentation(s, i)
	if s.Kind(i+1) == token.Whitespace {
		cs.ReplaceToken(i+1, text)
	} else {
		cs.InsertAfter(i, text)
	}
	return nil
}

// SemicolonSpacingRule removes whitespace in front of semicolons.
type SemicolonSpacingRule struct {
	lint.BaseRule
}

// NewSemicolonSpacingRule creates the PS020 rule.
func NewSemicolonSpacingRule() *SemicolonSpacingRule {
	return &SemicolonSpacingRule{
		BaseRule: lint.NewBaseRule(
			"PS020",
			"no-space-before-semicolon",
			"Semicolons must directly follow the statement they terminate",
			[]string{"whitespace"},
			true,
			token.Semicolon,
		),
	}
}

// spaceBeforeSemicolon reports blanks between a statement and its semicolon on
// the same line. A semicolon that starts its line is left alone.
func spaceBeforeSemicolon(s *token.Stream, i int) bool {
	if i < 2 || s.Tokens[i].Nesting > 0 {
		return false
	}
	ws := i - 1
	if s.Kind(ws) != token.Whitespace || containsNewline(s, ws) {
		return false
	}
	before := s.Tokens[ws-1]
	return before.Line == s.Tokens[i].Line && !containsNewline(s, ws-1) &&
		before.Kind != token.Whitespace && before.Kind != token.OpenTag
}

// Check reports the whitespace.
func (r *SemicolonSpacingRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !spaceBeforeSemicolon(s, i) {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, i-1, "Space found before semicolon; expected no space").Report()
}

// Fix deletes the whitespace.
func (r *SemicolonSpacingRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	if spaceBeforeSemicolon(ctx.Stream, i) {
		cs.Remove(i-1, i-1)
	}
	return nil
}
