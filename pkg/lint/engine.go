package lint

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// FileResult contains the results of linting a single file.
type FileResult struct {
	// Stream is the tokenized file.
	Stream *token.Stream

	// Diagnostics contains all issues found, in stream order.
	Diagnostics []Diagnostic

	// Edits contains validated, sorted edits for auto-fix.
	// Empty if no fixes are available or fixing was not requested.
	Edits []fix.TextEdit

	// SkippedEdits contains edits that were skipped due to conflicts between rules.
	// When edits overlap, earlier edits (by start position) take precedence and
	// the rest are retried on the next fix pass.
	SkippedEdits []fix.TextEdit

	// EditConflicts is true if any edits were skipped due to conflicts.
	EditConflicts bool

	// RuleErrors contains defects raised while fixing, keyed by rule ID.
	// A rule with an error contributes no edits for this file.
	RuleErrors map[string]error
}

// HasIssues returns true if any diagnostics were found.
func (fr *FileResult) HasIssues() bool {
	return len(fr.Diagnostics) > 0
}

// HasFixes returns true if any fixes are available.
func (fr *FileResult) HasFixes() bool {
	return len(fr.Edits) > 0
}

// IssueCount returns the total number of diagnostics.
func (fr *FileResult) IssueCount() int {
	return len(fr.Diagnostics)
}

// FixableCount returns the number of fixable diagnostics.
func (fr *FileResult) FixableCount() int {
	count := 0
	for _, d := range fr.Diagnostics {
		if d.Fixable {
			count++
		}
	}
	return count
}

// Err combines all rule errors in rule ID order.
func (fr *FileResult) Err() error {
	var err error
	for _, id := range slices.Sorted(maps.Keys(fr.RuleErrors)) {
		err = multierr.Append(err, fmt.Errorf("%s: %w", id, fr.RuleErrors[id]))
	}
	return err
}

// Engine coordinates tokenizing and rule execution for linting.
type Engine struct {
	// Tokenizer turns PHP files into token streams.
	Tokenizer Tokenizer

	// Registry holds all available rules.
	Registry *Registry
}

// NewEngine creates a new Engine with the given tokenizer and registry.
func NewEngine(tokenizer Tokenizer, registry *Registry) *Engine {
	return &Engine{
		Tokenizer: tokenizer,
		Registry:  registry,
	}
}

// ruleRun is the per-file state of one resolved rule.
type ruleRun struct {
	ResolvedRule
	ctx    *RuleContext
	cs     *fix.Changeset
	diags  []int // indices into FileResult.Diagnostics
	failed bool
}

// LintFile tokenizes and lints a single file. run may be nil.
//
// Check is called for every token whose kind a rule is interested in, in
// stream order; rules are visited in ID order for each token. Fixable
// diagnostics of auto-fixing rules are repaired through one changeset per
// rule. A defect in a rule's fix drops every edit of that rule for the file
// and is recorded in RuleErrors.
func (e *Engine) LintFile(
	ctx context.Context,
	path string,
	content []byte,
	cfg *config.Config,
	run *RunContext,
) (*FileResult, error) {
	stream, err := e.Tokenizer.Tokenize(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("tokenize error: %w", err)
	}

	result := &FileResult{
		Stream:     stream,
		RuleErrors: make(map[string]error),
	}

	cache := NewTokenCache(stream)
	byKind := make(map[token.Kind][]*ruleRun)
	var runs []*ruleRun

	for _, rr := range ResolveRules(e.Registry, cfg) {
		rctx := NewRuleContext(ctx, stream, cfg, rr.Config)
		rctx.Registry = e.Registry
		rctx.Run = run
		rctx.cache = cache

		r := &ruleRun{ResolvedRule: rr, ctx: rctx}
		if rr.AutoFix {
			r.cs = fix.NewChangeset(stream)
			r.cs.Begin()
		}
		runs = append(runs, r)

		for _, kind := range rr.Rule.Kinds() {
			byKind[kind] = append(byKind[kind], r)
		}
	}

	for i, tok := range stream.Tokens {
		interested := byKind[tok.Kind]
		if len(interested) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		for _, r := range interested {
			e.check(result, r, i)
		}
	}

	var allEdits []fix.TextEdit
	for _, r := range runs {
		if r.cs == nil || r.failed || r.cs.Len() == 0 {
			continue
		}
		// The rule's own edits must be consistent as a whole.
		if _, err := r.cs.TextEdits(); err != nil {
			r.fail(result, err)
			continue
		}
		for _, idx := range r.diags {
			allEdits = append(allEdits, result.Diagnostics[idx].FixEdits...)
		}
	}

	for _, id := range slices.Sorted(maps.Keys(result.RuleErrors)) {
		logging.FromContext(ctx).Warn("rule fixes aborted", logging.FieldRule, id, logging.FieldError, result.RuleErrors[id])
	}

	if len(allEdits) > 0 {
		res, err := fix.ResolveEdits(allEdits, len(content))
		if err != nil {
			result.Edits = nil
			result.SkippedEdits = nil
			result.EditConflicts = true
		} else {
			result.Edits = res.Accepted
			result.SkippedEdits = res.Skipped
			result.EditConflicts = len(res.Skipped) > 0
		}
	}

	return result, nil
}

// check runs one rule on token i and, when appropriate, its fix.
func (e *Engine) check(result *FileResult, r *ruleRun, i int) {
	diag, ok := r.Rule.Check(r.ctx, i)
	if !ok {
		return
	}

	diag.Severity = r.Severity
	diag.Fixable = diag.Fixable && r.Rule.CanFix()
	if diag.FilePath == "" {
		diag.FilePath = r.ctx.Path()
	}
	if diag.RuleID == "" {
		diag.RuleID = r.Rule.ID()
	}
	if diag.RuleName == "" {
		diag.RuleName = r.Rule.Name()
	}

	if diag.Fixable && r.cs != nil && !r.failed {
		mark := r.cs.Len()
		if err := r.Rule.Fix(r.ctx, i, r.cs); err != nil {
			r.fail(result, fmt.Errorf("fix at token %d: %w", i, err))
		} else if edits, err := r.cs.TextEditsBetween(mark, r.cs.Len()); err != nil {
			r.fail(result, err)
		} else {
			diag.FixEdits = edits
		}
	}

	r.diags = append(r.diags, len(result.Diagnostics))
	result.Diagnostics = append(result.Diagnostics, diag)
}

// fail aborts the rule's fixes for the file and records err.
func (r *ruleRun) fail(result *FileResult, err error) {
	r.failed = true
	r.cs.Rollback()
	for _, idx := range r.diags {
		result.Diagnostics[idx].FixEdits = nil
	}
	id := r.Rule.ID()
	result.RuleErrors[id] = multierr.Append(result.RuleErrors[id], err)
}
