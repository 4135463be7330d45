// Package lint runs sniffs over PHP token streams and collects their diagnostics.
package lint

import (
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// Diagnostic is one violation found in a file. Lines and columns are
// 1-based; columns count bytes.
type Diagnostic struct {
	RuleID   string // e.g. "PS003"
	RuleName string // e.g. "not-equal-operator"
	Message  string
	Severity config.Severity
	FilePath string

	// TokenIndex is the stream index the violation was reported at.
	TokenIndex int

	StartLine, StartColumn int
	EndLine, EndColumn     int

	// Fixable is per violation: a fixing rule may still meet code it
	// cannot safely rewrite.
	Fixable    bool
	Suggestion string

	// FixEdits are the edits staged for this violation, if any.
	FixEdits []fix.TextEdit
}

// HasFix returns true if this diagnostic has associated fix edits.
func (d *Diagnostic) HasFix() bool {
	return len(d.FixEdits) > 0
}

// Rule is one sniff.
//
// The engine calls Check once for every token whose kind is listed in Kinds,
// in stream order. When Check reports a fixable diagnostic and fixing is on,
// Fix is called with the same index and an open changeset. Fix stages edits
// only through cs, returns an error only for internal defects and keeps no
// state between calls.
type Rule interface {
	ID() string
	Name() string
	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity
	Tags() []string
	CanFix() bool
	Kinds() []token.Kind

	// Check reports at most one violation at token i.
	Check(ctx *RuleContext, i int) (Diagnostic, bool)
	Fix(ctx *RuleContext, i int, cs *fix.Changeset) error
}
