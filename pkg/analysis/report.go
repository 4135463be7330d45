package analysis

import (
	"time"

	"github.com/yaklabco/phpsniff/pkg/fix"
)

// Report is what every renderer consumes. Slices are nil when the matching
// Options view was not requested or has no rows.
type Report struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Totals    Totals    `json:"summary"`

	// Diagnostics are ordered by file, then by position in the token stream.
	Diagnostics []DiagnosticEntry `json:"diagnostics,omitempty"`
	ByFile      []FileAnalysis    `json:"byFile,omitempty"`
	ByRule      []RuleAnalysis    `json:"byRule,omitempty"`

	// FileErrors holds unreadable files and rules that failed on a file.
	FileErrors []FileError `json:"fileErrors,omitempty"`

	// Diffs are the pending changes of a dry run, in discovery order.
	Diffs []DiffEntry `json:"-"`
}

// DiagnosticEntry is one reported violation with a display path.
type DiagnosticEntry struct {
	FilePath    string     `json:"filePath"`
	RuleID      string     `json:"ruleId"`
	RuleName    string     `json:"ruleName"`
	Severity    string     `json:"severity"`
	Message     string     `json:"message"`
	StartLine   int        `json:"startLine"`
	StartColumn int        `json:"startColumn"`
	EndLine     int        `json:"endLine"`
	EndColumn   int        `json:"endColumn"`
	Suggestion  string     `json:"suggestion,omitempty"`
	Fixable     bool       `json:"fixable"`
	Fixes       []FixEntry `json:"fixes,omitempty"`

	SourceLine string `json:"-"`
}

// FixEntry is a byte-offset replacement attached to a diagnostic.
type FixEntry struct {
	StartOffset int    `json:"startOffset"`
	EndOffset   int    `json:"endOffset"`
	NewText     string `json:"newText"`
}

// FileError is a whole-file failure, or a single rule failure when RuleID
// is set.
type FileError struct {
	Path    string `json:"path"`
	RuleID  string `json:"ruleId,omitempty"`
	Message string `json:"message"`
}

type DiffEntry struct {
	Path string
	Diff *fix.Diff
}

// Totals are run-wide counters.
type Totals struct {
	Files             int `json:"filesChecked"`
	FilesWithIssues   int `json:"filesWithIssues"`
	FilesModified     int `json:"filesModified"`
	FilesSkipped      int `json:"filesSkipped"`
	FilesErrored      int `json:"filesErrored"`
	FilesNotConverged int `json:"filesNotConverged"`

	Issues   int `json:"totalIssues"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Infos    int `json:"infos"`
	Fixable  int `json:"fixable"`

	EditsApplied int `json:"editsApplied"`
}

func (t Totals) HasIssues() bool { return t.Issues > 0 }

func (t Totals) HasErrors() bool { return t.Errors > 0 }

// FileAnalysis is one row of the per-file view. Only files with at least one
// diagnostic get a row.
type FileAnalysis struct {
	Path     string   `json:"path"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Fixable  int      `json:"fixable"`
	Rules    []string `json:"rules,omitempty"`
}

// RuleAnalysis is one row of the per-rule view. Fixable is set when any of
// the rule's diagnostics carried a fix.
type RuleAnalysis struct {
	RuleID   string   `json:"ruleId"`
	RuleName string   `json:"ruleName"`
	Issues   int      `json:"issues"`
	Errors   int      `json:"errors"`
	Warnings int      `json:"warnings"`
	Infos    int      `json:"infos"`
	Fixable  bool     `json:"fixable"`
	Files    []string `json:"files,omitempty"`
}
