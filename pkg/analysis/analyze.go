// Package analysis turns runner results into the aggregated views that
// reporters render: a flat diagnostic list, per-file and per-rule tables,
// file errors, pending diffs and totals.
package analysis

import (
	"cmp"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/runner"
)

// ReportVersion is the current report format version.
const ReportVersion = "1.0.0"

// tally counts diagnostics by severity.
type tally struct {
	issues, errors, warnings, infos int
}

func (t *tally) add(sev config.Severity) {
	t.issues++
	switch sev {
	case config.SeverityError:
		t.errors++
	case config.SeverityWarning:
		t.warnings++
	case config.SeverityInfo:
		t.infos++
	}
}

// order compares two tallies for the given sort field. Zero means the caller
// breaks the tie by name, which is all SortByAlpha does.
func (t tally) order(other tally, opts Options) int {
	switch opts.SortBy {
	case SortByAlpha:
		return 0
	case SortBySeverity:
		return cmp.Or(
			cmp.Compare(other.errors, t.errors),
			cmp.Compare(other.warnings, t.warnings),
			cmp.Compare(other.issues, t.issues),
		)
	}
	if opts.SortDesc {
		return cmp.Compare(other.issues, t.issues)
	}
	return cmp.Compare(t.issues, other.issues)
}

type fileRow struct {
	tally
	fixable int
	rules   map[string]struct{}
}

type ruleRow struct {
	tally
	name    string
	fixable bool
	files   map[string]struct{}
}

// aggregator collects the per-file and per-rule rows during one pass.
type aggregator struct {
	files map[string]*fileRow
	rules map[string]*ruleRow
}

func (a *aggregator) file(path string) *fileRow {
	row, ok := a.files[path]
	if !ok {
		row = &fileRow{rules: make(map[string]struct{})}
		a.files[path] = row
	}
	return row
}

func (a *aggregator) rule(id, name string) *ruleRow {
	row, ok := a.rules[id]
	if !ok {
		row = &ruleRow{name: name, files: make(map[string]struct{})}
		a.rules[id] = row
	}
	return row
}

func (a *aggregator) byRule(opts Options) []RuleAnalysis {
	ids := slices.Collect(maps.Keys(a.rules))
	slices.SortFunc(ids, func(left, right string) int {
		return cmp.Or(a.rules[left].order(a.rules[right].tally, opts), cmp.Compare(left, right))
	})

	out := make([]RuleAnalysis, 0, len(ids))
	for _, id := range ids {
		row := a.rules[id]
		out = append(out, RuleAnalysis{
			RuleID:   id,
			RuleName: row.name,
			Issues:   row.issues,
			Errors:   row.errors,
			Warnings: row.warnings,
			Infos:    row.infos,
			Fixable:  row.fixable,
			Files:    slices.Sorted(maps.Keys(row.files)),
		})
	}
	return out
}

func (a *aggregator) byFile(opts Options) []FileAnalysis {
	paths := slices.Collect(maps.Keys(a.files))
	slices.SortFunc(paths, func(left, right string) int {
		return cmp.Or(a.files[left].order(a.files[right].tally, opts), cmp.Compare(left, right))
	})

	var out []FileAnalysis
	for _, path := range paths {
		row := a.files[path]
		out = append(out, FileAnalysis{
			Path:     path,
			Issues:   row.issues,
			Errors:   row.errors,
			Warnings: row.warnings,
			Infos:    row.infos,
			Fixable:  row.fixable,
			Rules:    slices.Sorted(maps.Keys(row.rules)),
		})
	}
	return out
}

// Analyze transforms a runner.Result into a Report in a single pass over
// its file outcomes.
func Analyze(result *runner.Result, opts Options) *Report {
	report := &Report{Version: ReportVersion, Timestamp: time.Now()}
	if result == nil {
		return report
	}

	agg := &aggregator{files: make(map[string]*fileRow), rules: make(map[string]*ruleRow)}
	for _, outcome := range result.Files {
		report.Totals.Files++
		path := displayPath(outcome.Path, opts.WorkingDir)

		switch {
		case outcome.Error != nil:
			report.Totals.FilesErrored++
			report.FileErrors = append(report.FileErrors, FileError{Path: path, Message: outcome.Error.Error()})
		case outcome.Result != nil:
			report.addOutcome(agg, path, outcome.Result, opts)
		}
	}

	if opts.IncludeByRule {
		report.ByRule = agg.byRule(opts)
	}
	if opts.IncludeByFile {
		report.ByFile = agg.byFile(opts)
	}
	return report
}

func (r *Report) addOutcome(agg *aggregator, path string, res *lint.PipelineResult, opts Options) {
	totals := &r.Totals
	totals.FilesModified += count(res.Written)
	totals.FilesSkipped += count(res.Skipped)
	totals.FilesNotConverged += count(!res.Converged)
	totals.EditsApplied += res.TotalEditsApplied
	if res.Diff != nil && res.Diff.HasChanges() {
		r.Diffs = append(r.Diffs, DiffEntry{Path: path, Diff: res.Diff})
	}

	if res.FileResult == nil {
		return
	}
	for _, id := range slices.Sorted(maps.Keys(res.RuleErrors)) {
		r.FileErrors = append(r.FileErrors, FileError{Path: path, RuleID: id, Message: res.RuleErrors[id].Error()})
	}
	if len(res.Diagnostics) == 0 {
		return
	}
	totals.FilesWithIssues++

	var all tally
	file := agg.file(path)
	for i := range res.Diagnostics {
		diag := &res.Diagnostics[i]
		sev := diag.Severity
		if sev == "" {
			sev = config.SeverityWarning
		}

		rule := agg.rule(diag.RuleID, diag.RuleName)
		all.add(sev)
		file.add(sev)
		rule.add(sev)
		file.rules[diag.RuleID] = struct{}{}
		rule.files[path] = struct{}{}

		if diag.Fixable {
			totals.Fixable++
			file.fixable++
			rule.fixable = true
		}

		if opts.IncludeDiagnostics {
			entry := newDiagnosticEntry(path, string(sev), diag)
			if opts.IncludeSource && res.Stream != nil {
				entry.SourceLine = string(res.Stream.LineContent(diag.StartLine))
			}
			r.Diagnostics = append(r.Diagnostics, entry)
		}
	}

	totals.Issues += all.issues
	totals.Errors += all.errors
	totals.Warnings += all.warnings
	totals.Infos += all.infos
}

func newDiagnosticEntry(path, severity string, diag *lint.Diagnostic) DiagnosticEntry {
	entry := DiagnosticEntry{
		FilePath:    path,
		RuleID:      diag.RuleID,
		RuleName:    diag.RuleName,
		Severity:    severity,
		Message:     diag.Message,
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
		Suggestion:  diag.Suggestion,
		Fixable:     diag.Fixable,
	}
	for _, edit := range diag.FixEdits {
		entry.Fixes = append(entry.Fixes, FixEntry{StartOffset: edit.StartOffset, EndOffset: edit.EndOffset, NewText: edit.NewText})
	}
	return entry
}

// displayPath returns path slash-separated and, when possible, relative to
// workDir.
func displayPath(path, workDir string) string {
	if workDir != "" {
		if rel, err := filepath.Rel(workDir, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

func count(b bool) int {
	if b {
		return 1
	}
	return 0
}
