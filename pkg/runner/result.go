package runner

import (
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

// FileOutcome is what happened to one file. Exactly one of Result and
// Error is set.
type FileOutcome struct {
	Path   string
	Result *lint.PipelineResult
	Error  error
}

// Stats are the run totals.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesSkipped counts files whose fixes were discarded, e.g. because
	// the file changed on disk while being processed.
	FilesSkipped      int
	FilesModified     int
	FilesWithIssues   int
	FilesNotConverged int

	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[string]int

	// DiagnosticsFixed is the number of edits applied over all passes.
	DiagnosticsFixed int

	// RuleErrors counts files where at least one rule failed or staged
	// inconsistent edits.
	RuleErrors int
}

// Result is the outcome of Runner.Run. Files are in path order.
type Result struct {
	Files  []FileOutcome
	Stats  Stats
	Errors []error
}

// HasFailures reports an error-severity diagnostic or an unprocessable file.
func (r *Result) HasFailures() bool {
	return r != nil && (r.Stats.FilesErrored > 0 || r.countSeverity(config.SeverityError) > 0)
}

// HasWarnings reports a warning-severity diagnostic.
func (r *Result) HasWarnings() bool {
	return r != nil && r.countSeverity(config.SeverityWarning) > 0
}

// HasIssues reports any diagnostic at all.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}

func (r *Result) countSeverity(s config.Severity) int {
	return r.Stats.DiagnosticsBySeverity[string(s)]
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: map[string]int{}}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	switch {
	case outcome.Error != nil:
		r.Stats.FilesErrored++
	case outcome.Result != nil:
		r.Stats.addFile(outcome.Result)
	}
}

func (s *Stats) addFile(pr *lint.PipelineResult) {
	s.FilesProcessed++
	s.FilesSkipped += count(pr.Skipped)
	s.FilesModified += count(pr.Written)
	s.FilesNotConverged += count(!pr.Converged)
	s.DiagnosticsFixed += pr.TotalEditsApplied

	if pr.FileResult == nil {
		return
	}
	s.FilesWithIssues += count(len(pr.Diagnostics) > 0)
	s.RuleErrors += count(len(pr.RuleErrors) > 0)
	s.DiagnosticsTotal += len(pr.Diagnostics)
	s.DiagnosticsFixable += pr.FixableCount()

	for _, d := range pr.Diagnostics {
		severity := d.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		s.DiagnosticsBySeverity[string(severity)]++
	}
}

func count(b bool) int {
	if b {
		return 1
	}
	return 0
}
