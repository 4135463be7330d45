package logging

// Keys used in structured log lines. Keep them snake_case so log
// processors can match on them.
const (
	FieldError = "error"
	FieldEvent = "event"

	// Paths.
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"

	// Run settings.
	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldPasses = "passes"

	// Run outcome.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesModified    = "files_modified"
	FieldDiagnosticsTotal = "diagnostics_total"

	// Rule metadata.
	FieldRule        = "rule"
	FieldSeverity    = "severity"
	FieldFixable     = "fixable"
	FieldDescription = "description"

	// Build info.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
