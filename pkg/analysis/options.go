package analysis

import "slices"

// SortField orders the per-rule and per-file views. Ties fall back to rule
// ID or path.
type SortField string

const (
	SortByCount    SortField = "count"
	SortByAlpha    SortField = "alpha"
	SortBySeverity SortField = "severity"
)

// SortFields lists the accepted values for --sort.
func SortFields() []SortField {
	return []SortField{SortByCount, SortByAlpha, SortBySeverity}
}

// IsValid reports whether s is one of SortFields.
func (s SortField) IsValid() bool {
	return slices.Contains(SortFields(), s)
}

// Options selects which views Analyze builds and how they are ordered.
type Options struct {
	IncludeDiagnostics bool
	IncludeByFile      bool
	IncludeByRule      bool

	// IncludeSource copies the offending source line into each entry.
	IncludeSource bool

	SortBy SortField

	// SortDesc puts the highest counts first. Only SortByCount honours it.
	SortDesc bool

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

// DefaultOptions builds every view, busiest first.
func DefaultOptions() Options {
	return Options{
		IncludeDiagnostics: true,
		IncludeByFile:      true,
		IncludeByRule:      true,
		IncludeSource:      true,
		SortBy:             SortByCount,
		SortDesc:           true,
	}
}
