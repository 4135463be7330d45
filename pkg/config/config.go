// Package config holds the phpsniff configuration types. Discovery and
// merging live in internal/configloader.
package config

import "slices"

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// IsValid returns true if the severity is one of the known levels.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo:
		return true
	default:
		return false
	}
}

// RuleConfig holds per-rule configuration options.
// Options is a flat map of booleans, integers and strings.
type RuleConfig struct {
	Enabled  *bool          `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Severity *string        `yaml:"severity,omitempty" json:"severity,omitempty"`
	AutoFix  *bool          `yaml:"auto_fix,omitempty" json:"auto_fix,omitempty"`
	Options  map[string]any `yaml:"options,omitempty" json:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Mode    string `yaml:"mode" json:"mode"` // "sidecar", "dir" or "none"
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatSARIF   OutputFormat = "sarif"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// OutputFormats lists the supported formats, the default first.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatSARIF, FormatDiff, FormatSummary}
}

// IsValid reports whether f is one of OutputFormats.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(OutputFormats(), f)
}

func (f OutputFormat) String() string { return string(f) }

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "no-inline-assignment"
	RuleFormatID       RuleFormat = "id"       // "PS001"
	RuleFormatCombined RuleFormat = "combined" // "PS001/no-inline-assignment"
)

// DefaultExtensions are the file extensions linted when none are configured.
func DefaultExtensions() []string {
	return []string{".php", ".phtml", ".inc"}
}

// Config is the root configuration structure for phpsniff.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `yaml:"severity_default,omitempty" json:"severity_default,omitempty"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `yaml:"ignore,omitempty" json:"ignore,omitempty"`

	// Extensions lists the file extensions treated as PHP.
	Extensions []string `yaml:"extensions,omitempty" json:"extensions,omitempty"`

	// LegacyProjects lists composer package names (or patterns) of legacy
	// projects for which some rules relax their policy.
	LegacyProjects []string `yaml:"legacy_projects,omitempty" json:"legacy_projects,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `yaml:"backups" json:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `yaml:"-" json:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `yaml:"-" json:"-"`

	// Strict treats warnings as failures for the exit code.
	Strict bool `yaml:"-" json:"-"`

	// Format specifies the output format.
	Format OutputFormat `yaml:"-" json:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `yaml:"-" json:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-" json:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `yaml:"-" json:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `yaml:"-" json:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `yaml:"-" json:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `yaml:"-" json:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		Rules:           make(map[string]RuleConfig),
		Extensions:      DefaultExtensions(),
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatID,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// RuleOptions returns the options configured for a rule, or nil.
func (c *Config) RuleOptions(id string) map[string]any {
	if c == nil {
		return nil
	}
	return c.Rules[id].Options
}
