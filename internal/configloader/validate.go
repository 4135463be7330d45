package configloader

import (
	"fmt"
	"maps"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fsutil"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/lint/rules"
)

// ValidationError is one problem found in a configuration.
type ValidationError struct {
	// Field is the dotted path of the setting, e.g. "rules.PS019.severity".
	Field   string
	Value   any
	Message string

	// FilePath and Line locate the setting when known.
	FilePath string
	Line     int
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	if e.FilePath != "" {
		b.WriteString(e.FilePath)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationResult separates fatal errors from warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

const (
	severityChoices = "error, warning, info"
	formatChoices   = "text, json, sarif, diff, summary"
)

// Validate checks cfg against registry (lint.DefaultRegistry when nil).
// Rules are checked in ID order so the first error is stable.
func Validate(cfg *config.Config, registry *lint.Registry) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	if cfg.SeverityDefault != "" && !config.Severity(cfg.SeverityDefault).IsValid() {
		result.fail("severity_default", cfg.SeverityDefault,
			"invalid severity %q; must be one of: %s", cfg.SeverityDefault, severityChoices)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format, "invalid format %q; must be one of: %s", cfg.Format, formatChoices)
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means one per CPU)")
	}
	if mode := cfg.Backups.Mode; mode != "" && !validBackupMode(mode) {
		result.fail("backups.mode", mode, "invalid backup mode %q; must be one of: sidecar, dir, none", mode)
	}

	for _, id := range slices.Sorted(maps.Keys(cfg.Rules)) {
		validateRule(id, cfg.Rules[id], registry, result)
	}

	for i, ext := range cfg.Extensions {
		if len(ext) < 2 || ext[0] != '.' {
			result.fail(fmt.Sprintf("extensions[%d]", i), ext,
				"invalid extension %q; must start with a dot, e.g. \".php\"", ext)
		}
	}
	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
	for i, pattern := range cfg.LegacyProjects {
		if _, err := path.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("legacy_projects[%d]", i), pattern, "invalid pattern: %v", err)
		}
	}

	return result
}

func validBackupMode(mode string) bool {
	switch fsutil.BackupMode(mode) {
	case fsutil.BackupModeSidecar, fsutil.BackupModeDirectory, fsutil.BackupModeNone:
		return true
	}
	return false
}

func validateRule(id string, rc config.RuleConfig, registry *lint.Registry, result *ValidationResult) {
	field := "rules." + id

	if _, ok := registry.Get(id); !ok {
		result.warn(field, id, "unknown rule %q; it will be ignored", id)
	}
	if rc.Severity != nil && !config.Severity(*rc.Severity).IsValid() {
		result.fail(field+".severity", *rc.Severity,
			"invalid severity %q; must be one of: %s", *rc.Severity, severityChoices)
	}

	documented := rules.DefaultOptions(id)
	for _, key := range slices.Sorted(maps.Keys(rc.Options)) {
		value := rc.Options[key]
		optField := field + ".options." + key

		if !isFlatValue(value) {
			result.fail(optField, value, "unsupported option value of type %T; options must be flat", value)
			continue
		}
		def, known := documented[key]
		if !known {
			result.warn(optField, value, "unknown option %q for %s", key, id)
			continue
		}
		if want, got := optionKind(def), optionKind(value); want != got {
			result.fail(optField, value, "option %q must be a %s, got %s", key, want, got)
		}
	}
}

func isFlatValue(v any) bool {
	switch v.(type) {
	case bool, int, int64, float64, string, []any, []string:
		return true
	}
	return false
}

// optionKind names the type class of an option value. YAML integers decode
// as int and JSON numbers as float64, so both are numbers.
func optionKind(v any) string {
	switch v.(type) {
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case string:
		return "string"
	}
	return "list"
}
