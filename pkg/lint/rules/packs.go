package rules

import (
	"maps"

	"github.com/yaklabco/phpsniff/pkg/config"
)

// Pack describes a named group of rule defaults for a particular use case.
// Packs are configuration fragments that can be used as starting points
// for .phpsniff.yml files.
type Pack struct {
	// Name is the short identifier for the pack (e.g., "core", "strict").
	Name string

	// Description explains the purpose and characteristics of the pack.
	Description string

	// Rules contains rule configurations keyed by rule ID.
	Rules map[string]config.RuleConfig
}

// CorePack returns the core pack: syntax and layout rules every codebase can
// adopt without renaming anything.
func CorePack() Pack {
	return Pack{
		Name:        "core",
		Description: "Syntax and layout rules that only need the fixer: operators, arrays, spacing",
		Rules: map[string]config.RuleConfig{
			"PS001": enabled("error"),   // no-inline-assignment
			"PS002": enabled("warning"), // elseif-keyword
			"PS003": enabled("warning"), // not-equal-operator
			"PS004": enabled("warning"), // short-array-syntax
			"PS005": enabled("warning"), // multiline-array-trailing-comma
			"PS007": enabled("warning"), // concat-spacing
			"PS008": enabled("warning"), // cast-spacing
			"PS009": enabled("warning"), // one-statement-per-line
			"PS013": enabled("warning"), // constant-visibility
			"PS020": enabled("warning"), // no-space-before-semicolon
		},
	}
}

// StrictPack returns the strict pack with every rule enabled as an error.
func StrictPack() Pack {
	return Pack{
		Name:        "strict",
		Description: "Strict pack: every rule as an error, including naming and doc block conventions",
		Rules: map[string]config.RuleConfig{
			// Syntax (errors).
			"PS001": enabled("error"), // no-inline-assignment
			"PS002": enabled("error"), // elseif-keyword
			"PS003": enabled("error"), // not-equal-operator
			"PS004": enabled("error"), // short-array-syntax
			"PS005": enabled("error"), // multiline-array-trailing-comma
			"PS006": enabled("error"), // no-is-null
			"PS007": enabled("error"), // concat-spacing
			"PS008": enabled("error"), // cast-spacing
			"PS009": enabled("error"), // one-statement-per-line
			"PS020": enabled("error"), // no-space-before-semicolon

			// Naming (errors).
			"PS010": enabled("error"), // method-name-camel-case
			"PS011": enabled("error"), // class-name-pascal-case
			"PS012": enabled("error"), // constant-name-upper-case
			"PS017": enabled("error"), // controller-action-suffix

			// Declarations (errors).
			"PS013": enabled("error"), // constant-visibility
			"PS019": enabled("error"), // method-signature-length

			// Doc blocks (errors).
			"PS014": enabled("error"), // docblock-type-case
			"PS015": enabled("error"), // docblock-return-void
			"PS016": enabled("error"), // facade-api-tag
			"PS018": enabled("error"), // factory-create-return-docblock
		},
	}
}

// LegacyPack returns a pack for legacy codebases: conventions that would
// require renaming public API are turned off and the rest are informational.
func LegacyPack() Pack {
	return Pack{
		Name:        "legacy",
		Description: "Legacy pack: no renames, doc block rules as info, syntax fixes kept",
		Rules: map[string]config.RuleConfig{
			"PS001": enabled("warning"), // no-inline-assignment
			"PS003": enabled("info"),    // not-equal-operator
			"PS004": enabled("info"),    // short-array-syntax
			"PS014": enabled("info"),    // docblock-type-case
			"PS015": enabled("info"),    // docblock-return-void
			"PS020": enabled("info"),    // no-space-before-semicolon

			"PS010": disabled(), // method-name-camel-case
			"PS011": disabled(), // class-name-pascal-case
			"PS012": disabled(), // constant-name-upper-case
			"PS017": disabled(), // controller-action-suffix
		},
	}
}

// Packs returns all built-in rule packs.
func Packs() []Pack {
	return []Pack{
		CorePack(),
		StrictPack(),
		LegacyPack(),
	}
}

// PackByName returns a pack by name, or nil if not found.
func PackByName(name string) *Pack {
	for _, p := range Packs() {
		if p.Name == name {
			return &p
		}
	}
	return nil
}

// PackNames returns the names of all available packs.
func PackNames() []string {
	packs := Packs()
	names := make([]string, len(packs))
	for i, p := range packs {
		names[i] = p.Name
	}
	return names
}

// Config returns a configuration with the pack's rule settings applied on top
// of the defaults.
func (p Pack) Config() *config.Config {
	cfg := config.NewConfig()
	maps.Copy(cfg.Rules, p.Rules)
	return cfg
}

// enabled creates a RuleConfig with the rule enabled and the given severity.
func enabled(sev string) config.RuleConfig {
	enabled := true
	return config.RuleConfig{
		Enabled:  &enabled,
		Severity: &sev,
	}
}

// disabled creates a RuleConfig that turns the rule off.
func disabled() config.RuleConfig {
	off := false
	sev := string(config.SeverityInfo)
	return config.RuleConfig{
		Enabled:  &off,
		Severity: &sev,
	}
}
