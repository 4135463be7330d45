package configloader

import (
	"maps"

	"github.com/yaklabco/phpsniff/pkg/config"
)

// merge layers override on top of base and returns a new config.
//
// Strings and numbers override when non-zero and run flags when true. Slices
// override when non-nil. Backups override as a whole when non-zero; file
// layers are decoded on top of the merged backups so an explicit
// "enabled: false" is kept. Rule settings merge per rule and per option.
func merge(base, override *config.Config) *config.Config {
	switch {
	case base == nil:
		return override
	case override == nil:
		return base
	}

	result := *base

	setIfNonZero(&result.SeverityDefault, override.SeverityDefault)
	setIfNonZero(&result.Format, override.Format)
	setIfNonZero(&result.RuleFormat, override.RuleFormat)
	setIfNonZero(&result.Jobs, override.Jobs)

	setIfNonZero(&result.Fix, override.Fix)
	setIfNonZero(&result.DryRun, override.DryRun)
	setIfNonZero(&result.NoBackups, override.NoBackups)
	setIfNonZero(&result.Strict, override.Strict)

	setIfNonZero(&result.Backups, override.Backups)

	setIfNonNil(&result.Ignore, override.Ignore)
	setIfNonNil(&result.Extensions, override.Extensions)
	setIfNonNil(&result.LegacyProjects, override.LegacyProjects)
	setIfNonNil(&result.EnableRules, override.EnableRules)
	setIfNonNil(&result.DisableRules, override.DisableRules)
	setIfNonNil(&result.FixRules, override.FixRules)

	result.Rules = mergeRules(base.Rules, override.Rules)

	return &result
}

func setIfNonZero[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

func setIfNonNil[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = v
	}
}

func mergeRules(base, override map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && override == nil {
		return nil
	}
	result := maps.Clone(base)
	if result == nil {
		result = make(map[string]config.RuleConfig, len(override))
	}
	for id, rc := range override {
		result[id] = mergeRuleConfig(result[id], rc)
	}
	return result
}

func mergeRuleConfig(base, override config.RuleConfig) config.RuleConfig {
	if override.Enabled != nil {
		base.Enabled = override.Enabled
	}
	if override.Severity != nil {
		base.Severity = override.Severity
	}
	if override.AutoFix != nil {
		base.AutoFix = override.AutoFix
	}
	if override.Options != nil {
		options := maps.Clone(base.Options)
		if options == nil {
			options = make(map[string]any, len(override.Options))
		}
		maps.Copy(options, override.Options)
		base.Options = options
	}
	return base
}

// MergeAll merges configs in order; later configs win.
func MergeAll(configs ...*config.Config) *config.Config {
	var result *config.Config
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}
