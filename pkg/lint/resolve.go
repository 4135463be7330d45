package lint

import "github.com/yaklabco/phpsniff/pkg/config"

// ResolvedRule is a rule with its effective settings for one run.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity

	// AutoFix reports whether the engine calls Fix for this rule.
	AutoFix bool

	// Config is the rule's own config section, nil when absent.
	Config *config.RuleConfig
}

// ResolveRules returns the enabled rules of registry in ID order.
//
// Settings layer as rule defaults, then cfg.Rules, then the CLI lists
// (EnableRules, DisableRules, FixRules). CLI lists may name a rule by ID,
// name or sniff alias. Nothing is auto-fixed unless cfg.Fix is set.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	sel := newSelectors(registry, cfg)

	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		if rr := sel.resolve(rule, cfg); rr.Enabled {
			resolved = append(resolved, rr)
		}
	}
	return resolved
}

// selectors holds the CLI rule lists as sets of canonical IDs.
type selectors struct {
	enable, disable, fix map[string]bool
	fixFiltered          bool
}

func newSelectors(registry *Registry, cfg *config.Config) selectors {
	if cfg == nil {
		return selectors{}
	}
	return selectors{
		enable:      canonicalIDs(registry, cfg.EnableRules),
		disable:     canonicalIDs(registry, cfg.DisableRules),
		fix:         canonicalIDs(registry, cfg.FixRules),
		fixFiltered: len(cfg.FixRules) > 0,
	}
}

func canonicalIDs(registry *Registry, keys []string) map[string]bool {
	ids := make(map[string]bool, len(keys))
	for _, key := range keys {
		if id, _, ok := registry.Resolve(key); ok {
			ids[id] = true
		}
	}
	return ids
}

func (s selectors) resolve(rule Rule, cfg *config.Config) ResolvedRule {
	id := rule.ID()
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}
	if cfg == nil {
		return rr
	}

	if rc, ok := cfg.Rules[id]; ok {
		rr.Config = &rc
		if rc.Enabled != nil {
			rr.Enabled = *rc.Enabled
		}
		if rc.Severity != nil {
			rr.Severity = config.Severity(*rc.Severity)
		}
		if rc.AutoFix != nil {
			rr.AutoFix = *rc.AutoFix
		}
	}

	switch {
	case s.disable[id]:
		rr.Enabled = false
	case s.enable[id]:
		rr.Enabled = true
	}
	if s.fixFiltered {
		rr.AutoFix = s.fix[id]
	}

	rr.AutoFix = rr.AutoFix && rule.CanFix() && cfg.Fix
	return rr
}
