package configloader

import (
	"slices"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/lint"
)

// NormalizeRuleID resolves a rule ID, name or PHP_CodeSniffer code to its
// canonical rule ID.
func NormalizeRuleID(registry *lint.Registry, key string) (string, bool) {
	if registry == nil {
		return "", false
	}
	if id, _, ok := registry.Resolve(key); ok {
		return id, true
	}
	id, _, ok := registry.Resolve(strings.ToUpper(key))
	return id, ok
}

// TagRules returns the IDs of all rules carrying tag, sorted.
// Returns nil if no rule has the tag.
func TagRules(registry *lint.Registry, tag string) []string {
	if registry == nil {
		return nil
	}
	var ids []string
	for _, rule := range registry.Rules() {
		if slices.Contains(rule.Tags(), tag) {
			ids = append(ids, rule.ID())
		}
	}
	slices.Sort(ids)
	return ids
}

// IsTag returns true if at least one registered rule carries tag.
func IsTag(registry *lint.Registry, tag string) bool {
	return len(TagRules(registry, tag)) > 0
}
