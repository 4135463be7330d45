package lint

import (
	"context"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// RuleContext is what a rule sees while checking one file. It is built per
// rule and file and discarded afterwards, so it carries its context.Context.
type RuleContext struct {
	Ctx      context.Context
	Stream   *token.Stream
	Config   *config.Config
	Registry *Registry

	// RuleConfig holds this rule's settings; nil when none were given.
	RuleConfig *config.RuleConfig

	// Run carries data computed once per run. It may be nil.
	Run *RunContext

	// cache is shared by all rules linting the same file.
	cache *TokenCache
}

func NewRuleContext(ctx context.Context, stream *token.Stream, cfg *config.Config, ruleCfg *config.RuleConfig) *RuleContext {
	return &RuleContext{Ctx: ctx, Stream: stream, Config: cfg, RuleConfig: ruleCfg}
}

// Path returns the path of the file being checked.
func (rc *RuleContext) Path() string {
	if rc.Stream == nil {
		return ""
	}
	return rc.Stream.Path
}

// Cancelled reports whether Ctx is done.
func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx.Err() != nil
}

// Cache returns the per-file token cache, creating it on first use.
func (rc *RuleContext) Cache() *TokenCache {
	if rc.cache == nil {
		rc.cache = NewTokenCache(rc.Stream)
	}
	return rc.cache
}

// Roles returns the roles of the class-like declaration enclosing token i.
func (rc *RuleContext) Roles(i int) Role {
	return rc.Cache().Roles(i)
}

// ClassAt returns the class-like declaration enclosing token i.
func (rc *RuleContext) ClassAt(i int) (int, bool) {
	return rc.Cache().ClassAt(i)
}

// IsLegacy reports whether the file belongs to a project configured as legacy.
func (rc *RuleContext) IsLegacy() bool {
	return rc.Run.IsLegacy(rc.Path())
}

// Option returns the raw value of a rule option, or defaultValue when unset.
func (rc *RuleContext) Option(key string, defaultValue any) any {
	if v, ok := rc.option(key); ok {
		return v
	}
	return defaultValue
}

func (rc *RuleContext) option(key string) (any, bool) {
	if rc.RuleConfig == nil {
		return nil, false
	}
	v, ok := rc.RuleConfig.Options[key]
	return v, ok
}

// OptionInt accepts YAML integers and JSON numbers.
func (rc *RuleContext) OptionInt(key string, defaultValue int) int {
	v, _ := rc.option(key)
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return defaultValue
}

func (rc *RuleContext) OptionString(key string, defaultValue string) string {
	return optionAs(rc, key, defaultValue)
}

func (rc *RuleContext) OptionBool(key string, defaultValue bool) bool {
	return optionAs(rc, key, defaultValue)
}

// OptionStringSlice accepts []string as well as the []any a decoded sequence
// yields; non-string items are dropped. An empty result means defaultValue.
func (rc *RuleContext) OptionStringSlice(key string, defaultValue []string) []string {
	v, _ := rc.option(key)
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		var out []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

func optionAs[T any](rc *RuleContext, key string, defaultValue T) T {
	v, _ := rc.option(key)
	if typed, ok := v.(T); ok {
		return typed
	}
	return defaultValue
}
