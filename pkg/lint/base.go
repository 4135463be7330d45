package lint

import (
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// BaseRule carries the static metadata of a rule. Rules embed it and
// override Check, Fix and the defaults they change.
type BaseRule struct {
	id, name, desc string
	tags           []string
	fixable        bool
	kinds          []token.Kind
}

func NewBaseRule(id, name, desc string, tags []string, fixable bool, kinds ...token.Kind) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, tags: tags, fixable: fixable, kinds: kinds}
}

func (r *BaseRule) ID() string          { return r.id }
func (r *BaseRule) Name() string        { return r.name }
func (r *BaseRule) Description() string { return r.desc }
func (r *BaseRule) Tags() []string      { return r.tags }
func (r *BaseRule) CanFix() bool        { return r.fixable }
func (r *BaseRule) Kinds() []token.Kind { return r.kinds }

// DefaultEnabled is true unless the rule overrides it.
func (r *BaseRule) DefaultEnabled() bool { return true }

// DefaultSeverity is warning unless the rule overrides it.
func (r *BaseRule) DefaultSeverity() config.Severity { return config.SeverityWarning }

func (r *BaseRule) Check(*RuleContext, int) (Diagnostic, bool) { return Diagnostic{}, false }

func (r *BaseRule) Fix(*RuleContext, int, *fix.Changeset) error { return nil }

// Report starts a diagnostic for this rule at token i, fixable when the
// rule can fix.
func (r *BaseRule) Report(ctx *RuleContext, i int, message string) *DiagnosticBuilder {
	return NewDiagnostic(r.id, ctx.Stream, i, message).
		WithRuleName(r.name).
		WithFixable(r.fixable)
}
