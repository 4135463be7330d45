package rules

import (
	"maps"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Control structures
	registry.Register(NewInlineAssignmentRule()) // PS001
	registry.Register(NewElseIfRule())           // PS002

	// Operators
	registry.Register(NewNotEqualOperatorRule()) // PS003
	registry.Register(NewIsNullRule())           // PS006
	registry.Register(NewConcatSpacingRule())    // PS007
	registry.Register(NewCastSpacingRule())      // PS008

	// Arrays
	registry.Register(NewShortArraySyntaxRule()) // PS004
	registry.Register(NewTrailingCommaRule())    // PS005

	// Statements
	registry.Register(NewOneStatementPerLineRule()) // PS009
	registry.Register(NewSemicolonSpacingRule())    // PS020

	// Naming
	registry.Register(NewMethodNameRule())       // PS010
	registry.Register(NewClassNameRule())        // PS011
	registry.Register(NewConstantNameRule())     // PS012
	registry.Register(NewControllerActionRule()) // PS017

	// Declarations
	registry.Register(NewConstantVisibilityRule()) // PS013
	registry.Register(NewSignatureLengthRule())    // PS019

	// Doc blocks
	registry.Register(NewDocTypeCaseRule())   // PS014
	registry.Register(NewReturnVoidRule())    // PS015
	registry.Register(NewAPITagRule())        // PS016
	registry.Register(NewFactoryReturnRule()) // PS018
}

// sniffAliases maps PHP_CodeSniffer sniff codes to the rules that replace
// them, so existing rulesets can be carried over by name.
var sniffAliases = map[string]string{
	"Generic.CodeAnalysis.AssignmentInCondition":      "PS001",
	"PSR2.ControlStructures.ElseIfDeclaration":        "PS002",
	"Generic.PHP.DisallowAlternativeNotEqual":         "PS003",
	"Generic.Arrays.DisallowLongArraySyntax":          "PS004",
	"Squiz.Arrays.ArrayDeclaration.NoCommaAfterLast":  "PS005",
	"Squiz.Strings.ConcatenationSpacing":              "PS007",
	"Generic.Formatting.NoSpaceAfterCast":             "PS008",
	"Generic.Formatting.DisallowMultipleStatements":   "PS009",
	"PSR1.Methods.CamelCapsMethodName":                "PS010",
	"Squiz.Classes.ValidClassName":                    "PS011",
	"Generic.NamingConventions.UpperCaseConstantName": "PS012",
	"PSR12.Properties.ConstantVisibility":             "PS013",
	"Squiz.WhiteSpace.SemicolonSpacing":               "PS020",
}

// RegisterSniffAliases registers PHP_CodeSniffer sniff codes as aliases.
func RegisterSniffAliases(registry *lint.Registry) {
	for alias, id := range sniffAliases {
		registry.RegisterAlias(alias, id)
	}
}

// defaultOptions are the documented options of configurable rules.
var defaultOptions = map[string]map[string]any{
	"PS006": {"strict": false},
	"PS015": {"blank_line_before": false},
	"PS016": {"blank_line_before": false},
	"PS017": {"skip_legacy": true},
	"PS019": {"max_length": DefaultMaxSignatureLength},
}

// DefaultOptions returns a copy of the documented options of rule id.
func DefaultOptions(id string) map[string]any {
	return maps.Clone(defaultOptions[id])
}

// RuleInfos describes the rules in registry for config templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			CanFix:      rule.CanFix(),
			Options:     DefaultOptions(rule.ID()),
		})
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterSniffAliases(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
