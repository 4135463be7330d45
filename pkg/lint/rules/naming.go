package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

func isCamelCase(name string) bool {
	if name == "" || strings.Contains(name, "_") {
		return false
	}
	return unicode.IsLower(rune(name[0]))
}

func isPascalCase(name string) bool {
	if name == "" || strings.Contains(name, "_") {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}

func isUpperSnakeCase(name string) bool {
	if name == "" || !unicode.IsUpper(rune(name[0])) {
		return false
	}
	for _, c := range name {
		if !unicode.IsUpper(c) && !unicode.IsDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

// MethodNameRule requires lowerCamelCase method names.
type MethodNameRule struct {
	lint.BaseRule
}

// NewMethodNameRule creates the PS010 rule.
func NewMethodNameRule() *MethodNameRule {
	return &MethodNameRule{
		BaseRule: lint.NewBaseRule(
			"PS010",
			"method-name-camel-case",
			"Method names must be declared in lowerCamelCase",
			[]string{"naming", "psr1"},
			false,
			token.Function,
		),
	}
}

// Check reports method names that are not lowerCamelCase. Magic methods and
// test methods are exempt.
func (r *MethodNameRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !lint.IsMethod(s, i) {
		return lint.Diagnostic{}, false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	name := s.Text(nameIdx)
	if isMagic(name) || isCamelCase(name) {
		return lint.Diagnostic{}, false
	}
	if ctx.Roles(i).Has(lint.RoleTest) && strings.HasPrefix(strings.ToLower(name), "test") {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, nameIdx, fmt.Sprintf("Method name %q is not in camel caps format", name)).Report()
}

// ClassNameRule requires PascalCase type names.
type ClassNameRule struct {
	lint.BaseRule
}

// NewClassNameRule creates the PS011 rule.
func NewClassNameRule() *ClassNameRule {
	return &ClassNameRule{
		BaseRule: lint.NewBaseRule(
			"PS011",
			"class-name-pascal-case",
			"Class, interface, trait and enum names must be declared in PascalCase",
			[]string{"naming", "psr1"},
			false,
			token.Class, token.Interface, token.Trait, token.Enum,
		),
	}
}

// Check reports the declared name.
func (r *ClassNameRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	nameIdx, ok := lint.DeclarationName(s, i)
	if !ok {
		return lint.Diagnostic{}, false
	}
	name := s.Text(nameIdx)
	if isPascalCase(name) {
		return lint.Diagnostic{}, false
	}
	kind := strings.ToLower(s.Text(i))
	return r.Report(ctx, nameIdx, fmt.Sprintf("%s name %q is not in PascalCase format", capitalize(kind), name)).Report()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ConstantNameRule requires UPPER_SNAKE_CASE class constants.
type ConstantNameRule struct {
	lint.BaseRule
}

// NewConstantNameRule creates the PS012 rule.
func NewConstantNameRule() *ConstantNameRule {
	return &ConstantNameRule{
		BaseRule: lint.NewBaseRule(
			"PS012",
			"constant-name-upper-case",
			"Class constants must be declared in upper case with underscore separators",
			[]string{"naming", "psr1"},
			false,
			token.Const,
		),
	}
}

// isClassConstant reports whether the const keyword at i declares constants
// directly inside a class-like body.
func isClassConstant(ctx *lint.RuleContext, i int) bool {
	s := ctx.Stream
	class, ok := ctx.ClassAt(i)
	if !ok {
		return false
	}
	opener, _, _ := s.Tokens[class].Scope()
	return s.Tokens[i].Level == s.Tokens[opener].Level+1
}

// Check reports the first offending name of the statement.
func (r *ConstantNameRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !isClassConstant(ctx, i) {
		return lint.Diagnostic{}, false
	}

	var bad []string
	first := -1
	for _, nameIdx := range lint.ConstantNames(s, i) {
		if name := s.Text(nameIdx); !isUpperSnakeCase(name) {
			bad = append(bad, name)
			if first < 0 {
				first = nameIdx
			}
		}
	}
	if first < 0 {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, first, fmt.Sprintf("Class constants must be uppercase; found %s", strings.Join(bad, ", "))).
		WithSuggestion(strings.ToUpper(bad[0])).
		Report()
}

// ControllerActionRule requires public controller methods to end in "Action".
type ControllerActionRule struct {
	lint.BaseRule
}

// NewControllerActionRule creates the PS017 rule.
func NewControllerActionRule() *ControllerActionRule {
	return &ControllerActionRule{
		BaseRule: lint.NewBaseRule(
			"PS017",
			"controller-action-suffix",
			"Public controller methods are actions and must end in Action",
			[]string{"naming", "conventions"},
			false,
			token.Function,
		),
	}
}

// Check reports public controller methods without the suffix. Files of
// legacy projects are skipped unless skip_legacy is false.
func (r *ControllerActionRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !lint.IsMethod(s, i) {
		return lint.Diagnostic{}, false
	}
	roles := ctx.Roles(i)
	if !roles.Has(lint.RoleController) || roles.Has(lint.RoleTest) {
		return lint.Diagnostic{}, false
	}
	if class, ok := ctx.ClassAt(i); !ok || s.Kind(class) != token.Class {
		return lint.Diagnostic{}, false
	}
	if ctx.OptionBool("skip_legacy", true) && ctx.IsLegacy() {
		return lint.Diagnostic{}, false
	}

	mods := lint.DeclarationModifiers(s, i)
	if !mods.IsPublic() || mods.Static || mods.Abstract {
		return lint.Diagnostic{}, false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	name := s.Text(nameIdx)
	if isMagic(name) || strings.HasSuffix(name, "Action") {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, nameIdx, fmt.Sprintf("Public controller method %q must end in \"Action\"", name)).
		WithSuggestion(name + "Action").
		Report()
}
