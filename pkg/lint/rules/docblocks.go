package rules

import (
	"fmt"
	"strings"

	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// typedTags carry a type as the first word of their value.
var typedTags = map[string]bool{
	"@param":          true,
	"@return":         true,
	"@var":            true,
	"@property":       true,
	"@property-read":  true,
	"@property-write": true,
}

// canonicalTypes maps lower-cased type names to their canonical spelling.
var canonicalTypes = map[string]string{
	"boolean":  "bool",
	"integer":  "int",
	"double":   "float",
	"real":     "float",
	"bool":     "bool",
	"int":      "int",
	"float":    "float",
	"string":   "string",
	"array":    "array",
	"mixed":    "mixed",
	"void":     "void",
	"null":     "null",
	"callable": "callable",
	"iterable": "iterable",
	"object":   "object",
	"resource": "resource",
	"false":    "false",
	"true":     "true",
	"never":    "never",
	"self":     "self",
	"static":   "static",
}

// normalizeType rewrites every known type name in a type expression such as
// "?Integer[]|NULL" to its canonical spelling. Qualified class names are kept.
func normalizeType(expr string) string {
	isNameChar := func(c byte) bool {
		return c == '_' || c == '\\' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
	}

	var b strings.Builder
	for k := 0; k < len(expr); {
		if !isNameChar(expr[k]) {
			b.WriteByte(expr[k])
			k++
			continue
		}
		end := k
		for end < len(expr) && isNameChar(expr[end]) {
			end++
		}
		name := expr[k:end]
		if canonical, ok := canonicalTypes[strings.ToLower(name)]; ok && !strings.Contains(name, "\\") {
			name = canonical
		}
		b.WriteString(name)
		k = end
	}
	return b.String()
}

// DocTypeCaseRule normalizes type names in doc block tags.
type DocTypeCaseRule struct {
	lint.BaseRule
}

// NewDocTypeCaseRule creates the PS014 rule.
func NewDocTypeCaseRule() *DocTypeCaseRule {
	return &DocTypeCaseRule{
		BaseRule: lint.NewBaseRule(
			"PS014",
			"docblock-type-case",
			"Doc block types must use the short lower-case names (bool, int, float, array)",
			[]string{"docblock"},
			true,
			token.DocCommentTag,
		),
	}
}

// tagType returns the value token of the typed tag at i and its type word
// before and after normalization.
func tagType(s *token.Stream, i int) (int, string, string, bool) {
	if !typedTags[strings.ToLower(s.Text(i))] {
		return 0, "", "", false
	}
	value, ok := token.FindNext(s, []token.Kind{token.DocCommentWhitespace}, i+1, token.Exclude())
	if !ok || s.Kind(value) != token.DocCommentString || s.Tokens[value].Line != s.Tokens[i].Line {
		return 0, "", "", false
	}
	word, _, _ := strings.Cut(s.Text(value), " ")
	if strings.HasPrefix(word, "$") {
		return 0, "", "", false
	}
	fixed := normalizeType(word)
	if fixed == word {
		return 0, "", "", false
	}
	return value, word, fixed, true
}

// Check reports the type word of the tag.
func (r *DocTypeCaseRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	value, word, fixed, ok := tagType(s, i)
	if !ok {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, value, fmt.Sprintf("Expected %q but found %q in %s", fixed, word, s.Text(i))).
		WithSuggestion(fixed).
		Report()
}

// Fix rewrites the type word and keeps the rest of the line.
func (r *DocTypeCaseRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	value, word, fixed, ok := tagType(s, i)
	if !ok {
		return nil
	}
	cs.ReplaceToken(value, fixed+strings.TrimPrefix(s.Text(value), word))
	return nil
}

// ReturnVoidRule requires methods without a return value to document @return void.
type ReturnVoidRule struct {
	lint.BaseRule
}

// NewReturnVoidRule creates the PS015 rule.
func NewReturnVoidRule() *ReturnVoidRule {
	return &ReturnVoidRule{
		BaseRule: lint.NewBaseRule(
			"PS015",
			"docblock-return-void",
			"Methods that return nothing must document @return void",
			[]string{"docblock"},
			true,
			token.Function,
		),
	}
}

// needsReturnVoid reports whether the method at i returns nothing and its doc
// block lacks a @return tag.
func needsReturnVoid(s *token.Stream, i int) bool {
	if !lint.IsMethod(s, i) {
		return false
	}
	if _, _, ok := s.Tokens[i].Scope(); !ok {
		return false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	switch strings.ToLower(s.Text(nameIdx)) {
	case "__construct", "__destruct":
		return false
	}
	if rt, ok := lint.ReturnType(s, i); ok && !strings.EqualFold(rt, "void") {
		return false
	}
	if lint.ReturnsValue(s, i) {
		return false
	}
	if open, _, ok := token.EnclosingDocBlock(s, i); ok {
		if inheritsDoc(s, open) {
			return false
		}
		if _, ok := token.FindTag(s, open, "@return"); ok {
			return false
		}
	}
	return true
}

func (r *ReturnVoidRule) edit(ctx *lint.RuleContext) docEdit {
	return docEdit{
		Lines:       []string{"@return void"},
		BlankBefore: ctx.OptionBool("blank_line_before", false),
	}
}

// Check reports the method name.
func (r *ReturnVoidRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !needsReturnVoid(s, i) {
		return lint.Diagnostic{}, false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	msg := fmt.Sprintf("Method %s() returns nothing; its doc block must declare @return void", s.Text(nameIdx))
	if _, _, ok := token.EnclosingDocBlock(s, i); !ok {
		msg = fmt.Sprintf("Method %s() has no doc block; @return void is required", s.Text(nameIdx))
	}
	_, fixable := planDocLines(s, i, r.edit(ctx))
	return r.Report(ctx, nameIdx, msg).WithFixable(fixable).Report()
}

// Fix adds the tag, creating the doc block when necessary.
func (r *ReturnVoidRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	s := ctx.Stream
	if !needsReturnVoid(s, i) {
		return nil
	}
	if plan, ok := planDocLines(s, i, r.edit(ctx)); ok {
		plan.stage(cs)
	}
	return nil
}

// APITagRule requires public facade and client methods to carry @api.
type APITagRule struct {
	lint.BaseRule
}

// NewAPITagRule creates the PS016 rule.
func NewAPITagRule() *APITagRule {
	return &APITagRule{
		BaseRule: lint.NewBaseRule(
			"PS016",
			"facade-api-tag",
			"Public methods of facades and clients are public API and must be tagged @api",
			[]string{"docblock", "conventions"},
			true,
			token.Function,
		),
	}
}

func needsAPITag(ctx *lint.RuleContext, i int) bool {
	s := ctx.Stream
	if !lint.IsMethod(s, i) {
		return false
	}
	roles := ctx.Roles(i)
	if !roles.Any(lint.RoleFacade|lint.RoleClient) || roles.Has(lint.RoleTest) {
		return false
	}
	if class, ok := ctx.ClassAt(i); !ok || !s.Tokens[class].Is(token.Class, token.Interface) {
		return false
	}
	if !lint.DeclarationModifiers(s, i).IsPublic() {
		return false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	if isMagic(s.Text(nameIdx)) {
		return false
	}
	if open, _, ok := token.EnclosingDocBlock(s, i); ok {
		if _, ok := token.FindTag(s, open, "@api"); ok {
			return false
		}
	}
	return true
}

func (r *APITagRule) edit(ctx *lint.RuleContext) docEdit {
	return docEdit{
		Lines:       []string{"@api"},
		BlankBefore: ctx.OptionBool("blank_line_before", false),
	}
}

// Check reports the method name.
func (r *APITagRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !needsAPITag(ctx, i) {
		return lint.Diagnostic{}, false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	_, fixable := planDocLines(s, i, r.edit(ctx))
	return r.Report(ctx, nameIdx, fmt.Sprintf("Public method %s() of %s must be tagged @api", s.Text(nameIdx), ctx.Roles(i))).
		WithFixable(fixable).
		Report()
}

// Fix adds the tag, creating the doc block when necessary.
func (r *APITagRule) Fix(ctx *lint.RuleContext, i int, cs *fix.Changeset) error {
	if !needsAPITag(ctx, i) {
		return nil
	}
	if plan, ok := planDocLines(ctx.Stream, i, r.edit(ctx)); ok {
		plan.stage(cs)
	}
	return nil
}

// FactoryReturnRule requires factory create methods to document what they return.
type FactoryReturnRule struct {
	lint.BaseRule
}

// NewFactoryReturnRule creates the PS018 rule.
func NewFactoryReturnRule() *FactoryReturnRule {
	return &FactoryReturnRule{
		BaseRule: lint.NewBaseRule(
			"PS018",
			"factory-create-return-docblock",
			"Factory create methods must document their return type with @return",
			[]string{"docblock", "conventions"},
			false,
			token.Function,
		),
	}
}

// Check reports create methods of factories without a typed @return tag.
func (r *FactoryReturnRule) Check(ctx *lint.RuleContext, i int) (lint.Diagnostic, bool) {
	s := ctx.Stream
	if !lint.IsMethod(s, i) {
		return lint.Diagnostic{}, false
	}
	roles := ctx.Roles(i)
	if !roles.Has(lint.RoleFactory) || roles.Has(lint.RoleTest) {
		return lint.Diagnostic{}, false
	}
	nameIdx, _ := lint.DeclarationName(s, i)
	name := s.Text(nameIdx)
	if !strings.HasPrefix(name, "create") || !lint.DeclarationModifiers(s, i).IsPublic() {
		return lint.Diagnostic{}, false
	}

	open, _, ok := token.EnclosingDocBlock(s, i)
	if !ok {
		return r.Report(ctx, nameIdx, fmt.Sprintf("Factory method %s() needs a doc block with @return", name)).Report()
	}
	if inheritsDoc(s, open) {
		return lint.Diagnostic{}, false
	}
	if tag, ok := token.FindTag(s, open, "@return"); ok && tag.HasValue {
		return lint.Diagnostic{}, false
	}
	return r.Report(ctx, nameIdx, fmt.Sprintf("Doc block of factory method %s() must declare @return", name)).Report()
}
