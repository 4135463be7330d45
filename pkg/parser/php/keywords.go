package php

import "github.com/yaklabco/phpsniff/pkg/token"

var keywords = map[string]token.Kind{
	"abstract":     token.Abstract,
	"array":        token.Array,
	"as":           token.As,
	"break":        token.Break,
	"case":         token.Case,
	"catch":        token.Catch,
	"class":        token.Class,
	"const":        token.Const,
	"continue":     token.Continue,
	"declare":      token.Declare,
	"default":      token.Default,
	"do":           token.Do,
	"else":         token.Else,
	"elseif":       token.ElseIf,
	"enum":         token.Enum,
	"extends":      token.Extends,
	"final":        token.Final,
	"finally":      token.Finally,
	"fn":           token.Fn,
	"for":          token.For,
	"foreach":      token.Foreach,
	"function":     token.Function,
	"if":           token.If,
	"implements":   token.Implements,
	"instanceof":   token.Instanceof,
	"interface":    token.Interface,
	"match":        token.Match,
	"namespace":    token.Namespace,
	"new":          token.New,
	"private":      token.Private,
	"protected":    token.Protected,
	"public":       token.Public,
	"readonly":     token.Readonly,
	"return":       token.Return,
	"static":       token.Static,
	"switch":       token.Switch,
	"throw":        token.Throw,
	"trait":        token.Trait,
	"try":          token.Try,
	"use":          token.Use,
	"var":          token.Var,
	"while":        token.While,
	"and":          token.Operator,
	"or":           token.Operator,
	"xor":          token.Operator,
	"clone":        token.Keyword,
	"echo":         token.Keyword,
	"print":        token.Keyword,
	"global":       token.Keyword,
	"goto":         token.Keyword,
	"include":      token.Keyword,
	"include_once": token.Keyword,
	"require":      token.Keyword,
	"require_once": token.Keyword,
	"insteadof":    token.Keyword,
	"list":         token.Keyword,
	"yield":        token.Keyword,
	"isset":        token.Keyword,
	"unset":        token.Keyword,
	"empty":        token.Keyword,
	"exit":         token.Keyword,
	"die":          token.Keyword,
	"endif":        token.Keyword,
	"endwhile":     token.Keyword,
	"endfor":       token.Keyword,
	"endforeach":   token.Keyword,
	"endswitch":    token.Keyword,
	"enddeclare":   token.Keyword,
}

var casts = map[string]bool{
	"int":     true,
	"integer": true,
	"bool":    true,
	"boolean": true,
	"float":   true,
	"double":  true,
	"real":    true,
	"string":  true,
	"binary":  true,
	"array":   true,
	"object":  true,
	"unset":   true,
}

type operator struct {
	text string
	kind token.Kind
}

// operators is ordered longest first.
var operators = []operator{
	{"<=>", token.Operator},
	{"**=", token.AssignOp},
	{"...", token.Ellipsis},
	{"<<=", token.AssignOp},
	{">>=", token.AssignOp},
	{"===", token.IsIdentical},
	{"!==", token.IsNotIdentical},
	{"??=", token.AssignOp},
	{"?->", token.NullsafeObjectOperator},
	{"<>", token.IsNotEqual},
	{"==", token.IsEqual},
	{"!=", token.IsNotEqual},
	{"<=", token.Operator},
	{">=", token.Operator},
	{"&&", token.Operator},
	{"||", token.Operator},
	{"++", token.Operator},
	{"--", token.Operator},
	{"+=", token.AssignOp},
	{"-=", token.AssignOp},
	{"*=", token.AssignOp},
	{"/=", token.AssignOp},
	{".=", token.ConcatEqual},
	{"%=", token.AssignOp},
	{"&=", token.AssignOp},
	{"|=", token.AssignOp},
	{"^=", token.AssignOp},
	{"->", token.ObjectOperator},
	{"=>", token.DoubleArrow},
	{"::", token.DoubleColon},
	{"<<", token.Operator},
	{">>", token.Operator},
	{"??", token.Operator},
	{"**", token.Operator},
	{"=", token.Equal},
	{".", token.Concat},
	{"!", token.BooleanNot},
	{"&", token.Ampersand},
	{"?", token.Question},
	{":", token.Colon},
	{",", token.Comma},
	{";", token.Semicolon},
	{"+", token.Operator},
	{"-", token.Operator},
	{"*", token.Operator},
	{"/", token.Operator},
	{"%", token.Operator},
	{"<", token.Operator},
	{">", token.Operator},
	{"|", token.Operator},
	{"^", token.Operator},
	{"~", token.Operator},
	{"@", token.Operator},
	{"$", token.Operator},
}

// indexable kinds are followed by '[' as index access rather than a short array.
var indexable = map[token.Kind]bool{
	token.Variable:      true,
	token.String:        true,
	token.StringLiteral: true,
	token.CloseSquare:   true,
	token.CloseParen:    true,
	token.Static:        true,
}
