package token

import (
	"slices"
	"strconv"
)

// Kind classifies a PHP token.
type Kind uint16

// Token kinds. Every byte of a PHP file belongs to exactly one token.
const (
	Unknown Kind = iota

	InlineHTML
	OpenTag  // <?php, <?=
	CloseTag // ?>

	Whitespace
	Comment

	DocCommentOpen       // /**
	DocCommentClose      // */
	DocCommentStar       // leading '*' of a doc comment line
	DocCommentTag        // @return, @param, ...
	DocCommentString     // free text inside a doc comment
	DocCommentWhitespace // whitespace inside a doc comment

	Variable      // $name
	String        // identifiers and qualified names
	StringLiteral // '...', "...", `...`
	Number
	Cast // (int), (string), ...

	HeredocStart
	HeredocBody
	HeredocEnd

	OpenParen
	CloseParen
	OpenCurly
	CloseCurly
	OpenSquare // index access
	CloseSquare
	OpenShortArray
	CloseShortArray
	AttributeOpen // #[
	AttributeClose

	Semicolon
	Comma
	Colon
	DoubleColon
	ObjectOperator         // ->
	NullsafeObjectOperator // ?->
	DoubleArrow            // =>
	Ellipsis
	Question
	Ampersand
	BooleanNot

	Equal     // =
	AssignOp  // +=, -=, ??=, ...
	ConcatEqual
	Concat
	IsEqual
	IsNotEqual // != and <>
	IsIdentical
	IsNotIdentical
	Operator // any other operator

	Abstract
	Array
	As
	Break
	Case
	Catch
	Class
	Const
	Continue
	Declare
	Default
	Do
	Else
	ElseIf
	Enum
	Extends
	Final
	Finally
	Fn
	For
	Foreach
	Function
	If
	Implements
	Instanceof
	Interface
	Match
	Namespace
	New
	Private
	Protected
	Public
	Readonly
	Return
	Static
	Switch
	Throw
	Trait
	Try
	Use
	Var
	While
	Keyword // any other reserved word
)

var kindNames = [...]string{
	Unknown:                "Unknown",
	InlineHTML:             "InlineHTML",
	OpenTag:                "OpenTag",
	CloseTag:               "CloseTag",
	Whitespace:             "Whitespace",
	Comment:                "Comment",
	DocCommentOpen:         "DocCommentOpen",
	DocCommentClose:        "DocCommentClose",
	DocCommentStar:         "DocCommentStar",
	DocCommentTag:          "DocCommentTag",
	DocCommentString:       "DocCommentString",
	DocCommentWhitespace:   "DocCommentWhitespace",
	Variable:               "Variable",
	String:                 "String",
	StringLiteral:          "StringLiteral",
	Number:                 "Number",
	Cast:                   "Cast",
	HeredocStart:           "HeredocStart",
	HeredocBody:            "HeredocBody",
	HeredocEnd:             "HeredocEnd",
	OpenParen:              "OpenParen",
	CloseParen:             "CloseParen",
	OpenCurly:              "OpenCurly",
	CloseCurly:             "CloseCurly",
	OpenSquare:             "OpenSquare",
	CloseSquare:            "CloseSquare",
	OpenShortArray:         "OpenShortArray",
	CloseShortArray:        "CloseShortArray",
	AttributeOpen:          "AttributeOpen",
	AttributeClose:         "AttributeClose",
	Semicolon:              "Semicolon",
	Comma:                  "Comma",
	Colon:                  "Colon",
	DoubleColon:            "DoubleColon",
	ObjectOperator:         "ObjectOperator",
	NullsafeObjectOperator: "NullsafeObjectOperator",
	DoubleArrow:            "DoubleArrow",
	Ellipsis:               "Ellipsis",
	Question:               "Question",
	Ampersand:              "Ampersand",
	BooleanNot:             "BooleanNot",
	Equal:                  "Equal",
	AssignOp:               "AssignOp",
	ConcatEqual:            "ConcatEqual",
	Concat:                 "Concat",
	IsEqual:                "IsEqual",
	IsNotEqual:             "IsNotEqual",
	IsIdentical:            "IsIdentical",
	IsNotIdentical:         "IsNotIdentical",
	Operator:               "Operator",
	Abstract:               "Abstract",
	Array:                  "Array",
	As:                     "As",
	Break:                  "Break",
	Case:                   "Case",
	Catch:                  "Catch",
	Class:                  "Class",
	Const:                  "Const",
	Continue:               "Continue",
	Declare:                "Declare",
	Default:                "Default",
	Do:                     "Do",
	Else:                   "Else",
	ElseIf:                 "ElseIf",
	Enum:                   "Enum",
	Extends:                "Extends",
	Final:                  "Final",
	Finally:                "Finally",
	Fn:                     "Fn",
	For:                    "For",
	Foreach:                "Foreach",
	Function:               "Function",
	If:                     "If",
	Implements:             "Implements",
	Instanceof:             "Instanceof",
	Interface:              "Interface",
	Match:                  "Match",
	Namespace:              "Namespace",
	New:                    "New",
	Private:                "Private",
	Protected:              "Protected",
	Public:                 "Public",
	Readonly:               "Readonly",
	Return:                 "Return",
	Static:                 "Static",
	Switch:                 "Switch",
	Throw:                  "Throw",
	Trait:                  "Trait",
	Try:                    "Try",
	Use:                    "Use",
	Var:                    "Var",
	While:                  "While",
	Keyword:                "Keyword",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kind sets shared by search helpers and rules.
var (
	// EmptyKinds are tokens with no syntactic weight.
	EmptyKinds = []Kind{
		Whitespace, Comment,
		DocCommentOpen, DocCommentClose, DocCommentStar, DocCommentTag,
		DocCommentString, DocCommentWhitespace,
	}

	// ModifierKinds may appear between a doc comment and the declaration it documents.
	ModifierKinds = []Kind{Public, Protected, Private, Static, Final, Abstract, Readonly, Var}

	// DeclarationKinds introduce a named type.
	DeclarationKinds = []Kind{Class, Interface, Trait, Enum}
)

// IsEmpty reports whether k is whitespace or any kind of comment.
func (k Kind) IsEmpty() bool {
	return slices.Contains(EmptyKinds, k)
}

// IsModifier reports whether k is a declaration modifier.
func (k Kind) IsModifier() bool {
	return slices.Contains(ModifierKinds, k)
}

// IsDeclaration reports whether k introduces a class-like declaration.
func (k Kind) IsDeclaration() bool {
	return slices.Contains(DeclarationKinds, k)
}

// IsOpener reports whether k opens a linked pair.
func (k Kind) IsOpener() bool {
	switch k {
	case OpenParen, OpenCurly, OpenSquare, OpenShortArray, AttributeOpen, DocCommentOpen, HeredocStart:
		return true
	default:
		return false
	}
}

// IsCloser reports whether k closes a linked pair.
func (k Kind) IsCloser() bool {
	switch k {
	case CloseParen, CloseCurly, CloseSquare, CloseShortArray, AttributeClose, DocCommentClose, HeredocEnd:
		return true
	default:
		return false
	}
}

// Token is a classified span of a PHP file.
// Tokens are contiguous and non-overlapping, covering the whole content.
type Token struct {
	// Index is the position of the token in its stream.
	Index int

	Kind Kind

	// Text is the exact source text of the token.
	Text string

	// Line and Column are 1-based; Column counts bytes.
	Line   int
	Column int

	// Offset is the byte index where the token begins.
	Offset int

	// Level is the number of enclosing curly braces.
	Level int

	// Nesting is the number of enclosing parentheses and square brackets.
	Nesting int

	// Links are stored as index+1 so the zero value means "none".
	match  int
	opener int
	closer int
	owner  int
}

// End returns the byte index just past the token.
func (t Token) End() int {
	return t.Offset + len(t.Text)
}

// Is reports whether the token has one of the given kinds.
func (t Token) Is(kinds ...Kind) bool {
	return slices.Contains(kinds, t.Kind)
}

// Match returns the index of the partner of a bracket, doc comment or heredoc token.
func (t Token) Match() (int, bool) {
	return t.match - 1, t.match > 0
}

// Scope returns the curly braces owned by a keyword such as function, class or if.
func (t Token) Scope() (int, int, bool) {
	if t.opener == 0 || t.closer == 0 {
		return 0, 0, false
	}
	return t.opener - 1, t.closer - 1, true
}

// Owner returns the keyword owning a curly brace.
func (t Token) Owner() (int, bool) {
	return t.owner - 1, t.owner > 0
}

// ValidateTokens checks that tokens are contiguous and cover [0, contentLen).
func ValidateTokens(tokens []Token, contentLen int) bool {
	if len(tokens) == 0 {
		return contentLen == 0
	}

	if tokens[0].Offset != 0 {
		return false
	}

	if tokens[len(tokens)-1].End() != contentLen {
		return false
	}

	for i := 1; i < len(tokens); i++ {
		if tokens[i].Offset != tokens[i-1].End() {
			return false
		}
	}

	return true
}
