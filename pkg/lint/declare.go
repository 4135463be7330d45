package lint

import (
	"strings"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// Declaration helpers shared by rules. They answer "not found" with
// (zero, false) and never panic on indices outside the stream.

// DeclarationName returns the name token of the class, interface, trait, enum
// or function declared at decl. Closures have no name.
func DeclarationName(s *token.Stream, decl int) (int, bool) {
	switch s.Kind(decl) {
	case token.Class, token.Interface, token.Trait, token.Enum, token.Function:
	default:
		return 0, false
	}

	next, ok := token.NextNonEmpty(s, decl+1)
	if ok && s.Kind(next) == token.Ampersand {
		next, ok = token.NextNonEmpty(s, next+1)
	}
	if !ok || s.Kind(next) != token.String {
		return 0, false
	}
	return next, true
}

// ConstantNames returns the name tokens of every constant declared by the
// const statement at decl.
func ConstantNames(s *token.Stream, decl int) []int {
	if s.Kind(decl) != token.Const {
		return nil
	}
	end, ok := token.StatementEnd(s, decl)
	if !ok {
		return nil
	}

	nesting := s.Tokens[decl].Nesting
	var names []int
	for i := decl + 1; i < end; i++ {
		if s.Kind(i) != token.Equal || s.Tokens[i].Nesting != nesting {
			continue
		}
		if name, ok := token.PreviousNonEmpty(s, i-1, token.Until(decl)); ok && s.Kind(name) == token.String {
			names = append(names, name)
		}
	}
	return names
}

// EnclosingClass returns the class-like declaration whose body contains i.
func EnclosingClass(s *token.Stream, i int) (int, bool) {
	for from := i - 1; from >= 0; {
		decl, ok := token.FindPrevious(s, token.DeclarationKinds, from)
		if !ok {
			return 0, false
		}
		if opener, closer, ok := s.Tokens[decl].Scope(); ok && opener < i && i < closer {
			return decl, true
		}
		from = decl - 1
	}
	return 0, false
}

// IsMethod reports whether the function keyword at fn declares a method
// directly inside a class-like body.
func IsMethod(s *token.Stream, fn int) bool {
	if _, ok := DeclarationName(s, fn); !ok {
		return false
	}
	class, ok := EnclosingClass(s, fn)
	if !ok {
		return false
	}
	opener, _, _ := s.Tokens[class].Scope()
	return s.Tokens[fn].Level == s.Tokens[opener].Level+1
}

// Modifiers describes the keywords in front of a declaration.
type Modifiers struct {
	// Visibility is Public, Protected, Private or Unknown when none is written.
	Visibility token.Kind
	Static     bool
	Abstract   bool
	Final      bool
	Readonly   bool
}

// IsPublic reports whether the declaration is public, explicitly or implicitly.
func (m Modifiers) IsPublic() bool {
	return m.Visibility == token.Public || m.Visibility == token.Unknown
}

// DeclarationModifiers collects the modifiers written in front of decl.
func DeclarationModifiers(s *token.Stream, decl int) Modifiers {
	var mods Modifiers
	for i := decl - 1; i >= 0; i-- {
		switch kind := s.Kind(i); {
		case kind == token.Whitespace:
			continue
		case kind == token.Public, kind == token.Protected, kind == token.Private:
			mods.Visibility = kind
		case kind == token.Static:
			mods.Static = true
		case kind == token.Abstract:
			mods.Abstract = true
		case kind == token.Final:
			mods.Final = true
		case kind == token.Readonly:
			mods.Readonly = true
		case kind == token.Var:
			mods.Visibility = token.Public
		default:
			return mods
		}
	}
	return mods
}

// Namespace returns the namespace in effect at token i, or "" for the global namespace.
func Namespace(s *token.Stream, i int) string {
	for from := i; from >= 0; {
		ns, ok := token.FindPrevious(s, []token.Kind{token.Namespace}, from)
		if !ok {
			return ""
		}
		name, ok := token.NextNonEmpty(s, ns+1)
		if ok && s.Kind(name) == token.String {
			return strings.TrimPrefix(s.Text(name), "\\")
		}
		if ok && s.Kind(name) == token.OpenCurly {
			return ""
		}
		from = ns - 1
	}
	return ""
}

// ParentName returns the class named after extends in the declaration at decl.
func ParentName(s *token.Stream, decl int) (string, bool) {
	names := headerNames(s, decl, token.Extends)
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// InterfaceNames returns the names listed after implements in the declaration at decl.
// For interfaces it returns the extended interfaces.
func InterfaceNames(s *token.Stream, decl int) []string {
	if s.Kind(decl) == token.Interface {
		return headerNames(s, decl, token.Extends)
	}
	return headerNames(s, decl, token.Implements)
}

// headerNames returns the comma separated names following keyword in the
// header of the class-like declaration at decl.
func headerNames(s *token.Stream, decl int, keyword token.Kind) []string {
	opener, _, ok := s.Tokens[decl].Scope()
	if !ok {
		return nil
	}
	kw, ok := token.FindNext(s, []token.Kind{keyword}, decl+1, token.Until(opener))
	if !ok {
		return nil
	}

	var names []string
	for i := kw + 1; i < opener; i++ {
		switch s.Kind(i) {
		case token.String:
			names = append(names, strings.TrimPrefix(s.Text(i), "\\"))
		case token.Extends, token.Implements:
			return names
		}
	}
	return names
}

// ShortName strips the namespace from a qualified name.
func ShortName(name string) string {
	if idx := strings.LastIndexByte(name, '\\'); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// ParameterList returns the parentheses around the parameters of the function at fn.
func ParameterList(s *token.Stream, fn int) (int, int, bool) {
	from := fn + 1
	if name, ok := DeclarationName(s, fn); ok {
		from = name + 1
	}
	open, ok := token.NextNonEmpty(s, from)
	if ok && s.Kind(open) == token.Ampersand {
		open, ok = token.NextNonEmpty(s, open+1)
	}
	if !ok || s.Kind(open) != token.OpenParen {
		return 0, 0, false
	}
	closer, ok := s.Tokens[open].Match()
	if !ok {
		return 0, 0, false
	}
	return open, closer, true
}

// ReturnType returns the declared return type of the function at fn without whitespace.
func ReturnType(s *token.Stream, fn int) (string, bool) {
	_, closer, ok := ParameterList(s, fn)
	if !ok {
		return "", false
	}
	colon, ok := token.NextNonEmpty(s, closer+1)
	if !ok || s.Kind(colon) != token.Colon {
		return "", false
	}

	var b strings.Builder
	for i := colon + 1; i < s.Len(); i++ {
		kind := s.Kind(i)
		if kind == token.OpenCurly || kind == token.Semicolon || kind == token.DoubleArrow {
			break
		}
		if !kind.IsEmpty() {
			b.WriteString(s.Text(i))
		}
	}
	return b.String(), b.Len() > 0
}

// ReturnsValue reports whether the body of the function at fn returns a value
// or yields. Nested closures and anonymous classes are not considered.
func ReturnsValue(s *token.Stream, fn int) bool {
	opener, closer, ok := s.Tokens[fn].Scope()
	if !ok {
		return false
	}

	for i := opener + 1; i < closer; i++ {
		switch s.Kind(i) {
		case token.Function, token.Class:
			if _, end, ok := s.Tokens[i].Scope(); ok {
				i = end
			}
		case token.Fn:
			if end, ok := token.StatementEnd(s, i); ok && end < closer {
				i = end
			}
		case token.Return:
			next, ok := token.NextNonEmpty(s, i+1, token.Until(closer))
			if ok && s.Kind(next) != token.Semicolon {
				return true
			}
		case token.Keyword:
			if strings.EqualFold(s.Text(i), "yield") {
				return true
			}
		}
	}
	return false
}

// Span is an inclusive range of tokens.
type Span struct {
	Start int
	End   int
}

// SplitList returns the comma separated elements between the opener at open
// and its closer. Each span starts and ends at a non-empty token; empty
// elements (such as a trailing comma) are omitted.
func SplitList(s *token.Stream, open int) []Span {
	closer, ok := s.Tokens[open].Match()
	if !ok || !s.Kind(open).IsOpener() {
		return nil
	}

	var spans []Span
	start := open + 1
	flush := func(end int) {
		first, ok := token.NextNonEmpty(s, start, token.Until(end))
		if !ok {
			return
		}
		last, _ := token.PreviousNonEmpty(s, end-1, token.Until(first-1))
		spans = append(spans, Span{Start: first, End: last})
	}

	for i := open + 1; i < closer; i++ {
		tok := s.Tokens[i]
		if tok.Kind.IsOpener() {
			if end, ok := tok.Match(); ok {
				i = end
			}
			continue
		}
		if tok.Kind == token.Comma {
			flush(i)
			start = i + 1
		}
	}
	flush(closer)
	return spans
}
