package token

import (
	"errors"
	"fmt"
	"strings"
)

// Scope resolution errors.
var (
	// ErrNotOpener is returned when a closer is requested for a token that does not open a pair.
	ErrNotOpener = errors.New("token is not an opener")

	// ErrUnmatched is returned when an opener has no partner in the stream.
	ErrUnmatched = errors.New("opener has no matching closer")
)

// IsOpener reports whether token i opens a linked pair.
func IsOpener(s *Stream, i int) bool {
	return s.Kind(i).IsOpener()
}

// MatchingCloser returns the index of the token closing the pair opened at open.
// Asking for the closer of a non-opener is a defect and yields ErrNotOpener.
func MatchingCloser(s *Stream, open int) (int, error) {
	tok, ok := s.At(open)
	if !ok || !tok.Kind.IsOpener() {
		return 0, fmt.Errorf("token %d (%s): %w", open, s.Kind(open), ErrNotOpener)
	}

	closer, ok := tok.Match()
	if !ok {
		return 0, fmt.Errorf("token %d (%s) at %d:%d: %w", open, tok.Kind, tok.Line, tok.Column, ErrUnmatched)
	}
	return closer, nil
}

// StatementEnd returns the index of the token that terminates the statement
// containing from: a semicolon, a closing tag, or the last token before an
// unmatched closer that ends the enclosing scope. Parenthesized expressions,
// arrays, attributes, doc comments, heredocs and the bodies of closures,
// anonymous classes and match expressions are skipped whole. A block statement
// ends at its closing brace.
func StatementEnd(s *Stream, from int) (int, bool) {
	if from < 0 || from >= len(s.Tokens) {
		return 0, false
	}

	for i := from; i < len(s.Tokens); i++ {
		tok := s.Tokens[i]

		switch tok.Kind {
		case Semicolon, CloseTag:
			return i, true

		case OpenParen, OpenSquare, OpenShortArray, AttributeOpen, DocCommentOpen, HeredocStart:
			if closer, ok := tok.Match(); ok {
				i = closer
			}

		case OpenCurly:
			closer, ok := tok.Match()
			if !ok {
				continue
			}
			if isExpressionBody(s, tok, from) {
				i = closer
				continue
			}
			return closer, true

		case CloseParen, CloseSquare, CloseShortArray, AttributeClose, CloseCurly:
			if open, ok := tok.Match(); ok && open >= from {
				continue
			}
			if prev, ok := PreviousNonEmpty(s, i-1, Until(from-1)); ok {
				return prev, true
			}
			return from, true
		}
	}

	return 0, false
}

// isExpressionBody reports whether the brace opens the body of an expression
// (closure, anonymous class, match) inside a statement starting at from.
func isExpressionBody(s *Stream, brace Token, from int) bool {
	owner, ok := brace.Owner()
	if !ok || owner < from {
		return false
	}

	switch s.Kind(owner) {
	case Match:
		return true
	case Function:
		return !isNamedDeclaration(s, owner)
	case Class:
		prev, ok := PreviousNonEmpty(s, owner-1)
		return ok && s.Kind(prev) == New
	default:
		return false
	}
}

func isNamedDeclaration(s *Stream, keyword int) bool {
	next, ok := NextNonEmpty(s, keyword+1)
	if ok && s.Kind(next) == Ampersand {
		next, ok = NextNonEmpty(s, next+1)
	}
	return ok && s.Kind(next) == String
}

// EnclosingDocBlock returns the doc comment documenting the declaration at decl.
// Only whitespace, declaration modifiers and attributes may separate them.
func EnclosingDocBlock(s *Stream, decl int) (int, int, bool) {
	for i := decl - 1; i >= 0; i-- {
		tok := s.Tokens[i]

		switch {
		case tok.Kind == Whitespace, tok.Kind.IsModifier():
			continue
		case tok.Kind == AttributeClose:
			open, ok := tok.Match()
			if !ok {
				return 0, 0, false
			}
			i = open
		case tok.Kind == DocCommentClose:
			open, ok := tok.Match()
			if !ok {
				return 0, 0, false
			}
			return open, i, true
		default:
			return 0, 0, false
		}
	}
	return 0, 0, false
}

// DeclarationStart returns the first modifier or attribute that belongs to the
// declaration at decl, or decl itself.
func DeclarationStart(s *Stream, decl int) int {
	start := decl
	for i := decl - 1; i >= 0; i-- {
		tok := s.Tokens[i]
		switch {
		case tok.Kind == Whitespace:
			continue
		case tok.Kind.IsModifier():
			start = i
		case tok.Kind == AttributeClose:
			open, ok := tok.Match()
			if !ok {
				return start
			}
			start = open
			i = open
		default:
			return start
		}
	}
	return start
}

// LineStart returns the index of the first token on the line of token i.
func LineStart(s *Stream, i int) int {
	tok, ok := s.At(i)
	if !ok {
		return 0
	}
	for i > 0 && s.Tokens[i-1].Line == tok.Line {
		i--
	}
	return i
}

// Indentation returns the leading whitespace of the line containing token i.
func Indentation(s *Stream, i int) string {
	tok, ok := s.At(i)
	if !ok {
		return ""
	}
	line := s.LineContent(tok.Line)
	end := 0
	for end < len(line) && (line[end] == ' ' || line[end] == '\t') {
		end++
	}
	return string(line[:end])
}

// DocTag is an annotation inside a doc comment.
type DocTag struct {
	// Index is the DocCommentTag token.
	Index int

	// Name is the tag including the '@' (e.g. "@return").
	Name string

	// Value is the index of the DocCommentString following the tag on the same line.
	Value int

	// HasValue is false for bare tags such as "@api".
	HasValue bool
}

// DocBlockTags returns the tags of the doc comment opened at open, in order.
func DocBlockTags(s *Stream, open int) []DocTag {
	if s.Kind(open) != DocCommentOpen {
		return nil
	}
	closer, ok := s.Tokens[open].Match()
	if !ok {
		return nil
	}

	var tags []DocTag
	for i := open + 1; i < closer; i++ {
		if s.Tokens[i].Kind != DocCommentTag {
			continue
		}
		tag := DocTag{Index: i, Name: s.Tokens[i].Text}
		if next, ok := FindNext(s, []Kind{DocCommentWhitespace}, i+1, Until(closer), Exclude()); ok &&
			s.Kind(next) == DocCommentString && s.Tokens[next].Line == s.Tokens[i].Line {
			tag.Value = next
			tag.HasValue = true
		}
		tags = append(tags, tag)
	}
	return tags
}

// FindTag returns the first tag named name in the doc comment opened at open.
func FindTag(s *Stream, open int, name string) (DocTag, bool) {
	for _, tag := range DocBlockTags(s, open) {
		if strings.EqualFold(tag.Name, name) {
			return tag, true
		}
	}
	return DocTag{}, false
}
