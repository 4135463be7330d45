package token

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTokens is returned when tokens do not exactly cover the content.
var ErrInvalidTokens = errors.New("tokens do not cover content")

// Stream is an immutable, lossless view of a PHP file.
// It holds the raw content, line metadata and the linked token stream.
type Stream struct {
	// Path is the file path (may be empty for in-memory content).
	Path string

	// Content is the full file bytes.
	Content []byte

	// Lines contains metadata for each line in the file.
	Lines []LineInfo

	// Tokens is the full token stream covering every byte.
	Tokens []Token

	// EOL is the line ending used by the file.
	EOL string
}

// NewStream builds a Stream from classified tokens. Only Kind, Text and Offset
// of the input tokens are used; indexes, positions, depths and links are computed.
// The input slice is not retained.
func NewStream(path string, content []byte, tokens []Token) (*Stream, error) {
	if !ValidateTokens(tokens, len(content)) {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidTokens)
	}

	toks := make([]Token, len(tokens))
	for i, tok := range tokens {
		toks[i] = Token{Index: i, Kind: tok.Kind, Text: tok.Text, Offset: tok.Offset}
	}

	positions(toks)
	linkPairs(toks)
	linkScopes(toks)

	return &Stream{
		Path:    path,
		Content: content,
		Lines:   BuildLines(content),
		Tokens:  toks,
		EOL:     DetectEOL(content),
	}, nil
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	return len(s.Tokens)
}

// At returns the token at index i.
func (s *Stream) At(i int) (Token, bool) {
	if i < 0 || i >= len(s.Tokens) {
		return Token{}, false
	}
	return s.Tokens[i], true
}

// Kind returns the kind of token i, or Unknown when i is out of range.
func (s *Stream) Kind(i int) Kind {
	if i < 0 || i >= len(s.Tokens) {
		return Unknown
	}
	return s.Tokens[i].Kind
}

// Text returns the text of token i, or "" when i is out of range.
func (s *Stream) Text(i int) string {
	if i < 0 || i >= len(s.Tokens) {
		return ""
	}
	return s.Tokens[i].Text
}

// TextBetween returns the concatenated text of tokens start through end inclusive.
func (s *Stream) TextBetween(start, end int) string {
	start = max(start, 0)
	end = min(end, len(s.Tokens)-1)
	if start > end {
		return ""
	}
	return string(s.Content[s.Tokens[start].Offset:s.Tokens[end].End()])
}

func positions(toks []Token) {
	line, lineStart := 1, 0
	for i := range toks {
		toks[i].Line = line
		toks[i].Column = toks[i].Offset - lineStart + 1

		text := toks[i].Text
		if n := strings.Count(text, "\n"); n > 0 {
			line += n
			lineStart = toks[i].Offset + strings.LastIndexByte(text, '\n') + 1
		}
	}
}

func closes(open, closer Kind) bool {
	switch open {
	case OpenCurly:
		return closer == CloseCurly
	case OpenParen:
		return closer == CloseParen
	case OpenSquare, OpenShortArray, AttributeOpen:
		return closer == CloseSquare || closer == CloseShortArray || closer == AttributeClose
	default:
		return false
	}
}

func closerKind(open Kind) Kind {
	switch open {
	case OpenShortArray:
		return CloseShortArray
	case AttributeOpen:
		return AttributeClose
	case OpenParen:
		return CloseParen
	case OpenCurly:
		return CloseCurly
	default:
		return CloseSquare
	}
}

func pair(toks []Token, open, closer int) {
	toks[open].match = closer + 1
	toks[closer].match = open + 1
}

// linkPairs links brackets, doc comments and heredocs and computes depths.
// Openers and closers carry the depth of the scope around them.
func linkPairs(toks []Token) {
	var stack []int
	level, nesting := 0, 0
	docOpen, heredocOpen := -1, -1

	for i := range toks {
		tok := &toks[i]

		switch tok.Kind {
		case OpenCurly:
			tok.Level, tok.Nesting = level, nesting
			stack = append(stack, i)
			level++
			continue

		case OpenParen, OpenSquare, OpenShortArray, AttributeOpen:
			tok.Level, tok.Nesting = level, nesting
			stack = append(stack, i)
			nesting++
			continue

		case CloseCurly, CloseParen, CloseSquare, CloseShortArray, AttributeClose:
			depth := -1
			for d := len(stack) - 1; d >= 0; d-- {
				if closes(toks[stack[d]].Kind, tok.Kind) {
					depth = d
					break
				}
			}
			if depth >= 0 {
				// Openers above the match stay unlinked.
				for _, open := range stack[depth:] {
					if toks[open].Kind == OpenCurly {
						level--
					} else {
						nesting--
					}
				}
				open := stack[depth]
				stack = stack[:depth]
				tok.Kind = closerKind(toks[open].Kind)
				pair(toks, open, i)
			}

		case DocCommentOpen:
			docOpen = i

		case DocCommentClose:
			if docOpen >= 0 {
				pair(toks, docOpen, i)
				docOpen = -1
			}

		case HeredocStart:
			heredocOpen = i

		case HeredocEnd:
			if heredocOpen >= 0 {
				pair(toks, heredocOpen, i)
				heredocOpen = -1
			}
		}

		tok.Level, tok.Nesting = level, nesting
	}
}

func nextSignificant(toks []Token, from int) (int, bool) {
	for i := from; i < len(toks); i++ {
		if !toks[i].Kind.IsEmpty() {
			return i, true
		}
	}
	return 0, false
}

// linkScopes records which keyword owns each curly brace pair.
func linkScopes(toks []Token) {
	for i := range toks {
		switch toks[i].Kind {
		case If, ElseIf, While, For, Foreach, Switch, Catch, Declare:
			paren, ok := nextSignificant(toks, i+1)
			if !ok || toks[paren].Kind != OpenParen {
				continue
			}
			closer, ok := toks[paren].Match()
			if !ok {
				continue
			}
			if brace, ok := nextSignificant(toks, closer+1); ok && toks[brace].Kind == OpenCurly {
				setScope(toks, i, brace)
			}

		case Else, Try, Finally, Do:
			if brace, ok := nextSignificant(toks, i+1); ok && toks[brace].Kind == OpenCurly {
				setScope(toks, i, brace)
			}

		case Function, Class, Interface, Trait, Enum, Namespace, Match:
			if brace, ok := findScopeOpener(toks, i+1); ok {
				setScope(toks, i, brace)
			}
		}
	}
}

func findScopeOpener(toks []Token, from int) (int, bool) {
	for j := from; j < len(toks); j++ {
		switch toks[j].Kind {
		case OpenCurly:
			return j, true
		case Semicolon, CloseCurly, CloseParen, CloseTag, Equal, DoubleArrow:
			return 0, false
		case OpenParen, OpenSquare, OpenShortArray, AttributeOpen, DocCommentOpen:
			closer, ok := toks[j].Match()
			if !ok {
				return 0, false
			}
			j = closer
		}
	}
	return 0, false
}

func setScope(toks []Token, owner, open int) {
	closer, ok := toks[open].Match()
	if !ok {
		return
	}
	toks[owner].opener = open + 1
	toks[owner].closer = closer + 1
	toks[open].owner = owner + 1
	toks[closer].owner = owner + 1
}
