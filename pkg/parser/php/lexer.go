package php

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// Lex splits PHP source into contiguous classified tokens.
// Only Kind, Text and Offset are set; token.NewStream computes the rest.
// Lexing never fails: bytes that fit no rule become Unknown tokens.
func Lex(src []byte) []token.Token {
	l := &lexer{src: src}
	for l.pos < len(l.src) {
		l.html()
		l.php()
	}
	return l.toks
}

type lexer struct {
	src  []byte
	pos  int
	toks []token.Token

	// last non-empty kind, used for context-sensitive classification.
	last token.Kind
}

func (l *lexer) emit(kind token.Kind, end int) {
	if end <= l.pos {
		return
	}
	l.toks = append(l.toks, token.Token{
		Kind:   kind,
		Text:   string(l.src[l.pos:end]),
		Offset: l.pos,
	})
	l.pos = end
	if !kind.IsEmpty() {
		l.last = kind
	}
}

func (l *lexer) peek(offset int) byte {
	if l.pos+offset < len(l.src) {
		return l.src[l.pos+offset]
	}
	return 0
}

func (l *lexer) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(l.src[l.pos:], []byte(prefix))
}

// html consumes inline HTML up to and including the next open tag.
func (l *lexer) html() {
	rest := l.src[l.pos:]
	for i := 0; i < len(rest); i++ {
		if rest[i] != '<' || i+1 >= len(rest) || rest[i+1] != '?' {
			continue
		}
		if i+2 < len(rest) && rest[i+2] == '=' {
			l.emit(token.InlineHTML, l.pos+i)
			l.emit(token.OpenTag, l.pos+3)
			return
		}
		if i+5 <= len(rest) && strings.EqualFold(string(rest[i+2:i+5]), "php") &&
			(i+5 == len(rest) || isSpace(rest[i+5])) {
			l.emit(token.InlineHTML, l.pos+i)
			l.emit(token.OpenTag, l.pos+5)
			return
		}
	}
	l.emit(token.InlineHTML, len(l.src))
}

// php consumes code until a close tag or the end of input.
func (l *lexer) php() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]

		switch {
		case isSpace(c):
			l.whitespace(token.Whitespace, len(l.src))

		case c == '?' && l.peek(1) == '>':
			l.emit(token.CloseTag, l.pos+2)
			return

		case c == '#' && l.peek(1) == '[':
			l.emit(token.AttributeOpen, l.pos+2)

		case c == '#', c == '/' && l.peek(1) == '/':
			l.lineComment()

		case c == '/' && l.peek(1) == '*':
			if l.peek(2) == '*' && isSpace(l.peek(3)) {
				l.docComment()
			} else {
				l.blockComment()
			}

		case c == '$' && isIdentStart(l.peek(1)):
			l.emit(token.Variable, l.identEnd(l.pos+1))

		case isIdentStart(c), c == '\\' && isIdentStart(l.peek(1)):
			l.name()

		case isDigit(c), c == '.' && isDigit(l.peek(1)):
			l.number()

		case c == '\'', c == '"', c == '`':
			l.quoted(c)

		case c == '(':
			if end, ok := l.cast(); ok {
				l.emit(token.Cast, end)
			} else {
				l.emit(token.OpenParen, l.pos+1)
			}

		case c == ')':
			l.emit(token.CloseParen, l.pos+1)

		case c == '{':
			l.emit(token.OpenCurly, l.pos+1)

		case c == '}':
			l.emit(token.CloseCurly, l.pos+1)

		case c == '[':
			if indexable[l.last] {
				l.emit(token.OpenSquare, l.pos+1)
			} else {
				l.emit(token.OpenShortArray, l.pos+1)
			}

		case c == ']':
			l.emit(token.CloseSquare, l.pos+1)

		default:
			if c == '<' && l.hasPrefix("<<<") && l.heredoc() {
				continue
			}
			l.operator()
		}
	}
}

// whitespace consumes blanks up to and including one newline.
func (l *lexer) whitespace(kind token.Kind, limit int) {
	end := l.pos
	for end < limit && isBlank(l.src[end]) {
		end++
	}
	if end < limit && l.src[end] == '\n' {
		end++
	}
	l.emit(kind, end)
}

func (l *lexer) lineComment() {
	end := l.pos
	for end < len(l.src) {
		c := l.src[end]
		if c == '\n' || c == '\r' {
			break
		}
		if c == '?' && end+1 < len(l.src) && l.src[end+1] == '>' {
			break
		}
		end++
	}
	l.emit(token.Comment, end)
}

func (l *lexer) blockComment() {
	idx := bytes.Index(l.src[l.pos+2:], []byte("*/"))
	if idx < 0 {
		l.emit(token.Comment, len(l.src))
		return
	}
	l.emit(token.Comment, l.pos+2+idx+2)
}

// docComment splits a /** ... */ comment into its parts.
func (l *lexer) docComment() {
	idx := bytes.Index(l.src[l.pos+3:], []byte("*/"))
	if idx < 0 {
		l.emit(token.Comment, len(l.src))
		return
	}
	closeAt := l.pos + 3 + idx

	l.emit(token.DocCommentOpen, l.pos+3)
	lineStart := false

	for l.pos < closeAt {
		c := l.src[l.pos]
		switch {
		case isBlank(c) || c == '\n':
			l.whitespace(token.DocCommentWhitespace, closeAt)
			if l.src[l.pos-1] == '\n' {
				lineStart = true
			}
			continue

		case c == '*' && lineStart:
			l.emit(token.DocCommentStar, l.pos+1)

		case c == '@' && l.pos+1 < closeAt && isTagChar(l.src[l.pos+1]):
			end := l.pos + 1
			for end < closeAt && isTagChar(l.src[end]) {
				end++
			}
			l.emit(token.DocCommentTag, end)

		default:
			end := l.pos
			for end < closeAt && l.src[end] != '\n' {
				end++
			}
			for end > l.pos && isBlank(l.src[end-1]) {
				end--
			}
			l.emit(token.DocCommentString, end)
		}
		lineStart = false
	}

	l.emit(token.DocCommentClose, closeAt+2)
}

func (l *lexer) identEnd(from int) int {
	end := from
	for end < len(l.src) && isIdentChar(l.src[end]) {
		end++
	}
	return end
}

// name lexes identifiers, qualified names and keywords.
func (l *lexer) name() {
	end := l.pos
	qualified := false
	for end < len(l.src) {
		if isIdentChar(l.src[end]) {
			end++
			continue
		}
		if l.src[end] == '\\' && end+1 < len(l.src) && isIdentStart(l.src[end+1]) {
			qualified = true
			end++
			continue
		}
		break
	}

	word := strings.ToLower(string(l.src[l.pos:end]))
	kind, isKeyword := keywords[word]
	if qualified || !isKeyword || l.identifierContext() || !l.keywordAllowed(word, end) {
		kind = token.String
	}
	l.emit(kind, end)
}

// identifierContext reports whether the next word must be a name regardless of spelling.
func (l *lexer) identifierContext() bool {
	switch l.last {
	case token.ObjectOperator, token.NullsafeObjectOperator, token.DoubleColon, token.Function, token.Const:
		return true
	default:
		return false
	}
}

// keywordAllowed disambiguates soft keywords by what follows them.
func (l *lexer) keywordAllowed(word string, end int) bool {
	next := end
	for next < len(l.src) && isSpace(l.src[next]) {
		next++
	}
	var following byte
	if next < len(l.src) {
		following = l.src[next]
	}

	switch word {
	case "enum":
		return next > end && isIdentStart(following)
	case "match":
		return following == '('
	default:
		return true
	}
}

func (l *lexer) number() {
	end := l.pos
	if l.src[end] == '0' && end+1 < len(l.src) && strings.IndexByte("xXbBoO", l.src[end+1]) >= 0 {
		end += 2
		for end < len(l.src) && (isHexDigit(l.src[end]) || l.src[end] == '_') {
			end++
		}
		l.emit(token.Number, end)
		return
	}

	for end < len(l.src) && (isDigit(l.src[end]) || l.src[end] == '_') {
		end++
	}
	if end < len(l.src) && l.src[end] == '.' && end+1 < len(l.src) && isDigit(l.src[end+1]) {
		end++
		for end < len(l.src) && (isDigit(l.src[end]) || l.src[end] == '_') {
			end++
		}
	}
	if end < len(l.src) && (l.src[end] == 'e' || l.src[end] == 'E') {
		exp := end + 1
		if exp < len(l.src) && (l.src[exp] == '+' || l.src[exp] == '-') {
			exp++
		}
		if exp < len(l.src) && isDigit(l.src[exp]) {
			end = exp
			for end < len(l.src) && isDigit(l.src[end]) {
				end++
			}
		}
	}
	l.emit(token.Number, end)
}

func (l *lexer) quoted(quote byte) {
	end := l.pos + 1
	for end < len(l.src) {
		c := l.src[end]
		if c == '\\' {
			end += 2
			continue
		}
		end++
		if c == quote {
			break
		}
	}
	l.emit(token.StringLiteral, min(end, len(l.src)))
}

// heredoc lexes <<<ID ... ID and <<<'ID' ... ID. It reports false when the
// input is not a heredoc opener.
func (l *lexer) heredoc() bool {
	pos := l.pos + 3
	for pos < len(l.src) && isBlank(l.src[pos]) {
		pos++
	}
	var quote byte
	if pos < len(l.src) && (l.src[pos] == '\'' || l.src[pos] == '"') {
		quote = l.src[pos]
		pos++
	}
	if pos >= len(l.src) || !isIdentStart(l.src[pos]) {
		return false
	}
	idEnd := l.identEnd(pos)
	label := string(l.src[pos:idEnd])
	pos = idEnd
	if quote != 0 {
		if pos >= len(l.src) || l.src[pos] != quote {
			return false
		}
		pos++
	}
	if pos < len(l.src) && l.src[pos] == '\r' {
		pos++
	}
	if pos >= len(l.src) || l.src[pos] != '\n' {
		return false
	}
	l.emit(token.HeredocStart, pos+1)

	for lineStart := l.pos; lineStart < len(l.src); {
		marker := lineStart
		for marker < len(l.src) && isBlank(l.src[marker]) {
			marker++
		}
		markerEnd := marker + len(label)
		if bytes.HasPrefix(l.src[marker:], []byte(label)) &&
			(markerEnd == len(l.src) || !isIdentChar(l.src[markerEnd])) {
			l.emit(token.HeredocBody, lineStart)
			l.emit(token.HeredocEnd, markerEnd)
			return true
		}
		next := bytes.IndexByte(l.src[lineStart:], '\n')
		if next < 0 {
			break
		}
		lineStart += next + 1
	}

	l.emit(token.HeredocBody, len(l.src))
	return true
}

// cast recognizes "(int)", "( string )" and friends at the current '('.
func (l *lexer) cast() (int, bool) {
	pos := l.pos + 1
	for pos < len(l.src) && isBlank(l.src[pos]) {
		pos++
	}
	start := pos
	for pos < len(l.src) && isLetter(l.src[pos]) {
		pos++
	}
	if !casts[strings.ToLower(string(l.src[start:pos]))] {
		return 0, false
	}
	for pos < len(l.src) && isBlank(l.src[pos]) {
		pos++
	}
	if pos >= len(l.src) || l.src[pos] != ')' {
		return 0, false
	}
	return pos + 1, true
}

func (l *lexer) operator() {
	for _, op := range operators {
		if l.hasPrefix(op.text) {
			l.emit(op.kind, l.pos+len(op.text))
			return
		}
	}
	_, size := utf8.DecodeRune(l.src[l.pos:])
	l.emit(token.Unknown, l.pos+size)
}

func isSpace(c byte) bool {
	return isBlank(c) || c == '\n'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isTagChar(c byte) bool {
	return isIdentChar(c) || c == '-' || c == '\\'
}
