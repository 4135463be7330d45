package rules

import (
	"strings"

	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// onlyWhitespace reports whether every token strictly between from and to is whitespace.
func onlyWhitespace(s *token.Stream, from, to int) bool {
	for i := from + 1; i < to; i++ {
		if s.Kind(i) != token.Whitespace {
			return false
		}
	}
	return true
}

// hasComment reports whether a comment lies strictly between from and to.
func hasComment(s *token.Stream, from, to int) bool {
	_, ok := token.FindNext(s, []token.Kind{token.Comment, token.DocCommentOpen}, from+1, token.Until(to))
	return ok
}

// containsNewline reports whether token i spans a line break.
func containsNewline(s *token.Stream, i int) bool {
	return strings.ContainsAny(s.Text(i), "\r\n")
}

// indentUnit guesses one level of indentation from an existing indent.
func indentUnit(indent string) string {
	if strings.Contains(indent, "\t") {
		return "\t"
	}
	return "    "
}

// isMagic reports whether name is reserved for PHP magic methods.
func isMagic(name string) bool {
	return strings.HasPrefix(name, "__")
}

// docEdit describes lines to add to the doc block of a declaration.
type docEdit struct {
	// Lines hold tag lines without the leading " * ", e.g. "@return void".
	Lines []string

	// BlankBefore separates the new lines from preceding text.
	BlankBefore bool
}

// docPlan is a single staged edit that adds lines to a doc block.
type docPlan struct {
	start int
	end   int
	kind  fix.EditKind
	text  string
}

func (p docPlan) stage(cs *fix.Changeset) {
	if p.kind == fix.InsertBefore {
		cs.InsertBefore(p.start, p.text)
		return
	}
	cs.Replace(p.start, p.end, p.text)
}

// planDocLines plans adding lines to the doc block documenting decl, creating
// the block when there is none. It returns false when the existing block or
// the declaration's line cannot be edited safely.
//
// A new block replaces the first token on the declaration's line so that two
// rules creating a block for the same declaration conflict instead of
// producing two blocks.
func planDocLines(s *token.Stream, decl int, edit docEdit) (docPlan, bool) {
	if open, closer, ok := token.EnclosingDocBlock(s, decl); ok {
		return planDocAppend(s, open, closer, edit)
	}

	start := token.DeclarationStart(s, decl)
	anchor := token.LineStart(s, start)
	if anchor != start && (s.Kind(anchor) != token.Whitespace || anchor+1 != start) {
		return docPlan{}, false
	}
	indent := token.Indentation(s, start)
	eol := s.EOL

	lead := indent
	if s.Kind(anchor) == token.Whitespace {
		lead = s.Text(anchor)
	}

	var b strings.Builder
	if edit.BlankBefore && needsBlankLine(s, s.Tokens[anchor].Line) {
		b.WriteString(eol)
	}
	b.WriteString(lead + "/**" + eol)
	for _, line := range edit.Lines {
		b.WriteString(indent + " * " + line + eol)
	}
	b.WriteString(indent + " */" + eol + lead)
	if s.Kind(anchor) != token.Whitespace {
		b.WriteString(s.Text(anchor))
	}
	return docPlan{start: anchor, end: anchor, kind: fix.Replace, text: b.String()}, true
}

// needsBlankLine reports whether a blank line should precede a block inserted
// on line. Lines directly after an opening brace, an open tag or a blank line
// need none.
func needsBlankLine(s *token.Stream, line int) bool {
	if line <= 1 {
		return false
	}
	prev := strings.TrimSpace(string(s.LineContent(line - 1)))
	return prev != "" && !strings.HasSuffix(prev, "{") && !strings.HasPrefix(prev, "<?php")
}

// planDocAppend adds lines in front of the closing line of an existing block.
func planDocAppend(s *token.Stream, open, closer int, edit docEdit) (docPlan, bool) {
	indent := token.Indentation(s, open)
	eol := s.EOL

	block := func(summary string) docPlan {
		var b strings.Builder
		b.WriteString("/**" + eol)
		if summary != "" {
			b.WriteString(indent + " * " + summary + eol)
			if edit.BlankBefore {
				b.WriteString(indent + " *" + eol)
			}
		}
		for _, line := range edit.Lines {
			b.WriteString(indent + " * " + line + eol)
		}
		b.WriteString(indent + " */")
		return docPlan{start: open, end: closer, kind: fix.Replace, text: b.String()}
	}

	last, ok := token.FindPrevious(s, []token.Kind{token.DocCommentWhitespace}, closer-1,
		token.Until(open), token.Exclude())
	if !ok {
		return block(""), true
	}
	if s.Tokens[last].Line == s.Tokens[closer].Line {
		if s.Tokens[open].Line != s.Tokens[closer].Line {
			return docPlan{}, false
		}
		// Single-line block: expand it around its summary.
		return block(strings.TrimSpace(s.TextBetween(open+1, closer-1))), true
	}

	var b strings.Builder
	if edit.BlankBefore && lastLineIsText(s, open, last) {
		b.WriteString(indent + " *" + eol)
	}
	for _, line := range edit.Lines {
		b.WriteString(indent + " * " + line + eol)
	}
	anchor := token.LineStart(s, closer)
	return docPlan{start: anchor, end: anchor, kind: fix.InsertBefore, text: b.String()}, true
}

// lastLineIsText reports whether the doc line holding last carries prose
// rather than a tag or nothing.
func lastLineIsText(s *token.Stream, open, last int) bool {
	if s.Kind(last) == token.DocCommentStar {
		return false
	}
	line := s.Tokens[last].Line
	for i := last; i > open && s.Tokens[i].Line == line; i-- {
		if s.Kind(i) == token.DocCommentTag {
			return false
		}
	}
	return true
}

// inheritsDoc reports whether the block opened at open defers to a parent
// declaration with @inheritDoc.
func inheritsDoc(s *token.Stream, open int) bool {
	closer, ok := s.Tokens[open].Match()
	if !ok {
		return false
	}
	for i := open + 1; i < closer; i++ {
		switch s.Kind(i) {
		case token.DocCommentTag, token.DocCommentString:
			if strings.Contains(strings.ToLower(s.Text(i)), "@inheritdoc") {
				return true
			}
		}
	}
	return false
}
