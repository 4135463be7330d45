// Package fix provides token-level changesets and byte-level edit application for auto-fixing.
package fix

import "fmt"

// TextEdit represents a single text replacement in a file.
type TextEdit struct {
	// StartOffset is the byte index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the byte index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Len is the number of bytes the edit replaces.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// EditKind identifies how an Edit changes the token stream.
type EditKind int

const (
	// Replace substitutes the text of an inclusive token range.
	Replace EditKind = iota

	// InsertBefore adds text in front of a token.
	InsertBefore

	// InsertAfter adds text behind a token.
	InsertAfter
)

func (k EditKind) String() string {
	switch k {
	case Replace:
		return "replace"
	case InsertBefore:
		return "insert-before"
	case InsertAfter:
		return "insert-after"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// Edit is a staged change expressed in token indices.
// For insertions Start and End both name the anchor token.
type Edit struct {
	Start int
	End   int
	Kind  EditKind
	Text  string

	// seq is the staging order within a changeset.
	seq int
}

func (e Edit) String() string {
	if e.Kind == Replace {
		return fmt.Sprintf("replace [%d:%d] with %q", e.Start, e.End, e.Text)
	}
	return fmt.Sprintf("%s %d %q", e.Kind, e.Start, e.Text)
}
