package fix

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// ErrNotBegun is returned by Commit when edits were staged outside Begin.
var ErrNotBegun = errors.New("edit staged before Begin")

// ConflictError describes two staged edits that touch overlapping token ranges.
type ConflictError struct {
	First  Edit
	Second Edit
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting edits: %s and %s", e.First, e.Second)
}

// Changeset stages edits against an immutable token stream and materializes
// them in one step. Edits are expressed in token indices of the stream the
// changeset was created for; staging order does not affect the result.
//
// A changeset is owned by a single rule invocation and is not safe for
// concurrent use.
type Changeset struct {
	stream *token.Stream
	edits  []Edit
	open   bool
	seq    int
	err    error
}

// NewChangeset creates an empty changeset for the stream.
func NewChangeset(s *token.Stream) *Changeset {
	return &Changeset{stream: s}
}

// Stream returns the stream edits are expressed against.
func (c *Changeset) Stream() *token.Stream {
	return c.stream
}

// Begin opens the changeset for staging.
func (c *Changeset) Begin() {
	c.open = true
}

// Replace stages replacing tokens start through end (inclusive) with text.
func (c *Changeset) Replace(start, end int, text string) {
	c.stage(Edit{Start: start, End: end, Kind: Replace, Text: text})
}

// ReplaceToken stages replacing the text of token i.
func (c *Changeset) ReplaceToken(i int, text string) {
	c.Replace(i, i, text)
}

// Remove stages deleting tokens start through end (inclusive).
func (c *Changeset) Remove(start, end int) {
	c.Replace(start, end, "")
}

// InsertBefore stages inserting text in front of token i.
func (c *Changeset) InsertBefore(i int, text string) {
	c.stage(Edit{Start: i, End: i, Kind: InsertBefore, Text: text})
}

// InsertAfter stages inserting text behind token i.
func (c *Changeset) InsertAfter(i int, text string) {
	c.stage(Edit{Start: i, End: i, Kind: InsertAfter, Text: text})
}

func (c *Changeset) stage(e Edit) {
	if !c.open {
		if c.err == nil {
			c.err = fmt.Errorf("%s: %w", e, ErrNotBegun)
		}
		return
	}
	e.seq = c.seq
	c.seq++
	c.edits = append(c.edits, e)
}

// Len returns the number of staged edits.
func (c *Changeset) Len() int {
	return len(c.edits)
}

// Edits returns the staged edits in staging order.
func (c *Changeset) Edits() []Edit {
	return slices.Clone(c.edits)
}

// Rollback discards all staged edits and closes the changeset.
func (c *Changeset) Rollback() {
	c.edits = nil
	c.open = false
	c.seq = 0
	c.err = nil
}

// Truncate discards edits staged after mark, where mark is a previous Len.
func (c *Changeset) Truncate(mark int) {
	if mark >= 0 && mark < len(c.edits) {
		c.edits = c.edits[:mark]
	}
}

// TextEdits validates all staged edits, orders them and lowers them to byte
// edits. Overlapping token ranges yield a *ConflictError naming both edits.
func (c *Changeset) TextEdits() ([]TextEdit, error) {
	if c.err != nil {
		return nil, c.err
	}
	lowered, err := c.lower(c.edits)
	if err != nil {
		return nil, err
	}

	for i := 1; i < len(lowered); i++ {
		prev, curr := lowered[i-1], lowered[i]
		if curr.text.StartOffset < prev.text.EndOffset {
			return nil, &ConflictError{First: prev.edit, Second: curr.edit}
		}
	}

	result := make([]TextEdit, len(lowered))
	for i, l := range lowered {
		result[i] = l.text
	}
	return result, nil
}

// TextEditsBetween lowers the edits staged between two marks without checking
// them against each other.
func (c *Changeset) TextEditsBetween(from, to int) ([]TextEdit, error) {
	from = max(from, 0)
	to = min(to, len(c.edits))
	if from >= to {
		return nil, nil
	}
	lowered, err := c.lower(c.edits[from:to])
	if err != nil {
		return nil, err
	}
	result := make([]TextEdit, len(lowered))
	for i, l := range lowered {
		result[i] = l.text
	}
	return result, nil
}

// Apply materializes the staged edits on content, which must be the text the
// stream was built from. It does not modify the changeset; applying the same
// changeset twice to the same content yields identical bytes.
func (c *Changeset) Apply(content []byte) ([]byte, error) {
	edits, err := c.TextEdits()
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return content, nil
	}
	if err := ValidateEdits(edits, len(content)); err != nil {
		return nil, err
	}
	return ApplyEdits(content, edits), nil
}

// Commit materializes the staged edits on the stream content and closes the
// changeset. An empty commit returns the content unchanged.
func (c *Changeset) Commit() ([]byte, error) {
	c.open = false
	return c.Apply(c.stream.Content)
}

type loweredEdit struct {
	edit Edit
	text TextEdit
	rank int
}

// lower converts token edits to byte edits sorted by start, end, kind and
// staging order. At equal positions insertions precede replacements.
func (c *Changeset) lower(edits []Edit) ([]loweredEdit, error) {
	count := c.stream.Len()
	result := make([]loweredEdit, 0, len(edits))

	for _, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End >= count {
			return nil, &ValidationError{
				Start:   e.Start,
				End:     e.End,
				Message: fmt.Sprintf("%s: token range outside stream of %d tokens", e.Kind, count),
			}
		}

		start := c.stream.Tokens[e.Start]
		end := c.stream.Tokens[e.End]

		var l loweredEdit
		switch e.Kind {
		case InsertAfter:
			l = loweredEdit{edit: e, text: TextEdit{StartOffset: start.End(), EndOffset: start.End(), NewText: e.Text}}
		case InsertBefore:
			l = loweredEdit{edit: e, rank: 1, text: TextEdit{StartOffset: start.Offset, EndOffset: start.Offset, NewText: e.Text}}
		default:
			l = loweredEdit{edit: e, rank: 2, text: TextEdit{StartOffset: start.Offset, EndOffset: end.End(), NewText: e.Text}}
		}
		result = append(result, l)
	}

	slices.SortFunc(result, func(a, b loweredEdit) int {
		return cmp.Or(
			cmp.Compare(a.text.StartOffset, b.text.StartOffset),
			cmp.Compare(a.text.EndOffset, b.text.EndOffset),
			cmp.Compare(a.rank, b.rank),
			cmp.Compare(a.edit.seq, b.edit.seq),
		)
	})

	return result, nil
}
