package fix

import (
	"cmp"
	"fmt"
	"slices"
)

// ValidationError reports an edit range that does not fit its target.
type ValidationError struct {
	Start   int
	End     int
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Start, e.End, e.Message)
}

// ValidateEdits returns the first edit whose range is not within
// [0, contentLen].
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, e := range edits {
		var msg string
		switch {
		case e.StartOffset < 0:
			msg = "start offset is negative"
		case e.EndOffset < e.StartOffset:
			msg = "end offset is before start offset"
		case e.EndOffset > contentLen:
			msg = fmt.Sprintf("end offset %d exceeds content length %d", e.EndOffset, contentLen)
		default:
			continue
		}
		return &ValidationError{Start: e.StartOffset, End: e.EndOffset, Message: msg}
	}
	return nil
}

// SortEdits orders edits by start, then end offset. Insertions at the same
// offset keep their relative order.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(
			cmp.Compare(a.StartOffset, b.StartOffset),
			cmp.Compare(a.EndOffset, b.EndOffset),
		)
	})
}

// Resolution splits a batch of edits into those safe to apply together and
// those deferred to a later pass.
type Resolution struct {
	// Accepted is sorted and free of overlaps, ready for ApplyEdits.
	Accepted []TextEdit

	// Skipped overlapped an earlier accepted edit.
	Skipped []TextEdit

	// Merged counts deletions folded into an overlapping deletion.
	Merged int
}

// ResolveEdits validates edits against contentLen and resolves overlaps:
// overlapping deletions merge into one covering both, and any other edit
// that overlaps an earlier one is skipped. The input is not reordered.
// Only an invalid range is an error.
func ResolveEdits(edits []TextEdit, contentLen int) (Resolution, error) {
	var res Resolution
	if len(edits) == 0 {
		return res, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return res, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)

	res.Accepted = make([]TextEdit, 0, len(sorted))
	current := sorted[0]
	for _, e := range sorted[1:] {
		switch {
		case e.StartOffset >= current.EndOffset:
			res.Accepted = append(res.Accepted, current)
			current = e
		case current.NewText == "" && e.NewText == "":
			current.EndOffset = max(current.EndOffset, e.EndOffset)
			res.Merged++
		default:
			res.Skipped = append(res.Skipped, e)
		}
	}
	res.Accepted = append(res.Accepted, current)
	return res, nil
}
