package fix

// ApplyEdits splices edits into content. The edits must be sorted and
// non-overlapping, as ResolveEdits leaves them. content is not modified.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - e.Len()
	}

	out := make([]byte, 0, size)
	last := 0
	for _, e := range edits {
		out = append(out, content[last:e.StartOffset]...)
		out = append(out, e.NewText...)
		last = e.EndOffset
	}
	return append(out, content[last:]...)
}
