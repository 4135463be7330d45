package fix

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown around a change.
const contextLines = 3

// Diff is a unified diff of one file, as shown by dry runs.
type Diff struct {
	Path     string
	Original []byte
	Modified []byte
	Hunks    []DiffHunk

	// Additions and Deletions count changed lines over all hunks.
	Additions int
	Deletions int
}

// DiffHunk is one "@@" section. Starts are 1-based line numbers.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// DiffLine is a line of a hunk without its prefix character.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffLineKind tells context, added and removed lines apart.
type DiffLineKind int

const (
	DiffLineContext DiffLineKind = iota
	DiffLineAdd
	DiffLineRemove
)

var linePrefix = [...]byte{
	DiffLineContext: ' ',
	DiffLineAdd:     '+',
	DiffLineRemove:  '-',
}

// GenerateDiff returns the diff from original to modified, or nil when both
// have the same lines. A missing final newline does not count as a change.
func GenerateDiff(path string, original, modified []byte) *Diff {
	lines := lineDiff(original, modified)

	diff := &Diff{Path: path, Original: original, Modified: modified}
	for _, s := range hunkSpans(lines) {
		diff.Hunks = append(diff.Hunks, newHunk(lines, s))
	}
	if len(diff.Hunks) == 0 {
		return nil
	}

	for _, hunk := range diff.Hunks {
		for _, line := range hunk.Lines {
			switch line.Kind {
			case DiffLineAdd:
				diff.Additions++
			case DiffLineRemove:
				diff.Deletions++
			}
		}
	}
	return diff
}

// HasChanges reports whether d has at least one hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

func (d *Diff) displayPath() string {
	return strings.TrimPrefix(d.Path, "/")
}

// GitHeader returns the "diff --git" line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("diff --git a/%[1]s b/%[1]s", d.displayPath())
}

// String renders the file headers and hunks.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%[1]s\n+++ b/%[1]s\n", d.displayPath())
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			sb.WriteByte(linePrefix[line.Kind])
			sb.WriteString(line.Content)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// FullString is String preceded by the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// lineDiff lists every line of both inputs, marked as kept, added or removed.
func lineDiff(original, modified []byte) []DiffLine {
	dmp := diffmatchpatch.New()
	a, b, table := dmp.DiffLinesToChars(terminated(original), terminated(modified))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), table)

	var lines []DiffLine
	for _, d := range diffs {
		kind := DiffLineContext
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = DiffLineAdd
		case diffmatchpatch.DiffDelete:
			kind = DiffLineRemove
		case diffmatchpatch.DiffEqual:
		}
		if d.Text == "" {
			continue
		}
		for _, text := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			lines = append(lines, DiffLine{Kind: kind, Content: text})
		}
	}
	return lines
}

func terminated(content []byte) string {
	s := string(content)
	if s != "" && !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// span is a half-open range of diff lines.
type span struct{ from, to int }

// hunkSpans pads every changed line with context and merges spans whose
// padding touches.
func hunkSpans(lines []DiffLine) []span {
	var spans []span
	for i, line := range lines {
		if line.Kind == DiffLineContext {
			continue
		}
		from := max(i-contextLines, 0)
		to := min(i+1+contextLines, len(lines))
		if n := len(spans); n > 0 && from <= spans[n-1].to {
			spans[n-1].to = to
			continue
		}
		spans = append(spans, span{from: from, to: to})
	}
	return spans
}

func newHunk(lines []DiffLine, s span) DiffHunk {
	hunk := DiffHunk{OriginalStart: 1, ModifiedStart: 1}
	for _, line := range lines[:s.from] {
		if line.Kind != DiffLineAdd {
			hunk.OriginalStart++
		}
		if line.Kind != DiffLineRemove {
			hunk.ModifiedStart++
		}
	}

	hunk.Lines = append([]DiffLine(nil), lines[s.from:s.to]...)
	for _, line := range hunk.Lines {
		if line.Kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if line.Kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}
	return hunk
}
