package token

import (
	"bytes"
	"sort"
)

// LineInfo locates one line of the file by byte offsets. For the last line
// without a newline NewlineStart and EndOffset are both len(content).
type LineInfo struct {
	StartOffset  int
	NewlineStart int // first byte of "\n" or "\r\n"
	EndOffset    int // one past the newline
}

// BuildLines indexes the lines of content. CRLF endings are recognised;
// a lone CR is ordinary text.
func BuildLines(content []byte) []LineInfo {
	if len(content) == 0 {
		return []LineInfo{}
	}

	lines := make([]LineInfo, 0, bytes.Count(content, []byte{'\n'})+1)
	start := 0
	for {
		i := bytes.IndexByte(content[start:], '\n')
		if i < 0 {
			break
		}
		nl := start + i
		eolStart := nl
		if nl > 0 && content[nl-1] == '\r' {
			eolStart--
		}
		lines = append(lines, LineInfo{StartOffset: start, NewlineStart: eolStart, EndOffset: nl + 1})
		start = nl + 1
	}
	return append(lines, LineInfo{StartOffset: start, NewlineStart: len(content), EndOffset: len(content)})
}

// DetectEOL reports the ending of the first line: "\r\n" or "\n". Content
// without any newline yields "\n".
func DetectEOL(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func (s *Stream) LineCount() int {
	return len(s.Lines)
}

// LineAt maps a byte offset to a 1-based line and byte column. Offsets at or
// past the end of content land on the last line; negative offsets give 0, 0.
func (s *Stream) LineAt(offset int) (line, column int) {
	n := len(s.Lines)
	if offset < 0 || n == 0 {
		return 0, 0
	}

	idx := n - 1
	if offset < len(s.Content) {
		idx = min(sort.Search(n, func(i int) bool { return s.Lines[i].EndOffset > offset }), n-1)
	}
	info := s.Lines[idx]
	if offset < info.StartOffset {
		return 0, 0
	}
	return idx + 1, offset - info.StartOffset + 1
}

// LineContent returns line (1-based) without its line ending, or nil when
// out of range.
func (s *Stream) LineContent(line int) []byte {
	if line < 1 || line > len(s.Lines) {
		return nil
	}
	info := s.Lines[line-1]
	return s.Content[info.StartOffset:info.NewlineStart]
}
