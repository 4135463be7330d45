package token

import "slices"

type searchConfig struct {
	bound    int
	hasBound bool
	exclude  bool
	sameLine bool
	text     string
	hasText  bool
}

// Option configures FindNext and FindPrevious.
type Option func(*searchConfig)

// Until stops the search before reaching bound.
func Until(bound int) Option {
	return func(c *searchConfig) {
		c.bound = bound
		c.hasBound = true
	}
}

// Exclude inverts the kind set: the search stops at the first token whose
// kind is not in the set.
func Exclude() Option {
	return func(c *searchConfig) {
		c.exclude = true
	}
}

// SameLine stops the search at the end of the line of the start token.
func SameLine() Option {
	return func(c *searchConfig) {
		c.sameLine = true
	}
}

// WithText additionally requires the token text to equal text.
func WithText(text string) Option {
	return func(c *searchConfig) {
		c.text = text
		c.hasText = true
	}
}

func (c *searchConfig) matches(tok Token, kinds []Kind) bool {
	if slices.Contains(kinds, tok.Kind) == c.exclude {
		return false
	}
	return !c.hasText || tok.Text == c.text
}

// FindNext returns the first token at or after from whose kind is in kinds.
// It is O(distance) and returns false when no token qualifies.
func FindNext(s *Stream, kinds []Kind, from int, opts ...Option) (int, bool) {
	if from < 0 || from >= len(s.Tokens) {
		return 0, false
	}

	cfg := searchConfig{bound: len(s.Tokens)}
	for _, opt := range opts {
		opt(&cfg)
	}
	end := min(cfg.bound, len(s.Tokens))
	line := s.Tokens[from].Line

	for i := from; i < end; i++ {
		tok := s.Tokens[i]
		if cfg.sameLine && tok.Line != line {
			return 0, false
		}
		if cfg.matches(tok, kinds) {
			return i, true
		}
	}
	return 0, false
}

// FindPrevious returns the first token at or before from whose kind is in kinds,
// scanning backwards. An Until bound is exclusive.
func FindPrevious(s *Stream, kinds []Kind, from int, opts ...Option) (int, bool) {
	if from < 0 || from >= len(s.Tokens) {
		return 0, false
	}

	cfg := searchConfig{bound: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	end := max(cfg.bound, -1)
	line := s.Tokens[from].Line

	for i := from; i > end; i-- {
		tok := s.Tokens[i]
		if cfg.sameLine && tok.Line != line {
			return 0, false
		}
		if cfg.matches(tok, kinds) {
			return i, true
		}
	}
	return 0, false
}

// NextNonWhitespace returns the first non-whitespace token at or after from.
func NextNonWhitespace(s *Stream, from int, opts ...Option) (int, bool) {
	return FindNext(s, []Kind{Whitespace}, from, append(opts, Exclude())...)
}

// PreviousNonWhitespace returns the first non-whitespace token at or before from.
func PreviousNonWhitespace(s *Stream, from int, opts ...Option) (int, bool) {
	return FindPrevious(s, []Kind{Whitespace}, from, append(opts, Exclude())...)
}

// NextNonEmpty returns the first token at or after from that is neither
// whitespace nor a comment.
func NextNonEmpty(s *Stream, from int, opts ...Option) (int, bool) {
	return FindNext(s, EmptyKinds, from, append(opts, Exclude())...)
}

// PreviousNonEmpty returns the first token at or before from that is neither
// whitespace nor a comment.
func PreviousNonEmpty(s *Stream, from int, opts ...Option) (int, bool) {
	return FindPrevious(s, EmptyKinds, from, append(opts, Exclude())...)
}
