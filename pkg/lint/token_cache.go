package lint

import "github.com/yaklabco/phpsniff/pkg/token"

// TokenCache holds per-file data derived from a stream and shared by all
// rules linting that file.
//
// # Purpose
//
// Several rules need every function declaration or the roles of the class a
// token belongs to. Computing these once per file keeps the cost at
// O(tokens) instead of O(rules × tokens).
//
// # Do Not Mutate Returned Slices
//
// Slices returned by Positions are shared across rules. Copy before sorting
// or filtering in place.
//
// # Thread Safety
//
// TokenCache is NOT thread-safe. Rules for one file run sequentially; each
// file gets its own cache.
type TokenCache struct {
	stream  *token.Stream
	byKind  map[token.Kind][]int
	roles   map[int]Role
	classes map[int]classEntry
	built   bool
}

type classEntry struct {
	decl  int
	found bool
}

// NewTokenCache creates an empty cache for the stream. It is populated lazily.
func NewTokenCache(s *token.Stream) *TokenCache {
	return &TokenCache{
		stream:  s,
		roles:   make(map[int]Role),
		classes: make(map[int]classEntry),
	}
}

// build indexes token positions by kind in a single pass.
func (c *TokenCache) build() {
	if c.built {
		return
	}
	c.byKind = make(map[token.Kind][]int)
	for i, tok := range c.stream.Tokens {
		c.byKind[tok.Kind] = append(c.byKind[tok.Kind], i)
	}
	c.built = true
}

// Positions returns the indices of all tokens of the given kind in stream order.
// Do not mutate the returned slice.
func (c *TokenCache) Positions(kind token.Kind) []int {
	c.build()
	return c.byKind[kind]
}

// ClassAt returns the class-like declaration enclosing token i.
// A class-like keyword encloses itself.
func (c *TokenCache) ClassAt(i int) (int, bool) {
	if c.stream.Kind(i).IsDeclaration() {
		return i, true
	}

	// Memoize by enclosing brace: every token directly inside a brace has the same class.
	key := i
	if open, ok := enclosingBrace(c.stream, i); ok {
		key = open
	}
	if entry, ok := c.classes[key]; ok {
		return entry.decl, entry.found
	}
	decl, found := EnclosingClass(c.stream, i)
	c.classes[key] = classEntry{decl: decl, found: found}
	return decl, found
}

// Roles returns the roles of the class-like declaration enclosing token i.
func (c *TokenCache) Roles(i int) Role {
	decl, ok := c.ClassAt(i)
	if !ok {
		return RoleNone
	}
	if role, ok := c.roles[decl]; ok {
		return role
	}
	role := Classify(c.stream, decl)
	c.roles[decl] = role
	return role
}

// enclosingBrace returns the innermost curly brace opener containing token i.
func enclosingBrace(s *token.Stream, i int) (int, bool) {
	level := s.Tokens[i].Level
	if level == 0 {
		return 0, false
	}
	for j := i - 1; j >= 0; j-- {
		tok := s.Tokens[j]
		if tok.Kind == token.CloseCurly {
			if open, ok := tok.Match(); ok {
				j = open
			}
			continue
		}
		if tok.Kind == token.OpenCurly && tok.Level == level-1 {
			return j, true
		}
	}
	return 0, false
}
