// Package php provides the PHP tokenizer used by phpsniff.
package php

import (
	"context"
	"fmt"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// Parser implements lint.Tokenizer for PHP source.
// It is stateless and safe for concurrent use.
type Parser struct{}

// New creates a PHP tokenizer.
func New() *Parser {
	return &Parser{}
}

// Tokenize converts raw PHP bytes into a linked token stream.
//
// The method:
//  1. Checks for context cancellation.
//  2. Lexes the content into classified tokens.
//  3. Builds the stream (positions, depths, bracket and scope links).
//
// Returns nil and an error if tokenizing fails or the context is cancelled.
func (p *Parser) Tokenize(ctx context.Context, path string, content []byte) (*token.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("tokenize cancelled: %w", err)
	}

	data := copyContent(content)
	stream, err := token.NewStream(path, data, Lex(data))
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", path, err)
	}

	return stream, nil
}

// copyContent creates a copy of the content to ensure immutability.
func copyContent(content []byte) []byte {
	if content == nil {
		return nil
	}
	result := make([]byte, len(content))
	copy(result, content)
	return result
}
