package lint

import (
	"context"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// Tokenizer turns PHP source into a token stream.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/php) provide the concrete lexer.
//
// Implementations must be:
//   - deterministic for a given (path, content) pair,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type Tokenizer interface {
	// Tokenize converts raw PHP bytes into a linked token stream.
	//
	// The returned stream must satisfy:
	//   - stream.Path == path
	//   - bytes.Equal(stream.Content, content)
	//   - token.ValidateTokens(stream.Tokens, len(stream.Content)) == true
	Tokenize(ctx context.Context, path string, content []byte) (*token.Stream, error)
}
