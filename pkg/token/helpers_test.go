package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/parser/php"
	"github.com/yaklabco/phpsniff/pkg/token"
)

func mustStream(t *testing.T, src string) *token.Stream {
	t.Helper()

	stream, err := php.New().Tokenize(context.Background(), "test.php", []byte(src))
	require.NoError(t, err)
	return stream
}

// nth returns the index of the n-th (0-based) token with the given text.
func nth(t *testing.T, s *token.Stream, text string, n int) int {
	t.Helper()

	for i, tok := range s.Tokens {
		if tok.Text != text {
			continue
		}
		if n == 0 {
			return i
		}
		n--
	}
	require.Failf(t, "token not found", "%q", text)
	return -1
}

func first(t *testing.T, s *token.Stream, text string) int {
	t.Helper()
	return nth(t, s, text, 0)
}
