// Package token provides the lossless PHP token stream used by phpsniff rules.
// It defines:
//   - Stream: an immutable view of a file and its tokens
//   - cursor search over the stream (FindNext, FindPrevious)
//   - scope resolution (MatchingCloser, StatementEnd, EnclosingDocBlock)
package token
