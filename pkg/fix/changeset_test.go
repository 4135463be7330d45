package fix_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/parser/php"
	"github.com/yaklabco/phpsniff/pkg/token"
)

func tokenize(t *testing.T, src string) *token.Stream {
	t.Helper()

	stream, err := php.New().Tokenize(context.Background(), "test.php", []byte(src))
	require.NoError(t, err)
	return stream
}

func indexOf(t *testing.T, s *token.Stream, text string) int {
	t.Helper()

	for i, tok := range s.Tokens {
		if tok.Text == text {
			return i
		}
	}
	require.Failf(t, "token not found", "%q", text)
	return -1
}

func TestChangeset_Commit(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php if ($a <> $b) { foo() ; }")
	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.ReplaceToken(indexOf(t, s, "<>"), "!=")
	cs.Remove(indexOf(t, s, ";")-1, indexOf(t, s, ";")-1)

	got, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, "<?php if ($a != $b) { foo(); }", string(got))
	assert.Equal(t, "<?php if ($a <> $b) { foo() ; }", string(s.Content), "stream content is not modified")
}

func TestChangeset_EmptyCommit(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php echo 1;\n")

	cs := fix.NewChangeset(s)
	cs.Begin()
	got, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, s.Content, got)

	got, err = fix.NewChangeset(s).Commit()
	require.NoError(t, err)
	assert.Equal(t, s.Content, got)
}

func TestChangeset_Conflict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stage func(cs *fix.Changeset, s *token.Stream)
	}{
		{
			name: "overlapping replacements",
			stage: func(cs *fix.Changeset, s *token.Stream) {
				cs.Replace(indexOf(t, s, "$a"), indexOf(t, s, "$b"), "x")
				cs.ReplaceToken(indexOf(t, s, "$b"), "y")
			},
		},
		{
			name: "insertion inside replacement",
			stage: func(cs *fix.Changeset, s *token.Stream) {
				cs.Replace(indexOf(t, s, "$a"), indexOf(t, s, "$b"), "x")
				cs.InsertBefore(indexOf(t, s, "$b"), "y")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := tokenize(t, "<?php $a = $b;")
			cs := fix.NewChangeset(s)
			cs.Begin()
			tt.stage(cs, s)

			_, err := cs.Commit()
			var conflict *fix.ConflictError
			require.ErrorAs(t, err, &conflict)

			staged := cs.Edits()
			assert.Equal(t, staged[0], conflict.First)
			assert.Equal(t, staged[1], conflict.Second)
			assert.Contains(t, err.Error(), "conflicting edits")
		})
	}
}

func TestChangeset_AdjacentEditsDoNotConflict(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php $a;")
	a := indexOf(t, s, "$a")

	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.InsertAfter(a, ">")
	cs.ReplaceToken(a, "$b")
	cs.InsertBefore(a, "<")

	got, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, "<?php <$b>;", string(got))
}

func TestChangeset_DeterministicOrder(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php $a;")
	a := indexOf(t, s, "$a")
	semi := indexOf(t, s, ";")

	forward := fix.NewChangeset(s)
	forward.Begin()
	forward.InsertAfter(a, "X")
	forward.InsertBefore(semi, "Y")

	reverse := fix.NewChangeset(s)
	reverse.Begin()
	reverse.InsertBefore(semi, "Y")
	reverse.InsertAfter(a, "X")

	got1, err := forward.Commit()
	require.NoError(t, err)
	got2, err := reverse.Commit()
	require.NoError(t, err)

	assert.Equal(t, "<?php $aXY;", string(got1))
	assert.Equal(t, got1, got2, "staging order across anchors does not matter")

	same := fix.NewChangeset(s)
	same.Begin()
	same.InsertBefore(semi, "1")
	same.InsertBefore(semi, "2")
	got, err := same.Commit()
	require.NoError(t, err)
	assert.Equal(t, "<?php $a12;", string(got), "insertions at one anchor keep staging order")
}

func TestChangeset_ApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php\n$x = array(1, 2);\n$y = 3;\n")
	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.Replace(indexOf(t, s, "array"), indexOf(t, s, "("), "[")
	cs.ReplaceToken(indexOf(t, s, ")"), "]")

	first, err := cs.Apply(s.Content)
	require.NoError(t, err)
	second, err := cs.Apply(s.Content)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "<?php\n$x = [1, 2];\n$y = 3;\n", string(first))
	assert.Equal(t, 2, cs.Len(), "apply keeps staged edits")
}

func TestChangeset_PreservesUntouchedBytes(t *testing.T) {
	t.Parallel()

	src := "<?php\n// lead\n$a  =  1;\n/* tail */\n"
	s := tokenize(t, src)
	one := indexOf(t, s, "1")

	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.ReplaceToken(one, "2")

	got, err := cs.Commit()
	require.NoError(t, err)

	offset := s.Tokens[one].Offset
	assert.Equal(t, src[:offset], string(got[:offset]))
	assert.Equal(t, src[offset+1:], string(got[offset+1:]))
}

func TestChangeset_NotBegun(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php $a;")
	cs := fix.NewChangeset(s)
	cs.ReplaceToken(indexOf(t, s, "$a"), "$b")

	assert.Zero(t, cs.Len())
	_, err := cs.Commit()
	require.ErrorIs(t, err, fix.ErrNotBegun)

	cs.Rollback()
	cs.Begin()
	cs.ReplaceToken(indexOf(t, s, "$a"), "$b")
	got, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, "<?php $b;", string(got))
}

func TestChangeset_OutOfRange(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php $a;")
	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.Replace(0, s.Len(), "")

	_, err := cs.TextEdits()
	var valErr *fix.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, s.Len(), valErr.End)
}

func TestChangeset_Marks(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php $a = $b;")
	a, b := indexOf(t, s, "$a"), indexOf(t, s, "$b")

	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.ReplaceToken(a, "$x")
	mark := cs.Len()
	cs.ReplaceToken(b, "$y")
	cs.InsertAfter(b, " ")

	between, err := cs.TextEditsBetween(mark, cs.Len())
	require.NoError(t, err)
	require.Len(t, between, 2)
	assert.Equal(t, "$y", between[0].NewText)
	assert.Equal(t, s.Tokens[b].Offset, between[0].StartOffset)

	empty, err := cs.TextEditsBetween(cs.Len(), cs.Len())
	require.NoError(t, err)
	assert.Empty(t, empty)

	cs.Truncate(mark)
	assert.Equal(t, 1, cs.Len())
	got, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t, "<?php $x = $b;", string(got))

	cs.Rollback()
	assert.Zero(t, cs.Len())
}

func TestChangeset_DocBlockInjection(t *testing.T) {
	t.Parallel()

	s := tokenize(t, "<?php\nclass A\n{\n    public function foo() {}\n}\n")
	fn := indexOf(t, s, "function")
	indent := token.Indentation(s, fn)
	require.Equal(t, "    ", indent)

	cs := fix.NewChangeset(s)
	cs.Begin()
	cs.InsertBefore(token.LineStart(s, fn),
		indent+"/**\n"+indent+" * @return void\n"+indent+" */\n")

	got, err := cs.Commit()
	require.NoError(t, err)
	assert.Equal(t,
		"<?php\nclass A\n{\n    /**\n     * @return void\n     */\n    public function foo() {}\n}\n",
		string(got))

	fixed := tokenize(t, string(got))
	_, _, ok := token.EnclosingDocBlock(fixed, indexOf(t, fixed, "function"))
	assert.True(t, ok)
}
