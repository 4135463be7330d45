package fix_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/fix"
)

func TestGenerateDiff_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.GenerateDiff("a.php", nil, nil))
	assert.Nil(t, fix.GenerateDiff("a.php", []byte("<?php\n"), []byte("<?php\n")))
	assert.Nil(t, fix.GenerateDiff("a.php", []byte("<?php"), []byte("<?php\n")),
		"a missing final newline is not a change")
}

func TestGenerateDiff_SingleChange(t *testing.T) {
	t.Parallel()

	original := []byte("<?php\n\nif ($a <> $b) {\n}\n")
	modified := []byte("<?php\n\nif ($a != $b) {\n}\n")

	diff := fix.GenerateDiff("src/a.php", original, modified)
	require.NotNil(t, diff)
	require.True(t, diff.HasChanges())
	require.Len(t, diff.Hunks, 1)

	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)

	hunk := diff.Hunks[0]
	assert.Equal(t, 1, hunk.OriginalStart)
	assert.Equal(t, 4, hunk.OriginalCount)
	assert.Equal(t, 4, hunk.ModifiedCount)

	out := diff.String()
	assert.True(t, strings.HasPrefix(out, "--- a/src/a.php\n+++ b/src/a.php\n@@ -1,4 +1,4 @@\n"))
	assert.Contains(t, out, "-if ($a <> $b) {\n+if ($a != $b) {\n")
	assert.Equal(t, "diff --git a/src/a.php b/src/a.php", diff.GitHeader())
	assert.True(t, strings.HasPrefix(diff.FullString(), diff.GitHeader()+"\n--- a/"))
}

func TestGenerateDiff_Hunks(t *testing.T) {
	t.Parallel()

	var orig, mod []string
	for i := range 20 {
		line := "line" + string(rune('a'+i))
		orig = append(orig, line)
		switch i {
		case 1, 17:
			mod = append(mod, strings.ToUpper(line))
		default:
			mod = append(mod, line)
		}
	}

	diff := fix.GenerateDiff("x.php",
		[]byte(strings.Join(orig, "\n")+"\n"),
		[]byte(strings.Join(mod, "\n")+"\n"))
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks, 2, "distant changes form separate hunks")
	assert.Equal(t, 15, diff.Hunks[1].OriginalStart)

	for _, hunk := range diff.Hunks {
		var ctx, add, rem int
		for _, line := range hunk.Lines {
			switch line.Kind {
			case fix.DiffLineContext:
				ctx++
			case fix.DiffLineAdd:
				add++
			case fix.DiffLineRemove:
				rem++
			}
		}
		assert.Equal(t, hunk.OriginalCount, ctx+rem)
		assert.Equal(t, hunk.ModifiedCount, ctx+add)
	}
}

func TestGenerateDiff_InsertedLines(t *testing.T) {
	t.Parallel()

	diff := fix.GenerateDiff("x.php",
		[]byte("<?php\nfunction a() {}\n"),
		[]byte("<?php\n/**\n * @return void\n */\nfunction a() {}\n"))
	require.NotNil(t, diff)
	assert.Equal(t, 3, diff.Additions)
	assert.Zero(t, diff.Deletions)
}

func TestDiff_NilSafe(t *testing.T) {
	t.Parallel()

	var diff *fix.Diff
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
	assert.Empty(t, diff.FullString())
	assert.Empty(t, diff.GitHeader())
}
