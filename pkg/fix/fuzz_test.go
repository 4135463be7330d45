package fix_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/parser/php"
)

func FuzzGenerateDiff(f *testing.F) {
	f.Add([]byte(""), []byte(""))
	f.Add([]byte("<?php\n"), []byte("<?php\n\n"))
	f.Add([]byte("a\nb\nc\n"), []byte("a\nx\nc\n"))
	f.Add([]byte("a\nb\nc\nd\ne\n"), []byte("a\nB\nc\nD\ne\n"))

	f.Fuzz(func(t *testing.T, original, modified []byte) {
		diff := fix.GenerateDiff("test.php", original, modified)
		if diff == nil {
			return
		}
		_ = diff.String()

		for i, hunk := range diff.Hunks {
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
			if ctx+rem != hunk.OriginalCount || ctx+add != hunk.ModifiedCount {
				t.Fatalf("hunk %d: inconsistent counts %+v", i, hunk)
			}
		}
	})
}

// FuzzChangesetReplace replaces every token with its own text and expects the
// original bytes back.
func FuzzChangesetReplace(f *testing.F) {
	f.Add([]byte("<?php $a = 1;"))
	f.Add([]byte("<?php\n/**\n * @return void\n */\nfunction f() {}\n"))
	f.Add([]byte("<html><?= $x ?></html>"))

	f.Fuzz(func(t *testing.T, content []byte) {
		s, err := php.New().Tokenize(context.Background(), "fuzz.php", content)
		if err != nil {
			t.Fatalf("tokenize: %v", err)
		}

		cs := fix.NewChangeset(s)
		cs.Begin()
		for i, tok := range s.Tokens {
			cs.ReplaceToken(i, tok.Text)
		}

		got, err := cs.Commit()
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Fatalf("identity changeset changed content: %q -> %q", content, got)
		}
	})
}
