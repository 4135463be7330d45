package fsutil_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/phpsniff/pkg/fsutil"
)

func FuzzWriteIfChanged(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("<?php\n"))
	f.Add([]byte("<?php\r\n$a = [1, 2];\r\n"))
	f.Add([]byte("\xef\xbb\xbf<?php echo 1;"))
	f.Add([]byte("\x00\x01\x02"))

	f.Fuzz(func(t *testing.T, content []byte) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "fuzz.php")

		written, err := fsutil.WriteIfChanged(ctx, path, content, 0)
		if err != nil || !written {
			t.Fatalf("first write: written=%v err=%v", written, err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("round trip changed %d bytes into %d bytes", len(content), len(got))
		}

		written, err = fsutil.WriteIfChanged(ctx, path, content, 0)
		if err != nil || written {
			t.Errorf("second write: written=%v err=%v, want no write", written, err)
		}
	})
}
