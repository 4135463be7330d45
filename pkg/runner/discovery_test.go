package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree writes files (relative path -> content) under a temp dir.
func tree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func relAll(t *testing.T, root string, paths []string) []string {
	t.Helper()

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestDiscover_DefaultExtensions(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"src/Cart.php":              "<?php\n",
		"src/view.phtml":            "<p><?= $a ?></p>\n",
		"src/legacy.inc":            "<?php\n",
		"README.md":                 "# readme\n",
		"src/.hidden.php":           "<?php\n",
		".cache/Cached.php":         "<?php\n",
		"vendor/acme/Lib.php":       "<?php\n",
		"node_modules/x/y.php":      "<?php\n",
		"src/Upper/Shout.PHP":       "<?php\n",
		"src/Cart.php.phpsniff.bak": "<?php\n",
	})

	files, err := Discover(context.Background(), Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"src/Cart.php",
		"src/Upper/Shout.PHP",
		"src/legacy.inc",
		"src/view.phtml",
	}, relAll(t, root, files))
}

func TestDiscover_ExcludeGlobs(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"src/Cart.php":               "<?php\n",
		"src/Generated/Transfer.php": "<?php\n",
		"tests/_output/Snapshot.php": "<?php\n",
		"tests/CartTest.php":         "<?php\n",
	})

	files, err := Discover(context.Background(), Options{
		WorkingDir:   root,
		ExcludeGlobs: []string{"src/Generated/", "**/_output/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Cart.php", "tests/CartTest.php"}, relAll(t, root, files))
}

func TestDiscover_IncludeGlobs(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"src/Cart.php":       "<?php\n",
		"tests/CartTest.php": "<?php\n",
	})

	files, err := Discover(context.Background(), Options{
		WorkingDir:   root,
		IncludeGlobs: []string{"src/**"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Cart.php"}, relAll(t, root, files))
}

func TestDiscover_Gitignore(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		".gitignore":            "/build/\n*.cache.php\n",
		"build/Out.php":         "<?php\n",
		"src/Cart.php":          "<?php\n",
		"src/Cart.cache.php":    "<?php\n",
		"src/module/.gitignore": "Local.php\n",
		"src/module/Local.php":  "<?php\n",
		"src/module/Shared.php": "<?php\n",
	})

	files, err := Discover(context.Background(), Options{WorkingDir: root, RespectGitignore: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Cart.php", "src/module/Shared.php"}, relAll(t, root, files))

	all, err := Discover(context.Background(), Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestDiscover_Scripts(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"bin/console": "#!/usr/bin/env php\n<?php\n",
		"bin/tool":    "<?php\necho 1;\n",
		"bin/deploy":  "#!/bin/sh\necho hi\n",
		"bin/empty":   "",
	})

	files, err := Discover(context.Background(), Options{WorkingDir: root, DetectScripts: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"bin/console", "bin/tool"}, relAll(t, root, files))

	files, err = Discover(context.Background(), Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Empty(t, files)

	files, err = Discover(context.Background(), Options{WorkingDir: root, Paths: []string{"bin/console"}})
	require.NoError(t, err)
	assert.Len(t, files, 1, "an explicit script is probed")
}

func TestDiscover_ExplicitPaths(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"a/One.php": "<?php\n",
		"b/Two.php": "<?php\n",
		"b/doc.txt": "text\n",
	})

	files, err := Discover(context.Background(), Options{
		WorkingDir: root,
		Paths:      []string{"b/Two.php", "a", "b/doc.txt", "a/One.php"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a/One.php", "b/Two.php"}, relAll(t, root, files), "deduplicated and sorted")
}

func TestDiscover_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := Discover(context.Background(), Options{WorkingDir: t.TempDir(), Paths: []string{"nope"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Discover(ctx, Options{WorkingDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"real/Linked.php": "<?php\n",
		"src/Cart.php":    "<?php\n",
	})
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "src", "link")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	files, err := Discover(context.Background(), Options{WorkingDir: root, Paths: []string{"src"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/Cart.php"}, relAll(t, root, files))

	files, err = Discover(context.Background(), Options{WorkingDir: root, Paths: []string{"src"}, FollowSymlinks: true})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestLooksLikePHP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		head string
		want bool
	}{
		{"#!/usr/bin/env php\n<?php\n", true},
		{"#!/usr/bin/php\n", true},
		{"#!/usr/bin/env python3\n", false},
		{"<?php\n", true},
		{"  <?php declare(strict_types=1);\n", true},
		{"hello\n<?php\n", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, looksLikePHP([]byte(tt.head)), "%q", tt.head)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Parallel()

	opts := OptionsFromConfig(nil, []string{"src"})
	assert.Equal(t, []string{"src"}, opts.Paths)
	assert.True(t, opts.RespectGitignore)
	assert.Equal(t, DefaultExtensions(), opts.effectiveExtensions())
	assert.Equal(t, []string{"."}, Options{}.effectivePaths())
}
