package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	nested := filepath.Join(root, "src", "Shop", "Cart")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	ctx := context.Background()

	t.Run("none below the VCS root", func(t *testing.T) {
		path, err := FindProjectConfig(ctx, nested)
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	cfgPath := filepath.Join(root, ".phpsniff.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{}\n"), 0o644))

	t.Run("walks up to the root", func(t *testing.T) {
		path, err := FindProjectConfig(ctx, nested)
		require.NoError(t, err)
		assert.Equal(t, cfgPath, path)
	})

	t.Run("yaml preferred over json", func(t *testing.T) {
		yml := filepath.Join(root, ".phpsniff.yml")
		require.NoError(t, os.WriteFile(yml, []byte("ignore: []\n"), 0o644))
		t.Cleanup(func() { _ = os.Remove(yml) })

		path, err := FindProjectConfig(ctx, root)
		require.NoError(t, err)
		assert.Equal(t, yml, path)
	})
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outer, ".phpsniff.yml"), nil, 0o644))

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	path, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, path, "config outside the repository must not be used")
}

func TestFindProjectConfig_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindProjectConfig(ctx, t.TempDir())
	require.ErrorIs(t, err, context.Canceled)
}

func TestFirstFileSkipsDirectories(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config.yaml"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), nil, 0o644))

	assert.Equal(t, filepath.Join(dir, "config.yml"), firstFile(dir, "config.yaml", "config.yml"))
	assert.Empty(t, firstFile("", "config.yml"))
}
