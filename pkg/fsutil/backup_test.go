package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode fsutil.BackupMode
		want string
	}{
		{fsutil.BackupModeSidecar, "/src/Cart.php.phpsniff.bak"},
		{fsutil.BackupModeDirectory, filepath.Join("/src", ".phpsniff-backups", "Cart.php")},
		{fsutil.BackupModeNone, ""},
		{"unknown", "/src/Cart.php.phpsniff.bak"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fsutil.BackupPath("/src/Cart.php", tt.mode))
		})
	}
}

func TestDefaultBackupConfig(t *testing.T) {
	t.Parallel()

	cfg := fsutil.DefaultBackupConfig()
	assert.False(t, cfg.Enabled)
	assert.Equal(t, fsutil.BackupModeSidecar, cfg.Mode)
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	for _, mode := range []fsutil.BackupMode{fsutil.BackupModeSidecar, fsutil.BackupModeDirectory} {
		t.Run(string(mode), func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			path := writeFile(t, t.TempDir(), "Cart.php", "original")
			cfg := fsutil.BackupConfig{Enabled: true, Mode: mode}

			created, err := fsutil.CreateBackup(ctx, path, cfg)
			require.NoError(t, err)
			assert.True(t, created)
			assert.True(t, fsutil.BackupExists(path, mode))

			require.NoError(t, os.WriteFile(path, []byte("fixed"), 0o644))
			created, err = fsutil.CreateBackup(ctx, path, cfg)
			require.NoError(t, err)
			assert.False(t, created, "an existing backup is kept")

			got, err := os.ReadFile(fsutil.BackupPath(path, mode))
			require.NoError(t, err)
			assert.Equal(t, "original", string(got))
		})
	}
}

func TestCreateBackup_Disabled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "Cart.php", "original")

	for _, cfg := range []fsutil.BackupConfig{
		{Enabled: false, Mode: fsutil.BackupModeSidecar},
		{Enabled: true, Mode: fsutil.BackupModeNone},
	} {
		created, err := fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
}

func TestCreateBackup_MissingOriginal(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gone.php")
	created, err := fsutil.CreateBackup(context.Background(), path, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRestoreAndRemoveBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "Cart.php", "original")
	mode := fsutil.BackupModeSidecar

	_, err := fsutil.CreateBackup(ctx, path, fsutil.BackupConfig{Enabled: true, Mode: mode})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte("broken"), 0o644))

	restored, err := fsutil.RestoreBackup(ctx, path, mode)
	require.NoError(t, err)
	assert.True(t, restored)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	removed, err := fsutil.RemoveBackup(path, mode)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, fsutil.BackupExists(path, mode))

	removed, err = fsutil.RemoveBackup(path, mode)
	require.NoError(t, err)
	assert.False(t, removed)

	restored, err = fsutil.RestoreBackup(ctx, path, mode)
	require.NoError(t, err)
	assert.False(t, restored)
}

func TestRemoveBackup_PrunesEmptyBackupDir(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	cart := writeFile(t, dir, "Cart.php", "cart")
	order := writeFile(t, dir, "Order.php", "order")
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeDirectory}

	for _, path := range []string{cart, order} {
		_, err := fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
	}
	backupDir := filepath.Join(dir, fsutil.BackupDir)

	_, err := fsutil.RemoveBackup(cart, cfg.Mode)
	require.NoError(t, err)
	assert.DirExists(t, backupDir, "still holds the Order.php backup")

	_, err = fsutil.RemoveBackup(order, cfg.Mode)
	require.NoError(t, err)
	assert.NoDirExists(t, backupDir)
}
