package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupMode selects where backups are kept.
type BackupMode string

const (
	BackupModeSidecar   BackupMode = "sidecar" // path + BackupSuffix
	BackupModeDirectory BackupMode = "dir"     // BackupDir next to the file
	BackupModeNone      BackupMode = "none"

	BackupSuffix = ".phpsniff.bak"
	BackupDir    = ".phpsniff-backups"
)

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the defaults: disabled, sidecar.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// BackupPath returns where the backup of path lives, or "" for
// BackupModeNone. Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	switch mode {
	case BackupModeNone:
		return ""
	case BackupModeDirectory:
		return filepath.Join(filepath.Dir(path), BackupDir, filepath.Base(path))
	default:
		return path + BackupSuffix
	}
}

// CreateBackup copies path to its backup location unless a backup already
// exists there, so repeated runs keep the oldest original. It reports whether
// a backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backupPath := BackupPath(path, cfg.Mode)
	if backupPath == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	switch _, err := os.Stat(backupPath); {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat backup path: %w", err)
	}

	content, snap, err := ReadFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read original for backup: %w", err)
	}

	if cfg.Mode == BackupModeDirectory {
		if err := os.MkdirAll(filepath.Dir(backupPath), 0o755); err != nil {
			return false, fmt.Errorf("create backup dir: %w", err)
		}
	}
	if err := WriteAtomic(ctx, backupPath, content, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup writes the backup of path back over path with the backup's
// permissions. It reports false when there is no backup.
func RestoreBackup(ctx context.Context, path string, mode BackupMode) (bool, error) {
	backupPath, ok := existingBackup(path, mode)
	if !ok {
		return false, nil
	}
	content, snap, err := ReadFile(ctx, backupPath)
	if err != nil {
		return false, fmt.Errorf("read backup: %w", err)
	}
	if err := WriteAtomic(ctx, path, content, snap.Mode); err != nil {
		return false, fmt.Errorf("restore %s: %w", path, err)
	}
	return true, nil
}

// RemoveBackup deletes the backup of path, then the backup directory if
// that left it empty. It reports false when there was no backup.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	backupPath, ok := existingBackup(path, mode)
	if !ok {
		return false, nil
	}
	if err := os.Remove(backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove backup: %w", err)
	}
	if mode == BackupModeDirectory {
		// Fails harmlessly while other backups remain.
		_ = os.Remove(filepath.Dir(backupPath))
	}
	return true, nil
}

// BackupExists reports whether path has a backup.
func BackupExists(path string, mode BackupMode) bool {
	_, ok := existingBackup(path, mode)
	return ok
}

func existingBackup(path string, mode BackupMode) (string, bool) {
	backupPath := BackupPath(path, mode)
	if backupPath == "" {
		return "", false
	}
	info, err := os.Stat(backupPath)
	return backupPath, err == nil && info.Mode().IsRegular()
}
