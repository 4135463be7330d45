package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the config files found for one run. Empty means absent.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// ProjectConfigFiles are the project file names, most preferred first.
// JSON files are read by the YAML decoder.
//
//nolint:gochecknoglobals // read-only table
var ProjectConfigFiles = []string{
	".phpsniff.yml",
	".phpsniff.yaml",
	".phpsniff.json",
	"phpsniff.yml",
	"phpsniff.yaml",
}

const appName = "phpsniff"

//nolint:gochecknoglobals // read-only table
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the system, user and project config files for workDir.
// System files live in /etc/phpsniff (%ProgramData%\phpsniff on Windows),
// user files in $XDG_CONFIG_HOME/phpsniff.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{
		System:  firstFile(systemConfigDir(), "config.yaml", "config.yml"),
		User:    firstFile(userConfigDir(), "config.yaml", "config.yml"),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	root := os.Getenv("ProgramData")
	if root == "" {
		root = `C:\ProgramData`
	}
	return filepath.Join(root, appName)
}

func userConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// FindProjectConfig walks up from startDir (the working directory when
// empty) and returns the first project config file. The walk ends at a VCS
// root, the home directory or the file system root; "" means none was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if path := firstFile(dir, ProjectConfigFiles...); path != "" {
			return path, nil
		}

		parent := filepath.Dir(dir)
		if isVCSRoot(dir) || dir == home || parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names ...string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}
