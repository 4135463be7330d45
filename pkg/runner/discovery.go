package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// gitignoreFile is read from every walked directory when RespectGitignore is set.
const gitignoreFile = ".gitignore"

// skippedDirs are never walked into.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// Discover finds PHP files matching opts under the given working directory.
// It returns a deterministically sorted list of absolute file paths.
// Paths named explicitly are linted even when an exclude pattern matches a
// parent directory, but not when the file itself is excluded.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m := newMatcher(workDir, opts)
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		if _, ok := seen[path]; !ok {
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", inputPath, err)
		}

		if !info.IsDir() {
			if m.matchesFile(absPath, true) {
				add(absPath)
			}
			continue
		}

		discovered, err := m.walk(ctx, absPath, make(map[string]bool))
		if err != nil {
			return nil, err
		}
		for _, f := range discovered {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

// matcher decides which paths take part in a run.
type matcher struct {
	workDir    string
	opts       Options
	extensions []string
	exclude    *ignore.GitIgnore
	include    *ignore.GitIgnore

	// gitignores holds the compiled .gitignore of each directory that has one,
	// keyed by directory.
	gitignores map[string]*ignore.GitIgnore
}

func newMatcher(workDir string, opts Options) *matcher {
	m := &matcher{
		workDir:    workDir,
		opts:       opts,
		gitignores: make(map[string]*ignore.GitIgnore),
	}
	for _, ext := range opts.effectiveExtensions() {
		m.extensions = append(m.extensions, strings.ToLower(ext))
	}
	if len(opts.ExcludeGlobs) > 0 {
		m.exclude = ignore.CompileIgnoreLines(opts.ExcludeGlobs...)
	}
	if len(opts.IncludeGlobs) > 0 {
		m.include = ignore.CompileIgnoreLines(opts.IncludeGlobs...)
	}
	if opts.RespectGitignore {
		m.loadGitignore(workDir)
	}
	return m
}

// loadGitignore compiles dir/.gitignore once.
func (m *matcher) loadGitignore(dir string) {
	if _, ok := m.gitignores[dir]; ok {
		return
	}
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, gitignoreFile))
	if err != nil {
		gi = nil
	}
	m.gitignores[dir] = gi
}

// rel returns path relative to the working directory with forward slashes.
func (m *matcher) rel(path string) string {
	relPath, err := filepath.Rel(m.workDir, path)
	if err != nil {
		relPath = path
	}
	return filepath.ToSlash(relPath)
}

// ignored reports whether path is excluded by the configured patterns or by
// a .gitignore in one of its ancestors up to the working directory.
func (m *matcher) ignored(path string, isDir bool) bool {
	relPath := m.rel(path)
	if isDir {
		relPath += "/"
	}
	if m.exclude != nil && m.exclude.MatchesPath(relPath) {
		return true
	}

	for dir, gi := range m.gitignores {
		if gi == nil || !isWithin(path, dir) {
			continue
		}
		sub, err := filepath.Rel(dir, path)
		if err != nil {
			continue
		}
		sub = filepath.ToSlash(sub)
		if isDir {
			sub += "/"
		}
		if gi.MatchesPath(sub) {
			return true
		}
	}
	return false
}

// matchesFile checks if a file path matches the inclusion criteria. Files
// without an extension are probed for a PHP shebang when DetectScripts is set
// or the file was named explicitly.
func (m *matcher) matchesFile(path string, explicit bool) bool {
	if m.ignored(path, false) {
		return false
	}
	if m.include != nil && !m.include.MatchesPath(m.rel(path)) {
		return false
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		return slices.Contains(m.extensions, ext)
	}
	return (m.opts.DetectScripts || explicit) && isPHPScript(path)
}

// walk recursively collects matching files under root. visited guards
// against symlink cycles when FollowSymlinks is set.
func (m *matcher) walk(ctx context.Context, root string, visited map[string]bool) ([]string, error) {
	if real, err := filepath.EvalSymlinks(root); err == nil {
		if visited[real] {
			return nil, nil
		}
		visited[real] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				return nil
			}
			return walkErr
		}

		name := entry.Name()
		if entry.IsDir() {
			if path == root {
				if m.opts.RespectGitignore {
					m.loadGitignore(path)
				}
				return nil
			}
			if strings.HasPrefix(name, ".") || skippedDirs[name] || m.ignored(path, true) {
				return filepath.SkipDir
			}
			if m.opts.RespectGitignore {
				m.loadGitignore(path)
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			realPath, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken symlinks are skipped
			}
			info, err := os.Stat(realPath)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !m.opts.FollowSymlinks || m.ignored(path, true) {
					return nil
				}
				// WalkDir does not descend into a symlinked root, so walk the target.
				sub, err := m.walk(ctx, realPath, visited)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if m.matchesFile(path, false) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}
	return files, nil
}

// isWithin reports whether path is dir or lies below it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
