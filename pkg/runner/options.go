// Package runner lints many PHP files concurrently.
package runner

import (
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

// Options configures discovery and the worker pool. Paths resolve against
// WorkingDir, or the process directory when it is empty.
type Options struct {
	Paths      []string // default "."
	WorkingDir string

	// Extensions are lowercase with a leading dot; DefaultExtensions when empty.
	Extensions []string

	// IncludeGlobs, when set, restrict discovery to matching relative paths.
	// ExcludeGlobs use gitignore syntax and combine config and --ignore.
	IncludeGlobs []string
	ExcludeGlobs []string

	RespectGitignore bool

	// DetectScripts picks up extension-less files with a PHP shebang, such
	// as bin/console.
	DetectScripts  bool
	FollowSymlinks bool

	// Jobs <= 0 means one worker per CPU.
	Jobs int

	Config *config.Config

	// Run is shared by every rule invocation; built from
	// Config.LegacyProjects when nil.
	Run *lint.RunContext
}

// DefaultExtensions returns the default set of PHP file extensions.
func DefaultExtensions() []string {
	return []string{".php", ".phtml", ".inc"}
}

func (o Options) effectiveExtensions() []string {
	return orDefault(o.Extensions, DefaultExtensions())
}

func (o Options) effectivePaths() []string {
	return orDefault(o.Paths, []string{"."})
}

func orDefault(values, fallback []string) []string {
	if len(values) == 0 {
		return fallback
	}
	return values
}

// OptionsFromConfig fills the discovery options that come from cfg.
func OptionsFromConfig(cfg *config.Config, paths []string) Options {
	opts := Options{
		Paths:            paths,
		RespectGitignore: true,
		DetectScripts:    true,
		Config:           cfg,
	}
	if cfg != nil {
		opts.Extensions = cfg.Extensions
		opts.ExcludeGlobs = cfg.Ignore
		opts.Jobs = cfg.Jobs
	}
	return opts
}
