package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
	"github.com/yaklabco/phpsniff/pkg/lint/rules"
	"github.com/yaklabco/phpsniff/pkg/parser/php"
	"github.com/yaklabco/phpsniff/pkg/runner"
)

func newRunner(rs ...lint.Rule) *runner.Runner {
	registry := lint.NewRegistry()
	for _, r := range rs {
		registry.Register(r)
	}
	return runner.New(lint.NewPipeline(lint.NewEngine(php.New(), registry)))
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNew(t *testing.T) {
	t.Parallel()

	pipeline := lint.NewPipeline(lint.NewEngine(php.New(), lint.NewRegistry()))
	assert.Same(t, pipeline, runner.New(pipeline).Pipeline)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	result, err := newRunner().Run(context.Background(), runner.Options{
		WorkingDir: t.TempDir(),
		Config:     config.NewConfig(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.Zero(t, result.Stats.FilesDiscovered)
	assert.False(t, result.HasIssues())
}

func TestRunner_Run_Check(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for i, name := range []string{"a.php", "b.php", "c.php", "d.php", "e.php"} {
		src := "<?php\nif ($a != $b) {}\n"
		if i%2 == 0 {
			src = "<?php\nif ($a <> $b) {}\n"
		}
		write(t, dir, name, src)
	}

	cfg := config.NewConfig()
	result, err := newRunner(rules.NewNotEqualOperatorRule()).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Jobs:       3,
		Config:     cfg,
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 5)
	for i, f := range result.Files {
		assert.Equal(t, string(rune('a'+i))+".php", filepath.Base(f.Path), "outcomes follow discovery order")
		require.NoError(t, f.Error)
	}

	assert.Equal(t, 5, result.Stats.FilesProcessed)
	assert.Equal(t, 3, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 3, result.Stats.DiagnosticsFixable)
	assert.Equal(t, 3, result.Stats.FilesWithIssues)
	assert.Equal(t, 3, result.Stats.DiagnosticsBySeverity["warning"])
	assert.Zero(t, result.Stats.FilesModified)
	assert.True(t, result.HasIssues())
	assert.True(t, result.HasWarnings())
	assert.False(t, result.HasFailures())

	got, err := os.ReadFile(filepath.Join(dir, "a.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php\nif ($a <> $b) {}\n", string(got), "check mode does not write")
}

func TestRunner_Run_Fix(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := write(t, dir, "src/Cart.php", "<?php\nif ($a <> $b) {}\n$c = 'x'.$d;\n")

	cfg := config.NewConfig()
	cfg.Fix = true
	cfg.NoBackups = true

	result, err := newRunner(rules.NewNotEqualOperatorRule(), rules.NewConcatSpacingRule()).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     cfg,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesModified)
	assert.Equal(t, 2, result.Stats.DiagnosticsFixed)
	assert.Zero(t, result.Stats.DiagnosticsTotal)
	assert.Zero(t, result.Stats.FilesNotConverged)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<?php\nif ($a != $b) {}\n$c = 'x' . $d;\n", string(got))
	assert.NoFileExists(t, path+".phpsniff.bak")
}

func TestRunner_Run_LegacyProjectsFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := "<?php\nclass CartController\n{\n    public function add()\n    {\n    }\n}\n"
	write(t, dir, "legacy/composer.json", `{"name": "acme/legacy"}`)
	write(t, dir, "legacy/src/CartController.php", src)
	write(t, dir, "modern/composer.json", `{"name": "acme/modern"}`)
	write(t, dir, "modern/src/CartController.php", src)

	cfg := config.NewConfig()
	cfg.LegacyProjects = []string{"acme/legacy"}

	result, err := newRunner(rules.NewControllerActionRule()).Run(context.Background(), runner.Options{
		WorkingDir: dir,
		Config:     cfg,
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	assert.Empty(t, result.Files[0].Result.Diagnostics, "legacy project is skipped")
	assert.Len(t, result.Files[1].Result.Diagnostics, 1)
}

func TestRunner_Run_InvalidLegacyPattern(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "a.php", "<?php\n")

	cfg := config.NewConfig()
	cfg.LegacyProjects = []string{"acme/["}

	_, err := newRunner().Run(context.Background(), runner.Options{WorkingDir: dir, Config: cfg})
	require.Error(t, err)
}

func TestRunner_Run_Cancelled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write(t, dir, "a.php", "<?php\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newRunner().Run(ctx, runner.Options{WorkingDir: dir, Config: config.NewConfig()})
	require.ErrorIs(t, err, context.Canceled)
}
