package lint_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/lint"
)

// projectTree creates root/composer.json with the given package name and
// returns a PHP file path nested two directories below it.
func projectTree(t *testing.T, name string) (string, string) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "composer.json"), []byte(`{"name": "`+name+`"}`), 0o644))

	dir := filepath.Join(root, "src", "Cart")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return root, filepath.Join(dir, "CartFacade.php")
}

func TestNewRunContext_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := lint.NewRunContext([]string{"acme/["})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme/[")
}

func TestRunContext_ProjectFor(t *testing.T) {
	t.Parallel()

	root, file := projectTree(t, "acme/shop")
	run, err := lint.NewRunContext(nil)
	require.NoError(t, err)

	project, ok := run.ProjectFor(file)
	require.True(t, ok)
	assert.Equal(t, "acme/shop", project.Name)

	wantRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	assert.Equal(t, wantRoot, project.Root)

	// A second file in the same tree is served from the memo.
	again, ok := run.ProjectFor(filepath.Join(filepath.Dir(file), "Other.php"))
	require.True(t, ok)
	assert.Equal(t, project, again)
}

func TestRunContext_ProjectFor_BrokenManifest(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "composer.json"), []byte("{"), 0o644))

	run, err := lint.NewRunContext(nil)
	require.NoError(t, err)

	project, ok := run.ProjectFor(filepath.Join(root, "a.php"))
	require.True(t, ok)
	assert.Empty(t, project.Name)
}

func TestRunContext_Nil(t *testing.T) {
	t.Parallel()

	var run *lint.RunContext
	_, ok := run.ProjectFor("/tmp/a.php")
	assert.False(t, ok)
	assert.False(t, run.IsLegacy("/tmp/a.php"))
}

func TestRunContext_IsLegacy(t *testing.T) {
	t.Parallel()

	_, legacyFile := projectTree(t, "acme/legacy-shop")
	_, modernFile := projectTree(t, "acme/new-shop")

	run, err := lint.NewRunContext([]string{"acme/legacy-*"})
	require.NoError(t, err)

	assert.True(t, run.IsLegacy(legacyFile))
	assert.False(t, run.IsLegacy(modernFile))

	noPatterns, err := lint.NewRunContext(nil)
	require.NoError(t, err)
	assert.False(t, noPatterns.IsLegacy(legacyFile))
}

func TestRunContext_ConcurrentLookups(t *testing.T) {
	t.Parallel()

	_, file := projectTree(t, "acme/legacy")
	run, err := lint.NewRunContext([]string{"acme/legacy"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run.IsLegacy(file)
		}()
	}
	wg.Wait()

	for _, legacy := range results {
		assert.True(t, legacy)
	}
}
