package configloader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/config"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := applyEnv(cfg, fakeEnv(map[string]string{
		"PHPSNIFF_SEVERITY_DEFAULT": "error",
		"PHPSNIFF_JOBS":             "4",
		"PHPSNIFF_STRICT":           "1",
		"PHPSNIFF_FORMAT":           "json",
		"PHPSNIFF_IGNORE":           "vendor/, ,generated/ ",
		"PHPSNIFF_LEGACY_PROJECTS":  "acme/*",
		"PHPSNIFF_BACKUPS_ENABLED":  "false",
	}))
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.SeverityDefault)
	assert.Equal(t, 4, cfg.Jobs)
	assert.True(t, cfg.Strict)
	assert.Equal(t, config.FormatJSON, cfg.Format)
	assert.Equal(t, []string{"vendor/", "generated/"}, cfg.Ignore)
	assert.Equal(t, []string{"acme/*"}, cfg.LegacyProjects)
	assert.False(t, cfg.Backups.Enabled)
}

func TestApplyEnv_EmptyValuesIgnored(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	require.NoError(t, applyEnv(cfg, fakeEnv(map[string]string{"PHPSNIFF_FORMAT": ""})))
	assert.Equal(t, config.FormatText, cfg.Format)
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bool", map[string]string{"PHPSNIFF_FIX": "maybe"}},
		{"int", map[string]string{"PHPSNIFF_JOBS": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := applyEnv(config.NewConfig(), fakeEnv(tt.vars))
			require.Error(t, err)
			for name := range tt.vars {
				assert.Contains(t, err.Error(), name)
			}
		})
	}
}

func TestEnvHelp(t *testing.T) {
	t.Parallel()

	help := EnvHelp()
	for _, v := range EnvVars() {
		assert.Contains(t, help, EnvPrefix+v.Name)
	}
	assert.Len(t, strings.Split(strings.TrimSuffix(help, "\n"), "\n"), len(EnvVars()))
}
