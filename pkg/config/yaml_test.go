package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpsniff/pkg/config"
)

func TestConfigClone(t *testing.T) {
	t.Parallel()

	t.Run("nil config returns nil", func(t *testing.T) {
		t.Parallel()

		var c *config.Config
		assert.Nil(t, c.Clone())
	})

	t.Run("deep copies Rules map", func(t *testing.T) {
		t.Parallel()

		enabled := true
		severity := "error"
		original := &config.Config{
			Rules: map[string]config.RuleConfig{
				"PS019": {
					Enabled:  &enabled,
					Severity: &severity,
					Options:  map[string]any{"max_length": 100},
				},
			},
		}

		clone := original.Clone()
		require.Contains(t, clone.Rules, "PS019")
		assert.Equal(t, "error", *clone.Rules["PS019"].Severity)

		*clone.Rules["PS019"].Enabled = false
		clone.Rules["PS019"].Options["max_length"] = 80
		assert.True(t, *original.Rules["PS019"].Enabled)
		assert.Equal(t, 100, original.Rules["PS019"].Options["max_length"])
	})

	t.Run("deep copies slices", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{
			Ignore:         []string{"vendor/**"},
			Extensions:     []string{".php"},
			LegacyProjects: []string{"acme/*"},
			EnableRules:    []string{"PS001"},
		}

		clone := original.Clone()
		clone.Ignore[0] = "changed"
		clone.Extensions[0] = "changed"
		clone.LegacyProjects[0] = "changed"
		clone.EnableRules[0] = "changed"

		assert.Equal(t, "vendor/**", original.Ignore[0])
		assert.Equal(t, ".php", original.Extensions[0])
		assert.Equal(t, "acme/*", original.LegacyProjects[0])
		assert.Equal(t, "PS001", original.EnableRules[0])
	})

	t.Run("preserves CLI fields", func(t *testing.T) {
		t.Parallel()

		original := &config.Config{
			SeverityDefault: "warning",
			Backups:         config.BackupsConfig{Enabled: true, Mode: "sidecar"},
			Fix:             true,
			DryRun:          true,
			Strict:          true,
			Format:          config.FormatSARIF,
			RuleFormat:      config.RuleFormatCombined,
			Jobs:            4,
			DisableRules:    []string{"PS003"},
			FixRules:        []string{"PS001"},
			NoBackups:       true,
		}

		assert.Equal(t, original, original.Clone())
	})
}

func TestConfigToYAML(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	data, err := nilCfg.ToYAML()
	require.NoError(t, err)
	assert.Nil(t, data)

	cfg := &config.Config{
		SeverityDefault: "warning",
		LegacyProjects:  []string{"acme/legacy-*"},
		Fix:             true,
	}
	data, err = cfg.ToYAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "severity_default: warning")
	assert.Contains(t, string(data), "legacy_projects:")
	assert.NotContains(t, string(data), "fix")

	data, err = cfg.ToYAMLWithHeader("# header")
	require.NoError(t, err)
	assert.Contains(t, string(data), "# header\n\nseverity_default")
}

func TestFromYAML(t *testing.T) {
	t.Parallel()

	t.Run("parses valid YAML", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML([]byte(`
severity_default: error
extensions: [".php", ".inc"]
legacy_projects: ["acme/shop"]
rules:
  PS019:
    enabled: true
    options:
      max_length: 100
`))
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.SeverityDefault)
		assert.Equal(t, []string{".php", ".inc"}, cfg.Extensions)
		assert.Equal(t, []string{"acme/shop"}, cfg.LegacyProjects)
		require.Contains(t, cfg.Rules, "PS019")
		assert.True(t, *cfg.Rules["PS019"].Enabled)
		assert.Equal(t, 100, cfg.Rules["PS019"].Options["max_length"])
	})

	t.Run("empty document", func(t *testing.T) {
		t.Parallel()

		cfg, err := config.FromYAML(nil)
		require.NoError(t, err)
		assert.NotNil(t, cfg.Rules)
	})

	t.Run("unknown key", func(t *testing.T) {
		t.Parallel()

		_, err := config.FromYAML([]byte("standard: psr2\n"))
		require.Error(t, err)
	})
}

func TestDecodeYAML(t *testing.T) {
	t.Parallel()

	t.Run("keeps fields the document omits", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Backups: config.BackupsConfig{Enabled: true, Mode: "sidecar"}}
		require.NoError(t, config.DecodeYAML([]byte("backups:\n  mode: dir\n"), cfg))
		assert.True(t, cfg.Backups.Enabled)
		assert.Equal(t, "dir", cfg.Backups.Mode)
	})

	t.Run("json document", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{}
		require.NoError(t, config.DecodeYAML([]byte(`{"ignore": ["vendor/"], "rules": {"PS004": {"enabled": false}}}`), cfg))
		assert.Equal(t, []string{"vendor/"}, cfg.Ignore)
		require.NotNil(t, cfg.Rules["PS004"].Enabled)
		assert.False(t, *cfg.Rules["PS004"].Enabled)
	})

	t.Run("unknown rule field", func(t *testing.T) {
		t.Parallel()

		err := config.DecodeYAML([]byte("rules:\n  PS004:\n    level: high\n"), &config.Config{})
		require.Error(t, err)
	})
}
