// Package configloader finds, merges and validates phpsniff configuration.
package configloader

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
)

// LoadOptions controls which sources Load reads.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Defaults to the
	// process working directory.
	WorkingDir string

	// ExplicitPath comes from --config.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// Registry resolves rule names, sniff codes and tags. Defaults to
	// lint.DefaultRegistry.
	Registry *lint.Registry

	// CLIConfig holds the values set by command-line flags.
	CLIConfig *config.Config
}

// LoadResult is the merged configuration and where it came from.
type LoadResult struct {
	Config     *config.Config
	Paths      *ConfigPaths
	LoadedFrom []string
	Warnings   []string
}

// configLayer is one file source in precedence order.
type configLayer struct {
	name string
	path string
	skip bool
}

// Load merges, lowest precedence first: defaults, the system file, the user
// file, the project file, the --config file, PHPSNIFF_ variables and flags.
// The merged result must validate; rule warnings end up in the result.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	paths.Explicit = opts.ExplicitPath

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []configLayer{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	}
	for _, layer := range layers {
		if layer.skip || layer.path == "" {
			continue
		}
		// Decoding over the merged backups keeps an explicit "enabled: false".
		fileCfg := &config.Config{Backups: cfg.Backups}
		if err := decodeConfigFile(layer.path, fileCfg); err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		normalizeRuleKeys(fileCfg, registry, result)
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	cfg = merge(cfg, opts.CLIConfig)

	validation := Validate(cfg, registry)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// decodeConfigFile decodes a YAML (or JSON) file into cfg. An empty file is
// an empty config.
func decodeConfigFile(path string, cfg *config.Config) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := config.DecodeYAML(content, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// EncodeConfig renders cfg as a config file: YAML under the default header,
// or indented JSON when format is "json".
func EncodeConfig(cfg *config.Config, format string) ([]byte, error) {
	if format != "json" {
		return cfg.ToYAMLWithHeader(config.DefaultTemplateHeader())
	}
	content, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(content, '\n'), nil
}

// normalizeRuleKeys converts rule names, aliases and tags to canonical IDs.
// A tag key applies its settings to every rule with that tag; an explicit
// per-rule entry in the same file wins over the tag.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seenIDs := make(map[string]string) // canonical ID -> original key
	var tagged []string

	for key, ruleCfg := range cfg.Rules {
		canonicalID, found := NormalizeRuleID(registry, key)
		if !found {
			if IsTag(registry, key) {
				tagged = append(tagged, key)
				continue
			}
			// Unknown rule: kept as-is so validation warns about it.
			normalized[key] = ruleCfg
			continue
		}

		if originalKey, exists := seenIDs[canonicalID]; exists {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("duplicate rule configuration: %q and %q both refer to %s; using last value",
					originalKey, key, canonicalID))
		}

		seenIDs[canonicalID] = key
		normalized[canonicalID] = ruleCfg
	}

	for _, tag := range tagged {
		for _, id := range TagRules(registry, tag) {
			if existing, ok := normalized[id]; ok {
				normalized[id] = mergeRuleConfig(cfg.Rules[tag], existing)
				continue
			}
			normalized[id] = cfg.Rules[tag]
		}
	}

	cfg.Rules = normalized
}
