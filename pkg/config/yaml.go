package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes a config document on top of dst, so fields the
// document leaves out keep their current values. Unknown keys are errors.
// JSON documents are accepted as YAML.
func DecodeYAML(data []byte, dst *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// FromYAML parses a standalone config document.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := DecodeYAML(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Rules == nil {
		cfg.Rules = map[string]RuleConfig{}
	}
	return cfg, nil
}

// ToYAML encodes the file-backed fields of c with two-space indentation.
func (c *Config) ToYAML() ([]byte, error) {
	return c.ToYAMLWithHeader("")
}

// ToYAMLWithHeader is ToYAML preceded by header (typically a comment block)
// and a blank line.
func (c *Config) ToYAMLWithHeader(header string) ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if header != "" {
		buf.WriteString(header)
		if header[len(header)-1] != '\n' {
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of c, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	out := *c
	for _, s := range []*[]string{
		&out.Ignore, &out.Extensions, &out.LegacyProjects,
		&out.EnableRules, &out.DisableRules, &out.FixRules,
	} {
		*s = slices.Clone(*s)
	}

	if c.Rules != nil {
		out.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rc := range c.Rules {
			out.Rules[id] = rc.clone()
		}
	}
	return &out
}

func (rc RuleConfig) clone() RuleConfig {
	return RuleConfig{
		Enabled:  clonePtr(rc.Enabled),
		Severity: clonePtr(rc.Severity),
		AutoFix:  clonePtr(rc.AutoFix),
		// Options are flat, so a shallow copy is deep.
		Options: maps.Clone(rc.Options),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
