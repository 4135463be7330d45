package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/yaklabco/phpsniff/pkg/config"
)

// EnvPrefix starts every environment variable phpsniff reads.
const EnvPrefix = "PHPSNIFF_"

// EnvVar is one configuration override read from the environment.
type EnvVar struct {
	// Name without EnvPrefix.
	Name  string
	Usage string
	set   func(cfg *config.Config, value string) error
}

func stringVar(name, usage string, field func(*config.Config) *string) EnvVar {
	return EnvVar{Name: name, Usage: usage, set: func(cfg *config.Config, value string) error {
		*field(cfg) = value
		return nil
	}}
}

func boolVar(name, usage string, field func(*config.Config) *bool) EnvVar {
	return EnvVar{Name: name, Usage: usage, set: func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean %q (expected true/false/1/0)", value)
		}
		*field(cfg) = b
		return nil
	}}
}

func listVar(name, usage string, field func(*config.Config) *[]string) EnvVar {
	return EnvVar{Name: name, Usage: usage, set: func(cfg *config.Config, value string) error {
		*field(cfg) = splitList(value)
		return nil
	}}
}

// envVars is ordered the way the variables are documented.
//
//nolint:gochecknoglobals // read-only table
var envVars = []EnvVar{
	stringVar("SEVERITY_DEFAULT", "default severity: error, warning or info",
		func(c *config.Config) *string { return &c.SeverityDefault }),
	boolVar("FIX", "apply fixes", func(c *config.Config) *bool { return &c.Fix }),
	boolVar("DRY_RUN", "show fixes as a diff without writing", func(c *config.Config) *bool { return &c.DryRun }),
	{Name: "JOBS", Usage: "parallel workers, 0 for one per CPU", set: func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer %q", value)
		}
		cfg.Jobs = n
		return nil
	}},
	{Name: "FORMAT", Usage: "output format", set: func(cfg *config.Config, value string) error {
		cfg.Format = config.OutputFormat(value)
		return nil
	}},
	boolVar("STRICT", "fail on warnings", func(c *config.Config) *bool { return &c.Strict }),
	boolVar("BACKUPS_ENABLED", "write backups when fixing", func(c *config.Config) *bool { return &c.Backups.Enabled }),
	stringVar("BACKUPS_MODE", "backup mode: sidecar, dir or none", func(c *config.Config) *string { return &c.Backups.Mode }),
	boolVar("NO_BACKUPS", "never write backups", func(c *config.Config) *bool { return &c.NoBackups }),
	listVar("IGNORE", "comma-separated ignore patterns", func(c *config.Config) *[]string { return &c.Ignore }),
	listVar("EXTENSIONS", "comma-separated PHP file extensions", func(c *config.Config) *[]string { return &c.Extensions }),
	listVar("LEGACY_PROJECTS", "comma-separated legacy composer package patterns",
		func(c *config.Config) *[]string { return &c.LegacyProjects }),
}

// EnvVars lists the supported environment variables.
func EnvVars() []EnvVar {
	return envVars
}

// EnvHelp renders the environment variables as an aligned two-column list.
func EnvHelp() string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	for _, v := range envVars {
		fmt.Fprintf(w, "  %s%s\t%s\n", EnvPrefix, v.Name, v.Usage)
	}
	_ = w.Flush()
	return sb.String()
}

// LoadFromEnv overrides cfg with every PHPSNIFF_ variable that is set and
// not empty.
func LoadFromEnv(cfg *config.Config) error {
	return applyEnv(cfg, os.Getenv)
}

func applyEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}
	for _, v := range envVars {
		value := getenv(EnvPrefix + v.Name)
		if value == "" {
			continue
		}
		if err := v.set(cfg, value); err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, v.Name, err)
		}
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
