package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/phpsniff/internal/configloader"
	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/analysis"
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/lint"
	_ "github.com/yaklabco/phpsniff/pkg/lint/rules" // Register built-in rules
	"github.com/yaklabco/phpsniff/pkg/parser/php"
	"github.com/yaklabco/phpsniff/pkg/reporter"
	"github.com/yaklabco/phpsniff/pkg/runner"
)

type lintFlags struct {
	format     string
	ignore     []string
	enable     []string
	disable    []string
	fixRules   []string
	strict     bool
	noContext  bool
	compact    bool
	ruleFormat string
	sortBy     string
}

func newLintCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint PHP files",
		Long:  lintLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags, info)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

func newFixCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Lint PHP files and apply automatic fixes",
		Long: `Lint PHP files and rewrite them with every available fix applied.
Equivalent to "phpsniff lint --fix".

Examples:
  phpsniff fix src/              # Fix everything under src/
  phpsniff fix --dry-run         # Show the fixes as a diff
  phpsniff fix --fix-rules PS003 # Apply only PS003 fixes`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Fix = true
			return runLint(cmd, args, &cfg, flags, info)
		},
	}

	addLintFlags(cmd, &cfg, flags)
	_ = cmd.Flags().MarkHidden("fix")

	return cmd
}

const lintLongDescription = `Lint PHP files for coding-standard issues.

By default, lints all .php, .phtml and .inc files in the current directory
and subdirectories, honouring .gitignore. Extension-less scripts with a PHP
shebang are picked up too. Specify paths to lint specific files or directories.

Examples:
  phpsniff lint                    # Lint current directory
  phpsniff lint src/               # Lint src directory
  phpsniff lint src/Cart.php       # Lint single file
  phpsniff lint --fix              # Lint and auto-fix issues
  phpsniff lint --fix --dry-run    # Show fixes as a diff without applying
  phpsniff lint --format sarif     # Output SARIF for code scanning
  phpsniff lint --strict           # Treat warnings as errors`

// lintSession is a configured lint run that can be executed repeatedly.
type lintSession struct {
	logger   *log.Logger
	cfg      *config.Config
	runner   *runner.Runner
	runOpts  runner.Options
	reporter reporter.Reporter
	strict   bool
}

// newLintSession loads configuration and builds the runner and reporter
// for a lint, fix or watch command.
func newLintSession(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
	cliCfg *config.Config,
	flags *lintFlags,
	info BuildInfo,
) (*lintSession, error) {
	logger := logging.FromContext(ctx)

	// Only values set on the command line override configuration files.
	formatChanged := cmd.Flags().Changed("format")
	if formatChanged {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return nil, usageError(err)
		}
		cliCfg.Format = format
	}
	if cmd.Flags().Changed("rule-format") {
		ruleFormat, err := parseRuleFormat(flags.ruleFormat)
		if err != nil {
			return nil, err
		}
		cliCfg.RuleFormat = ruleFormat
	}
	cliCfg.Strict = cliCfg.Strict || flags.strict
	cliCfg.EnableRules = flags.enable
	cliCfg.DisableRules = flags.disable
	cliCfg.FixRules = flags.fixRules

	sortBy := analysis.SortField(flags.sortBy)
	if !sortBy.IsValid() {
		return nil, usageError(fmt.Errorf("invalid sort %q: must be count, alpha or severity", flags.sortBy))
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, withCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	finalCfg := loadResult.Config
	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}

	// --ignore adds to the configured patterns instead of replacing them.
	finalCfg.Ignore = append(finalCfg.Ignore, flags.ignore...)

	// A dry run computes fixes without writing them.
	if finalCfg.DryRun {
		finalCfg.Fix = true
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return nil, withCode(ExitConfigError, err)
	}
	// Dry runs show their fixes unless a format was asked for.
	if finalCfg.DryRun && !formatChanged && format == reporter.FormatText {
		format = reporter.FormatDiff
	}

	logger.Debug("configuration loaded",
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
	)

	registry := lint.DefaultRegistry
	engine := lint.NewEngine(php.New(), registry)
	pipeline := lint.NewPipeline(engine)

	runOpts := runner.OptionsFromConfig(finalCfg, args)
	runOpts.WorkingDir = workDir

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	rep, err := reporter.New(reporter.Options{
		Writer:           cmd.OutOrStdout(),
		Format:           format,
		Color:            colorMode,
		ShowContext:      !flags.noContext,
		ShowSummary:      true,
		GroupByFile:      true,
		Compact:          flags.compact,
		RuleFormat:       finalCfg.RuleFormat,
		SortBy:           sortBy,
		WorkingDir:       workDir,
		ToolVersion:      info.Version,
		RuleDescriptions: ruleDescriptions(registry),
	})
	if err != nil {
		return nil, usageError(fmt.Errorf("create reporter: %w", err))
	}

	return &lintSession{
		logger:   logger,
		cfg:      finalCfg,
		runner:   runner.New(pipeline),
		runOpts:  runOpts,
		reporter: rep,
		strict:   finalCfg.Strict,
	}, nil
}

// run lints once, reports the result and returns the exit code it implies.
func (s *lintSession) run(ctx context.Context) (int, error) {
	s.logger.Debug("starting lint run",
		logging.FieldPaths, s.runOpts.Paths,
		logging.FieldWorkingDir, s.runOpts.WorkingDir,
		logging.FieldJobs, s.runOpts.Jobs,
	)

	result, err := s.runner.Run(ctx, s.runOpts)
	if err != nil {
		return ExitInternalError, fmt.Errorf("lint run failed: %w", err)
	}

	if _, err := s.reporter.Report(ctx, result); err != nil {
		return ExitIOError, withCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	return ExitCodeFromResult(result, s.strict), nil
}

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags, info BuildInfo) error {
	ctx := commandContext(cmd)

	session, err := newLintSession(ctx, cmd, args, cfg, flags, info)
	if err != nil {
		return err
	}

	code, err := session.run(ctx)
	if err != nil {
		return err
	}
	if code != ExitSuccess {
		return withCode(code, ErrLintIssuesFound)
	}
	return nil
}

// commandContext returns the command context carrying the default logger.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// ruleDescriptions maps rule IDs to their descriptions.
func ruleDescriptions(registry *lint.Registry) map[string]string {
	rules := registry.Rules()
	descriptions := make(map[string]string, len(rules))
	for _, rule := range rules {
		descriptions[rule.ID()] = rule.Description()
	}
	return descriptions
}

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVar(&cfg.Fix, "fix", false, "automatically fix issues")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "show fixes as a diff without applying them")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, sarif, diff, summary")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "gitignore-style patterns to skip")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit auto-fix to specific rule IDs")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "treat warnings as errors for exit code")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON and SARIF output")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "id",
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.sortBy, "sort", "count",
		"order of summary tables: count, alpha, severity")
}

// parseRuleFormat validates a --rule-format value.
func parseRuleFormat(value string) (config.RuleFormat, error) {
	format, ok := config.ParseRuleFormat(value)
	if !ok {
		return "", usageError(fmt.Errorf("invalid rule format %q: must be name, id or combined", value))
	}
	return format, nil
}
