package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/phpsniff/internal/configloader"
	"github.com/yaklabco/phpsniff/internal/logging"
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fsutil"
	"github.com/yaklabco/phpsniff/pkg/lint/rules"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
	pack   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new phpsniff configuration file",
		Long: `Write a starter .phpsniff.yml to the current directory.

Edit it to switch rules on or off, change severities, set rule options and
name legacy projects.

Examples:
  phpsniff init                      Create minimal .phpsniff.yml
  phpsniff init --full               Document every rule in the file
  phpsniff init --pack strict        Start from the strict rule pack
  phpsniff init --format json        Create .phpsniff.json instead
  phpsniff init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file without asking")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every rule in the generated file")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default .phpsniff.yml or .phpsniff.json)")
	cmd.Flags().StringVar(&flags.pack, "pack", "", "start from a rule pack: "+strings.Join(rules.PackNames(), ", "))

	return cmd
}

func runInit(ctx context.Context, in io.Reader, out io.Writer, flags *initFlags) error {
	logger := logging.NewInteractive()

	content, err := initContent(flags)
	if err != nil {
		return err
	}

	path := flags.output
	if path == "" {
		path = ".phpsniff." + map[string]string{"yaml": "yml", "json": "json"}[flags.format]
	}

	if _, err := os.Stat(path); err == nil && !flags.force {
		ok, err := confirmOverwrite(in, out, path)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("configuration file left unchanged", logging.FieldPath, path)
			return nil
		}
	}

	written, err := fsutil.WriteIfChanged(ctx, path, content, fsutil.DefaultFileMode)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, path)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	logger.Info("run 'phpsniff rules' to see all available rules")
	return nil
}

// initContent renders the file runInit writes: a rule pack's settings, or
// the commented template.
func initContent(flags *initFlags) ([]byte, error) {
	if flags.format != "yaml" && flags.format != "json" {
		return nil, usageError(fmt.Errorf("invalid format %q: must be yaml or json", flags.format))
	}

	if flags.pack == "" {
		content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
		if err != nil {
			return nil, fmt.Errorf("generate template: %w", err)
		}
		return content, nil
	}

	pack := rules.PackByName(flags.pack)
	if pack == nil {
		return nil, usageError(fmt.Errorf("unknown pack %q: must be one of %s",
			flags.pack, strings.Join(rules.PackNames(), ", ")))
	}
	return configloader.EncodeConfig(pack.Config(), flags.format)
}

// confirmOverwrite asks before replacing an existing file. Without a
// terminal on stdin there is nobody to ask, so the answer is an error.
func confirmOverwrite(in io.Reader, out io.Writer, path string) (bool, error) {
	file, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return false, usageError(fmt.Errorf("file %q already exists; use --force to overwrite", path))
	}

	if _, err := fmt.Fprintf(out, "%s already exists. Overwrite? [y/N] ", path); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read response: %w", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
