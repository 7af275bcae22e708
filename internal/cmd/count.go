package cmd

import (
	"fmt"

	"github.com/dendrascience/xlsdigest/internal/logging"
	"github.com/dendrascience/xlsdigest/manifest"
	"github.com/spf13/cobra"
)

// NewCountCmd creates and returns the count subcommand for the xlsdigest CLI.
// It lists a directory the way scan does without hashing anything.
func NewCountCmd(g *globalOptions) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "count DIRECTORY",
		Short: "Count the spreadsheet files in a directory",
		Long: `Count the files scan would hash in DIRECTORY.

Only the directory itself is listed; subdirectories are not entered.
Useful for a quick check before a long scan over a network share.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCount(cmd, g, pattern, args[0])
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Case-insensitive glob for file names (default: any .xls* extension)")

	return cmd
}

func runCount(cmd *cobra.Command, g *globalOptions, pattern, arg string) error {
	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = pattern
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return err
	}
	defer log.Sync()

	dir, err := resolveDirectory(arg)
	if err != nil {
		return err
	}

	onDirError := manifest.SuppressAll
	if cfg.StrictDirs {
		onDirError = manifest.AbortAll
	}
	enum := manifest.NewEnumerator(newFs(), cfg.Matcher(), onDirError, log)
	count, err := enum.Count(dir)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Total files: %d\n", count)
	return nil
}
