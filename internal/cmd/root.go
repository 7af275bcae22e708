package cmd

import (
	"github.com/dendrascience/xlsdigest/internal/config"
	"github.com/dendrascience/xlsdigest/version"
	"github.com/spf13/cobra"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
}

// loadConfig reads the configuration and overlays the persistent flags
// the user set explicitly.
func (g *globalOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = g.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = g.logFormat
	}
	return cfg, nil
}

// NewRootCmd creates and returns the root cobra command for the xlsdigest CLI.
// Run with a single directory it behaves like the scan subcommand.
func NewRootCmd() *cobra.Command {
	var (
		g    globalOptions
		opts scanOptions
	)

	rootCmd := &cobra.Command{
		Use:   "xlsdigest DIRECTORY",
		Short: "xlsdigest - md5 manifests of the spreadsheet files in a directory",
		Long: `xlsdigest hashes every spreadsheet file (any .xls* extension) directly
inside a directory and writes a CSV manifest of full path and digest,
sorted by path, to a timestamped file in the working directory.

Use subcommands to perform different operations:
  - scan: Hash a directory and write the manifest (the default action)
  - count: Count the spreadsheet files in a directory
  - seed: Generate sample spreadsheet files for testing
  - version: Print version and build information`,
		Version:       version.GetFullVersion(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, &g, &opts, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (default: ./"+config.FileName+" when present)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "console", "Log format (console, json)")
	opts.addFlags(rootCmd.Flags())

	groupManifest := "manifest"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupManifest,
		Title: "Manifest Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	scanCmd := NewScanCmd(&g)
	countCmd := NewCountCmd(&g)
	seedCmd := NewSeedCmd()
	versionCmd := NewVersionCmd()

	scanCmd.GroupID = groupManifest
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities
	versionCmd.GroupID = groupUtilities

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
