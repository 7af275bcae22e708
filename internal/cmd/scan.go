package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dendrascience/xlsdigest/internal/config"
	"github.com/dendrascience/xlsdigest/internal/logging"
	"github.com/dendrascience/xlsdigest/internal/metrics"
	"github.com/dendrascience/xlsdigest/manifest"
	"github.com/dendrascience/xlsdigest/version"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// newFs returns the filesystem the commands read spreadsheets from.
var newFs = afero.NewOsFs

type scanOptions struct {
	output      string
	algorithm   string
	pattern     string
	workers     int
	bom         bool
	crlf        bool
	gzip        bool
	strictDirs  bool
	print       bool
	summaryPath string
	metricsPath string
}

func (o *scanOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.output, "output", "o", "", "Manifest file to write (default: <output_dir>/yyyyMMddHHmmss.csv)")
	fs.StringVarP(&o.algorithm, "algorithm", "a", manifest.DefaultAlgorithm, fmt.Sprintf("Digest algorithm %v", manifest.Algorithms()))
	fs.StringVar(&o.pattern, "pattern", "", "Case-insensitive glob for file names (default: any .xls* extension)")
	fs.IntVarP(&o.workers, "workers", "w", manifest.DefaultWorkers, "Number of files hashed concurrently")
	fs.BoolVar(&o.bom, "bom", true, "Prefix the manifest with a UTF-8 byte order mark")
	fs.BoolVar(&o.crlf, "crlf", true, "Terminate manifest lines with CRLF")
	fs.BoolVar(&o.gzip, "gzip", false, "Gzip the manifest (an output name ending in .gz or .zst also selects compression)")
	fs.BoolVar(&o.strictDirs, "strict-dirs", false, "Fail when the directory cannot be listed instead of skipping it")
	fs.BoolVarP(&o.print, "print", "p", false, "Also print the manifest to stdout")
	fs.StringVar(&o.summaryPath, "summary", "", "Write a JSON run summary to this file")
	fs.StringVar(&o.metricsPath, "metrics", "", "Write Prometheus metrics in textfile format to this file")
}

// apply overlays the flags the user set explicitly onto cfg.
func (o *scanOptions) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("algorithm") {
		cfg.Algorithm = o.algorithm
	}
	if fs.Changed("pattern") {
		cfg.Pattern = o.pattern
	}
	if fs.Changed("workers") {
		cfg.Workers = o.workers
	}
	if fs.Changed("bom") {
		cfg.BOM = o.bom
	}
	if fs.Changed("crlf") {
		cfg.CRLF = o.crlf
	}
	if fs.Changed("gzip") {
		cfg.Gzip = o.gzip
	}
	if fs.Changed("strict-dirs") {
		cfg.StrictDirs = o.strictDirs
	}
}

// NewScanCmd creates and returns the scan subcommand.
// It hashes the spreadsheets of one directory and writes the manifest.
func NewScanCmd(g *globalOptions) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan DIRECTORY",
		Short: "Write an md5 manifest of the spreadsheets in a directory",
		Long: `Hash every spreadsheet file (any .xls* extension) directly inside
DIRECTORY and write a CSV manifest sorted by full path:

  "fullname","md5"
  "/data/a.xlsx","5D41402ABC4B2A76B9719D911017C592"

Subdirectories are not scanned. Files are hashed by a fixed pool of
workers; if any file cannot be read the run fails and no manifest is
written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, g, &opts, args[0])
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func runScan(cmd *cobra.Command, g *globalOptions, opts *scanOptions, arg string) error {
	started := time.Now()

	cfg, err := g.loadConfig(cmd)
	if err != nil {
		return err
	}
	opts.apply(cmd.Flags(), &cfg)
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

	alg, err := manifest.LookupAlgorithm(cfg.Algorithm)
	if err != nil {
		return err
	}
	onDirError := manifest.SuppressAll
	if cfg.StrictDirs {
		onDirError = manifest.AbortAll
	}
	recorder := metrics.New()
	scanner := manifest.NewScanner(manifest.Options{
		Fs:         newFs(),
		Workers:    cfg.Workers,
		Algorithm:  alg,
		Matcher:    cfg.Matcher(),
		OnDirError: onDirError,
		Logger:     log,
		Observer:   recorder,
	})

	summary := manifest.NewSummary(dir, version.GetVersion(), started)
	summary.Algorithm = alg.Name
	summary.Workers = cfg.Workers
	log = log.With(zap.String("run_id", summary.RunID))

	ok, err := scanner.Exists(dir)
	if err != nil {
		return err
	}
	if !ok {
		return noFilesError(dir)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rs, err := scanner.ScanAndHash(ctx, dir)
	if err != nil {
		return err
	}
	if rs.Empty() {
		return noFilesError(dir)
	}
	summary.Finish(rs, time.Now())

	output, err := outputPath(opts.output, cfg, started)
	if err != nil {
		return err
	}
	err = manifest.WriteFile(output, rs, manifest.FileOptions{
		CSVOptions: manifest.CSVOptions{Column: alg.Name, CRLF: cfg.CRLF},
		BOM:        cfg.BOM,
		Gzip:       cfg.Gzip,
	})
	if err != nil {
		return fmt.Errorf("writing manifest %s: %w", output, err)
	}
	summary.Output = output

	if opts.print {
		out := cmd.OutOrStdout()
		if err := printManifest(out, rs, isTerminal(out)); err != nil {
			return err
		}
	}
	if opts.summaryPath != "" {
		if err := summary.Save(opts.summaryPath); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	if opts.metricsPath != "" {
		if err := recorder.WriteTextfile(opts.metricsPath); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	log.Info("manifest written",
		zap.String("dir", dir),
		zap.String("output", output),
		zap.Int("files", summary.FileCount),
		zap.String("algorithm", alg.Name),
		zap.Duration("elapsed", summary.Duration()),
	)
	return nil
}

func noFilesError(dir string) error {
	return fmt.Errorf("%w: no spreadsheet files (.xls*) found in %s", manifest.ErrNoFiles, dir)
}

// outputPath picks the manifest path: the explicit flag, else a
// timestamped name in the configured output directory or the working
// directory. With Gzip set the name always ends in a compression suffix.
func outputPath(flag string, cfg config.Config, started time.Time) (string, error) {
	if flag != "" {
		path, err := filepath.Abs(flag)
		if err != nil {
			return "", err
		}
		lower := strings.ToLower(path)
		if cfg.Gzip && !strings.HasSuffix(lower, ".gz") && !strings.HasSuffix(lower, ".zst") {
			path += ".gz"
		}
		return path, nil
	}
	dir := cfg.OutputDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = wd
	}
	name := manifest.DefaultOutputName(started)
	if cfg.Gzip {
		name += ".gz"
	}
	return filepath.Join(dir, name), nil
}
