package cmd

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// seedExtensions are the spreadsheet extensions seed picks from. The
// upper-case one checks that matching ignores case.
var seedExtensions = []string{".xls", ".xlsx", ".xlsm", ".xlsb", ".XLSX"}

const seedPoolSize = 50

// NewSeedCmd creates and returns the seed subcommand for the xlsdigest CLI.
// It generates a flat directory of spreadsheet-named test files.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		decoys     int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate spreadsheet-named test files",
		Long: `Generate files for testing and benchmarking xlsdigest.

Creates files with random hex names and a random .xls* extension directly
in the output directory. Each file contains a single UUID line drawn from
a pool of 50, so many files share a digest. Decoy files with other
extensions and one subdirectory can be added to check they are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, outputPath, fileCount, decoys, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 1000, "Number of spreadsheet files to generate")
	cmd.Flags().IntVar(&decoys, "decoys", 0, "Number of non-spreadsheet files to generate")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// randomName returns eight lowercase hex digits followed by ext.
func randomName(ext string) (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%08x%s", binary.BigEndian.Uint32(b[:]), ext), nil
}

func runSeed(cmd *cobra.Command, outputPath string, fileCount, decoys int, verbose bool) error {
	if fileCount < 0 || decoys < 0 {
		return argError("counts must not be negative")
	}
	out := cmd.OutOrStdout()
	if verbose {
		fmt.Fprintf(out, "Generating %d test files in %s\n", fileCount, outputPath)
	}

	if err := os.MkdirAll(outputPath, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	pool := make([]string, seedPoolSize)
	for i := range pool {
		pool[i] = uuid.NewString()
	}

	write := func(ext string) (bool, error) {
		name, err := randomName(ext)
		if err != nil {
			return false, err
		}
		path := filepath.Join(outputPath, name)
		if _, err := os.Lstat(path); err == nil {
			return false, nil
		}
		i, err := randomIndex(seedPoolSize)
		if err != nil {
			return false, err
		}
		if err := os.WriteFile(path, []byte(pool[i]+"\n"), 0644); err != nil {
			return false, fmt.Errorf("writing %s: %w", path, err)
		}
		return true, nil
	}

	created := 0
	for created < fileCount {
		i, err := randomIndex(len(seedExtensions))
		if err != nil {
			return err
		}
		ok, err := write(seedExtensions[i])
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		created++
		if verbose && created%1000 == 0 {
			fmt.Fprintf(out, "Created %d/%d files...\n", created, fileCount)
		}
	}

	if decoys > 0 {
		for made := 0; made < decoys; {
			ok, err := write(".csv")
			if err != nil {
				return err
			}
			if ok {
				made++
			}
		}
		// a directory that looks like a spreadsheet must not be hashed
		if err := os.MkdirAll(filepath.Join(outputPath, "nested.xlsx"), 0755); err != nil {
			return fmt.Errorf("creating decoy directory: %w", err)
		}
	}

	if verbose {
		fmt.Fprintf(out, "Successfully created %d files (%d decoys)\n", created, decoys)
	}
	return nil
}
