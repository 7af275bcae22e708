// Package config loads xlsdigest settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dendrascience/xlsdigest/manifest"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when an explicitly requested config file
// does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// FileName is the config file looked up in the working directory.
const FileName = "xlsdigest.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "XLSDIGEST_"

type Config struct {
	Workers   int    `yaml:"workers"`
	Algorithm string `yaml:"algorithm"`
	Pattern   string `yaml:"pattern,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
	BOM       bool   `yaml:"bom"`
	CRLF      bool   `yaml:"crlf"`
	Gzip      bool   `yaml:"gzip"`
	// StrictDirs aborts the scan when the directory cannot be listed
	// instead of producing an empty manifest.
	StrictDirs bool `yaml:"strict_dirs"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings of the reference tool: four md5 workers,
// spreadsheet files, UTF-8 BOM and CRLF line endings.
func Default() Config {
	return Config{
		Workers:   manifest.DefaultWorkers,
		Algorithm: manifest.DefaultAlgorithm,
		BOM:       true,
		CRLF:      true,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. Defaults are overlaid by the YAML file
// at path (or FileName when path is empty and the file exists), then by
// a .env file in the working directory, then by XLSDIGEST_* variables.
// The result is not validated; callers overlay their flags first and
// then call Validate.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = FileName
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && explicit:
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	case !os.IsNotExist(err):
		return Config{}, err
	}

	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	if v, ok := lookup(EnvPrefix + "WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		c.Workers = n
	}
	str("ALGORITHM", &c.Algorithm)
	str("PATTERN", &c.Pattern)
	str("OUTPUT_DIR", &c.OutputDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	for key, dst := range map[string]*bool{
		"BOM":         &c.BOM,
		"CRLF":        &c.CRLF,
		"GZIP":        &c.Gzip,
		"STRICT_DIRS": &c.StrictDirs,
	} {
		if err := boolean(key, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects settings the scanner cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if _, err := manifest.LookupAlgorithm(c.Algorithm); err != nil {
		errs = append(errs, err)
	}
	if c.Pattern != "" {
		if _, err := manifest.GlobMatcher(c.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("pattern %q: %w", c.Pattern, err))
		}
	}
	return errors.Join(errs...)
}

// Matcher returns the file matcher selected by Pattern.
func (c Config) Matcher() manifest.Matcher {
	if strings.TrimSpace(c.Pattern) == "" {
		return manifest.SpreadsheetMatcher
	}
	m, err := manifest.GlobMatcher(c.Pattern)
	if err != nil {
		return manifest.SpreadsheetMatcher
	}
	return m
}
