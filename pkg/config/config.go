// Package config assembles the settings every pipeline stage receives.
// Values come from built-in defaults, an optional YAML file, AMRLOC_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/yumyai/amrloc/pkg/model"
)

const EnvPrefix = "AMRLOC"

type Config struct {
	Debug          bool                        `mapstructure:"debug"`
	Hits           model.HitColumns            `mapstructure:"hits"`
	Classification model.ClassificationColumns `mapstructure:"classification"`
	Collect        CollectConfig               `mapstructure:"collect"`
	Filter         FilterConfig                `mapstructure:"filter"`
	Link           LinkConfig                  `mapstructure:"link"`
	Summary        SummaryConfig               `mapstructure:"summary"`
	Associate      AssociateConfig             `mapstructure:"associate"`
	DB             DBConfig                    `mapstructure:"db"`
}

type CollectConfig struct {
	SearchDir string `mapstructure:"search_dir"`
	Pattern   string `mapstructure:"pattern"`
	Output    string `mapstructure:"output"`
}

type FilterConfig struct {
	Input       string  `mapstructure:"input"`
	Output      string  `mapstructure:"output"`
	MinIdentity float64 `mapstructure:"min_identity"`
	MinCoverage float64 `mapstructure:"min_coverage"`
}

type LinkConfig struct {
	HitsFile           string `mapstructure:"hits_file"`
	ClassificationFile string `mapstructure:"classification_file"`
	Output             string `mapstructure:"output"`
}

type SummaryConfig struct {
	Input   string   `mapstructure:"input"`
	Output  string   `mapstructure:"output"`
	Columns []string `mapstructure:"columns"`
}

type AssociateConfig struct {
	Input  string   `mapstructure:"input"`
	Output string   `mapstructure:"output"`
	Genes  []string `mapstructure:"genes"`
	FromDB bool     `mapstructure:"from_db"`
}

// DBConfig points at the optional SQLite copy of the linked table. An empty
// path disables it.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// Load reads configFile (or amrloc.yaml in the working directory when empty)
// on top of the defaults and environment. A missing default config file is
// not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("amrloc")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late inside a stage.
func (c *Config) Validate() error {
	var errs []error

	if c.Collect.Pattern == "" {
		errs = append(errs, errors.New("collect.pattern must not be empty"))
	}
	if c.Filter.MinIdentity < 0 || c.Filter.MinIdentity > 100 {
		errs = append(errs, fmt.Errorf("filter.min_identity %.2f is outside 0-100", c.Filter.MinIdentity))
	}
	if c.Filter.MinCoverage < 0 || c.Filter.MinCoverage > 100 {
		errs = append(errs, fmt.Errorf("filter.min_coverage %.2f is outside 0-100", c.Filter.MinCoverage))
	}
	if len(c.Summary.Columns) != 4 {
		errs = append(errs, fmt.Errorf("summary.columns needs exactly 4 columns, got %d", len(c.Summary.Columns)))
	}
	if len(c.Associate.Genes) == 0 {
		errs = append(errs, errors.New("associate.genes must list at least one gene"))
	}
	if c.Associate.FromDB && c.DB.Path == "" {
		errs = append(errs, errors.New("associate.from_db requires db.path"))
	}

	return errors.Join(errs...)
}
