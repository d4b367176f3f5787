package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "contig_report.txt", cfg.Collect.Pattern)
	assert.Equal(t, "../results/amr_plus_mob_merged.csv", cfg.Link.Output)
	assert.Equal(t, 90.0, cfg.Filter.MinIdentity)
	assert.Equal(t, 80.0, cfg.Filter.MinCoverage)
	assert.Equal(t, []string{"Name", "Contig id", "Gene symbol", "molecule_type"}, cfg.Summary.Columns)
	assert.Equal(t, DefaultKeyGenes, cfg.Associate.Genes)
	assert.Equal(t, "sample_id", cfg.Classification.Sample)
	assert.Equal(t, "Gene symbol", cfg.Hits.Gene)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "amrloc.yaml")
	yml := `
collect:
  search_dir: /data/mob
filter:
  min_identity: 95
associate:
  genes: [armA, sul2]
db:
  path: /tmp/amr.db
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "/data/mob", cfg.Collect.SearchDir)
	assert.Equal(t, "contig_report.txt", cfg.Collect.Pattern)
	assert.Equal(t, 95.0, cfg.Filter.MinIdentity)
	assert.Equal(t, []string{"armA", "sul2"}, cfg.Associate.Genes)
	assert.Equal(t, "/tmp/amr.db", cfg.DB.Path)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	t.Setenv("AMRLOC_FILTER_MIN_COVERAGE", "60")
	t.Setenv("AMRLOC_LINK_OUTPUT", "/out/linked.csv")
	t.Setenv("AMRLOC_ASSOCIATE_GENES", "armA,sul2,tet(B)")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 60.0, cfg.Filter.MinCoverage)
	assert.Equal(t, "/out/linked.csv", cfg.Link.Output)
	assert.Equal(t, []string{"armA", "sul2", "tet(B)"}, cfg.Associate.Genes)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		msg    string
	}{
		{"identity above range", func(c *Config) { c.Filter.MinIdentity = 101 }, "filter.min_identity"},
		{"negative coverage", func(c *Config) { c.Filter.MinCoverage = -1 }, "filter.min_coverage"},
		{"no genes", func(c *Config) { c.Associate.Genes = nil }, "associate.genes"},
		{"three summary columns", func(c *Config) { c.Summary.Columns = c.Summary.Columns[:3] }, "summary.columns"},
		{"empty pattern", func(c *Config) { c.Collect.Pattern = "" }, "collect.pattern"},
		{"db source without path", func(c *Config) { c.Associate.FromDB = true }, "db.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
