package config

import (
	"github.com/spf13/viper"

	"github.com/yumyai/amrloc/pkg/model"
)

// Genes highlighted in the plasmid association table.
var DefaultKeyGenes = []string{
	"blaOXA-23", "blaNDM-1", "armA", "ant(3'')-IIa", "mph(E)",
	"sul2", "tet(B)", "aph(3'')-Ib", "msr(E)",
}

// SetDefaults registers every key so that environment variables and Unmarshal
// can see it.
func SetDefaults(v *viper.Viper) {
	hits := model.DefaultHitColumns()
	cls := model.DefaultClassificationColumns()

	v.SetDefault("debug", false)

	v.SetDefault("hits.sample", hits.Sample)
	v.SetDefault("hits.contig", hits.Contig)
	v.SetDefault("hits.gene", hits.Gene)
	v.SetDefault("hits.class", hits.Class)
	v.SetDefault("hits.identity", hits.Identity)
	v.SetDefault("hits.coverage", hits.Coverage)

	v.SetDefault("classification.sample", cls.Sample)
	v.SetDefault("classification.contig", cls.Contig)
	v.SetDefault("classification.molecule", cls.Molecule)

	v.SetDefault("collect.search_dir", "../data/mobsuite_results")
	v.SetDefault("collect.pattern", "contig_report.txt")
	v.SetDefault("collect.output", "../results/master_mob_report.csv")

	v.SetDefault("filter.input", "../results/merged_amrfinder.csv")
	v.SetDefault("filter.output", "../results/amr_results_wide_filtered.csv")
	v.SetDefault("filter.min_identity", 90.0)
	v.SetDefault("filter.min_coverage", 80.0)

	v.SetDefault("link.hits_file", "../results/merged_amrfinder.csv")
	v.SetDefault("link.classification_file", "../results/master_mob_report.csv")
	v.SetDefault("link.output", "../results/amr_plus_mob_merged.csv")

	v.SetDefault("summary.input", "../results/amr_plus_mob_merged.csv")
	v.SetDefault("summary.output", "../results/amr_location_summary.csv")
	v.SetDefault("summary.columns", []string{hits.Sample, hits.Contig, hits.Gene, cls.Molecule})

	v.SetDefault("associate.input", "../results/amr_plus_mob_merged.csv")
	v.SetDefault("associate.output", "../results/Table_4_5_Plasmid_Association.csv")
	v.SetDefault("associate.genes", DefaultKeyGenes)
	v.SetDefault("associate.from_db", false)

	v.SetDefault("db.path", "")
}

// Default returns the built-in configuration without consulting files,
// environment or flags.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(err)
	}
	return cfg
}
