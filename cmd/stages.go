package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/associate"
	"github.com/yumyai/amrloc/pkg/collect"
	"github.com/yumyai/amrloc/pkg/db"
	"github.com/yumyai/amrloc/pkg/filter"
	"github.com/yumyai/amrloc/pkg/link"
	"github.com/yumyai/amrloc/pkg/summary"
)

func collectCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Merge every contig_report.txt under a directory into one master CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := collect.Run(a.cfg.Collect)
			return err
		},
	}

	fs := cmd.Flags()
	fs.String("search-dir", "", "Directory searched recursively for reports")
	fs.String("pattern", "", "Report file name to look for")
	fs.StringP("output", "o", "", "Master report CSV to write")
	bindFlag(fs, "search-dir", "collect.search_dir")
	bindFlag(fs, "pattern", "collect.pattern")
	bindFlag(fs, "output", "collect.output")
	return cmd
}

func filterCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter gene hits by identity/coverage and write a presence/absence matrix",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := filter.Run(a.cfg.Filter, a.cfg.Hits)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringP("input", "i", "", "Gene hit CSV")
	fs.StringP("output", "o", "", "Presence matrix CSV to write")
	fs.Float64("min-identity", 0, "Minimum percent identity to the reference")
	fs.Float64("min-coverage", 0, "Minimum percent coverage of the reference")
	bindFlag(fs, "input", "filter.input")
	bindFlag(fs, "output", "filter.output")
	bindFlag(fs, "min-identity", "filter.min_identity")
	bindFlag(fs, "min-coverage", "filter.min_coverage")
	return cmd
}

func linkCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Join gene hits with contig classifications on sample and contig",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var exp link.Exporter
			if a.cfg.DB.Path != "" {
				store, err := db.Open(a.cfg.DB.Path, logger.RunID)
				if err != nil {
					return err
				}
				defer store.Close()
				exp = store
				logger.Info("Linked table will be stored in database", zap.String("db", a.cfg.DB.Path))
			}

			_, _, err := link.Run(cmd.Context(), a.cfg.Link, a.cfg.Hits, a.cfg.Classification, exp)
			return err
		},
	}

	fs := cmd.Flags()
	fs.String("hits", "", "Gene hit CSV")
	fs.String("classification", "", "Master classification CSV")
	fs.StringP("output", "o", "", "Linked CSV to write")
	fs.String("db", "", "Also store the linked table in this SQLite database")
	bindFlag(fs, "hits", "link.hits_file")
	bindFlag(fs, "classification", "link.classification_file")
	bindFlag(fs, "output", "link.output")
	bindFlag(fs, "db", "db.path")
	return cmd
}

func summariseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "summarise",
		Aliases: []string{"summarize"},
		Short:   "Keep the sample, contig, gene and molecule type columns of the linked table",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := summary.Run(a.cfg.Summary)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringP("input", "i", "", "Linked CSV")
	fs.StringP("output", "o", "", "Location summary CSV to write")
	fs.StringSlice("columns", nil, "The four columns to keep, in order")
	bindFlag(fs, "input", "summary.input")
	bindFlag(fs, "output", "summary.output")
	bindFlag(fs, "columns", "summary.columns")
	return cmd
}

func associateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "associate",
		Short: "Tabulate chromosome/plasmid counts for the genes of interest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src associate.Loader
			if a.cfg.Associate.FromDB {
				store, err := db.Open(a.cfg.DB.Path, logger.RunID)
				if err != nil {
					return err
				}
				defer store.Close()
				src = store
			}

			_, err := associate.Run(cmd.Context(), a.cfg.Associate, a.cfg.Hits, a.cfg.Classification, src)
			return err
		},
	}

	fs := cmd.Flags()
	fs.StringP("input", "i", "", "Linked CSV")
	fs.StringP("output", "o", "", "Association table CSV to write")
	fs.StringSlice("genes", nil, "Genes to report")
	fs.Bool("from-db", false, "Read the linked table from the SQLite database instead of the CSV")
	fs.String("db", "", "SQLite database written by the link stage")
	bindFlag(fs, "input", "associate.input")
	bindFlag(fs, "output", "associate.output")
	bindFlag(fs, "genes", "associate.genes")
	bindFlag(fs, "from-db", "associate.from_db")
	bindFlag(fs, "db", "db.path")
	return cmd
}
