// Package link attaches a genomic location to every resistance gene hit by
// inner-joining the gene-hit table with the master contig classification.
package link

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/model"
	"github.com/yumyai/amrloc/pkg/table"
)

const (
	leftSuffix  = "_x"
	rightSuffix = "_y"
)

type Stats struct {
	HitRows            int
	ClassificationRows int
	LinkedRows         int
	// UnmatchedHits counts gene hits without any classification row.
	UnmatchedHits int
	// DuplicateKeys counts (sample, contig) pairs that occur more than once
	// in the classification table.
	DuplicateKeys int
}

// Exporter receives the joined table after it has been written to disk.
type Exporter interface {
	SaveLinked(ctx context.Context, linked *table.Table) error
}

// Join performs an inner join of hits and cls on (sample, contig). Output rows
// follow hit order, all columns of both sides are kept, and non-key names
// present on both sides get _x and _y suffixes. Rows with an empty sample or
// contig never match, like NULL keys in SQL, so a dataframe merge that pairs
// missing keys with each other returns more rows than Join.
func Join(hits, cls *table.Table, hc model.HitColumns, cc model.ClassificationColumns) (*table.Table, *Stats, error) {
	if err := hits.Require(hc.Sample, hc.Contig); err != nil {
		return nil, nil, fmt.Errorf("gene hit table: %w", err)
	}
	if err := cls.Require(cc.Sample, cc.Contig); err != nil {
		return nil, nil, fmt.Errorf("classification table: %w", err)
	}

	stats := &Stats{HitRows: hits.Len(), ClassificationRows: cls.Len()}

	cSample, cContig := cls.Index(cc.Sample), cls.Index(cc.Contig)
	index := make(map[model.Key][]int, cls.Len())
	for i, r := range cls.Rows {
		k := model.Key{Sample: r[cSample], Contig: r[cContig]}
		if k.Sample == "" || k.Contig == "" {
			continue
		}
		index[k] = append(index[k], i)
		if len(index[k]) == 2 {
			stats.DuplicateKeys++
		}
	}

	out := table.New(joinedColumns(hits.Columns, cls.Columns)...)
	hSample, hContig := hits.Index(hc.Sample), hits.Index(hc.Contig)
	for _, l := range hits.Rows {
		k := model.Key{Sample: l[hSample], Contig: l[hContig]}
		matches := index[k]
		if k.Sample == "" || k.Contig == "" || len(matches) == 0 {
			stats.UnmatchedHits++
			continue
		}
		for _, j := range matches {
			row := make([]string, 0, len(out.Columns))
			row = append(row, l...)
			row = append(row, cls.Rows[j]...)
			out.Rows = append(out.Rows, row)
		}
	}

	stats.LinkedRows = out.Len()
	return out, stats, nil
}

func joinedColumns(left, right []string) []string {
	inLeft := make(map[string]bool, len(left))
	for _, c := range left {
		inLeft[c] = true
	}
	inRight := make(map[string]bool, len(right))
	for _, c := range right {
		inRight[c] = true
	}

	cols := make([]string, 0, len(left)+len(right))
	for _, c := range left {
		if inRight[c] {
			c += leftSuffix
		}
		cols = append(cols, c)
	}
	for _, c := range right {
		if inLeft[c] {
			c += rightSuffix
		}
		cols = append(cols, c)
	}
	return cols
}

// Run loads both inputs, joins them and writes the linked table. When exp is
// not nil the linked table is also handed to it.
func Run(ctx context.Context, cfg config.LinkConfig, hc model.HitColumns, cc model.ClassificationColumns, exp Exporter) (*table.Table, *Stats, error) {
	logger.Info("Loading input datasets",
		zap.String("hits", cfg.HitsFile),
		zap.String("classification", cfg.ClassificationFile))

	hits, err := table.ReadCSV(cfg.HitsFile)
	if err != nil {
		return nil, nil, err
	}
	cls, err := table.ReadCSV(cfg.ClassificationFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Data loaded", zap.Int("hit_rows", hits.Len()), zap.Int("classification_rows", cls.Len()))

	linked, stats, err := Join(hits, cls, hc, cc)
	if err != nil {
		return nil, nil, err
	}
	if stats.DuplicateKeys > 0 {
		logger.Warn("Classification table has repeated (sample, contig) keys; matching hits are multiplied",
			zap.Int("duplicate_keys", stats.DuplicateKeys))
	}
	logger.Info("Linked resistance genes to genomic locations",
		zap.Int("linked", stats.LinkedRows),
		zap.Int("unmatched_hits", stats.UnmatchedHits))

	if err := linked.WriteFile(cfg.Output); err != nil {
		return nil, nil, err
	}
	logger.Info("Merged output saved", zap.String("output", cfg.Output))

	if exp != nil {
		if err := exp.SaveLinked(ctx, linked); err != nil {
			return nil, nil, fmt.Errorf("export linked table: %w", err)
		}
	}
	return linked, stats, nil
}
