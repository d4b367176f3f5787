// Package filter keeps gene hits that pass identity and coverage cutoffs and
// turns them into a sample by gene presence/absence matrix.
package filter

import (
	"sort"

	"go.uber.org/zap"

	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/model"
	"github.com/yumyai/amrloc/pkg/table"
)

// Hits returns the hits with identity >= minIdentity and coverage >= minCoverage.
func Hits(hits []model.GeneHit, minIdentity, minCoverage float64) []model.GeneHit {
	kept := make([]model.GeneHit, 0, len(hits))
	for _, h := range hits {
		if h.Identity >= minIdentity && h.Coverage >= minCoverage {
			kept = append(kept, h)
		}
	}
	return kept
}

// PresenceMatrix pivots hits to one row per sample and one column per gene,
// both sorted. A cell is "1" when the sample carries the gene at least once.
func PresenceMatrix(hits []model.GeneHit, sampleColumn string) *table.Table {
	present := make(map[string]map[string]bool)
	geneSet := make(map[string]bool)
	for _, h := range hits {
		if present[h.Sample] == nil {
			present[h.Sample] = make(map[string]bool)
		}
		present[h.Sample][h.Gene] = true
		geneSet[h.Gene] = true
	}

	samples := sortedKeys(present)
	genes := sortedKeys(geneSet)

	out := table.New(append([]string{sampleColumn}, genes...)...)
	for _, s := range samples {
		row := make([]string, 0, len(genes)+1)
		row = append(row, s)
		for _, g := range genes {
			if present[s][g] {
				row = append(row, "1")
			} else {
				row = append(row, "0")
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

// Run filters the gene-hit table named by cfg and writes the presence matrix.
func Run(cfg config.FilterConfig, cols model.HitColumns) (*table.Table, error) {
	logger.Info("Loading gene hits", zap.String("input", cfg.Input))
	t, err := table.ReadCSV(cfg.Input)
	if err != nil {
		return nil, err
	}

	hits, err := model.GeneHitsFromTable(t, cols)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded gene hits", zap.Int("hits", len(hits)))

	kept := Hits(hits, cfg.MinIdentity, cfg.MinCoverage)
	logger.Info("Filtered gene hits",
		zap.Float64("min_identity", cfg.MinIdentity),
		zap.Float64("min_coverage", cfg.MinCoverage),
		zap.Int("kept", len(kept)),
		zap.Int("total", len(hits)))

	matrix := PresenceMatrix(kept, cols.Sample)
	if err := matrix.WriteFile(cfg.Output); err != nil {
		return nil, err
	}
	logger.Info("Presence matrix saved",
		zap.String("output", cfg.Output),
		zap.Int("samples", matrix.Len()),
		zap.Int("genes", len(matrix.Columns)-1))
	return matrix, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
