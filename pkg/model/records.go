package model

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yumyai/amrloc/pkg/table"
)

// ValueError reports a cell that could not be parsed.
type ValueError struct {
	Row    int // 1-based data row, header excluded
	Column string
	Value  string
	Err    error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("row %d, column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// GeneHitsFromTable decodes gene hits. Sample, gene, identity and coverage
// columns are required; contig and class are read when present.
func GeneHitsFromTable(t *table.Table, cols HitColumns) ([]GeneHit, error) {
	if err := t.Require(cols.Sample, cols.Gene, cols.Identity, cols.Coverage); err != nil {
		return nil, err
	}

	sample, gene := t.Index(cols.Sample), t.Index(cols.Gene)
	ident, cov := t.Index(cols.Identity), t.Index(cols.Coverage)
	contig, class := t.Index(cols.Contig), t.Index(cols.Class)

	hits := make([]GeneHit, 0, t.Len())
	for i, r := range t.Rows {
		h := GeneHit{Sample: r[sample], Gene: r[gene]}
		if contig >= 0 {
			h.Contig = r[contig]
		}
		if class >= 0 {
			h.Class = r[class]
		}

		var err error
		if h.Identity, err = parsePercent(r[ident]); err != nil {
			return nil, &ValueError{Row: i + 1, Column: cols.Identity, Value: r[ident], Err: err}
		}
		if h.Coverage, err = parsePercent(r[cov]); err != nil {
			return nil, &ValueError{Row: i + 1, Column: cols.Coverage, Value: r[cov], Err: err}
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// LinkedRecordsFromTable decodes the joined table. Only the gene and molecule
// columns are required.
func LinkedRecordsFromTable(t *table.Table, hit HitColumns, cls ClassificationColumns) ([]LinkedRecord, error) {
	if err := t.Require(hit.Gene, cls.Molecule); err != nil {
		return nil, err
	}

	gene, mol := t.Index(hit.Gene), t.Index(cls.Molecule)
	sample, contig := t.Index(hit.Sample), t.Index(hit.Contig)

	recs := make([]LinkedRecord, 0, t.Len())
	for _, r := range t.Rows {
		rec := LinkedRecord{Gene: r[gene]}
		if sample >= 0 {
			rec.Sample = r[sample]
		}
		if contig >= 0 {
			rec.Contig = r[contig]
		}
		rec.Molecule, rec.Located = ParseMoleculeType(r[mol])
		recs = append(recs, rec)
	}
	return recs, nil
}

func parsePercent(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
