// Package associate counts how often each resistance gene is found on a
// chromosome or a plasmid and renders the counts as "n (pct%)" cells.
package associate

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/model"
	"github.com/yumyai/amrloc/pkg/table"
)

const (
	ColGene       = "Gene Symbol"
	ColTotal      = "Total Detected"
	ColChromosome = "Chromosome (n (%))"
	ColPlasmid    = "Plasmid (n (%))"
	ColOther      = "Other (n (%))"
)

// Row is one gene of the association table. Total includes Other, so
// Chromosome+Plasmid == Total whenever no other molecule type was seen.
type Row struct {
	Gene       string
	Chromosome int
	Plasmid    int
	Other      int
}

func (r Row) Total() int {
	return r.Chromosome + r.Plasmid + r.Other
}

// Counts is a gene by molecule type contingency table. Genes are kept sorted.
type Counts struct {
	Genes  []string
	byGene map[string]*Row
	// OtherLabels lists the distinct molecule types folded into Other.
	OtherLabels []string
}

func (c *Counts) Get(gene string) (Row, bool) {
	r, ok := c.byGene[gene]
	if !ok {
		return Row{}, false
	}
	return *r, true
}

// Crosstab counts linked records by gene and molecule type. Records with an
// empty gene or molecule type are not counted.
func Crosstab(recs []model.LinkedRecord) *Counts {
	c := &Counts{byGene: make(map[string]*Row)}
	others := make(map[string]bool)

	for _, rec := range recs {
		if rec.Gene == "" || !rec.Located {
			continue
		}
		r, ok := c.byGene[rec.Gene]
		if !ok {
			r = &Row{Gene: rec.Gene}
			c.byGene[rec.Gene] = r
			c.Genes = append(c.Genes, rec.Gene)
		}
		switch rec.Molecule.Kind {
		case model.Chromosome:
			r.Chromosome++
		case model.Plasmid:
			r.Plasmid++
		default:
			r.Other++
			if !others[rec.Molecule.Label] {
				others[rec.Molecule.Label] = true
				c.OtherLabels = append(c.OtherLabels, rec.Molecule.Label)
			}
		}
	}

	sort.Strings(c.Genes)
	sort.Strings(c.OtherLabels)
	return c
}

// Tabulate keeps the genes of c that are in genes and orders them by
// descending total. Ties keep gene order.
func Tabulate(c *Counts, genes []string) []Row {
	wanted := make(map[string]bool, len(genes))
	for _, g := range genes {
		wanted[g] = true
	}

	rows := make([]Row, 0, len(genes))
	for _, g := range c.Genes {
		if wanted[g] {
			rows = append(rows, *c.byGene[g])
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total() > rows[j].Total()
	})
	return rows
}

// FormatCell renders count as "count (pct%)" with pct relative to total.
func FormatCell(count, total int) string {
	if total == 0 {
		return "0 (0.0%)"
	}
	pct := float64(count) / float64(total) * 100
	return fmt.Sprintf("%d (%.1f%%)", count, pct)
}

// ToTable renders rows. The Other column is only added when a row has other hits.
func ToTable(rows []Row) *table.Table {
	withOther := false
	for _, r := range rows {
		if r.Other > 0 {
			withOther = true
			break
		}
	}

	cols := []string{ColGene, ColTotal, ColChromosome, ColPlasmid}
	if withOther {
		cols = append(cols, ColOther)
	}

	t := table.New(cols...)
	for _, r := range rows {
		total := r.Total()
		rec := []string{
			r.Gene,
			strconv.Itoa(total),
			FormatCell(r.Chromosome, total),
			FormatCell(r.Plasmid, total),
		}
		if withOther {
			rec = append(rec, FormatCell(r.Other, total))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// Loader supplies the linked table from somewhere other than the CSV input.
type Loader interface {
	LoadLinked(ctx context.Context) (*table.Table, error)
}

// Run builds the association table from cfg.Input, or from src when it is not nil.
func Run(ctx context.Context, cfg config.AssociateConfig, hc model.HitColumns, cc model.ClassificationColumns, src Loader) (*table.Table, error) {
	var (
		linked *table.Table
		err    error
	)
	if src != nil {
		logger.Info("Loading linked table from database")
		linked, err = src.LoadLinked(ctx)
	} else {
		logger.Info("Loading linked table", zap.String("input", cfg.Input))
		linked, err = table.ReadCSV(cfg.Input)
	}
	if err != nil {
		return nil, err
	}

	recs, err := model.LinkedRecordsFromTable(linked, hc, cc)
	if err != nil {
		return nil, err
	}

	counts := Crosstab(recs)
	if len(counts.OtherLabels) > 0 {
		logger.Warn("Molecule types other than chromosome and plasmid are counted as Other",
			zap.Strings("labels", counts.OtherLabels))
	}

	rows := Tabulate(counts, cfg.Genes)
	logger.Info("Analyzed genomic locations",
		zap.Int("genes_observed", len(counts.Genes)),
		zap.Int("genes_reported", len(rows)))

	out := ToTable(rows)
	if err := out.WriteFile(cfg.Output); err != nil {
		return nil, err
	}
	logger.Info("Association table saved", zap.String("output", cfg.Output))
	logger.Debug("Preview", zap.String("table", out.String()))
	return out, nil
}
