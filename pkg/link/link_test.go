package link

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/model"
	"github.com/yumyai/amrloc/pkg/table"
)

func mustTable(t *testing.T, cols []string, rows ...[]string) *table.Table {
	t.Helper()
	tbl := table.New(cols...)
	for _, r := range rows {
		require.NoError(t, tbl.Append(r))
	}
	return tbl
}

var (
	hitCols = []string{"Name", "Contig id", "Gene symbol", "Class"}
	clsCols = []string{"sample_id", "contig_id", "molecule_type"}
)

func TestJoinExample(t *testing.T) {
	hits := mustTable(t, hitCols,
		[]string{"S1", "C1", "geneA", "X"},
		[]string{"S1", "C2", "geneB", "Y"},
	)
	cls := mustTable(t, clsCols,
		[]string{"S1", "C1", "chromosome"},
		[]string{"S1", "C2", "plasmid"},
	)

	out, stats, err := Join(hits, cls, model.DefaultHitColumns(), model.DefaultClassificationColumns())
	require.NoError(t, err)

	assert.Equal(t, append(append([]string{}, hitCols...), clsCols...), out.Columns)
	assert.Equal(t, [][]string{
		{"S1", "C1", "geneA", "X", "S1", "C1", "chromosome"},
		{"S1", "C2", "geneB", "Y", "S1", "C2", "plasmid"},
	}, out.Rows)
	assert.Equal(t, &Stats{HitRows: 2, ClassificationRows: 2, LinkedRows: 2}, stats)
}

func TestJoinDropsUnmatchedHits(t *testing.T) {
	hits := mustTable(t, hitCols,
		[]string{"S1", "C1", "geneA", "X"},
		[]string{"S1", "C9", "geneB", "Y"},
		[]string{"S2", "C1", "geneC", "Z"},
		[]string{"", "", "geneD", "Z"},
	)
	cls := mustTable(t, clsCols,
		[]string{"S1", "C1", "chromosome"},
		[]string{"", "", "plasmid"},
	)

	out, stats, err := Join(hits, cls, model.DefaultHitColumns(), model.DefaultClassificationColumns())
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
	assert.Equal(t, 3, stats.UnmatchedHits)
	assert.LessOrEqual(t, out.Len(), hits.Len())
}

func TestJoinMultipliesDuplicateKeys(t *testing.T) {
	hits := mustTable(t, hitCols,
		[]string{"S1", "C1", "geneA", "X"},
		[]string{"S1", "C1", "geneB", "X"},
	)
	cls := mustTable(t, clsCols,
		[]string{"S1", "C1", "chromosome"},
		[]string{"S1", "C1", "plasmid"},
	)

	out, stats, err := Join(hits, cls, model.DefaultHitColumns(), model.DefaultClassificationColumns())
	require.NoError(t, err)
	assert.Equal(t, 4, out.Len())
	assert.Equal(t, 1, stats.DuplicateKeys)
	assert.Equal(t, "chromosome", out.Get(0, "molecule_type"))
	assert.Equal(t, "plasmid", out.Get(1, "molecule_type"))
	assert.Equal(t, "geneB", out.Get(2, "Gene symbol"))
}

func TestJoinSuffixesSharedColumns(t *testing.T) {
	hits := mustTable(t, []string{"Name", "Contig id", "size"}, []string{"S1", "C1", "900"})
	cls := mustTable(t, []string{"sample_id", "contig_id", "size", "molecule_type"},
		[]string{"S1", "C1", "3000000", "chromosome"})

	out, _, err := Join(hits, cls, model.DefaultHitColumns(), model.DefaultClassificationColumns())
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Contig id", "size_x", "sample_id", "contig_id", "size_y", "molecule_type"}, out.Columns)
}

func TestJoinMissingKeyColumn(t *testing.T) {
	hits := mustTable(t, []string{"Name", "Gene symbol"})
	cls := mustTable(t, clsCols)

	_, _, err := Join(hits, cls, model.DefaultHitColumns(), model.DefaultClassificationColumns())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Contig id")
}

type fakeExporter struct {
	got *table.Table
}

func (f *fakeExporter) SaveLinked(_ context.Context, linked *table.Table) error {
	f.got = linked
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LinkConfig{
		HitsFile:           filepath.Join(dir, "merged_amrfinder.csv"),
		ClassificationFile: filepath.Join(dir, "master_mob_report.csv"),
		Output:             filepath.Join(dir, "amr_plus_mob_merged.csv"),
	}
	writeFile(t, cfg.HitsFile, "Name,Contig id,Gene symbol\nS1,C1,armA\nS1,C2,sul2\n")
	writeFile(t, cfg.ClassificationFile, "sample_id,contig_id,molecule_type\nS1,C1,chromosome\nS1,C2,plasmid\n")

	exp := &fakeExporter{}
	linked, stats, err := Run(context.Background(), cfg, model.DefaultHitColumns(), model.DefaultClassificationColumns(), exp)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.LinkedRows)
	assert.Same(t, linked, exp.got)

	back, err := table.ReadCSV(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, linked, back)
}

func TestRunMissingInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfg := config.LinkConfig{
		HitsFile:           filepath.Join(dir, "merged_amrfinder.csv"),
		ClassificationFile: filepath.Join(dir, "master_mob_report.csv"),
		Output:             filepath.Join(dir, "amr_plus_mob_merged.csv"),
	}
	writeFile(t, cfg.HitsFile, "Name,Contig id,Gene symbol\nS1,C1,armA\n")

	_, _, err := Run(context.Background(), cfg, model.DefaultHitColumns(), model.DefaultClassificationColumns(), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "master_mob_report.csv")
	assert.NoFileExists(t, cfg.Output)
}
