package filter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/model"
	"github.com/yumyai/amrloc/pkg/table"
)

func TestHitsThresholdsAreInclusive(t *testing.T) {
	hits := []model.GeneHit{
		{Sample: "S1", Gene: "armA", Identity: 90, Coverage: 80},
		{Sample: "S1", Gene: "sul2", Identity: 89.99, Coverage: 100},
		{Sample: "S2", Gene: "tet(B)", Identity: 100, Coverage: 79.9},
		{Sample: "S2", Gene: "blaOXA-23", Identity: 100, Coverage: 100},
	}

	kept := Hits(hits, 90, 80)
	require.Len(t, kept, 2)
	assert.Equal(t, "armA", kept[0].Gene)
	assert.Equal(t, "blaOXA-23", kept[1].Gene)
}

func TestPresenceMatrix(t *testing.T) {
	hits := []model.GeneHit{
		{Sample: "S2", Gene: "sul2"},
		{Sample: "S1", Gene: "armA"},
		{Sample: "S1", Gene: "armA"},
		{Sample: "S1", Gene: "sul2"},
	}

	m := PresenceMatrix(hits, "Name")
	assert.Equal(t, []string{"Name", "armA", "sul2"}, m.Columns)
	assert.Equal(t, [][]string{
		{"S1", "1", "1"},
		{"S2", "0", "1"},
	}, m.Rows)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "merged_amrfinder.csv")
	csv := "Name,Contig id,Gene symbol,Class,% Identity to reference sequence,% Coverage of reference sequence\n" +
		"S1,C1,armA,AMINOGLYCOSIDE,100.00,100.00\n" +
		"S1,C2,sul2,SULFONAMIDE,85.00,100.00\n" +
		"S2,C1,sul2,SULFONAMIDE,99.10,95.00\n"
	require.NoError(t, os.WriteFile(in, []byte(csv), 0o644))

	cfg := config.FilterConfig{
		Input:       in,
		Output:      filepath.Join(dir, "wide.csv"),
		MinIdentity: 90,
		MinCoverage: 80,
	}
	_, err := Run(cfg, model.DefaultHitColumns())
	require.NoError(t, err)

	out, err := table.ReadCSV(cfg.Output)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "armA", "sul2"}, out.Columns)
	assert.Equal(t, [][]string{{"S1", "1", "0"}, {"S2", "0", "1"}}, out.Rows)
}

func TestRunMissingColumns(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "hits.csv")
	require.NoError(t, os.WriteFile(in, []byte("Name,Gene symbol\nS1,armA\n"), 0o644))
	cfg := config.FilterConfig{Input: in, Output: filepath.Join(dir, "wide.csv")}

	_, err := Run(cfg, model.DefaultHitColumns())
	var mce *table.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.NoFileExists(t, cfg.Output)
}
