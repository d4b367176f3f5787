// Package summary reduces the linked table to the columns reported in the
// location summary.
package summary

import (
	"go.uber.org/zap"

	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/table"
)

const previewRows = 5

// Project selects columns from t in the given order. Rows are passed through
// one to one.
func Project(t *table.Table, columns []string) (*table.Table, error) {
	return t.Select(columns...)
}

func Run(cfg config.SummaryConfig) (*table.Table, error) {
	logger.Info("Loading merged dataset", zap.String("input", cfg.Input))
	t, err := table.ReadCSV(cfg.Input)
	if err != nil {
		return nil, err
	}

	out, err := Project(t, cfg.Columns)
	if err != nil {
		return nil, err
	}

	if err := out.WriteFile(cfg.Output); err != nil {
		return nil, err
	}
	logger.Info("Summary table saved", zap.String("output", cfg.Output), zap.Int("rows", out.Len()))
	logger.Debug("First rows of output", zap.String("preview", out.Head(previewRows).String()))
	return out, nil
}
