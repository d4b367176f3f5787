// Package collect merges the per-sample contig classification reports found
// under a results directory into one master table.
package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"github.com/yumyai/amrloc/internal/util"
	"github.com/yumyai/amrloc/logger"
	"github.com/yumyai/amrloc/pkg/config"
	"github.com/yumyai/amrloc/pkg/table"
)

var (
	ErrNoReports   = errors.New("no report files found")
	ErrNoValidData = errors.New("no valid data found to merge")
)

// Result describes one collection pass.
type Result struct {
	Files   []string
	Skipped []string
	Table   *table.Table
}

// Discover returns every regular file under root whose base name matches the
// glob pattern, sorted.
func Discover(root, pattern string) ([]string, error) {
	if !util.DirExists(root) {
		return nil, fmt.Errorf("%w: search directory %s", os.ErrNotExist, root)
	}

	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("report pattern %q: %w", pattern, err)
	}

	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}

// Collect reads and concatenates every report under cfg.SearchDir. Reports
// without a header line or that fail to parse are skipped with a warning.
func Collect(cfg config.CollectConfig) (*Result, error) {
	logger.Info("Searching for contig reports", zap.String("dir", cfg.SearchDir), zap.String("pattern", cfg.Pattern))

	files, err := Discover(cfg.SearchDir, cfg.Pattern)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no %q under %s", ErrNoReports, cfg.Pattern, cfg.SearchDir)
	}
	logger.Info("Found report files", zap.Int("files", len(files)))

	res := &Result{Files: files}
	tables := make([]*table.Table, 0, len(files))
	for _, f := range files {
		t, err := table.ReadFile(f, table.Tab)
		if errors.Is(err, table.ErrEmptyInput) {
			logger.Warn("Skipped empty file", zap.String("file", f))
			res.Skipped = append(res.Skipped, f)
			continue
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err != nil {
			logger.Warn("Skipped unparseable file", zap.String("file", f), zap.Error(err))
			res.Skipped = append(res.Skipped, f)
			continue
		}
		logger.Debug("Loaded report", zap.String("file", f), zap.Int("rows", t.Len()))
		tables = append(tables, t)
	}

	if len(tables) == 0 {
		return nil, ErrNoValidData
	}

	res.Table = table.Concat(tables...)
	return res, nil
}

// Run collects the reports and writes the master table to cfg.Output.
func Run(cfg config.CollectConfig) (*Result, error) {
	res, err := Collect(cfg)
	if err != nil {
		return nil, err
	}

	if err := res.Table.WriteFile(cfg.Output); err != nil {
		return nil, err
	}

	logger.Info("Master report saved",
		zap.String("output", cfg.Output),
		zap.Int("rows", res.Table.Len()),
		zap.Int("skipped", len(res.Skipped)))
	return res, nil
}
