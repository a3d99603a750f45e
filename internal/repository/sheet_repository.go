package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

// Student data occupies a fixed row band of every sheet (1-based, inclusive).
const (
	dataStartRow = 5
	dataEndRow   = 64
)

// SheetRepository reads per-section result workbooks (<dir>/<section>.xlsx).
type SheetRepository struct {
	dir    string
	logger *zap.Logger
}

// NewSheetRepository constructs a sheet repository over the data directory.
func NewSheetRepository(dir string, logger *zap.Logger) *SheetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetRepository{dir: dir, logger: logger}
}

// Grid returns the student rows (sheet rows 5-64) of one semester sheet,
// each padded to the sheet kind's expected width. A sheet narrower than that
// width is rejected before any row is returned.
func (r *SheetRepository) Grid(section string, sem models.Semester) ([][]string, error) {
	path := filepath.Join(r.dir, section+".xlsx")

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
				fmt.Sprintf("result file for %s not found", section))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrBadSheet.Code, appErrors.ErrBadSheet.Status,
			fmt.Sprintf("cannot open result file for %s", section))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			r.logger.Sugar().Warnw("close workbook", "section", section, "error", cerr)
		}
	}()

	rows, err := f.GetRows(string(sem))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status,
			fmt.Sprintf("sheet %s not found in %s.xlsx", sem, section))
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < sem.ExpectedCols() {
		r.logger.Sugar().Warnw("sheet narrower than expected",
			"section", section, "sheet", sem, "cols", width, "expected", sem.ExpectedCols())
		return nil, appErrors.Clone(appErrors.ErrBadSheet,
			fmt.Sprintf("sheet %s in %s.xlsx has %d columns, expected %d", sem, section, width, sem.ExpectedCols()))
	}

	if len(rows) < dataStartRow {
		return nil, nil
	}
	end := dataEndRow
	if len(rows) < end {
		end = len(rows)
	}

	grid := make([][]string, 0, end-dataStartRow+1)
	for _, row := range rows[dataStartRow-1 : end] {
		padded := make([]string, sem.ExpectedCols())
		copy(padded, row)
		grid = append(grid, padded)
	}
	return grid, nil
}
