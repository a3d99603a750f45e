package repository

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/selam-school/result-bot/internal/models"
	appErrors "github.com/selam-school/result-bot/pkg/errors"
)

// writeWorkbook builds <dir>/<section>.xlsx with the given sheets, each sheet
// holding the supplied rows starting at sheet row 1.
func writeWorkbook(t *testing.T, dir, section string, sheets map[string][][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))
	require.NoError(t, f.SaveAs(filepath.Join(dir, section+".xlsx")))
}

func studentRow(roll, name, avg string) []interface{} {
	row := make([]interface{}, 18)
	for i := range row {
		row[i] = ""
	}
	row[1] = roll
	row[3] = name
	row[4] = "F"
	row[5] = "12"
	for i := 0; i < 8; i++ {
		row[6+i] = "80"
	}
	row[14] = "A"
	row[15] = "640"
	row[16] = avg
	row[17] = "1"
	return row
}

func headerRow(width int) []interface{} {
	row := make([]interface{}, width)
	for i := range row {
		row[i] = "h"
	}
	return row
}

func TestSheetRepositoryGrid(t *testing.T) {
	dir := t.TempDir()
	rows := make([][]interface{}, 12)
	rows[0] = headerRow(18)
	for i := 1; i < 12; i++ {
		rows[i] = make([]interface{}, 0)
	}
	rows[11] = studentRow("10", "Hana Tesfaye", "91.5")
	writeWorkbook(t, dir, "2A", map[string][][]interface{}{"S1": rows})

	repo := NewSheetRepository(dir, nil)
	grid, err := repo.Grid("2A", models.SemesterOne)
	require.NoError(t, err)

	// The data band starts at sheet row 5, so row 12 lands at index 7.
	require.Greater(t, len(grid), 7)
	row := grid[7]
	require.Len(t, row, models.SemesterOne.ExpectedCols())
	assert.Equal(t, "10", row[1])
	assert.Equal(t, "Hana Tesfaye", row[3])
	assert.Equal(t, "91.5", row[16])

	// Short rows come back padded to full width.
	require.Len(t, grid[0], models.SemesterOne.ExpectedCols())
}

func TestSheetRepositoryMissingFile(t *testing.T) {
	repo := NewSheetRepository(t.TempDir(), nil)

	_, err := repo.Grid("2A", models.SemesterOne)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSheetRepositoryMissingSheet(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "2A", map[string][][]interface{}{"S1": {headerRow(18)}})

	repo := NewSheetRepository(dir, nil)
	_, err := repo.Grid("2A", models.SemesterTwo)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSheetRepositoryNarrowSheet(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "2A", map[string][][]interface{}{"S1": {headerRow(5)}})

	repo := NewSheetRepository(dir, nil)
	_, err := repo.Grid("2A", models.SemesterOne)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrBadSheet.Code, appErrors.FromError(err).Code)
}
