package reporter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/neehar-mavuduru/perfreport/collector"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV(t *testing.T) {
	records := []collector.RunRecord{
		testRecord("INJ_WEB", "r1", 500, 523.4),
		bareRecord("INJ_WAF_WEB", "r2"),
	}

	t.Run("ColumnsAndValues", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), CSVFile)
		require.NoError(t, ExportCSV(records, path))

		rows := readCSV(t, path)
		require.Len(t, rows, 3)
		assert.Equal(t, Columns, rows[0])
		assert.Equal(t, []string{
			"INJ_WEB", "desc of INJ_WEB", "r1", "500", "/data/INJ_WEB/r1",
			"11.75", "88.25", "1990",
			"33.33", "66.667", "",
			"523.4", "0.06554", "", "0.84063", "",
			"connect 0, read 12, write 0, timeout 341", "", "/data/INJ_WEB/r1/wrk.txt",
		}, rows[1])

		assert.Equal(t, "INJ_WAF_WEB", rows[2][0])
		for i, v := range rows[2][3:] {
			if Columns[i+3] == "path" {
				continue
			}
			assert.Empty(t, v, Columns[i+3])
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		dir := t.TempDir()
		first := filepath.Join(dir, "a.csv")
		second := filepath.Join(dir, "b.csv")
		require.NoError(t, ExportCSV(records, first))
		require.NoError(t, ExportCSV(records, second))

		a, err := os.ReadFile(first)
		require.NoError(t, err)
		b, err := os.ReadFile(second)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("UnwritablePath", func(t *testing.T) {
		err := ExportCSV(records, filepath.Join(t.TempDir(), "missing", CSVFile))
		assert.Error(t, err)
	})
}

func TestExportXLSX(t *testing.T) {
	records := []collector.RunRecord{
		testRecord("INJ_WEB", "r1", 500, 523.4),
		bareRecord("INJ_WAF_WEB", "r2"),
	}
	path := filepath.Join(t.TempDir(), XLSXFile)
	require.NoError(t, ExportXLSX(records, path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Columns, rows[0])

	value := func(cell string) string {
		v, err := f.GetCellValue(sheetName, cell)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "INJ_WEB", value("A2"))
	assert.Equal(t, "500", value("D2"))
	assert.Equal(t, "523.4", value("L2"))
	assert.Equal(t, "", value("L3"))

	styleID, err := f.GetCellStyle(sheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}
