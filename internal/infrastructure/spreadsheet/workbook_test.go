package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes an in-memory xlsx with the given sheets, each a
// records slice with the header first.
func buildWorkbook(t *testing.T, sheets map[string][][]string) []byte {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, records := range sheets {
		if first {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, record := range records {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &record))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParse_XLSX(t *testing.T) {
	t.Run("reads named sheet", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]string{
			"ham_data": {
				{"Transaction Number", "Customer Name"},
				{"INV-1", "Acme"},
			},
		})

		rows, err := Parse("invoices.xlsx", bytes.NewReader(data), "ham_data")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "INV-1", rows[0].Get("Transaction Number"))
	})

	t.Run("single sheet used even when name differs", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]string{
			"Sheet1": {
				{"Customer Number", "Region Name"},
				{"C-1", "West"},
			},
		})

		rows, err := Parse("regions.xlsx", bytes.NewReader(data), "data")
		require.NoError(t, err)
		require.Len(t, rows, 1)
	})

	t.Run("header-only sheet yields an empty batch", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]string{
			"ham_data": {
				{"Transaction Number", "Customer Name"},
			},
		})

		rows, err := Parse("invoices.xlsx", bytes.NewReader(data), "ham_data")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("missing sheet in multi-sheet workbook errors", func(t *testing.T) {
		data := buildWorkbook(t, map[string][][]string{
			"one": {{"A"}, {"1"}},
			"two": {{"B"}, {"2"}},
		})

		_, err := Parse("payments.xlsx", bytes.NewReader(data), "data")
		var sheetErr *SheetNotFoundError
		require.ErrorAs(t, err, &sheetErr)
		assert.Equal(t, "data", sheetErr.Sheet)
	})
}

func TestParse_Dispatch(t *testing.T) {
	t.Run("csv by extension", func(t *testing.T) {
		rows, err := Parse("data.csv", strings.NewReader("Name\nfoo\n"), "")
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("unknown extension rejected", func(t *testing.T) {
		_, err := Parse("data.pdf", strings.NewReader("x"), "")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("empty upload rejected", func(t *testing.T) {
		_, err := Parse("data.csv", strings.NewReader(""), "")
		assert.ErrorIs(t, err, ErrEmptyFile)
	})
}
