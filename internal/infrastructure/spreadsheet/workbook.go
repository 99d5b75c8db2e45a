package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Parse reads an uploaded spreadsheet into rows. The format is chosen by
// file extension: csv, xlsx/xlsm and legacy xls are supported. sheetName
// names the worksheet to read from workbooks; when the workbook has a
// single sheet that one is used regardless, and an empty sheetName always
// selects the first sheet.
func Parse(filename string, r io.Reader, sheetName string) ([]*Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return ParseCSV(data)
	case ".xlsx", ".xlsm":
		return parseXLSX(data, sheetName)
	case ".xls":
		return parseXLS(data, sheetName)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// parseXLSX reads an OOXML workbook with excelize.
func parseXLSX(data []byte, sheetName string) ([]*Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	sheet := sheets[0]
	if sheetName != "" && len(sheets) > 1 {
		idx, err := f.GetSheetIndex(sheetName)
		if err != nil || idx < 0 {
			return nil, &SheetNotFoundError{Sheet: sheetName}
		}
		sheet = sheetName
	}

	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rowsFromRecords(records)
}

// parseXLS reads a legacy BIFF workbook.
func parseXLS(data []byte, sheetName string) ([]*Row, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	numSheets := wb.GetNumberSheets()
	if numSheets == 0 {
		return nil, ErrEmptyFile
	}

	index := 0
	if sheetName != "" && numSheets > 1 {
		index = -1
		for i := 0; i < numSheets; i++ {
			s, err := wb.GetSheet(i)
			if err != nil {
				continue
			}
			if s.GetName() == sheetName {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, &SheetNotFoundError{Sheet: sheetName}
		}
	}

	s, err := wb.GetSheet(index)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	var records [][]string
	for _, xlsRow := range s.GetRows() {
		var record []string
		for _, cell := range xlsRow.GetCols() {
			record = append(record, cell.GetString())
		}
		records = append(records, record)
	}
	return rowsFromRecords(records)
}
