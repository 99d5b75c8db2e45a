package spreadsheet

// Row is one parsed data row keyed by header name. LineNumber is 1-indexed
// counting the header row, matching what a user sees in their spreadsheet
// application.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// rowsFromRecords converts raw records (header first) into Rows, skipping
// rows that are entirely empty.
func rowsFromRecords(records [][]string) ([]*Row, error) {
	if len(records) == 0 {
		return nil, ErrMissingHeader
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = trimSpaces(h)
	}

	rows := make([]*Row, 0, len(records)-1)
	for idx, record := range records[1:] {
		row := &Row{
			LineNumber: idx + 2,
			Data:       make(map[string]string, len(headers)),
		}
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				row.Data[header] = trimSpaces(record[i])
			} else {
				row.Data[header] = ""
			}
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}

	// A header with no data rows is a valid, empty batch.
	return rows, nil
}
