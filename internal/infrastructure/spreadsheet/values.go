package spreadsheet

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// dateLayouts are tried in order when parsing date cells. Workbook cells
// come back pre-formatted as text, so both ISO and the common dotted /
// slashed forms show up in real exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2.1.2006",
	"1/2/2006",
	"1/2/06",
	"1-2-06",
	"2006/01/02",
}

// ParseDate leniently parses a date cell. It returns nil for empty,
// placeholder or unparseable values rather than failing the row.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "nat") {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &t
		}
	}
	return nil
}

// ParseAmount leniently parses a numeric cell. Values with exactly one
// comma are treated as decimal-comma numbers: dots are thousands
// separators and the comma is the decimal mark ("1.234,56" -> 1234.56).
// It reports false for empty, placeholder or unparseable values.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return decimal.Zero, false
	}
	if strings.Count(s, ",") == 1 {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
