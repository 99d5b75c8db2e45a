package receivable

import "strings"

// Region groups customers for aggregated reporting.
type Region struct {
	ID   int64
	Name string
}

// UnknownRegionID is the synthetic bucket for customers without a region.
const UnknownRegionID int64 = -1

// UnknownRegionName labels the synthetic bucket in region summaries.
const UnknownRegionName = "Unknown"

// Customer is a debtor identified by customer number when present,
// otherwise by exact name.
type Customer struct {
	ID         int64
	CustomerNo *string
	Name       string
	RegionID   *int64
}

// NormalizeCustomerNo trims a raw customer-number cell and maps empty or
// placeholder values ("nan" from spreadsheet exports) to nil.
func NormalizeCustomerNo(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	return &s
}
