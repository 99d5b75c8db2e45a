package receivable

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is a single receivable line imported from the ERP export.
// Monetary fields default to zero when the source cell was missing or
// unparseable; date fields stay nil in that case.
type Invoice struct {
	ID           int64
	InvoiceNo    string
	CustomerID   *int64
	CustomerNo   *string
	CustomerName string
	InvoiceDate  *time.Time
	DueDate      *time.Time
	Currency     string
	TotalAmount  decimal.Decimal
	OpenBalance  decimal.Decimal
	// DelayDays is the payment term length in days (due date minus
	// invoice date), recomputed on every import.
	DelayDays *int
}

// IsOpen reports whether the invoice still carries an open balance.
func (i *Invoice) IsOpen() bool {
	return i.OpenBalance.IsPositive()
}

// IsOverdue reports whether the invoice is open and past due as of today.
func (i *Invoice) IsOverdue(today time.Time) bool {
	return i.IsOpen() && i.DueDate != nil && i.DueDate.Before(truncateDay(today))
}

// DaysOverdue returns the calendar days past due, 0 when not overdue.
func (i *Invoice) DaysOverdue(today time.Time) int {
	if !i.IsOverdue(today) {
		return 0
	}
	return DaysBetween(*i.DueDate, today)
}

// TermDays returns the payment term length, nil when either date is missing.
func (i *Invoice) TermDays() *int {
	if i.InvoiceDate == nil || i.DueDate == nil {
		return nil
	}
	d := DaysBetween(*i.InvoiceDate, *i.DueDate)
	return &d
}

// truncateDay drops the time-of-day component so day counts are calendar
// differences regardless of upload timestamps.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole calendar days from a to b (negative when b
// precedes a).
func DaysBetween(a, b time.Time) int {
	return int(truncateDay(b).Sub(truncateDay(a)).Hours() / 24)
}
