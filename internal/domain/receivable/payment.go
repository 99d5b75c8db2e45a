package receivable

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is an applied collection row from the payments export. The batch
// is replaced wholesale on every import.
type Payment struct {
	ID           int64
	CustomerNo   *string
	CustomerName string
	InvoiceNo    *string
	ValueDate    *time.Time
	PaymentDate  *time.Time
	InvoiceDate  *time.Time
	// TermDays is the payment term carried over from the customer's most
	// recent invoice at import time.
	TermDays *int
	// DelayDays is the stored delay against the referenced invoice's due
	// date, floored at zero, computed once at import time.
	DelayDays        int
	AppliedAmount    decimal.Decimal
	PaymentAmountTRY decimal.Decimal
}

// LateDays returns the calendar days the payment landed after the due date
// implied by InvoiceDate + TermDays. It returns 0 and false when any of the
// inputs needed for the computation is missing.
func (p *Payment) LateDays() (int, bool) {
	if p.PaymentDate == nil || p.InvoiceDate == nil || p.TermDays == nil {
		return 0, false
	}
	due := p.InvoiceDate.AddDate(0, 0, *p.TermDays)
	return DaysBetween(due, *p.PaymentDate), true
}
