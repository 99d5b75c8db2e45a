package receivable

import (
	"math"
	"time"
)

// Round2 rounds a metric to two decimals for API responses.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PaymentLoss returns the financing loss caused by one late payment and the
// delay in days. The loss is delay × applied amount × daily cost of cash.
// The applied amount keeps its sign: a late credit or correction row carries
// a negative amount and reduces the loss totals. Payments that are on time,
// early, missing dates or zero-amount cost nothing.
func PaymentLoss(p *Payment, costOfCashAnnual float64) (loss float64, delayDays int) {
	delay, ok := p.LateDays()
	if !ok || delay <= 0 || p.AppliedAmount.IsZero() {
		return 0, 0
	}
	daily := costOfCashAnnual / 100.0 / 365.0
	return float64(delay) * p.AppliedAmount.InexactFloat64() * daily, delay
}

// InvoiceLateFee returns the late fee accrued so far on an unpaid overdue
// invoice: open balance × days overdue × daily late-fee rate.
func InvoiceLateFee(inv *Invoice, lateFeeAnnual float64, today time.Time) float64 {
	days := inv.DaysOverdue(today)
	if days <= 0 {
		return 0
	}
	daily := lateFeeAnnual / 100.0 / 365.0
	return inv.OpenBalance.InexactFloat64() * float64(days) * daily
}

// TotalPaymentLoss sums the loss over a payment set regardless of date.
func TotalPaymentLoss(payments []*Payment, costOfCashAnnual float64) float64 {
	var total float64
	for _, p := range payments {
		loss, _ := PaymentLoss(p, costOfCashAnnual)
		total += loss
	}
	return total
}

// RecentLoss sums the loss over payments whose value date falls within the
// trailing window ending today, and reports how many payments the window
// held.
func RecentLoss(payments []*Payment, costOfCashAnnual float64, today time.Time, windowDays int) (loss float64, rows int) {
	since := truncateDay(today).AddDate(0, 0, -windowDays)
	for _, p := range payments {
		if p.ValueDate == nil || p.ValueDate.Before(since) {
			continue
		}
		l, _ := PaymentLoss(p, costOfCashAnnual)
		loss += l
		rows++
	}
	return loss, rows
}

// BalanceTotals aggregates invoice balances by age bucket.
type BalanceTotals struct {
	Open    float64
	Overdue float64
	Over90  float64
}

// ComputeBalanceTotals sums open, overdue and aged-90+ balances over a set
// of invoices as of today. Overdue means the due date lies strictly before
// today; aged-90+ means more than 90 days past due.
func ComputeBalanceTotals(invoices []*Invoice, today time.Time) BalanceTotals {
	var t BalanceTotals
	day := truncateDay(today)
	for _, inv := range invoices {
		balance := inv.OpenBalance.InexactFloat64()
		t.Open += balance
		if inv.DueDate == nil || !inv.DueDate.Before(day) {
			continue
		}
		t.Overdue += balance
		if DaysBetween(*inv.DueDate, today) > 90 {
			t.Over90 += balance
		}
	}
	return t
}

// WeightedOverdueDays returns the balance-weighted average days overdue
// across the overdue invoices, 0 when no overdue balance exists.
func WeightedOverdueDays(invoices []*Invoice, today time.Time) float64 {
	var weighted, balance float64
	day := truncateDay(today)
	for _, inv := range invoices {
		if inv.DueDate == nil || !inv.DueDate.Before(day) {
			continue
		}
		days := DaysBetween(*inv.DueDate, today)
		if days < 0 {
			days = 0
		}
		b := inv.OpenBalance.InexactFloat64()
		weighted += float64(days) * b
		balance += b
	}
	if balance == 0 {
		return 0
	}
	return weighted / balance
}

// TotalLateFee sums the accrued late fees over unpaid overdue invoices.
func TotalLateFee(invoices []*Invoice, lateFeeAnnual float64, today time.Time) float64 {
	var total float64
	for _, inv := range invoices {
		total += InvoiceLateFee(inv, lateFeeAnnual, today)
	}
	return total
}

// CustomerMetrics is the full per-customer metric set.
type CustomerMetrics struct {
	OpenBalance        float64
	OverdueBalance     float64
	Over90Balance      float64
	WeightedDays       float64
	Loss30             float64
	TotalLoss          float64
	LateFee            float64
	UnpaidInvoiceCount int
	OverdueRatio       float64
	Over90Ratio        float64
	LossRatio          float64
	RiskScore          float64
}

// ComputeCustomerMetrics derives the metric set for one customer from their
// invoices and payments as of today. The loss ratio feeding the risk score
// looks only at the trailing 30 days; the total loss spans the whole batch.
func ComputeCustomerMetrics(invoices []*Invoice, payments []*Payment, rates Rates, today time.Time) CustomerMetrics {
	totals := ComputeBalanceTotals(invoices, today)
	loss30, _ := RecentLoss(payments, rates.CostOfCashAnnual, today, 30)
	m := CustomerMetrics{
		OpenBalance:    totals.Open,
		OverdueBalance: totals.Overdue,
		Over90Balance:  totals.Over90,
		WeightedDays:   WeightedOverdueDays(invoices, today),
		Loss30:         loss30,
		TotalLoss:      TotalPaymentLoss(payments, rates.CostOfCashAnnual),
		LateFee:        TotalLateFee(invoices, rates.LateFeeAnnual, today),
	}
	for _, inv := range invoices {
		if inv.IsOpen() {
			m.UnpaidInvoiceCount++
		}
	}
	if m.OpenBalance != 0 {
		m.OverdueRatio = m.OverdueBalance / m.OpenBalance
		m.LossRatio = m.Loss30 / m.OpenBalance
	}
	if m.OverdueBalance != 0 {
		m.Over90Ratio = m.Over90Balance / m.OverdueBalance
	}
	m.RiskScore = RiskScore(m.OverdueRatio, m.Over90Ratio, m.WeightedDays, m.LossRatio)
	return m
}
