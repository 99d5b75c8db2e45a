package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/receivable360/backend/internal/application/settings"
	"github.com/receivable360/backend/internal/domain/receivable"
	"go.uber.org/zap"
)

// CurrencyAmount is one per-currency line of a dashboard breakdown.
type CurrencyAmount struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

// DashboardSummary is the system-wide KPI set.
type DashboardSummary struct {
	TotalOpen         float64          `json:"total_open"`
	Overdue           float64          `json:"overdue"`
	Over90            float64          `json:"over90"`
	Loss30            float64          `json:"loss_30d"`
	Loss30Rows        int              `json:"loss_30d_rows"`
	TotalLoss         float64          `json:"total_late_loss"`
	TotalLossRows     int              `json:"total_late_loss_rows"`
	LateFeeUnpaid     float64          `json:"late_fee_unpaid_total"`
	RiskScore         float64          `json:"risk_score"`
	CostOfCashAnnual  float64          `json:"cost_of_cash_annual"`
	LateFeeAnnual     float64          `json:"late_fee_rate_annual"`
	TotalsByCurrency  []CurrencyAmount `json:"totals_by_currency"`
	OverdueByCurrency []CurrencyAmount `json:"overdue_by_currency"`
	Over90ByCurrency  []CurrencyAmount `json:"over90_by_currency"`
}

// DashboardService aggregates the whole receivable book into one KPI set.
type DashboardService struct {
	invoiceRepo receivable.InvoiceRepository
	paymentRepo receivable.PaymentRepository
	settings    *settings.SettingsService
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	invoiceRepo receivable.InvoiceRepository,
	paymentRepo receivable.PaymentRepository,
	settingsService *settings.SettingsService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		settings:    settingsService,
		logger:      logger,
		now:         time.Now,
	}
}

// Summary computes the system-wide KPI set as of now. The risk score at
// this level deliberately leaves the weighted-days component at zero; only
// the per-customer and per-region views carry it.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	today := s.now()

	invoices, err := s.invoiceRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load invoices: %w", err)
	}
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	rates, err := s.settings.Rates(ctx)
	if err != nil {
		return nil, err
	}

	totals := receivable.ComputeBalanceTotals(invoices, today)
	loss30, loss30Rows := receivable.RecentLoss(payments, rates.CostOfCashAnnual, today, 30)

	summary := &DashboardSummary{
		TotalOpen:        totals.Open,
		Overdue:          totals.Overdue,
		Over90:           totals.Over90,
		Loss30:           loss30,
		Loss30Rows:       loss30Rows,
		TotalLoss:        receivable.TotalPaymentLoss(payments, rates.CostOfCashAnnual),
		TotalLossRows:    len(payments),
		LateFeeUnpaid:    receivable.TotalLateFee(invoices, rates.LateFeeAnnual, today),
		CostOfCashAnnual: rates.CostOfCashAnnual,
		LateFeeAnnual:    rates.LateFeeAnnual,
	}

	var overdueRatio, over90Ratio, lossRatio float64
	if totals.Open != 0 {
		overdueRatio = totals.Overdue / totals.Open
		lossRatio = loss30 / totals.Open
	}
	if totals.Overdue != 0 {
		over90Ratio = totals.Over90 / totals.Overdue
	}
	summary.RiskScore = receivable.RiskScore(overdueRatio, over90Ratio, 0, lossRatio)

	summary.TotalsByCurrency, summary.OverdueByCurrency, summary.Over90ByCurrency = currencyBreakdown(invoices, today)
	return summary, nil
}

// currencyBreakdown splits the open, overdue and aged-90+ balances by
// invoice currency. Invoices without a currency land in the "N/A" line.
func currencyBreakdown(invoices []*receivable.Invoice, today time.Time) (totals, overdue, over90 []CurrencyAmount) {
	totalM := map[string]float64{}
	overdueM := map[string]float64{}
	over90M := map[string]float64{}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for _, inv := range invoices {
		cur := inv.Currency
		if cur == "" {
			cur = "N/A"
		}
		balance := inv.OpenBalance.InexactFloat64()
		totalM[cur] += balance
		if inv.DueDate == nil || !inv.DueDate.Before(day) {
			continue
		}
		overdueM[cur] += balance
		if receivable.DaysBetween(*inv.DueDate, today) > 90 {
			over90M[cur] += balance
		}
	}

	return currencyLines(totalM), currencyLines(overdueM), currencyLines(over90M)
}

func currencyLines(m map[string]float64) []CurrencyAmount {
	lines := make([]CurrencyAmount, 0, len(m))
	for cur, amount := range m {
		lines = append(lines, CurrencyAmount{Currency: cur, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Currency < lines[j].Currency })
	return lines
}
