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

// Ranking modes accepted by TopRisky.
const (
	SortByRisk    = "risk"
	SortByOverdue = "overdue"
	SortByUnpaid  = "unpaid"
	SortByLoss    = "loss"
)

// CustomerSummary is the per-customer KPI set plus identity fields.
type CustomerSummary struct {
	CustomerNo         *string `json:"customer_no"`
	CustomerName       string  `json:"customer_name"`
	RegionID           *int64  `json:"region_id"`
	TotalOpen          float64 `json:"total_open"`
	Overdue            float64 `json:"overdue"`
	Over90             float64 `json:"over90"`
	UnpaidInvoiceCount int     `json:"unpaid_invoice_count"`
	LateFeeUnpaid      float64 `json:"late_fee_unpaid"`
	WeightedDays       float64 `json:"weighted_overdue_days"`
	Loss30             float64 `json:"loss_30d"`
	TotalLoss          float64 `json:"total_late_loss"`
	RiskScore          float64 `json:"risk_score"`
}

// InvoiceLine is one row of a customer's invoice listing.
type InvoiceLine struct {
	InvoiceNo   string     `json:"invoice_no"`
	InvoiceDate *time.Time `json:"invoice_date"`
	DueDate     *time.Time `json:"due_date"`
	Currency    string     `json:"currency"`
	TotalAmount float64    `json:"total_amount"`
	OpenBalance float64    `json:"open_balance"`
	OverdueDays int        `json:"overdue_days"`
	IsOverdue   bool       `json:"is_overdue"`
}

// PaymentLine is one row of a customer's payment listing with its loss.
type PaymentLine struct {
	PaymentID        int64      `json:"payment_id"`
	InvoiceNo        *string    `json:"ar_invoice_no"`
	ValueDate        *time.Time `json:"value_date"`
	DelayDays        int        `json:"delay_days"`
	AppliedAmount    float64    `json:"applied_amount"`
	PaymentAmountTRY float64    `json:"payment_amount_try"`
	Loss             float64    `json:"loss"`
}

// CustomerRef is the minimal identity record used by listing dropdowns.
type CustomerRef struct {
	CustomerNo   *string `json:"customer_no"`
	CustomerName string  `json:"customer_name"`
	RegionID     *int64  `json:"region_id"`
}

// CustomerReportService serves per-customer KPI views and rankings.
type CustomerReportService struct {
	customerRepo receivable.CustomerRepository
	invoiceRepo  receivable.InvoiceRepository
	paymentRepo  receivable.PaymentRepository
	settings     *settings.SettingsService
	logger       *zap.Logger
	now          func() time.Time
}

// NewCustomerReportService creates a new CustomerReportService
func NewCustomerReportService(
	customerRepo receivable.CustomerRepository,
	invoiceRepo receivable.InvoiceRepository,
	paymentRepo receivable.PaymentRepository,
	settingsService *settings.SettingsService,
	logger *zap.Logger,
) *CustomerReportService {
	return &CustomerReportService{
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		settings:     settingsService,
		logger:       logger,
		now:          time.Now,
	}
}

// List returns every customer for selection lists.
func (s *CustomerReportService) List(ctx context.Context) ([]CustomerRef, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]CustomerRef, 0, len(customers))
	for _, c := range customers {
		refs = append(refs, CustomerRef{
			CustomerNo:   c.CustomerNo,
			CustomerName: c.Name,
			RegionID:     c.RegionID,
		})
	}
	return refs, nil
}

// Summary returns the KPI set for one customer, shared.ErrNotFound when the
// customer number is unknown.
func (s *CustomerReportService) Summary(ctx context.Context, customerNo string) (*CustomerSummary, error) {
	customer, err := s.customerRepo.FindByCustomerNo(ctx, customerNo)
	if err != nil {
		return nil, err
	}
	rates, err := s.settings.Rates(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, customer, rates, s.now())
}

// TopRisky ranks customers by the requested mode, optionally restricted to
// a region. The loss mode folds customers sharing a display name into one
// line, summing the financial figures and keeping the highest risk score
// as the representative value.
func (s *CustomerReportService) TopRisky(ctx context.Context, limit int, regionID *int64, sortBy string) ([]*CustomerSummary, error) {
	summaries, err := s.allSummaries(ctx, regionID)
	if err != nil {
		return nil, err
	}

	kept := summaries[:0]
	for _, m := range summaries {
		if m.TotalOpen <= 0 && m.Loss30 <= 0 && m.TotalLoss <= 0 && m.UnpaidInvoiceCount <= 0 {
			continue
		}
		kept = append(kept, m)
	}
	summaries = kept

	switch sortBy {
	case SortByLoss:
		summaries = groupByName(summaries)
		sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].TotalLoss > summaries[j].TotalLoss })
	case SortByOverdue:
		sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].Overdue > summaries[j].Overdue })
	case SortByUnpaid:
		sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].UnpaidInvoiceCount > summaries[j].UnpaidInvoiceCount })
	default:
		sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].RiskScore > summaries[j].RiskScore })
	}

	return clip(summaries, limit), nil
}

// TopUnpaid ranks customers by open invoice count, optionally restricted to
// a region.
func (s *CustomerReportService) TopUnpaid(ctx context.Context, limit int, regionID *int64) ([]*CustomerSummary, error) {
	summaries, err := s.allSummaries(ctx, regionID)
	if err != nil {
		return nil, err
	}

	kept := summaries[:0]
	for _, m := range summaries {
		if m.UnpaidInvoiceCount <= 0 {
			continue
		}
		kept = append(kept, m)
	}
	summaries = kept

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UnpaidInvoiceCount > summaries[j].UnpaidInvoiceCount
	})
	return clip(summaries, limit), nil
}

// Invoices lists one customer's invoices with their overdue state.
func (s *CustomerReportService) Invoices(ctx context.Context, customerNo string) ([]InvoiceLine, error) {
	today := s.now()
	invoices, err := s.invoiceRepo.FindByCustomerNo(ctx, customerNo)
	if err != nil {
		return nil, err
	}

	lines := make([]InvoiceLine, 0, len(invoices))
	for _, inv := range invoices {
		line := InvoiceLine{
			InvoiceNo:   inv.InvoiceNo,
			InvoiceDate: inv.InvoiceDate,
			DueDate:     inv.DueDate,
			Currency:    inv.Currency,
			TotalAmount: inv.TotalAmount.InexactFloat64(),
			OpenBalance: inv.OpenBalance.InexactFloat64(),
		}
		if inv.DueDate != nil {
			if diff := receivable.DaysBetween(*inv.DueDate, today); diff > 0 {
				line.OverdueDays = diff
				line.IsOverdue = true
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LatePayments lists one customer's payments with the loss each caused.
func (s *CustomerReportService) LatePayments(ctx context.Context, customerNo string) ([]PaymentLine, error) {
	customer, err := s.customerRepo.FindByCustomerNo(ctx, customerNo)
	if err != nil {
		return nil, err
	}
	rates, err := s.settings.Rates(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentsFor(ctx, customer)
	if err != nil {
		return nil, err
	}

	lines := make([]PaymentLine, 0, len(payments))
	for _, p := range payments {
		loss, _ := receivable.PaymentLoss(p, rates.CostOfCashAnnual)
		lines = append(lines, PaymentLine{
			PaymentID:        p.ID,
			InvoiceNo:        p.InvoiceNo,
			ValueDate:        p.ValueDate,
			DelayDays:        p.DelayDays,
			AppliedAmount:    p.AppliedAmount.InexactFloat64(),
			PaymentAmountTRY: p.PaymentAmountTRY.InexactFloat64(),
			Loss:             loss,
		})
	}
	return lines, nil
}

// paymentsFor returns a customer's payments. The payment export references
// customers with formatting quirks on the number column, so the name match
// is preferred when a name is known.
func (s *CustomerReportService) paymentsFor(ctx context.Context, customer *receivable.Customer) ([]*receivable.Payment, error) {
	if customer.Name != "" {
		return s.paymentRepo.FindByCustomerName(ctx, customer.Name)
	}
	if customer.CustomerNo != nil {
		return s.paymentRepo.FindByCustomerNo(ctx, *customer.CustomerNo)
	}
	return nil, nil
}

func (s *CustomerReportService) summarize(ctx context.Context, customer *receivable.Customer, rates receivable.Rates, today time.Time) (*CustomerSummary, error) {
	var invoices []*receivable.Invoice
	var err error
	if customer.CustomerNo != nil {
		invoices, err = s.invoiceRepo.FindByCustomerNo(ctx, *customer.CustomerNo)
	} else {
		invoices, err = s.invoiceRepo.FindByCustomerName(ctx, customer.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("load invoices for %s: %w", customer.Name, err)
	}

	payments, err := s.paymentsFor(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("load payments for %s: %w", customer.Name, err)
	}

	m := receivable.ComputeCustomerMetrics(invoices, payments, rates, today)
	return &CustomerSummary{
		CustomerNo:         customer.CustomerNo,
		CustomerName:       customer.Name,
		RegionID:           customer.RegionID,
		TotalOpen:          m.OpenBalance,
		Overdue:            m.OverdueBalance,
		Over90:             m.Over90Balance,
		UnpaidInvoiceCount: m.UnpaidInvoiceCount,
		LateFeeUnpaid:      m.LateFee,
		WeightedDays:       m.WeightedDays,
		Loss30:             m.Loss30,
		TotalLoss:          m.TotalLoss,
		RiskScore:          m.RiskScore,
	}, nil
}

// allSummaries computes the summary for every customer, optionally only
// those in one region.
func (s *CustomerReportService) allSummaries(ctx context.Context, regionID *int64) ([]*CustomerSummary, error) {
	var customers []*receivable.Customer
	var err error
	if regionID != nil {
		customers, err = s.customerRepo.FindByRegion(ctx, regionID)
	} else {
		customers, err = s.customerRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	rates, err := s.settings.Rates(ctx)
	if err != nil {
		return nil, err
	}
	today := s.now()

	summaries := make([]*CustomerSummary, 0, len(customers))
	for _, c := range customers {
		m, err := s.summarize(ctx, c, rates, today)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, m)
	}
	return summaries, nil
}

// groupByName folds summaries sharing a display name into one line. The
// key falls back to the customer number when a record has no name.
func groupByName(summaries []*CustomerSummary) []*CustomerSummary {
	grouped := make(map[string]*CustomerSummary)
	order := make([]string, 0, len(summaries))
	for _, m := range summaries {
		key := m.CustomerName
		if key == "" && m.CustomerNo != nil {
			key = *m.CustomerNo
		}
		g, ok := grouped[key]
		if !ok {
			clone := *m
			grouped[key] = &clone
			order = append(order, key)
			continue
		}
		g.TotalOpen += m.TotalOpen
		g.Overdue += m.Overdue
		g.Over90 += m.Over90
		g.Loss30 += m.Loss30
		g.TotalLoss += m.TotalLoss
		g.UnpaidInvoiceCount += m.UnpaidInvoiceCount
		g.LateFeeUnpaid += m.LateFeeUnpaid
		if m.RiskScore > g.RiskScore {
			g.RiskScore = m.RiskScore
		}
	}

	out := make([]*CustomerSummary, 0, len(order))
	for _, key := range order {
		out = append(out, grouped[key])
	}
	return out
}

func clip(summaries []*CustomerSummary, limit int) []*CustomerSummary {
	if limit < 1 {
		limit = 1
	}
	if len(summaries) > limit {
		return summaries[:limit]
	}
	return summaries
}
