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

// RegionSummary is the aggregated KPI set of one region. RegionID is nil
// for the synthetic bucket holding customers without a region.
type RegionSummary struct {
	RegionID     *int64  `json:"region_id"`
	RegionName   string  `json:"region_name"`
	TotalOpen    float64 `json:"total_open"`
	Overdue      float64 `json:"overdue"`
	Over90       float64 `json:"over90"`
	WeightedDays float64 `json:"weighted_overdue_days"`
	Loss30       float64 `json:"loss_30d"`
	RiskScore    float64 `json:"risk_score"`
}

// RegionCustomers is the riskiest-customers view of one region.
type RegionCustomers struct {
	RegionID   int64              `json:"region_id"`
	RegionName string             `json:"region_name"`
	Customers  []*CustomerSummary `json:"customers"`
}

// RegionReportService aggregates the receivable book per region.
type RegionReportService struct {
	regionRepo   receivable.RegionRepository
	customerRepo receivable.CustomerRepository
	invoiceRepo  receivable.InvoiceRepository
	paymentRepo  receivable.PaymentRepository
	customers    *CustomerReportService
	settings     *settings.SettingsService
	logger       *zap.Logger
	now          func() time.Time
}

// NewRegionReportService creates a new RegionReportService
func NewRegionReportService(
	regionRepo receivable.RegionRepository,
	customerRepo receivable.CustomerRepository,
	invoiceRepo receivable.InvoiceRepository,
	paymentRepo receivable.PaymentRepository,
	customerReports *CustomerReportService,
	settingsService *settings.SettingsService,
	logger *zap.Logger,
) *RegionReportService {
	return &RegionReportService{
		regionRepo:   regionRepo,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		paymentRepo:  paymentRepo,
		customers:    customerReports,
		settings:     settingsService,
		logger:       logger,
		now:          time.Now,
	}
}

// regionAggregate accumulates one region's running totals during a sweep
// over all invoices and payments.
type regionAggregate struct {
	totalOpen   float64
	overdue     float64
	over90      float64
	weightedNum float64
	weightedDen float64
	loss30      float64
}

// Summary aggregates KPIs per region, bucketing invoices and payments of
// customers without a region assignment under "Unknown". Results are
// ordered riskiest first.
func (s *RegionReportService) Summary(ctx context.Context) ([]RegionSummary, error) {
	today := s.now()

	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}
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

	// Map customer numbers to region buckets; unassigned customers and
	// rows referencing unknown customers share the Unknown bucket.
	customerRegion := make(map[string]int64, len(customers))
	for _, c := range customers {
		if c.CustomerNo == nil {
			continue
		}
		rid := receivable.UnknownRegionID
		if c.RegionID != nil {
			rid = *c.RegionID
		}
		customerRegion[*c.CustomerNo] = rid
	}
	bucketOf := func(customerNo *string) int64 {
		if customerNo == nil {
			return receivable.UnknownRegionID
		}
		if rid, ok := customerRegion[*customerNo]; ok {
			return rid
		}
		return receivable.UnknownRegionID
	}

	aggregates := make(map[int64]*regionAggregate)
	ensure := func(rid int64) *regionAggregate {
		agg, ok := aggregates[rid]
		if !ok {
			agg = &regionAggregate{}
			aggregates[rid] = agg
		}
		return agg
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	for _, inv := range invoices {
		agg := ensure(bucketOf(inv.CustomerNo))
		balance := inv.OpenBalance.InexactFloat64()
		agg.totalOpen += balance
		if inv.DueDate == nil || !inv.DueDate.Before(day) {
			continue
		}
		agg.overdue += balance
		days := receivable.DaysBetween(*inv.DueDate, today)
		if days < 0 {
			days = 0
		}
		agg.weightedNum += balance * float64(days)
		agg.weightedDen += balance
		if days > 90 {
			agg.over90 += balance
		}
	}

	since := day.AddDate(0, 0, -30)
	for _, p := range payments {
		if p.ValueDate == nil || p.ValueDate.Before(since) {
			continue
		}
		loss, _ := receivable.PaymentLoss(p, rates.CostOfCashAnnual)
		ensure(bucketOf(p.CustomerNo)).loss30 += loss
	}

	regions, err := s.regionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}
	regionNames := make(map[int64]string, len(regions)+1)
	for _, r := range regions {
		regionNames[r.ID] = r.Name
	}
	regionNames[receivable.UnknownRegionID] = receivable.UnknownRegionName

	summaries := make([]RegionSummary, 0, len(aggregates))
	for rid, agg := range aggregates {
		var weightedDays float64
		if agg.weightedDen != 0 {
			weightedDays = agg.weightedNum / agg.weightedDen
		}

		var overdueRatio, over90Ratio, lossRatio float64
		if agg.totalOpen != 0 {
			overdueRatio = agg.overdue / agg.totalOpen
			lossRatio = agg.loss30 / agg.totalOpen
		}
		if agg.overdue != 0 {
			over90Ratio = agg.over90 / agg.overdue
		}

		name, ok := regionNames[rid]
		if !ok {
			name = receivable.UnknownRegionName
		}
		summary := RegionSummary{
			RegionName:   name,
			TotalOpen:    agg.totalOpen,
			Overdue:      agg.overdue,
			Over90:       agg.over90,
			WeightedDays: weightedDays,
			Loss30:       agg.loss30,
			RiskScore:    receivable.RiskScore(overdueRatio, over90Ratio, weightedDays, lossRatio),
		}
		if rid != receivable.UnknownRegionID {
			id := rid
			summary.RegionID = &id
		}
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].RiskScore > summaries[j].RiskScore })
	return summaries, nil
}

// Customers returns one region's riskiest customers, shared.ErrNotFound
// when the region does not exist.
func (s *RegionReportService) Customers(ctx context.Context, regionID int64, limit int) (*RegionCustomers, error) {
	region, err := s.regionRepo.FindByID(ctx, regionID)
	if err != nil {
		return nil, err
	}

	summaries, err := s.customers.allSummaries(ctx, &regionID)
	if err != nil {
		return nil, err
	}

	kept := summaries[:0]
	for _, m := range summaries {
		if m.TotalOpen <= 0 && m.Loss30 <= 0 {
			continue
		}
		kept = append(kept, m)
	}
	summaries = kept

	sort.SliceStable(summaries, func(i, j int) bool { return summaries[i].RiskScore > summaries[j].RiskScore })
	return &RegionCustomers{
		RegionID:   region.ID,
		RegionName: region.Name,
		Customers:  clip(summaries, limit),
	}, nil
}
