package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/receivable360/backend/internal/application/settings"
	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// lossSheetName is the sheet holding the per-payment breakdown.
const lossSheetName = "Finansal Kayıp Detay"

// lossHeaders are the export columns, kept in the export's own language to
// match the source files the finance team works with.
var lossHeaders = []interface{}{
	"Müşteri No", "Müşteri Adı", "AR Fatura No",
	"Fatura Tarihi", "Ödeme Tarihi", "Vade (Gün)", "Beklenen Ödeme Tarihi",
	"Gecikme Günü", "Uygulanan Tutar (TRY)",
	"Yıllık Oran (%)", "Günlük Oran", "ADAT (Gün × Tutar)", "Finansal Kayıp (TRY)",
}

// LossExport is a rendered workbook plus its download name.
type LossExport struct {
	Filename string
	Content  []byte
}

// LossExportService renders a customer's financial-loss breakdown as a
// workbook, one row per payment with every intermediate of the loss
// formula spelled out.
type LossExportService struct {
	customerRepo receivable.CustomerRepository
	paymentRepo  receivable.PaymentRepository
	settings     *settings.SettingsService
	logger       *zap.Logger
}

// NewLossExportService creates a new LossExportService
func NewLossExportService(
	customerRepo receivable.CustomerRepository,
	paymentRepo receivable.PaymentRepository,
	settingsService *settings.SettingsService,
	logger *zap.Logger,
) *LossExportService {
	return &LossExportService{
		customerRepo: customerRepo,
		paymentRepo:  paymentRepo,
		settings:     settingsService,
		logger:       logger,
	}
}

// CustomerLossWorkbook builds the export for one customer,
// shared.ErrNotFound when the customer number is unknown.
func (s *LossExportService) CustomerLossWorkbook(ctx context.Context, customerNo string) (*LossExport, error) {
	customer, err := s.customerRepo.FindByCustomerNo(ctx, customerNo)
	if err != nil {
		return nil, err
	}
	rates, err := s.settings.Rates(ctx)
	if err != nil {
		return nil, err
	}

	var payments []*receivable.Payment
	if customer.Name != "" {
		payments, err = s.paymentRepo.FindByCustomerName(ctx, customer.Name)
	} else {
		payments, err = s.paymentRepo.FindByCustomerNo(ctx, customerNo)
	}
	if err != nil {
		return nil, fmt.Errorf("load payments for %s: %w", customerNo, err)
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), lossSheetName); err != nil {
		return nil, fmt.Errorf("create export sheet: %w", err)
	}
	if err := f.SetSheetRow(lossSheetName, "A1", &lossHeaders); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}

	dailyRate := rates.CostOfCashDaily()
	for i, p := range payments {
		row := s.lossRow(p, customer, rates.CostOfCashAnnual, dailyRate)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(lossSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write export row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render export workbook: %w", err)
	}

	name := customer.Name
	if name == "" {
		name = customerNo
	}
	return &LossExport{
		Filename: fmt.Sprintf("Finansal_Kayip_%s.xlsx", sanitizeFilename(name)),
		Content:  buf.Bytes(),
	}, nil
}

func (s *LossExportService) lossRow(p *receivable.Payment, customer *receivable.Customer, annualRate, dailyRate float64) []interface{} {
	var expected *time.Time
	if p.InvoiceDate != nil && p.TermDays != nil {
		e := p.InvoiceDate.AddDate(0, 0, *p.TermDays)
		expected = &e
	}

	delayDays := 0
	if p.PaymentDate != nil && expected != nil {
		if diff := receivable.DaysBetween(*expected, *p.PaymentDate); diff > 0 {
			delayDays = diff
		}
	}

	applied := p.AppliedAmount.InexactFloat64()
	var adat float64
	if delayDays > 0 {
		adat = float64(delayDays) * applied
	}
	loss, _ := receivable.PaymentLoss(p, annualRate)

	name := p.CustomerName
	if name == "" {
		name = customer.Name
	}
	return []interface{}{
		deref(p.CustomerNo), name, deref(p.InvoiceNo),
		formatDate(p.InvoiceDate), formatDate(p.PaymentDate), termCell(p.TermDays), formatDate(expected),
		delayDays, applied,
		annualRate, dailyRate, adat, loss,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func termCell(term *int) interface{} {
	if term == nil {
		return ""
	}
	return *term
}

// turkishASCII maps the Turkish letters to their closest ASCII form so the
// download name survives Content-Disposition handling everywhere.
var turkishASCII = strings.NewReplacer(
	"ç", "c", "Ç", "C",
	"ğ", "g", "Ğ", "G",
	"ı", "i", "İ", "I",
	"ö", "o", "Ö", "O",
	"ş", "s", "Ş", "S",
	"ü", "u", "Ü", "U",
)

var (
	nonFilenameChars = regexp.MustCompile(`[^\w\s-]`)
	filenameGaps     = regexp.MustCompile(`[-\s]+`)
)

// sanitizeFilename turns a display name into a safe ASCII file-name stem.
func sanitizeFilename(name string) string {
	s := turkishASCII.Replace(name)
	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	s = nonFilenameChars.ReplaceAllString(b.String(), "_")
	s = filenameGaps.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
