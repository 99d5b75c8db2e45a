package importing

import (
	"context"
	"fmt"
	"strings"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/receivable360/backend/internal/infrastructure/persistence"
	"github.com/receivable360/backend/internal/infrastructure/spreadsheet"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PaymentImportResult summarizes one payment batch.
type PaymentImportResult struct {
	TotalRows   int `json:"total_rows"`
	Inserted    int `json:"inserted"`
	SkippedRows int `json:"skipped_rows"`
}

// PaymentImportService ingests the payment export. The source system only
// ships full snapshots, so every import replaces the payment table
// wholesale inside one transaction.
type PaymentImportService struct {
	db     *persistence.Database
	logger *zap.Logger
}

// NewPaymentImportService creates a new PaymentImportService
func NewPaymentImportService(db *persistence.Database, logger *zap.Logger) *PaymentImportService {
	return &PaymentImportService{db: db, logger: logger}
}

// Import replaces all stored payments with the batch. Rows without a
// customer number are skipped. A missing value date falls back to the
// payment date; the stored delay is measured against the referenced
// invoice's due date; the term length is taken from the customer's most
// recent invoice, matched by customer name the way the export references
// customers.
func (s *PaymentImportService) Import(ctx context.Context, rows []*spreadsheet.Row) (*PaymentImportResult, error) {
	// A header-only upload is a valid empty snapshot: it clears the table.
	if len(rows) == 0 {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return persistence.NewGormPaymentRepository(tx).DeleteAll(ctx)
		})
		if err != nil {
			return nil, err
		}
		return &PaymentImportResult{}, nil
	}

	cols := resolveColumns(rows, paymentColumns)
	if _, ok := cols[FieldCustomerNo]; !ok {
		return nil, shared.NewDomainError("MISSING_COLUMN", "payment file has no Müşteri No column")
	}

	result := &PaymentImportResult{TotalRows: len(rows)}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		customerRepo := persistence.NewGormCustomerRepository(tx)
		paymentRepo := persistence.NewGormPaymentRepository(tx)
		invoiceRepo := persistence.NewGormInvoiceRepository(tx)

		if err := paymentRepo.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear payments: %w", err)
		}

		customers := make(map[string]*receivable.Customer)
		invoices := make(map[string]*receivable.Invoice)
		termDays := make(map[string]*int)
		batch := make([]*receivable.Payment, 0, len(rows))

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			customerNo := receivable.NormalizeCustomerNo(cols.value(row, FieldCustomerNo))
			if customerNo == nil {
				result.SkippedRows++
				continue
			}
			customerName := strings.TrimSpace(cols.value(row, FieldCustomerName))

			customer, err := upsertCustomer(ctx, customerRepo, customers, *customerNo, customerName)
			if err != nil {
				return fmt.Errorf("resolve customer %s: %w", *customerNo, err)
			}

			applied, _ := spreadsheet.ParseAmount(cols.value(row, FieldAppliedAmount))
			paymentTRY, _ := spreadsheet.ParseAmount(cols.value(row, FieldPaymentAmountTRY))

			payment := &receivable.Payment{
				CustomerNo:       customerNo,
				CustomerName:     customerName,
				ValueDate:        spreadsheet.ParseDate(cols.value(row, FieldValueDate)),
				PaymentDate:      spreadsheet.ParseDate(cols.value(row, FieldPaymentDate)),
				InvoiceDate:      spreadsheet.ParseDate(cols.value(row, FieldInvoiceDate)),
				AppliedAmount:    applied,
				PaymentAmountTRY: paymentTRY,
			}
			if payment.CustomerName == "" {
				payment.CustomerName = customer.Name
			}
			if payment.ValueDate == nil {
				payment.ValueDate = payment.PaymentDate
			}
			if invoiceNo := strings.TrimSpace(cols.value(row, FieldInvoiceNo)); invoiceNo != "" && !strings.EqualFold(invoiceNo, "nan") {
				payment.InvoiceNo = &invoiceNo
			}

			delay, err := s.delayAgainstInvoice(ctx, invoiceRepo, invoices, payment)
			if err != nil {
				return err
			}
			payment.DelayDays = delay

			if customerName != "" {
				term, err := s.lookupTermDays(ctx, invoiceRepo, termDays, customerName)
				if err != nil {
					return fmt.Errorf("lookup term for %s: %w", customerName, err)
				}
				payment.TermDays = term
			}

			batch = append(batch, payment)
		}

		if err := paymentRepo.SaveBatch(ctx, batch); err != nil {
			return fmt.Errorf("save payments: %w", err)
		}
		result.Inserted = len(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment import finished",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.SkippedRows))
	return result, nil
}

// delayAgainstInvoice returns max(0, value date − referenced invoice's due
// date), 0 when the payment references no invoice or the invoice is
// unknown. Lookups are cached per batch.
func (s *PaymentImportService) delayAgainstInvoice(
	ctx context.Context,
	repo receivable.InvoiceRepository,
	cache map[string]*receivable.Invoice,
	payment *receivable.Payment,
) (int, error) {
	if payment.ValueDate == nil || payment.InvoiceNo == nil {
		return 0, nil
	}
	invoice, ok := cache[*payment.InvoiceNo]
	if !ok {
		var err error
		invoice, err = repo.FindByInvoiceNo(ctx, *payment.InvoiceNo)
		if err != nil && err != shared.ErrNotFound {
			return 0, fmt.Errorf("lookup invoice %s: %w", *payment.InvoiceNo, err)
		}
		cache[*payment.InvoiceNo] = invoice
	}
	if invoice == nil || invoice.DueDate == nil {
		return 0, nil
	}
	if diff := receivable.DaysBetween(*invoice.DueDate, *payment.ValueDate); diff > 0 {
		return diff, nil
	}
	return 0, nil
}

// lookupTermDays returns the term length of the customer's most recent
// invoice, nil when the customer has no invoice or it lacks dates. Results
// are memoized because payment batches repeat customers heavily.
func (s *PaymentImportService) lookupTermDays(
	ctx context.Context,
	repo receivable.InvoiceRepository,
	cache map[string]*int,
	customerName string,
) (*int, error) {
	if term, ok := cache[customerName]; ok {
		return term, nil
	}
	invoice, err := repo.LatestByCustomerName(ctx, customerName)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	var term *int
	if invoice != nil {
		term = invoice.DelayDays
	}
	cache[customerName] = term
	return term, nil
}
