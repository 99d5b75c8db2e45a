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

// InvoiceImportResult summarizes one invoice batch.
type InvoiceImportResult struct {
	TotalRows   int `json:"total_rows"`
	Imported    int `json:"imported"`
	Updated     int `json:"updated"`
	SkippedRows int `json:"skipped_rows"`
}

// InvoiceImportService ingests the AR invoice export. Invoices are keyed by
// invoice number, so re-uploading the same file updates rows in place
// instead of duplicating them. The whole batch runs in one transaction.
type InvoiceImportService struct {
	db     *persistence.Database
	logger *zap.Logger
}

// NewInvoiceImportService creates a new InvoiceImportService
func NewInvoiceImportService(db *persistence.Database, logger *zap.Logger) *InvoiceImportService {
	return &InvoiceImportService{db: db, logger: logger}
}

// Import upserts the batch. Rows missing the invoice number or the customer
// number are skipped silently; everything else is parsed leniently, with
// missing amounts treated as zero and missing dates left unset.
func (s *InvoiceImportService) Import(ctx context.Context, rows []*spreadsheet.Row) (*InvoiceImportResult, error) {
	// A header-only upload is a valid empty batch.
	if len(rows) == 0 {
		return &InvoiceImportResult{}, nil
	}

	cols := resolveColumns(rows, invoiceColumns)
	if _, ok := cols[FieldInvoiceNo]; !ok {
		return nil, shared.NewDomainError("MISSING_COLUMN", "invoice file has no Transaction Number column")
	}

	result := &InvoiceImportResult{TotalRows: len(rows)}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		customerRepo := persistence.NewGormCustomerRepository(tx)
		invoiceRepo := persistence.NewGormInvoiceRepository(tx)

		// Customers repeat across invoice rows; resolve each once.
		customers := make(map[string]*receivable.Customer)

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			invoiceNo := strings.TrimSpace(cols.value(row, FieldInvoiceNo))
			customerNo := receivable.NormalizeCustomerNo(cols.value(row, FieldCustomerNo))
			if invoiceNo == "" || strings.EqualFold(invoiceNo, "nan") || customerNo == nil {
				result.SkippedRows++
				continue
			}

			customerName := strings.TrimSpace(cols.value(row, FieldCustomerName))

			customer, err := upsertCustomer(ctx, customerRepo, customers, *customerNo, customerName)
			if err != nil {
				return fmt.Errorf("resolve customer for invoice %s: %w", invoiceNo, err)
			}

			total, _ := spreadsheet.ParseAmount(cols.value(row, FieldTotalAmount))
			open, _ := spreadsheet.ParseAmount(cols.value(row, FieldOpenBalance))

			invoice := &receivable.Invoice{
				InvoiceNo:    invoiceNo,
				CustomerID:   &customer.ID,
				CustomerNo:   customerNo,
				CustomerName: customerName,
				InvoiceDate:  spreadsheet.ParseDate(cols.value(row, FieldInvoiceDate)),
				DueDate:      spreadsheet.ParseDate(cols.value(row, FieldDueDate)),
				Currency:     strings.TrimSpace(cols.value(row, FieldCurrency)),
				TotalAmount:  total,
				OpenBalance:  open,
			}
			if invoice.CustomerName == "" {
				invoice.CustomerName = customer.Name
			}
			invoice.DelayDays = invoice.TermDays()

			existing, err := invoiceRepo.FindByInvoiceNo(ctx, invoiceNo)
			if err != nil && err != shared.ErrNotFound {
				return fmt.Errorf("lookup invoice %s: %w", invoiceNo, err)
			}
			if existing != nil {
				invoice.ID = existing.ID
				result.Updated++
			} else {
				result.Imported++
			}

			if err := invoiceRepo.Save(ctx, invoice); err != nil {
				return fmt.Errorf("save invoice %s: %w", invoiceNo, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("invoice import finished",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.SkippedRows))
	return result, nil
}

// upsertCustomer finds or creates the customer a row refers to, keyed by
// customer number. First sighting creates the record; later sightings
// refresh the display name when the export carries a different one.
func upsertCustomer(
	ctx context.Context,
	repo receivable.CustomerRepository,
	cache map[string]*receivable.Customer,
	customerNo string,
	name string,
) (*receivable.Customer, error) {
	if c, ok := cache[customerNo]; ok {
		if name != "" && c.Name != name {
			c.Name = name
			if err := repo.Save(ctx, c); err != nil {
				return nil, err
			}
		}
		return c, nil
	}

	customer, err := repo.FindByCustomerNo(ctx, customerNo)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if customer == nil {
		no := customerNo
		customer = &receivable.Customer{CustomerNo: &no, Name: name}
		if customer.Name == "" {
			customer.Name = customerNo
		}
		if err := repo.Save(ctx, customer); err != nil {
			return nil, err
		}
	} else if name != "" && customer.Name != name {
		customer.Name = name
		if err := repo.Save(ctx, customer); err != nil {
			return nil, err
		}
	}

	cache[customerNo] = customer
	return customer, nil
}
