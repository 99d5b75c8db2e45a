package persistence

import (
	"context"
	"errors"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements receivable.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Save creates or updates an invoice and writes back the generated ID
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *receivable.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	invoice.ID = model.ID
	return nil
}

// FindByInvoiceNo finds an invoice by its unique invoice number
func (r *GormInvoiceRepository) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*receivable.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("invoice_no = ?", invoiceNo).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCustomerNo returns a customer's invoices ordered by due date
func (r *GormInvoiceRepository) FindByCustomerNo(ctx context.Context, customerNo string) ([]*receivable.Invoice, error) {
	var rows []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("customer_no = ?", customerNo).
		Order("due_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// FindByCustomerName returns the invoices booked under an exact customer name
func (r *GormInvoiceRepository) FindByCustomerName(ctx context.Context, name string) ([]*receivable.Invoice, error) {
	var rows []models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("customer_name = ?", name).
		Order("due_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

// LatestByCustomerName returns the customer's most recent invoice by invoice
// date, or ErrNotFound when the customer has none.
func (r *GormInvoiceRepository) LatestByCustomerName(ctx context.Context, name string) (*receivable.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Where("customer_name = ?", name).
		Order("invoice_date DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every invoice
func (r *GormInvoiceRepository) FindAll(ctx context.Context) ([]*receivable.Invoice, error) {
	var rows []models.InvoiceModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(rows), nil
}

func invoicesToDomain(rows []models.InvoiceModel) []*receivable.Invoice {
	invoices := make([]*receivable.Invoice, len(rows))
	for i := range rows {
		invoices[i] = rows[i].ToDomain()
	}
	return invoices
}
