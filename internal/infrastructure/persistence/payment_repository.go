package persistence

import (
	"context"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// paymentBatchSize bounds the INSERT statement size for large exports.
const paymentBatchSize = 500

// GormPaymentRepository implements receivable.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// DeleteAll removes every payment row. Payment imports replace the whole
// batch, so this runs inside the import transaction.
func (r *GormPaymentRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.PaymentModel{}).Error
}

// SaveBatch inserts a batch of payments
func (r *GormPaymentRepository) SaveBatch(ctx context.Context, payments []*receivable.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	rows := make([]*models.PaymentModel, len(payments))
	for i, p := range payments {
		rows[i] = models.PaymentModelFromDomain(p)
	}
	return r.db.WithContext(ctx).CreateInBatches(rows, paymentBatchSize).Error
}

// FindByCustomerNo returns a customer's payments
func (r *GormPaymentRepository) FindByCustomerNo(ctx context.Context, customerNo string) ([]*receivable.Payment, error) {
	var rows []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("customer_no = ?", customerNo).
		Order("payment_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

// FindByCustomerName returns the payments booked under an exact customer name
func (r *GormPaymentRepository) FindByCustomerName(ctx context.Context, name string) ([]*receivable.Payment, error) {
	var rows []models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("customer_name = ?", name).
		Order("payment_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

// FindAll returns every payment
func (r *GormPaymentRepository) FindAll(ctx context.Context) ([]*receivable.Payment, error) {
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

func paymentsToDomain(rows []models.PaymentModel) []*receivable.Payment {
	payments := make([]*receivable.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].ToDomain()
	}
	return payments
}
