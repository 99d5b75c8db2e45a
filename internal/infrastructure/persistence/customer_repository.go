package persistence

import (
	"context"
	"errors"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements receivable.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// Save creates or updates a customer and writes back the generated ID
func (r *GormCustomerRepository) Save(ctx context.Context, customer *receivable.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	customer.ID = model.ID
	return nil
}

// FindByCustomerNo finds a customer by their external customer number
func (r *GormCustomerRepository) FindByCustomerNo(ctx context.Context, customerNo string) (*receivable.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("customer_no = ?", customerNo).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a customer by exact name
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*receivable.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByRegion returns customers assigned to a region. A nil regionID
// returns the customers without any region.
func (r *GormCustomerRepository) FindByRegion(ctx context.Context, regionID *int64) ([]*receivable.Customer, error) {
	query := r.db.WithContext(ctx).Order("name")
	if regionID == nil {
		query = query.Where("region_id IS NULL")
	} else {
		query = query.Where("region_id = ?", *regionID)
	}

	var rows []models.CustomerModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

// FindAll returns all customers ordered by name
func (r *GormCustomerRepository) FindAll(ctx context.Context) ([]*receivable.Customer, error) {
	var rows []models.CustomerModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return customersToDomain(rows), nil
}

func customersToDomain(rows []models.CustomerModel) []*receivable.Customer {
	customers := make([]*receivable.Customer, len(rows))
	for i := range rows {
		customers[i] = rows[i].ToDomain()
	}
	return customers
}
