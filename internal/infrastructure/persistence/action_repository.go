package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormActionRepository implements receivable.ActionRepository using GORM
type GormActionRepository struct {
	db *gorm.DB
}

// NewGormActionRepository creates a new GormActionRepository
func NewGormActionRepository(db *gorm.DB) *GormActionRepository {
	return &GormActionRepository{db: db}
}

// Save creates or updates an action
func (r *GormActionRepository) Save(ctx context.Context, action *receivable.Action) error {
	model := models.ActionModelFromDomain(action)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an action by ID
func (r *GormActionRepository) FindByID(ctx context.Context, id uuid.UUID) (*receivable.Action, error) {
	var model models.ActionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns actions newest first, optionally filtered by customer number
func (r *GormActionRepository) List(ctx context.Context, customerNo *string, limit int) ([]*receivable.Action, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if customerNo != nil {
		query = query.Where("customer_no = ?", *customerNo)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.ActionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	actions := make([]*receivable.Action, len(rows))
	for i := range rows {
		actions[i] = rows[i].ToDomain()
	}
	return actions, nil
}
