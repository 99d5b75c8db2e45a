package persistence

import (
	"context"
	"errors"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"github.com/receivable360/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRegionRepository implements receivable.RegionRepository using GORM
type GormRegionRepository struct {
	db *gorm.DB
}

// NewGormRegionRepository creates a new GormRegionRepository
func NewGormRegionRepository(db *gorm.DB) *GormRegionRepository {
	return &GormRegionRepository{db: db}
}

// Save creates or updates a region and writes back the generated ID
func (r *GormRegionRepository) Save(ctx context.Context, region *receivable.Region) error {
	model := models.RegionModelFromDomain(region)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		return err
	}
	region.ID = model.ID
	return nil
}

// FindByName finds a region by its unique name
func (r *GormRegionRepository) FindByName(ctx context.Context, name string) (*receivable.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByID finds a region by ID
func (r *GormRegionRepository) FindByID(ctx context.Context, id int64) (*receivable.Region, error) {
	var model models.RegionModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all regions ordered by name
func (r *GormRegionRepository) FindAll(ctx context.Context) ([]*receivable.Region, error) {
	var rows []models.RegionModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	regions := make([]*receivable.Region, len(rows))
	for i := range rows {
		regions[i] = rows[i].ToDomain()
	}
	return regions, nil
}
