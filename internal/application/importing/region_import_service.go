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

// RegionImportResult summarizes one region-mapping batch.
type RegionImportResult struct {
	TotalRows   int `json:"total_rows"`
	Updated     int `json:"updated"`
	Unmatched   int `json:"unmatched"`
	SkippedRows int `json:"skipped_rows"`
}

// RegionImportService ingests the customer-to-region mapping. Regions are
// created by name on demand; customers the mapping cannot resolve are
// counted, not failed.
type RegionImportService struct {
	db     *persistence.Database
	logger *zap.Logger
}

// NewRegionImportService creates a new RegionImportService
func NewRegionImportService(db *persistence.Database, logger *zap.Logger) *RegionImportService {
	return &RegionImportService{db: db, logger: logger}
}

// Import applies the mapping. A customer's region is only written when it
// actually changes, so re-uploads are cheap no-ops.
func (s *RegionImportService) Import(ctx context.Context, rows []*spreadsheet.Row) (*RegionImportResult, error) {
	// A header-only upload is a valid empty batch.
	if len(rows) == 0 {
		return &RegionImportResult{}, nil
	}

	cols := resolveColumns(rows, regionColumns)
	if _, ok := cols[FieldRegionName]; !ok {
		return nil, shared.NewDomainError("MISSING_COLUMN", "region file has no Region Name column")
	}

	result := &RegionImportResult{TotalRows: len(rows)}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		customerRepo := persistence.NewGormCustomerRepository(tx)
		regionRepo := persistence.NewGormRegionRepository(tx)

		regions := make(map[string]*receivable.Region)

		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				return err
			}

			regionName := strings.TrimSpace(cols.value(row, FieldRegionName))
			customerNo := receivable.NormalizeCustomerNo(cols.value(row, FieldCustomerNo))
			customerName := strings.TrimSpace(cols.value(row, FieldCustomerName))

			if regionName == "" || (customerNo == nil && customerName == "") {
				result.SkippedRows++
				continue
			}

			region, err := s.resolveRegion(ctx, regionRepo, regions, regionName)
			if err != nil {
				return fmt.Errorf("resolve region %s: %w", regionName, err)
			}

			customer, err := s.findCustomer(ctx, customerRepo, customerNo, customerName)
			if err != nil {
				return err
			}
			if customer == nil {
				result.Unmatched++
				continue
			}

			if customer.RegionID != nil && *customer.RegionID == region.ID {
				continue
			}
			customer.RegionID = &region.ID
			if err := customerRepo.Save(ctx, customer); err != nil {
				return fmt.Errorf("assign region to customer %s: %w", customer.Name, err)
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("region import finished",
		zap.Int("total_rows", result.TotalRows),
		zap.Int("updated", result.Updated),
		zap.Int("unmatched", result.Unmatched),
		zap.Int("skipped", result.SkippedRows))
	return result, nil
}

func (s *RegionImportService) resolveRegion(
	ctx context.Context,
	repo receivable.RegionRepository,
	cache map[string]*receivable.Region,
	name string,
) (*receivable.Region, error) {
	if r, ok := cache[name]; ok {
		return r, nil
	}
	region, err := repo.FindByName(ctx, name)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if region == nil {
		region = &receivable.Region{Name: name}
		if err := repo.Save(ctx, region); err != nil {
			return nil, err
		}
	}
	cache[name] = region
	return region, nil
}

// findCustomer resolves the row's customer. A row carrying a customer
// number is matched by number only; the name lookup applies solely to rows
// without one, so an unmatched number never silently binds to a customer
// that happens to share the name.
func (s *RegionImportService) findCustomer(
	ctx context.Context,
	repo receivable.CustomerRepository,
	customerNo *string,
	name string,
) (*receivable.Customer, error) {
	if customerNo != nil {
		customer, err := repo.FindByCustomerNo(ctx, *customerNo)
		if err != nil && err != shared.ErrNotFound {
			return nil, err
		}
		return customer, nil
	}
	if name == "" {
		return nil, nil
	}
	customer, err := repo.FindByName(ctx, name)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	return customer, nil
}
