package settings

import (
	"context"
	"fmt"

	"github.com/receivable360/backend/internal/domain/receivable"
	"github.com/receivable360/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SettingsService reads and writes the two annual rate parameters every
// metrics computation depends on.
type SettingsService struct {
	settingRepo receivable.SettingRepository
	logger      *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingRepo receivable.SettingRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{settingRepo: settingRepo, logger: logger}
}

// Rates returns the stored rates, falling back to the documented defaults
// for any rate never written.
func (s *SettingsService) Rates(ctx context.Context) (receivable.Rates, error) {
	rates := receivable.DefaultRates()

	costOfCash, err := s.rate(ctx, receivable.SettingCostOfCashAnnual)
	if err != nil {
		return rates, err
	}
	if costOfCash != nil {
		rates.CostOfCashAnnual = *costOfCash
	}

	lateFee, err := s.rate(ctx, receivable.SettingLateFeeAnnual)
	if err != nil {
		return rates, err
	}
	if lateFee != nil {
		rates.LateFeeAnnual = *lateFee
	}

	return rates, nil
}

// Update stores both rates as a pair and returns the resulting values.
func (s *SettingsService) Update(ctx context.Context, costOfCashAnnual, lateFeeAnnual float64) (receivable.Rates, error) {
	var zero receivable.Rates
	if costOfCashAnnual < 0 || lateFeeAnnual < 0 {
		return zero, shared.NewDomainError("INVALID_INPUT", "annual rates must not be negative")
	}

	pairs := []receivable.Setting{
		{Key: receivable.SettingCostOfCashAnnual, Value: costOfCashAnnual},
		{Key: receivable.SettingLateFeeAnnual, Value: lateFeeAnnual},
	}
	for i := range pairs {
		if err := s.settingRepo.Upsert(ctx, &pairs[i]); err != nil {
			return zero, fmt.Errorf("store setting %s: %w", pairs[i].Key, err)
		}
	}

	s.logger.Info("rates updated",
		zap.Float64("cost_of_cash_annual", costOfCashAnnual),
		zap.Float64("late_fee_rate_annual", lateFeeAnnual))

	return receivable.Rates{
		CostOfCashAnnual: costOfCashAnnual,
		LateFeeAnnual:    lateFeeAnnual,
	}, nil
}

func (s *SettingsService) rate(ctx context.Context, key string) (*float64, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err == shared.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load setting %s: %w", key, err)
	}
	return &setting.Value, nil
}
