package action

import (
	"context"

	"github.com/google/uuid"
	"github.com/receivable360/backend/internal/domain/receivable"
	"go.uber.org/zap"
)

// ActionService records and lists the collection actions agreed on a
// customer during review meetings.
type ActionService struct {
	actionRepo receivable.ActionRepository
	logger     *zap.Logger
}

// NewActionService creates a new ActionService
func NewActionService(actionRepo receivable.ActionRepository, logger *zap.Logger) *ActionService {
	return &ActionService{actionRepo: actionRepo, logger: logger}
}

// Create records a new open action for a customer.
func (s *ActionService) Create(ctx context.Context, customerNo *string, customerName, actionType, note string) (*receivable.Action, error) {
	action, err := receivable.NewAction(customerNo, customerName, actionType, note)
	if err != nil {
		return nil, err
	}
	if err := s.actionRepo.Save(ctx, action); err != nil {
		return nil, err
	}
	s.logger.Info("action recorded",
		zap.String("action_type", action.ActionType),
		zap.String("customer_name", action.CustomerName))
	return action, nil
}

// List returns actions newest first, optionally filtered by customer
// number. A limit of 0 returns everything.
func (s *ActionService) List(ctx context.Context, customerNo *string, limit int) ([]*receivable.Action, error) {
	return s.actionRepo.List(ctx, customerNo, limit)
}

// Close marks an action done.
func (s *ActionService) Close(ctx context.Context, id uuid.UUID) (*receivable.Action, error) {
	action, err := s.actionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	action.Close()
	if err := s.actionRepo.Save(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}
