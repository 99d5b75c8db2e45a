package receivable

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/receivable360/backend/internal/domain/shared"
)

// ActionStatus is the lifecycle state of a collection action.
type ActionStatus string

const (
	ActionStatusOpen ActionStatus = "open"
	ActionStatusDone ActionStatus = "done"
)

// Action is a free-text collection note attached to a customer.
type Action struct {
	ID           uuid.UUID
	CustomerNo   *string
	CustomerName string
	ActionType   string
	Note         string
	Status       ActionStatus
	CreatedAt    time.Time
}

// NewAction creates an open action. ActionType is required; the rest is
// free text.
func NewAction(customerNo *string, customerName, actionType, note string) (*Action, error) {
	actionType = strings.TrimSpace(actionType)
	if actionType == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "action_type is required")
	}
	return &Action{
		ID:           uuid.New(),
		CustomerNo:   customerNo,
		CustomerName: strings.TrimSpace(customerName),
		ActionType:   actionType,
		Note:         strings.TrimSpace(note),
		Status:       ActionStatusOpen,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// Close marks the action done.
func (a *Action) Close() {
	a.Status = ActionStatusDone
}
