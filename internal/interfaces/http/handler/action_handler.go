package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/receivable360/backend/internal/application/action"
	"github.com/receivable360/backend/internal/domain/receivable"
)

// CreateActionRequest is the payload for recording a collection action
type CreateActionRequest struct {
	CustomerNo   *string `json:"customer_no"`
	CustomerName string  `json:"customer_name"`
	ActionType   string  `json:"action_type" binding:"required"`
	Note         string  `json:"note"`
}

// ActionResponse is one action log entry
type ActionResponse struct {
	ID           uuid.UUID `json:"id"`
	CustomerNo   *string   `json:"customer_no"`
	CustomerName string    `json:"customer_name"`
	ActionType   string    `json:"action_type"`
	Note         string    `json:"note"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func actionResponse(a *receivable.Action) ActionResponse {
	return ActionResponse{
		ID:           a.ID,
		CustomerNo:   a.CustomerNo,
		CustomerName: a.CustomerName,
		ActionType:   a.ActionType,
		Note:         a.Note,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
	}
}

// ActionHandler serves the collection action log
type ActionHandler struct {
	BaseHandler
	actions *action.ActionService
}

// NewActionHandler creates a new ActionHandler
func NewActionHandler(actions *action.ActionService) *ActionHandler {
	return &ActionHandler{actions: actions}
}

// Create records a new open action
func (h *ActionHandler) Create(c *gin.Context) {
	var req CreateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "action_type is required")
		return
	}

	created, err := h.actions.Create(c.Request.Context(), req.CustomerNo, req.CustomerName, req.ActionType, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, actionResponse(created))
}

// List returns actions newest first, optionally filtered by customer_no
func (h *ActionHandler) List(c *gin.Context) {
	var customerNo *string
	if raw := c.Query("customer_no"); raw != "" {
		customerNo = &raw
	}
	limit := queryLimit(c, "limit", 0)

	actions, err := h.actions.List(c.Request.Context(), customerNo, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ActionResponse, 0, len(actions))
	for _, a := range actions {
		responses = append(responses, actionResponse(a))
	}
	h.Success(c, responses)
}

// Close marks an action done
func (h *ActionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "action id must be a UUID")
		return
	}

	closed, err := h.actions.Close(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, actionResponse(closed))
}

// RegisterRoutes registers the action log routes
func (h *ActionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	actions := rg.Group("/actions")
	{
		actions.GET("", h.List)
		actions.POST("", h.Create)
		actions.PATCH("/:id/close", h.Close)
	}
}
