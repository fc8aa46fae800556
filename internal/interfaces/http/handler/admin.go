package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/realtime"
	"github.com/shopspring/decimal"
)

// AdminHandler handles the admin-only endpoints
type AdminHandler struct {
	BaseHandler
	userService       *identityapp.UserService
	commissionService *tradeapp.CommissionService
	registry          *realtime.Registry
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	userService *identityapp.UserService,
	commissionService *tradeapp.CommissionService,
	registry *realtime.Registry,
) *AdminHandler {
	return &AdminHandler{
		userService:       userService,
		commissionService: commissionService,
		registry:          registry,
	}
}

// UpdateCommissionStatusRequest is the request body for settling a commission
type UpdateCommissionStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=paid"`
}

// CommissionResponse is the outward commission shape
type CommissionResponse struct {
	ID                   uuid.UUID              `json:"id"`
	OrderID              uuid.UUID              `json:"order_id"`
	ProducerID           uuid.UUID              `json:"producer_id"`
	OrderAmount          decimal.Decimal        `json:"order_amount"`
	CommissionAmount     decimal.Decimal        `json:"commission_amount"`
	ProducerAmount       decimal.Decimal        `json:"producer_amount"`
	CommissionPercentage decimal.Decimal        `json:"commission_percentage"`
	Status               trade.CommissionStatus `json:"status"`
	CreatedAt            time.Time              `json:"created_at"`
}

// OnlineUserResponse describes a connected user
type OnlineUserResponse struct {
	UserID      uuid.UUID     `json:"user_id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"display_name"`
	Role        identity.Role `json:"role"`
}

func commissionResponseFrom(cm *trade.Commission) CommissionResponse {
	return CommissionResponse{
		ID:                   cm.ID,
		OrderID:              cm.OrderID,
		ProducerID:           cm.ProducerID,
		OrderAmount:          cm.OrderAmount,
		CommissionAmount:     cm.CommissionAmount,
		ProducerAmount:       cm.ProducerAmount,
		CommissionPercentage: cm.CommissionPercentage,
		Status:               cm.Status,
		CreatedAt:            cm.CreatedAt,
	}
}

// ListUsers returns all users, paginated
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if role := c.Query("role"); role != "" {
		filter.Filters["role"] = identity.Role(role)
	}

	page, err := h.userService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]UserResponse, len(page.Items))
	for i, u := range page.Items {
		out[i] = userResponseFrom(u)
	}
	h.SuccessWithMeta(c, out, page.Total, page.Page, page.PageSize)
}

// ApproveUser approves a pending producer account
func (h *AdminHandler) ApproveUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	info, err := h.userService.ApproveUser(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, userResponseFrom(*info))
}

// ListCommissions returns commission records, paginated
func (h *AdminHandler) ListCommissions(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = trade.CommissionStatus(status)
	}

	commissions, err := h.commissionService.ListCommissions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]CommissionResponse, len(commissions))
	for i := range commissions {
		out[i] = commissionResponseFrom(&commissions[i])
	}
	h.Success(c, out)
}

// UpdateCommissionStatus settles a pending commission
func (h *AdminHandler) UpdateCommissionStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateCommissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	commission, err := h.commissionService.MarkPaid(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, commissionResponseFrom(commission))
}

// OnlineUsers returns the currently connected users, one entry per
// connection
func (h *AdminHandler) OnlineUsers(c *gin.Context) {
	identities := h.registry.ListOnline()
	out := make([]OnlineUserResponse, len(identities))
	for i, id := range identities {
		out[i] = OnlineUserResponse{
			UserID:      id.ID,
			Username:    id.Username,
			DisplayName: id.DisplayName,
			Role:        id.Role,
		}
	}
	h.Success(c, out)
}
