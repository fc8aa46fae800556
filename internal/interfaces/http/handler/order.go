package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/marketplace/backend/internal/application/trade"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
)

// OrderHandler handles order endpoints
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// PlaceOrderRequest is the request body for placing an order
type PlaceOrderRequest struct {
	ProductID           string `json:"product_id" binding:"required,uuid"`
	Quantity            int    `json:"quantity" binding:"required,min=1"`
	ShippingAddress     string `json:"shipping_address" binding:"required,max=500"`
	ShippingMethod      string `json:"shipping_method" binding:"max=100"`
	PaymentMethod       string `json:"payment_method" binding:"max=100"`
	SpecialInstructions string `json:"special_instructions" binding:"max=1000"`
}

// UpdateOrderStatusRequest is the request body for a status transition
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse is the outward order shape
type OrderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	BuyerID             uuid.UUID           `json:"buyer_id"`
	ProductID           uuid.UUID           `json:"product_id"`
	Quantity            int                 `json:"quantity"`
	UnitPrice           decimal.Decimal     `json:"unit_price"`
	TotalAmount         decimal.Decimal     `json:"total_amount"`
	Currency            string              `json:"currency"`
	ShippingAddress     string              `json:"shipping_address"`
	ShippingMethod      string              `json:"shipping_method,omitempty"`
	PaymentMethod       string              `json:"payment_method,omitempty"`
	SpecialInstructions string              `json:"special_instructions,omitempty"`
	Status              trade.OrderStatus   `json:"status"`
	PaymentStatus       trade.PaymentStatus `json:"payment_status"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

func orderResponseFrom(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:                  o.ID,
		BuyerID:             o.BuyerID,
		ProductID:           o.ProductID,
		Quantity:            o.Quantity,
		UnitPrice:           o.UnitPrice,
		TotalAmount:         o.TotalAmount,
		Currency:            o.Currency,
		ShippingAddress:     o.ShippingAddress,
		ShippingMethod:      o.ShippingMethod,
		PaymentMethod:       o.PaymentMethod,
		SpecialInstructions: o.SpecialInstructions,
		Status:              o.Status,
		PaymentStatus:       o.PaymentStatus,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func orderResponsesFrom(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = orderResponseFrom(&orders[i])
	}
	return out
}

// Create places an order for the authenticated buyer
func (h *OrderHandler) Create(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	order, err := h.orderService.PlaceOrder(c.Request.Context(), tradeapp.PlaceOrderInput{
		BuyerID:             middleware.CurrentUserID(c),
		ProductID:           productID,
		Quantity:            req.Quantity,
		ShippingAddress:     req.ShippingAddress,
		ShippingMethod:      req.ShippingMethod,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, orderResponseFrom(order))
}

// List returns the authenticated buyer's orders
func (h *OrderHandler) List(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListBuyerOrders(c.Request.Context(), middleware.CurrentUserID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderResponsesFrom(orders))
}

// Get returns a single order visible to the caller
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := middleware.CurrentUser(c)
	order, err := h.orderService.GetOrder(c.Request.Context(), id, user.ID, user.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderResponseFrom(order))
}

// UpdateStatus transitions an order's status, producer only
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), tradeapp.UpdateOrderStatusInput{
		OrderID: id,
		ActorID: middleware.CurrentUserID(c),
		Status:  req.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderResponseFrom(order))
}

// ListProducerOrders returns orders for the authenticated producer's products
func (h *OrderHandler) ListProducerOrders(c *gin.Context) {
	filter, ok := bindListFilter(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListProducerOrders(c.Request.Context(), middleware.CurrentUserID(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orderResponsesFrom(orders))
}
