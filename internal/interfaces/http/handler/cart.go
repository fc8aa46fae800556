package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	shoppingapp "github.com/marketplace/backend/internal/application/shopping"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// CartHandler handles shopping cart endpoints
type CartHandler struct {
	BaseHandler
	cartService *shoppingapp.CartService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *shoppingapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// AddCartItemRequest is the request body for adding a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1"`
}

// CartItemResponse is the outward cart entry shape
type CartItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func cartItemResponseFrom(item *shopping.CartItem) CartItemResponse {
	return CartItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

// Add puts a product in the caller's cart
func (h *CartHandler) Add(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	item, err := h.cartService.AddItem(c.Request.Context(), shoppingapp.AddCartItemInput{
		BuyerID:   middleware.CurrentUserID(c),
		ProductID: productID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cartItemResponseFrom(item))
}

// List returns the caller's cart
func (h *CartHandler) List(c *gin.Context) {
	items, err := h.cartService.ListItems(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]CartItemResponse, len(items))
	for i := range items {
		out[i] = cartItemResponseFrom(&items[i])
	}
	h.Success(c, out)
}

// Remove deletes a cart entry
func (h *CartHandler) Remove(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.cartService.RemoveItem(c.Request.Context(), itemID, middleware.CurrentUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
