package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	shoppingapp "github.com/marketplace/backend/internal/application/shopping"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	BaseHandler
	wishlistService *shoppingapp.WishlistService
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(wishlistService *shoppingapp.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// AddWishlistItemRequest is the request body for saving a product
type AddWishlistItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

// WishlistItemResponse is the outward wishlist entry shape
type WishlistItemResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func wishlistItemResponseFrom(item *shopping.WishlistItem) WishlistItemResponse {
	return WishlistItemResponse{
		ID:        item.ID,
		ProductID: item.ProductID,
		CreatedAt: item.CreatedAt,
	}
}

// Add saves a product to the caller's wishlist
func (h *WishlistHandler) Add(c *gin.Context) {
	var req AddWishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, "Invalid product_id")
		return
	}

	item, err := h.wishlistService.AddItem(c.Request.Context(), shoppingapp.AddWishlistItemInput{
		BuyerID:   middleware.CurrentUserID(c),
		ProductID: productID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, wishlistItemResponseFrom(item))
}

// List returns the caller's wishlist
func (h *WishlistHandler) List(c *gin.Context) {
	items, err := h.wishlistService.ListItems(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]WishlistItemResponse, len(items))
	for i := range items {
		out[i] = wishlistItemResponseFrom(&items[i])
	}
	h.Success(c, out)
}

// Remove deletes a wishlist entry
func (h *WishlistHandler) Remove(c *gin.Context) {
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.wishlistService.RemoveItem(c.Request.Context(), itemID, middleware.CurrentUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
