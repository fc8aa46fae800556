package shopping

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// WishlistItem marks a product a buyer wants to keep an eye on.
// Saving the same product twice is a no-op at the service layer.
type WishlistItem struct {
	shared.BaseEntity
	BuyerID   uuid.UUID
	ProductID uuid.UUID
}

// NewWishlistItem creates a wishlist entry for a buyer and product
func NewWishlistItem(buyerID, productID uuid.UUID) *WishlistItem {
	return &WishlistItem{
		BaseEntity: shared.NewBaseEntity(),
		BuyerID:    buyerID,
		ProductID:  productID,
	}
}

// IsOwnedBy reports whether the given user owns this wishlist entry
func (i *WishlistItem) IsOwnedBy(userID uuid.UUID) bool {
	return i.BuyerID == userID
}
