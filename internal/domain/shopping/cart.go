package shopping

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CartItem is one product a buyer has set aside for a future order.
// A buyer holds at most one cart row per product; adding the same
// product again accumulates the quantity.
type CartItem struct {
	shared.BaseEntity
	BuyerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// NewCartItem creates a cart entry for a buyer and product
func NewCartItem(buyerID, productID uuid.UUID, quantity int) (*CartItem, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	return &CartItem{
		BaseEntity: shared.NewBaseEntity(),
		BuyerID:    buyerID,
		ProductID:  productID,
		Quantity:   quantity,
	}, nil
}

// AddQuantity folds another add of the same product into this entry
func (i *CartItem) AddQuantity(quantity int) error {
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	i.Quantity += quantity
	i.Touch()
	return nil
}

// IsOwnedBy reports whether the given user owns this cart entry
func (i *CartItem) IsOwnedBy(userID uuid.UUID) bool {
	return i.BuyerID == userID
}
