package shopping

import "github.com/google/uuid"

// AddCartItemInput contains the input for adding a product to a cart
type AddCartItemInput struct {
	BuyerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// AddWishlistItemInput contains the input for saving a product to a wishlist
type AddWishlistItemInput struct {
	BuyerID   uuid.UUID
	ProductID uuid.UUID
}
