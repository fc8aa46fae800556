package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository defines persistence for cart items
type CartRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)
	FindByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (*CartItem, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]CartItem, error)
	Save(ctx context.Context, item *CartItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WishlistRepository defines persistence for wishlist items
type WishlistRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*WishlistItem, error)
	FindByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (*WishlistItem, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]WishlistItem, error)
	Save(ctx context.Context, item *WishlistItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}
