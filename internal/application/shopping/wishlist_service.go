package shopping

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
	"go.uber.org/zap"
)

// WishlistService manages a buyer's saved products
type WishlistService struct {
	wishlistRepo shopping.WishlistRepository
	productRepo  catalog.ProductRepository
	logger       *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(wishlistRepo shopping.WishlistRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *WishlistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo, logger: logger}
}

// AddItem saves a product to the buyer's wishlist. Saving a product
// that is already on the wishlist returns the existing entry.
// Inactive products may be wished for; the buyer is waiting on them.
func (s *WishlistService) AddItem(ctx context.Context, input AddWishlistItemInput) (*shopping.WishlistItem, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.IsOwnedBy(input.BuyerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Producers cannot shop their own products")
	}

	existing, err := s.wishlistRepo.FindByBuyerAndProduct(ctx, input.BuyerID, input.ProductID)
	switch {
	case err == nil:
		return existing, nil
	case errors.Is(err, shared.ErrNotFound):
		item := shopping.NewWishlistItem(input.BuyerID, input.ProductID)
		if err := s.wishlistRepo.Save(ctx, item); err != nil {
			s.logger.Error("Failed to persist wishlist entry", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL", "Failed to add to wishlist")
		}
		return item, nil
	default:
		return nil, err
	}
}

// ListItems returns the buyer's wishlist
func (s *WishlistService) ListItems(ctx context.Context, buyerID uuid.UUID) ([]shopping.WishlistItem, error) {
	return s.wishlistRepo.FindByBuyer(ctx, buyerID)
}

// RemoveItem deletes a wishlist entry, treating foreign entries as absent
func (s *WishlistService) RemoveItem(ctx context.Context, itemID, buyerID uuid.UUID) error {
	item, err := s.wishlistRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.IsOwnedBy(buyerID) {
		return shared.ErrNotFound
	}
	return s.wishlistRepo.Delete(ctx, itemID)
}
