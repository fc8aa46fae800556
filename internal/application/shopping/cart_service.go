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

// CartService manages a buyer's shopping cart
type CartService struct {
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo shopping.CartRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{cartRepo: cartRepo, productRepo: productRepo, logger: logger}
}

// AddItem puts a product in the buyer's cart. Adding a product that is
// already in the cart accumulates the quantity on the existing entry.
func (s *CartService) AddItem(ctx context.Context, input AddCartItemInput) (*shopping.CartItem, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Status != catalog.ProductStatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is not available")
	}
	if product.IsOwnedBy(input.BuyerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Producers cannot shop their own products")
	}

	existing, err := s.cartRepo.FindByBuyerAndProduct(ctx, input.BuyerID, input.ProductID)
	switch {
	case err == nil:
		if err := existing.AddQuantity(input.Quantity); err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, existing); err != nil {
			s.logger.Error("Failed to update cart entry", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL", "Failed to update cart")
		}
		return existing, nil
	case errors.Is(err, shared.ErrNotFound):
		item, err := shopping.NewCartItem(input.BuyerID, input.ProductID, input.Quantity)
		if err != nil {
			return nil, err
		}
		if err := s.cartRepo.Save(ctx, item); err != nil {
			s.logger.Error("Failed to persist cart entry", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL", "Failed to add to cart")
		}
		return item, nil
	default:
		return nil, err
	}
}

// ListItems returns the buyer's cart
func (s *CartService) ListItems(ctx context.Context, buyerID uuid.UUID) ([]shopping.CartItem, error) {
	return s.cartRepo.FindByBuyer(ctx, buyerID)
}

// RemoveItem deletes a cart entry. A foreign entry reads as absent so
// cart contents are never disclosed across buyers.
func (s *CartService) RemoveItem(ctx context.Context, itemID, buyerID uuid.UUID) error {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.IsOwnedBy(buyerID) {
		return shared.ErrNotFound
	}
	return s.cartRepo.Delete(ctx, itemID)
}
