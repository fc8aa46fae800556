package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shopping"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWishlistRepository implements shopping.WishlistRepository using GORM
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GormWishlistRepository
func NewGormWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// FindByID finds a wishlist item by its ID
func (r *GormWishlistRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.WishlistItem, error) {
	var model models.WishlistItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyerAndProduct finds the buyer's wishlist entry for a product
func (r *GormWishlistRepository) FindByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (*shopping.WishlistItem, error) {
	var model models.WishlistItemModel
	if err := r.db.WithContext(ctx).
		First(&model, "buyer_id = ? AND product_id = ?", buyerID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyer lists a buyer's wishlist, newest entries first
func (r *GormWishlistRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]shopping.WishlistItem, error) {
	var itemModels []models.WishlistItemModel
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]shopping.WishlistItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a wishlist item
func (r *GormWishlistRepository) Save(ctx context.Context, item *shopping.WishlistItem) error {
	var model models.WishlistItemModel
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a wishlist item
func (r *GormWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.WishlistItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
