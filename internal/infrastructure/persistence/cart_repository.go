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

// GormCartRepository implements shopping.CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// FindByID finds a cart item by its ID
func (r *GormCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*shopping.CartItem, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyerAndProduct finds the buyer's cart entry for a product
func (r *GormCartRepository) FindByBuyerAndProduct(ctx context.Context, buyerID, productID uuid.UUID) (*shopping.CartItem, error) {
	var model models.CartItemModel
	if err := r.db.WithContext(ctx).
		First(&model, "buyer_id = ? AND product_id = ?", buyerID, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyer lists a buyer's cart, oldest entries first
func (r *GormCartRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) ([]shopping.CartItem, error) {
	var itemModels []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]shopping.CartItem, len(itemModels))
	for i, model := range itemModels {
		items[i] = *model.ToDomain()
	}
	return items, nil
}

// Save creates or updates a cart item
func (r *GormCartRepository) Save(ctx context.Context, item *shopping.CartItem) error {
	var model models.CartItemModel
	model.FromDomain(item)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a cart item
func (r *GormCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.CartItemModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
