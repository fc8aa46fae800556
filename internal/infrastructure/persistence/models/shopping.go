package models

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shopping"
)

// CartItemModel is the persistence model for cart entries.
// The buyer/product pair is unique; repeat adds update the row.
type CartItemModel struct {
	BaseModel
	BuyerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_buyer_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_buyer_product,priority:2"`
	Quantity  int       `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (CartItemModel) TableName() string {
	return "cart_items"
}

// ToDomain converts the persistence model to a domain CartItem entity.
func (m *CartItemModel) ToDomain() *shopping.CartItem {
	return &shopping.CartItem{
		BaseEntity: m.BaseModel.ToDomain(),
		BuyerID:    m.BuyerID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
	}
}

// FromDomain populates the persistence model from a domain CartItem entity.
func (m *CartItemModel) FromDomain(i *shopping.CartItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.BuyerID = i.BuyerID
	m.ProductID = i.ProductID
	m.Quantity = i.Quantity
}

// WishlistItemModel is the persistence model for wishlist entries.
type WishlistItemModel struct {
	BaseModel
	BuyerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_buyer_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_wishlist_buyer_product,priority:2"`
}

// TableName returns the table name for GORM
func (WishlistItemModel) TableName() string {
	return "wishlist_items"
}

// ToDomain converts the persistence model to a domain WishlistItem entity.
func (m *WishlistItemModel) ToDomain() *shopping.WishlistItem {
	return &shopping.WishlistItem{
		BaseEntity: m.BaseModel.ToDomain(),
		BuyerID:    m.BuyerID,
		ProductID:  m.ProductID,
	}
}

// FromDomain populates the persistence model from a domain WishlistItem entity.
func (m *WishlistItemModel) FromDomain(i *shopping.WishlistItem) {
	m.FromDomainBaseEntity(i.BaseEntity)
	m.BuyerID = i.BuyerID
	m.ProductID = i.ProductID
}
