package models

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	ProducerID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	Name             string                `gorm:"type:varchar(200);not null"`
	Description      string                `gorm:"type:text"`
	CategoryID       *uuid.UUID            `gorm:"type:uuid;index"`
	Price            decimal.Decimal       `gorm:"type:decimal(18,2);not null"`
	Unit             string                `gorm:"type:varchar(50);not null"`
	MinOrderQuantity int                   `gorm:"not null;default:1"`
	StockQuantity    int                   `gorm:"not null;default:0"`
	MainImageURL     string                `gorm:"type:varchar(500)"`
	Status           catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProducerID:        m.ProducerID,
		Name:              m.Name,
		Description:       m.Description,
		CategoryID:        m.CategoryID,
		Price:             m.Price,
		Unit:              m.Unit,
		MinOrderQuantity:  m.MinOrderQuantity,
		StockQuantity:     m.StockQuantity,
		MainImageURL:      m.MainImageURL,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.ProducerID = p.ProducerID
	m.Name = p.Name
	m.Description = p.Description
	m.CategoryID = p.CategoryID
	m.Price = p.Price
	m.Unit = p.Unit
	m.MinOrderQuantity = p.MinOrderQuantity
	m.StockQuantity = p.StockQuantity
	m.MainImageURL = p.MainImageURL
	m.Status = p.Status
}

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	AggregateModel
	Name        string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		SortOrder:         m.SortOrder,
	}
}

// FromDomain populates the persistence model from a domain Category entity.
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.SortOrder = c.SortOrder
}
