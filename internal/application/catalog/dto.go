package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput contains the input for listing a new product
type CreateProductInput struct {
	ProducerID       uuid.UUID
	Name             string
	Description      string
	CategoryID       *uuid.UUID
	Price            decimal.Decimal
	Unit             string
	MinOrderQuantity int
	StockQuantity    int
	MainImageURL     string
}

// UpdateProductInput contains the editable product fields
type UpdateProductInput struct {
	ProductID        uuid.UUID
	ActorID          uuid.UUID
	Name             string
	Description      string
	CategoryID       *uuid.UUID
	Price            decimal.Decimal
	MinOrderQuantity int
	StockQuantity    int
	MainImageURL     string
}

// CreateCategoryInput contains the input for a new category
type CreateCategoryInput struct {
	Name        string
	Description string
	SortOrder   int
}
