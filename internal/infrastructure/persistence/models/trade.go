package models

import (
	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order domain entity.
type OrderModel struct {
	AggregateModel
	BuyerID             uuid.UUID           `gorm:"type:uuid;not null;index"`
	ProductID           uuid.UUID           `gorm:"type:uuid;not null;index"`
	Quantity            int                 `gorm:"not null"`
	UnitPrice           decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	TotalAmount         decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Currency            string              `gorm:"type:varchar(3);not null;default:'NGN'"`
	ShippingAddress     string              `gorm:"type:text;not null"`
	ShippingMethod      string              `gorm:"type:varchar(100)"`
	PaymentMethod       string              `gorm:"type:varchar(50)"`
	SpecialInstructions string              `gorm:"type:text"`
	Status              trade.OrderStatus   `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus       trade.PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	CommissionAmount    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	ProducerAmount      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		BuyerID:             m.BuyerID,
		ProductID:           m.ProductID,
		Quantity:            m.Quantity,
		UnitPrice:           m.UnitPrice,
		TotalAmount:         m.TotalAmount,
		Currency:            m.Currency,
		ShippingAddress:     m.ShippingAddress,
		ShippingMethod:      m.ShippingMethod,
		PaymentMethod:       m.PaymentMethod,
		SpecialInstructions: m.SpecialInstructions,
		Status:              m.Status,
		PaymentStatus:       m.PaymentStatus,
		CommissionAmount:    m.CommissionAmount,
		ProducerAmount:      m.ProducerAmount,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.BuyerID = o.BuyerID
	m.ProductID = o.ProductID
	m.Quantity = o.Quantity
	m.UnitPrice = o.UnitPrice
	m.TotalAmount = o.TotalAmount
	m.Currency = o.Currency
	m.ShippingAddress = o.ShippingAddress
	m.ShippingMethod = o.ShippingMethod
	m.PaymentMethod = o.PaymentMethod
	m.SpecialInstructions = o.SpecialInstructions
	m.Status = o.Status
	m.PaymentStatus = o.PaymentStatus
	m.CommissionAmount = o.CommissionAmount
	m.ProducerAmount = o.ProducerAmount
}

// CommissionModel is the persistence model for the Commission domain entity.
type CommissionModel struct {
	AggregateModel
	OrderID              uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex"`
	ProducerID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	AdminID              uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderAmount          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	CommissionAmount     decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	ProducerAmount       decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	CommissionPercentage decimal.Decimal        `gorm:"type:decimal(5,2);not null"`
	Status               trade.CommissionStatus `gorm:"type:varchar(20);not null;default:'pending'"`
}

// TableName returns the table name for GORM
func (CommissionModel) TableName() string {
	return "commissions"
}

// ToDomain converts the persistence model to a domain Commission entity.
func (m *CommissionModel) ToDomain() *trade.Commission {
	return &trade.Commission{
		BaseAggregateRoot:    m.ToDomainAggregateRoot(),
		OrderID:              m.OrderID,
		ProducerID:           m.ProducerID,
		AdminID:              m.AdminID,
		OrderAmount:          m.OrderAmount,
		CommissionAmount:     m.CommissionAmount,
		ProducerAmount:       m.ProducerAmount,
		CommissionPercentage: m.CommissionPercentage,
		Status:               m.Status,
	}
}

// FromDomain populates the persistence model from a domain Commission entity.
func (m *CommissionModel) FromDomain(c *trade.Commission) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.OrderID = c.OrderID
	m.ProducerID = c.ProducerID
	m.AdminID = c.AdminID
	m.OrderAmount = c.OrderAmount
	m.CommissionAmount = c.CommissionAmount
	m.ProducerAmount = c.ProducerAmount
	m.CommissionPercentage = c.CommissionPercentage
	m.Status = c.Status
}
