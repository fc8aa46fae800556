package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CommissionStatus represents the settlement status of a commission record
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// Commission is the platform's share of an order, written in the same
// transaction as the order itself.
type Commission struct {
	shared.BaseAggregateRoot
	OrderID              uuid.UUID
	ProducerID           uuid.UUID
	AdminID              uuid.UUID
	OrderAmount          decimal.Decimal
	CommissionAmount     decimal.Decimal
	ProducerAmount       decimal.Decimal
	CommissionPercentage decimal.Decimal
	Status               CommissionStatus
}

// NewCommission creates the commission record for an order
func NewCommission(order *Order, producerID, adminID uuid.UUID, percentage decimal.Decimal) *Commission {
	return &Commission{
		BaseAggregateRoot:    shared.NewBaseAggregateRoot(),
		OrderID:              order.ID,
		ProducerID:           producerID,
		AdminID:              adminID,
		OrderAmount:          order.TotalAmount,
		CommissionAmount:     order.CommissionAmount,
		ProducerAmount:       order.ProducerAmount,
		CommissionPercentage: percentage,
		Status:               CommissionStatusPending,
	}
}

// MarkPaid records commission settlement to the platform
func (c *Commission) MarkPaid() {
	c.Status = CommissionStatusPaid
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}
