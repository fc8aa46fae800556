package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the fulfilment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentStatus represents the payment status of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Order represents a buyer's purchase of a product.
// Commission amounts are computed once at creation and never recalculated.
type Order struct {
	shared.BaseAggregateRoot
	BuyerID             uuid.UUID
	ProductID           uuid.UUID
	Quantity            int
	UnitPrice           decimal.Decimal
	TotalAmount         decimal.Decimal
	Currency            string
	ShippingAddress     string
	ShippingMethod      string
	PaymentMethod       string
	SpecialInstructions string
	Status              OrderStatus
	PaymentStatus       PaymentStatus
	CommissionAmount    decimal.Decimal
	ProducerAmount      decimal.Decimal
}

// NewOrder creates a new order and splits the commission off the total.
// The split uses decimal arithmetic so the two shares always sum to the total.
func NewOrder(buyerID, productID uuid.UUID, quantity int, unitPrice decimal.Decimal, shippingAddress string, commissionPercentage decimal.Decimal) (*Order, error) {
	if quantity < 1 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Shipping address is required")
	}
	if commissionPercentage.IsNegative() || commissionPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Commission percentage must be between 0 and 100")
	}

	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	commission := total.Mul(commissionPercentage).Div(decimal.NewFromInt(100)).Round(2)
	producerShare := total.Sub(commission)

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BuyerID:           buyerID,
		ProductID:         productID,
		Quantity:          quantity,
		UnitPrice:         unitPrice,
		TotalAmount:       total,
		Currency:          "NGN",
		ShippingAddress:   strings.TrimSpace(shippingAddress),
		PaymentMethod:     "bank_transfer",
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
		CommissionAmount:  commission,
		ProducerAmount:    producerShare,
	}, nil
}

// UpdateStatus transitions the fulfilment status
func (o *Order) UpdateStatus(status OrderStatus) error {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status")
	}
	if o.Status == OrderStatusCancelled || o.Status == OrderStatusDelivered {
		return shared.ErrInvalidState
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
	return nil
}

// MarkPaid records a successful payment
func (o *Order) MarkPaid() {
	o.PaymentStatus = PaymentStatusPaid
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
