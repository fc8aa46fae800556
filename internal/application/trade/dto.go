package trade

import (
	"github.com/google/uuid"
)

// PlaceOrderInput contains the input for placing an order
type PlaceOrderInput struct {
	BuyerID             uuid.UUID
	ProductID           uuid.UUID
	Quantity            int
	ShippingAddress     string
	ShippingMethod      string
	PaymentMethod       string
	SpecialInstructions string
}

// UpdateOrderStatusInput contains the input for a status transition
type UpdateOrderStatusInput struct {
	OrderID uuid.UUID
	ActorID uuid.UUID
	Status  string
}
