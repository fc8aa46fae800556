package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindByProducer(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Save(ctx context.Context, order *Order) error
	// CreateWithCommission persists the order and its commission record
	// in one transaction.
	CreateWithCommission(ctx context.Context, order *Order, commission *Commission) error
}

// CommissionRepository defines persistence operations for commissions
type CommissionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Commission, error)
	FindByProducer(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]Commission, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Commission, error)
	Save(ctx context.Context, commission *Commission) error
}
