package trade

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/realtime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderNotifier pushes order events to live connections
type OrderNotifier interface {
	NotifyUser(userID uuid.UUID, notification realtime.Notification)
	NotifyAdmins(notification realtime.Notification)
}

// OrderService handles order placement and fulfilment. Commission is
// split off the order total once, at placement, and the order and
// commission rows are written in the same transaction.
type OrderService struct {
	orderRepo      trade.OrderRepository
	commissionRepo trade.CommissionRepository
	productRepo    catalog.ProductRepository
	userRepo       identity.UserRepository
	notifier       OrderNotifier
	commissionPct  decimal.Decimal
	logger         *zap.Logger
}

// NewOrderService creates a new order service. commissionPct is the
// platform percentage, e.g. 10 for 10%. notifier may be nil.
func NewOrderService(
	orderRepo trade.OrderRepository,
	commissionRepo trade.CommissionRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	notifier OrderNotifier,
	commissionPct decimal.Decimal,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo:      orderRepo,
		commissionRepo: commissionRepo,
		productRepo:    productRepo,
		userRepo:       userRepo,
		notifier:       notifier,
		commissionPct:  commissionPct,
		logger:         logger,
	}
}

// PlaceOrder creates an order with its commission record and notifies
// the producer over their live connections.
func (s *OrderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*trade.Order, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Status != catalog.ProductStatusActive {
		return nil, shared.NewDomainError("INVALID_STATE", "Product is not available for ordering")
	}
	if product.IsOwnedBy(input.BuyerID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Producers cannot order their own products")
	}
	if input.Quantity < product.MinOrderQuantity {
		return nil, shared.NewDomainError("INVALID_QUANTITY",
			fmt.Sprintf("Minimum order quantity is %d", product.MinOrderQuantity))
	}
	if input.Quantity > product.StockQuantity {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK", "Not enough stock available")
	}

	order, err := trade.NewOrder(input.BuyerID, product.ID, input.Quantity, product.Price, input.ShippingAddress, s.commissionPct)
	if err != nil {
		return nil, err
	}
	order.ShippingMethod = input.ShippingMethod
	order.SpecialInstructions = input.SpecialInstructions
	if input.PaymentMethod != "" {
		order.PaymentMethod = input.PaymentMethod
	}

	adminID := uuid.Nil
	if admin, err := s.userRepo.FindFirstAdmin(ctx); err == nil {
		adminID = admin.ID
	}

	commission := trade.NewCommission(order, product.ProducerID, adminID, s.commissionPct)

	if err := s.orderRepo.CreateWithCommission(ctx, order, commission); err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to place order")
	}

	// Stock is adjusted outside the order transaction; a failure here
	// leaves the order valid and is reconciled by the producer.
	if err := product.SetStock(product.StockQuantity - input.Quantity); err == nil {
		if err := s.productRepo.Save(ctx, product); err != nil {
			s.logger.Error("Failed to adjust stock after order",
				zap.String("product_id", product.ID.String()), zap.Error(err))
		}
	}

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("buyer_id", input.BuyerID.String()),
		zap.String("producer_id", product.ProducerID.String()),
		zap.String("total", order.TotalAmount.String()),
		zap.String("commission", order.CommissionAmount.String()))

	if s.notifier != nil {
		orderID := order.ID
		buyerID := input.BuyerID
		s.notifier.NotifyUser(product.ProducerID, realtime.Notification{
			Type:    "new_order",
			Title:   "New order received",
			Message: fmt.Sprintf("New order for %s (%d %s)", product.Name, input.Quantity, product.Unit),
			OrderID: &orderID,
			UserID:  &buyerID,
		})
	}

	return order, nil
}

// GetOrder returns an order visible to its buyer, the product's
// producer, or an admin.
func (s *OrderService) GetOrder(ctx context.Context, orderID, actorID uuid.UUID, role identity.Role) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID == actorID || role == identity.RoleAdmin {
		return order, nil
	}

	product, err := s.productRepo.FindByID(ctx, order.ProductID)
	if err == nil && product.IsOwnedBy(actorID) {
		return order, nil
	}
	return nil, shared.ErrForbidden
}

// ListBuyerOrders returns a buyer's own orders
func (s *OrderService) ListBuyerOrders(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	return s.orderRepo.FindByBuyer(ctx, buyerID, filter)
}

// ListProducerOrders returns orders against a producer's products
func (s *OrderService) ListProducerOrders(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	return s.orderRepo.FindByProducer(ctx, producerID, filter)
}

// UpdateStatus transitions an order's fulfilment status. Only the
// producer who owns the ordered product may transition it; the buyer
// is notified of the change.
func (s *OrderService) UpdateStatus(ctx context.Context, input UpdateOrderStatusInput) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, order.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(input.ActorID) {
		return nil, shared.ErrForbidden
	}

	if err := order.UpdateStatus(trade.OrderStatus(input.Status)); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to persist status change", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update order")
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("status", input.Status))

	if s.notifier != nil {
		orderID := order.ID
		s.notifier.NotifyUser(order.BuyerID, realtime.Notification{
			Type:    "order_status",
			Title:   "Order update",
			Message: fmt.Sprintf("Your order is now %s", order.Status),
			OrderID: &orderID,
		})
	}

	return order, nil
}
