package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/trade"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBuyer finds the buyer's orders
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("buyer_id = ?", buyerID)
	return r.findWhere(query, filter)
}

// FindByProducer finds orders placed against the producer's products
func (r *GormOrderRepository) FindByProducer(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Joins("JOIN products ON products.id = orders.product_id").
		Where("products.producer_id = ?", producerID)
	return r.findWhere(query, filter)
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	return r.findWhere(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
}

// Save creates or updates an order
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	var model models.OrderModel
	model.FromDomain(order)
	return r.db.WithContext(ctx).Save(&model).Error
}

// CreateWithCommission persists the order and its commission record in
// one transaction. Either both rows exist afterwards or neither does.
func (r *GormOrderRepository) CreateWithCommission(ctx context.Context, order *trade.Order, commission *trade.Commission) error {
	var orderModel models.OrderModel
	orderModel.FromDomain(order)
	var commissionModel models.CommissionModel
	commissionModel.FromDomain(commission)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&orderModel).Error; err != nil {
			return err
		}
		return tx.Create(&commissionModel).Error
	})
}

func (r *GormOrderRepository) findWhere(query *gorm.DB, filter shared.Filter) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("orders.status = ?", status)
	}
	err := query.
		Order("orders.created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orderModels).Error
	if err != nil {
		return nil, err
	}

	orders := make([]trade.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, nil
}

// GormCommissionRepository implements trade.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// FindByID finds a commission record by its ID
func (r *GormCommissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Commission, error) {
	var model models.CommissionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProducer finds commission records for the producer
func (r *GormCommissionRepository) FindByProducer(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]trade.Commission, error) {
	query := r.db.WithContext(ctx).Model(&models.CommissionModel{}).
		Where("producer_id = ?", producerID)
	return r.findWhere(query, filter)
}

// FindAll finds all commission records matching the filter
func (r *GormCommissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Commission, error) {
	return r.findWhere(r.db.WithContext(ctx).Model(&models.CommissionModel{}), filter)
}

// Save creates or updates a commission record
func (r *GormCommissionRepository) Save(ctx context.Context, commission *trade.Commission) error {
	var model models.CommissionModel
	model.FromDomain(commission)
	return r.db.WithContext(ctx).Save(&model).Error
}

func (r *GormCommissionRepository) findWhere(query *gorm.DB, filter shared.Filter) ([]trade.Commission, error) {
	var commissionModels []models.CommissionModel
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&commissionModels).Error
	if err != nil {
		return nil, err
	}

	commissions := make([]trade.Commission, len(commissionModels))
	for i, model := range commissionModels {
		commissions[i] = *model.ToDomain()
	}
	return commissions, nil
}
