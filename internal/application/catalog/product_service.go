package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles catalog listing operations
type ProductService struct {
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
	logger      *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(productRepo catalog.ProductRepository, userRepo identity.UserRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, userRepo: userRepo, logger: logger}
}

// CreateProduct lists a new product for an approved producer
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput) (*catalog.Product, error) {
	producer, err := s.userRepo.FindByID(ctx, input.ProducerID)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	if producer.Role != identity.RoleProducer {
		return nil, shared.NewDomainError("FORBIDDEN", "Only producers can list products")
	}
	if !producer.Approved {
		return nil, shared.NewDomainError("FORBIDDEN", "Producer account is pending approval")
	}

	product, err := catalog.NewProduct(input.ProducerID, input.Name, input.Unit, input.Price)
	if err != nil {
		return nil, err
	}
	product.Description = input.Description
	product.CategoryID = input.CategoryID
	product.MainImageURL = input.MainImageURL
	if input.MinOrderQuantity > 0 {
		product.MinOrderQuantity = input.MinOrderQuantity
	}
	if err := product.SetStock(input.StockQuantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to persist product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create product")
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("producer_id", input.ProducerID.String()))
	return product, nil
}

// GetProduct returns a single product
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListActive returns the browsable catalog with the total count
func (s *ProductService) ListActive(ctx context.Context, filter shared.Filter) (shared.Paginated[catalog.Product], error) {
	products, err := s.productRepo.FindActive(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return shared.Paginated[catalog.Product]{}, shared.NewDomainError("INTERNAL", "Failed to list products")
	}

	if filter.Filters == nil {
		filter.Filters = map[string]interface{}{}
	}
	filter.Filters["status"] = catalog.ProductStatusActive
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to count products", zap.Error(err))
		return shared.Paginated[catalog.Product]{}, shared.NewDomainError("INTERNAL", "Failed to list products")
	}

	return shared.NewPaginated(products, total, filter.Page, filter.Limit()), nil
}

// ListByProducer returns a producer's own products, active or not
func (s *ProductService) ListByProducer(ctx context.Context, producerID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	return s.productRepo.FindByProducer(ctx, producerID, filter)
}

// UpdateProduct applies the editable fields after an ownership check
func (s *ProductService) UpdateProduct(ctx context.Context, input UpdateProductInput) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsOwnedBy(input.ActorID) {
		return nil, shared.ErrForbidden
	}

	if err := product.Update(input.Name, input.Description); err != nil {
		return nil, err
	}
	if err := product.SetPrice(input.Price); err != nil {
		return nil, err
	}
	if err := product.SetStock(input.StockQuantity); err != nil {
		return nil, err
	}
	if input.MinOrderQuantity > 0 {
		product.MinOrderQuantity = input.MinOrderQuantity
	}
	product.CategoryID = input.CategoryID
	if input.MainImageURL != "" {
		product.MainImageURL = input.MainImageURL
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		s.logger.Error("Failed to persist product update", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to update product")
	}
	return product, nil
}

// DeleteProduct removes a product after an ownership check
func (s *ProductService) DeleteProduct(ctx context.Context, productID, actorID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !product.IsOwnedBy(actorID) {
		return shared.ErrForbidden
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		s.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.String("producer_id", actorID.String()))
	return nil
}
