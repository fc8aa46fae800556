package catalog

import (
	"context"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CategoryService handles category browsing and admin maintenance
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

// ListCategories returns all categories in display order
func (s *CategoryService) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	return s.categoryRepo.FindAll(ctx)
}

// CreateCategory adds a new category
func (s *CategoryService) CreateCategory(ctx context.Context, input CreateCategoryInput) (*catalog.Category, error) {
	category, err := catalog.NewCategory(input.Name, input.Description)
	if err != nil {
		return nil, err
	}
	category.SortOrder = input.SortOrder

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		s.logger.Error("Failed to persist category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL", "Failed to create category")
	}
	return category, nil
}
