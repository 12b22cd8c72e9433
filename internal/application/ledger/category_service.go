package ledger

import (
	"context"
	"errors"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CategoryService handles expense category operations
type CategoryService struct {
	categoryRepo ledger.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo ledger.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategory creates a new expense category. Names are unique per owner.
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	existing, err := s.categoryRepo.FindByName(ctx, ownerID, req.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
	}

	category, err := ledger.NewExpenseCategory(ownerID, req.Name, req.Description, req.IsMajor)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetCategory retrieves a category by ID
func (s *CategoryService) GetCategory(ctx context.Context, ownerID, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// ListCategories lists all categories of an owner
func (s *CategoryService) ListCategories(ctx context.Context, ownerID uuid.UUID) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return ToCategoryResponses(categories), nil
}

// UpdateCategory updates a category
func (s *CategoryService) UpdateCategory(ctx context.Context, ownerID, id uuid.UUID, req CategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if category.Name != req.Name {
		existing, err := s.categoryRepo.FindByName(ctx, ownerID, req.Name)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A category with this name already exists")
		}
	}

	if err := category.Update(req.Name, req.Description, req.IsMajor); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// DeleteCategory removes a category. Existing expenses keep their
// category ID; reports simply stop resolving the name.
func (s *CategoryService) DeleteCategory(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, ownerID, id)
}
