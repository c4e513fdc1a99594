package service

import (
	"fmt"

	"burst-backend/internal/repository"
)

// CategoryService provides category-related business logic
type CategoryService struct {
	repo repository.CategoryRepositoryInterface
}

// Ensure CategoryService implements CategoryServiceInterface
var _ CategoryServiceInterface = (*CategoryService)(nil)

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo repository.CategoryRepositoryInterface) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetAll retrieves categories with pagination
func (s *CategoryService) GetAll(page, pageSize int) (*CategoryListResponse, error) {
	// categories are small reference data, so the default page returns all of them
	page, pageSize, offset := normalizePage(page, pageSize, 1000, 1000)

	cats, total, err := s.repo.GetAll(pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	responses := make([]CategoryResponse, len(cats))
	for i := range cats {
		responses[i] = toCategoryResponse(&cats[i])
	}

	return &CategoryListResponse{
		Categories: responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
