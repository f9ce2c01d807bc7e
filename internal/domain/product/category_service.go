// internal/domain/product/category_service.go
package product

import (
	"errors"

	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/pkg/apperror"
	"github.com/labuuit/backend/internal/pkg/slug"
)

// CategoryService handles category business logic
type CategoryService struct {
	db     *gorm.DB
	config *config.Config
}

// NewCategoryService creates a new category service
func NewCategoryService(db *gorm.DB, cfg *config.Config) *CategoryService {
	return &CategoryService{db: db, config: cfg}
}

// CategoryCreateRequest represents category creation data
type CategoryCreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// CategoryUpdateRequest represents category update data
type CategoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Slug        *string `json:"slug"`
}

// GetCategories retrieves all categories sorted by name
func (s *CategoryService) GetCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return categories, nil
}

// GetCategory retrieves a single category by ID
func (s *CategoryService) GetCategory(id uint) (*Category, error) {
	var category Category
	if err := s.db.Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}
	return &category, nil
}

// GetCategoryBySlug retrieves a single category by slug
func (s *CategoryService) GetCategoryBySlug(categorySlug string) (*Category, error) {
	var category Category
	if err := s.db.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}
	return &category, nil
}

// CreateCategory creates a new category. Names are unique; the slug is
// derived from the name unless supplied explicitly.
func (s *CategoryService) CreateCategory(req *CategoryCreateRequest) (*Category, error) {
	var existing Category
	if err := s.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return nil, apperror.Conflict("category with this name already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}

	categorySlug := req.Slug
	if categorySlug == "" {
		categorySlug = slug.Derive(req.Name)
	}
	if err := s.ensureSlugFree(categorySlug, 0); err != nil {
		return nil, err
	}

	category := Category{
		Name:        req.Name,
		Slug:        categorySlug,
		Description: req.Description,
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	return &category, nil
}

// UpdateCategory updates an existing category. Renaming re-derives the slug
// unless an explicit slug accompanies the change.
func (s *CategoryService) UpdateCategory(id uint, req *CategoryUpdateRequest) (*Category, error) {
	category, err := s.GetCategory(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != category.Name {
		var existing Category
		err := s.db.Where("name = ? AND id <> ?", *req.Name, id).First(&existing).Error
		if err == nil {
			return nil, apperror.Conflict("category with this name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal(err)
		}

		updates["name"] = *req.Name
		if req.Slug == nil {
			updates["slug"] = slug.Derive(*req.Name)
		}
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if newSlug, ok := updates["slug"].(string); ok {
		if err := s.ensureSlugFree(newSlug, id); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperror.Internal(err)
		}
	}

	return category, nil
}

// DeleteCategory deletes a category. Categories still referenced by
// products cannot be removed.
func (s *CategoryService) DeleteCategory(id uint) error {
	var productCount int64
	if err := s.db.Model(&Product{}).Where("category_id = ?", id).Count(&productCount).Error; err != nil {
		return apperror.Internal(err)
	}
	if productCount > 0 {
		return apperror.BadRequest("cannot delete category with existing products")
	}

	result := s.db.Where("id = ?", id).Delete(&Category{})
	if result.Error != nil {
		return apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("category not found")
	}
	return nil
}

func (s *CategoryService) ensureSlugFree(categorySlug string, excludeID uint) error {
	var existing Category
	err := s.db.Where("slug = ? AND id <> ?", categorySlug, excludeID).First(&existing).Error
	if err == nil {
		return apperror.Conflict("category with this slug already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Internal(err)
	}
	return nil
}
