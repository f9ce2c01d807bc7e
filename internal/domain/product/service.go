// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/pkg/apperror"
	"github.com/labuuit/backend/internal/pkg/pagination"
	"github.com/labuuit/backend/internal/pkg/slug"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	pagination.Params
	Search    string `form:"search"`
	Available string `form:"available"`
	SortBy    string `form:"sortBy,default=created_at"`
	SortOrder string `form:"sortOrder,default=desc"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"min=0"`
	Stock       int      `json:"stock" binding:"min=0"`
	Images      []string `json:"images"`
	ImageAlts   []string `json:"image_alts"`
	CategoryID  uint     `json:"category_id" binding:"required"`
	Slug        string   `json:"slug"`
	IsAvailable *bool    `json:"is_available"`
}

// UpdateRequest represents product update data
type UpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Stock       *int     `json:"stock" binding:"omitempty,min=0"`
	Images      []string `json:"images"`
	CategoryID  *uint    `json:"category_id"`
	Slug        *string  `json:"slug"`
	IsAvailable *bool    `json:"is_available"`
}

// ListResponse represents a page of products
type ListResponse struct {
	Products   []Product             `json:"products"`
	Pagination pagination.Pagination `json:"pagination"`
}

// CategoryListResponse is a page of products scoped to one category
type CategoryListResponse struct {
	Category   *Category             `json:"category"`
	Products   []Product             `json:"products"`
	Pagination pagination.Pagination `json:"pagination"`
}

// GetProducts retrieves products with filtering, sorting and pagination
func (s *Service) GetProducts(req *ListRequest) (*ListResponse, error) {
	req.Normalize()
	return s.listProducts(req, s.db.Model(&Product{}))
}

// GetProductsByCategory retrieves products belonging to a category. The
// category must exist.
func (s *Service) GetProductsByCategory(categoryID uint, req *ListRequest) (*CategoryListResponse, error) {
	var category Category
	if err := s.db.Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}

	req.Normalize()
	page, err := s.listProducts(req, s.db.Model(&Product{}).Where("category_id = ?", categoryID))
	if err != nil {
		return nil, err
	}

	return &CategoryListResponse{
		Category:   &category,
		Products:   page.Products,
		Pagination: page.Pagination,
	}, nil
}

func (s *Service) listProducts(req *ListRequest, query *gorm.DB) (*ListResponse, error) {
	query = query.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})

	if req.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(req.Search)+"%")
	}
	if req.Available == "true" {
		query = query.Where("is_available = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	var products []Product
	err := query.
		Order(buildOrderClause(req.SortBy, req.SortOrder)).
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&products).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &ListResponse{
		Products:   products,
		Pagination: pagination.New(total, req.Page, req.Limit),
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var product Product
	err := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}
	return &product, nil
}

// GetProductBySlug retrieves a single product by slug
func (s *Service) GetProductBySlug(productSlug string) (*Product, error) {
	var product Product
	err := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("slug = ?", productSlug).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}
	return &product, nil
}

// CreateProduct creates a new product. The referenced category must exist;
// nothing is persisted otherwise.
func (s *Service) CreateProduct(req *CreateRequest) (*Product, error) {
	var category Category
	if err := s.db.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category not found")
		}
		return nil, apperror.Internal(err)
	}

	productSlug := req.Slug
	if productSlug == "" {
		productSlug = slug.Derive(req.Name)
	}

	var existing Product
	if err := s.db.Where("slug = ?", productSlug).First(&existing).Error; err == nil {
		return nil, apperror.Conflict(fmt.Sprintf("product with slug %q already exists", productSlug))
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Internal(err)
	}

	isAvailable := true
	if req.IsAvailable != nil {
		isAvailable = *req.IsAvailable
	}

	product := Product{
		Name:        req.Name,
		Slug:        productSlug,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		IsAvailable: isAvailable,
		Images:      buildImages(req.Images, req.ImageAlts),
	}
	if err := s.db.Create(&product).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	product.Category = category
	return &product, nil
}

// UpdateProduct updates an existing product. A category change is validated
// against the taxonomy; a rename re-derives the slug unless one is supplied.
func (s *Service) UpdateProduct(id uint, req *UpdateRequest) (*Product, error) {
	var product Product
	if err := s.db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product not found")
		}
		return nil, apperror.Internal(err)
	}

	if req.CategoryID != nil {
		var category Category
		if err := s.db.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("category not found")
			}
			return nil, apperror.Internal(err)
		}
	}

	updates := make(map[string]interface{})
	if req.Name != nil && *req.Name != product.Name {
		updates["name"] = *req.Name
		if req.Slug == nil {
			updates["slug"] = slug.Derive(*req.Name)
		}
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if newSlug, ok := updates["slug"].(string); ok {
		var existing Product
		err := s.db.Where("slug = ? AND id <> ?", newSlug, id).First(&existing).Error
		if err == nil {
			return nil, apperror.Conflict(fmt.Sprintf("product with slug %q already exists", newSlug))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal(err)
		}
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.IsAvailable != nil {
		updates["is_available"] = *req.IsAvailable
	}

	if len(updates) > 0 {
		if err := s.db.Model(&product).Updates(updates).Error; err != nil {
			return nil, apperror.Internal(err)
		}
	}

	if req.Images != nil {
		if err := s.db.Where("product_id = ?", id).Delete(&ProductImage{}).Error; err != nil {
			return nil, apperror.Internal(err)
		}
		images := buildImages(req.Images, nil)
		for i := range images {
			images[i].ProductID = id
		}
		if len(images) > 0 {
			if err := s.db.Create(&images).Error; err != nil {
				return nil, apperror.Internal(err)
			}
		}
	}

	return s.GetProduct(id)
}

// DeleteProduct removes a product
func (s *Service) DeleteProduct(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Product{})
	if result.Error != nil {
		return apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product not found")
	}
	return nil
}

// buildOrderClause builds a safe ORDER BY clause from request parameters
func buildOrderClause(sortBy, sortOrder string) string {
	allowed := map[string]string{
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
		"createdAt":  "created_at",
		"updated_at": "updated_at",
	}

	column, ok := allowed[sortBy]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s", column, direction)
}

func buildImages(urls, alts []string) []ProductImage {
	images := make([]ProductImage, 0, len(urls))
	for i, url := range urls {
		if url == "" {
			continue
		}
		img := ProductImage{URL: url, SortOrder: i}
		if i < len(alts) {
			img.AltText = alts[i]
		}
		images = append(images, img)
	}
	return images
}
