// internal/domain/search/service.go
package search

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/domain/blog"
	"github.com/labuuit/backend/internal/domain/product"
	"github.com/labuuit/backend/internal/pkg/apperror"
	"github.com/labuuit/backend/internal/pkg/pagination"
)

const (
	universalLimit       = 5
	suggestionProducts   = 5
	suggestionCategories = 3
	suggestionBlogs      = 3
	suggestionLimit      = 10
	minSuggestionQuery   = 2
)

// Service handles keyword search across products, blogs and categories.
// On Postgres it uses full-text search ranked by ts_rank over the GIN
// indexes created at migration time; other dialects fall back to LIKE
// matching so the service stays usable in tests and local tooling.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new search service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// ProductRequest represents product search parameters
type ProductRequest struct {
	pagination.Params
	Query      string  `form:"q" binding:"required"`
	CategoryID uint    `form:"category"`
	MinPrice   float64 `form:"minPrice"`
	MaxPrice   float64 `form:"maxPrice"`
}

// BlogRequest represents blog search parameters
type BlogRequest struct {
	pagination.Params
	Query    string `form:"q" binding:"required"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

// ProductResults is a ranked page of products
type ProductResults struct {
	Products   []product.Product     `json:"products"`
	Pagination pagination.Pagination `json:"pagination"`
}

// BlogResults is a ranked page of blog posts
type BlogResults struct {
	Blogs      []blog.View           `json:"blogs"`
	Pagination pagination.Pagination `json:"pagination"`
}

// UniversalRequest represents universal search parameters. Category is
// forwarded to both collections: products read it as a category id, blogs
// as a category label.
type UniversalRequest struct {
	Query    string  `form:"q" binding:"required"`
	Category string  `form:"category"`
	MinPrice float64 `form:"minPrice"`
	MaxPrice float64 `form:"maxPrice"`
	Tag      string  `form:"tag"`
}

// UniversalResults aggregates the per-collection searches for one query
type UniversalResults struct {
	Query    string            `json:"query"`
	Products []product.Product `json:"products"`
	Blogs    []blog.View       `json:"blogs"`
}

// Suggestion is one autocomplete entry
type Suggestion struct {
	Text string `json:"text"`
	Slug string `json:"slug"`
	Type string `json:"type"`
}

// SearchProducts runs a ranked full-text search over active products
func (s *Service) SearchProducts(req *ProductRequest) (*ProductResults, error) {
	req.Normalize()

	query := s.db.Model(&product.Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("is_available = ?", true)

	if s.usePostgres() {
		query = query.Where(
			"to_tsvector('simple', coalesce(name,'') || ' ' || coalesce(description,'')) @@ plainto_tsquery('simple', ?)",
			req.Query,
		)
	} else {
		needle := "%" + strings.ToLower(req.Query) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", needle, needle)
	}
	if req.CategoryID != 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	if s.usePostgres() {
		query = query.Order(clause.OrderBy{Expression: gorm.Expr(
			"ts_rank(to_tsvector('simple', coalesce(name,'') || ' ' || coalesce(description,'')), plainto_tsquery('simple', ?)) DESC",
			req.Query,
		)})
	} else {
		query = query.Order("name ASC")
	}

	var products []product.Product
	if err := query.Offset(req.Offset()).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	return &ProductResults{
		Products:   products,
		Pagination: pagination.New(total, req.Page, req.Limit),
	}, nil
}

// SearchBlogs runs a ranked full-text search over published posts
func (s *Service) SearchBlogs(req *BlogRequest) (*BlogResults, error) {
	req.Normalize()

	query := s.db.Model(&blog.Blog{}).
		Preload("Author").
		Where("published = ?", true)

	if s.usePostgres() {
		query = query.Where(
			"to_tsvector('simple', coalesce(title,'') || ' ' || coalesce(content,'') || ' ' || coalesce(tags,'') || ' ' || coalesce(meta_description,'')) @@ plainto_tsquery('simple', ?)",
			req.Query,
		)
	} else {
		needle := "%" + strings.ToLower(req.Query) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(tags) LIKE ? OR LOWER(meta_description) LIKE ?",
			needle, needle, needle, needle,
		)
	}
	if req.Category != "" {
		query = query.Where("(',' || categories || ',') LIKE ?", "%,"+strings.TrimSpace(req.Category)+",%")
	}
	if req.Tag != "" {
		query = query.Where("(',' || tags || ',') LIKE ?", "%,"+strings.TrimSpace(req.Tag)+",%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	if s.usePostgres() {
		query = query.Order(clause.OrderBy{Expression: gorm.Expr(
			"ts_rank(to_tsvector('simple', coalesce(title,'') || ' ' || coalesce(content,'') || ' ' || coalesce(tags,'') || ' ' || coalesce(meta_description,'')), plainto_tsquery('simple', ?)) DESC",
			req.Query,
		)})
	} else {
		query = query.Order("created_at DESC")
	}

	var blogs []blog.Blog
	if err := query.Offset(req.Offset()).Limit(req.Limit).Find(&blogs).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	views := make([]blog.View, 0, len(blogs))
	for i := range blogs {
		views = append(views, *blog.NewView(&blogs[i]))
	}
	return &BlogResults{
		Blogs:      views,
		Pagination: pagination.New(total, req.Page, req.Limit),
	}, nil
}

// UniversalSearch runs the product and blog searches concurrently with the
// caller's filters forwarded to both, each capped to a small result set.
// Either failure fails the whole call.
func (s *Service) UniversalSearch(req *UniversalRequest) (*UniversalResults, error) {
	prodReq := &ProductRequest{
		Query:    req.Query,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	}
	if id, err := strconv.ParseUint(req.Category, 10, 32); err == nil {
		prodReq.CategoryID = uint(id)
	}
	prodReq.Page = 1
	prodReq.Limit = universalLimit

	blogReq := &BlogRequest{
		Query:    req.Query,
		Category: req.Category,
		Tag:      req.Tag,
	}
	blogReq.Page = 1
	blogReq.Limit = universalLimit

	var (
		wg       sync.WaitGroup
		products *ProductResults
		blogs    *BlogResults
		prodErr  error
		blogErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		products, prodErr = s.SearchProducts(prodReq)
	}()
	go func() {
		defer wg.Done()
		blogs, blogErr = s.SearchBlogs(blogReq)
	}()
	wg.Wait()

	if prodErr != nil {
		return nil, apperror.From(prodErr)
	}
	if blogErr != nil {
		return nil, apperror.From(blogErr)
	}

	return &UniversalResults{
		Query:    req.Query,
		Products: products.Products,
		Blogs:    blogs.Blogs,
	}, nil
}

// Suggestions returns autocomplete entries for a query prefix. Queries
// shorter than two characters return nothing. On Postgres each source
// is ordered by ts_rank over the same expressions the GIN indexes cover,
// with the name as a tiebreaker; other dialects keep the name ordering.
func (s *Service) Suggestions(query string) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if len(query) < minSuggestionQuery {
		return []Suggestion{}, nil
	}
	needle := "%" + strings.ToLower(query) + "%"

	productQuery := s.db.Model(&product.Product{}).
		Where("is_available = ? AND LOWER(name) LIKE ?", true, needle)
	if s.usePostgres() {
		productQuery = productQuery.Order(clause.OrderBy{Expression: gorm.Expr(
			"ts_rank(to_tsvector('simple', coalesce(name,'') || ' ' || coalesce(description,'')), plainto_tsquery('simple', ?)) DESC, name ASC",
			query,
		)})
	} else {
		productQuery = productQuery.Order("name ASC")
	}
	var products []product.Product
	if err := productQuery.Limit(suggestionProducts).Find(&products).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	categoryQuery := s.db.Model(&product.Category{}).
		Where("LOWER(name) LIKE ?", needle)
	if s.usePostgres() {
		categoryQuery = categoryQuery.Order(clause.OrderBy{Expression: gorm.Expr(
			"ts_rank(to_tsvector('simple', coalesce(name,'') || ' ' || coalesce(description,'')), plainto_tsquery('simple', ?)) DESC, name ASC",
			query,
		)})
	} else {
		categoryQuery = categoryQuery.Order("name ASC")
	}
	var categories []product.Category
	if err := categoryQuery.Limit(suggestionCategories).Find(&categories).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	blogQuery := s.db.Model(&blog.Blog{}).
		Where("published = ? AND LOWER(title) LIKE ?", true, needle)
	if s.usePostgres() {
		blogQuery = blogQuery.Order(clause.OrderBy{Expression: gorm.Expr(
			"ts_rank(to_tsvector('simple', coalesce(title,'') || ' ' || coalesce(content,'') || ' ' || coalesce(tags,'') || ' ' || coalesce(meta_description,'')), plainto_tsquery('simple', ?)) DESC, title ASC",
			query,
		)})
	} else {
		blogQuery = blogQuery.Order("title ASC")
	}
	var blogs []blog.Blog
	if err := blogQuery.Limit(suggestionBlogs).Find(&blogs).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	suggestions := make([]Suggestion, 0, len(products)+len(categories)+len(blogs))
	for _, p := range products {
		suggestions = append(suggestions, Suggestion{Text: p.Name, Slug: p.Slug, Type: "product"})
	}
	for _, c := range categories {
		suggestions = append(suggestions, Suggestion{Text: c.Name, Slug: c.Slug, Type: "category"})
	}
	for _, b := range blogs {
		suggestions = append(suggestions, Suggestion{Text: b.Title, Slug: b.Slug, Type: "blog"})
	}

	return rankSuggestions(suggestions, query), nil
}

// rankSuggestions moves prefix matches ahead of substring matches without
// disturbing the relative order within each group, then truncates.
func rankSuggestions(suggestions []Suggestion, query string) []Suggestion {
	prefix := strings.ToLower(query)
	sort.SliceStable(suggestions, func(i, j int) bool {
		pi := strings.HasPrefix(strings.ToLower(suggestions[i].Text), prefix)
		pj := strings.HasPrefix(strings.ToLower(suggestions[j].Text), prefix)
		return pi && !pj
	})
	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}
	return suggestions
}

func (s *Service) usePostgres() bool {
	return s.db.Dialector.Name() == "postgres"
}
