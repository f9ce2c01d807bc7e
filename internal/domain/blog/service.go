// internal/domain/blog/service.go
package blog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/pkg/apperror"
	"github.com/labuuit/backend/internal/pkg/pagination"
	"github.com/labuuit/backend/internal/pkg/slug"
)

const metaDescriptionLength = 160

var htmlTags = regexp.MustCompile(`<[^>]*>`)

// Service handles blog business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new blog service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// CreateRequest represents blog creation data
type CreateRequest struct {
	Title           string   `json:"title" binding:"required"`
	Content         string   `json:"content" binding:"required"`
	Slug            string   `json:"slug"`
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Image           string   `json:"image"`
	ImageAlt        string   `json:"image_alt"`
	Tags            []string `json:"tags"`
	Categories      []string `json:"categories"`
	Published       *bool    `json:"published"`
}

// UpdateRequest represents blog update data
type UpdateRequest struct {
	Title           *string  `json:"title"`
	Content         *string  `json:"content"`
	Slug            *string  `json:"slug"`
	MetaTitle       *string  `json:"meta_title"`
	MetaDescription *string  `json:"meta_description"`
	Image           *string  `json:"image"`
	ImageAlt        *string  `json:"image_alt"`
	Tags            []string `json:"tags"`
	Categories      []string `json:"categories"`
	Published       *bool    `json:"published"`
}

// ListRequest represents blog list query parameters
type ListRequest struct {
	pagination.Params
	Tag             string `form:"tags"`
	Category        string `form:"categories"`
	AuthorID        uint   `form:"author"`
	Search          string `form:"search"`
	ShowUnpublished bool   `form:"-"`
}

// View is the API representation of a blog post with tags and categories
// expanded into arrays.
type View struct {
	Blog
	Tags       []string `json:"tags"`
	Categories []string `json:"categories"`
}

// ListResponse represents a page of blog posts
type ListResponse struct {
	Blogs      []View                `json:"blogs"`
	Pagination pagination.Pagination `json:"pagination"`
}

// StatsEntry is one label with its published post count
type StatsEntry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// NewView wraps a blog for API output
func NewView(b *Blog) *View {
	return &View{
		Blog:       *b,
		Tags:       b.TagList(),
		Categories: b.CategoryList(),
	}
}

func newViews(blogs []Blog) []View {
	views := make([]View, 0, len(blogs))
	for i := range blogs {
		views = append(views, *NewView(&blogs[i]))
	}
	return views
}

// GetBlogs retrieves blog posts with filtering and pagination. Unpublished
// posts are excluded unless the request opts in.
func (s *Service) GetBlogs(req *ListRequest) (*ListResponse, error) {
	req.Normalize()

	query := s.db.Model(&Blog{}).Preload("Author")
	if !req.ShowUnpublished {
		query = query.Where("published = ?", true)
	}
	if req.Tag != "" {
		query = query.Where(listMatchClause("tags"), listMatchArgs(req.Tag)...)
	}
	if req.Category != "" {
		query = query.Where(listMatchClause("categories"), listMatchArgs(req.Category)...)
	}
	if req.AuthorID != 0 {
		query = query.Where("author_id = ?", req.AuthorID)
	}
	if req.Search != "" {
		needle := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	var blogs []Blog
	err := query.
		Order("created_at DESC").
		Offset(req.Offset()).
		Limit(req.Limit).
		Find(&blogs).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &ListResponse{
		Blogs:      newViews(blogs),
		Pagination: pagination.New(total, req.Page, req.Limit),
	}, nil
}

// GetBlogsByCategory retrieves published posts labelled with a category name
func (s *Service) GetBlogsByCategory(category string, params pagination.Params) (*ListResponse, error) {
	req := &ListRequest{Params: params, Category: category}
	return s.GetBlogs(req)
}

// GetBlogBySlug retrieves a published post by slug
func (s *Service) GetBlogBySlug(blogSlug string) (*View, error) {
	var blog Blog
	err := s.db.
		Preload("Author").
		Where("slug = ? AND published = ?", blogSlug, true).
		First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("blog not found")
		}
		return nil, apperror.Internal(err)
	}
	return NewView(&blog), nil
}

// GetBlogByID retrieves a post by ID regardless of publication state
func (s *Service) GetBlogByID(id uint) (*View, error) {
	var blog Blog
	err := s.db.Preload("Author").Where("id = ?", id).First(&blog).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("blog not found")
		}
		return nil, apperror.Internal(err)
	}
	return NewView(&blog), nil
}

// CreateBlog creates a new post. Missing SEO fields are derived from the
// title and content.
func (s *Service) CreateBlog(authorID uint, req *CreateRequest) (*View, error) {
	blogSlug := req.Slug
	if blogSlug == "" {
		blogSlug = slug.Derive(req.Title)
	}
	if err := s.ensureSlugFree(blogSlug, 0); err != nil {
		return nil, err
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	blog := Blog{
		Title:           req.Title,
		Slug:            blogSlug,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Content:         req.Content,
		AuthorID:        authorID,
		Image:           req.Image,
		ImageAlt:        req.ImageAlt,
		Tags:            JoinList(req.Tags),
		Categories:      JoinList(req.Categories),
		Published:       published,
	}
	if blog.MetaTitle == "" {
		blog.MetaTitle = req.Title
	}
	if blog.MetaDescription == "" {
		blog.MetaDescription = DeriveMetaDescription(req.Content)
	}

	if err := s.db.Create(&blog).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return s.GetBlogByID(blog.ID)
}

// UpdateBlog updates an existing post. A title change re-derives the slug
// unless one is supplied.
func (s *Service) UpdateBlog(id uint, req *UpdateRequest) (*View, error) {
	var blog Blog
	if err := s.db.Where("id = ?", id).First(&blog).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("blog not found")
		}
		return nil, apperror.Internal(err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil && *req.Title != blog.Title {
		updates["title"] = *req.Title
		if req.Slug == nil {
			updates["slug"] = slug.Derive(*req.Title)
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
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.MetaTitle != nil {
		updates["meta_title"] = *req.MetaTitle
	}
	if req.MetaDescription != nil {
		updates["meta_description"] = *req.MetaDescription
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.ImageAlt != nil {
		updates["image_alt"] = *req.ImageAlt
	}
	if req.Tags != nil {
		updates["tags"] = JoinList(req.Tags)
	}
	if req.Categories != nil {
		updates["categories"] = JoinList(req.Categories)
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	if len(updates) > 0 {
		if err := s.db.Model(&blog).Updates(updates).Error; err != nil {
			return nil, apperror.Internal(err)
		}
	}
	return s.GetBlogByID(id)
}

// DeleteBlog removes a post
func (s *Service) DeleteBlog(id uint) error {
	result := s.db.Where("id = ?", id).Delete(&Blog{})
	if result.Error != nil {
		return apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("blog not found")
	}
	return nil
}

// GetTagStats returns every tag used by published posts with its post count,
// most used first.
func (s *Service) GetTagStats() ([]StatsEntry, error) {
	return s.listStats("tags")
}

// GetCategoryStats returns every category label used by published posts with
// its post count, most used first.
func (s *Service) GetCategoryStats() ([]StatsEntry, error) {
	return s.listStats("categories")
}

func (s *Service) listStats(column string) ([]StatsEntry, error) {
	if s.db.Dialector.Name() == "postgres" {
		var entries []StatsEntry
		query := fmt.Sprintf(`
			SELECT trim(label) AS name, COUNT(*) AS count
			FROM blogs, unnest(string_to_array(%s, ',')) AS label
			WHERE published = true AND deleted_at IS NULL AND trim(label) <> ''
			GROUP BY trim(label)
			ORDER BY count DESC, name ASC`, column)
		if err := s.db.Raw(query).Scan(&entries).Error; err != nil {
			return nil, apperror.Internal(err)
		}
		return entries, nil
	}

	// Portable fallback: aggregate in memory. Fine for the dataset sizes
	// other dialects see (tests, local tooling).
	var rows []string
	if err := s.db.Model(&Blog{}).Where("published = ?", true).Pluck(column, &rows).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	counts := make(map[string]int64)
	for _, row := range rows {
		for _, label := range SplitList(row) {
			counts[label]++
		}
	}
	entries := make([]StatsEntry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, StatsEntry{Name: name, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

func (s *Service) ensureSlugFree(blogSlug string, excludeID uint) error {
	var existing Blog
	err := s.db.Where("slug = ? AND id <> ?", blogSlug, excludeID).First(&existing).Error
	if err == nil {
		return apperror.Conflict(fmt.Sprintf("blog with slug %q already exists", blogSlug))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.Internal(err)
	}
	return nil
}

// listMatchClause matches a label inside a comma-separated column. The
// column is padded with commas so "art" cannot match "smart".
func listMatchClause(column string) string {
	return fmt.Sprintf("(',' || replace(%s, ', ', ',') || ',') LIKE ?", column)
}

func listMatchArgs(label string) []interface{} {
	return []interface{}{"%," + strings.TrimSpace(label) + ",%"}
}

// DeriveMetaDescription builds a default meta description from post content
// by stripping markup and truncating.
func DeriveMetaDescription(content string) string {
	text := strings.TrimSpace(htmlTags.ReplaceAllString(content, " "))
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= metaDescriptionLength {
		return text
	}
	return string(runes[:metaDescriptionLength]) + "..."
}
