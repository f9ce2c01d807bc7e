// internal/interfaces/http/handlers/blog.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/domain/blog"
	"github.com/labuuit/backend/internal/interfaces/http/middleware"
	"github.com/labuuit/backend/internal/pkg/pagination"
)

// BlogHandler handles blog endpoints
type BlogHandler struct {
	blogService *blog.Service
	config      *config.Config
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(db *gorm.DB, cfg *config.Config) *BlogHandler {
	return &BlogHandler{
		blogService: blog.NewService(db, cfg),
		config:      cfg,
	}
}

// GetBlogs handles GET /blogs. Admins may opt in to drafts.
func (h *BlogHandler) GetBlogs(c *gin.Context) {
	var req blog.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	if c.Query("showUnpublished") == "true" && middleware.IsAdminFromContext(c) {
		req.ShowUnpublished = true
	}

	page, err := h.blogService.GetBlogs(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, "Blogs retrieved successfully", page.Blogs, page.Pagination)
}

// GetBlogBySlug handles GET /blogs/slug/:slug
func (h *BlogHandler) GetBlogBySlug(c *gin.Context) {
	b, err := h.blogService.GetBlogBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Blog retrieved successfully", b)
}

// GetBlogByID handles GET /blogs/:id
func (h *BlogHandler) GetBlogByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.blogService.GetBlogByID(id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Blog retrieved successfully", b)
}

// GetBlogsByCategory handles GET /blogs/category/:category
func (h *BlogHandler) GetBlogsByCategory(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.blogService.GetBlogsByCategory(c.Param("category"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, "Blogs retrieved successfully", page.Blogs, page.Pagination)
}

// GetStats handles GET /blogs/stats
func (h *BlogHandler) GetStats(c *gin.Context) {
	tags, err := h.blogService.GetTagStats()
	if err != nil {
		respondError(c, err)
		return
	}

	categories, err := h.blogService.GetCategoryStats()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Blog stats retrieved successfully", gin.H{
		"tags":       tags,
		"categories": categories,
	})
}

// GetCategories handles GET /blogs/categories
func (h *BlogHandler) GetCategories(c *gin.Context) {
	categories, err := h.blogService.GetCategoryStats()
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Blog categories retrieved successfully", categories)
}

// CreateBlog handles POST /blogs
func (h *BlogHandler) CreateBlog(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		respondError(c, errUnauthenticated())
		return
	}

	var req blog.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	b, err := h.blogService.CreateBlog(userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "Blog created successfully", b)
}

// UpdateBlog handles PUT /blogs/:id
func (h *BlogHandler) UpdateBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req blog.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request data: "+err.Error())
		return
	}

	b, err := h.blogService.UpdateBlog(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Blog updated successfully", b)
}

// DeleteBlog handles DELETE /blogs/:id
func (h *BlogHandler) DeleteBlog(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.blogService.DeleteBlog(id); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Blog deleted successfully", nil)
}
