// internal/interfaces/http/handlers/search.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/domain/search"
)

// SearchHandler handles keyword search endpoints
type SearchHandler struct {
	searchService *search.Service
	config        *config.Config
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(db *gorm.DB, cfg *config.Config) *SearchHandler {
	return &SearchHandler{
		searchService: search.NewService(db, cfg),
		config:        cfg,
	}
}

// SearchProducts handles GET /search/products
func (h *SearchHandler) SearchProducts(c *gin.Context) {
	var req search.ProductRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Search query is required")
		return
	}

	results, err := h.searchService.SearchProducts(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, "Search completed successfully", results.Products, results.Pagination)
}

// SearchBlogs handles GET /search/blogs
func (h *SearchHandler) SearchBlogs(c *gin.Context) {
	var req search.BlogRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Search query is required")
		return
	}

	results, err := h.searchService.SearchBlogs(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondPage(c, "Search completed successfully", results.Blogs, results.Pagination)
}

// UniversalSearch handles GET /search/universal
func (h *SearchHandler) UniversalSearch(c *gin.Context) {
	var req search.UniversalRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Search query is required")
		return
	}
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		respondBadRequest(c, "Search query is required")
		return
	}

	results, err := h.searchService.UniversalSearch(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Search completed successfully", results)
}

// Suggestions handles GET /search/suggestions
func (h *SearchHandler) Suggestions(c *gin.Context) {
	suggestions, err := h.searchService.Suggestions(c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "Suggestions retrieved successfully", suggestions)
}
