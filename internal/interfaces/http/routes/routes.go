// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/interfaces/http/handlers"
	"github.com/labuuit/backend/internal/interfaces/http/middleware"
)

// SetupRoutes wires every API route group under the given router group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cfg)
	SetupProductRoutes(rg, db, cfg)
	SetupCategoryRoutes(rg, db, cfg)
	SetupBlogRoutes(rg, db, cfg)
	SetupCartRoutes(rg, db, cfg)
	SetupSearchRoutes(rg, db, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}
}

// SetupProductRoutes sets up product catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
		products.GET("/category/:categoryId", productHandler.GetProductsByCategory)

		admin := products.Group("")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PUT("/:id", productHandler.UpdateProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupCategoryRoutes sets up category taxonomy routes
func SetupCategoryRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	categoryHandler := handlers.NewCategoryHandler(db, cfg)

	categories := rg.Group("/categories")
	{
		categories.GET("", categoryHandler.GetCategories)
		categories.GET("/:id", categoryHandler.GetCategory)
		categories.GET("/slug/:slug", categoryHandler.GetCategoryBySlug)

		admin := categories.Group("")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
		{
			admin.POST("", categoryHandler.CreateCategory)
			admin.PUT("/:id", categoryHandler.UpdateCategory)
			admin.DELETE("/:id", categoryHandler.DeleteCategory)
		}
	}
}

// SetupBlogRoutes sets up blog content routes
func SetupBlogRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	blogHandler := handlers.NewBlogHandler(db, cfg)

	blogs := rg.Group("/blogs")
	blogs.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		blogs.GET("", blogHandler.GetBlogs)
		blogs.GET("/stats", blogHandler.GetStats)
		blogs.GET("/categories", blogHandler.GetCategories)
		blogs.GET("/category/:category", blogHandler.GetBlogsByCategory)
		blogs.GET("/slug/:slug", blogHandler.GetBlogBySlug)
		blogs.GET("/:id", blogHandler.GetBlogByID)

		admin := blogs.Group("")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware())
		{
			admin.POST("", blogHandler.CreateBlog)
			admin.PUT("/:id", blogHandler.UpdateBlog)
			admin.DELETE("/:id", blogHandler.DeleteBlog)
		}
	}
}

// SetupCartRoutes sets up cart routes. Every cart route is user-scoped.
func SetupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:productId", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveCartItem)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupSearchRoutes sets up keyword search routes
func SetupSearchRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	searchHandler := handlers.NewSearchHandler(db, cfg)

	search := rg.Group("/search")
	{
		search.GET("/products", searchHandler.SearchProducts)
		search.GET("/blogs", searchHandler.SearchBlogs)
		search.GET("/universal", searchHandler.UniversalSearch)
		search.GET("/suggestions", searchHandler.Suggestions)
	}
}
