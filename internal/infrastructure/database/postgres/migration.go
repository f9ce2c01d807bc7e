// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/labuuit/backend/internal/domain/blog"
	"github.com/labuuit/backend/internal/domain/cart"
	"github.com/labuuit/backend/internal/domain/product"
	"github.com/labuuit/backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: referenced tables first
	models := []interface{}{
		&user.User{},
		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&blog.Blog{},
		&cart.Cart{},
		&cart.CartItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes, including the full-text search
// indexes the search service queries against.
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// Lookup indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_available ON products(category_id, is_available)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_blogs_published_created ON blogs(published, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_blogs_author ON blogs(author_id)",
		"CREATE INDEX IF NOT EXISTS idx_cart_items_cart_product ON cart_items(cart_id, product_id)",

		// Full-text search indexes. Column sets mirror the search service's
		// tsvector expressions exactly so the planner can use them.
		"CREATE INDEX IF NOT EXISTS idx_products_fulltext ON products USING GIN (to_tsvector('simple', coalesce(name, '') || ' ' || coalesce(description, '')))",
		"CREATE INDEX IF NOT EXISTS idx_blogs_fulltext ON blogs USING GIN (to_tsvector('simple', coalesce(title, '') || ' ' || coalesce(content, '') || ' ' || coalesce(tags, '') || ' ' || coalesce(meta_description, '')))",
		"CREATE INDEX IF NOT EXISTS idx_categories_fulltext ON categories USING GIN (to_tsvector('simple', coalesce(name, '') || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds a default admin account and starter taxonomy in
// development environments.
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	var adminCount int64
	m.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&adminCount)
	if adminCount == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("Admin@Labu123"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		admin := user.User{
			Name:     "Administrator",
			Email:    "admin@labuuit.local",
			Password: string(hashed),
			Role:     user.RoleAdmin,
		}
		if err := m.db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
		log.Println("Seeded default admin account: admin@labuuit.local")
	}

	var categoryCount int64
	m.db.Model(&product.Category{}).Count(&categoryCount)
	if categoryCount == 0 {
		categories := []product.Category{
			{Name: "Labubu", Slug: "labubu", Description: "Labubu collectibles"},
			{Name: "Accessories", Slug: "accessories", Description: "Accessories and add-ons"},
		}
		if err := m.db.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
		log.Printf("Seeded %d starter categories", len(categories))
	}

	log.Println("✅ Initial data seeding completed")
	return nil
}
