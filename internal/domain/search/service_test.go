package search

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/domain/blog"
	"github.com/labuuit/backend/internal/domain/product"
	"github.com/labuuit/backend/internal/domain/user"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&product.Category{}, &product.Product{}, &product.ProductImage{},
		&blog.Blog{},
	))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	author := user.User{Name: "Writer", Email: "writer@example.com", Password: "x"}
	require.NoError(t, db.Create(&author).Error)

	shoes := product.Category{Name: "Shoes", Slug: "shoes"}
	plush := product.Category{Name: "Plush", Slug: "plush"}
	require.NoError(t, db.Create(&shoes).Error)
	require.NoError(t, db.Create(&plush).Error)

	products := []product.Product{
		{Name: "Shoes", Slug: "labubu-shoes", Description: "tiny shoes", Price: 12, CategoryID: shoes.ID, IsAvailable: true},
		{Name: "Plush Bear", Slug: "plush-bear", Description: "soft shell", Price: 30, CategoryID: plush.ID, IsAvailable: true},
		{Name: "Retired Shoes", Slug: "retired-shoes", Description: "old stock", Price: 5, CategoryID: shoes.ID, IsAvailable: false},
	}
	require.NoError(t, db.Create(&products).Error)

	blogs := []blog.Blog{
		{Title: "The Shoe Story", Slug: "the-shoe-story", Content: "all about shoes", AuthorID: author.ID, Tags: "shoes,history", Categories: "Culture", Published: true},
		{Title: "Hidden Draft", Slug: "hidden-draft", Content: "shoes again", AuthorID: author.ID, Published: false},
	}
	require.NoError(t, db.Create(&blogs).Error)
}

func TestSearchProductsActiveOnly(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, &config.Config{})

	req := &ProductRequest{Query: "shoes"}
	results, err := svc.SearchProducts(req)
	require.NoError(t, err)
	require.Len(t, results.Products, 1)
	assert.Equal(t, "Shoes", results.Products[0].Name)
	assert.Equal(t, int64(1), results.Pagination.Total)
}

func TestSearchProductsPriceFilter(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, &config.Config{})

	// "s" appears in both active products
	req := &ProductRequest{Query: "s", MinPrice: 20}
	results, err := svc.SearchProducts(req)
	require.NoError(t, err)
	require.Len(t, results.Products, 1)
	assert.Equal(t, "Plush Bear", results.Products[0].Name)

	req = &ProductRequest{Query: "s", MaxPrice: 20}
	results, err = svc.SearchProducts(req)
	require.NoError(t, err)
	require.Len(t, results.Products, 1)
	assert.Equal(t, "Shoes", results.Products[0].Name)
}

func TestSearchBlogsPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, &config.Config{})

	results, err := svc.SearchBlogs(&BlogRequest{Query: "shoes"})
	require.NoError(t, err)
	require.Len(t, results.Blogs, 1)
	assert.Equal(t, "The Shoe Story", results.Blogs[0].Title)
	assert.Equal(t, []string{"shoes", "history"}, results.Blogs[0].Tags)

	results, err = svc.SearchBlogs(&BlogRequest{Query: "shoes", Tag: "history"})
	require.NoError(t, err)
	assert.Len(t, results.Blogs, 1)

	results, err = svc.SearchBlogs(&BlogRequest{Query: "shoes", Tag: "missing"})
	require.NoError(t, err)
	assert.Empty(t, results.Blogs)
}

func TestUniversalSearch(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, &config.Config{})

	results, err := svc.UniversalSearch(&UniversalRequest{Query: "shoes"})
	require.NoError(t, err)
	assert.Equal(t, "shoes", results.Query)
	assert.Len(t, results.Products, 1)
	assert.Len(t, results.Blogs, 1)
	assert.LessOrEqual(t, len(results.Products), 5)
	assert.LessOrEqual(t, len(results.Blogs), 5)
}

func TestUniversalSearchForwardsFilters(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, &config.Config{})

	// "Shoes" sells for 12, so a 20 floor drops it from the product side
	// while the blog side is untouched
	results, err := svc.UniversalSearch(&UniversalRequest{Query: "shoes", MinPrice: 20})
	require.NoError(t, err)
	assert.Empty(t, results.Products)
	assert.Len(t, results.Blogs, 1)

	results, err = svc.UniversalSearch(&UniversalRequest{Query: "shoes", Tag: "missing"})
	require.NoError(t, err)
	assert.Len(t, results.Products, 1)
	assert.Empty(t, results.Blogs)
}

func TestSuggestionsShortQuery(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	got, err := svc.Suggestions("s")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestionsPrefixBoost(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, &config.Config{})

	got, err := svc.Suggestions("sh")
	require.NoError(t, err)
	require.NotEmpty(t, got)

	// product "Shoes" and category "Shoes" are prefix matches and come
	// before substring matches like "The Shoe Story"
	assert.Equal(t, "Shoes", got[0].Text)
	assert.Equal(t, "product", got[0].Type)
	last := got[len(got)-1]
	assert.Equal(t, "The Shoe Story", last.Text)
	assert.Equal(t, "blog", last.Type)
}

func TestRankSuggestionsStableAndCapped(t *testing.T) {
	in := []Suggestion{
		{Text: "alpha match", Type: "product"},
		{Text: "match one", Type: "product"},
		{Text: "beta match", Type: "category"},
		{Text: "match two", Type: "blog"},
	}
	out := rankSuggestions(in, "match")
	require.Len(t, out, 4)
	assert.Equal(t, "match one", out[0].Text)
	assert.Equal(t, "match two", out[1].Text)
	assert.Equal(t, "alpha match", out[2].Text)
	assert.Equal(t, "beta match", out[3].Text)

	many := make([]Suggestion, 0, 12)
	for i := 0; i < 12; i++ {
		many = append(many, Suggestion{Text: "match"})
	}
	assert.Len(t, rankSuggestions(many, "match"), 10)
}
