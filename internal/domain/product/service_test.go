package product

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/pkg/apperror"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Product{}, &ProductImage{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{}
}

func seedCategory(t *testing.T, db *gorm.DB, name, catSlug string) *Category {
	t.Helper()
	c := &Category{Name: name, Slug: catSlug}
	require.NoError(t, db.Create(c).Error)
	return c
}

func TestCreateProductRequiresCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.CreateProduct(&CreateRequest{
		Name:       "Ghost Product",
		Price:      9.99,
		CategoryID: 42,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	var count int64
	require.NoError(t, db.Model(&Product{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no product row should be written when the category is missing")
}

func TestCreateProductDerivesSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cat := seedCategory(t, db, "Figures", "figures")

	created, err := svc.CreateProduct(&CreateRequest{
		Name:       "Labubu Classic Figure!",
		Price:      24.99,
		Stock:      10,
		CategoryID: cat.ID,
		Images:     []string{"https://cdn.example.com/labubu.jpg"},
		ImageAlts:  []string{"Labubu figure"},
	})
	require.NoError(t, err)
	assert.Equal(t, "labubu-classic-figure", created.Slug)
	assert.True(t, created.IsAvailable)
	require.Len(t, created.Images, 1)
	assert.Equal(t, "Labubu figure", created.Images[0].AltText)
}

func TestCreateProductDuplicateSlugConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cat := seedCategory(t, db, "Figures", "figures")

	_, err := svc.CreateProduct(&CreateRequest{Name: "Twin", Price: 1, CategoryID: cat.ID})
	require.NoError(t, err)

	_, err = svc.CreateProduct(&CreateRequest{Name: "Twin", Price: 2, CategoryID: cat.ID})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdateProductRenameRederivesSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cat := seedCategory(t, db, "Figures", "figures")

	created, err := svc.CreateProduct(&CreateRequest{Name: "Old Name", Price: 5, CategoryID: cat.ID})
	require.NoError(t, err)

	newName := "Brand New Name"
	updated, err := svc.UpdateProduct(created.ID, &UpdateRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-name", updated.Slug)

	// explicit slug wins over derivation
	other := "Another Name"
	explicit := "keep-this-slug"
	updated, err = svc.UpdateProduct(created.ID, &UpdateRequest{Name: &other, Slug: &explicit})
	require.NoError(t, err)
	assert.Equal(t, "keep-this-slug", updated.Slug)
}

func TestUpdateProductValidatesCategoryChange(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cat := seedCategory(t, db, "Figures", "figures")

	created, err := svc.CreateProduct(&CreateRequest{Name: "Thing", Price: 5, CategoryID: cat.ID})
	require.NoError(t, err)

	missing := uint(999)
	_, err = svc.UpdateProduct(created.ID, &UpdateRequest{CategoryID: &missing})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// original category untouched
	got, err := svc.GetProduct(created.ID)
	require.NoError(t, err)
	assert.Equal(t, cat.ID, got.CategoryID)
}

func TestGetProductsFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cat := seedCategory(t, db, "Figures", "figures")

	names := []string{"Alpha Bear", "Beta Bear", "Gamma Fox"}
	for _, n := range names {
		_, err := svc.CreateProduct(&CreateRequest{Name: n, Price: 10, Stock: 1, CategoryID: cat.ID})
		require.NoError(t, err)
	}
	hidden := false
	_, err := svc.CreateProduct(&CreateRequest{Name: "Hidden Bear", Price: 10, CategoryID: cat.ID, IsAvailable: &hidden})
	require.NoError(t, err)

	req := &ListRequest{Search: "bear"}
	req.Page = 1
	req.Limit = 2
	page, err := svc.GetProducts(req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Len(t, page.Products, 2)

	req = &ListRequest{Available: "true"}
	req.Page = 1
	req.Limit = 10
	page, err = svc.GetProducts(req)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)
	for _, p := range page.Products {
		assert.True(t, p.IsAvailable)
	}

	// page past the end is empty, not an error
	req = &ListRequest{}
	req.Page = 50
	req.Limit = 10
	page, err = svc.GetProducts(req)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, int64(4), page.Pagination.Total)
}

func TestGetProductsByCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	figures := seedCategory(t, db, "Figures", "figures")
	plush := seedCategory(t, db, "Plush", "plush")

	_, err := svc.CreateProduct(&CreateRequest{Name: "Fig One", Price: 1, CategoryID: figures.ID})
	require.NoError(t, err)
	_, err = svc.CreateProduct(&CreateRequest{Name: "Plush One", Price: 1, CategoryID: plush.ID})
	require.NoError(t, err)

	req := &ListRequest{}
	page, err := svc.GetProductsByCategory(figures.ID, req)
	require.NoError(t, err)
	require.NotNil(t, page.Category)
	assert.Equal(t, "Figures", page.Category.Name)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "Fig One", page.Products[0].Name)

	_, err = svc.GetProductsByCategory(999, &ListRequest{})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())
	cat := seedCategory(t, db, "Figures", "figures")

	created, err := svc.CreateProduct(&CreateRequest{Name: "Doomed", Price: 1, CategoryID: cat.ID})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(created.ID))

	err = svc.DeleteProduct(created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
