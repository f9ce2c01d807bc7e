package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labuuit/backend/internal/pkg/apperror"
)

func TestCreateCategory(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, testConfig())

	created, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Blind Boxes & Sets"})
	require.NoError(t, err)
	assert.Equal(t, "blind-boxes-sets", created.Slug)

	_, err = svc.CreateCategory(&CategoryCreateRequest{Name: "Blind Boxes & Sets"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdateCategoryRenameRederivesSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, testConfig())

	created, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Old"})
	require.NoError(t, err)

	name := "Fresh Title"
	updated, err := svc.UpdateCategory(created.ID, &CategoryUpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "fresh-title", updated.Slug)
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, testConfig())
	products := NewService(db, testConfig())

	created, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Busy"})
	require.NoError(t, err)
	_, err = products.CreateProduct(&CreateRequest{Name: "Occupant", Price: 1, CategoryID: created.ID})
	require.NoError(t, err)

	err = svc.DeleteCategory(created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))

	require.NoError(t, products.DeleteProduct(1))
	require.NoError(t, svc.DeleteCategory(created.ID))

	err = svc.DeleteCategory(created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetCategoryBySlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db, testConfig())

	_, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Accessories"})
	require.NoError(t, err)

	got, err := svc.GetCategoryBySlug("accessories")
	require.NoError(t, err)
	assert.Equal(t, "Accessories", got.Name)

	_, err = svc.GetCategoryBySlug("missing")
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
