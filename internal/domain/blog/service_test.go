package blog

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/labuuit/backend/internal/config"
	"github.com/labuuit/backend/internal/domain/user"
	"github.com/labuuit/backend/internal/pkg/apperror"
)

func setupTestDB(t *testing.T) (*gorm.DB, *user.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user.User{}, &Blog{}))

	author := &user.User{Name: "Author", Email: "author@example.com", Password: "x", Role: user.RoleAdmin}
	require.NoError(t, db.Create(author).Error)
	return db, author
}

func TestCreateBlogDerivesSEOFields(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	long := strings.Repeat("word ", 60)
	created, err := svc.CreateBlog(author.ID, &CreateRequest{
		Title:   "Why Labubu Took Over!",
		Content: "<p>" + long + "</p>",
		Tags:    []string{"labubu", " trends "},
	})
	require.NoError(t, err)

	assert.Equal(t, "why-labubu-took-over", created.Slug)
	assert.Equal(t, "Why Labubu Took Over!", created.MetaTitle)
	assert.True(t, strings.HasSuffix(created.MetaDescription, "..."))
	assert.Len(t, created.MetaDescription, 163)
	assert.NotContains(t, created.MetaDescription, "<p>")
	assert.Equal(t, []string{"labubu", "trends"}, created.Tags)
	assert.True(t, created.Published)
}

func TestCreateBlogKeepsExplicitSEOFields(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	created, err := svc.CreateBlog(author.ID, &CreateRequest{
		Title:           "Post",
		Content:         "body",
		MetaTitle:       "Custom Meta",
		MetaDescription: "Custom description.",
		Slug:            "custom-slug",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", created.Slug)
	assert.Equal(t, "Custom Meta", created.MetaTitle)
	assert.Equal(t, "Custom description.", created.MetaDescription)
}

func TestGetBlogBySlugOnlyPublished(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	hidden := false
	created, err := svc.CreateBlog(author.ID, &CreateRequest{
		Title: "Draft", Content: "wip", Published: &hidden,
	})
	require.NoError(t, err)

	_, err = svc.GetBlogBySlug(created.Slug)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// by ID the draft is still reachable
	got, err := svc.GetBlogByID(created.ID)
	require.NoError(t, err)
	assert.False(t, got.Published)
}

func TestUpdateBlogRenameRederivesSlug(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	created, err := svc.CreateBlog(author.ID, &CreateRequest{Title: "Original", Content: "body"})
	require.NoError(t, err)

	title := "Renamed Post"
	updated, err := svc.UpdateBlog(created.ID, &UpdateRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "renamed-post", updated.Slug)

	_, err = svc.CreateBlog(author.ID, &CreateRequest{Title: "Renamed Post", Content: "other"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestGetBlogsFilters(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.CreateBlog(author.ID, &CreateRequest{
		Title: "Art Post", Content: "about art",
		Tags: []string{"art"}, Categories: []string{"Culture"},
	})
	require.NoError(t, err)
	_, err = svc.CreateBlog(author.ID, &CreateRequest{
		Title: "Smart Post", Content: "about gadgets",
		Tags: []string{"smart"}, Categories: []string{"Tech"},
	})
	require.NoError(t, err)
	hidden := false
	_, err = svc.CreateBlog(author.ID, &CreateRequest{
		Title: "Secret Post", Content: "draft", Published: &hidden,
	})
	require.NoError(t, err)

	// tag match must not hit substrings of other tags
	page, err := svc.GetBlogs(&ListRequest{Tag: "art"})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, "Art Post", page.Blogs[0].Title)

	page, err = svc.GetBlogs(&ListRequest{Category: "Tech"})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, "Smart Post", page.Blogs[0].Title)

	// drafts are hidden by default and visible on request
	page, err = svc.GetBlogs(&ListRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)

	page, err = svc.GetBlogs(&ListRequest{ShowUnpublished: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)

	page, err = svc.GetBlogs(&ListRequest{Search: "gadgets"})
	require.NoError(t, err)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, "Smart Post", page.Blogs[0].Title)
}

func TestStatsCountPublishedOnly(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	_, err := svc.CreateBlog(author.ID, &CreateRequest{
		Title: "One", Content: "x", Tags: []string{"labubu", "news"}, Categories: []string{"Culture"},
	})
	require.NoError(t, err)
	_, err = svc.CreateBlog(author.ID, &CreateRequest{
		Title: "Two", Content: "x", Tags: []string{"labubu"}, Categories: []string{"Culture", "Tech"},
	})
	require.NoError(t, err)
	hidden := false
	_, err = svc.CreateBlog(author.ID, &CreateRequest{
		Title: "Hidden", Content: "x", Tags: []string{"labubu"}, Published: &hidden,
	})
	require.NoError(t, err)

	tags, err := svc.GetTagStats()
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, StatsEntry{Name: "labubu", Count: 2}, tags[0])
	assert.Equal(t, StatsEntry{Name: "news", Count: 1}, tags[1])

	cats, err := svc.GetCategoryStats()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, StatsEntry{Name: "Culture", Count: 2}, cats[0])
}

func TestDeleteBlog(t *testing.T) {
	db, author := setupTestDB(t)
	svc := NewService(db, &config.Config{})

	created, err := svc.CreateBlog(author.ID, &CreateRequest{Title: "Doomed", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteBlog(created.ID))
	err = svc.DeleteBlog(created.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeriveMetaDescriptionShortContent(t *testing.T) {
	assert.Equal(t, "Short body.", DeriveMetaDescription("<h1>Short</h1> body."))
	assert.Equal(t, "", DeriveMetaDescription(""))
}

func TestDeriveMetaDescriptionMultibyteContent(t *testing.T) {
	got := DeriveMetaDescription("<p>" + strings.Repeat("héllo wörld ", 30) + "</p>")
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, 163, utf8.RuneCountInString(got))
}
