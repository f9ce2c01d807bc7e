package user

import (
	"testing"
	"time"

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
	require.NoError(t, db.AutoMigrate(&User{}))
	return db
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "labuuit-test"
	cfg.JWT.Secret = "test-secret-that-is-long-enough-0000"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = 4
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Alex",
		Email:    "Alex@Example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "alex@example.com", resp.User.Email)
	assert.Equal(t, RoleUser, resp.User.Role)
	assert.Empty(t, resp.User.Password)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	// mixed-case login resolves to the same account
	login, err := svc.Login(&LoginRequest{Email: "ALEX@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
	assert.NotNil(t, login.User.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Name: "B", Email: "A@EXAMPLE.COM", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestRegisterWeakPassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "short"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindBadRequest))
}

func TestLoginInvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "a@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))

	_, err = svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "password123"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	resp, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	// an access token is not accepted as a refresh token
	_, err = svc.RefreshToken(resp.AccessToken)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUnauthorized))
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	a, err := svc.Register(&RegisterRequest{Name: "A", Email: "a@example.com", Password: "password123"})
	require.NoError(t, err)
	_, err = svc.Register(&RegisterRequest{Name: "B", Email: "b@example.com", Password: "password123"})
	require.NoError(t, err)

	name := "Renamed"
	updated, err := svc.UpdateProfile(a.User.ID, &UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)

	taken := "B@example.com"
	_, err = svc.UpdateProfile(a.User.ID, &UpdateProfileRequest{Email: &taken})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = svc.GetProfile(9999)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
