package auth

import (
	"testing"

	"carbex-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, password string) domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := domain.User{Fullname: "Test Trader", Email: email, PasswordHash: string(hash), Role: "trader"}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestLoginUser_MissingFields(t *testing.T) {
	db := setupAuthTest(t)
	_, err := LoginUser(db, LoginInput{Email: "", Password: "secret"})
	assert.Equal(t, ErrEmailPasswordRequired, err)
	_, err = LoginUser(db, LoginInput{Email: "a@b.com", Password: ""})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db := setupAuthTest(t)
	_, err := LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "secret"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	db := setupAuthTest(t)
	seedUser(t, db, "trader@example.com", "secret")
	_, err := LoginUser(db, LoginInput{Email: "trader@example.com", Password: "wrong"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestLoginUser_Valid(t *testing.T) {
	db := setupAuthTest(t)
	seeded := seedUser(t, db, "trader@example.com", "secret")
	u, err := LoginUser(db, LoginInput{Email: "trader@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, seeded.UserID, u.UserID)
	assert.Equal(t, "trader", u.Role)
}

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoUserID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"fullname": "Test",
		"email":    "a@b.com",
	})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_Valid(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":  "550e8400-e29b-41d4-a716-446655440000",
		"fullname": "Test Trader",
		"email":    "trader@example.com",
		"role":     "trader",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.UserID)
	assert.Equal(t, "Test Trader", u.Fullname)
	assert.Equal(t, "trader@example.com", u.Email)
	assert.Equal(t, "trader", u.Role)
}
