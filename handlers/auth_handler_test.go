package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

const authTestSecret = "auth-test-secret"

func createTestUser(t *testing.T, username, password, role string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("createTestUser() hash failed: %v", err)
	}
	u := models.User{Username: username, Password: string(hash), Role: role}
	if err := database.DB.Create(&u).Error; err != nil {
		t.Fatalf("createTestUser() failed: %v", err)
	}
	return u
}

func authCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func TestLoginSuccess(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)
	u := createTestUser(t, "admin", "changeme123", "admin")

	ctx, rec := newRequest(e, http.MethodPost, "/auth/login", map[string]string{
		"username": "admin", "password": "changeme123",
	})
	assert.NoError(t, h.Login(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		UserID      uint   `json:"user_id"`
		Role        string `json:"role"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, u.ID, resp.UserID)
	assert.Equal(t, "admin", resp.Role)

	// token ต้อง verify ได้ด้วย secret เดียวกันและมี claims ครบ
	tok, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (any, error) {
		return []byte(authTestSecret), nil
	})
	assert.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "admin", claims["username"])
	assert.NotEmpty(t, claims["jti"])
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)
	createTestUser(t, "admin", "changeme123", "admin")

	ctx, _ := newRequest(e, http.MethodPost, "/auth/login", map[string]string{
		"username": "admin", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, authCode(h.Login(ctx)))
}

// user ไม่มีในระบบ → error เดียวกับรหัสผิด กันเดา username
func TestLoginUnknownUser(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)

	ctx, _ := newRequest(e, http.MethodPost, "/auth/login", map[string]string{
		"username": "ghost", "password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, authCode(h.Login(ctx)))
}

func TestLoginMissingFields(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)

	ctx, _ := newRequest(e, http.MethodPost, "/auth/login", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, authCode(h.Login(ctx)))
}

func TestChangePassword(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)
	u := createTestUser(t, "teacher1", "oldpass123", "teacher")

	ctx, rec := newRequest(e, http.MethodPut, "/profile/password", map[string]string{
		"current": "oldpass123", "next": "newpass456",
	})
	ctx.Set("user_id", u.ID)
	ctx.Set("role", u.Role)
	assert.NoError(t, h.ChangePassword(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var after models.User
	assert.NoError(t, database.DB.First(&after, u.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(after.Password), []byte("newpass456")))
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)
	u := createTestUser(t, "teacher1", "oldpass123", "teacher")

	ctx, _ := newRequest(e, http.MethodPut, "/profile/password", map[string]string{
		"current": "nope", "next": "newpass456",
	})
	ctx.Set("user_id", u.ID)
	assert.Equal(t, http.StatusUnauthorized, authCode(h.ChangePassword(ctx)))
}

func TestChangePasswordTooShort(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAuthHandler(authTestSecret)
	u := createTestUser(t, "teacher1", "oldpass123", "teacher")

	ctx, _ := newRequest(e, http.MethodPut, "/profile/password", map[string]string{
		"current": "oldpass123", "next": "short",
	})
	ctx.Set("user_id", u.ID)
	assert.Equal(t, http.StatusBadRequest, authCode(h.ChangePassword(ctx)))
}
