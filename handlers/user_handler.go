package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

// จัดการบัญชีผู้ใช้ (เฉพาะ superadmin)
type UserHandler struct{}

func NewUserHandler() *UserHandler { return &UserHandler{} }

type userPayload struct {
	Username  string  `json:"username" validate:"required,min=3,max=60"`
	Password  string  `json:"password"` // create: required / update: เว้นว่าง = ไม่เปลี่ยน
	Role      string  `json:"role" validate:"required,oneof=teacher admin superadmin"`
	CourseIDs []int64 `json:"course_ids"`
}

func (p *userPayload) normalize() {
	p.Username = strings.TrimSpace(p.Username)
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	// course assignment มีความหมายเฉพาะครู
	if p.Role != "teacher" {
		p.CourseIDs = nil
	}
}

// GET /users
func (h *UserHandler) List(c echo.Context) error {
	var items []models.User
	if err := database.DB.Order("id ASC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// POST /users
func (h *UserHandler) Create(c echo.Context) error {
	var p userPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := func() map[string]string {
		if err := validate.Struct(&p); err != nil {
			return fieldErrors(err)
		}
		if len(p.Password) < 6 {
			return map[string]string{"password": "Password must be at least 6 characters"}
		}
		return nil
	}(); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	// ตรวจ username ซ้ำ
	var dup models.User
	if err := database.DB.Where("username = ?", p.Username).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "USERNAME_EXISTS"})
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	u := models.User{
		Username:  p.Username,
		Password:  string(hash),
		Role:      p.Role,
		CourseIDs: datatypes.JSONSlice[int64](p.CourseIDs),
	}
	if err := database.DB.Create(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, u)
}

// PUT /users/:id
func (h *UserHandler) Update(c echo.Context) error {
	var u models.User
	if err := database.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p userPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if err := validate.Struct(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fieldErrors(err)})
	}

	// superadmin แก้ได้เฉพาะผ่านบัญชีตัวเอง
	uid, _ := currentUser(c)
	if u.Role == "superadmin" && uid != u.ID {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "SUPERADMIN_PROTECTED"})
	}

	if p.Username != u.Username {
		var dup models.User
		if err := database.DB.Where("username = ?", p.Username).First(&dup).Error; err == nil {
			return c.JSON(http.StatusConflict, map[string]string{"error": "USERNAME_EXISTS"})
		}
	}

	u.Username = p.Username
	u.Role = p.Role
	u.CourseIDs = datatypes.JSONSlice[int64](p.CourseIDs)
	if p.Password != "" {
		if len(p.Password) < 6 {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"error":  "VALIDATION_ERROR",
				"fields": map[string]string{"password": "Password must be at least 6 characters"},
			})
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
		u.Password = string(hash)
	}

	if err := database.DB.Save(&u).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, u)
}

// DELETE /users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	var u models.User
	if err := database.DB.First(&u, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	if u.Role == "superadmin" {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "SUPERADMIN_PROTECTED"})
	}
	if err := database.DB.Delete(&u).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}
