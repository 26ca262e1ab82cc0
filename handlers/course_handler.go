package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

type CourseHandler struct{}

func NewCourseHandler() *CourseHandler { return &CourseHandler{} }

type coursePayload struct {
	Name           string   `json:"name" validate:"required,max=100"`
	WeekDays       []string `json:"week_days"`
	LessonPerMonth int      `json:"lesson_per_month" validate:"gte=0"`
	Cost           float64  `json:"cost" validate:"gte=0"`
}

func (p *coursePayload) normalize() {
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	for i, d := range p.WeekDays {
		p.WeekDays[i] = strings.TrimSpace(d)
	}
}

func validateCourse(p *coursePayload) map[string]string {
	if err := validate.Struct(p); err != nil {
		return fieldErrors(err)
	}
	for _, d := range p.WeekDays {
		if !validWeekDays[d] {
			return map[string]string{"week_days": "Unknown week day: " + d}
		}
	}
	return nil
}

// GET /courses
func (h *CourseHandler) List(c echo.Context) error {
	var items []models.Course
	if err := database.DB.Order("id ASC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// GET /courses/:id
func (h *CourseHandler) Get(c echo.Context) error {
	var course models.Course
	if err := database.DB.First(&course, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, course)
}

// POST /courses
func (h *CourseHandler) Create(c echo.Context) error {
	var p coursePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateCourse(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	course := models.Course{
		Name:           p.Name,
		WeekDays:       datatypes.JSONSlice[string](p.WeekDays),
		LessonPerMonth: p.LessonPerMonth,
		Cost:           p.Cost,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, course)
}

// PUT /courses/:id
func (h *CourseHandler) Update(c echo.Context) error {
	var course models.Course
	if err := database.DB.First(&course, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p coursePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateCourse(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	course.Name = p.Name
	course.WeekDays = datatypes.JSONSlice[string](p.WeekDays)
	course.LessonPerMonth = p.LessonPerMonth
	course.Cost = p.Cost

	if err := database.DB.Save(&course).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, course)
}

// DELETE /courses/:id
// หมายเหตุ: นักเรียนที่ยังอ้าง course id นี้อยู่จะถือ id ค้าง (ไม่ cascade) — FE กรองเองตอนแสดง
func (h *CourseHandler) Delete(c echo.Context) error {
	res := database.DB.Delete(&models.Course{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "course deleted"})
}
