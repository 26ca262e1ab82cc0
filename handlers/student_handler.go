package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
	"github.com/abdulhafiz0-0/averna/schedule"
)

type StudentHandler struct{}

func NewStudentHandler() *StudentHandler { return &StudentHandler{} }

// ฟิลด์เป็น pointer เพื่อรองรับ partial update (เช่น restore ส่งมาแค่ is_archived)
type studentPayload struct {
	Name         *string  `json:"name"`
	Surname      *string  `json:"surname"`
	SecondName   *string  `json:"second_name"`
	StartingDate *string  `json:"starting_date"`
	NumLesson    *int     `json:"num_lesson"`
	TotalMoney   *float64 `json:"total_money"`
	Courses      *[]int64 `json:"courses"`
	IsArchived   *bool    `json:"is_archived"`
}

func (p *studentPayload) normalize() {
	trim := func(s *string) {
		if s != nil {
			*s = strings.Join(strings.Fields(*s), " ")
		}
	}
	trim(p.Name)
	trim(p.Surname)
	trim(p.SecondName)
	if p.StartingDate != nil {
		*p.StartingDate = strings.TrimSpace(*p.StartingDate)
	}
}

// ตรวจเฉพาะฟิลด์ที่ส่งมา; requireAll ใช้ตอน create
func validateStudent(p *studentPayload, requireAll bool) map[string]string {
	errs := map[string]string{}

	if p.Name != nil && *p.Name == "" || requireAll && p.Name == nil {
		errs["name"] = "Name is required"
	}
	if p.Surname != nil && *p.Surname == "" || requireAll && p.Surname == nil {
		errs["surname"] = "Surname is required"
	}
	if requireAll && p.StartingDate == nil {
		errs["starting_date"] = "Starting date is required"
	}
	if p.StartingDate != nil && !isValidDate(*p.StartingDate) {
		errs["starting_date"] = "Starting date must be YYYY-MM-DD"
	}
	if p.NumLesson != nil && *p.NumLesson < 0 {
		errs["num_lesson"] = "Lesson count cannot be negative"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /students — นักเรียน active ทั้งหมด พร้อมประวัติ attendance
func (h *StudentHandler) List(c echo.Context) error {
	var items []models.Student
	if err := database.DB.Preload("Attendance").
		Where("is_archived = ?", false).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// GET /students/archived?skip=&limit=
func (h *StudentHandler) ListArchived(c echo.Context) error {
	skip := atoiOr(c.QueryParam("skip"), 0)
	limit := atoiOr(c.QueryParam("limit"), 1000)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 1000 {
		limit = 1000
	}

	var items []models.Student
	if err := database.DB.Preload("Attendance").
		Where("is_archived = ?", true).
		Order("id ASC").
		Offset(skip).Limit(limit).
		Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// GET /students/:id
func (h *StudentHandler) Get(c echo.Context) error {
	var s models.Student
	if err := database.DB.Preload("Attendance").First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, s)
}

// POST /students
func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p, true); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	s := models.Student{
		Name:         *p.Name,
		Surname:      *p.Surname,
		StartingDate: *p.StartingDate,
	}
	if p.SecondName != nil {
		s.SecondName = *p.SecondName
	}
	if p.NumLesson != nil {
		s.NumLesson = *p.NumLesson
	}
	if p.TotalMoney != nil {
		s.TotalMoney = *p.TotalMoney
	}
	if p.Courses != nil {
		s.Courses = datatypes.JSONSlice[int64](*p.Courses)
	}

	if err := database.DB.Create(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /students/:id — partial update (ฟิลด์ไหนไม่ส่งมาไม่แตะ)
func (h *StudentHandler) Update(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.normalize()
	if errs := validateStudent(&p, false); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Surname != nil {
		s.Surname = *p.Surname
	}
	if p.SecondName != nil {
		s.SecondName = *p.SecondName
	}
	if p.StartingDate != nil {
		s.StartingDate = *p.StartingDate
	}
	if p.NumLesson != nil {
		s.NumLesson = *p.NumLesson
	}
	if p.TotalMoney != nil {
		s.TotalMoney = *p.TotalMoney
	}
	if p.Courses != nil {
		s.Courses = datatypes.JSONSlice[int64](*p.Courses)
	}
	if p.IsArchived != nil {
		s.IsArchived = *p.IsArchived
	}

	if err := database.DB.Save(&s).Error; err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s)
}

// DELETE /students/:id — ลบจริง (soft delete ใช้ is_archived ผ่าน PUT)
func (h *StudentHandler) Delete(c echo.Context) error {
	res := database.DB.Delete(&models.Student{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_DELETE_FAILED"})
	}
	if res.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "student deleted"})
}

type projectionItem struct {
	CourseID      uint    `json:"course_id"`
	CourseName    string  `json:"course_name"`
	Lessons       int     `json:"lessons"`
	PerLessonRate float64 `json:"per_lesson_rate"`
	Charge        float64 `json:"charge"`
}

// GET /students/:id/projection — ตัวเลขคาดการณ์ (advisory) ไม่เขียนอะไรลง DB
// นับครั้งเรียนต่อคอร์สแล้วรวม, ค่าเรียนคิดแยกต่อคอร์สเพราะเรตต่างกัน
func (h *StudentHandler) Projection(c echo.Context) error {
	var s models.Student
	if err := database.DB.First(&s, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	start, err := schedule.ParseDate(s.StartingDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_DATE"})
	}

	var courses []models.Course
	if len(s.Courses) > 0 {
		if err := database.DB.Find(&courses, "id IN ?", []int64(s.Courses)).Error; err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
		}
	}

	now := time.Now()
	items := make([]projectionItem, 0, len(courses))
	totalLessons := 0
	totalCharge := 0.0
	for _, course := range courses {
		n := schedule.CountLessons(start, now, course.WeekDays)
		if course.LessonPerMonth <= 0 {
			// config ผิดฝั่งคอร์ส → คิด 0 แทนหารศูนย์
			log.Printf("[projection] course %d has lesson_per_month=%d, charge skipped", course.ID, course.LessonPerMonth)
		}
		charge := schedule.ProjectCharge(n, course.Cost, course.LessonPerMonth)
		items = append(items, projectionItem{
			CourseID:      course.ID,
			CourseName:    course.Name,
			Lessons:       n,
			PerLessonRate: schedule.PerLessonRate(course.Cost, course.LessonPerMonth),
			Charge:        charge,
		})
		totalLessons += n
		totalCharge += charge
	}

	return c.JSON(http.StatusOK, map[string]any{
		"student_id":    s.ID,
		"as_of":         now.Format("2006-01-02"),
		"items":         items,
		"total_lessons": totalLessons,
		"total_charge":  totalCharge,
	})
}
