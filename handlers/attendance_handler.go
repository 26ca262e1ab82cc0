package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
	"github.com/abdulhafiz0-0/averna/schedule"
)

type AttendanceHandler struct{}

func NewAttendanceHandler() *AttendanceHandler { return &AttendanceHandler{} }

type attendancePayload struct {
	StudentID   uint   `json:"student_id"`
	CourseID    uint   `json:"course_id"`
	Date        string `json:"date"`
	IsAbsent    bool   `json:"isAbsent"`
	Reason      string `json:"reason"`
	ChargeMoney bool   `json:"charge_money"`
}

// บังคับให้เข้าสามสถานะเท่านั้น:
//
//	มาเรียน → charge เสมอ, reason เป็น "Present"
//	ขาดลา/ไม่ลา → ต้องมี reason
//
// คืน error code ("" = ผ่าน)
func (p *attendancePayload) normalize() string {
	p.Date = strings.TrimSpace(p.Date)
	p.Reason = strings.TrimSpace(p.Reason)

	if p.Date == "" || !isValidDate(p.Date) {
		return "INVALID_DATE"
	}
	if !p.IsAbsent {
		p.ChargeMoney = true
		p.Reason = "Present"
		return ""
	}
	if p.Reason == "" {
		return "MISSING_REASON"
	}
	return ""
}

// ราคาต่อครั้งของคอร์ส; lesson_per_month=0 คือ config ผิด → log แล้วคิด 0
func perLessonOrZero(course *models.Course) float64 {
	if course.LessonPerMonth <= 0 {
		log.Printf("[attendance] course %d has lesson_per_month=%d, charging 0", course.ID, course.LessonPerMonth)
		return 0
	}
	return schedule.PerLessonRate(course.Cost, course.LessonPerMonth)
}

// POST /attendance/check — บันทึกการมาเรียนหนึ่งรายการ
// มี record ของ (student, course, date) อยู่แล้ว → 409 ให้ไปใช้เส้นทาง update แทน
func (h *AttendanceHandler) Check(c echo.Context) error {
	var p attendancePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if p.StudentID == 0 || p.CourseID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}
	if code := p.normalize(); code != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": code})
	}

	var s models.Student
	if err := database.DB.First(&s, p.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}
	var course models.Course
	if err := database.DB.First(&course, p.CourseID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "COURSE_NOT_FOUND"})
	}

	// กันบันทึกซ้ำวันเดียวกัน (unique index คุมอีกชั้นที่ DB)
	var dup models.Attendance
	if err := database.DB.Where("student_id = ? AND course_id = ? AND date = ?",
		p.StudentID, p.CourseID, p.Date).First(&dup).Error; err == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "DUPLICATE_ATTENDANCE"})
	}

	rec := models.Attendance{
		StudentID:   p.StudentID,
		CourseID:    p.CourseID,
		Date:        p.Date,
		IsAbsent:    p.IsAbsent,
		Reason:      p.Reason,
		ChargeMoney: p.ChargeMoney,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		// ครั้งเรียนที่คิดเงิน → บวกครั้งเรียนสะสมและยอดค้างของนักเรียน
		if p.ChargeMoney {
			s.NumLesson++
			s.TotalMoney += perLessonOrZero(&course)
			if err := tx.Save(&s).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":    "attendance recorded",
		"student_id": rec.StudentID,
		"date":       rec.Date,
		"isAbsent":   rec.IsAbsent,
	})
}

// PUT /attendance/student/:id?date=YYYY-MM-DD&course_id=N — แก้สถานะของ record เดิม
// สลับได้ทุกสถานะ; ส่ง payload เดิมซ้ำ = idempotent ไม่กระทบยอด
func (h *AttendanceHandler) Update(c echo.Context) error {
	studentID := uint(atoiOr(c.Param("id"), 0))
	courseID := uint(atoiOr(c.QueryParam("course_id"), 0))
	date := strings.TrimSpace(c.QueryParam("date"))
	if studentID == 0 || courseID == 0 || date == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "MISSING_FIELDS"})
	}

	var p attendancePayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	p.StudentID, p.CourseID, p.Date = studentID, courseID, date
	if code := p.normalize(); code != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": code})
	}

	var rec models.Attendance
	if err := database.DB.Where("student_id = ? AND course_id = ? AND date = ?",
		studentID, courseID, date).First(&rec).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var s models.Student
	if err := database.DB.First(&s, studentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}
	var course models.Course
	if err := database.DB.First(&course, courseID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "COURSE_NOT_FOUND"})
	}

	wasBillable := rec.ChargeMoney
	nowBillable := p.ChargeMoney

	rec.IsAbsent = p.IsAbsent
	rec.Reason = p.Reason
	rec.ChargeMoney = p.ChargeMoney

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		// เปลี่ยนฝั่ง billable → ปรับยอดนักเรียนตาม delta (เรตใช้ config คอร์สปัจจุบัน)
		if wasBillable != nowBillable {
			rate := perLessonOrZero(&course)
			if nowBillable {
				s.NumLesson++
				s.TotalMoney += rate
			} else {
				s.NumLesson--
				s.TotalMoney -= rate
			}
			if err := tx.Save(&s).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]any{"message": "attendance updated"})
}

// GET /attendance/:studentId — ประวัติการมาเรียนของนักเรียนหนึ่งคน
func (h *AttendanceHandler) ByStudent(c echo.Context) error {
	var s models.Student
	if err := database.DB.Preload("Attendance").First(&s, "id = ?", c.Param("studentId")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	name := strings.TrimSpace(s.Name + " " + s.Surname)
	return c.JSON(http.StatusOK, map[string]any{
		"student_id":   s.ID,
		"student_name": name,
		"attendance":   s.Attendance,
	})
}
