package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
	"github.com/abdulhafiz0-0/averna/schedule"
)

type StatsHandler struct{}

func NewStatsHandler() *StatsHandler { return &StatsHandler{} }

// โหลดคอร์สทั้งหมดเป็น map id → course
func loadCourseMap() (map[uint]models.Course, error) {
	var courses []models.Course
	if err := database.DB.Find(&courses).Error; err != nil {
		return nil, err
	}
	m := make(map[uint]models.Course, len(courses))
	for _, course := range courses {
		m[course.ID] = course
	}
	return m, nil
}

// GET /stats — ภาพรวมสำหรับ dashboard ของ admin
// unpaid = ยอดค้างรวมของนักเรียน active (total_money บวก = ติดหนี้)
// monthly_unpaid = ค่าเรียนที่คิดจาก attendance เดือนนี้ หักยอดจ่ายเดือนนี้ (ไม่ติดลบ)
func (h *StatsHandler) Overview(c echo.Context) error {
	monthPrefix := time.Now().Format("2006-01")

	var totalStudents int64
	if err := database.DB.Model(&models.Student{}).
		Where("is_archived = ?", false).Count(&totalStudents).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var payments []models.Payment
	if err := database.DB.Find(&payments).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	totalMoney, monthlyMoney := 0.0, 0.0
	for _, p := range payments {
		totalMoney += p.Money
		if strings.HasPrefix(p.Date, monthPrefix) {
			monthlyMoney += p.Money
		}
	}

	var students []models.Student
	if err := database.DB.Where("is_archived = ?", false).Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	unpaid := 0.0
	for _, s := range students {
		if s.TotalMoney > 0 {
			unpaid += s.TotalMoney
		}
	}

	courseMap, err := loadCourseMap()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var monthAtt []models.Attendance
	if err := database.DB.Where("charge_money = ? AND date LIKE ?", true, monthPrefix+"%").
		Find(&monthAtt).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	monthlyAccrued := 0.0
	for _, a := range monthAtt {
		if course, ok := courseMap[a.CourseID]; ok {
			monthlyAccrued += schedule.PerLessonRate(course.Cost, course.LessonPerMonth)
		}
	}
	monthlyUnpaid := monthlyAccrued - monthlyMoney
	if monthlyUnpaid < 0 {
		monthlyUnpaid = 0
	}

	return c.JSON(http.StatusOK, map[string]any{
		"total_money":    totalMoney,
		"monthly_money":  monthlyMoney,
		"unpaid":         unpaid,
		"monthly_unpaid": monthlyUnpaid,
		"total_students": totalStudents,
	})
}

// GET /stats/by-course — รายได้และจำนวนนักเรียนต่อคอร์ส
func (h *StatsHandler) ByCourse(c echo.Context) error {
	courseMap, err := loadCourseMap()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var payments []models.Payment
	if err := database.DB.Find(&payments).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	moneyByCourse := map[uint]float64{}
	for _, p := range payments {
		moneyByCourse[p.CourseID] += p.Money
	}

	// นับนักเรียนต่อคอร์สจาก list courses ของนักเรียน (many-to-many เก็บฝั่งนักเรียน)
	var students []models.Student
	if err := database.DB.Where("is_archived = ?", false).Find(&students).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	countByCourse := map[uint]int{}
	for _, s := range students {
		for _, cid := range s.Courses {
			countByCourse[uint(cid)]++
		}
	}

	out := make([]map[string]any, 0, len(courseMap))
	for id, course := range courseMap {
		out = append(out, map[string]any{
			"course_id":   id,
			"course_name": course.Name,
			"students":    countByCourse[id],
			"money":       moneyByCourse[id],
		})
	}
	return c.JSON(http.StatusOK, out)
}

// GET /stats/monthly/:year — ยอดจ่ายและจำนวนครั้งเรียนรายเดือนของปีนั้น
func (h *StatsHandler) Monthly(c echo.Context) error {
	year := atoiOr(c.Param("year"), 0)
	if year < 2000 || year > 2100 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_YEAR"})
	}
	yearPrefix := strconv.Itoa(year) + "-"

	var payments []models.Payment
	if err := database.DB.Where("date LIKE ?", yearPrefix+"%").Find(&payments).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	var attendance []models.Attendance
	if err := database.DB.Where("date LIKE ?", yearPrefix+"%").Find(&attendance).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	monthOf := func(date string) int {
		// date เป็น YYYY-MM-DD เสมอ (validate ตอนเขียน)
		if len(date) < 7 {
			return 0
		}
		m, _ := strconv.Atoi(date[5:7])
		return m
	}

	type monthRow struct {
		Month   int     `json:"month"`
		Money   float64 `json:"money"`
		Lessons int     `json:"lessons"`
	}
	months := make([]monthRow, 12)
	for i := range months {
		months[i].Month = i + 1
	}
	for _, p := range payments {
		if m := monthOf(p.Date); m >= 1 && m <= 12 {
			months[m-1].Money += p.Money
		}
	}
	for _, a := range attendance {
		if m := monthOf(a.Date); m >= 1 && m <= 12 {
			months[m-1].Lessons++
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"year":   year,
		"months": months,
	})
}
