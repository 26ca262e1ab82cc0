package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

func checkAttendance(e *echo.Echo, h *AttendanceHandler, body any) (int, error) {
	ctx, rec := newRequest(e, http.MethodPost, "/attendance/check", body)
	err := h.Check(ctx)
	return rec.Code, err
}

func updateAttendance(e *echo.Echo, h *AttendanceHandler, studentID uint, courseID uint, date string, body any) int {
	target := fmt.Sprintf("/attendance/student/%d?date=%s&course_id=%d", studentID, date, courseID)
	ctx, rec := newRequest(e, http.MethodPut, target, body)
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(studentID))
	_ = h.Update(ctx)
	return rec.Code
}

func attendanceBody(studentID, courseID uint, date string, isAbsent bool, reason string, charge bool) map[string]any {
	return map[string]any{
		"student_id":   studentID,
		"course_id":    courseID,
		"date":         date,
		"isAbsent":     isAbsent,
		"reason":       reason,
		"charge_money": charge,
	}
}

func reloadStudent(t *testing.T, id uint) models.Student {
	t.Helper()
	var s models.Student
	if err := database.DB.First(&s, id).Error; err != nil {
		t.Fatalf("reloadStudent() failed: %v", err)
	}
	return s
}

func findRecord(t *testing.T, studentID, courseID uint, date string) models.Attendance {
	t.Helper()
	var rec models.Attendance
	if err := database.DB.Where("student_id = ? AND course_id = ? AND date = ?",
		studentID, courseID, date).First(&rec).Error; err != nil {
		t.Fatalf("findRecord() failed: %v", err)
	}
	return rec
}

// มาเรียน → record ต้องออกมาเป็น Present (ไม่ absent, คิดเงิน) และยอดนักเรียนขยับ
func TestAttendanceCheckPresent(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Math", []string{"Monday", "Wednesday"}, 8, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))

	code, err := checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-01-15", false, "", true))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, code)

	rec := findRecord(t, s.ID, course.ID, "2024-01-15")
	assert.False(t, rec.IsAbsent)
	assert.True(t, rec.ChargeMoney)
	assert.Equal(t, "Present", rec.Reason)

	got := reloadStudent(t, s.ID)
	assert.Equal(t, 1, got.NumLesson)
	assert.Equal(t, 12500.0, got.TotalMoney) // 100000 / 8
}

// ขาดแบบลา → ไม่คิดเงิน, ขาดไม่ลา → คิดเงิน
func TestAttendanceCheckAbsentStates(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "English", []string{"Tuesday"}, 4, 80000)
	s := createTestStudent(t, "Malika", "2024-01-01", int64(course.ID))

	// absent-excused
	code, _ := checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-02-06", true, "sick", false))
	assert.Equal(t, http.StatusCreated, code)
	rec := findRecord(t, s.ID, course.ID, "2024-02-06")
	assert.True(t, rec.IsAbsent)
	assert.False(t, rec.ChargeMoney)
	assert.Equal(t, "sick", rec.Reason)

	got := reloadStudent(t, s.ID)
	assert.Equal(t, 0, got.NumLesson)
	assert.Equal(t, 0.0, got.TotalMoney)

	// absent-unexcused อีกวัน → คิดเงิน
	code, _ = checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-02-13", true, "no show", true))
	assert.Equal(t, http.StatusCreated, code)

	got = reloadStudent(t, s.ID)
	assert.Equal(t, 1, got.NumLesson)
	assert.Equal(t, 20000.0, got.TotalMoney) // 80000 / 4
}

// ขาดเรียนโดยไม่มีเหตุผล → 400 MISSING_REASON
func TestAttendanceCheckMissingReason(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Math", []string{"Monday"}, 8, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))

	code, _ := checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-01-15", true, "   ", false))
	assert.Equal(t, http.StatusBadRequest, code)
}

// เช็คชื่อซ้ำวันเดิม → 409 และ state ต้องเท่าหลังครั้งแรกเป๊ะ
func TestAttendanceCheckDuplicate(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Math", []string{"Monday"}, 8, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))

	code, _ := checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-01-15", false, "", true))
	assert.Equal(t, http.StatusCreated, code)

	code, _ = checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-01-15", true, "late", true))
	assert.Equal(t, http.StatusConflict, code)

	// ครั้งที่สองต้องไม่แตะอะไรเลย
	rec := findRecord(t, s.ID, course.ID, "2024-01-15")
	assert.False(t, rec.IsAbsent)
	assert.Equal(t, "Present", rec.Reason)

	got := reloadStudent(t, s.ID)
	assert.Equal(t, 1, got.NumLesson)
	assert.Equal(t, 12500.0, got.TotalMoney)

	var count int64
	database.DB.Model(&models.Attendance{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

// update record ที่ไม่มีอยู่ → 404
func TestAttendanceUpdateNotFound(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Math", []string{"Monday"}, 8, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))

	code := updateAttendance(e, h, s.ID, course.ID, "2024-01-15",
		attendanceBody(s.ID, course.ID, "2024-01-15", false, "", true))
	assert.Equal(t, http.StatusNotFound, code)
}

// สลับสถานะไปมา: billable ↔ non-billable ต้องปรับยอดนักเรียนตาม delta
// และส่ง payload เดิมซ้ำต้อง idempotent
func TestAttendanceUpdateTransitions(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Math", []string{"Monday"}, 8, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))
	date := "2024-01-15"

	code, _ := checkAttendance(e, h, attendanceBody(s.ID, course.ID, date, false, "", true))
	assert.Equal(t, http.StatusCreated, code)

	// Present → Absent-Excused: ยกเลิกการคิดเงิน
	code = updateAttendance(e, h, s.ID, course.ID, date,
		attendanceBody(s.ID, course.ID, date, true, "family trip", false))
	assert.Equal(t, http.StatusOK, code)

	rec := findRecord(t, s.ID, course.ID, date)
	assert.True(t, rec.IsAbsent)
	assert.False(t, rec.ChargeMoney)
	assert.Equal(t, "family trip", rec.Reason)

	got := reloadStudent(t, s.ID)
	assert.Equal(t, 0, got.NumLesson)
	assert.Equal(t, 0.0, got.TotalMoney)

	// ซ้ำ payload เดิม → ไม่มีอะไรขยับ
	code = updateAttendance(e, h, s.ID, course.ID, date,
		attendanceBody(s.ID, course.ID, date, true, "family trip", false))
	assert.Equal(t, http.StatusOK, code)
	got = reloadStudent(t, s.ID)
	assert.Equal(t, 0, got.NumLesson)
	assert.Equal(t, 0.0, got.TotalMoney)

	// Absent-Excused → Absent-Unexcused: กลับมาคิดเงิน
	code = updateAttendance(e, h, s.ID, course.ID, date,
		attendanceBody(s.ID, course.ID, date, true, "no excuse given", true))
	assert.Equal(t, http.StatusOK, code)
	got = reloadStudent(t, s.ID)
	assert.Equal(t, 1, got.NumLesson)
	assert.Equal(t, 12500.0, got.TotalMoney)
}

// คอร์สตั้ง lesson_per_month=0 → คิด 0 ห้ามพัง
func TestAttendanceZeroLessonPerMonth(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Broken", []string{"Monday"}, 0, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))

	code, _ := checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-01-15", false, "", true))
	assert.Equal(t, http.StatusCreated, code)

	got := reloadStudent(t, s.ID)
	assert.Equal(t, 1, got.NumLesson)
	assert.Equal(t, 0.0, got.TotalMoney)
}

// GET /attendance/:studentId คืนชื่อ+ประวัติครบ
func TestAttendanceByStudent(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewAttendanceHandler()

	course := createTestCourse(t, "Math", []string{"Monday"}, 8, 100000)
	s := createTestStudent(t, "Aziz", "2024-01-01", int64(course.ID))

	code, _ := checkAttendance(e, h, attendanceBody(s.ID, course.ID, "2024-01-15", false, "", true))
	assert.Equal(t, http.StatusCreated, code)

	ctx, rec := newRequest(e, http.MethodGet, fmt.Sprintf("/attendance/%d", s.ID))
	ctx.SetParamNames("studentId")
	ctx.SetParamValues(fmt.Sprint(s.ID))
	assert.NoError(t, h.ByStudent(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"student_name":"Aziz Testov"`)
	assert.Contains(t, rec.Body.String(), `"date":"2024-01-15"`)
}
