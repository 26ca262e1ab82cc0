package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

// เปิด sqlite in-memory แยกต่อเทส (ตั้งชื่อตามเทสกัน cache=shared ชนกัน)
func setupTestDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("setupTestDB() open failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Student{},
		&models.Attendance{},
		&models.Payment{},
	); err != nil {
		t.Fatalf("setupTestDB() migrate failed: %v", err)
	}
	database.DB = db
}

func newRequest(e *echo.Echo, method, target string, data ...any) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		_ = json.NewEncoder(&body).Encode(data[0])
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	return ctx, rec
}

func createTestCourse(t *testing.T, name string, weekDays []string, lessonPerMonth int, cost float64) models.Course {
	t.Helper()
	course := models.Course{
		Name:           name,
		WeekDays:       datatypes.JSONSlice[string](weekDays),
		LessonPerMonth: lessonPerMonth,
		Cost:           cost,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		t.Fatalf("createTestCourse() failed: %v", err)
	}
	return course
}

func createTestStudent(t *testing.T, name, startingDate string, courses ...int64) models.Student {
	t.Helper()
	s := models.Student{
		Name:         name,
		Surname:      "Testov",
		StartingDate: startingDate,
		Courses:      datatypes.JSONSlice[int64](courses),
	}
	if err := database.DB.Create(&s).Error; err != nil {
		t.Fatalf("createTestStudent() failed: %v", err)
	}
	return s
}
