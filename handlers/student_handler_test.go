package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

func TestStudentCreateAndGet(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()

	body := map[string]any{
		"name":          "  Aziz ",
		"surname":       "Karimov",
		"starting_date": "2024-01-01",
		"courses":       []int64{1, 2},
	}
	ctx, rec := newRequest(e, http.MethodPost, "/students/", body)
	assert.NoError(t, h.Create(ctx))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	// ชื่อต้องถูก trim ตอน normalize
	assert.Equal(t, "Aziz", created.Name)
	assert.Equal(t, 0, created.NumLesson)
	assert.Equal(t, 0.0, created.TotalMoney)
	assert.False(t, created.IsArchived)

	ctx, rec = newRequest(e, http.MethodGet, "/students/")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(created.ID))
	assert.NoError(t, h.Get(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentCreateValidation(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()

	ctx, rec := newRequest(e, http.MethodPost, "/students/", map[string]any{
		"name":          "",
		"starting_date": "01/01/2024",
	})
	assert.NoError(t, h.Create(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	assert.Contains(t, resp.Fields, "name")
	assert.Contains(t, resp.Fields, "surname")
	assert.Contains(t, resp.Fields, "starting_date")
}

func TestStudentArchiveRestore(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()
	s := createTestStudent(t, "Malika", "2024-01-01")

	// archive = partial update ส่งมาแค่ is_archived
	code := updateStudent(e, h, s.ID, map[string]any{"is_archived": true})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reloadStudent(t, s.ID).IsArchived)
	// ฟิลด์อื่นต้องไม่โดนล้าง
	assert.Equal(t, "Malika", reloadStudent(t, s.ID).Name)

	// active list ต้องไม่เห็น, archived list ต้องเห็น
	ctx, rec := newRequest(e, http.MethodGet, "/students/")
	assert.NoError(t, h.List(ctx))
	assert.Equal(t, "[]\n", rec.Body.String())

	ctx, rec = newRequest(e, http.MethodGet, "/students/archived")
	assert.NoError(t, h.ListArchived(ctx))
	var archived []models.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Len(t, archived, 1)

	// restore
	code = updateStudent(e, h, s.ID, map[string]any{"is_archived": false})
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, reloadStudent(t, s.ID).IsArchived)
}

func TestStudentUpdateNotFound(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()

	code := updateStudent(e, h, 9999, map[string]any{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestStudentDelete(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()
	s := createTestStudent(t, "Temur", "2024-01-01")

	ctx, rec := newRequest(e, http.MethodDelete, "/students/")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(s.ID))
	assert.NoError(t, h.Delete(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	assert.Equal(t, int64(0), count)

	ctx, rec = newRequest(e, http.MethodDelete, "/students/")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(s.ID))
	assert.NoError(t, h.Delete(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentProjection(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()

	course := createTestCourse(t, "Math", []string{"Monday", "Wednesday"}, 8, 100000)
	// เริ่มเรียนอนาคต → ยังไม่มีครั้งเรียน ยอดคาดการณ์ต้องเป็นศูนย์
	s := createTestStudent(t, "Dilnoza", "2100-01-01", int64(course.ID))

	ctx, rec := newRequest(e, http.MethodGet, "/students/projection")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(s.ID))
	assert.NoError(t, h.Projection(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		StudentID    uint             `json:"student_id"`
		Items        []projectionItem `json:"items"`
		TotalLessons int              `json:"total_lessons"`
		TotalCharge  float64          `json:"total_charge"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, s.ID, resp.StudentID)
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, 0, resp.Items[0].Lessons)
	assert.Equal(t, 12500.0, resp.Items[0].PerLessonRate)
	assert.Equal(t, 0.0, resp.TotalCharge)

	// projection ต้องไม่เขียนอะไรลงตัวนักเรียน
	after := reloadStudent(t, s.ID)
	assert.Equal(t, 0, after.NumLesson)
	assert.Equal(t, 0.0, after.TotalMoney)
}

func TestStudentProjectionInvalidDate(t *testing.T) {
	setupTestDB(t)
	e := echo.New()
	h := NewStudentHandler()
	s := createTestStudent(t, "Bekzod", "not-a-date")

	ctx, rec := newRequest(e, http.MethodGet, "/students/projection")
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(s.ID))
	assert.NoError(t, h.Projection(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_DATE")
}

func updateStudent(e *echo.Echo, h *StudentHandler, id uint, body any) int {
	ctx, rec := newRequest(e, http.MethodPut, "/students/", body)
	ctx.SetParamNames("id")
	ctx.SetParamValues(fmt.Sprint(id))
	_ = h.Update(ctx)
	return rec.Code
}
