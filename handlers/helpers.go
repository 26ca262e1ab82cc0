package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validator ตัวเดียวใช้ร่วมทุก handler (thread-safe)
var validate = validator.New()

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// ตรวจรูปแบบวันที่ YYYY-MM-DD
func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// แปลง validator.ValidationErrors → map field → ข้อความ ให้ FE โชว์ใต้ช่องกรอก
func fieldErrors(err error) map[string]string {
	errs := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["_"] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "min":
			errs[field] = "Value is too small (min " + fe.Param() + ")"
		case "max":
			errs[field] = "Value is too large (max " + fe.Param() + ")"
		case "gte":
			errs[field] = "Must be at least " + fe.Param()
		case "oneof":
			errs[field] = "Must be one of: " + fe.Param()
		default:
			errs[field] = "Invalid value"
		}
	}
	return errs
}

// อ่าน user ปัจจุบันจาก context (RequireAuth แนบไว้)
func currentUser(c echo.Context) (uid uint, role string) {
	role, _ = c.Get("role").(string)
	switch v := c.Get("user_id").(type) {
	case uint:
		uid = v
	case int:
		uid = uint(v)
	}
	return
}

// ชื่อวันในสัปดาห์ที่ยอมรับใน week_days ของคอร์ส
var validWeekDays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}
