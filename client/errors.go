package client

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// error กลุ่มที่ caller ต้อง branch ตาม
var (
	// token หมดอายุ/ใช้ไม่ได้ — client เคลียร์ session ให้แล้ว caller แค่พาไปหน้า login
	ErrUnauthorized = errors.New("client: unauthorized")
	// record/entity ที่ขอไม่มีอยู่
	ErrNotFound = errors.New("client: not found")
	// (student, course, date) นี้เช็คชื่อไปแล้ว ต้องใช้เส้นทาง update แทน
	ErrDuplicateAttendance = errors.New("client: duplicate attendance")
	// ขาดเรียนต้องมีเหตุผล
	ErrMissingReason = errors.New("client: missing absence reason")
)

// ValidationError พกรายละเอียดราย field ให้ฟอร์มโชว์ใต้ช่องกรอก
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "client: validation failed: " + strings.Join(keys, ", ")
}

// APIError คือ error อื่นๆ จาก backend ที่ไม่เข้าเคสข้างบน (retryable generic failure)
type APIError struct {
	StatusCode int
	Code       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("client: api error %d (%s)", e.StatusCode, e.Code)
}
