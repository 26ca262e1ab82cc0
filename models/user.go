package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;size:60;not null"`
	Password string `json:"-" gorm:"not null"`            // เก็บ bcrypt hash
	Role     string `json:"role" gorm:"size:20;not null"` // "teacher" | "admin" | "superadmin"

	// คอร์สที่ครูคนนี้ดูแล (เฉพาะ role=teacher, role อื่นเว้นว่าง)
	CourseIDs datatypes.JSONSlice[int64] `json:"course_ids"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
