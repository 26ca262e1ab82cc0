package models

import "time"

// รายการชำระเงิน (บันทึกมือโดย admin) แยกจากค่าเรียนที่ระบบคิดจาก attendance
type Payment struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	StudentID   uint    `json:"student_id" gorm:"index;not null"`
	CourseID    uint    `json:"course_id" gorm:"index;not null"`
	Money       float64 `json:"money" gorm:"not null"`
	Date        string  `json:"date" gorm:"size:10;not null"` // YYYY-MM-DD
	Description string  `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
