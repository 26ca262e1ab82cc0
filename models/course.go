package models

import (
	"time"

	"gorm.io/datatypes"
)

// คอร์สเรียน: เจอกันตามวันในสัปดาห์ (week_days เก็บชื่อวันภาษาอังกฤษ เช่น "Monday")
// cost คือราคาต่อเดือน → ราคาต่อครั้ง = cost / lesson_per_month
type Course struct {
	ID             uint                        `json:"id" gorm:"primaryKey"`
	Name           string                      `json:"name" gorm:"size:100;not null"`
	WeekDays       datatypes.JSONSlice[string] `json:"week_days"`
	LessonPerMonth int                         `json:"lesson_per_month" gorm:"not null"`
	Cost           float64                     `json:"cost" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
