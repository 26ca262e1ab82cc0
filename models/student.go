package models

import (
	"time"

	"gorm.io/datatypes"
)

// นักเรียนของศูนย์ติว ลงได้หลายคอร์ส (เก็บเป็น list ของ course id)
// total_money คือยอดค้างชำระ: ค่าบวก = นักเรียนติดเงินศูนย์ (convention เดียวทั้งระบบ)
type Student struct {
	ID           uint    `json:"id" gorm:"primaryKey"`
	Name         string  `json:"name" gorm:"size:50;not null"`
	Surname      string  `json:"surname" gorm:"size:50;not null"`
	SecondName   string  `json:"second_name" gorm:"size:50"`
	StartingDate string  `json:"starting_date" gorm:"size:10;not null"` // YYYY-MM-DD วันเริ่มเรียน
	NumLesson    int     `json:"num_lesson"`
	TotalMoney   float64 `json:"total_money"`

	Courses    datatypes.JSONSlice[int64] `json:"courses"`
	IsArchived bool                       `json:"is_archived" gorm:"index"`

	Attendance []Attendance `json:"attendance" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
