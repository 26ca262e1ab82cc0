package models

import "time"

// บันทึกการมาเรียนของนักเรียนต่อ (คอร์ส, วัน) — มีได้แถวเดียวต่อ (student, course, date)
// สามสถานะ:
//
//	มาเรียน        → is_absent=false, charge_money=true,  reason="Present"
//	ขาด (ลา)       → is_absent=true,  charge_money=false, reason=ต้องกรอก
//	ขาด (ไม่ลา)    → is_absent=true,  charge_money=true,  reason=ต้องกรอก
type Attendance struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	StudentID   uint   `json:"student_id" gorm:"uniqueIndex:idx_attendance_key;not null"`
	CourseID    uint   `json:"course_id" gorm:"uniqueIndex:idx_attendance_key;not null"`
	Date        string `json:"date" gorm:"size:10;uniqueIndex:idx_attendance_key;not null"` // YYYY-MM-DD
	IsAbsent    bool   `json:"isAbsent"`
	Reason      string `json:"reason" gorm:"type:text"`
	ChargeMoney bool   `json:"charge_money"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
