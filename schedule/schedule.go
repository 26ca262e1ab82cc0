// Package schedule คำนวณจำนวนครั้งเรียนและค่าเรียนคาดการณ์จากตารางรายสัปดาห์ของคอร์ส
// เป็น pure function ล้วนๆ ไม่แตะ database — ผล projection เป็นแค่ตัวเลขแนะนำ
// ห้ามเอาไปเขียนทับ num_lesson/total_money ของนักเรียนเองโดยไม่ผ่าน save จริง
package schedule

import (
	"errors"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// ErrInvalidDate วันที่ parse ไม่ได้ (ต้องเป็น YYYY-MM-DD)
var ErrInvalidDate = errors.New("schedule: invalid date")

// ParseDate แปลง YYYY-MM-DD → time.Time (เที่ยงคืน local)
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ตัดเวลาออกเหลือเที่ยงคืน กัน off-by-one จากการเทียบภายในวันเดียวกัน
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// CountLessons นับจำนวนวันเรียนตั้งแต่ start ถึง today (รวมทั้งสองปลาย)
// วันไหนชื่อวันอยู่ใน weekDays ถือเป็นหนึ่งครั้งเรียน start หลัง today → 0
// เดินทีละวันตรงๆ O(days) — สเกลข้อมูลแบบนี้พอ ไม่ต้อง optimize
func CountLessons(start, today time.Time, weekDays []string) int {
	if len(weekDays) == 0 {
		return 0
	}
	meets := make(map[string]struct{}, len(weekDays))
	for _, d := range weekDays {
		meets[d] = struct{}{}
	}

	start = midnight(start)
	today = midnight(today)
	if start.After(today) {
		return 0
	}

	count := 0
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		if _, ok := meets[d.Weekday().String()]; ok {
			count++
		}
	}
	return count
}

// CountLessonsFrom เหมือน CountLessons แต่รับวันเริ่มเป็น string และเทียบกับวันนี้
func CountLessonsFrom(startingDate string, weekDays []string) (int, error) {
	start, err := ParseDate(startingDate)
	if err != nil {
		return 0, err
	}
	return CountLessons(start, time.Now(), weekDays), nil
}

// PerLessonRate ราคาต่อครั้ง = cost / lesson_per_month
// lessonPerMonth = 0 คือ config ผิด → คืน 0 แทนการหารศูนย์ (caller ควร log)
func PerLessonRate(cost float64, lessonPerMonth int) float64 {
	if lessonPerMonth <= 0 {
		return 0
	}
	return cost / float64(lessonPerMonth)
}

// ProjectCharge ค่าเรียนสะสมคาดการณ์ = lessonCount * ราคาต่อครั้ง (ปัด 2 ตำแหน่ง)
func ProjectCharge(lessonCount int, cost float64, lessonPerMonth int) float64 {
	rate := PerLessonRate(cost, lessonPerMonth)
	return math.Round(float64(lessonCount)*rate*100) / 100
}
