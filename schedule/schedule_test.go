package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestCountLessons(t *testing.T) {
	mon := date(2024, time.January, 1) // วันจันทร์
	tests := []struct {
		name     string
		start    time.Time
		today    time.Time
		weekDays []string
		want     int
	}{
		{name: "empty week days", start: mon, today: mon.AddDate(0, 1, 0), weekDays: nil, want: 0},
		{name: "start after today", start: mon.AddDate(0, 0, 1), today: mon, weekDays: []string{"Monday"}, want: 0},
		{name: "start equals today, weekday matches", start: mon, today: mon, weekDays: []string{"Monday"}, want: 1},
		{name: "start equals today, weekday differs", start: mon, today: mon, weekDays: []string{"Tuesday"}, want: 0},
		{
			// 2024-01-01 (จ) ถึง 2024-01-15 (จ), เรียน จ+พ → 1,3,8,10,15 = 5 ครั้ง
			name:     "two weeks Mon+Wed",
			start:    mon,
			today:    date(2024, time.January, 15),
			weekDays: []string{"Monday", "Wednesday"},
			want:     5,
		},
		{
			name:     "full week every day",
			start:    mon,
			today:    mon.AddDate(0, 0, 6),
			weekDays: []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
			want:     7,
		},
		{
			// เวลาไม่ใช่เที่ยงคืนต้องไม่ทำให้นับเพี้ยน
			name:     "intraday times are stripped",
			start:    mon.Add(23 * time.Hour),
			today:    date(2024, time.January, 15).Add(1 * time.Minute),
			weekDays: []string{"Monday", "Wednesday"},
			want:     5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountLessons(tt.start, tt.today, tt.weekDays); got != tt.want {
				t.Errorf("CountLessons() = %d, want %d", got, tt.want)
			}
		})
	}
}

// นับแล้วต้องไม่ติดลบ และขยับ today ไปข้างหน้าแล้วต้องไม่ลดลง
func TestCountLessonsMonotonic(t *testing.T) {
	start := date(2024, time.March, 7)
	weekDays := []string{"Tuesday", "Saturday"}

	prev := 0
	for i := 0; i < 90; i++ {
		today := start.AddDate(0, 0, i)
		got := CountLessons(start, today, weekDays)
		if got < 0 {
			t.Fatalf("CountLessons() = %d, must be non-negative", got)
		}
		if got < prev {
			t.Fatalf("CountLessons() decreased from %d to %d at day %d", prev, got, i)
		}
		prev = got
	}
}

func TestPerLessonRate(t *testing.T) {
	if got := PerLessonRate(100000, 8); got != 12500 {
		t.Errorf("PerLessonRate(100000, 8) = %v, want 12500", got)
	}
	// lesson_per_month = 0 → ห้ามหารศูนย์ ต้องได้ 0
	if got := PerLessonRate(100000, 0); got != 0 {
		t.Errorf("PerLessonRate(100000, 0) = %v, want 0", got)
	}
	if got := PerLessonRate(100000, -3); got != 0 {
		t.Errorf("PerLessonRate(100000, -3) = %v, want 0", got)
	}
}

func TestProjectCharge(t *testing.T) {
	// scenario ตามจริง: 5 ครั้ง, คอร์ส 100000/เดือน 8 ครั้ง → 62500
	if got := ProjectCharge(5, 100000, 8); got != 62500 {
		t.Errorf("ProjectCharge(5, 100000, 8) = %v, want 62500", got)
	}
	if got := ProjectCharge(7, 100000, 0); got != 0 {
		t.Errorf("ProjectCharge with zero lesson_per_month = %v, want 0", got)
	}
	// ปัดทศนิยม 2 ตำแหน่ง: 100/3 = 33.333... → 1 ครั้ง = 33.33
	if got := ProjectCharge(1, 100, 3); got != 33.33 {
		t.Errorf("ProjectCharge(1, 100, 3) = %v, want 33.33", got)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2024-01-15"); err != nil {
		t.Errorf("ParseDate valid date returned error: %v", err)
	}
	for _, bad := range []string{"", "15/01/2024", "2024-13-40", "yesterday"} {
		if _, err := ParseDate(bad); err != ErrInvalidDate {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestCountLessonsFrom(t *testing.T) {
	if _, err := CountLessonsFrom("not-a-date", []string{"Monday"}); err != ErrInvalidDate {
		t.Errorf("CountLessonsFrom invalid date error = %v, want ErrInvalidDate", err)
	}
	// เริ่มพรุ่งนี้ → ยังไม่มีครั้งเรียน
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	all := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if n, err := CountLessonsFrom(tomorrow, all); err != nil || n != 0 {
		t.Errorf("CountLessonsFrom(tomorrow) = %d, %v; want 0, nil", n, err)
	}
	// เริ่มวันนี้และวันนี้เป็นวันเรียน → นับเป็นครั้งที่ 1
	today := time.Now().Format("2006-01-02")
	if n, err := CountLessonsFrom(today, []string{time.Now().Weekday().String()}); err != nil || n != 1 {
		t.Errorf("CountLessonsFrom(today) = %d, %v; want 1, nil", n, err)
	}
}
