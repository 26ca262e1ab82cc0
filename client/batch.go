package client

import (
	"context"
	"sort"
	"sync"
)

// สถานะการเช็คชื่อสามแบบ กับผลเรื่องเงินของแต่ละแบบ
type State int

const (
	Present         State = iota // มาเรียน → คิดเงิน
	AbsentExcused                // ขาดแบบลา → ไม่คิดเงิน
	AbsentUnexcused              // ขาดไม่ลา → คิดเงิน
)

// แตกเป็น field ตามรูปแบบที่ backend ใช้
func (s State) fields() (isAbsent, chargeMoney bool) {
	switch s {
	case AbsentExcused:
		return true, false
	case AbsentUnexcused:
		return true, true
	default:
		return false, true
	}
}

// StagedEntry คือการเช็คชื่อหนึ่งรายการที่ค้างอยู่ใน memory ยังไม่ persist
type StagedEntry struct {
	StudentID uint
	CourseID  uint
	Date      string
	State     State
	Reason    string
}

func (e StagedEntry) record() AttendanceRecord {
	isAbsent, charge := e.State.fields()
	reason := e.Reason
	if e.State == Present {
		reason = "Present"
	}
	return AttendanceRecord{
		StudentID:   e.StudentID,
		CourseID:    e.CourseID,
		Date:        e.Date,
		IsAbsent:    isAbsent,
		Reason:      reason,
		ChargeMoney: charge,
	}
}

type entryKey struct {
	studentID uint
	courseID  uint
	date      string
}

// Batch เก็บรายการเช็คชื่อหลายคนไว้ก่อน แล้ว Confirm ทีเดียว
// แต่ละรายการสำเร็จ/ล้มเหลวแยกกัน — ไม่มี rollback ข้ามรายการ
// รายการที่พลาดยังค้างอยู่ใน batch ให้เรียก Confirm ซ้ำเพื่อ retry เฉพาะส่วนที่เหลือ
type Batch struct {
	c *Client

	mu      sync.Mutex
	entries map[entryKey]StagedEntry
}

func (c *Client) NewBatch() *Batch {
	return &Batch{c: c, entries: make(map[entryKey]StagedEntry)}
}

// Stage เพิ่ม/แทนที่รายการของ (student, course, date) เดียวกัน
// ขาดเรียนแต่ไม่บอกเหตุผล → ErrMissingReason ตั้งแต่ตอน stage ไม่ต้องรอยิงจริง
func (b *Batch) Stage(e StagedEntry) error {
	if e.State != Present && e.Reason == "" {
		return ErrMissingReason
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[entryKey{e.StudentID, e.CourseID, e.Date}] = e
	return nil
}

func (b *Batch) Unstage(studentID, courseID uint, date string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, entryKey{studentID, courseID, date})
}

// Entries คืนรายการที่ค้างอยู่ เรียงตาม student id ให้อ่านง่าย
func (b *Batch) Entries() []StagedEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]StagedEntry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].CourseID < out[j].CourseID
	})
	return out
}

func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

type EntryResult struct {
	Entry StagedEntry
	Err   error
}

type BatchResult struct {
	Succeeded []StagedEntry
	Failed    []EntryResult
}

// Confirm ยิงทุกรายการพร้อมกัน (fan-out) แล้วรอครบก่อนสรุปผล
// ลำดับระหว่างรายการไม่การันตี — อย่าพึ่งพา
// สำเร็จ → เอาออกจาก batch, พลาด → คงไว้ให้ retry
func (b *Batch) Confirm(ctx context.Context) BatchResult {
	entries := b.Entries()

	results := make([]EntryResult, len(entries))
	var wg sync.WaitGroup
	for i, e := range entries {
		wg.Add(1)
		go func(i int, e StagedEntry) {
			defer wg.Done()
			results[i] = EntryResult{Entry: e, Err: b.c.RecordAttendance(ctx, e.record())}
		}(i, e)
	}
	wg.Wait()

	var res BatchResult
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range results {
		if r.Err != nil {
			res.Failed = append(res.Failed, r)
			continue
		}
		delete(b.entries, entryKey{r.Entry.StudentID, r.Entry.CourseID, r.Entry.Date})
		res.Succeeded = append(res.Succeeded, r.Entry)
	}
	return res
}
