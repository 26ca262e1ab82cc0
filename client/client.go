// Package client เป็น typed wrapper ของ REST API ฝั่ง Averna
// แปะ bearer token ให้ทุก request, เจอ 401 ที่ไหนก็เคลียร์ session ทิ้งทันที
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// request ค้างนานกว่านี้ถือว่าแขวน ตัดทิ้งแล้วให้ผู้ใช้ retry
const defaultTimeout = 30 * time.Second

// ===== Resource types (รูปร่างตาม backend JSON) =====

type User struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Role      string  `json:"role"`
	CourseIDs []int64 `json:"course_ids"`
}

type Student struct {
	ID           uint               `json:"id"`
	Name         string             `json:"name"`
	Surname      string             `json:"surname"`
	SecondName   string             `json:"second_name"`
	StartingDate string             `json:"starting_date"`
	NumLesson    int                `json:"num_lesson"`
	TotalMoney   float64            `json:"total_money"`
	Courses      []int64            `json:"courses"`
	IsArchived   bool               `json:"is_archived"`
	Attendance   []AttendanceRecord `json:"attendance"`
}

type Course struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	WeekDays       []string `json:"week_days"`
	LessonPerMonth int      `json:"lesson_per_month"`
	Cost           float64  `json:"cost"`
}

type AttendanceRecord struct {
	ID          uint   `json:"id"`
	StudentID   uint   `json:"student_id"`
	CourseID    uint   `json:"course_id"`
	Date        string `json:"date"`
	IsAbsent    bool   `json:"isAbsent"`
	Reason      string `json:"reason"`
	ChargeMoney bool   `json:"charge_money"`
}

type Payment struct {
	ID          uint    `json:"id"`
	StudentID   uint    `json:"student_id"`
	CourseID    uint    `json:"course_id"`
	Money       float64 `json:"money"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
}

type StatsOverview struct {
	TotalMoney    float64 `json:"total_money"`
	MonthlyMoney  float64 `json:"monthly_money"`
	Unpaid        float64 `json:"unpaid"`
	MonthlyUnpaid float64 `json:"monthly_unpaid"`
	TotalStudents int64   `json:"total_students"`
}

type CourseStats struct {
	CourseID   uint    `json:"course_id"`
	CourseName string  `json:"course_name"`
	Students   int     `json:"students"`
	Money      float64 `json:"money"`
}

type MonthStats struct {
	Month   int     `json:"month"`
	Money   float64 `json:"money"`
	Lessons int     `json:"lessons"`
}

type ProjectionItem struct {
	CourseID      uint    `json:"course_id"`
	CourseName    string  `json:"course_name"`
	Lessons       int     `json:"lessons"`
	PerLessonRate float64 `json:"per_lesson_rate"`
	Charge        float64 `json:"charge"`
}

type Projection struct {
	StudentID    uint             `json:"student_id"`
	AsOf         string           `json:"as_of"`
	Items        []ProjectionItem `json:"items"`
	TotalLessons int              `json:"total_lessons"`
	TotalCharge  float64          `json:"total_charge"`
}

type StudentAttendance struct {
	StudentID   uint               `json:"student_id"`
	StudentName string             `json:"student_name"`
	Attendance  []AttendanceRecord `json:"attendance"`
}

// ===== Client =====

type Client struct {
	baseURL string
	http    *http.Client
	store   Store

	mu      sync.RWMutex
	session Session
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithStore ใช้ store ที่กำหนดและโหลด session ที่ persist ไว้ขึ้นมาเลย
func WithStore(s Store) Option {
	return func(c *Client) {
		c.store = s
		if sess, err := s.Load(); err == nil {
			c.session = sess
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		store:   NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) setSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	_ = c.store.Save(s)
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session = Session{}
	c.mu.Unlock()
	_ = c.store.Clear()
}

type apiErrorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// do ยิง request หนึ่งครั้ง: แปะ token, encode/decode JSON, map error ตาม status/code
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s := c.Session(); s.Valid() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}

	var eb apiErrorBody
	_ = json.NewDecoder(resp.Body).Decode(&eb)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// session ใช้ไม่ได้แล้ว — เคลียร์ทิ้งทั้ง memory และ store
		c.clearSession()
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case eb.Error == "DUPLICATE_ATTENDANCE":
		return ErrDuplicateAttendance
	case eb.Error == "MISSING_REASON":
		return ErrMissingReason
	case eb.Error == "VALIDATION_ERROR":
		return &ValidationError{Fields: eb.Fields}
	default:
		return &APIError{StatusCode: resp.StatusCode, Code: eb.Error}
	}
}

// ===== Auth =====

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      uint   `json:"user_id"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil,
		map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return Session{}, err
	}
	s := Session{
		Token:    resp.AccessToken,
		UserID:   resp.UserID,
		Username: resp.Username,
		Role:     resp.Role,
	}
	c.setSession(s)
	return s, nil
}

func (c *Client) Logout() {
	c.clearSession()
}

// ===== Students =====

func (c *Client) Students(ctx context.Context) ([]Student, error) {
	var out []Student
	err := c.do(ctx, http.MethodGet, "/students/", nil, nil, &out)
	return out, err
}

func (c *Client) ArchivedStudents(ctx context.Context, skip, limit int) ([]Student, error) {
	q := url.Values{}
	q.Set("skip", fmt.Sprint(skip))
	q.Set("limit", fmt.Sprint(limit))
	var out []Student
	err := c.do(ctx, http.MethodGet, "/students/archived/", q, nil, &out)
	return out, err
}

func (c *Client) Student(ctx context.Context, id uint) (Student, error) {
	var out Student
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateStudent(ctx context.Context, s Student) (Student, error) {
	var out Student
	err := c.do(ctx, http.MethodPost, "/students/", nil, s, &out)
	return out, err
}

func (c *Client) UpdateStudent(ctx context.Context, id uint, s Student) (Student, error) {
	var out Student
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), nil, s, &out)
	return out, err
}

// ArchiveStudent คือ soft delete: ซ่อนจาก list ปกติแต่ข้อมูลยังอยู่
func (c *Client) ArchiveStudent(ctx context.Context, id uint, archived bool) error {
	body := map[string]bool{"is_archived": archived}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/students/%d", id), nil, body, nil)
}

func (c *Client) DeleteStudent(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/students/%d", id), nil, nil, nil)
}

func (c *Client) StudentProjection(ctx context.Context, id uint) (Projection, error) {
	var out Projection
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/students/%d/projection", id), nil, nil, &out)
	return out, err
}

// ===== Courses =====

func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var out []Course
	err := c.do(ctx, http.MethodGet, "/courses/", nil, nil, &out)
	return out, err
}

func (c *Client) Course(ctx context.Context, id uint) (Course, error) {
	var out Course
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/courses/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateCourse(ctx context.Context, course Course) (Course, error) {
	var out Course
	err := c.do(ctx, http.MethodPost, "/courses/", nil, course, &out)
	return out, err
}

func (c *Client) UpdateCourse(ctx context.Context, id uint, course Course) (Course, error) {
	var out Course
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/courses/%d", id), nil, course, &out)
	return out, err
}

func (c *Client) DeleteCourse(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/courses/%d", id), nil, nil, nil)
}

// ===== Payments =====

func (c *Client) Payments(ctx context.Context) ([]Payment, error) {
	var out []Payment
	err := c.do(ctx, http.MethodGet, "/payments/", nil, nil, &out)
	return out, err
}

func (c *Client) CreatePayment(ctx context.Context, p Payment) (Payment, error) {
	var out Payment
	err := c.do(ctx, http.MethodPost, "/payments/", nil, p, &out)
	return out, err
}

func (c *Client) UpdatePayment(ctx context.Context, id uint, p Payment) (Payment, error) {
	var out Payment
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/payments/%d", id), nil, p, &out)
	return out, err
}

func (c *Client) DeletePayment(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/payments/%d", id), nil, nil, nil)
}

// ===== Users =====

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var out []User
	err := c.do(ctx, http.MethodGet, "/users/", nil, nil, &out)
	return out, err
}

type UserInput struct {
	Username  string  `json:"username"`
	Password  string  `json:"password,omitempty"`
	Role      string  `json:"role"`
	CourseIDs []int64 `json:"course_ids"`
}

func (c *Client) CreateUser(ctx context.Context, in UserInput) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPost, "/users/", nil, in, &out)
	return out, err
}

func (c *Client) UpdateUser(ctx context.Context, id uint, in UserInput) (User, error) {
	var out User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), nil, in, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil, nil)
}

// ===== Attendance =====

func (c *Client) RecordAttendance(ctx context.Context, rec AttendanceRecord) error {
	return c.do(ctx, http.MethodPost, "/attendance/check", nil, rec, nil)
}

func (c *Client) UpdateAttendance(ctx context.Context, rec AttendanceRecord) error {
	q := url.Values{}
	q.Set("date", rec.Date)
	q.Set("course_id", fmt.Sprint(rec.CourseID))
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/attendance/student/%d", rec.StudentID), q, rec, nil)
}

func (c *Client) StudentAttendance(ctx context.Context, studentID uint) (StudentAttendance, error) {
	var out StudentAttendance
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/attendance/%d", studentID), nil, nil, &out)
	return out, err
}

// ===== Stats =====

func (c *Client) Stats(ctx context.Context) (StatsOverview, error) {
	var out StatsOverview
	err := c.do(ctx, http.MethodGet, "/stats/", nil, nil, &out)
	return out, err
}

func (c *Client) StatsByCourse(ctx context.Context) ([]CourseStats, error) {
	var out []CourseStats
	err := c.do(ctx, http.MethodGet, "/stats/by-course", nil, nil, &out)
	return out, err
}

type MonthlyStats struct {
	Year   int          `json:"year"`
	Months []MonthStats `json:"months"`
}

func (c *Client) StatsMonthly(ctx context.Context, year int) (MonthlyStats, error) {
	var out MonthlyStats
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stats/monthly/%d", year), nil, nil, &out)
	return out, err
}
