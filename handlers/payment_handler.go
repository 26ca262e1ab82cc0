package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

type PaymentHandler struct{}

func NewPaymentHandler() *PaymentHandler { return &PaymentHandler{} }

type paymentPayload struct {
	StudentID   uint    `json:"student_id" validate:"required"`
	CourseID    uint    `json:"course_id" validate:"required"`
	Money       float64 `json:"money" validate:"required,gt=0"`
	Date        string  `json:"date" validate:"required"`
	Description string  `json:"description"`
}

func validatePayment(p *paymentPayload) map[string]string {
	p.Date = strings.TrimSpace(p.Date)
	p.Description = strings.TrimSpace(p.Description)
	if err := validate.Struct(p); err != nil {
		return fieldErrors(err)
	}
	if !isValidDate(p.Date) {
		return map[string]string{"date": "Date must be YYYY-MM-DD"}
	}
	return nil
}

// ปรับยอดค้างของนักเรียน: จ่ายเงิน = หนี้ลด (delta ติดลบ), ลบรายการจ่าย = หนี้กลับมา
func adjustStudentDebt(tx *gorm.DB, studentID uint, delta float64) error {
	return tx.Model(&models.Student{}).Where("id = ?", studentID).
		Update("total_money", gorm.Expr("total_money + ?", delta)).Error
}

// GET /payments
func (h *PaymentHandler) List(c echo.Context) error {
	var items []models.Payment
	if err := database.DB.Order("date DESC, id DESC").Find(&items).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}
	return c.JSON(http.StatusOK, items)
}

// POST /payments
func (h *PaymentHandler) Create(c echo.Context) error {
	var p paymentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if errs := validatePayment(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	var s models.Student
	if err := database.DB.First(&s, p.StudentID).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "STUDENT_NOT_FOUND"})
	}

	rec := models.Payment{
		StudentID:   p.StudentID,
		CourseID:    p.CourseID,
		Money:       p.Money,
		Date:        p.Date,
		Description: p.Description,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		return adjustStudentDebt(tx, rec.StudentID, -rec.Money)
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, rec)
}

// PUT /payments/:id — คืนยอดของรายการเดิมก่อนแล้วค่อยหักตามรายการใหม่
// (รองรับแก้ student_id ด้วย: ยอดย้ายตามคน)
func (h *PaymentHandler) Update(c echo.Context) error {
	var rec models.Payment
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	var p paymentPayload
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "INVALID_PAYLOAD"})
	}
	if errs := validatePayment(&p); errs != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": errs})
	}

	oldStudent, oldMoney := rec.StudentID, rec.Money
	rec.StudentID = p.StudentID
	rec.CourseID = p.CourseID
	rec.Money = p.Money
	rec.Date = p.Date
	rec.Description = p.Description

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&rec).Error; err != nil {
			return err
		}
		if err := adjustStudentDebt(tx, oldStudent, oldMoney); err != nil {
			return err
		}
		return adjustStudentDebt(tx, rec.StudentID, -rec.Money)
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, rec)
}

// DELETE /payments/:id
func (h *PaymentHandler) Delete(c echo.Context) error {
	var rec models.Payment
	if err := database.DB.First(&rec, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "DB_QUERY_FAILED"})
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&rec).Error; err != nil {
			return err
		}
		return adjustStudentDebt(tx, rec.StudentID, rec.Money)
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "payment deleted"})
}
