package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/abdulhafiz0-0/averna/config"
	"github.com/abdulhafiz0-0/averna/handlers"
	"github.com/abdulhafiz0-0/averna/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	std := handlers.NewStudentHandler()
	crs := handlers.NewCourseHandler()
	pay := handlers.NewPaymentHandler()
	usr := handlers.NewUserHandler()
	att := handlers.NewAttendanceHandler()
	stats := handlers.NewStatsHandler()

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== ทุก role ที่ login แล้ว (teacher เห็นเฉพาะส่วนอ่าน + เช็คชื่อ) =====
	api := e.Group("", authMW, middlewares.RequireRole("teacher", "admin", "superadmin"))

	api.PUT("/profile/password", auth.ChangePassword)

	api.GET("/students/", std.List)
	api.GET("/students/:id", std.Get)
	api.GET("/students/:id/projection", std.Projection)

	api.GET("/courses/", crs.List)
	api.GET("/courses/:id", crs.Get)

	api.POST("/attendance/check", att.Check)
	api.PUT("/attendance/student/:id", att.Update)
	api.GET("/attendance/:studentId", att.ByStudent)

	// ===== Admin ขึ้นไป: แก้ข้อมูลหลัก + การเงิน + สถิติ =====
	admin := e.Group("", authMW, middlewares.RequireRole("admin", "superadmin"))

	admin.GET("/students/archived/", std.ListArchived)
	admin.POST("/students/", std.Create)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)

	admin.POST("/courses/", crs.Create)
	admin.PUT("/courses/:id", crs.Update)
	admin.DELETE("/courses/:id", crs.Delete)

	admin.GET("/payments/", pay.List)
	admin.POST("/payments/", pay.Create)
	admin.PUT("/payments/:id", pay.Update)
	admin.DELETE("/payments/:id", pay.Delete)

	admin.GET("/stats/", stats.Overview)
	admin.GET("/stats/by-course", stats.ByCourse)
	admin.GET("/stats/monthly/:year", stats.Monthly)

	// ===== Superadmin: จัดการบัญชีผู้ใช้ =====
	su := e.Group("", authMW, middlewares.RequireRole("superadmin"))

	su.GET("/users/", usr.List)
	su.POST("/users/", usr.Create)
	su.PUT("/users/:id", usr.Update)
	su.DELETE("/users/:id", usr.Delete)
}
