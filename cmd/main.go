package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/abdulhafiz0-0/averna/config"
	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/routes"
)

// @title           Averna API
// @version         1.0
// @description     Echo + PostgreSQL backend for the Averna tutoring center console
// @BasePath        /
func main() {
	// .env ไม่มีก็ไม่เป็นไร (prod ตั้ง env ตรงๆ)
	_ = godotenv.Load()

	cfg := config.Load()

	// เชื่อมต่อฐานข้อมูล (ถ้า DB ยังไม่ขึ้น โปรแกรมจะ error ทันที — เหมาะสำหรับ early fail)
	database.Connect(cfg)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
