// scripts/create_admin.go
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/abdulhafiz0-0/averna/config"
	"github.com/abdulhafiz0-0/averna/database"
	"github.com/abdulhafiz0-0/averna/models"
)

func main() {
	// โหลด config และเชื่อม DB ตามที่ main.go ใช้จริง
	_ = godotenv.Load()
	cfg := config.Load()
	database.Connect(cfg)

	username := "superadmin"
	password := "changeme123"
	if v := os.Getenv("SUPERADMIN_USERNAME"); v != "" {
		username = v
	}
	if v := os.Getenv("SUPERADMIN_PASSWORD"); v != "" {
		password = v
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// ตรวจว่ามีผู้ใช้งานชื่อเดียวกันอยู่หรือไม่
	var existing models.User
	if err := database.DB.Where("username = ?", username).First(&existing).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Fatalf("failed to query users: %v", err)
		}
	} else {
		fmt.Println("⚠️  user already exists with username:", username)
		os.Exit(0)
	}

	u := models.User{
		Username: username,
		Password: string(hashed),
		Role:     "superadmin",
	}
	if err := database.DB.Create(&u).Error; err != nil {
		log.Fatalf("failed to insert superadmin: %v", err)
	}

	fmt.Println("✅ superadmin created successfully!")
	fmt.Println("   Username:", username)
	fmt.Println("   Password:", password, "(plain, remember to change later!)")
}
