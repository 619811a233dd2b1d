// seed-admin creates or resets the bootstrap admin account so a fresh
// deployment can log in.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	ADMIN_EMAIL=... ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/vshopvn/banhang_backend/config"
	"github.com/vshopvn/banhang_backend/models"
	"github.com/vshopvn/banhang_backend/utils"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail = "admin@banhang.local"
	defaultAdminName  = "Quản trị viên"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	if email == "" {
		email = defaultAdminEmail
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_PASSWORD is required")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		u := models.User{
			Name:     defaultAdminName,
			Email:    email,
			Password: string(hashed),
			Role:     models.UserRoleAdmin,
			IsActive: utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create admin user: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("created admin user " + email)
		return
	}

	err = db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"password":  string(hashed),
		"role":      models.UserRoleAdmin,
		"is_active": true,
	}).Error
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to update admin user: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("reset admin user " + email)
}
