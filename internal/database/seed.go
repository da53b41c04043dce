package database

import (
	"errors"
	"fmt"
	"strings"

	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin hiç yönetici yoksa verilen bilgilerle bir tane oluşturur.
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		logger.L().Warn("ADMIN_EMAIL/ADMIN_PASSWORD tanımlı değil, yönetici oluşturulmadı")
		return nil
	}

	var existing models.User
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("yönetici kontrol edilemedi: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("şifre hashlenemedi: %w", err)
	}

	admin := models.User{
		Name:         "Yönetici",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("yönetici oluşturulamadı: %w", err)
	}
	logger.L().Infof("İlk yönetici oluşturuldu: %s", admin.Email)
	return nil
}
