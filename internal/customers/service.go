package customers

import (
	"errors"
	"fmt"
	"strings"

	"acente-backend/internal/models"

	"gorm.io/gorm"
)

var ErrNameRequired = errors.New("müşteri adı zorunlu")

// FindOrCreate adı (büyük/küçük harf duyarsız) ya da telefonu eşleşen ilk
// müşteriyi döner; yoksa verilen bilgilerle yeni müşteri açar. created false ise
// mevcut kayıt bulunmuştur.
func FindOrCreate(tx *gorm.DB, name, phone string) (customer *models.Customer, created bool, err error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" {
		return nil, false, ErrNameRequired
	}

	q := tx.Where("LOWER(name) = LOWER(?)", name)
	if phone != "" {
		q = q.Or("phone = ?", phone)
	}

	var existing models.Customer
	err = q.Order("created_at, id").First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("müşteri aranamadı: %w", err)
	}

	c := models.Customer{Name: name, Phone: phone}
	if err := tx.Create(&c).Error; err != nil {
		return nil, false, fmt.Errorf("müşteri oluşturulamadı: %w", err)
	}
	return &c, true, nil
}
