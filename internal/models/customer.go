package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:150;not null;index" json:"name"`
	Phone     string    `gorm:"size:50;index" json:"phone"`
	Email     string    `gorm:"size:150" json:"email"`
	IDNumber  string    `gorm:"size:20" json:"id_number"` // TC kimlik / pasaport
	Address   string    `gorm:"size:500" json:"address"`
	Notes     string    `gorm:"size:1000" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
