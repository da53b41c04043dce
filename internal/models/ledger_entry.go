package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EntryType string

const (
	EntryTypeIncome  EntryType = "income"  // gelir
	EntryTypeExpense EntryType = "expense" // gider
)

func (t EntryType) Valid() bool {
	return t == EntryTypeIncome || t == EntryTypeExpense
}

// TourExpenseCategory - turun gider listesinden türetilen kayıtların kategorisi
const TourExpenseCategory = "Tur Gideri"

// LedgerEntry - Gelir/gider kaydı
type LedgerEntry struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Type          EntryType       `gorm:"size:10;not null;index" json:"type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	Currency      string          `gorm:"size:10;not null;default:TRY;index" json:"currency"`
	Category      string          `gorm:"size:100;index" json:"category"`
	RelatedTourID *string         `gorm:"size:36;index" json:"related_tour_id"`
	Date          time.Time       `gorm:"index;not null" json:"date"`
	Description   string          `gorm:"size:255" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// IsTourDerived - tur giderlerinden otomatik üretilmiş kayıt mı?
func (e LedgerEntry) IsTourDerived() bool {
	return e.RelatedTourID != nil && e.Category == TourExpenseCategory
}
