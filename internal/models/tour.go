package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"   // ödeme bekleniyor
	PaymentPartial   PaymentStatus = "partial"   // kısmi ödeme
	PaymentCompleted PaymentStatus = "completed" // tamamlandı
	PaymentRefunded  PaymentStatus = "refunded"  // iade edildi
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentCompleted, PaymentRefunded:
		return true
	}
	return false
}

// Tour - Satılan tur kaydı
type Tour struct {
	ID            string    `gorm:"primaryKey;size:36"`
	SerialNumber  string    `gorm:"size:20;index;not null"` // YYMM + 4 hane + TF
	CustomerID    *string   `gorm:"size:36;index"`
	CustomerName  string    `gorm:"size:150;not null"`
	CustomerPhone string    `gorm:"size:50"`
	TourName      string    `gorm:"size:200"`
	TourDate      time.Time `gorm:"index;not null"`
	AdultCount    int
	ChildCount    int

	Currency       string          `gorm:"size:10;not null;default:TRY"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	PricePerPerson decimal.Decimal `gorm:"type:decimal(20,4)"`

	PaymentStatus          PaymentStatus   `gorm:"size:20;not null;index"`
	PartialPaymentAmount   decimal.Decimal `gorm:"type:decimal(20,4)"`
	PartialPaymentCurrency string          `gorm:"size:10"`

	Notes string `gorm:"size:1000"`

	Expenses   []TourExpense  `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`
	Activities []TourActivity `gorm:"foreignKey:TourID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Tour) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TourExpense - Turun gider kalemi (otel, transfer, rehber...)
type TourExpense struct {
	ID       uint            `gorm:"primaryKey"`
	TourID   string          `gorm:"size:36;index;not null"`
	Position int             `gorm:"not null"` // formdaki sıra
	Name     string          `gorm:"size:200"`
	Category string          `gorm:"size:100"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency string          `gorm:"size:10;not null;default:TRY"`
}

// TourActivity - Tura eklenen aktivite (balon, safari...)
type TourActivity struct {
	ID                     uint            `gorm:"primaryKey"`
	TourID                 string          `gorm:"size:36;index;not null"`
	Position               int             `gorm:"not null"`
	Name                   string          `gorm:"size:200"`
	Date                   *time.Time      `gorm:"index"`
	Price                  decimal.Decimal `gorm:"type:decimal(20,4)"`
	Currency               string          `gorm:"size:10"`
	PartialPaymentAmount   decimal.Decimal `gorm:"type:decimal(20,4)"`
	PartialPaymentCurrency string          `gorm:"size:10"`
}
