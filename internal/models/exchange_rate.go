package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate - Kur kaynağından alınan anlık kur (TRY karşılığı)
type ExchangeRate struct {
	ID          uint            `gorm:"primaryKey"`
	Code        string          `gorm:"size:10;uniqueIndex;not null"`
	Name        string          `gorm:"size:100"`
	Buying      decimal.Decimal `gorm:"type:decimal(20,6)"`
	Selling     decimal.Decimal `gorm:"type:decimal(20,6)"`
	LastUpdated string          `gorm:"size:50"` // kaynağın bildirdiği zaman, olduğu gibi
	FetchedAt   time.Time       `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
