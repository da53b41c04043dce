package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Supplier - Otel, ulaşım, rehber vb. hizmet aldığımız firma
type Supplier struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	Name      string `gorm:"size:150;not null;index" json:"name"`
	Phone     string `gorm:"size:50" json:"phone"`
	Notes     string `gorm:"size:500" json:"notes"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// SupplierDebt - Tedarikçiye olan borç kaydı
type SupplierDebt struct {
	ID          string            `gorm:"primaryKey;size:36"`
	SupplierID  string            `gorm:"size:36;index;not null"`
	Supplier    Supplier          `gorm:"foreignKey:SupplierID"`
	Amount      decimal.Decimal   `gorm:"type:decimal(20,4);not null"` // toplam borç
	Currency    string            `gorm:"size:10;not null;default:TRY"`
	Description string            `gorm:"size:500"`
	Date        time.Time         `gorm:"index;not null"`
	DueDate     *time.Time        `gorm:"index"`
	Payments    []SupplierPayment `gorm:"foreignKey:DebtID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (d *SupplierDebt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// TotalPaid - borca yapılan ödemelerin toplamı (borcun para biriminde)
func (d SupplierDebt) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (d SupplierDebt) Remaining() decimal.Decimal {
	return d.Amount.Sub(d.TotalPaid())
}

// SupplierPayment - Borca yapılan ödeme (taksit vs.)
type SupplierPayment struct {
	ID          string          `gorm:"primaryKey;size:36"`
	DebtID      string          `gorm:"size:36;index;not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Date        time.Time       `gorm:"index;not null"`
	Description string          `gorm:"size:500"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *SupplierPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
