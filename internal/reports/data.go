package reports

import (
	"fmt"
	"strings"

	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"gorm.io/gorm"
)

// loadAll raporlar için tüm kayıtları yükler. Tarih süzmesi çağıran tarafta
// yapılır; akış numaraları tüm kayıtlar üzerinden verilmelidir.
func loadAll(db *gorm.DB) ([]models.LedgerEntry, []models.Tour, error) {
	var ledger []models.LedgerEntry
	if err := db.Order("date, id").Find(&ledger).Error; err != nil {
		return nil, nil, fmt.Errorf("gelir/gider kayıtları okunamadı: %w", err)
	}

	var tours []models.Tour
	err := db.
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Activities", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("tour_date, id").
		Find(&tours).Error
	if err != nil {
		return nil, nil, fmt.Errorf("turlar okunamadı: %w", err)
	}
	return ledger, tours, nil
}

// formatAmounts "₺100.00 + $50.00" biçiminde, sabit para birimi sırasıyla yazar.
func formatAmounts(a finance.Amounts) string {
	codes := make([]string, 0, len(a))
	for c := range a {
		codes = append(codes, c)
	}
	parts := make([]string, 0, len(codes))
	for _, c := range finance.SortCurrencies(codes) {
		parts = append(parts, finance.FormatMoney(a[c], c))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " + ")
}
