package finance

import (
	"cmp"
	"slices"
	"strings"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
)

// CustomerSummary müşteri analizi tablosunun satırı.
type CustomerSummary struct {
	CustomerName string  `json:"customer_name"`
	Phone        string  `json:"phone"`
	TourCount    int     `json:"tour_count"`
	Revenue      Amounts `json:"revenue"` // tanınan gelir
	Nominal      Amounts `json:"nominal"` // satış bedelleri
}

// SummarizeByCustomer turları müşteri adına (büyük/küçük harf duyarsız) göre
// gruplar. Sonuç isim sırasındadır.
func SummarizeByCustomer(tours []models.Tour) []CustomerSummary {
	byKey := make(map[string]*CustomerSummary)
	for _, t := range tours {
		key := strings.ToLower(strings.TrimSpace(t.CustomerName))
		cs, ok := byKey[key]
		if !ok {
			cs = &CustomerSummary{
				CustomerName: strings.TrimSpace(t.CustomerName),
				Revenue:      Amounts{},
				Nominal:      Amounts{},
			}
			byKey[key] = cs
		}
		if cs.Phone == "" {
			cs.Phone = t.CustomerPhone
		}
		cs.TourCount++
		for c, v := range RecognizedRevenue(t) {
			cs.Revenue.add(c, v)
		}
		cs.Nominal.add(t.Currency, NominalAmount(t))
	}

	out := make([]CustomerSummary, 0, len(byKey))
	for _, cs := range byKey {
		out = append(out, *cs)
	}
	slices.SortFunc(out, func(a, b CustomerSummary) int {
		return cmp.Compare(strings.ToLower(a.CustomerName), strings.ToLower(b.CustomerName))
	})
	return out
}

// Total para birimindeki toplamı döner.
func (a Amounts) Total(code string) decimal.Decimal {
	return a[NormalizeCurrency(code)]
}
