package finance

import (
	"cmp"
	"slices"
	"strings"

	"acente-backend/internal/models"
)

// UncategorizedLabel kategorisi boş kayıtların gruplandığı ad.
const UncategorizedLabel = "Kategorisiz"

type CategorySummary struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Amounts  Amounts `json:"amounts"`
}

// SummarizeByCategory verilen tipteki kayıtları kategoriye göre gruplar.
// Kategori adları kırpılır ve büyük/küçük harf duyarsız eşleşir; sonuç ada göre
// sıralıdır. Para birimleri asla birleştirilmez.
func SummarizeByCategory(entries []models.LedgerEntry, typ models.EntryType) []CategorySummary {
	byKey := make(map[string]*CategorySummary)
	for _, e := range entries {
		if normalizeEntryType(e.Type) != typ {
			continue
		}
		name := strings.TrimSpace(e.Category)
		if name == "" {
			name = UncategorizedLabel
		}
		key := strings.ToLower(name)
		cs, ok := byKey[key]
		if !ok {
			cs = &CategorySummary{Category: name, Amounts: Amounts{}}
			byKey[key] = cs
		}
		cs.Count++
		cs.Amounts.add(e.Currency, e.Amount)
	}

	out := make([]CategorySummary, 0, len(byKey))
	for _, cs := range byKey {
		out = append(out, *cs)
	}
	slices.SortFunc(out, func(a, b CategorySummary) int {
		return cmp.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	})
	return out
}
