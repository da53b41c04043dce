package finance

import (
	"maps"
	"slices"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
)

// CurrencySummary tek bir para biriminin özetidir.
type CurrencySummary struct {
	Currency string `json:"currency"`

	Income        decimal.Decimal `json:"income"`         // tura bağlı olmayan + bağlı gelir kayıtları
	Expense       decimal.Decimal `json:"expense"`        // tur giderleri dahil tüm giderler
	TourIncome    decimal.Decimal `json:"tour_income"`    // turlardan tanınan gelir
	TourExpenses  decimal.Decimal `json:"tour_expenses"`  // Expense'in "Tur Gideri" kısmı, sadece gösterim için
	OtherExpenses decimal.Decimal `json:"other_expenses"` // Expense - TourExpenses

	Profit      decimal.Decimal `json:"profit"`       // Income - Expense
	TotalIncome decimal.Decimal `json:"total_income"` // Income + TourIncome
	TotalProfit decimal.Decimal `json:"total_profit"` // TotalIncome - Expense
	Balance     decimal.Decimal `json:"balance"`      // = TotalProfit, kasadaki tutar
}

// Summary para birimi sırası korunmuş özet.
type Summary struct {
	Currencies []string
	ByCurrency map[string]CurrencySummary
}

// Get kodu normalize ederek özeti döner; olmayan kod için sıfır özet verir.
func (s Summary) Get(code string) CurrencySummary {
	c := NormalizeCurrency(code)
	if cs, ok := s.ByCurrency[c]; ok {
		return cs
	}
	return CurrencySummary{Currency: c}
}

// Ordered özetleri Currencies sırasıyla döner.
func (s Summary) Ordered() []CurrencySummary {
	out := make([]CurrencySummary, 0, len(s.Currencies))
	for _, c := range s.Currencies {
		out = append(out, s.ByCurrency[c])
	}
	return out
}

// SummarizeByCurrency gelir/gider kayıtları ve turlardan para birimi bazında
// finansal özet çıkarır. filter belirli bir kod ya da "all" olabilir. Hiç veri
// yoksa bile "all" için sıfırlardan oluşan bir TRY özeti döner.
func SummarizeByCurrency(ledger []models.LedgerEntry, tours []models.Tour, filter string) Summary {
	codes := workingCurrencies(ledger, tours, filter)

	buckets := make(map[string]*CurrencySummary, len(codes))
	for _, c := range codes {
		buckets[c] = &CurrencySummary{Currency: c}
	}

	for _, e := range ledger {
		b, ok := buckets[NormalizeCurrency(e.Currency)]
		if !ok {
			continue
		}
		switch normalizeEntryType(e.Type) {
		case models.EntryTypeIncome:
			b.Income = b.Income.Add(e.Amount)
		case models.EntryTypeExpense:
			b.Expense = b.Expense.Add(e.Amount)
			if e.Category == models.TourExpenseCategory {
				b.TourExpenses = b.TourExpenses.Add(e.Amount)
			}
		}
	}

	for _, t := range tours {
		for c, v := range RecognizedRevenue(t) {
			if b, ok := buckets[c]; ok {
				b.TourIncome = b.TourIncome.Add(v)
			}
		}
	}

	out := Summary{
		Currencies: codes,
		ByCurrency: make(map[string]CurrencySummary, len(codes)),
	}
	for _, c := range codes {
		b := buckets[c]
		b.OtherExpenses = b.Expense.Sub(b.TourExpenses)
		b.Profit = b.Income.Sub(b.Expense)
		b.TotalIncome = b.Income.Add(b.TourIncome)
		b.TotalProfit = b.TotalIncome.Sub(b.Expense)
		b.Balance = b.TotalProfit
		out.ByCurrency[c] = *b
	}
	return out
}

func workingCurrencies(ledger []models.LedgerEntry, tours []models.Tour, filter string) []string {
	if !IsAllCurrencies(filter) {
		return []string{NormalizeCurrency(filter)}
	}

	seen := make(map[string]struct{})
	for _, e := range ledger {
		seen[NormalizeCurrency(e.Currency)] = struct{}{}
	}
	for _, t := range tours {
		tourCurrencies(t, seen)
	}
	if len(seen) == 0 {
		return []string{DefaultCurrency}
	}
	return SortCurrencies(slices.Collect(maps.Keys(seen)))
}
