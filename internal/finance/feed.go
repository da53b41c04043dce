package finance

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"time"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
)

type FeedKind string

const (
	FeedKindTour    FeedKind = "tour"
	FeedKindFinance FeedKind = "finance"
)

// Satır tipleri: turun kendisi, tur gider toplamı ve bağımsız gelir/gider
const (
	RowTour         = "tour"
	RowTourExpenses = "tour_expenses"
	RowIncome       = "income"
	RowExpense      = "expense"
)

// FeedRow işlemler tablosundaki tek satır.
type FeedRow struct {
	Kind         FeedKind             `json:"kind"`
	Type         string               `json:"type"`
	ID           string               `json:"id"`
	Reference    string               `json:"reference"` // seri no veya F1, F2...
	TourID       string               `json:"tour_id,omitempty"`
	CustomerName string               `json:"customer_name,omitempty"`
	Description  string               `json:"description"`
	Category     string               `json:"category,omitempty"`
	Date         time.Time            `json:"date"`
	Currency     string               `json:"currency"`
	Status       models.PaymentStatus `json:"status,omitempty"`

	// Amounts tanınan tutarlar (tur satırında tahsil edilen gelir, gider
	// satırlarında gider). NominalAmount sadece tur satırında dolu: satış bedeli.
	Amounts       Amounts         `json:"amounts"`
	NominalAmount decimal.Decimal `json:"nominal_amount"`

	group string
	rank  int
}

// Standalone turla ilişkisi olmayan gelir/gider satırıdır.
func (r FeedRow) Standalone() bool {
	return r.Kind == FeedKindFinance && r.Type != RowTourExpenses
}

// Feed tarihe göre yeniden eskiye sıralanmış satırlar.
type Feed struct {
	Rows []FeedRow
}

// TourRows tur satırları ve her turun gider toplamı satırı.
func (f Feed) TourRows() []FeedRow {
	out := make([]FeedRow, 0, len(f.Rows))
	for _, r := range f.Rows {
		if !r.Standalone() {
			out = append(out, r)
		}
	}
	return out
}

// FinanceRows turla ilişkisi olmayan gelir/gider satırları.
func (f Feed) FinanceRows() []FeedRow {
	out := make([]FeedRow, 0, len(f.Rows))
	for _, r := range f.Rows {
		if r.Standalone() {
			out = append(out, r)
		}
	}
	return out
}

// Between satırları tarih aralığına göre süzer, sırayı bozmaz.
func (f Feed) Between(from, to *time.Time) Feed {
	out := make([]FeedRow, 0, len(f.Rows))
	for _, r := range f.Rows {
		if InDateRange(r.Date, from, to) {
			out = append(out, r)
		}
	}
	return Feed{Rows: out}
}

// BuildTransactionFeed turları ve gelir/gider kayıtlarını tek akışta birleştirir.
//
// Her tur için bir tur satırı ve (sıfır değilse) turun gider kalemleri ile tura
// bağlı gider kayıtlarının para birimi bazlı toplamı olan bir gider satırı üretilir.
// Tura bağlı olmayan kayıtlar gelir ve gider için ayrı sayaçlarla F1, F2...
// şeklinde numaralanır. Aynı tarihte turun kendi satırı gider satırından önce gelir.
func BuildTransactionFeed(ledger []models.LedgerEntry, tours []models.Tour) Feed {
	related := make(map[string][]models.LedgerEntry)
	standalone := make([]models.LedgerEntry, 0, len(ledger))
	for _, e := range ledger {
		if e.RelatedTourID != nil && strings.TrimSpace(*e.RelatedTourID) != "" {
			related[*e.RelatedTourID] = append(related[*e.RelatedTourID], e)
			continue
		}
		standalone = append(standalone, e)
	}

	rows := make([]FeedRow, 0, len(tours)*2+len(standalone))
	for _, t := range tours {
		rows = append(rows, tourRow(t))
		if r, ok := tourExpenseRow(t, related[t.ID]); ok {
			rows = append(rows, r)
		}
	}
	rows = append(rows, standaloneRows(standalone)...)

	slices.SortStableFunc(rows, func(a, b FeedRow) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		if c := cmp.Compare(a.group, b.group); c != 0 {
			return c
		}
		return cmp.Compare(a.rank, b.rank)
	})
	return Feed{Rows: rows}
}

func tourRow(t models.Tour) FeedRow {
	desc := t.TourName
	if desc == "" {
		desc = t.CustomerName
	}
	return FeedRow{
		Kind:          FeedKindTour,
		Type:          RowTour,
		ID:            t.ID,
		Reference:     t.SerialNumber,
		TourID:        t.ID,
		CustomerName:  t.CustomerName,
		Description:   desc,
		Date:          t.TourDate,
		Currency:      NormalizeCurrency(t.Currency),
		Status:        normalizeStatus(t.PaymentStatus),
		Amounts:       RecognizedRevenue(t),
		NominalAmount: NominalAmount(t),
		group:         "t:" + t.ID,
		rank:          0,
	}
}

// tourExpenseRow turun gider kalemlerini ve tura bağlı gider kayıtlarını toplar.
// "Tur Gideri" kategorili bağlı kayıtlar gider kalemlerinin kopyası olduğu için
// ikinci kez eklenmez.
func tourExpenseRow(t models.Tour, related []models.LedgerEntry) (FeedRow, bool) {
	totals := Amounts{}
	for _, e := range t.Expenses {
		totals.add(e.Currency, e.Amount)
	}
	for _, e := range related {
		if normalizeEntryType(e.Type) != models.EntryTypeExpense || e.Category == models.TourExpenseCategory {
			continue
		}
		totals.add(e.Currency, e.Amount)
	}
	for c, v := range totals {
		if v.IsZero() {
			delete(totals, c)
		}
	}
	if len(totals) == 0 {
		return FeedRow{}, false
	}

	currency := NormalizeCurrency(t.Currency)
	if _, ok := totals[currency]; !ok {
		currency = SortCurrencies(keysOf(totals))[0]
	}
	return FeedRow{
		Kind:         FeedKindFinance,
		Type:         RowTourExpenses,
		ID:           "tour-expenses-" + t.ID,
		Reference:    t.SerialNumber,
		TourID:       t.ID,
		CustomerName: t.CustomerName,
		Description:  t.SerialNumber + " " + models.TourExpenseCategory + " Toplamı",
		Category:     models.TourExpenseCategory,
		Date:         t.TourDate,
		Currency:     currency,
		Amounts:      totals,
		group:        "t:" + t.ID,
		rank:         1,
	}, true
}

// standaloneRows numaraları eskiden yeniye verir; yeni kayıt eklenince eski
// kayıtların numarası değişmez.
func standaloneRows(entries []models.LedgerEntry) []FeedRow {
	ordered := slices.Clone(entries)
	slices.SortStableFunc(ordered, func(a, b models.LedgerEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	var incomeSeq, expenseSeq int
	rows := make([]FeedRow, 0, len(ordered))
	for _, e := range ordered {
		var seq int
		typ := normalizeEntryType(e.Type)
		switch typ {
		case models.EntryTypeIncome:
			incomeSeq++
			seq = incomeSeq
		case models.EntryTypeExpense:
			expenseSeq++
			seq = expenseSeq
		default:
			continue
		}
		rows = append(rows, FeedRow{
			Kind:        FeedKindFinance,
			Type:        string(typ),
			ID:          e.ID,
			Reference:   "F" + strconv.Itoa(seq),
			Description: e.Description,
			Category:    e.Category,
			Date:        e.Date,
			Currency:    NormalizeCurrency(e.Currency),
			Amounts:     Amounts{NormalizeCurrency(e.Currency): e.Amount},
			group:       "f:" + e.ID,
			rank:        2,
		})
	}
	return rows
}

func keysOf(a Amounts) []string {
	out := make([]string, 0, len(a))
	for k := range a {
		out = append(out, k)
	}
	return out
}
