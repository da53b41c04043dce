package finance

import (
	"testing"
	"time"

	"acente-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTransactionFeed_TourRowPrecedesItsExpenseRow(t *testing.T) {
	d := date(2025, time.April, 20)
	tours := []models.Tour{
		{
			ID: "t2", SerialNumber: "25041234TF", CustomerName: "Ayşe", TourDate: d,
			PaymentStatus: models.PaymentCompleted, TotalPrice: dec("800"), Currency: "TRY",
			Expenses: []models.TourExpense{{Name: "Otel", Amount: dec("300"), Currency: "TRY"}},
		},
		{
			ID: "t1", SerialNumber: "25049876TF", CustomerName: "Mehmet", TourDate: d,
			PaymentStatus: models.PaymentCompleted, TotalPrice: dec("600"), Currency: "TRY",
			Expenses: []models.TourExpense{{Name: "Transfer", Amount: dec("100"), Currency: "TRY"}},
		},
	}

	feed := BuildTransactionFeed(nil, tours)
	require.Len(t, feed.Rows, 4)

	for i, r := range feed.Rows {
		if r.Type != RowTourExpenses {
			continue
		}
		require.Greater(t, i, 0)
		prev := feed.Rows[i-1]
		assert.Equal(t, RowTour, prev.Type)
		assert.Equal(t, r.TourID, prev.TourID)
	}

	// girdi sırası değişse de çıktı aynı
	reversed := BuildTransactionFeed(nil, []models.Tour{tours[1], tours[0]})
	assert.Equal(t, feed.Rows, reversed.Rows)
}

func TestBuildTransactionFeed_SortsByDateDescending(t *testing.T) {
	ledger := []models.LedgerEntry{
		income("a", "10", "TRY", date(2025, time.January, 5)),
		expense("b", "20", "TRY", date(2025, time.March, 5)),
	}
	tours := []models.Tour{
		{ID: "t1", SerialNumber: "25020001TF", TourDate: date(2025, time.February, 5), PaymentStatus: models.PaymentPending, TotalPrice: dec("50")},
	}

	feed := BuildTransactionFeed(ledger, tours)
	require.Len(t, feed.Rows, 3)
	assert.Equal(t, "b", feed.Rows[0].ID)
	assert.Equal(t, "t1", feed.Rows[1].ID)
	assert.Equal(t, "a", feed.Rows[2].ID)
}

func TestBuildTransactionFeed_StandaloneNumbering(t *testing.T) {
	ledger := []models.LedgerEntry{
		income("i2", "10", "TRY", date(2025, time.February, 1)),
		income("i1", "10", "TRY", date(2025, time.January, 1)),
		expense("x1", "5", "TRY", date(2025, time.January, 2)),
		expense("x2", "5", "USD", date(2025, time.March, 1)),
		{ID: "r1", Type: models.EntryTypeExpense, Amount: dec("7"), Currency: "TRY", RelatedTourID: strPtr("t9"), Date: date(2025, time.January, 3)},
	}

	feed := BuildTransactionFeed(ledger, nil)
	refs := map[string]string{}
	for _, r := range feed.FinanceRows() {
		refs[r.ID] = r.Reference
	}

	assert.Equal(t, map[string]string{
		"i1": "F1",
		"i2": "F2",
		"x1": "F1",
		"x2": "F2",
	}, refs)
}

func TestBuildTransactionFeed_TourExpenseRowGroupsByCurrency(t *testing.T) {
	d := date(2025, time.August, 1)
	tours := []models.Tour{{
		ID: "t1", SerialNumber: "25080001TF", TourDate: d, Currency: "EUR",
		PaymentStatus: models.PaymentCompleted, TotalPrice: dec("2000"),
		Expenses: []models.TourExpense{
			{Name: "Otel", Amount: dec("500"), Currency: "EUR"},
			{Name: "Rehber", Amount: dec("1500"), Currency: "try"},
			{Name: "Otel ek", Amount: dec("50"), Currency: "EUR"},
		},
	}}
	ledger := []models.LedgerEntry{
		// gider kalemlerinden türetilmiş kayıt, tekrar sayılmamalı
		{ID: "d1", Type: models.EntryTypeExpense, Amount: dec("500"), Currency: "EUR", Category: models.TourExpenseCategory, RelatedTourID: strPtr("t1"), Date: d},
		// tura elle bağlanmış ek masraf
		{ID: "m1", Type: models.EntryTypeExpense, Amount: dec("20"), Currency: "USD", Category: "Bahşiş", RelatedTourID: strPtr("t1"), Date: d},
		// tura bağlı gelir ne gider satırına ne bağımsız satırlara girer
		{ID: "g1", Type: models.EntryTypeIncome, Amount: dec("30"), Currency: "USD", Category: "Komisyon", RelatedTourID: strPtr("t1"), Date: d},
	}

	feed := BuildTransactionFeed(ledger, tours)
	require.Len(t, feed.Rows, 2)
	assert.Empty(t, feed.FinanceRows())

	row := feed.Rows[1]
	assert.Equal(t, RowTourExpenses, row.Type)
	assert.Equal(t, FeedKindFinance, row.Kind)
	assert.Equal(t, "EUR", row.Currency)
	assert.Len(t, row.Amounts, 3)
	assertAmount(t, "550", row.Amounts["EUR"])
	assertAmount(t, "1500", row.Amounts["TRY"])
	assertAmount(t, "20", row.Amounts["USD"])

	// özet yine de bağlı geliri sayar
	usd := SummarizeByCurrency(ledger, tours, "USD").ByCurrency["USD"]
	assertAmount(t, "30", usd.Income)
	assertAmount(t, "20", usd.Expense)
}

func TestBuildTransactionFeed_ZeroExpenseRowDiscarded(t *testing.T) {
	tours := []models.Tour{{
		ID: "t1", TourDate: date(2025, time.August, 1), PaymentStatus: models.PaymentPending,
		Expenses: []models.TourExpense{{Name: "Boş", Amount: dec("0"), Currency: "TRY"}},
	}}

	feed := BuildTransactionFeed(nil, tours)
	require.Len(t, feed.Rows, 1)
	assert.Equal(t, RowTour, feed.Rows[0].Type)
}

func TestBuildTransactionFeed_NominalVersusRecognized(t *testing.T) {
	tours := []models.Tour{{
		ID: "t1", TourDate: date(2025, time.August, 1), Currency: "USD",
		PaymentStatus: models.PaymentPending, TotalPrice: dec("750"),
	}}

	row := BuildTransactionFeed(nil, tours).Rows[0]
	assertAmount(t, "750", row.NominalAmount)
	assert.True(t, row.Amounts.IsZero())
	assert.Equal(t, models.PaymentPending, row.Status)
}

func TestFeed_SubsetsAndDateRange(t *testing.T) {
	ledger := []models.LedgerEntry{
		income("a", "10", "TRY", date(2025, time.January, 10)),
		income("b", "10", "TRY", date(2025, time.January, 20)),
		income("c", "10", "TRY", date(2025, time.February, 1)),
	}
	tours := []models.Tour{
		{ID: "t1", TourDate: date(2025, time.January, 15), PaymentStatus: models.PaymentCompleted, TotalPrice: dec("1")},
	}
	feed := BuildTransactionFeed(ledger, tours)

	assert.Len(t, feed.TourRows(), 1)
	assert.Len(t, feed.FinanceRows(), 3)

	from := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)

	ids := func(f Feed) []string {
		out := []string{}
		for _, r := range f.Rows {
			out = append(out, r.ID)
		}
		return out
	}
	// her iki sınır da gün bazında dahil
	assert.Equal(t, []string{"b", "t1"}, ids(feed.Between(&from, &to)))
	// sadece başlangıç: o gün ve sonrası
	assert.Equal(t, []string{"c", "b", "t1"}, ids(feed.Between(&from, nil)))
	// sadece bitiş
	assert.Equal(t, []string{"b", "t1", "a"}, ids(feed.Between(nil, &to)))
	assert.Len(t, feed.Between(nil, nil).Rows, 4)
}
