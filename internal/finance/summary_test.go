package finance

import (
	"encoding/json"
	"testing"
	"time"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeByCurrency_EndToEnd(t *testing.T) {
	d := date(2025, time.March, 10)
	ledger := []models.LedgerEntry{
		income("e1", "500", "TRY", d),
		{
			ID: "e2", Type: models.EntryTypeExpense, Amount: dec("200"), Currency: "TRY",
			Category: models.TourExpenseCategory, RelatedTourID: strPtr("t1"), Date: d,
		},
	}
	tours := []models.Tour{
		{ID: "t1", PaymentStatus: models.PaymentCompleted, TotalPrice: dec("1000"), Currency: "TRY", TourDate: d},
	}

	s := SummarizeByCurrency(ledger, tours, AllCurrencies)
	require.Equal(t, []string{"TRY"}, s.Currencies)

	try := s.Get("TRY")
	assertAmount(t, "500", try.Income)
	assertAmount(t, "200", try.Expense)
	assertAmount(t, "1000", try.TourIncome)
	assertAmount(t, "200", try.TourExpenses)
	assertAmount(t, "0", try.OtherExpenses)
	assertAmount(t, "300", try.Profit)
	assertAmount(t, "1500", try.TotalIncome)
	assertAmount(t, "1300", try.TotalProfit)
	assertAmount(t, "1300", try.Balance)
}

func TestSummarizeByCurrency_IncomeIsConserved(t *testing.T) {
	d := date(2025, time.January, 1)
	ledger := []models.LedgerEntry{
		income("1", "100", "TRY", d),
		income("2", "25.5", "USD", d),
		income("3", "74.5", "usd", d),
		income("4", "10", "EUR", d),
		income("5", "3", "", d),
		expense("6", "999", "TRY", d),
	}

	s := SummarizeByCurrency(ledger, nil, AllCurrencies)

	sum := decimal.Zero
	for _, cs := range s.Ordered() {
		sum = sum.Add(cs.Income)
	}
	assertAmount(t, "213", sum)
	assertAmount(t, "103", s.Get("TRY").Income)
	assertAmount(t, "100", s.Get("USD").Income)
}

func TestSummarizeByCurrency_BadAmountsContributeZero(t *testing.T) {
	var ledger []struct {
		Type     models.EntryType `json:"type"`
		Amount   LooseAmount      `json:"amount"`
		Currency string           `json:"currency"`
	}
	raw := `[
		{"type": "income", "amount": "abc", "currency": "TRY"},
		{"type": "income", "currency": "TRY"},
		{"type": "expense", "amount": null, "currency": "TRY"},
		{"type": "income", "amount": "250", "currency": "TRY"}
	]`
	require.NoError(t, json.Unmarshal([]byte(raw), &ledger))

	entries := make([]models.LedgerEntry, 0, len(ledger))
	for _, e := range ledger {
		entries = append(entries, models.LedgerEntry{Type: e.Type, Amount: e.Amount.Decimal, Currency: e.Currency})
	}

	var s Summary
	assert.NotPanics(t, func() { s = SummarizeByCurrency(entries, nil, AllCurrencies) })
	assertAmount(t, "250", s.Get("TRY").Income)
	assertAmount(t, "0", s.Get("TRY").Expense)
}

func TestSummarizeByCurrency_CompletedTourIgnoresActivities(t *testing.T) {
	tours := []models.Tour{{
		ID:            "t1",
		PaymentStatus: models.PaymentCompleted,
		TotalPrice:    dec("1000"),
		Currency:      "USD",
		Activities: []models.TourActivity{
			{Name: "Balon", Price: dec("200"), Currency: "USD"},
		},
	}}

	s := SummarizeByCurrency(nil, tours, "USD")
	assertAmount(t, "1000", s.Get("USD").TourIncome)
}

func TestSummarizeByCurrency_PartialTourIncludesActivityPartials(t *testing.T) {
	tours := []models.Tour{{
		ID:                     "t1",
		PaymentStatus:          models.PaymentPartial,
		TotalPrice:             dec("900"),
		Currency:               "USD",
		PartialPaymentAmount:   dec("300"),
		PartialPaymentCurrency: "USD",
		Activities: []models.TourActivity{
			{Name: "Safari", Price: dec("120"), Currency: "USD", PartialPaymentAmount: dec("50"), PartialPaymentCurrency: "USD"},
			{Name: "Hamam", Price: dec("80"), Currency: "USD"},
		},
	}}

	s := SummarizeByCurrency(nil, tours, "USD")
	assertAmount(t, "350", s.Get("USD").TourIncome)
}

func TestSummarizeByCurrency_PartialAcrossCurrencies(t *testing.T) {
	tours := []models.Tour{{
		ID:                     "t1",
		PaymentStatus:          models.PaymentPartial,
		Currency:               "EUR",
		PartialPaymentAmount:   dec("100"),
		PartialPaymentCurrency: "",
		Activities: []models.TourActivity{
			{PartialPaymentAmount: dec("1500"), PartialPaymentCurrency: "try"},
		},
	}}

	s := SummarizeByCurrency(nil, tours, AllCurrencies)
	assert.Equal(t, []string{"TRY", "EUR"}, s.Currencies)
	assertAmount(t, "100", s.Get("EUR").TourIncome)
	assertAmount(t, "1500", s.Get("TRY").TourIncome)
}

func TestSummarizeByCurrency_PendingAndRefundedRecognizeNothing(t *testing.T) {
	tours := []models.Tour{
		{ID: "t1", PaymentStatus: models.PaymentPending, TotalPrice: dec("700"), Currency: "TRY"},
		{ID: "t2", PaymentStatus: models.PaymentRefunded, TotalPrice: dec("400"), Currency: "TRY"},
	}

	s := SummarizeByCurrency(nil, tours, AllCurrencies)
	assertAmount(t, "0", s.Get("TRY").TourIncome)
	assertAmount(t, "0", s.Get("TRY").TotalIncome)
}

func TestSummarizeByCurrency_CaseNormalization(t *testing.T) {
	d := date(2025, time.May, 5)
	ledger := []models.LedgerEntry{
		income("1", "10", "try", d),
		income("2", "15", "TRY", d),
		income("3", "5", " Try ", d),
	}

	s := SummarizeByCurrency(ledger, nil, AllCurrencies)
	assert.Equal(t, []string{"TRY"}, s.Currencies)
	assertAmount(t, "30", s.Get("TRY").Income)
}

func TestSummarizeByCurrency_StableOrderingUnderAll(t *testing.T) {
	d := date(2025, time.June, 1)
	ledger := []models.LedgerEntry{
		income("1", "1", "GBP", d),
		income("2", "1", "XYZ", d),
		income("3", "1", "USD", d),
		expense("4", "1", "TRY", d),
	}

	for i := 0; i < 5; i++ {
		s := SummarizeByCurrency(ledger, nil, AllCurrencies)
		assert.Equal(t, []string{"TRY", "USD", "GBP", "XYZ"}, s.Currencies)
	}
}

func TestSummarizeByCurrency_EmptyInputDefaultsToTRY(t *testing.T) {
	s := SummarizeByCurrency(nil, nil, AllCurrencies)
	require.Equal(t, []string{"TRY"}, s.Currencies)
	cs := s.Get("TRY")
	assert.Equal(t, "TRY", cs.Currency)
	assertAmount(t, "0", cs.Balance)
	assertAmount(t, "0", cs.TotalIncome)
}

func TestSummarizeByCurrency_SpecificFilter(t *testing.T) {
	d := date(2025, time.June, 1)
	ledger := []models.LedgerEntry{
		income("1", "40", "USD", d),
		income("2", "60", "TRY", d),
	}

	s := SummarizeByCurrency(ledger, nil, "usd")
	assert.Equal(t, []string{"USD"}, s.Currencies)
	assertAmount(t, "40", s.Get("USD").Income)

	// veri olmayan para birimi de sıfır özetle döner
	s = SummarizeByCurrency(ledger, nil, "GBP")
	assert.Equal(t, []string{"GBP"}, s.Currencies)
	assertAmount(t, "0", s.Get("GBP").Income)
}

func TestSummarizeByCurrency_TourExpensesNotSubtractedTwice(t *testing.T) {
	d := date(2025, time.July, 1)
	ledger := []models.LedgerEntry{
		expense("1", "100", "EUR", d),
		{ID: "2", Type: models.EntryTypeExpense, Amount: dec("250"), Currency: "EUR", Category: models.TourExpenseCategory, RelatedTourID: strPtr("t1"), Date: d},
	}
	tours := []models.Tour{{ID: "t1", PaymentStatus: models.PaymentCompleted, TotalPrice: dec("1000"), Currency: "EUR"}}

	eur := SummarizeByCurrency(ledger, tours, "EUR").Get("EUR")
	assertAmount(t, "350", eur.Expense)
	assertAmount(t, "250", eur.TourExpenses)
	assertAmount(t, "100", eur.OtherExpenses)
	assertAmount(t, "650", eur.TotalProfit)
	assert.True(t, eur.Balance.Equal(eur.TotalProfit))
}
