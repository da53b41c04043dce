package finance

import (
	"testing"
	"time"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertAmount(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got.String(), msgAndArgs)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func income(id, amount, currency string, d time.Time) models.LedgerEntry {
	return models.LedgerEntry{ID: id, Type: models.EntryTypeIncome, Amount: dec(amount), Currency: currency, Date: d}
}

func expense(id, amount, currency string, d time.Time) models.LedgerEntry {
	return models.LedgerEntry{ID: id, Type: models.EntryTypeExpense, Amount: dec(amount), Currency: currency, Date: d}
}
