package ledger

import (
	"net/http"
	"testing"
	"time"

	"acente-backend/internal/apitest"
	"acente-backend/internal/database"
	"acente-backend/internal/database/dbtest"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dbtest.Open(t)

	app := apitest.NewApp()
	app.Get("/ledger", ListEntriesHandler())
	app.Get("/ledger/:id", GetEntryHandler())
	app.Post("/ledger", CreateEntryHandler())
	app.Put("/ledger/:id", UpdateEntryHandler())
	app.Delete("/ledger/:id", DeleteEntryHandler())
	return app
}

func seedTourWithDerivedEntry(t *testing.T) (models.Tour, models.LedgerEntry) {
	t.Helper()
	tour := models.Tour{
		SerialNumber:  "24030001TF",
		CustomerName:  "Ali",
		TourDate:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Currency:      "TRY",
		TotalPrice:    decimal.NewFromInt(1000),
		PaymentStatus: models.PaymentCompleted,
	}
	require.NoError(t, database.DB.Create(&tour).Error)

	derived := models.LedgerEntry{
		Type:          models.EntryTypeExpense,
		Amount:        decimal.NewFromInt(300),
		Currency:      "TRY",
		Category:      models.TourExpenseCategory,
		RelatedTourID: &tour.ID,
		Date:          tour.TourDate,
		Description:   "Otel",
	}
	require.NoError(t, database.DB.Create(&derived).Error)
	return tour, derived
}

func TestCreateEntry(t *testing.T) {
	app := setupApp(t)

	var got EntryResponse
	apitest.DoJSON(t, app, http.MethodPost, "/ledger", map[string]any{
		"type":        "INCOME",
		"amount":      "₺1.250,50",
		"currency":    "usd",
		"category":    "Komisyon",
		"date":        "2024-03-15",
		"description": "  Otel komisyonu ",
	}, http.StatusCreated, &got)

	assert.NotEmpty(t, got.ID)
	assert.Equal(t, models.EntryTypeIncome, got.Type)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("1250.50")), got.Amount.String())
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "2024-03-15", got.Date)
	assert.Equal(t, "Otel komisyonu", got.Description)
	assert.False(t, got.TourDerived)

	var logs int64
	database.DB.Model(&models.AuditLog{}).Where("entity_id = ? AND action = ?", got.ID, models.AuditActionCreate).Count(&logs)
	assert.EqualValues(t, 1, logs)
}

func TestCreateEntryValidation(t *testing.T) {
	app := setupApp(t)
	tour, _ := seedTourWithDerivedEntry(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"geçersiz tip", map[string]any{"type": "transfer", "amount": 10, "date": "2024-01-01"}},
		{"sıfır tutar", map[string]any{"type": "income", "amount": "abc", "date": "2024-01-01"}},
		{"negatif tutar", map[string]any{"type": "income", "amount": -5, "date": "2024-01-01"}},
		{"tarih yok", map[string]any{"type": "income", "amount": 10}},
		{"olmayan tur", map[string]any{"type": "expense", "amount": 10, "date": "2024-01-01", "related_tour_id": "yok"}},
		{"elle tur gideri", map[string]any{
			"type": "expense", "amount": 10, "date": "2024-01-01",
			"category": models.TourExpenseCategory, "related_tour_id": tour.ID,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := apitest.Do(t, app, http.MethodPost, "/ledger", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, status, string(body))
		})
	}
}

func TestCreateEntryTourLookupFailure(t *testing.T) {
	app := setupApp(t)
	require.NoError(t, database.DB.Migrator().DropTable(&models.Tour{}))

	status, body := apitest.Do(t, app, http.MethodPost, "/ledger", map[string]any{
		"type": "expense", "amount": 10, "date": "2024-01-01", "related_tour_id": "herhangi",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, status, string(body))

	var count int64
	require.NoError(t, database.DB.Model(&models.LedgerEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDerivedEntryIsReadOnly(t *testing.T) {
	app := setupApp(t)
	_, derived := seedTourWithDerivedEntry(t)

	var got EntryResponse
	apitest.DoJSON(t, app, http.MethodGet, "/ledger/"+derived.ID, nil, http.StatusOK, &got)
	assert.True(t, got.TourDerived)

	status, _ := apitest.Do(t, app, http.MethodPut, "/ledger/"+derived.ID, map[string]any{"amount": 1}, "")
	assert.Equal(t, http.StatusConflict, status)

	status, _ = apitest.Do(t, app, http.MethodDelete, "/ledger/"+derived.ID, nil, "")
	assert.Equal(t, http.StatusConflict, status)

	var count int64
	database.DB.Model(&models.LedgerEntry{}).Where("id = ?", derived.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	app := setupApp(t)

	var created EntryResponse
	apitest.DoJSON(t, app, http.MethodPost, "/ledger", map[string]any{
		"type": "expense", "amount": 100, "date": "2024-02-01", "category": "Ofis",
	}, http.StatusCreated, &created)
	assert.Equal(t, "TRY", created.Currency)

	var updated EntryResponse
	apitest.DoJSON(t, app, http.MethodPut, "/ledger/"+created.ID, map[string]any{
		"amount": "150", "currency": "eur",
	}, http.StatusOK, &updated)
	assert.True(t, updated.Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "EUR", updated.Currency)
	assert.Equal(t, "Ofis", updated.Category)

	status, _ := apitest.Do(t, app, http.MethodDelete, "/ledger/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = apitest.Do(t, app, http.MethodDelete, "/ledger/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, status)

	var actions []models.AuditAction
	database.DB.Model(&models.AuditLog{}).Where("entity_id = ?", created.ID).Order("id").Pluck("action", &actions)
	assert.Equal(t, []models.AuditAction{models.AuditActionCreate, models.AuditActionUpdate, models.AuditActionDelete}, actions)
}

func TestListEntriesFilters(t *testing.T) {
	app := setupApp(t)
	tour, _ := seedTourWithDerivedEntry(t)

	for _, body := range []map[string]any{
		{"type": "income", "amount": 100, "currency": "TRY", "date": "2024-01-05"},
		{"type": "income", "amount": 50, "currency": "USD", "date": "2024-02-05"},
		{"type": "expense", "amount": 20, "currency": "TRY", "date": "2024-02-20"},
		{"type": "expense", "amount": 70, "currency": "TRY", "date": "2024-03-12", "related_tour_id": tour.ID, "category": "Rehber"},
	} {
		status, raw := apitest.Do(t, app, http.MethodPost, "/ledger", body, "")
		require.Equal(t, http.StatusCreated, status, string(raw))
	}

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"hepsi", "", 5},
		{"gelirler", "?type=income", 2},
		{"USD", "?currency=usd", 1},
		{"all", "?currency=all", 5},
		{"bağımsız", "?standalone=true", 3},
		{"tura bağlı", "?tour_id=" + tour.ID, 2},
		{"şubat", "?from=2024-02-01&to=2024-02-29", 2},
		{"şubat sonrası giderler", "?from=2024-02-20&type=expense", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []EntryResponse
			apitest.DoJSON(t, app, http.MethodGet, "/ledger"+tt.query, nil, http.StatusOK, &got)
			assert.Len(t, got, tt.want)
		})
	}

	var sorted []EntryResponse
	apitest.DoJSON(t, app, http.MethodGet, "/ledger", nil, http.StatusOK, &sorted)
	for i := 1; i < len(sorted); i++ {
		assert.GreaterOrEqual(t, sorted[i-1].Date, sorted[i].Date)
	}

	status, _ := apitest.Do(t, app, http.MethodGet, "/ledger?from=bozuk", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}
