package reports

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"acente-backend/internal/apitest"
	"acente-backend/internal/database"
	"acente-backend/internal/database/dbtest"
	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(y int, m time.Month, dd int) time.Time {
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)
}

func setupApp(t *testing.T, pageSize int) *fiber.App {
	t.Helper()
	dbtest.Open(t)
	seed(t)

	app := apitest.NewApp()
	app.Get("/reports/summary", SummaryHandler())
	app.Get("/reports/feed", FeedHandler(pageSize))
	app.Get("/reports/customers", CustomersHandler())
	app.Get("/reports/categories", CategoriesHandler())
	app.Get("/reports/chart", ChartHandler())
	app.Get("/reports/export.xlsx", ExportHandler())
	return app
}

// seed: iki tur (biri kısmi ödemeli), tur gideri ve bağımsız kayıtlar
func seed(t *testing.T) {
	t.Helper()

	tours := []models.Tour{
		{
			ID: "tour-a", SerialNumber: "24010001TF", CustomerName: "Ali", TourName: "Efes",
			TourDate: day(2024, 1, 10), Currency: "TRY", TotalPrice: d("1000"),
			PaymentStatus: models.PaymentCompleted,
			Expenses: []models.TourExpense{
				{Position: 0, Name: "Otel", Amount: d("300"), Currency: "TRY"},
			},
		},
		{
			ID: "tour-b", SerialNumber: "24020002TF", CustomerName: "ali", TourName: "Kapadokya",
			TourDate: day(2024, 2, 10), Currency: "USD", TotalPrice: d("800"),
			PaymentStatus: models.PaymentPartial, PartialPaymentAmount: d("200"), PartialPaymentCurrency: "USD",
		},
	}
	require.NoError(t, database.DB.Create(&tours).Error)

	tourA := "tour-a"
	ledger := []models.LedgerEntry{
		{Type: models.EntryTypeExpense, Amount: d("300"), Currency: "TRY", Category: models.TourExpenseCategory,
			RelatedTourID: &tourA, Date: day(2024, 1, 10), Description: "Otel"},
		{Type: models.EntryTypeIncome, Amount: d("150"), Currency: "TRY", Category: "Komisyon", Date: day(2024, 1, 5)},
		{Type: models.EntryTypeExpense, Amount: d("50"), Currency: "TRY", Category: "Ofis", Date: day(2024, 1, 20)},
		{Type: models.EntryTypeExpense, Amount: d("20"), Currency: "USD", Category: "Ofis", Date: day(2024, 2, 15)},
	}
	require.NoError(t, database.DB.Create(&ledger).Error)
}

func TestSummary(t *testing.T) {
	app := setupApp(t, 10)

	var resp SummaryResponse
	apitest.DoJSON(t, app, http.MethodGet, "/reports/summary", nil, http.StatusOK, &resp)
	assert.Equal(t, finance.AllCurrencies, resp.Filter)
	require.Len(t, resp.Currencies, 2)

	try := resp.Currencies[0]
	assert.Equal(t, "TRY", try.Currency)
	assert.True(t, try.Income.Equal(d("150")))
	assert.True(t, try.TourIncome.Equal(d("1000")))
	assert.True(t, try.Expense.Equal(d("350")))
	assert.True(t, try.TourExpenses.Equal(d("300")))
	assert.True(t, try.TotalProfit.Equal(d("800")), try.TotalProfit.String())

	usd := resp.Currencies[1]
	assert.Equal(t, "USD", usd.Currency)
	assert.True(t, usd.TourIncome.Equal(d("200")))
	assert.True(t, usd.Balance.Equal(d("180")))

	apitest.DoJSON(t, app, http.MethodGet, "/reports/summary?currency=usd&from=2024-02-01", nil, http.StatusOK, &resp)
	require.Len(t, resp.Currencies, 1)
	assert.Equal(t, "USD", resp.Currencies[0].Currency)
	assert.Equal(t, "2024-02-01", resp.From)

	apitest.DoJSON(t, app, http.MethodGet, "/reports/summary?from=2024-01-06&to=2024-01-31", nil, http.StatusOK, &resp)
	require.Len(t, resp.Currencies, 1)
	assert.True(t, resp.Currencies[0].Income.IsZero())
	assert.True(t, resp.Currencies[0].TotalIncome.Equal(d("1000")))

	status, _ := apitest.Do(t, app, http.MethodGet, "/reports/summary?to=2024-13-01", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFeedPaging(t *testing.T) {
	app := setupApp(t, 2)

	var resp FeedResponse
	apitest.DoJSON(t, app, http.MethodGet, "/reports/feed", nil, http.StatusOK, &resp)

	// tur b, tur a, tur a giderleri
	assert.Equal(t, 3, resp.Tours.TotalItems)
	assert.Equal(t, 2, resp.Tours.TotalPages)
	require.Len(t, resp.Tours.Items, 2)
	assert.Equal(t, "tour-b", resp.Tours.Items[0].ID)
	assert.Equal(t, finance.RowTour, resp.Tours.Items[1].Type)
	assert.True(t, resp.Tours.Items[0].NominalAmount.Equal(d("800")))
	assert.True(t, resp.Tours.Items[0].Amounts["USD"].Equal(d("200")))

	assert.Equal(t, 3, resp.Finance.TotalItems)
	require.Len(t, resp.Finance.Items, 2)
	assert.Equal(t, "F2", resp.Finance.Items[0].Reference) // USD ofis gideri, ikinci gider
	assert.Equal(t, finance.RowExpense, resp.Finance.Items[0].Type)

	apitest.DoJSON(t, app, http.MethodGet, "/reports/feed?tour_page=2&finance_page=9", nil, http.StatusOK, &resp)
	require.Len(t, resp.Tours.Items, 1)
	assert.Equal(t, finance.RowTourExpenses, resp.Tours.Items[0].Type)
	assert.True(t, resp.Tours.Items[0].Amounts["TRY"].Equal(d("300")))
	assert.Equal(t, 2, resp.Finance.Page)
	require.Len(t, resp.Finance.Items, 1)
	assert.Equal(t, "F1", resp.Finance.Items[0].Reference)
	assert.Equal(t, finance.RowIncome, resp.Finance.Items[0].Type)

	apitest.DoJSON(t, app, http.MethodGet, "/reports/feed?from=2024-02-01", nil, http.StatusOK, &resp)
	assert.Equal(t, 1, resp.Tours.TotalItems)
	assert.Equal(t, 1, resp.Finance.TotalItems)
	assert.Equal(t, "F2", resp.Finance.Items[0].Reference)
}

func TestCustomersReport(t *testing.T) {
	app := setupApp(t, 10)

	var got []finance.CustomerSummary
	apitest.DoJSON(t, app, http.MethodGet, "/reports/customers", nil, http.StatusOK, &got)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].TourCount)
	assert.True(t, got[0].Revenue["TRY"].Equal(d("1000")))
	assert.True(t, got[0].Revenue["USD"].Equal(d("200")))
	assert.True(t, got[0].Nominal["USD"].Equal(d("800")))
}

func TestCategoriesReport(t *testing.T) {
	app := setupApp(t, 10)

	var got CategoriesResponse
	apitest.DoJSON(t, app, http.MethodGet, "/reports/categories?year=2024&month=1", nil, http.StatusOK, &got)
	assert.Equal(t, models.EntryTypeExpense, got.Type)
	assert.Equal(t, "2024-01-01", got.From)
	assert.Equal(t, "2024-01-31", got.To)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, "Ofis", got.Categories[0].Category)
	assert.True(t, got.Categories[0].Amounts["TRY"].Equal(d("50")))
	assert.Equal(t, models.TourExpenseCategory, got.Categories[1].Category)

	apitest.DoJSON(t, app, http.MethodGet, "/reports/categories?type=income", nil, http.StatusOK, &got)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, "Komisyon", got.Categories[0].Category)

	status, _ := apitest.Do(t, app, http.MethodGet, "/reports/categories?year=2024&month=13", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = apitest.Do(t, app, http.MethodGet, "/reports/categories?type=transfer", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestChartEndpoint(t *testing.T) {
	app := setupApp(t, 10)

	var got ChartResponse
	apitest.DoJSON(t, app, http.MethodGet, "/reports/chart?period=weekly&count=4&currency=all", nil, http.StatusOK, &got)
	assert.Equal(t, finance.PeriodWeekly, got.Period)
	assert.Equal(t, "TRY", got.Currency)
	assert.Len(t, got.Points, 4)
}

func TestExportWorkbook(t *testing.T) {
	app := setupApp(t, 10)

	req, err := http.NewRequest(http.MethodGet, "/reports/export.xlsx?from=2024-01-01&to=2024-01-31", nil)
	require.NoError(t, err)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "acente-rapor-")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetSummary, sheetFeed, sheetCustomers}, f.GetSheetList())

	summaryRows, err := f.GetRows(sheetSummary)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(summaryRows), 2)
	assert.Equal(t, "Para Birimi", summaryRows[0][0])
	assert.Equal(t, "TRY", summaryRows[1][0])
	assert.Equal(t, "800", summaryRows[1][7])

	feedRows, err := f.GetRows(sheetFeed)
	require.NoError(t, err)
	// başlık + ocak ayındaki tur, tur giderleri, iki bağımsız kayıt
	require.Len(t, feedRows, 5)
	assert.Equal(t, "2024-01-20", feedRows[1][0])
	assert.Equal(t, "F1", feedRows[1][1])
	assert.Equal(t, "Gider", feedRows[1][2])
	assert.Equal(t, "₺50.00", feedRows[1][6])

	customerRows, err := f.GetRows(sheetCustomers)
	require.NoError(t, err)
	require.Len(t, customerRows, 2)
	assert.Equal(t, "1", customerRows[1][2])
}
