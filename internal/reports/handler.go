package reports

import (
	"fmt"
	"time"

	"acente-backend/internal/database"
	"acente-backend/internal/finance"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SummaryResponse struct {
	Filter     string                    `json:"filter"`
	From       string                    `json:"from"`
	To         string                    `json:"to"`
	Currencies []finance.CurrencySummary `json:"currencies"`
}

type FeedResponse struct {
	Tours   finance.Page[finance.FeedRow] `json:"tours"`
	Finance finance.Page[finance.FeedRow] `json:"finance"`
}

type ChartResponse struct {
	Period   finance.Period       `json:"period"`
	Currency string               `json:"currency"`
	Points   []finance.ChartPoint `json:"points"`
}

type CategoriesResponse struct {
	Type       models.EntryType          `json:"type"`
	From       string                    `json:"from"`
	To         string                    `json:"to"`
	Categories []finance.CategorySummary `json:"categories"`
}

// dateRange year+month verilmişse o ayı, yoksa from/to aralığını döner.
func dateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	if c.Query("year") != "" || c.Query("month") != "" {
		from, to, err := finance.MonthRange(c.QueryInt("year"), c.QueryInt("month"))
		if err != nil {
			return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return from, to, nil
	}

	from, to, err := finance.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return nil, nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return from, to, nil
}

func loadError(err error) error {
	logger.L().WithError(err).Error("rapor verisi okunamadı")
	return fiber.NewError(fiber.StatusInternalServerError, "Rapor verisi okunamadı")
}

// GET /api/reports/summary?currency=all&from=2024-01-01&to=2024-12-31
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return err
		}
		ledger, tours, err := loadAll(database.DB)
		if err != nil {
			return loadError(err)
		}

		filter := c.Query("currency", finance.AllCurrencies)
		summary := finance.SummarizeByCurrency(
			finance.FilterLedger(ledger, from, to),
			finance.FilterTours(tours, from, to),
			filter,
		)

		return c.JSON(SummaryResponse{
			Filter:     filter,
			From:       finance.FormatDate(from),
			To:         finance.FormatDate(to),
			Currencies: summary.Ordered(),
		})
	}
}

// GET /api/reports/feed?from=&to=&tour_page=1&finance_page=1
// Tur satırları ve bağımsız gelir/gider satırları ayrı ayrı sayfalanır.
func FeedHandler(pageSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return err
		}
		ledger, tours, err := loadAll(database.DB)
		if err != nil {
			return loadError(err)
		}

		feed := finance.BuildTransactionFeed(ledger, tours).Between(from, to)
		return c.JSON(FeedResponse{
			Tours:   finance.Paginate(feed.TourRows(), c.QueryInt("tour_page", 1), pageSize),
			Finance: finance.Paginate(feed.FinanceRows(), c.QueryInt("finance_page", 1), pageSize),
		})
	}
}

// GET /api/reports/customers?from=&to=
func CustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return err
		}
		_, tours, err := loadAll(database.DB)
		if err != nil {
			return loadError(err)
		}
		return c.JSON(finance.SummarizeByCustomer(finance.FilterTours(tours, from, to)))
	}
}

// GET /api/reports/categories?type=expense&year=2024&month=3
func CategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		typ := models.EntryType(c.Query("type", string(models.EntryTypeExpense)))
		if !typ.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "type 'income' veya 'expense' olmalı")
		}
		from, to, err := dateRange(c)
		if err != nil {
			return err
		}
		ledger, _, err := loadAll(database.DB)
		if err != nil {
			return loadError(err)
		}

		return c.JSON(CategoriesResponse{
			Type:       typ,
			From:       finance.FormatDate(from),
			To:         finance.FormatDate(to),
			Categories: finance.SummarizeByCategory(finance.FilterLedger(ledger, from, to), typ),
		})
	}
}

// GET /api/reports/chart?period=monthly&count=12&currency=TRY
func ChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period, count := finance.ParsePeriod(c.Query("period", string(finance.PeriodDaily)))
		if n := c.QueryInt("count", 0); n > 0 {
			count = min(n, 366)
		}
		currency := c.Query("currency", finance.DefaultCurrency)
		if finance.IsAllCurrencies(currency) {
			currency = finance.DefaultCurrency
		}
		currency = finance.NormalizeCurrency(currency)

		ledger, tours, err := loadAll(database.DB)
		if err != nil {
			return loadError(err)
		}

		buckets := finance.ChartBuckets(time.Now(), period, count)
		return c.JSON(ChartResponse{
			Period:   period,
			Currency: currency,
			Points:   finance.Chart(ledger, tours, currency, period, buckets),
		})
	}
}

// GET /api/reports/export.xlsx?from=&to=
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := dateRange(c)
		if err != nil {
			return err
		}
		ledger, tours, err := loadAll(database.DB)
		if err != nil {
			return loadError(err)
		}

		filteredTours := finance.FilterTours(tours, from, to)
		wb := Workbook{
			Title:     fmt.Sprintf("Dönem: %s - %s", orDash(finance.FormatDate(from)), orDash(finance.FormatDate(to))),
			Summary:   finance.SummarizeByCurrency(finance.FilterLedger(ledger, from, to), filteredTours, finance.AllCurrencies),
			Feed:      finance.BuildTransactionFeed(ledger, tours).Between(from, to),
			Customers: finance.SummarizeByCustomer(filteredTours),
		}

		f, err := wb.Build()
		if err != nil {
			logger.L().WithError(err).Error("excel raporu oluşturulamadı")
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}
		defer f.Close()

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor yazılamadı")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="acente-rapor-%s.xlsx"`, time.Now().Format("20060102")))
		return c.Send(buf.Bytes())
	}
}

func orDash(s string) string {
	if s == "" {
		return "..."
	}
	return s
}
