package exchange

import (
	"context"
	"errors"
	"time"

	"acente-backend/internal/database"
	"acente-backend/internal/finance"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type RateResponse struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Buying      decimal.Decimal `json:"buying"`
	Selling     decimal.Decimal `json:"selling"`
	LastUpdated string          `json:"last_updated"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

type ConvertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	From      string          `json:"from"`
	To        string          `json:"to"`
	Result    decimal.Decimal `json:"result"`
	Formatted string          `json:"formatted"`
}

func toRateResponse(r models.ExchangeRate) RateResponse {
	return RateResponse{
		Code:        r.Code,
		Name:        r.Name,
		Symbol:      finance.CurrencySymbol(r.Code),
		Buying:      r.Buying,
		Selling:     r.Selling,
		LastUpdated: r.LastUpdated,
		FetchedAt:   r.FetchedAt,
	}
}

// GET /api/exchange-rates
func ListRatesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rates, err := LoadRates(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kurlar okunamadı")
		}
		codes := make([]string, 0, len(rates))
		for code := range rates {
			codes = append(codes, code)
		}
		resp := make([]RateResponse, 0, len(rates))
		for _, code := range finance.SortCurrencies(codes) {
			resp = append(resp, toRateResponse(rates[code]))
		}
		return c.JSON(resp)
	}
}

// POST /api/exchange-rates/refresh
// src nil ise kur kaynağı tanımlı değildir.
func RefreshHandler(src Fetcher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if src == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "Kur kaynağı tanımlı değil")
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), 20*time.Second)
		defer cancel()

		n, err := Refresh(ctx, database.DB, src)
		if err != nil {
			logger.L().WithError(err).Warn("elle kur yenileme başarısız")
			return fiber.NewError(fiber.StatusBadGateway, "Kurlar güncellenemedi")
		}
		return c.JSON(fiber.Map{"updated": n})
	}
}

// GET /api/exchange-rates/convert?amount=100&from=USD&to=EUR
func ConvertHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		amount := finance.ParseAmount(c.Query("amount"))
		from := finance.NormalizeCurrency(c.Query("from"))
		to := finance.NormalizeCurrency(c.Query("to"))

		rates, err := LoadRates(database.DB)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kurlar okunamadı")
		}

		result, err := Convert(rates, amount, from, to)
		if errors.Is(err, ErrUnknownCurrency) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Çevrim yapılamadı")
		}

		return c.JSON(ConvertResponse{
			Amount:    amount,
			From:      from,
			To:        to,
			Result:    result,
			Formatted: finance.FormatMoney(result, to),
		})
	}
}
