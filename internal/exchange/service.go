package exchange

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"acente-backend/internal/finance"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownCurrency = errors.New("bu para birimi için kur yok")

// Fetcher kur kaynağı; testlerde sahte kaynak kullanılır.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Refresh kaynaktan kurları çeker ve kod bazında günceller. Yazılan kur sayısını döner.
func Refresh(ctx context.Context, db *gorm.DB, src Fetcher) (int, error) {
	snap, err := src.Fetch(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	rows := make([]models.ExchangeRate, 0, len(snap.Rates))
	for _, r := range snap.Rates {
		code := finance.NormalizeCurrency(r.Code)
		// TRY'nin kendisi 1 kabul edilir, kaynaktan gelen değer yok sayılır
		if strings.TrimSpace(r.Code) == "" || code == finance.DefaultCurrency {
			continue
		}
		if !r.Buying.IsPositive() && !r.Selling.IsPositive() {
			continue
		}
		rows = append(rows, models.ExchangeRate{
			Code:        code,
			Name:        strings.TrimSpace(r.Name),
			Buying:      r.Buying.Decimal,
			Selling:     r.Selling.Decimal,
			LastUpdated: snap.LastUpdated,
			FetchedAt:   now,
		})
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("geçerli kur bulunamadı")
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "buying", "selling", "last_updated", "fetched_at", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("kurlar kaydedilemedi: %w", err)
	}
	return len(rows), nil
}

// LoadRates kayıtlı kurları koda göre döner.
func LoadRates(db *gorm.DB) (map[string]models.ExchangeRate, error) {
	var list []models.ExchangeRate
	if err := db.Order("code").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("kurlar okunamadı: %w", err)
	}
	out := make(map[string]models.ExchangeRate, len(list))
	for _, r := range list {
		out[r.Code] = r
	}
	return out, nil
}

// tryValue bir birimin TRY karşılığı: alış ve satışın ortalaması, biri yoksa diğeri.
func tryValue(rates map[string]models.ExchangeRate, code string) (decimal.Decimal, error) {
	if code == finance.DefaultCurrency {
		return decimal.NewFromInt(1), nil
	}
	r, ok := rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	switch {
	case r.Buying.IsPositive() && r.Selling.IsPositive():
		return r.Buying.Add(r.Selling).Div(decimal.NewFromInt(2)), nil
	case r.Selling.IsPositive():
		return r.Selling, nil
	case r.Buying.IsPositive():
		return r.Buying, nil
	}
	return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
}

// Convert tutarı TRY çapraz kuru üzerinden çevirir. Sadece gösterim içindir;
// raporlar para birimlerini asla birbirine çevirmez.
func Convert(rates map[string]models.ExchangeRate, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = finance.NormalizeCurrency(from)
	to = finance.NormalizeCurrency(to)
	if from == to {
		return amount, nil
	}

	fromTRY, err := tryValue(rates, from)
	if err != nil {
		return decimal.Zero, err
	}
	toTRY, err := tryValue(rates, to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(fromTRY).Div(toTRY).Round(2), nil
}

// Schedule kur yenileme işini cron'a ekler.
func Schedule(c *cron.Cron, spec string, db *gorm.DB, src Fetcher) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		n, err := Refresh(ctx, db, src)
		if err != nil {
			logger.L().WithError(err).Warn("kurlar güncellenemedi")
			return
		}
		logger.L().WithField("count", n).Info("kurlar güncellendi")
	})
}
