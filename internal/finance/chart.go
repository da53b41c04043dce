package finance

import (
	"time"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
)

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod bilinmeyen değeri günlük kabul eder. Varsayılan dilim sayıları
// günlük 7, haftalık 8, aylık 12'dir.
func ParsePeriod(s string) (Period, int) {
	switch Period(s) {
	case PeriodWeekly:
		return PeriodWeekly, 8
	case PeriodMonthly:
		return PeriodMonthly, 12
	default:
		return PeriodDaily, 7
	}
}

// ChartPoint tek dilimin özeti. Income tur gelirini de içerir.
type ChartPoint struct {
	Label   string          `json:"label"` // dilim başlangıcı
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// bucketStart haftalar pazartesi başlar.
func bucketStart(t time.Time, p Period) time.Time {
	d := day(t)
	switch p {
	case PeriodWeekly:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case PeriodMonthly:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	return d
}

func shift(t time.Time, p Period, n int) time.Time {
	switch p {
	case PeriodWeekly:
		return t.AddDate(0, 0, 7*n)
	case PeriodMonthly:
		return t.AddDate(0, n, 0)
	}
	return t.AddDate(0, 0, n)
}

// ChartBuckets now'ı içeren dilim dahil geriye doğru count dilimin başlangıcını
// eskiden yeniye döner.
func ChartBuckets(now time.Time, p Period, count int) []time.Time {
	if count <= 0 {
		return nil
	}
	last := bucketStart(now, p)
	out := make([]time.Time, count)
	for i := range count {
		out[i] = shift(last, p, i-count+1)
	}
	return out
}

// Chart her dilim için tek para biriminde SummarizeByCurrency özetini çıkarır.
// "all" verilirse TRY kullanılır; grafik kurları karıştırmaz.
func Chart(ledger []models.LedgerEntry, tours []models.Tour, currency string, p Period, buckets []time.Time) []ChartPoint {
	if IsAllCurrencies(currency) {
		currency = DefaultCurrency
	}
	currency = NormalizeCurrency(currency)

	type slot struct {
		ledger []models.LedgerEntry
		tours  []models.Tour
	}
	slots := make(map[time.Time]*slot, len(buckets))
	for _, b := range buckets {
		slots[b] = &slot{}
	}
	for _, e := range ledger {
		if s, ok := slots[bucketStart(e.Date, p)]; ok {
			s.ledger = append(s.ledger, e)
		}
	}
	for _, t := range tours {
		if s, ok := slots[bucketStart(t.TourDate, p)]; ok {
			s.tours = append(s.tours, t)
		}
	}

	points := make([]ChartPoint, 0, len(buckets))
	for _, b := range buckets {
		s := slots[b]
		sum := SummarizeByCurrency(s.ledger, s.tours, currency).Get(currency)
		points = append(points, ChartPoint{
			Label:   b.Format(DateLayout),
			Income:  sum.TotalIncome,
			Expense: sum.Expense,
			Profit:  sum.TotalProfit,
		})
	}
	return points
}
