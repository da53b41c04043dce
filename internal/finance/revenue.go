package finance

import (
	"strings"

	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
)

// Amounts para birimi -> tutar eşlemesidir.
type Amounts map[string]decimal.Decimal

func (a Amounts) add(code string, v decimal.Decimal) {
	c := NormalizeCurrency(code)
	a[c] = a[c].Add(v)
}

// IsZero tüm kalemler sıfırsa true döner.
func (a Amounts) IsZero() bool {
	for _, v := range a {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

func normalizeStatus(s models.PaymentStatus) models.PaymentStatus {
	return models.PaymentStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

func normalizeEntryType(t models.EntryType) models.EntryType {
	return models.EntryType(strings.ToLower(strings.TrimSpace(string(t))))
}

// firstCurrency boş olmayan ilk kodu seçer.
func firstCurrency(codes ...string) string {
	for _, c := range codes {
		if strings.TrimSpace(c) != "" {
			return NormalizeCurrency(c)
		}
	}
	return DefaultCurrency
}

// RecognizedRevenue turun gelir olarak sayılan kısmını para birimi bazında döner.
//
//   - completed: toplam fiyat, turun para biriminde. Aktiviteler toplam fiyatın
//     içinde kabul edilir, ayrıca eklenmez.
//   - partial: alınan kısmi ödeme, artı kendi kısmi ödemesi girilmiş her aktivitenin
//     kısmi tutarı (aktivitenin para biriminde).
//   - pending, refunded: hiçbir şey.
func RecognizedRevenue(t models.Tour) Amounts {
	out := Amounts{}
	switch normalizeStatus(t.PaymentStatus) {
	case models.PaymentCompleted:
		out.add(t.Currency, t.TotalPrice)
	case models.PaymentPartial:
		out.add(firstCurrency(t.PartialPaymentCurrency, t.Currency), t.PartialPaymentAmount)
		for _, a := range t.Activities {
			if a.PartialPaymentAmount.IsZero() {
				continue
			}
			out.add(firstCurrency(a.PartialPaymentCurrency, a.Currency, t.Currency), a.PartialPaymentAmount)
		}
	}
	return out
}

// NominalAmount listelerde gösterilen satış bedelidir; tahsilat durumuna bakmaz.
func NominalAmount(t models.Tour) decimal.Decimal {
	return t.TotalPrice
}

// tourCurrencies turda geçen tüm para birimlerini toplar.
func tourCurrencies(t models.Tour, into map[string]struct{}) {
	into[NormalizeCurrency(t.Currency)] = struct{}{}
	if strings.TrimSpace(t.PartialPaymentCurrency) != "" {
		into[NormalizeCurrency(t.PartialPaymentCurrency)] = struct{}{}
	}
	for _, e := range t.Expenses {
		into[NormalizeCurrency(e.Currency)] = struct{}{}
	}
	for _, a := range t.Activities {
		if strings.TrimSpace(a.Currency) != "" {
			into[NormalizeCurrency(a.Currency)] = struct{}{}
		}
		if strings.TrimSpace(a.PartialPaymentCurrency) != "" {
			into[NormalizeCurrency(a.PartialPaymentCurrency)] = struct{}{}
		}
	}
}
