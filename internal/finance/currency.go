// Package finance, gelir/gider kayıtları ile tur satışlarını para birimi bazında
// özetleyen ve tek bir işlem akışında birleştiren saf hesaplama katmanıdır.
// Hiçbir G/Ç yapmaz; çağıran taraf kayıtları veritabanından okuyup buraya verir.
package finance

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency = "TRY"
	AllCurrencies   = "all"
)

// Özet tablolarında önce bu sıra, sonra kalanlar alfabetik
var preferredCurrencies = []string{"TRY", "USD", "EUR", "GBP"}

var currencySymbols = map[string]string{
	"TRY": "₺",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"SAR": "﷼",
}

// NormalizeCurrency boşlukları kırpar, büyük harfe çevirir; boş kod TRY sayılır.
func NormalizeCurrency(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return DefaultCurrency
	}
	return c
}

// IsAllCurrencies "all" (veya boş) filtresini tanır.
func IsAllCurrencies(filter string) bool {
	f := strings.TrimSpace(filter)
	return f == "" || strings.EqualFold(f, AllCurrencies)
}

// SortCurrencies kodları TRY, USD, EUR, GBP ve ardından alfabetik sıraya dizer.
// Girdi değiştirilmez, tekrar eden kodlar tekilleştirilir.
func SortCurrencies(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	rest := make([]string, 0, len(codes))
	for _, c := range codes {
		c = NormalizeCurrency(c)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		if !slices.Contains(preferredCurrencies, c) {
			rest = append(rest, c)
		}
	}
	slices.Sort(rest)

	out := make([]string, 0, len(seen))
	for _, c := range preferredCurrencies {
		if _, ok := seen[c]; ok {
			out = append(out, c)
		}
	}
	return append(out, rest...)
}

// CurrencySymbol bilinen kodlar için sembolü, diğerleri için kodun kendisini döner.
func CurrencySymbol(code string) string {
	c := NormalizeCurrency(code)
	if s, ok := currencySymbols[c]; ok {
		return s
	}
	return c
}

// FormatMoney rapor ve çıktı ekranları için "₺1500.00" / "1500.00 XYZ" biçimi üretir.
func FormatMoney(amount decimal.Decimal, code string) string {
	c := NormalizeCurrency(code)
	if s, ok := currencySymbols[c]; ok {
		return s + amount.StringFixed(2)
	}
	return amount.StringFixed(2) + " " + c
}
