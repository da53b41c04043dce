package finance

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount serbest metin tutarı sayıya çevirir. Rakam, nokta, virgül ve
// baştaki eksi dışındaki karakterler atılır; "₺1.250,50" ve "1,250.50" ikisi de
// 1250.50, "$2,500" ve "₺1.250" binlik ayraçla 2500 ve 1250 olur. Çözülemeyen
// değer hata değil sıfırdır.
func ParseAmount(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	negative := false
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			negative = true
		}
	}
	s := b.String()

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		// sonda olan ayraç ondalık ayracıdır, diğeri binlik
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = singleSeparator(s, ",")
	case lastDot >= 0:
		s = singleSeparator(s, ".")
	}

	if !strings.ContainsAny(s, "0123456789") {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		return d.Neg()
	}
	return d
}

// LooseAmount JSON'da sayı, metin ya da null olarak gelebilen tutar alanıdır.
// Çözümleme asla hata döndürmez; geçersiz değer sıfır olur.
type LooseAmount struct {
	decimal.Decimal
}

func (a *LooseAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		a.Decimal = decimal.Zero
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}
		a.Decimal = ParseAmount(s)
	default:
		d, err := decimal.NewFromString(string(data))
		if err != nil {
			d = decimal.Zero
		}
		a.Decimal = d
	}
	return nil
}

// singleSeparator metinde tek tür ayraç varken çalışır. Birden çok ayraç ya da
// sıfır olmayan tam kısımdan sonra tam üç hane binlik ayraçtır ("1.250",
// "2,500"); diğer durumlarda ayraç ondalıktır ("12,75", "0.125").
func singleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	i := strings.Index(s, sep)
	whole, frac := strings.TrimLeft(s[:i], "0"), s[i+1:]
	if len(frac) == 3 && whole != "" {
		return whole + frac
	}
	return strings.Replace(s, sep, ".", 1)
}
