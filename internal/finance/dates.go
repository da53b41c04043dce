package finance

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout API'de kullanılan gün formatı
const DateLayout = "2006-01-02"

// ParseDate "2024-03-15" biçimindeki günü UTC olarak çözer.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("tarih formatı YYYY-MM-DD olmalı: %q", s)
	}
	return t, nil
}

// ParseDateRange boş sınırları nil (açık uç) olarak döner.
func ParseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var fromPtr, toPtr *time.Time
	if strings.TrimSpace(from) != "" {
		t, err := ParseDate(from)
		if err != nil {
			return nil, nil, err
		}
		fromPtr = &t
	}
	if strings.TrimSpace(to) != "" {
		t, err := ParseDate(to)
		if err != nil {
			return nil, nil, err
		}
		toPtr = &t
	}
	if fromPtr != nil && toPtr != nil && toPtr.Before(*fromPtr) {
		return nil, nil, fmt.Errorf("bitiş tarihi başlangıçtan önce olamaz")
	}
	return fromPtr, toPtr, nil
}

// FormatDate nil için boş string döner.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// MonthRange ayın ilk ve son gününü döner.
func MonthRange(year, month int) (*time.Time, *time.Time, error) {
	if year < 2000 || year > 9999 {
		return nil, nil, fmt.Errorf("year geçersiz")
	}
	if month < 1 || month > 12 {
		return nil, nil, fmt.Errorf("month geçersiz")
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return &first, &last, nil
}
