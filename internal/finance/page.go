package finance

import (
	"time"

	"acente-backend/internal/models"
)

// DefaultPageSize işlem tablolarında sayfa başına satır
const DefaultPageSize = 10

type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Paginate 1'den başlayan sayfa numarasıyla dilim döner. Aralık dışı sayfa
// numarası ilk ya da son sayfaya çekilir.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages := (len(items) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := min(start+size, len(items))
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)

	return Page[T]{
		Items:      out,
		Page:       page,
		PageSize:   size,
		TotalItems: len(items),
		TotalPages: totalPages,
	}
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// InDateRange gün bazında kapsayıcı karşılaştırma yapar. Sınırlardan biri nil ise
// o taraf açıktır.
func InDateRange(t time.Time, from, to *time.Time) bool {
	d := day(t)
	if from != nil && d.Before(day(*from)) {
		return false
	}
	if to != nil && d.After(day(*to)) {
		return false
	}
	return true
}

// FilterLedger tarih aralığındaki kayıtları döner.
func FilterLedger(entries []models.LedgerEntry, from, to *time.Time) []models.LedgerEntry {
	out := make([]models.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if InDateRange(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out
}

// FilterTours tur tarihi aralıktaki turları döner.
func FilterTours(tours []models.Tour, from, to *time.Time) []models.Tour {
	out := make([]models.Tour, 0, len(tours))
	for _, t := range tours {
		if InDateRange(t.TourDate, from, to) {
			out = append(out, t)
		}
	}
	return out
}
