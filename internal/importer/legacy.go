// Package importer eski tarayıcı uygulamasının JSON yedeğini veritabanına aktarır.
// Yedekteki kayıtların alanları eksik ya da yanlış tipte olabilir; hepsi burada
// bir kez doğrulanıp modele çevrilir.
package importer

import (
	"fmt"
	"strings"
	"time"

	"acente-backend/internal/finance"
	"acente-backend/internal/models"
)

// Backup yedek dosyasının kökü
type Backup struct {
	Customers    []legacyCustomer `json:"customers"`
	Tours        []legacyTour     `json:"tours"`
	Transactions []legacyEntry    `json:"transactions"`
}

type legacyCustomer struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IDNumber string `json:"idNumber"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

type legacyExpense struct {
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Amount   finance.LooseAmount `json:"amount"`
	Currency string              `json:"currency"`
}

type legacyActivity struct {
	Name                   string              `json:"name"`
	Date                   string              `json:"date"`
	Price                  finance.LooseAmount `json:"price"`
	Currency               string              `json:"currency"`
	PartialPaymentAmount   finance.LooseAmount `json:"partialPaymentAmount"`
	PartialPaymentCurrency string              `json:"partialPaymentCurrency"`
}

type legacyTour struct {
	ID                     string              `json:"id"`
	SerialNumber           string              `json:"serialNumber"`
	CustomerID             string              `json:"customerId"`
	CustomerName           string              `json:"customerName"`
	CustomerPhone          string              `json:"customerPhone"`
	TourName               string              `json:"tourName"`
	TourDate               string              `json:"tourDate"`
	AdultCount             finance.LooseAmount `json:"adultCount"`
	ChildCount             finance.LooseAmount `json:"childCount"`
	Currency               string              `json:"currency"`
	TotalPrice             finance.LooseAmount `json:"totalPrice"`
	PricePerPerson         finance.LooseAmount `json:"pricePerPerson"`
	PaymentStatus          string              `json:"paymentStatus"`
	PartialPaymentAmount   finance.LooseAmount `json:"partialPaymentAmount"`
	PartialPaymentCurrency string              `json:"partialPaymentCurrency"`
	Notes                  string              `json:"notes"`
	Expenses               []legacyExpense     `json:"expenses"`
	Activities             []legacyActivity    `json:"activities"`
}

type legacyEntry struct {
	ID            string              `json:"id"`
	Type          string              `json:"type"`
	Amount        finance.LooseAmount `json:"amount"`
	Currency      string              `json:"currency"`
	Category      string              `json:"category"`
	RelatedTourID string              `json:"relatedTourId"`
	Date          string              `json:"date"`
	Description   string              `json:"description"`
}

var dateLayouts = []string{time.RFC3339, finance.DateLayout, "02.01.2006", "2006-01-02 15:04:05"}

// parseDate yedekte görülen tarih biçimlerini dener.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("tarih çözülemedi: %q", s)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (c legacyCustomer) toModel() (models.Customer, error) {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return models.Customer{}, fmt.Errorf("müşteri adı boş")
	}
	return models.Customer{
		ID:       strings.TrimSpace(c.ID),
		Name:     name,
		Phone:    strings.TrimSpace(c.Phone),
		Email:    strings.TrimSpace(c.Email),
		IDNumber: strings.TrimSpace(c.IDNumber),
		Address:  strings.TrimSpace(c.Address),
		Notes:    strings.TrimSpace(c.Notes),
	}, nil
}

// toModel eski tur kaydını çevirir. Bilinmeyen ödeme durumu "pending" sayılır,
// kısmi ödeme alanları sadece "partial" durumunda tutulur.
func (t legacyTour) toModel() (models.Tour, error) {
	name := strings.TrimSpace(t.CustomerName)
	if name == "" {
		return models.Tour{}, fmt.Errorf("müşteri adı boş")
	}
	date, err := parseDate(t.TourDate)
	if err != nil {
		return models.Tour{}, err
	}

	status := models.PaymentStatus(strings.ToLower(strings.TrimSpace(t.PaymentStatus)))
	if !status.Valid() {
		status = models.PaymentPending
	}
	currency := finance.NormalizeCurrency(t.Currency)

	out := models.Tour{
		ID:             strings.TrimSpace(t.ID),
		SerialNumber:   strings.TrimSpace(t.SerialNumber),
		CustomerID:     optional(t.CustomerID),
		CustomerName:   name,
		CustomerPhone:  strings.TrimSpace(t.CustomerPhone),
		TourName:       strings.TrimSpace(t.TourName),
		TourDate:       date,
		AdultCount:     int(t.AdultCount.IntPart()),
		ChildCount:     int(t.ChildCount.IntPart()),
		Currency:       currency,
		TotalPrice:     t.TotalPrice.Abs(),
		PricePerPerson: t.PricePerPerson.Abs(),
		PaymentStatus:  status,
		Notes:          strings.TrimSpace(t.Notes),
	}
	if status == models.PaymentPartial {
		out.PartialPaymentAmount = t.PartialPaymentAmount.Abs()
		out.PartialPaymentCurrency = currency
		if strings.TrimSpace(t.PartialPaymentCurrency) != "" {
			out.PartialPaymentCurrency = finance.NormalizeCurrency(t.PartialPaymentCurrency)
		}
	}

	for i, e := range t.Expenses {
		if e.Amount.IsZero() && strings.TrimSpace(e.Name) == "" {
			continue
		}
		out.Expenses = append(out.Expenses, models.TourExpense{
			Position: i,
			Name:     strings.TrimSpace(e.Name),
			Category: strings.TrimSpace(e.Category),
			Amount:   e.Amount.Abs(),
			Currency: finance.NormalizeCurrency(e.Currency),
		})
	}

	for i, a := range t.Activities {
		if strings.TrimSpace(a.Name) == "" && a.Price.IsZero() {
			continue
		}
		actCurrency := currency
		if strings.TrimSpace(a.Currency) != "" {
			actCurrency = finance.NormalizeCurrency(a.Currency)
		}
		act := models.TourActivity{
			Position:               i,
			Name:                   strings.TrimSpace(a.Name),
			Price:                  a.Price.Abs(),
			Currency:               actCurrency,
			PartialPaymentAmount:   a.PartialPaymentAmount.Abs(),
			PartialPaymentCurrency: actCurrency,
		}
		if strings.TrimSpace(a.PartialPaymentCurrency) != "" {
			act.PartialPaymentCurrency = finance.NormalizeCurrency(a.PartialPaymentCurrency)
		}
		// aktivite tarihi bozuksa tarihsiz aktarılır
		if d, err := parseDate(a.Date); err == nil {
			act.Date = &d
		}
		out.Activities = append(out.Activities, act)
	}
	return out, nil
}

func (e legacyEntry) toModel() (models.LedgerEntry, error) {
	typ := models.EntryType(strings.ToLower(strings.TrimSpace(e.Type)))
	if !typ.Valid() {
		return models.LedgerEntry{}, fmt.Errorf("geçersiz kayıt tipi: %q", e.Type)
	}
	date, err := parseDate(e.Date)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return models.LedgerEntry{
		ID:            strings.TrimSpace(e.ID),
		Type:          typ,
		Amount:        e.Amount.Abs(),
		Currency:      finance.NormalizeCurrency(e.Currency),
		Category:      strings.TrimSpace(e.Category),
		RelatedTourID: optional(e.RelatedTourID),
		Date:          date,
		Description:   strings.TrimSpace(e.Description),
	}, nil
}
