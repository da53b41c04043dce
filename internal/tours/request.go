package tours

import (
	"strings"
	"time"

	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ExpenseInput struct {
	Name     string              `json:"name"`
	Category string              `json:"category"`
	Amount   finance.LooseAmount `json:"amount"`
	Currency string              `json:"currency"`
}

type ActivityInput struct {
	Name                   string              `json:"name"`
	Date                   string              `json:"date"`
	Price                  finance.LooseAmount `json:"price"`
	Currency               string              `json:"currency"`
	PartialPaymentAmount   finance.LooseAmount `json:"partial_payment_amount"`
	PartialPaymentCurrency string              `json:"partial_payment_currency"`
}

// TourRequest oluşturma ve güncellemede formun tamamını taşır.
type TourRequest struct {
	CustomerID    *string `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	TourName      string  `json:"tour_name"`
	TourDate      string  `json:"tour_date"` // "2024-06-01"
	AdultCount    int     `json:"adult_count"`
	ChildCount    int     `json:"child_count"`

	Currency       string              `json:"currency"`
	TotalPrice     finance.LooseAmount `json:"total_price"`
	PricePerPerson finance.LooseAmount `json:"price_per_person"`

	PaymentStatus          string              `json:"payment_status"`
	PartialPaymentAmount   finance.LooseAmount `json:"partial_payment_amount"`
	PartialPaymentCurrency string              `json:"partial_payment_currency"`

	Notes      string          `json:"notes"`
	Expenses   []ExpenseInput  `json:"expenses"`
	Activities []ActivityInput `json:"activities"`
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// toModel isteği doğrulanmış bir tur modeline çevirir. ID, seri no ve müşteri
// bağlantısı çağıran tarafından doldurulur.
func (r TourRequest) toModel() (models.Tour, error) {
	name := strings.TrimSpace(r.CustomerName)
	if name == "" {
		return models.Tour{}, badRequest("Müşteri adı zorunlu")
	}
	date, err := finance.ParseDate(r.TourDate)
	if err != nil {
		return models.Tour{}, badRequest(err.Error())
	}
	if r.AdultCount < 0 || r.ChildCount < 0 {
		return models.Tour{}, badRequest("Kişi sayısı negatif olamaz")
	}

	status := models.PaymentStatus(strings.ToLower(strings.TrimSpace(r.PaymentStatus)))
	if status == "" {
		status = models.PaymentPending
	}
	if !status.Valid() {
		return models.Tour{}, badRequest("payment_status 'pending', 'partial', 'completed' veya 'refunded' olmalı")
	}

	for _, d := range []decimal.Decimal{r.TotalPrice.Decimal, r.PricePerPerson.Decimal, r.PartialPaymentAmount.Decimal} {
		if d.IsNegative() {
			return models.Tour{}, badRequest("Tutarlar negatif olamaz")
		}
	}

	currency := finance.NormalizeCurrency(r.Currency)
	total := r.TotalPrice.Decimal
	if total.IsZero() && r.PricePerPerson.IsPositive() {
		people := max(r.AdultCount+r.ChildCount, 1)
		total = r.PricePerPerson.Mul(decimal.NewFromInt(int64(people)))
	}

	t := models.Tour{
		CustomerName:   name,
		CustomerPhone:  strings.TrimSpace(r.CustomerPhone),
		TourName:       strings.TrimSpace(r.TourName),
		TourDate:       date,
		AdultCount:     r.AdultCount,
		ChildCount:     r.ChildCount,
		Currency:       currency,
		TotalPrice:     total,
		PricePerPerson: r.PricePerPerson.Decimal,
		PaymentStatus:  status,
		Notes:          strings.TrimSpace(r.Notes),
	}

	if status == models.PaymentPartial {
		t.PartialPaymentAmount = r.PartialPaymentAmount.Decimal
		t.PartialPaymentCurrency = currency
		if strings.TrimSpace(r.PartialPaymentCurrency) != "" {
			t.PartialPaymentCurrency = finance.NormalizeCurrency(r.PartialPaymentCurrency)
		}
	}

	for i, e := range r.Expenses {
		if e.Amount.IsNegative() {
			return models.Tour{}, badRequest("Gider tutarı negatif olamaz")
		}
		// boş satırlar formdan gelebilir
		if e.Amount.IsZero() && strings.TrimSpace(e.Name) == "" {
			continue
		}
		t.Expenses = append(t.Expenses, models.TourExpense{
			Position: i,
			Name:     strings.TrimSpace(e.Name),
			Category: strings.TrimSpace(e.Category),
			Amount:   e.Amount.Decimal,
			Currency: finance.NormalizeCurrency(e.Currency),
		})
	}

	for i, a := range r.Activities {
		if a.Price.IsNegative() || a.PartialPaymentAmount.IsNegative() {
			return models.Tour{}, badRequest("Aktivite tutarı negatif olamaz")
		}
		if strings.TrimSpace(a.Name) == "" && a.Price.IsZero() {
			continue
		}
		act := models.TourActivity{
			Position:             i,
			Name:                 strings.TrimSpace(a.Name),
			Price:                a.Price.Decimal,
			Currency:             currency,
			PartialPaymentAmount: a.PartialPaymentAmount.Decimal,
		}
		if strings.TrimSpace(a.Currency) != "" {
			act.Currency = finance.NormalizeCurrency(a.Currency)
		}
		act.PartialPaymentCurrency = act.Currency
		if strings.TrimSpace(a.PartialPaymentCurrency) != "" {
			act.PartialPaymentCurrency = finance.NormalizeCurrency(a.PartialPaymentCurrency)
		}
		if strings.TrimSpace(a.Date) != "" {
			d, err := finance.ParseDate(a.Date)
			if err != nil {
				return models.Tour{}, badRequest("Aktivite tarihi: " + err.Error())
			}
			act.Date = &d
		}
		t.Activities = append(t.Activities, act)
	}

	return t, nil
}

// ExpenseResponse / ActivityResponse formdaki satır sırasıyla döner.
type ExpenseResponse struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type ActivityResponse struct {
	Name                   string          `json:"name"`
	Date                   string          `json:"date"`
	Price                  decimal.Decimal `json:"price"`
	Currency               string          `json:"currency"`
	PartialPaymentAmount   decimal.Decimal `json:"partial_payment_amount"`
	PartialPaymentCurrency string          `json:"partial_payment_currency"`
}

type TourResponse struct {
	ID                     string               `json:"id"`
	SerialNumber           string               `json:"serial_number"`
	CustomerID             *string              `json:"customer_id"`
	CustomerName           string               `json:"customer_name"`
	CustomerPhone          string               `json:"customer_phone"`
	TourName               string               `json:"tour_name"`
	TourDate               string               `json:"tour_date"`
	AdultCount             int                  `json:"adult_count"`
	ChildCount             int                  `json:"child_count"`
	Currency               string               `json:"currency"`
	TotalPrice             decimal.Decimal      `json:"total_price"`
	PricePerPerson         decimal.Decimal      `json:"price_per_person"`
	PaymentStatus          models.PaymentStatus `json:"payment_status"`
	PartialPaymentAmount   decimal.Decimal      `json:"partial_payment_amount"`
	PartialPaymentCurrency string               `json:"partial_payment_currency"`
	Notes                  string               `json:"notes"`
	Expenses               []ExpenseResponse    `json:"expenses"`
	Activities             []ActivityResponse   `json:"activities"`
	RecognizedRevenue      finance.Amounts      `json:"recognized_revenue"`
	CreatedAt              time.Time            `json:"created_at"`
}

func toResponse(t models.Tour) TourResponse {
	resp := TourResponse{
		ID:                     t.ID,
		SerialNumber:           t.SerialNumber,
		CustomerID:             t.CustomerID,
		CustomerName:           t.CustomerName,
		CustomerPhone:          t.CustomerPhone,
		TourName:               t.TourName,
		TourDate:               t.TourDate.Format(finance.DateLayout),
		AdultCount:             t.AdultCount,
		ChildCount:             t.ChildCount,
		Currency:               t.Currency,
		TotalPrice:             t.TotalPrice,
		PricePerPerson:         t.PricePerPerson,
		PaymentStatus:          t.PaymentStatus,
		PartialPaymentAmount:   t.PartialPaymentAmount,
		PartialPaymentCurrency: t.PartialPaymentCurrency,
		Notes:                  t.Notes,
		Expenses:               make([]ExpenseResponse, 0, len(t.Expenses)),
		Activities:             make([]ActivityResponse, 0, len(t.Activities)),
		RecognizedRevenue:      finance.RecognizedRevenue(t),
		CreatedAt:              t.CreatedAt,
	}
	for _, e := range t.Expenses {
		resp.Expenses = append(resp.Expenses, ExpenseResponse{
			Name:     e.Name,
			Category: e.Category,
			Amount:   e.Amount,
			Currency: e.Currency,
		})
	}
	for _, a := range t.Activities {
		resp.Activities = append(resp.Activities, ActivityResponse{
			Name:                   a.Name,
			Date:                   finance.FormatDate(a.Date),
			Price:                  a.Price,
			Currency:               a.Currency,
			PartialPaymentAmount:   a.PartialPaymentAmount,
			PartialPaymentCurrency: a.PartialPaymentCurrency,
		})
	}
	return resp
}
