package mirror

import (
	"time"

	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// money tutarı Decimal128 olarak yazar; çevrilemeyen değer sıfır olur.
func money(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func tourDocument(t models.Tour) bson.M {
	expenses := bson.A{}
	for _, e := range t.Expenses {
		expenses = append(expenses, bson.M{
			"name":     e.Name,
			"category": e.Category,
			"amount":   money(e.Amount),
			"currency": finance.NormalizeCurrency(e.Currency),
		})
	}

	activities := bson.A{}
	for _, a := range t.Activities {
		doc := bson.M{
			"name":                     a.Name,
			"price":                    money(a.Price),
			"currency":                 finance.NormalizeCurrency(a.Currency),
			"partial_payment_amount":   money(a.PartialPaymentAmount),
			"partial_payment_currency": a.PartialPaymentCurrency,
		}
		if a.Date != nil {
			doc["date"] = a.Date.UTC()
		}
		activities = append(activities, doc)
	}

	recognized := bson.M{}
	for code, v := range finance.RecognizedRevenue(t) {
		recognized[code] = money(v)
	}

	doc := bson.M{
		"_id":                      t.ID,
		"serial_number":            t.SerialNumber,
		"customer_name":            t.CustomerName,
		"customer_phone":           t.CustomerPhone,
		"tour_name":                t.TourName,
		"tour_date":                t.TourDate.UTC(),
		"adult_count":              t.AdultCount,
		"child_count":              t.ChildCount,
		"currency":                 finance.NormalizeCurrency(t.Currency),
		"total_price":              money(t.TotalPrice),
		"price_per_person":         money(t.PricePerPerson),
		"payment_status":           string(t.PaymentStatus),
		"partial_payment_amount":   money(t.PartialPaymentAmount),
		"partial_payment_currency": t.PartialPaymentCurrency,
		"notes":                    t.Notes,
		"expenses":                 expenses,
		"activities":               activities,
		"recognized_revenue":       recognized,
		"updated_at":               t.UpdatedAt.UTC(),
		"mirrored_at":              time.Now().UTC(),
	}
	if t.CustomerID != nil {
		doc["customer_id"] = *t.CustomerID
	}
	return doc
}

func entryDocument(e models.LedgerEntry) bson.M {
	doc := bson.M{
		"_id":         e.ID,
		"type":        string(e.Type),
		"amount":      money(e.Amount),
		"currency":    finance.NormalizeCurrency(e.Currency),
		"category":    e.Category,
		"date":        e.Date.UTC(),
		"description": e.Description,
		"updated_at":  e.UpdatedAt.UTC(),
		"mirrored_at": time.Now().UTC(),
	}
	if e.RelatedTourID != nil {
		doc["related_tour_id"] = *e.RelatedTourID
	}
	return doc
}

func customerDocument(c models.Customer) bson.M {
	return bson.M{
		"_id":         c.ID,
		"name":        c.Name,
		"phone":       c.Phone,
		"email":       c.Email,
		"id_number":   c.IDNumber,
		"address":     c.Address,
		"notes":       c.Notes,
		"updated_at":  c.UpdatedAt.UTC(),
		"mirrored_at": time.Now().UTC(),
	}
}
