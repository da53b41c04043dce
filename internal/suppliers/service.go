package suppliers

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierPaymentCategory ödemeyle birlikte açılan gider kaydının kategorisi
const SupplierPaymentCategory = "Tedarikçi Ödemesi"

var (
	ErrOverpayment  = errors.New("ödeme kalan borcu aşamaz")
	ErrDebtNotFound = errors.New("borç kaydı bulunamadı")
)

type PaymentInput struct {
	Amount        decimal.Decimal
	Date          time.Time
	Description   string
	RecordExpense bool
}

// AddPayment borca ödeme ekler. Toplam ödeme borç tutarını geçemez. RecordExpense
// açıksa aynı tutarda bağımsız bir gider kaydı da oluşturulur.
func AddPayment(db *gorm.DB, debtID string, in PaymentInput) (models.SupplierPayment, error) {
	var payment models.SupplierPayment
	err := db.Transaction(func(tx *gorm.DB) error {
		var debt models.SupplierDebt
		if err := tx.Preload("Payments").Preload("Supplier").First(&debt, "id = ?", debtID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDebtNotFound
			}
			return fmt.Errorf("borç okunamadı: %w", err)
		}

		if in.Amount.GreaterThan(debt.Remaining()) {
			return fmt.Errorf("%w: kalan %s", ErrOverpayment, finance.FormatMoney(debt.Remaining(), debt.Currency))
		}

		payment = models.SupplierPayment{
			DebtID:      debt.ID,
			Amount:      in.Amount,
			Date:        in.Date,
			Description: strings.TrimSpace(in.Description),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("ödeme kaydedilemedi: %w", err)
		}

		if in.RecordExpense {
			desc := debt.Supplier.Name + " ödemesi"
			if payment.Description != "" {
				desc += " - " + payment.Description
			}
			entry := models.LedgerEntry{
				Type:        models.EntryTypeExpense,
				Amount:      payment.Amount,
				Currency:    debt.Currency,
				Category:    SupplierPaymentCategory,
				Date:        payment.Date,
				Description: desc,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("gider kaydı oluşturulamadı: %w", err)
			}
		}
		return nil
	})
	return payment, err
}

// SupplierBalance tedarikçinin tek para birimindeki borç durumu
type SupplierBalance struct {
	SupplierID   string          `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	Currency     string          `json:"currency"`
	Total        decimal.Decimal `json:"total"`
	Paid         decimal.Decimal `json:"paid"`
	Remaining    decimal.Decimal `json:"remaining"`
	OpenDebts    int             `json:"open_debts"`
}

// Balances borçları tedarikçi ve para birimine göre toplar. Sonuç tedarikçi adı,
// sonra para birimi sırasıyla döner.
func Balances(debts []models.SupplierDebt) []SupplierBalance {
	type key struct{ supplier, currency string }
	byKey := make(map[key]*SupplierBalance)

	for _, d := range debts {
		k := key{d.SupplierID, finance.NormalizeCurrency(d.Currency)}
		b, ok := byKey[k]
		if !ok {
			b = &SupplierBalance{
				SupplierID:   d.SupplierID,
				SupplierName: d.Supplier.Name,
				Currency:     k.currency,
			}
			byKey[k] = b
		}
		paid := d.TotalPaid()
		b.Total = b.Total.Add(d.Amount)
		b.Paid = b.Paid.Add(paid)
		b.Remaining = b.Remaining.Add(d.Amount.Sub(paid))
		if d.Remaining().IsPositive() {
			b.OpenDebts++
		}
	}

	out := make([]SupplierBalance, 0, len(byKey))
	for _, b := range byKey {
		out = append(out, *b)
	}
	rank := currencyRank(out)
	slices.SortFunc(out, func(a, b SupplierBalance) int {
		if c := cmp.Compare(strings.ToLower(a.SupplierName), strings.ToLower(b.SupplierName)); c != 0 {
			return c
		}
		if c := cmp.Compare(a.SupplierID, b.SupplierID); c != 0 {
			return c
		}
		return cmp.Compare(rank[a.Currency], rank[b.Currency])
	})
	return out
}

func currencyRank(list []SupplierBalance) map[string]int {
	codes := make([]string, 0, len(list))
	for _, b := range list {
		codes = append(codes, b.Currency)
	}
	rank := make(map[string]int)
	for i, c := range finance.SortCurrencies(codes) {
		rank[c] = i
	}
	return rank
}
