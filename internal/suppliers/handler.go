package suppliers

import (
	"errors"
	"fmt"
	"strings"

	"acente-backend/internal/audit"
	"acente-backend/internal/database"
	"acente-backend/internal/finance"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// -------------------------
// Request/Response Types
// -------------------------

type SupplierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type SupplierResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type CreateDebtRequest struct {
	SupplierID  string              `json:"supplier_id"`
	Amount      finance.LooseAmount `json:"amount"`
	Currency    string              `json:"currency"`
	Description string              `json:"description"`
	Date        string              `json:"date"`     // "2024-03-01"
	DueDate     string              `json:"due_date"` // opsiyonel
}

type CreatePaymentRequest struct {
	Amount        finance.LooseAmount `json:"amount"`
	Date          string              `json:"date"`
	Description   string              `json:"description"`
	RecordExpense bool                `json:"record_expense"` // gider kaydı da açılsın mı
}

type PaymentResponse struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

type DebtResponse struct {
	ID           string            `json:"id"`
	SupplierID   string            `json:"supplier_id"`
	SupplierName string            `json:"supplier_name"`
	Amount       decimal.Decimal   `json:"amount"`
	Currency     string            `json:"currency"`
	Description  string            `json:"description"`
	Date         string            `json:"date"`
	DueDate      string            `json:"due_date"`
	TotalPaid    decimal.Decimal   `json:"total_paid"`
	Remaining    decimal.Decimal   `json:"remaining"`
	Payments     []PaymentResponse `json:"payments"`
}

func toSupplierResponse(s models.Supplier) SupplierResponse {
	return SupplierResponse{ID: s.ID, Name: s.Name, Phone: s.Phone, Notes: s.Notes}
}

func toPaymentResponse(p models.SupplierPayment) PaymentResponse {
	return PaymentResponse{
		ID:          p.ID,
		Amount:      p.Amount,
		Date:        p.Date.Format(finance.DateLayout),
		Description: p.Description,
	}
}

func toDebtResponse(d models.SupplierDebt) DebtResponse {
	resp := DebtResponse{
		ID:           d.ID,
		SupplierID:   d.SupplierID,
		SupplierName: d.Supplier.Name,
		Amount:       d.Amount,
		Currency:     d.Currency,
		Description:  d.Description,
		Date:         d.Date.Format(finance.DateLayout),
		DueDate:      finance.FormatDate(d.DueDate),
		TotalPaid:    d.TotalPaid(),
		Remaining:    d.Remaining(),
		Payments:     make([]PaymentResponse, 0, len(d.Payments)),
	}
	for _, p := range d.Payments {
		resp.Payments = append(resp.Payments, toPaymentResponse(p))
	}
	return resp
}

func loadDebts(dbq *gorm.DB) ([]models.SupplierDebt, error) {
	var debts []models.SupplierDebt
	err := dbq.Preload("Supplier").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("date, created_at") }).
		Order("date DESC, created_at DESC").
		Find(&debts).Error
	return debts, err
}

// -------------------------
// Tedarikçiler
// -------------------------

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var list []models.Supplier
		if err := database.DB.Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}
		resp := make([]SupplierResponse, 0, len(list))
		for _, s := range list {
			resp = append(resp, toSupplierResponse(s))
		}
		return c.JSON(resp)
	}
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı zorunlu")
		}

		s := models.Supplier{
			Name:  body.Name,
			Phone: strings.TrimSpace(body.Phone),
			Notes: strings.TrimSpace(body.Notes),
		}
		if err := database.DB.Create(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplier,
			EntityID:    s.ID,
			Action:      models.AuditActionCreate,
			Description: "Tedarikçi eklendi: " + s.Name,
			After:       s,
		})
		return c.Status(fiber.StatusCreated).JSON(toSupplierResponse(s))
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}
		before := s

		var body SupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi adı zorunlu")
		}

		s.Name = body.Name
		s.Phone = strings.TrimSpace(body.Phone)
		s.Notes = strings.TrimSpace(body.Notes)
		if err := database.DB.Save(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi güncellenemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplier,
			EntityID:    s.ID,
			Action:      models.AuditActionUpdate,
			Description: "Tedarikçi güncellendi: " + s.Name,
			Before:      before,
			After:       s,
		})
		return c.JSON(toSupplierResponse(s))
	}
}

// DELETE /api/suppliers/:id
// Borç kaydı olan tedarikçi silinemez.
func DeleteSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tedarikçi bulunamadı")
		}

		var debtCount int64
		database.DB.Model(&models.SupplierDebt{}).Where("supplier_id = ?", s.ID).Count(&debtCount)
		if debtCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Borç kaydı olan tedarikçi silinemez")
		}

		if err := database.DB.Delete(&s).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçi silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplier,
			EntityID:    s.ID,
			Action:      models.AuditActionDelete,
			Description: "Tedarikçi silindi: " + s.Name,
			Before:      s,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// -------------------------
// Borçlar ve ödemeler
// -------------------------

// GET /api/supplier-debts?supplier_id=...&open=true
func ListDebtsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.SupplierDebt{})
		if sid := c.Query("supplier_id"); sid != "" {
			dbq = dbq.Where("supplier_id = ?", sid)
		}

		debts, err := loadDebts(dbq)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borçlar listelenemedi")
		}

		onlyOpen := c.QueryBool("open", false)
		resp := make([]DebtResponse, 0, len(debts))
		for _, d := range debts {
			if onlyOpen && !d.Remaining().IsPositive() {
				continue
			}
			resp = append(resp, toDebtResponse(d))
		}
		return c.JSON(resp)
	}
}

// GET /api/supplier-debts/balance
func BalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		debts, err := loadDebts(database.DB.Model(&models.SupplierDebt{}))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borçlar okunamadı")
		}
		return c.JSON(Balances(debts))
	}
}

// POST /api/supplier-debts
func CreateDebtHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateDebtRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		var s models.Supplier
		if err := database.DB.First(&s, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
		}
		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}
		date, err := finance.ParseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		debt := models.SupplierDebt{
			SupplierID:  s.ID,
			Amount:      body.Amount.Decimal,
			Currency:    finance.NormalizeCurrency(body.Currency),
			Description: strings.TrimSpace(body.Description),
			Date:        date,
		}
		if strings.TrimSpace(body.DueDate) != "" {
			due, err := finance.ParseDate(body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Vade: "+err.Error())
			}
			debt.DueDate = &due
		}

		if err := database.DB.Create(&debt).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borç kaydedilemedi")
		}
		debt.Supplier = s

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplierDebt,
			EntityID:    debt.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s için borç eklendi: %s", s.Name, finance.FormatMoney(debt.Amount, debt.Currency)),
			After:       toDebtResponse(debt),
		})
		return c.Status(fiber.StatusCreated).JSON(toDebtResponse(debt))
	}
}

// DELETE /api/supplier-debts/:id
func DeleteDebtHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		debts, err := loadDebts(database.DB.Where("id = ?", c.Params("id")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borç okunamadı")
		}
		if len(debts) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Borç kaydı bulunamadı")
		}
		debt := debts[0]

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("debt_id = ?", debt.ID).Delete(&models.SupplierPayment{}).Error; err != nil {
				return err
			}
			return tx.Delete(&models.SupplierDebt{}, "id = ?", debt.ID).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Borç silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplierDebt,
			EntityID:    debt.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("%s borcu silindi: %s", debt.Supplier.Name, finance.FormatMoney(debt.Amount, debt.Currency)),
			Before:      toDebtResponse(debt),
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/supplier-debts/:id/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if !body.Amount.IsPositive() {
			return fiber.NewError(fiber.StatusBadRequest, "amount 0'dan büyük olmalı")
		}
		date, err := finance.ParseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		debtID := c.Params("id")
		payment, err := AddPayment(database.DB, debtID, PaymentInput{
			Amount:        body.Amount.Decimal,
			Date:          date,
			Description:   body.Description,
			RecordExpense: body.RecordExpense,
		})
		switch {
		case errors.Is(err, ErrDebtNotFound):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, ErrOverpayment):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			logger.L().WithError(err).WithField("debt_id", debtID).Error("tedarikçi ödemesi kaydedilemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme kaydedilemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplierDebt,
			EntityID:    debtID,
			Action:      models.AuditActionUpdate,
			Description: "Borca ödeme eklendi: " + payment.Amount.StringFixed(2),
			After:       toPaymentResponse(payment),
		})
		return c.Status(fiber.StatusCreated).JSON(toPaymentResponse(payment))
	}
}

// DELETE /api/supplier-debts/:id/payments/:payment_id
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var payment models.SupplierPayment
		if err := database.DB.First(&payment, "id = ? AND debt_id = ?", c.Params("payment_id"), c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ödeme bulunamadı")
		}

		if err := database.DB.Delete(&payment).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntitySupplierDebt,
			EntityID:    payment.DebtID,
			Action:      models.AuditActionUpdate,
			Description: "Borçtan ödeme silindi: " + payment.Amount.StringFixed(2),
			Before:      toPaymentResponse(payment),
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
