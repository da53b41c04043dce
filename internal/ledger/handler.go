package ledger

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

// ErrDerivedEntry turun gider listesinden üretilmiş kayıtlar elle değiştirilemez.
var ErrDerivedEntry = errors.New("tur giderinden oluşan kayıt sadece tur üzerinden değiştirilebilir")

type CreateEntryRequest struct {
	Type          string              `json:"type"`
	Amount        finance.LooseAmount `json:"amount"`
	Currency      string              `json:"currency"`
	Category      string              `json:"category"`
	RelatedTourID *string             `json:"related_tour_id"`
	Date          string              `json:"date"` // "2024-03-15"
	Description   string              `json:"description"`
}

type UpdateEntryRequest struct {
	Type          *string              `json:"type"`
	Amount        *finance.LooseAmount `json:"amount"`
	Currency      *string              `json:"currency"`
	Category      *string              `json:"category"`
	RelatedTourID *string              `json:"related_tour_id"`
	Date          *string              `json:"date"`
	Description   *string              `json:"description"`
}

type EntryResponse struct {
	ID            string           `json:"id"`
	Type          models.EntryType `json:"type"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	Category      string           `json:"category"`
	RelatedTourID *string          `json:"related_tour_id"`
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	TourDerived   bool             `json:"tour_derived"`
}

func toResponse(e models.LedgerEntry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		Type:          e.Type,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Category:      e.Category,
		RelatedTourID: e.RelatedTourID,
		Date:          e.Date.Format(finance.DateLayout),
		Description:   e.Description,
		TourDerived:   e.IsTourDerived(),
	}
}

// validate kaydı normalize eder ve tutarlılığını kontrol eder.
func validate(e *models.LedgerEntry) error {
	e.Type = models.EntryType(strings.ToLower(strings.TrimSpace(string(e.Type))))
	if !e.Type.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "type 'income' veya 'expense' olmalı")
	}
	if e.Amount.IsNegative() || e.Amount.IsZero() {
		return fiber.NewError(fiber.StatusBadRequest, "Tutar sıfırdan büyük olmalı")
	}
	e.Currency = finance.NormalizeCurrency(e.Currency)
	e.Category = strings.TrimSpace(e.Category)
	e.Description = strings.TrimSpace(e.Description)

	if e.RelatedTourID != nil {
		id := strings.TrimSpace(*e.RelatedTourID)
		if id == "" {
			e.RelatedTourID = nil
		} else {
			e.RelatedTourID = &id
			var count int64
			if err := database.DB.Model(&models.Tour{}).Where("id = ?", id).Count(&count).Error; err != nil {
				logger.L().WithError(err).Error("ilişkili tur kontrol edilemedi")
				return fiber.NewError(fiber.StatusInternalServerError, "İlişkili tur kontrol edilemedi")
			}
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "İlişkili tur bulunamadı")
			}
		}
	}
	if e.IsTourDerived() {
		return fiber.NewError(fiber.StatusBadRequest, ErrDerivedEntry.Error())
	}
	return nil
}

// -------------------------
// Gelir / Gider kayıtları
// -------------------------

// GET /api/ledger?type=expense&currency=USD&from=2024-01-01&to=2024-01-31&standalone=true&tour_id=...
func ListEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := finance.ParseDateRange(c.Query("from"), c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		dbq := database.DB.Model(&models.LedgerEntry{})
		if typ := strings.ToLower(c.Query("type")); typ != "" {
			if !models.EntryType(typ).Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "type 'income' veya 'expense' olmalı")
			}
			dbq = dbq.Where("type = ?", typ)
		}
		if cur := c.Query("currency"); !finance.IsAllCurrencies(cur) {
			dbq = dbq.Where("currency = ?", finance.NormalizeCurrency(cur))
		}
		if c.QueryBool("standalone", false) {
			dbq = dbq.Where("related_tour_id IS NULL")
		}
		if tourID := c.Query("tour_id"); tourID != "" {
			dbq = dbq.Where("related_tour_id = ?", tourID)
		}

		var entries []models.LedgerEntry
		if err := dbq.Order("date DESC, id").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıtlar listelenemedi")
		}
		entries = finance.FilterLedger(entries, from, to)

		resp := make([]EntryResponse, 0, len(entries))
		for _, e := range entries {
			resp = append(resp, toResponse(e))
		}
		return c.JSON(resp)
	}
}

// GET /api/ledger/:id
func GetEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e models.LedgerEntry
		if err := database.DB.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}
		return c.JSON(toResponse(e))
	}
}

// POST /api/ledger
func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		date, err := finance.ParseDate(body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		e := models.LedgerEntry{
			Type:          models.EntryType(body.Type),
			Amount:        body.Amount.Decimal,
			Currency:      body.Currency,
			Category:      body.Category,
			RelatedTourID: body.RelatedTourID,
			Date:          date,
			Description:   body.Description,
		}
		if err := validate(&e); err != nil {
			return err
		}

		if err := database.DB.Create(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityLedgerEntry,
			EntityID:    e.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s kaydı eklendi: %s %s", e.Type, e.Amount.StringFixed(2), e.Currency),
			After:       e,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(e))
	}
}

// PUT /api/ledger/:id
func UpdateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e models.LedgerEntry
		if err := database.DB.First(&e, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}
		if e.IsTourDerived() {
			return fiber.NewError(fiber.StatusConflict, ErrDerivedEntry.Error())
		}
		before := e

		var body UpdateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Type != nil {
			e.Type = models.EntryType(*body.Type)
		}
		if body.Amount != nil {
			e.Amount = body.Amount.Decimal
		}
		if body.Currency != nil {
			e.Currency = *body.Currency
		}
		if body.Category != nil {
			e.Category = *body.Category
		}
		if body.RelatedTourID != nil {
			e.RelatedTourID = body.RelatedTourID
		}
		if body.Date != nil {
			date, err := finance.ParseDate(*body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			e.Date = date
		}
		if body.Description != nil {
			e.Description = *body.Description
		}
		if err := validate(&e); err != nil {
			return err
		}

		if err := database.DB.Save(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt güncellenemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityLedgerEntry,
			EntityID:    e.ID,
			Action:      models.AuditActionUpdate,
			Description: "Gelir/gider kaydı güncellendi",
			Before:      before,
			After:       e,
		})

		return c.JSON(toResponse(e))
	}
}

// DELETE /api/ledger/:id
func DeleteEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var e models.LedgerEntry
		err := database.DB.First(&e, "id = ?", c.Params("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Kayıt bulunamadı")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt okunamadı")
		}
		if e.IsTourDerived() {
			return fiber.NewError(fiber.StatusConflict, ErrDerivedEntry.Error())
		}

		if err := database.DB.Delete(&e).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kayıt silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityLedgerEntry,
			EntityID:    e.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("%s kaydı silindi: %s %s", e.Type, e.Amount.StringFixed(2), e.Currency),
			Before:      e,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
