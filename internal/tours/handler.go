package tours

import (
	"errors"
	"fmt"
	"strings"

	"acente-backend/internal/audit"
	"acente-backend/internal/customers"
	"acente-backend/internal/database"
	"acente-backend/internal/finance"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// saveError servis hatalarını HTTP hatasına çevirir.
func saveError(err error, msg string) error {
	switch {
	case errors.Is(err, ErrCustomerNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, customers.ErrNameRequired):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	logger.L().WithError(err).Error(msg)
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// GET /api/tours?status=partial&from=2024-01-01&to=2024-12-31&q=ali
func ListToursHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, err := finance.ParseDateRange(c.Query("from"), c.Query("to"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		dbq := preloadOrdered(database.DB.Model(&models.Tour{}))
		if status := strings.ToLower(c.Query("status")); status != "" {
			if !models.PaymentStatus(status).Valid() {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme durumu")
			}
			dbq = dbq.Where("payment_status = ?", status)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(customer_name) LIKE ? OR LOWER(tour_name) LIKE ? OR LOWER(serial_number) LIKE ?", like, like, like)
		}
		if customerID := c.Query("customer_id"); customerID != "" {
			dbq = dbq.Where("customer_id = ?", customerID)
		}

		var list []models.Tour
		if err := dbq.Order("tour_date DESC, created_at DESC").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Turlar listelenemedi")
		}
		list = finance.FilterTours(list, from, to)

		resp := make([]TourResponse, 0, len(list))
		for _, t := range list {
			resp = append(resp, toResponse(t))
		}
		return c.JSON(resp)
	}
}

// GET /api/tours/:id
func GetTourHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadTour(database.DB, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}
		return c.JSON(toResponse(t))
	}
}

// POST /api/tours
func CreateTourHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body TourRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		t, err := body.toModel()
		if err != nil {
			return err
		}
		if err := createTour(database.DB, &t, body.CustomerID); err != nil {
			return saveError(err, "Tur oluşturulamadı")
		}

		saved, err := loadTour(database.DB, t.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tur okunamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityTour,
			EntityID:    saved.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Tur satışı eklendi: %s %s", saved.SerialNumber, saved.CustomerName),
			After:       toResponse(saved),
		})
		return c.Status(fiber.StatusCreated).JSON(toResponse(saved))
	}
}

// PUT /api/tours/:id
func UpdateTourHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		existing, err := loadTour(database.DB, c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}

		var body TourRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		t, err := body.toModel()
		if err != nil {
			return err
		}
		if err := updateTour(database.DB, existing, &t, body.CustomerID); err != nil {
			return saveError(err, "Tur güncellenemedi")
		}

		saved, err := loadTour(database.DB, existing.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tur okunamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityTour,
			EntityID:    saved.ID,
			Action:      models.AuditActionUpdate,
			Description: "Tur satışı güncellendi: " + saved.SerialNumber,
			Before:      toResponse(existing),
			After:       toResponse(saved),
		})
		return c.JSON(toResponse(saved))
	}
}

// DELETE /api/tours/:id
func DeleteTourHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t, err := loadTour(database.DB, c.Params("id"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Tur bulunamadı")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tur okunamadı")
		}

		if err := deleteTour(database.DB, t); err != nil {
			return saveError(err, "Tur silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityTour,
			EntityID:    t.ID,
			Action:      models.AuditActionDelete,
			Description: "Tur satışı silindi: " + t.SerialNumber,
			Before:      toResponse(t),
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
