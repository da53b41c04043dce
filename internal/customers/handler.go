package customers

import (
	"errors"
	"strings"

	"acente-backend/internal/audit"
	"acente-backend/internal/database"
	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	IDNumber string `json:"id_number"`
	Address  string `json:"address"`
	Notes    string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	IDNumber *string `json:"id_number"`
	Address  *string `json:"address"`
	Notes    *string `json:"notes"`
}

// CustomerTour müşteri detayında gösterilen tur özeti
type CustomerTour struct {
	ID            string               `json:"id"`
	SerialNumber  string               `json:"serial_number"`
	TourName      string               `json:"tour_name"`
	TourDate      string               `json:"tour_date"`
	Currency      string               `json:"currency"`
	TotalPrice    decimal.Decimal      `json:"total_price"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

type CustomerDetailResponse struct {
	models.Customer
	Tours   []CustomerTour  `json:"tours"`
	Revenue finance.Amounts `json:"revenue"`
}

func trimAll(c *models.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Email = strings.TrimSpace(c.Email)
	c.IDNumber = strings.TrimSpace(c.IDNumber)
	c.Address = strings.TrimSpace(c.Address)
	c.Notes = strings.TrimSpace(c.Notes)
}

// GET /api/customers?q=ali
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR phone LIKE ?", like, like)
		}

		var list []models.Customer
		if err := dbq.Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}
		return c.JSON(list)
	}
}

// GET /api/customers/:id
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var tours []models.Tour
		if err := database.DB.Preload("Activities").
			Where("customer_id = ?", cust.ID).
			Order("tour_date DESC").
			Find(&tours).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşterinin turları okunamadı")
		}

		resp := CustomerDetailResponse{
			Customer: cust,
			Tours:    make([]CustomerTour, 0, len(tours)),
			Revenue:  finance.Amounts{},
		}
		for _, t := range tours {
			resp.Tours = append(resp.Tours, CustomerTour{
				ID:            t.ID,
				SerialNumber:  t.SerialNumber,
				TourName:      t.TourName,
				TourDate:      t.TourDate.Format(finance.DateLayout),
				Currency:      t.Currency,
				TotalPrice:    t.TotalPrice,
				PaymentStatus: t.PaymentStatus,
			})
			for code, v := range finance.RecognizedRevenue(t) {
				resp.Revenue[code] = resp.Revenue[code].Add(v)
			}
		}
		return c.JSON(resp)
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		cust := models.Customer{
			Name:     body.Name,
			Phone:    body.Phone,
			Email:    body.Email,
			IDNumber: body.IDNumber,
			Address:  body.Address,
			Notes:    body.Notes,
		}
		trimAll(&cust)
		if cust.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, ErrNameRequired.Error())
		}

		if err := database.DB.Create(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityCustomer,
			EntityID:    cust.ID,
			Action:      models.AuditActionCreate,
			Description: "Müşteri eklendi: " + cust.Name,
			After:       cust,
		})
		return c.Status(fiber.StatusCreated).JSON(cust)
	}
}

// PUT /api/customers/:id
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cust models.Customer
		if err := database.DB.First(&cust, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		before := cust

		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			cust.Name = *body.Name
		}
		if body.Phone != nil {
			cust.Phone = *body.Phone
		}
		if body.Email != nil {
			cust.Email = *body.Email
		}
		if body.IDNumber != nil {
			cust.IDNumber = *body.IDNumber
		}
		if body.Address != nil {
			cust.Address = *body.Address
		}
		if body.Notes != nil {
			cust.Notes = *body.Notes
		}
		trimAll(&cust)
		if cust.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, ErrNameRequired.Error())
		}

		if err := database.DB.Save(&cust).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityCustomer,
			EntityID:    cust.ID,
			Action:      models.AuditActionUpdate,
			Description: "Müşteri güncellendi: " + cust.Name,
			Before:      before,
			After:       cust,
		})
		return c.JSON(cust)
	}
}

// DELETE /api/customers/:id
// Turlar silinmez, sadece müşteri bağlantısı kaldırılır.
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var cust models.Customer
		err := database.DB.First(&cust, "id = ?", c.Params("id")).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri okunamadı")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&models.Tour{}).Where("customer_id = ?", cust.ID).
				Update("customer_id", nil).Error; err != nil {
				return err
			}
			return tx.Delete(&cust).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityCustomer,
			EntityID:    cust.ID,
			Action:      models.AuditActionDelete,
			Description: "Müşteri silindi: " + cust.Name,
			Before:      cust,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
