package importer

import (
	"fmt"

	"acente-backend/internal/audit"
	"acente-backend/internal/database"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// POST /api/admin/import
// Gövde eski uygulamanın JSON yedeğidir.
func ImportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Backup
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Yedek dosyası okunamadı")
		}
		if len(body.Customers)+len(body.Tours)+len(body.Transactions) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Yedekte aktarılacak kayıt yok")
		}

		res, err := Import(database.DB, body)
		if err != nil {
			logger.L().WithError(err).Error("yedek aktarımı başarısız")
			return fiber.NewError(fiber.StatusInternalServerError, "Yedek aktarılamadı")
		}

		logger.L().WithFields(logrus.Fields{
			"customers": res.Customers,
			"tours":     res.Tours,
			"entries":   res.Entries,
			"rejected":  len(res.Rejected),
		}).Info("yedek aktarıldı")

		audit.Record(c, audit.LogOptions{
			EntityType:  audit.EntityImport,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Yedek aktarıldı: %d müşteri, %d tur, %d kayıt", res.Customers, res.Tours, res.Entries),
			After:       res,
		})

		return c.JSON(res)
	}
}
