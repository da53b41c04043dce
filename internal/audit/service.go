package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"acente-backend/internal/auth"
	"acente-backend/internal/database"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Denetlenen kayıt tipleri
const (
	EntityLedgerEntry  = "ledger_entry"
	EntityTour         = "tour"
	EntityCustomer     = "customer"
	EntitySupplier     = "supplier"
	EntitySupplierDebt = "supplier_debt"
	EntityImport       = "import"
)

var (
	ErrAlreadyUndone = errors.New("bu işlem zaten geri alınmış")
	ErrNotUndoable   = errors.New("bu kayıt tipi geri alınamaz")
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    string
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func toJSON(v any) string {
	// jsonb kolonu boş string kabul etmez
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func WriteLog(opts LogOptions) error {
	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  toJSON(opts.Before),
		AfterData:   toJSON(opts.After),
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// Record isteği yapan kullanıcı adına log yazar. Log yazılamazsa asıl işlem
// bozulmaz, sadece uyarı düşülür.
func Record(c *fiber.Ctx, opts LogOptions) {
	if userID, name, ok := auth.Session(c); ok {
		opts.UserID = userID
		opts.UserName = name
	}
	if err := WriteLog(opts); err != nil {
		logger.L().WithError(err).
			WithField("entity_type", opts.EntityType).
			WithField("entity_id", opts.EntityID).
			Warn("audit log yazılamadı")
	}
}

// UndoLog bir audit kaydının etkisini geri alır ve bunu yeni bir "undo" kaydı
// olarak işler.
func UndoLog(logID uint, userID uint, userName string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		var log models.AuditLog
		if err := tx.First(&log, "id = ?", logID).Error; err != nil {
			return fmt.Errorf("log bulunamadı: %w", err)
		}
		if log.IsUndone {
			return ErrAlreadyUndone
		}

		var err error
		switch log.Action {
		case models.AuditActionCreate:
			err = deleteEntity(tx, log.EntityType, log.EntityID)
		case models.AuditActionUpdate:
			err = restoreEntity(tx, log.EntityType, log.BeforeData)
		case models.AuditActionDelete:
			err = restoreEntity(tx, log.EntityType, log.BeforeData)
		default:
			return fmt.Errorf("%s işlemi geri alınamaz", log.Action)
		}
		if err != nil {
			return err
		}

		now := time.Now()
		log.IsUndone = true
		log.UndoneBy = &userID
		log.UndoneAt = &now
		if err := tx.Save(&log).Error; err != nil {
			return fmt.Errorf("log güncellenemedi: %w", err)
		}

		undoLog := models.AuditLog{
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Geri alındı: %s", log.Description),
			BeforeData:  log.AfterData,
			AfterData:   log.BeforeData,
			Undone:      true,
		}
		if err := tx.Create(&undoLog).Error; err != nil {
			return fmt.Errorf("undo log kaydedilemedi: %w", err)
		}
		return nil
	})
}

func deleteEntity(tx *gorm.DB, entityType, entityID string) error {
	var model any
	switch entityType {
	case EntityLedgerEntry:
		model = &models.LedgerEntry{}
	case EntityCustomer:
		model = &models.Customer{}
		// müşteri silmedeki gibi turlar müşterisiz kalır
		if err := tx.Model(&models.Tour{}).Where("customer_id = ?", entityID).
			Update("customer_id", nil).Error; err != nil {
			return fmt.Errorf("müşterinin turları ayrılamadı: %w", err)
		}
	case EntitySupplier:
		model = &models.Supplier{}
	default:
		return ErrNotUndoable
	}
	if err := tx.Delete(model, "id = ?", entityID).Error; err != nil {
		return fmt.Errorf("kayıt silinemedi: %w", err)
	}
	return nil
}

// restoreEntity kaydın JSON halini aynı ID ile geri yazar; kayıt silinmişse
// yeniden oluşur, duruyorsa üzerine yazılır.
func restoreEntity(tx *gorm.DB, entityType, dataJSON string) error {
	var model any
	switch entityType {
	case EntityLedgerEntry:
		model = &models.LedgerEntry{}
	case EntityCustomer:
		model = &models.Customer{}
	case EntitySupplier:
		model = &models.Supplier{}
	default:
		return ErrNotUndoable
	}

	if err := json.Unmarshal([]byte(dataJSON), model); err != nil {
		return fmt.Errorf("kayıt verisi çözülemedi: %w", err)
	}
	if err := tx.Save(model).Error; err != nil {
		return fmt.Errorf("kayıt geri yüklenemedi: %w", err)
	}
	return nil
}
