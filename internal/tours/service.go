package tours

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"acente-backend/internal/customers"
	"acente-backend/internal/finance"
	"acente-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrCustomerNotFound = errors.New("müşteri bulunamadı")

// newSerial test içinde sabitlenebilir.
var newSerial = func() string {
	return serialAt(time.Now())
}

func preloadOrdered(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Activities", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func loadTour(db *gorm.DB, id string) (models.Tour, error) {
	var t models.Tour
	err := preloadOrdered(db).First(&t, "id = ?", id).Error
	return t, err
}

// linkCustomer turu müşteri kaydına bağlar. customer_id verilmemişse müşteri
// ad ya da telefonla bulunur, yoksa oluşturulur.
func linkCustomer(tx *gorm.DB, t *models.Tour, customerID *string) error {
	if customerID != nil && *customerID != "" {
		var c models.Customer
		if err := tx.First(&c, "id = ?", *customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCustomerNotFound
			}
			return fmt.Errorf("müşteri okunamadı: %w", err)
		}
		t.CustomerID = &c.ID
		return nil
	}

	c, _, err := customers.FindOrCreate(tx, t.CustomerName, t.CustomerPhone)
	if err != nil {
		return err
	}
	t.CustomerID = &c.ID
	return nil
}

// syncExpenseEntries turun gider kalemlerinden türetilen "Tur Gideri" kayıtlarını
// silip yeniden oluşturur. Aynı transaction içinde çağrılmalı.
func syncExpenseEntries(tx *gorm.DB, t models.Tour) error {
	if err := deleteDerivedEntries(tx, t.ID); err != nil {
		return err
	}

	entries := make([]models.LedgerEntry, 0, len(t.Expenses))
	for _, e := range t.Expenses {
		if e.Amount.IsZero() {
			continue
		}
		desc := e.Name
		if desc == "" {
			desc = e.Category
		}
		entries = append(entries, models.LedgerEntry{
			Type:          models.EntryTypeExpense,
			Amount:        e.Amount,
			Currency:      e.Currency,
			Category:      models.TourExpenseCategory,
			RelatedTourID: &t.ID,
			Date:          t.TourDate,
			Description:   fmt.Sprintf("%s - %s", t.SerialNumber, desc),
		})
	}
	if len(entries) == 0 {
		return nil
	}
	if err := tx.Create(&entries).Error; err != nil {
		return fmt.Errorf("tur gider kayıtları oluşturulamadı: %w", err)
	}
	return nil
}

func deleteDerivedEntries(tx *gorm.DB, tourID string) error {
	err := tx.Where("related_tour_id = ? AND category = ?", tourID, models.TourExpenseCategory).
		Delete(&models.LedgerEntry{}).Error
	if err != nil {
		return fmt.Errorf("tur gider kayıtları silinemedi: %w", err)
	}
	return nil
}

func replaceChildren(tx *gorm.DB, t *models.Tour) error {
	if err := tx.Where("tour_id = ?", t.ID).Delete(&models.TourExpense{}).Error; err != nil {
		return fmt.Errorf("gider kalemleri silinemedi: %w", err)
	}
	if err := tx.Where("tour_id = ?", t.ID).Delete(&models.TourActivity{}).Error; err != nil {
		return fmt.Errorf("aktiviteler silinemedi: %w", err)
	}
	for i := range t.Expenses {
		t.Expenses[i].ID = 0
		t.Expenses[i].TourID = t.ID
	}
	for i := range t.Activities {
		t.Activities[i].ID = 0
		t.Activities[i].TourID = t.ID
	}
	if len(t.Expenses) > 0 {
		if err := tx.Create(&t.Expenses).Error; err != nil {
			return fmt.Errorf("gider kalemleri kaydedilemedi: %w", err)
		}
	}
	if len(t.Activities) > 0 {
		if err := tx.Create(&t.Activities).Error; err != nil {
			return fmt.Errorf("aktiviteler kaydedilemedi: %w", err)
		}
	}
	return nil
}

// createTour müşteri bağlantısı, seri no ve gider senkronizasyonu ile turu kaydeder.
func createTour(db *gorm.DB, t *models.Tour, customerID *string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := linkCustomer(tx, t, customerID); err != nil {
			return err
		}
		t.SerialNumber = newSerial()
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("tur kaydedilemedi: %w", err)
		}
		return syncExpenseEntries(tx, *t)
	})
}

// updateTour mevcut turun alanlarını, kalemlerini ve türetilmiş kayıtlarını yeniler.
// Seri numarası değişmez.
func updateTour(db *gorm.DB, existing models.Tour, t *models.Tour, customerID *string) error {
	t.ID = existing.ID
	t.SerialNumber = existing.SerialNumber
	t.CreatedAt = existing.CreatedAt

	return db.Transaction(func(tx *gorm.DB) error {
		if err := linkCustomer(tx, t, customerID); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(t).Error; err != nil {
			return fmt.Errorf("tur güncellenemedi: %w", err)
		}
		if err := replaceChildren(tx, t); err != nil {
			return err
		}
		return syncExpenseEntries(tx, *t)
	})
}

// deleteTour turu, kalemlerini ve türetilmiş gider kayıtlarını siler. Tura elle
// bağlanmış diğer gelir/giderler silinmez, bağımsız kayda dönüşür.
func deleteTour(db *gorm.DB, t models.Tour) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := deleteDerivedEntries(tx, t.ID); err != nil {
			return err
		}
		if err := tx.Model(&models.LedgerEntry{}).Where("related_tour_id = ?", t.ID).
			Update("related_tour_id", nil).Error; err != nil {
			return fmt.Errorf("bağlı kayıtlar ayrılamadı: %w", err)
		}
		if err := tx.Where("tour_id = ?", t.ID).Delete(&models.TourExpense{}).Error; err != nil {
			return fmt.Errorf("gider kalemleri silinemedi: %w", err)
		}
		if err := tx.Where("tour_id = ?", t.ID).Delete(&models.TourActivity{}).Error; err != nil {
			return fmt.Errorf("aktiviteler silinemedi: %w", err)
		}
		if err := tx.Delete(&models.Tour{}, "id = ?", t.ID).Error; err != nil {
			return fmt.Errorf("tur silinemedi: %w", err)
		}
		return nil
	})
}

// ImportTour dışarıdan gelen turu kimliği ve seri numarasıyla olduğu gibi yazar,
// varsa üzerine yazar. Seri numarası boşsa yenisi üretilir. Müşteri bağlantısı
// ve türetilmiş gider kayıtları normal kayıttaki gibi kurulur; bilinmeyen
// müşteri kimliği ad/telefon eşleşmesine düşer.
func ImportTour(tx *gorm.DB, t *models.Tour) error {
	err := linkCustomer(tx, t, t.CustomerID)
	if errors.Is(err, ErrCustomerNotFound) {
		err = linkCustomer(tx, t, nil)
	}
	if err != nil {
		return err
	}
	if t.SerialNumber == "" {
		t.SerialNumber = newSerial()
	}
	if t.ID != "" {
		var existing models.Tour
		if err := tx.Select("created_at").Where("id = ?", t.ID).Limit(1).Find(&existing).Error; err != nil {
			return fmt.Errorf("tur okunamadı: %w", err)
		}
		t.CreatedAt = existing.CreatedAt
	}
	if err := tx.Omit(clause.Associations).Save(t).Error; err != nil {
		return fmt.Errorf("tur aktarılamadı: %w", err)
	}
	if err := replaceChildren(tx, t); err != nil {
		return err
	}
	return syncExpenseEntries(tx, *t)
}

func serialAt(now time.Time) string {
	return finance.NewSerialNumber(now, rand.IntN)
}
