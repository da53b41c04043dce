package importer

import (
	"fmt"

	"acente-backend/internal/models"
	"acente-backend/internal/tours"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result aktarım özeti. Rejected, çevrilemeyen kayıtların neden atlandığını tutar.
type Result struct {
	Customers      int      `json:"customers"`
	Tours          int      `json:"tours"`
	Entries        int      `json:"entries"`
	SkippedDerived int      `json:"skipped_derived"`
	Rejected       []string `json:"rejected"`
}

// Import yedeği tek transaction içinde yazar. Aynı kimlikli kayıtların üzerine
// yazılır. Tur giderlerinden türemiş eski kayıtlar alınmaz, turlardan yeniden
// üretilir. Bozuk kayıtlar atlanır; veritabanı hatası tüm aktarımı geri alır.
func Import(db *gorm.DB, b Backup) (Result, error) {
	res := Result{Rejected: []string{}}
	reject := func(kind string, i int, err error) {
		res.Rejected = append(res.Rejected, fmt.Sprintf("%s[%d]: %v", kind, i, err))
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, lc := range b.Customers {
			c, err := lc.toModel()
			if err != nil {
				reject("customers", i, err)
				continue
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&c).Error
			if err != nil {
				return fmt.Errorf("müşteri aktarılamadı: %w", err)
			}
			res.Customers++
		}

		for i, lt := range b.Tours {
			t, err := lt.toModel()
			if err != nil {
				reject("tours", i, err)
				continue
			}
			if err := tours.ImportTour(tx, &t); err != nil {
				return err
			}
			res.Tours++
		}

		for i, le := range b.Transactions {
			e, err := le.toModel()
			if err != nil {
				reject("transactions", i, err)
				continue
			}
			if e.IsTourDerived() {
				res.SkippedDerived++
				continue
			}
			if e.RelatedTourID != nil {
				var n int64
				if err := tx.Model(&models.Tour{}).Where("id = ?", *e.RelatedTourID).Count(&n).Error; err != nil {
					return fmt.Errorf("tur kontrol edilemedi: %w", err)
				}
				// turu yedekte olmayan kayıt bağımsız kayıt olarak alınır
				if n == 0 {
					e.RelatedTourID = nil
				}
			}
			err = tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&e).Error
			if err != nil {
				return fmt.Errorf("kayıt aktarılamadı: %w", err)
			}
			res.Entries++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
