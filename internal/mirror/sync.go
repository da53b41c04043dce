package mirror

import (
	"context"
	"errors"
	"fmt"
	"time"

	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"gorm.io/gorm"
)

// Stats koleksiyon başına yazılan belge sayısı
type Stats struct {
	Tours     int64
	Ledger    int64
	Customers int64
}

// Sync tüm turları, kayıtları ve müşterileri hedefe yazar. Bir koleksiyondaki
// hata diğerlerini durdurmaz; hatalar birleştirilip döner.
func Sync(ctx context.Context, db *gorm.DB, sink Sink) (Stats, error) {
	var (
		stats Stats
		errs  []error
	)

	var tours []models.Tour
	err := db.
		Preload("Expenses", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("Activities", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Find(&tours).Error
	if err != nil {
		errs = append(errs, fmt.Errorf("turlar okunamadı: %w", err))
	} else {
		docs := make([]bson.M, 0, len(tours))
		for _, t := range tours {
			docs = append(docs, tourDocument(t))
		}
		stats.Tours, err = sink.Upsert(ctx, CollectionTours, docs)
		errs = append(errs, err)
	}

	var entries []models.LedgerEntry
	if err := db.Find(&entries).Error; err != nil {
		errs = append(errs, fmt.Errorf("kayıtlar okunamadı: %w", err))
	} else {
		docs := make([]bson.M, 0, len(entries))
		for _, e := range entries {
			docs = append(docs, entryDocument(e))
		}
		stats.Ledger, err = sink.Upsert(ctx, CollectionLedger, docs)
		errs = append(errs, err)
	}

	var customers []models.Customer
	if err := db.Find(&customers).Error; err != nil {
		errs = append(errs, fmt.Errorf("müşteriler okunamadı: %w", err))
	} else {
		docs := make([]bson.M, 0, len(customers))
		for _, c := range customers {
			docs = append(docs, customerDocument(c))
		}
		stats.Customers, err = sink.Upsert(ctx, CollectionCustomers, docs)
		errs = append(errs, err)
	}

	return stats, errors.Join(errs...)
}

// Schedule kopyalama işini cron'a ekler. Hatalar sadece loglanır.
func Schedule(c *cron.Cron, spec string, db *gorm.DB, sink Sink) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		stats, err := Sync(ctx, db, sink)
		log := logger.L().WithFields(logrus.Fields{
			"tours":     stats.Tours,
			"ledger":    stats.Ledger,
			"customers": stats.Customers,
		})
		if err != nil {
			log.WithError(err).Warn("mongo kopyası kısmen güncellenemedi")
			return
		}
		log.Info("mongo kopyası güncellendi")
	})
}
