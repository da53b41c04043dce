package database

import (
	"fmt"
	"time"

	"acente-backend/internal/config"
	"acente-backend/internal/logger"
	"acente-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	gormLog := gormlogger.New(
		logger.L(),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{Logger: gormLog})
	if err != nil {
		logger.L().Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	if err := Migrate(db); err != nil {
		logger.L().Fatalf("Migration hatası: %v", err)
	}

	DB = db
	logger.L().Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate tabloları oluşturur ve eski verideki küçük harfli para birimlerini düzeltir.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Tour{},
		&models.TourExpense{},
		&models.TourActivity{},
		&models.LedgerEntry{},
		&models.Supplier{},
		&models.SupplierDebt{},
		&models.SupplierPayment{},
		&models.ExchangeRate{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	// İçe aktarılan eski kayıtlarda "try", "usd" gibi kodlar olabilir
	for _, table := range []string{"ledger_entries", "tours", "tour_expenses", "supplier_debts"} {
		res := db.Exec(fmt.Sprintf("UPDATE %s SET currency = UPPER(currency) WHERE currency <> UPPER(currency)", table))
		if res.Error != nil {
			return fmt.Errorf("%s para birimi düzeltilemedi: %w", table, res.Error)
		}
		if res.RowsAffected > 0 {
			logger.L().Infof("%s: %d kaydın para birimi büyük harfe çevrildi", table, res.RowsAffected)
		}
	}
	return nil
}
