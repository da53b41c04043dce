package config

import (
	"errors"
	"io/fs"

	"acente-backend/internal/logger"

	"github.com/spf13/viper"
)

const defaultDSN = "host=localhost user=postgres password=postgres dbname=acente port=5432 sslmode=disable"

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	LogLevel    string

	// İlk açılışta oluşturulacak yönetici
	AdminEmail    string
	AdminPassword string

	ExchangeRateURL  string
	ExchangeRateCron string

	// Boşsa MongoDB aynalama kapalı
	MongoURI    string
	MongoDBName string
	MirrorCron  string

	FeedPageSize int
}

func Load() *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DATABASE_DSN", defaultDSN)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("EXCHANGE_RATE_URL", "")
	v.SetDefault("EXCHANGE_RATE_CRON", "0 */30 * * * *")
	v.SetDefault("MONGO_DB_NAME", "acente")
	v.SetDefault("MIRROR_CRON", "0 0 3 * * *")
	v.SetDefault("FEED_PAGE_SIZE", 10)

	// .env yoksa sadece ortam değişkenleri kullanılır
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			logger.L().Warnf(".env okunamadı: %v", err)
		}
	}

	cfg := &Config{
		HTTPPort:         v.GetString("HTTP_PORT"),
		DatabaseDSN:      v.GetString("DATABASE_DSN"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		CORSOrigins:      v.GetString("CORS_ALLOWED_ORIGINS"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		AdminEmail:       v.GetString("ADMIN_EMAIL"),
		AdminPassword:    v.GetString("ADMIN_PASSWORD"),
		ExchangeRateURL:  v.GetString("EXCHANGE_RATE_URL"),
		ExchangeRateCron: v.GetString("EXCHANGE_RATE_CRON"),
		MongoURI:         v.GetString("MONGO_URI"),
		MongoDBName:      v.GetString("MONGO_DB_NAME"),
		MirrorCron:       v.GetString("MIRROR_CRON"),
		FeedPageSize:     v.GetInt("FEED_PAGE_SIZE"),
	}

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		logger.L().Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		logger.L().Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DatabaseDSN == defaultDSN {
		logger.L().Warn("DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		logger.L().Warn("CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}
	if cfg.FeedPageSize <= 0 {
		cfg.FeedPageSize = 10
	}

	return cfg
}
