package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"acente-backend/internal/audit"
	"acente-backend/internal/auth"
	"acente-backend/internal/config"
	"acente-backend/internal/customers"
	"acente-backend/internal/database"
	"acente-backend/internal/exchange"
	"acente-backend/internal/importer"
	"acente-backend/internal/ledger"
	"acente-backend/internal/logger"
	"acente-backend/internal/mirror"
	"acente-backend/internal/models"
	"acente-backend/internal/reports"
	"acente-backend/internal/suppliers"
	"acente-backend/internal/tours"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	database.Init(cfg)
	if err := database.SeedAdmin(database.DB, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.L().Fatalf("Yönetici oluşturulamadı: %v", err)
	}

	// Zamanlanmış işler
	scheduler := cron.New(cron.WithSeconds())

	// nil kalırsa elle yenileme 503 döner
	var rateSource exchange.Fetcher
	if cfg.ExchangeRateURL != "" {
		rateSource = exchange.NewClient(cfg.ExchangeRateURL)
		if _, err := exchange.Schedule(scheduler, cfg.ExchangeRateCron, database.DB, rateSource); err != nil {
			logger.L().Fatalf("Kur zamanlaması geçersiz: %v", err)
		}
	} else {
		logger.L().Warn("EXCHANGE_RATE_URL tanımlı değil, kurlar güncellenmeyecek")
	}

	var mongoStore *mirror.Store
	if cfg.MongoURI != "" {
		store, err := mirror.Connect(context.Background(), cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			// kopya olmadan da çalışılır
			logger.L().WithError(err).Warn("MongoDB'ye bağlanılamadı, kopyalama kapalı")
		} else {
			mongoStore = store
			if _, err := mirror.Schedule(scheduler, cfg.MirrorCron, database.DB, store); err != nil {
				logger.L().Fatalf("Kopyalama zamanlaması geçersiz: %v", err)
			}
		}
	}

	scheduler.Start()

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // yedek aktarımı için
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var e *fiber.Error
			if errors.As(err, &e) {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			logger.L().WithError(err).WithField("path", c.Path()).Error("beklenmeyen hata")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins virgülle ayrılmış gelir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/password", auth.ChangePasswordHandler())

	// Yönetici route'ları
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	adminRoutes.Get("/users", auth.ListUsersHandler())
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Post("/users/:id/reset-password", auth.ResetPasswordHandler())
	adminRoutes.Post("/import", importer.ImportHandler())

	// Gelir/gider
	protected.Get("/ledger", ledger.ListEntriesHandler())
	protected.Post("/ledger", ledger.CreateEntryHandler())
	protected.Get("/ledger/:id", ledger.GetEntryHandler())
	protected.Put("/ledger/:id", ledger.UpdateEntryHandler())
	protected.Delete("/ledger/:id", ledger.DeleteEntryHandler())

	// Turlar
	protected.Get("/tours", tours.ListToursHandler())
	protected.Post("/tours", tours.CreateTourHandler())
	protected.Get("/tours/:id", tours.GetTourHandler())
	protected.Put("/tours/:id", tours.UpdateTourHandler())
	protected.Delete("/tours/:id", tours.DeleteTourHandler())

	// Müşteriler
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Post("/customers", customers.CreateCustomerHandler())
	protected.Get("/customers/:id", customers.GetCustomerHandler())
	protected.Put("/customers/:id", customers.UpdateCustomerHandler())
	protected.Delete("/customers/:id", customers.DeleteCustomerHandler())

	// Tedarikçiler ve borçlar
	protected.Get("/suppliers", suppliers.ListSuppliersHandler())
	protected.Post("/suppliers", suppliers.CreateSupplierHandler())
	protected.Put("/suppliers/:id", suppliers.UpdateSupplierHandler())
	protected.Delete("/suppliers/:id", suppliers.DeleteSupplierHandler())

	protected.Get("/supplier-debts/balance", suppliers.BalanceHandler())
	protected.Get("/supplier-debts", suppliers.ListDebtsHandler())
	protected.Post("/supplier-debts", suppliers.CreateDebtHandler())
	protected.Delete("/supplier-debts/:id", suppliers.DeleteDebtHandler())
	protected.Post("/supplier-debts/:id/payments", suppliers.CreatePaymentHandler())
	protected.Delete("/supplier-debts/:id/payments/:payment_id", suppliers.DeletePaymentHandler())

	// Raporlar
	protected.Get("/reports/summary", reports.SummaryHandler())
	protected.Get("/reports/feed", reports.FeedHandler(cfg.FeedPageSize))
	protected.Get("/reports/customers", reports.CustomersHandler())
	protected.Get("/reports/categories", reports.CategoriesHandler())
	protected.Get("/reports/chart", reports.ChartHandler())
	protected.Get("/reports/export.xlsx", reports.ExportHandler())

	// Kurlar
	protected.Get("/exchange-rates", exchange.ListRatesHandler())
	protected.Post("/exchange-rates/refresh", exchange.RefreshHandler(rateSource))
	protected.Get("/exchange-rates/convert", exchange.ConvertHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoAuditLogHandler())

	go func() {
		logger.L().Infof("Server çalışıyor port: %s", cfg.HTTPPort)
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
			logger.L().Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.L().Info("Kapatılıyor...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.L().WithError(err).Warn("HTTP sunucusu düzgün kapanmadı")
	}
	<-scheduler.Stop().Done()
	if err := mongoStore.Close(ctx); err != nil {
		logger.L().WithError(err).Warn("MongoDB bağlantısı kapatılamadı")
	}
}
