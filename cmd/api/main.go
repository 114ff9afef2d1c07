package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	appstock "github.com/velocityfibre/fibreflow-stock/internal/application/stock"
	infracache "github.com/velocityfibre/fibreflow-stock/internal/infrastructure/cache"
	infrapdf "github.com/velocityfibre/fibreflow-stock/internal/infrastructure/pdf"
	"github.com/velocityfibre/fibreflow-stock/internal/infrastructure/postgres"
	httpRouter "github.com/velocityfibre/fibreflow-stock/internal/interfaces/http"
	"github.com/velocityfibre/fibreflow-stock/pkg/config"
	"github.com/velocityfibre/fibreflow-stock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewStockItemRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	allocationRepo := postgres.NewStockAllocationRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Stock.TxMaxRetries)

	// Caché de low stock en Redis (opcional: REDIS_ADDR vacío = sin caché)
	var lowStockCache appstock.LowStockCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, continuando sin caché")
		} else {
			lowStockCache = infracache.NewRedisLowStockCache(
				redisClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		}
	}

	pdfGenerator := infrapdf.NewMarotoReportGenerator()

	// Toda mutación pasa por el runner decorado: un commit invalida la caché
	// para que el reporte de low stock no sirva datos previos al movimiento.
	mutRunner := appstock.NewInvalidatingTxRunner(txRunner, lowStockCache)

	catalogUC := appstock.NewCatalogUseCase(itemRepo, movementRepo, lowStockCache)
	commitUC := appstock.NewCommitMovementUseCase(mutRunner)
	bulkUC := appstock.NewBulkImportUseCase(mutRunner, itemRepo, cfg.Stock.BulkChunkOps)
	summaryUC := appstock.NewSummaryUseCase(movementRepo, pdfGenerator)
	allocationUC := appstock.NewAllocationUseCase(mutRunner, allocationRepo, projectRepo)
	transferUC := appstock.NewTransferUseCase(mutRunner, projectRepo)

	// Alerta diaria de items bajo nivel de reorden (07:00 hora del servidor)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 7 * * *", func() {
		items, err := catalogUC.LowStock(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("alerta de low stock")
			return
		}
		for _, item := range items {
			log.Warn().
				Str("item_code", item.ItemCode).
				Str("name", item.Name).
				Str("current_stock", item.CurrentStock.String()).
				Str("reorder_level", item.ReorderLevel.String()).
				Msg("item bajo nivel de reorden")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("programar alerta de low stock")
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FibreFlow Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:    catalogUC,
		Commit:     commitUC,
		Bulk:       bulkUC,
		Summary:    summaryUC,
		Allocation: allocationUC,
		Transfer:   transferUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
