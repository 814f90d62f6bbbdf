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

	"github.com/jhoicas/sucursales-api/internal/application/clearing"
	"github.com/jhoicas/sucursales-api/internal/application/inventory"
	"github.com/jhoicas/sucursales-api/internal/application/transfer"
	"github.com/jhoicas/sucursales-api/internal/domain/access"
	"github.com/jhoicas/sucursales-api/internal/domain/repository"
	infraexport "github.com/jhoicas/sucursales-api/internal/infrastructure/export"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/sucursales-api/internal/infrastructure/pdf"
	"github.com/jhoicas/sucursales-api/internal/infrastructure/postgres"
	infrastorage "github.com/jhoicas/sucursales-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/sucursales-api/internal/interfaces/http"
	"github.com/jhoicas/sucursales-api/pkg/config"
	"github.com/jhoicas/sucursales-api/pkg/logger"
)

// txRunner reúne los puertos transaccionales que implementan postgres y memory.
type txRunner interface {
	clearing.TxRunner
	transfer.TxRunner
	inventory.TxRunner
}

// repos adaptadores elegidos según DB_DRIVER.
type repos struct {
	tx          txRunner
	branches    repository.BranchRepository
	products    repository.ProductRepository
	settlements repository.SettlementRepository
	transfers   repository.StockTransferRepository
	entries     repository.StockEntryRepository
	modules     repository.ModuleRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	switch cfg.DB.Driver {
	case "memory":
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		memory.SeedDemo(store)
		log.Info().
			Str("branch_a", memory.DemoBranchCentro).
			Str("branch_b", memory.DemoBranchNorte).
			Msg("datos de demostración cargados")
		r = repos{
			tx:          memory.NewTxRunner(store),
			branches:    store.Branches(),
			products:    store.Products(),
			settlements: store.Settlements(),
			transfers:   store.Transfers(),
			entries:     store.StockEntries(),
			modules:     store.Modules(),
		}
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		r = repos{
			tx:          postgres.NewTxRunner(pool),
			branches:    postgres.NewBranchRepository(pool),
			products:    postgres.NewProductRepository(pool),
			settlements: postgres.NewSettlementRepository(pool),
			transfers:   postgres.NewStockTransferRepository(pool),
			entries:     postgres.NewStockEntryRepository(pool),
			modules:     postgres.NewModuleRepository(pool),
		}
	}

	// Evidencia fotográfica: opcional, solo si hay endpoint MinIO configurado.
	var photos transfer.PhotoStore
	if cfg.Storage.Enabled() {
		store, err := infrastorage.NewMinioPhotoStore(ctx, cfg.Storage, log)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de fotos")
		}
		photos = store
	} else {
		log.Info().Msg("MINIO_ENDPOINT vacío: subida de fotos deshabilitada")
	}

	policy := access.NewPolicy(r.modules)
	balanceUC := clearing.NewBalanceUseCase(policy, r.tx, r.branches, infraexport.NewExcelBalanceExporter())
	settlementUC := clearing.NewSettlementUseCase(policy, r.tx, r.settlements, r.branches, log)
	transferUC := transfer.NewUseCase(
		policy, r.tx, r.transfers, r.branches, r.products,
		infrapdf.NewMarotoVoucherGenerator(), photos,
		transfer.Options{
			AllowNegativeStock: cfg.Transfer.NegativeStock == config.NegativeStockAllow,
			MinJustification:   cfg.Transfer.MinJustificationSize,
		},
		log,
	)
	stockEntryUC := inventory.NewStockEntryUseCase(policy, r.tx, r.entries, r.branches, r.products, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 * 1024 * 1024, // fotos de hasta 10 MB + multipart
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sucursales API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BalanceUC:    balanceUC,
		SettlementUC: settlementUC,
		TransferUC:   transferUC,
		StockEntryUC: stockEntryUC,
		Modules:      r.modules,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log,
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
