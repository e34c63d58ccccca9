package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"

	"pdfshelf/internal/config"
	"pdfshelf/internal/database"
	"pdfshelf/internal/database/migration"
	handlers "pdfshelf/internal/http/handler"
	"pdfshelf/internal/http/middleware"
	"pdfshelf/internal/otel"
	"pdfshelf/internal/pdf"
	"pdfshelf/internal/repository"
	"pdfshelf/internal/repository/memory"
	"pdfshelf/internal/repository/postgres"
	"pdfshelf/internal/service"
	"pdfshelf/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()

	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Select the entity store. The default is the in-memory store with the
	// fixed default categories; postgres is the durable alternative behind
	// the same repository contract.
	var (
		db      *sql.DB
		docRepo repository.DocumentRepository
		catRepo repository.CategoryRepository
	)
	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err = database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		docRepo = postgres.NewDocumentPostgres(db)
		catRepo = postgres.NewCategoryPostgres(db)
	case config.StoreMemory:
		docRepo = memory.NewDocumentStore()
		catRepo = memory.NewCategoryStore()
	default:
		log.Fatalf("unknown store driver %q", cfg.StoreDriver)
	}

	// Select the blob backend for the PDF bytes.
	var blobs storage.Storage
	switch cfg.BlobDriver {
	case config.BlobMinIO:
		blobs, err = storage.NewMinIO(cfg.MinIO)
	case config.BlobFilesystem:
		blobs, err = storage.NewFilesystem(cfg.UploadDir)
	default:
		log.Fatalf("unknown storage driver %q", cfg.BlobDriver)
	}
	if err != nil {
		log.Fatalf("failed to initialize blob storage: %v", err)
	}

	docSvc := service.NewDocumentService(blobs, docRepo, pdf.NewParser())
	catSvc := service.NewCategoryService(catRepo)

	app := fiber.New(fiber.Config{
		BodyLimit:    service.MaxUploadSize + 1<<20, // headroom over the upload ceiling
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Global middleware: request ids first so the logger and error payloads
	// can pick them up.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMW, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())

	handlers.RegisterRoutes(app, db, docSvc, catSvc)

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
