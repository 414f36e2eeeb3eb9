package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/notblessy/invoicegen/config"
	"github.com/notblessy/invoicegen/db"
	"github.com/notblessy/invoicegen/handler"
	"github.com/notblessy/invoicegen/metrics"
	"github.com/notblessy/invoicegen/repository"
	"github.com/notblessy/invoicegen/storage"
	"github.com/notblessy/invoicegen/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("cannot load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.ConfigureLogger(); err != nil {
		logrus.Fatalf("Failed to configure logger: %v", err)
	}

	if err := metrics.Setup(nil); err != nil {
		logrus.Fatalf("Failed to register metrics: %v", err)
	}

	// Shared context with cancel
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := newStorage(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize %s storage: %v", cfg.StorageDriver, err)
	}
	defer closeStore()

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(store)
	documentRepo := repository.NewDocumentRepository(store)

	pdfRenderer := utils.NewPDFRenderer(utils.PDFOptions{
		Filename:    cfg.PDFFilename,
		Margin:      cfg.PDFMargin,
		Format:      cfg.PDFFormat,
		Orientation: cfg.PDFOrientation,
	})

	// Cloudinary is optional, logo uploads answer 503 without it
	var logoUploader utils.LogoUploader
	cloudinaryService, err := utils.NewCloudinaryService(cfg.CloudinaryURL)
	if err != nil {
		logrus.Warnf("Cloudinary not configured: %v. Logo uploads will not work.", err)
	} else {
		logoUploader = cloudinaryService
	}

	// Initialize Echo
	e := echo.New()
	e.HideBanner = cfg.IsProduction()

	// Setup routes
	handler.SetupRoutes(e, invoiceRepo, documentRepo, pdfRenderer, logoUploader)

	wg := &sync.WaitGroup{}

	// HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Infof("HTTP server starting on %s (storage: %s)", cfg.AppAddr, cfg.StorageDriver)

		if err := e.Start(cfg.AppAddr); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("HTTP server error: %v", err)
		}
	}()

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutdown signal received")

	// Initiate graceful shutdown
	cancel()
	ctxTimeout, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := e.Shutdown(ctxTimeout); err != nil {
		logrus.Errorf("Server shutdown error: %v", err)
	}

	wg.Wait()
	logrus.Info("All services shut down gracefully")
}

// newStorage builds the configured key-value substrate and a func releasing its connections.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	noop := func() {}

	switch cfg.StorageDriver {
	case config.StorageFile:
		store, err := storage.NewFileStorage(cfg.StorageDir)
		return store, noop, err

	case config.StorageRedis:
		client, err := db.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return storage.NewRedisStorage(client, cfg.RedisPrefix), func() {
			if err := client.Close(); err != nil {
				logrus.Warnf("Failed to close redis client: %v", err)
			}
		}, nil

	case config.StoragePostgres:
		postgres, err := db.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}

		// Auto-migrate models
		if err := postgres.AutoMigrate(&storage.KeyValue{}); err != nil {
			return nil, noop, err
		}

		return storage.NewPostgresStorage(postgres), func() {
			sqlDB, err := postgres.DB()
			if err != nil {
				return
			}
			if err := sqlDB.Close(); err != nil {
				logrus.Warnf("Failed to close postgres connection: %v", err)
			}
		}, nil
	}

	return storage.NewMemoryStorage(), noop, nil
}
