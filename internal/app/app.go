package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"markethub_backend/internal/config"
	"markethub_backend/internal/email"
	"markethub_backend/internal/geocode"
	"markethub_backend/internal/handlers"
	"markethub_backend/internal/identity"
	"markethub_backend/internal/logger"
	"markethub_backend/internal/middleware"
	"markethub_backend/internal/models"
	"markethub_backend/internal/repositories"
	"markethub_backend/internal/routes"
	"markethub_backend/internal/services"
	"markethub_backend/internal/storage"
	"markethub_backend/internal/validator"
	"markethub_backend/internal/workers"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}
	logger.Info("Migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := newEmailDispatcher(cfg)
	dispatcher.Start(ctx)
	defer dispatcher.Close()

	ginRouter, uploadService := SetupRouter(ctx, cfg, gormDB, dispatcher)

	worker := workers.NewOrphanWorker(uploadService, gormDB, time.Hour)
	go worker.Run(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    address,
		Handler: ginRouter,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// AutoMigrate применяет схему всех доменных моделей
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Market{},
		&models.MarketImage{},
		&models.Business{},
		&models.BusinessImage{},
		&models.Application{},
		&models.Review{},
		&models.ReviewImage{},
		&models.MarketAttendance{},
		&models.MarketFavorite{},
		&models.PendingImage{},
	)
}

func SetupRouter(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, dispatcher *email.Dispatcher) (*gin.Engine, services.UploadService) {
	storageInstance, err := storage.NewStorage(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	verifier, err := identity.NewTokenVerifier(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize token verifier", "error", err)
	}
	directory := identity.NewSupabaseClient(cfg)

	var geocoder geocode.Geocoder
	if cfg.Geocode.APIKey != "" {
		geocoder = geocode.NewPlacesClient(cfg.Geocode.APIKey)
	} else {
		logger.Warn("Geocoding disabled: no API key configured")
	}

	serviceContainer := initializeServices(cfg, storageInstance, dispatcher, directory, geocoder)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, middleware.AuthMiddleware(verifier))

	return ginRouter, serviceContainer.UploadService
}

func initializeServices(
	cfg *config.Config,
	storageInstance storage.Storage,
	dispatcher *email.Dispatcher,
	directory identity.Directory,
	geocoder geocode.Geocoder,
) *services.ServiceContainer {
	marketRepo := repositories.NewMarketRepository()
	businessRepo := repositories.NewBusinessRepository()
	applicationRepo := repositories.NewApplicationRepository()
	reviewRepo := repositories.NewReviewRepository()
	attendanceRepo := repositories.NewAttendanceRepository()
	favoriteRepo := repositories.NewFavoriteRepository()
	uploadRepo := repositories.NewUploadRepository()

	templates := email.NewTemplateManager()
	applicationEmails := services.NewApplicationEmailService(dispatcher, templates, directory)

	uploadService := services.NewUploadService(uploadRepo, storageInstance, cfg)
	marketService := services.NewMarketService(marketRepo, applicationRepo, businessRepo, reviewRepo, attendanceRepo, favoriteRepo, uploadRepo, geocoder)
	businessService := services.NewBusinessService(businessRepo, reviewRepo, uploadRepo)
	applicationService := services.NewApplicationService(applicationRepo, marketRepo, businessRepo, reviewRepo, applicationEmails)
	reviewService := services.NewReviewService(reviewRepo, marketRepo, businessRepo, uploadRepo, directory)
	attendanceService := services.NewAttendanceService(attendanceRepo, marketRepo, reviewRepo)
	favoriteService := services.NewFavoriteService(favoriteRepo, marketRepo, reviewRepo)
	dashboardService := services.NewDashboardService(businessRepo, marketRepo, attendanceRepo, reviewRepo, applicationRepo)

	var tokens *identity.SupabaseClient
	if client, ok := directory.(*identity.SupabaseClient); ok {
		tokens = client
	}
	authService := services.NewAuthService(directory, tokens)

	return &services.ServiceContainer{
		AuthService:        authService,
		MarketService:      marketService,
		BusinessService:    businessService,
		ApplicationService: applicationService,
		ReviewService:      reviewService,
		AttendanceService:  attendanceService,
		FavoriteService:    favoriteService,
		DashboardService:   dashboardService,
		UploadService:      uploadService,
	}
}

func initializeHandlers(cfg *config.Config, container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, container.AuthService, cfg),
		MarketHandler:      handlers.NewMarketHandler(baseHandler, container.MarketService),
		BusinessHandler:    handlers.NewBusinessHandler(baseHandler, container.BusinessService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, container.ApplicationService),
		ReviewHandler:      handlers.NewReviewHandler(baseHandler, container.ReviewService),
		AttendanceHandler:  handlers.NewAttendanceHandler(baseHandler, container.AttendanceService),
		FavoriteHandler:    handlers.NewFavoriteHandler(baseHandler, container.FavoriteService),
		DashboardHandler:   handlers.NewDashboardHandler(baseHandler, container.DashboardService),
		UploadHandler:      handlers.NewUploadHandler(baseHandler, container.UploadService),
	}
}

func newEmailDispatcher(cfg *config.Config) *email.Dispatcher {
	var sender email.Sender
	if cfg.Email.Enabled && cfg.Email.SMTPHost != "" {
		sender = email.NewSMTPSender(cfg)
		logger.Info("Email sender initialized", "host", cfg.Email.SMTPHost)
	} else {
		sender = email.NoopSender{}
		logger.Warn("Email disabled, notifications will be dropped")
	}
	return email.NewDispatcher(sender, 64)
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
