package app

import (
	"context"
	"errors"
	"fmt"

	"shiftscore_backend/database"
	"shiftscore_backend/internal/auth"
	"shiftscore_backend/internal/config"
	"shiftscore_backend/internal/handlers"
	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/middleware"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/routes"
	"shiftscore_backend/internal/services"
	"shiftscore_backend/internal/utils"
	"shiftscore_backend/internal/validator"
	"shiftscore_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := database.ConnectGorm()
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	startWorkers(workerCtx, gormDB, cfg)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg, gormDB)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, gormDB *gorm.DB) *services.ServiceContainer {
	userRepo := repositories.NewUserRepository()
	subscriptionRepo := repositories.NewSubscriptionRepository()
	facilityRepo := repositories.NewFacilityRepository()
	jobRepo := repositories.NewJobRepository()

	authService := services.NewAuthService(userRepo)
	billingService := services.NewBillingService(gormDB, subscriptionRepo)
	checkoutService := services.NewCheckoutService(userRepo, subscriptionRepo, billingService)
	facilityService := services.NewFacilityService(facilityRepo)
	jobService := services.NewJobService(jobRepo, facilityRepo)
	sullyService := services.NewSullyService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, subscriptionRepo, billingService)

	return &services.ServiceContainer{
		AuthService:     authService,
		BillingService:  billingService,
		CheckoutService: checkoutService,
		FacilityService: facilityService,
		JobService:      jobService,
		SullyService:    sullyService,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:     handlers.NewAuthHandler(baseHandler, services.AuthService),
		BillingHandler:  handlers.NewBillingHandler(baseHandler, services.BillingService, services.CheckoutService),
		FacilityHandler: handlers.NewFacilityHandler(baseHandler, services.FacilityService, services.BillingService),
		JobHandler:      handlers.NewJobHandler(baseHandler, services.JobService, services.BillingService),
		SullyHandler:    handlers.NewSullyHandler(baseHandler, services.SullyService, services.BillingService),
	}
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

func startWorkers(ctx context.Context, gormDB *gorm.DB, cfg *config.Config) {
	subscriptionRepo := repositories.NewSubscriptionRepository()
	userRepo := repositories.NewUserRepository()
	emailSender := utils.NewEmailSender(cfg)

	workers.NewSubscriptionWorker(gormDB, subscriptionRepo, userRepo, emailSender).Start(ctx)
	workers.NewJobWorker(gormDB).Start(ctx)
	logger.Info("Background workers started")
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin credentials not configured. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}
	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
