package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobportal_backend/database"
	"jobportal_backend/internal/auth"
	"jobportal_backend/internal/config"
	"jobportal_backend/internal/gateway"
	"jobportal_backend/internal/handlers"
	"jobportal_backend/internal/logger"
	"jobportal_backend/internal/middleware"
	"jobportal_backend/internal/models"
	"jobportal_backend/internal/repositories"
	"jobportal_backend/internal/routes"
	"jobportal_backend/internal/services"
	"jobportal_backend/internal/storage"
	"jobportal_backend/internal/validator"
	"jobportal_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Topology определяет, где проходит граница доверия для личности
type Topology string

const (
	// TopologyMonolith - один процесс, токен проверяется в нем
	TopologyMonolith Topology = "monolith"
	// TopologyService - backend за gateway, личность приходит в заголовках
	TopologyService Topology = "service"
)

// Run запускает монолит (cmd/web)
func Run() {
	runBackend(TopologyMonolith)
}

// RunService запускает backend-сервис за gateway (cmd/jobsvc)
func RunService() {
	runBackend(TopologyService)
}

func runBackend(topology Topology) {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env == "development")
	logger.Info("Logger initialized", "env", cfg.Server.Env, "topology", topology)

	gormDB, err := Bootstrap(cfg)
	if err != nil {
		logger.Fatal("Failed to prepare database", "error", err)
	}

	ginRouter, err := SetupRouter(cfg, gormDB, topology)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := cfg.Address()
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// RunGateway запускает edge-прокси (cmd/gateway)
func RunGateway() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)

	if cfg.Gateway.Upstream == "" {
		logger.Fatal("gateway.upstream (GATEWAY_UPSTREAM) is required")
	}
	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine, err := gateway.NewEngine(gateway.Options{
		Upstream:       cfg.Gateway.Upstream,
		Propagator:     newPropagator(cfg),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	if err != nil {
		logger.Fatal("Failed to set up gateway", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Gateway.Port)
	logger.Info(fmt.Sprintf("🚀 Gateway starting on %s", address), "upstream", cfg.Gateway.Upstream)
	if err := engine.Run(address); err != nil {
		logger.Fatal("Gateway startup error", "error", err)
	}
}

// Bootstrap открывает базу, применяет миграции и создает первого администратора
func Bootstrap(cfg *config.Config) (*gorm.DB, error) {
	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database unavailable: %w", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		return nil, fmt.Errorf("failed to seed first admin user: %w", err)
	}
	return gormDB, nil
}

// SetupRouter собирает сервисы, хэндлеры и маршруты поверх gormDB
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, topology Topology) (*gin.Engine, error) {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	codec := newTokenCodec(cfg)

	// 1. Сервисы
	serviceContainer := initializeServices(cfg, codec, storageInstance)

	// 2. Хэндлеры
	appHandlers := initializeHandlers(cfg, serviceContainer, codec)

	// 3. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)

	// 4. Граница доверия и лимиты
	var identity gin.HandlerFunc
	switch topology {
	case TopologyService:
		identity = middleware.TrustedIdentity(auth.DefaultPublicRoutes())
	case TopologyMonolith, "":
		identity = middleware.Authenticate(newPropagator(cfg))
	default:
		return nil, fmt.Errorf("unknown topology: %s", topology)
	}

	limiter := newLimiter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, identity, routes.Guards{
		Login: middleware.RateLimit(limiter, middleware.ByClientIP("login"), cfg.RateLimit.LoginPerMinute, time.Minute),
		Apply: middleware.RateLimit(limiter, middleware.BySubject("apply"), cfg.RateLimit.ApplyPerMinute, time.Minute),
	})

	return ginRouter, nil
}

func initializeServices(cfg *config.Config, codec *auth.TokenCodec, storageInstance storage.Storage) *services.ServiceContainer {
	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	jobRepo := repositories.NewJobRepository()
	applicationRepo := repositories.NewApplicationRepository()

	// --- Сервисы ---
	uploadConfig := services.GetDefaultUploadConfig()
	uploadConfig.MaxFileSize = cfg.Upload.MaxSize
	uploadService := services.NewUploadService(storageInstance, uploadConfig)
	coordinator := services.NewLifecycleCoordinator(applicationRepo)

	return &services.ServiceContainer{
		AuthService:          services.NewAuthService(userRepo, codec, cfg.Auth.AdminCode),
		UserService:          services.NewUserService(userRepo, uploadService),
		JobService:           services.NewJobService(jobRepo, coordinator),
		ApplicationService:   services.NewApplicationService(applicationRepo, jobRepo, userRepo, uploadService),
		AdminService:         services.NewAdminService(userRepo, jobRepo),
		UploadService:        uploadService,
		LifecycleCoordinator: coordinator,
	}
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer, codec *auth.TokenCodec) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		HealthHandler: handlers.NewHealthHandler(baseHandler),
		AuthHandler: handlers.NewAuthHandler(baseHandler, services.AuthService, handlers.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.SecureCookie,
			TTL:    codec.TTL(),
		}),
		JobHandler:         handlers.NewJobHandler(baseHandler, services.JobService),
		ApplicationHandler: handlers.NewApplicationHandler(baseHandler, services.ApplicationService),
		UserHandler:        handlers.NewUserHandler(baseHandler, services.UserService),
		AdminHandler:       handlers.NewAdminHandler(baseHandler, services.AdminService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = cfg.Upload.MaxSize + 1<<20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func newTokenCodec(cfg *config.Config) *auth.TokenCodec {
	return auth.NewTokenCodec(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
}

func newPropagator(cfg *config.Config) *auth.Propagator {
	source := auth.SourcesByName(cfg.Auth.TokenSources, cfg.Auth.CookieName)
	return auth.NewPropagator(newTokenCodec(cfg), source, auth.DefaultPublicRoutes())
}

// newLimiter: redis, если задан адрес и он отвечает; иначе лимит в памяти процесса
func newLimiter(cfg *config.Config) middleware.Limiter {
	if cfg.Redis.Addr == "" {
		return middleware.NewRateLimiter()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory rate limiter", "addr", cfg.Redis.Addr, "error", err)
		_ = client.Close()
		return middleware.NewRateLimiter()
	}

	logger.Info("Redis rate limiter enabled", "addr", cfg.Redis.Addr)
	return middleware.NewRedisLimiter(client)
}

// seedFirstAdmin создает администратора из FIRST_ADMIN_EMAIL/FIRST_ADMIN_PASSWORD, если его еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	_, err := userRepo.FindByEmail(tx, adminEmail)
	if err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Username:     "admin",
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleAdmin,
	}
	if err := userRepo.Create(tx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)
	return tx.Commit().Error
}
