package main

import (
	"os"

	"procurement_backend/internal/database"
	"procurement_backend/internal/handler"
	"procurement_backend/internal/middleware"
	"procurement_backend/internal/repository"
	"procurement_backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Procurement API
// @version         1.0
// @description     Office purchase request workflow: bulk requests, catalog, imports and exports.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if err := godotenv.Load("configs/.env"); err != nil {
		logger.Info("no configs/.env file found")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "procurement")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("connected to PostgreSQL")

	// Repositories
	txManager := repository.NewTransactionManager(db)
	officeRepo := repository.NewOfficeRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	itemRepo := repository.NewItemRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	exportRepo := repository.NewExportRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, middleware.GetJWTSecret())
	userService := service.NewUserService(userRepo, officeRepo, authService)
	officeService := service.NewOfficeService(officeRepo)
	itemService := service.NewItemService(itemRepo, categoryRepo)
	requestService := service.NewRequestService(requestRepo, txManager, authService)
	importService := service.NewImportService(itemRepo, categoryRepo, logger)
	settingService := service.NewSettingService(settingRepo)
	exportService := service.NewExportService(exportRepo, requestRepo, settingService, logger)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	officeHandler := handler.NewOfficeHandler(officeService, logger)
	itemHandler := handler.NewItemHandler(itemService, logger)
	requestHandler := handler.NewRequestHandler(requestService, logger)
	importHandler := handler.NewImportHandler(importService, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)
	settingHandler := handler.NewSettingHandler(settingService, logger)

	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	root := router.Group("")
	authHandler.RegisterRoutes(root)
	userHandler.RegisterRoutes(root)
	officeHandler.RegisterRoutes(root)
	itemHandler.RegisterRoutes(root)
	requestHandler.RegisterRoutes(root)
	importHandler.RegisterRoutes(root)
	exportHandler.RegisterRoutes(root)
	settingHandler.RegisterRoutes(root)

	port := envOr("PORT", "8080")
	logger.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
