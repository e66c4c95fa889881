package main

import (
	"context"
	"time"

	"tugas-api/configs"
	v1 "tugas-api/internal/api/v1"
	"tugas-api/internal/api/v1/handlers"
	"tugas-api/internal/auth"
	"tugas-api/internal/middleware"
	"tugas-api/internal/repository"
	"tugas-api/internal/service"
	"tugas-api/pkg/database"
	"tugas-api/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

func main() {
	// Inisialisasi logger
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	// Load config
	cfg := configs.LoadConfig()

	// Koneksi MongoDB dibuat sekali lalu di-inject ke semua layer.
	mongoClient := database.ConnectMongo(cfg)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()
	db := mongoClient.Database(cfg.MongoDBName)
	logger.SystemLogger.Info("Database Connected")

	// Index unik dibuat di awal sebagai penegak constraint di level store.
	repository.EnsureIndexes(db)

	// Inisialisasi Redis
	redisClient := database.ConnectRedis(cfg)
	defer redisClient.Close()

	// ----- Wiring dependency ----- //
	userCRUD := repository.NewMongoCRUD(db, repository.UsersCollection)
	taskCRUD := repository.NewMongoCRUD(db, repository.TasksCollection)

	userService := service.NewUserService(userCRUD, cfg.OwnershipField, cfg.AdminEmail, cfg.AdminPassword)
	taskService := service.NewTaskService(taskCRUD, cfg.OwnershipField)
	tokenService := auth.NewTokenService(cfg.SecretKey, cfg.TokenExpireDays)

	// Buat admin default jika belum ada
	if _, err := userService.EnsureAdmin(context.Background()); err != nil {
		logger.ErrorLogger.Error("Failed to ensure admin user", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.HandleError,
	})

	// Middleware
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// Daftarkan route API v1
	h := handlers.New(userService, taskService, tokenService, redisClient, cfg)
	v1.RegisterRoutes(app, h, tokenService)

	logger.SystemLogger.Info("Application ready", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
