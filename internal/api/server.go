package api

import (
	"context"

	"irs-backend/internal/app/config"
	"irs-backend/internal/app/contract"
	"irs-backend/internal/app/dsn"
	"irs-backend/internal/app/handler"
	"irs-backend/internal/app/middleware"
	appRedis "irs-backend/internal/app/redis"
	"irs-backend/internal/app/repository"
	"irs-backend/internal/app/storage"
	"irs-backend/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// StartServer собирает зависимости и запускает приложение
func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("Error loading config: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("Error connecting to database: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(
		cfg.Minio.Endpoint,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.Bucket,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		logrus.Fatalf("Error connecting to minio: %v", err)
	}

	redisClient, err := appRedis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("Error connecting to redis: %v", err)
	}

	contracts := contract.NewGenerator(cfg.Company)

	authHandler := handler.NewAuthHandler(repo, redisClient, minioClient, cfg)
	apiHandler := handler.NewAPIHandler(repo, minioClient, contracts, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	app := pkg.NewApp(cfg, router, apiHandler, authMiddleware)
	app.RunApp()

	logrus.Info("Server down")
}
