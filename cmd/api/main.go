package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/uplinehq/backend/internal/config"
	"github.com/uplinehq/backend/internal/database"
	"github.com/uplinehq/backend/internal/jobs"
	"github.com/uplinehq/backend/internal/middleware"
	"github.com/uplinehq/backend/internal/queue"
	"github.com/uplinehq/backend/internal/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Setup database connection and run migrations
	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis backs the referral-count cache
	cache := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Prometheus metrics
	metrics := middleware.NewMetrics()

	// Initialize job queue and register handlers
	jobQueue := queue.NewQueue(db)
	jobs.RegisterJobs(jobQueue, db, metrics)

	// Start job queue processor in a goroutine
	go jobQueue.ProcessJobs()

	// Recurring tasks: retry requeue, nightly claims reset
	scheduler := queue.NewScheduler(jobQueue)
	scheduler.Start()

	// Initialize router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Register routes
	routes.RegisterRoutes(router, db, jobQueue, cache, cfg, metrics)

	// Start server
	fmt.Printf("Upline API server running on port %s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
