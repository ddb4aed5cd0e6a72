package main

import (
	"log"

	"examlink/config"
	"examlink/handlers"
	"examlink/middleware"
	"examlink/models"
	"examlink/routes"
	"examlink/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Exam{},
		&models.Question{},
		&models.Option{},
		&models.Candidate{},
		&models.Result{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Exam sessions live in redis when configured, in memory otherwise
	var sessions services.SessionStore
	if redisClient := config.InitRedis(cfg); redisClient != nil {
		sessions = services.NewRedisSessionStore(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, using in-memory exam sessions")
		sessions = services.NewMemorySessionStore()
	}

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	examService := services.NewExamService(db)
	questionService := services.NewQuestionService(db)
	candidateService := services.NewCandidateService(db, sessions)
	resultService := services.NewResultService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	examHandler := handlers.NewExamHandler(examService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	candidateHandler := handlers.NewCandidateHandler(candidateService)
	resultHandler := handlers.NewResultHandler(resultService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, examHandler, questionHandler, candidateHandler, resultHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
