// @title Pilates Studio Manager API
// @version 1.0
// @description Backend for the Pilates studio management panel: accounts, studio profile and the AI consultant.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"net/http"
	"os"
	"time"

	_ "PilatesStudioManager/docs"
	"PilatesStudioManager/internal/handler"
	"PilatesStudioManager/internal/llm"
	"PilatesStudioManager/internal/middleware"
	"PilatesStudioManager/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	limit "github.com/yangxikun/gin-limit-by-key"
	"golang.org/x/time/rate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("main(): no .env file found, relying on process environment")
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./pilates_manager.db"
	}
	store, err := storage.Open(dbPath)
	if err != nil {
		log.Fatalf("main(): %v", err)
	}
	defer store.Close()

	assistant := llm.NewClient(llm.Config{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: os.Getenv("GEMINI_API_BASE_URL"),
	})

	authHandler := handler.NewAuthHandler(store)
	studioHandler := handler.NewStudioHandler(store)
	assistantHandler := handler.NewAssistantHandler(store, assistant)
	healthHandler := handler.NewHealthHandler(store)

	router := gin.Default()
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	router.Use(cors.New(config))

	// per-IP limiter on credential and model endpoints
	rateLimiter := limit.NewRateLimiter(func(c *gin.Context) string {
		return c.ClientIP()
	}, func(c *gin.Context) (*rate.Limiter, time.Duration) {
		return rate.NewLimiter(rate.Every(time.Second), 5), time.Minute
	}, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	})

	router.GET("/healthz", healthHandler.Check)
	router.POST("/signup", rateLimiter, authHandler.Signup)
	router.POST("/login", rateLimiter, authHandler.Login)

	protected := router.Group("/api").Use(middleware.AuthMiddleware())
	{
		protected.GET("/session", authHandler.Session)
		protected.GET("/studio", studioHandler.Get)
		protected.PUT("/studio", studioHandler.Update)
		protected.POST("/assistant", rateLimiter, assistantHandler.Ask)
	}

	router.GET("/ws/assistant", assistantHandler.HandleChatSession)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(router.Run(":" + port))
}
