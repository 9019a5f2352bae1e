package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/appdotbuilder/ai-dev-assistant/internal/aichat"
	"github.com/appdotbuilder/ai-dev-assistant/internal/config"
	"github.com/appdotbuilder/ai-dev-assistant/internal/db"
	"github.com/appdotbuilder/ai-dev-assistant/internal/deployment"
	"github.com/appdotbuilder/ai-dev-assistant/internal/file"
	"github.com/appdotbuilder/ai-dev-assistant/internal/logger"
	"github.com/appdotbuilder/ai-dev-assistant/internal/middleware"
	"github.com/appdotbuilder/ai-dev-assistant/internal/project"
	"github.com/appdotbuilder/ai-dev-assistant/internal/session"
	"github.com/appdotbuilder/ai-dev-assistant/internal/template"
	"github.com/appdotbuilder/ai-dev-assistant/internal/validation"
	"github.com/appdotbuilder/ai-dev-assistant/internal/version"
	"github.com/appdotbuilder/ai-dev-assistant/internal/worker"
	"github.com/appdotbuilder/ai-dev-assistant/redis"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	config.LoadConfig()

	appLog, err := logger.New(config.AppConfig.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer appLog.Sync()

	// Connect to database
	db.ConnectDb()
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed the starter template catalog
	db.SeedData()

	// Initialize Redis-backed cache (no-op when Redis is down)
	cache := redis.NewCache(config.AppConfig.RedisAddress)
	defer cache.Close()

	// Background pool for cache population writes
	pool := worker.NewPool(4, appLog)
	defer pool.Shutdown()

	// Custom binding rules
	validation.Register()

	// Initialize repositories
	sessionRepo := session.NewRepository(db.AppDb)
	projectRepo := project.NewRepository(db.AppDb)
	fileRepo := file.NewRepository(db.AppDb)
	versionRepo := version.NewRepository(db.AppDb)
	deploymentRepo := deployment.NewRepository(db.AppDb)
	templateRepo := template.NewRepository(db.AppDb)
	chatRepo := aichat.NewRepository(db.AppDb)

	// Initialize services
	sessionTTL := time.Duration(config.AppConfig.SessionTTLHours) * time.Hour
	sessionService := session.NewService(sessionRepo, sessionTTL)
	projectService := project.NewService(projectRepo, sessionRepo, templateRepo, cache, pool, appLog, config.AppConfig.PreviewBaseURL)
	fileService := file.NewService(fileRepo, projectRepo)
	versionService := version.NewService(versionRepo, projectRepo, cache, appLog)
	deploymentService := deployment.NewService(deploymentRepo, projectRepo, versionRepo)
	templateService := template.NewService(templateRepo, projectRepo, fileRepo, cache, pool)
	chatService := aichat.NewService(chatRepo, sessionRepo, projectRepo, fileRepo, config.AppConfig.AIModel)

	// Initialize handlers
	sessionHandler := session.NewHandler(sessionService)
	projectHandler := project.NewHandler(projectService)
	fileHandler := file.NewHandler(fileService)
	versionHandler := version.NewHandler(versionService)
	deploymentHandler := deployment.NewHandler(deploymentService)
	templateHandler := template.NewHandler(templateService)
	chatHandler := aichat.NewHandler(chatService)

	auth := &middleware.Auth{Sessions: sessionService}

	// Initialize Gin router
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(middleware.ErrorHandler(appLog))

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Session-Id"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		// Restrict origins in production
		corsConfig.AllowOrigins = []string{config.AppConfig.FrontendAddress}
	}
	router.Use(cors.New(corsConfig))

	// Session routes
	router.POST("/sessions", sessionHandler.Create)
	router.GET("/sessions/me", auth.SessionMiddleware(), sessionHandler.Show)

	// Project routes
	router.POST("/projects", auth.SessionMiddleware(), projectHandler.Create)
	router.GET("/projects", auth.SessionMiddleware(), projectHandler.List)
	router.PUT("/projects/:id", auth.SessionMiddleware(), projectHandler.Update)
	router.DELETE("/projects/:id", auth.SessionMiddleware(), projectHandler.Delete)
	router.POST("/projects/:id/collaborators", auth.SessionMiddleware(), projectHandler.Share)
	router.GET("/projects/:id/collaborators", auth.SessionMiddleware(), projectHandler.ListCollaborators)

	// File routes
	router.POST("/projects/:id/files", auth.SessionMiddleware(), fileHandler.Create)
	router.GET("/projects/:id/files", auth.SessionMiddleware(), fileHandler.List)
	router.PUT("/files/:id", auth.SessionMiddleware(), fileHandler.Update)
	router.DELETE("/files/:id", auth.SessionMiddleware(), fileHandler.Delete)

	// Version routes
	router.POST("/projects/:id/versions", auth.SessionMiddleware(), versionHandler.Create)
	router.GET("/projects/:id/versions", auth.SessionMiddleware(), versionHandler.List)
	router.POST("/projects/:id/versions/:versionId/rollback", auth.SessionMiddleware(), versionHandler.Rollback)

	// Deployment routes
	router.POST("/projects/:id/deployments", auth.SessionMiddleware(), deploymentHandler.Create)
	router.GET("/projects/:id/deployments", auth.SessionMiddleware(), deploymentHandler.List)

	// Template routes
	router.GET("/templates", auth.SessionMiddleware(), templateHandler.List)
	router.POST("/projects/:id/template", auth.SessionMiddleware(), templateHandler.CreateFromProject)

	// AI chat routes
	router.POST("/chat", auth.SessionMiddleware(), chatHandler.Chat)
	router.GET("/chat", auth.SessionMiddleware(), chatHandler.History)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		appLog.Info("server listening", "port", serverPort)
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			appLog.Fatal("server failed to start", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLog.Error("server shutdown error", "err", err)
	}

	<-ctx.Done()
	appLog.Info("server shutdown complete")
}
