package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskloop/tasklist-api/internal/config"
	"github.com/taskloop/tasklist-api/internal/database"
	"github.com/taskloop/tasklist-api/internal/handlers"
	"github.com/taskloop/tasklist-api/internal/middleware"
	"github.com/taskloop/tasklist-api/internal/repository"
	"github.com/taskloop/tasklist-api/internal/scheduler"
	"github.com/taskloop/tasklist-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// Wire repository and service
	taskRepo := repository.NewTaskRepository(database.GetDB())
	taskService := services.NewTaskService(taskRepo, nil)

	// Start the daily digest job
	digest := scheduler.NewDigestScheduler(taskService, nil)
	if _, err := digest.ScheduleDaily(cfg.DigestSchedule); err != nil {
		log.Fatalf("Failed to schedule digest: %v", err)
	}
	digest.Start()
	defer digest.Stop()

	// Initialize Gin router
	r := gin.Default()

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(taskService, nil)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task List API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", middleware.LoadTask(taskService), taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/toggle", taskHandler.ToggleComplete)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
