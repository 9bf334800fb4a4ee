package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/practice-engine/internal/services"
	"github.com/SAP-F-2025/practice-engine/internal/utils"
)

type HandlerManager struct {
	practiceHandler *PracticeHandler
	logger          utils.Logger
}

func NewHandlerManager(practiceService services.PracticeService, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		practiceHandler: NewPracticeHandler(practiceService, logger),
		logger:          logger,
	}
}

// Middleware returns the request middleware chain shared by all routes
func (hm *HandlerManager) Middleware() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		utils.RequestID(),
		utils.LoggerMiddleware(hm.logger),
		utils.ContextLogger(hm.logger),
		gin.Recovery(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(hm.Middleware()...)

	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		exercises := v1.Group("/exercises")
		{
			exercises.GET("", hm.practiceHandler.ListExercises)
			exercises.GET("/:id", hm.practiceHandler.GetExercise)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.practiceHandler.CreateSession)
			sessions.GET("/:id", hm.practiceHandler.GetSession)
			sessions.DELETE("/:id", hm.practiceHandler.CloseSession)
			sessions.POST("/:id/start", hm.practiceHandler.StartSession)
			sessions.POST("/:id/events", hm.practiceHandler.ApplyEvent)
			sessions.POST("/:id/submit", hm.practiceHandler.Submit)
		}

		progress := v1.Group("/progress")
		{
			progress.GET("", hm.practiceHandler.GetProgress)
			progress.DELETE("", hm.practiceHandler.ResetProgress)
			progress.GET("/export", hm.practiceHandler.ExportProgress)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "practice-engine",
	})
}
