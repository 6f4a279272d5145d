package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/studyhall/session-service/internal/config"
	"github.com/studyhall/session-service/internal/services"
	"github.com/studyhall/session-service/internal/utils"
	"github.com/studyhall/session-service/internal/validator"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	exportHandler  *ExportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		sessionHandler: NewSessionHandler(serviceManager.Session(), validator, logger),
		exportHandler:  NewExportHandler(serviceManager.Export(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, cfg *config.Config, logger utils.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "session-service",
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(cfg, logger))
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/:id", hm.sessionHandler.GetSnapshot)
			sessions.POST("/:id/answers", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/:id/heartbeat", hm.sessionHandler.Heartbeat)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
		}

		exports := v1.Group("/exports")
		{
			exports.GET("/assessments/:assessment_id/sessions", hm.exportHandler.ExportSessions)
			exports.GET("/assessments/:assessment_id/stats", hm.exportHandler.GetSessionStats)
		}
	}
}
