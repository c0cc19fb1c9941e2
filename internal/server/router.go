package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/yungbote/marketbridge-backend/internal/handlers"
  "github.com/yungbote/marketbridge-backend/internal/middleware"
)

type RouterConfig struct {
  AuthMiddleware        *middleware.AuthMiddleware
  DocumentHandler       *handlers.DocumentHandler
  AcceptanceHandler     *handlers.AcceptanceHandler
  NotificationHandler   *handlers.NotificationHandler
  PolicyHandler         *handlers.PolicyHandler
  ComplianceHandler     *handlers.ComplianceHandler
  CampaignHandler       *handlers.CampaignHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.GET("/api/legal/documents", cfg.DocumentHandler.GetMetadata)
  router.GET("/api/legal/documents/:type", cfg.DocumentHandler.GetRendered)

// ===============
// || Protected ||
// ===============
  protected := router.Group("/")
  protected.Use(cfg.AuthMiddleware.RequireAuth())
  // Acceptances
  protected.POST("/api/legal/acceptances", cfg.AcceptanceHandler.PostAcceptances)
  protected.GET("/api/legal/acceptances", cfg.AcceptanceHandler.GetAcceptances)
  // Notifications
  protected.GET("/api/notifications", cfg.NotificationHandler.List)
  protected.POST("/api/notifications/:id/read", cfg.NotificationHandler.MarkRead)

// ===============
// || Admin     ||
// ===============
  admin := router.Group("/api/admin")
  admin.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
  admin.POST("/policies", cfg.PolicyHandler.Publish)
  admin.GET("/policies", cfg.PolicyHandler.List)
  admin.GET("/compliance/preview", cfg.ComplianceHandler.Preview)
  admin.GET("/compliance/actors/:id/status", cfg.ComplianceHandler.ActorStatus)
  admin.POST("/campaigns", cfg.CampaignHandler.Dispatch)

  return router
}
