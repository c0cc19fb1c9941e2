package handlers

import (
  "fmt"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/middleware"
  "github.com/yungbote/marketbridge-backend/internal/services"
)

type NotificationHandler struct {
  log                 *logger.Logger
  notificationService services.NotificationService
}

func NewNotificationHandler(log *logger.Logger, notificationService services.NotificationService) *NotificationHandler {
  return &NotificationHandler{
    log:                 log.With("handler", "NotificationHandler"),
    notificationService: notificationService,
  }
}

// GET /api/notifications
func (nh *NotificationHandler) List(c *gin.Context) {
  actorID, actorKind, ok := middleware.ActorFromContext(c)
  if !ok {
    RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("actor not set in context"))
    return
  }
  notifications, err := nh.notificationService.ListForActor(c.Request.Context(), actorID, actorKind, 0)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
    return
  }
  RespondOK(c, gin.H{"notifications": notifications})
}

// POST /api/notifications/:id/read
func (nh *NotificationHandler) MarkRead(c *gin.Context) {
  actorID, _, ok := middleware.ActorFromContext(c)
  if !ok {
    RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("actor not set in context"))
    return
  }
  notificationID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  updated, err := nh.notificationService.MarkRead(c.Request.Context(), notificationID, actorID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "update_failed", err)
    return
  }
  if !updated {
    RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("notification not found or already read"))
    return
  }
  RespondOK(c, gin.H{"read": true})
}
