package handlers

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/middleware"
  "github.com/yungbote/marketbridge-backend/internal/services"
)

type AcceptanceHandler struct {
  log               *logger.Logger
  acceptanceService services.AcceptanceService
}

func NewAcceptanceHandler(log *logger.Logger, acceptanceService services.AcceptanceService) *AcceptanceHandler {
  return &AcceptanceHandler{
    log:               log.With("handler", "AcceptanceHandler"),
    acceptanceService: acceptanceService,
  }
}

// POST /api/legal/acceptances
func (ah *AcceptanceHandler) PostAcceptances(c *gin.Context) {
  actorID, actorKind, ok := middleware.ActorFromContext(c)
  if !ok {
    RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("actor not set in context"))
    return
  }

  var body struct {
    Items []services.AcceptanceItem `json:"items"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  if len(body.Items) == 0 {
    RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("items is required"))
    return
  }

  results, err := ah.acceptanceService.Accept(c.Request.Context(), actorID, actorKind, body.Items)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "accept_failed", err)
    return
  }
  RespondOK(c, gin.H{"results": results})
}

// GET /api/legal/acceptances?types=VENDOR_TERMS,PRIVACY_POLICY
func (ah *AcceptanceHandler) GetAcceptances(c *gin.Context) {
  actorID, actorKind, ok := middleware.ActorFromContext(c)
  if !ok {
    RespondError(c, http.StatusUnauthorized, "unauthorized", fmt.Errorf("actor not set in context"))
    return
  }

  typesParam := strings.TrimSpace(c.Query("types"))
  if typesParam == "" {
    RespondError(c, http.StatusBadRequest, "missing_types", fmt.Errorf("types query parameter is required"))
    return
  }
  latest, err := ah.acceptanceService.LatestPerKind(c.Request.Context(), actorID, actorKind, strings.Split(typesParam, ","))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
    return
  }
  RespondOK(c, gin.H{"acceptances": latest})
}
