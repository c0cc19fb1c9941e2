package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/services"
)

type PolicyHandler struct {
  log           *logger.Logger
  policyService services.PolicyService
}

func NewPolicyHandler(log *logger.Logger, policyService services.PolicyService) *PolicyHandler {
  return &PolicyHandler{
    log:           log.With("handler", "PolicyHandler"),
    policyService: policyService,
  }
}

// POST /api/admin/policies
func (ph *PolicyHandler) Publish(c *gin.Context) {
  var input services.PublishPolicyInput
  if err := c.ShouldBindJSON(&input); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  policy, err := ph.policyService.Publish(c.Request.Context(), input)
  if err != nil {
    RespondError(c, http.StatusUnprocessableEntity, "publish_failed", err)
    return
  }
  RespondOK(c, gin.H{"policy": policy})
}

// GET /api/admin/policies
func (ph *PolicyHandler) List(c *gin.Context) {
  policies, err := ph.policyService.List(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
    return
  }
  RespondOK(c, gin.H{"policies": policies})
}
