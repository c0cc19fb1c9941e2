package handlers

import (
  "fmt"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/services"
)

type CampaignHandler struct {
  log             *logger.Logger
  campaignService services.CampaignService
}

func NewCampaignHandler(log *logger.Logger, campaignService services.CampaignService) *CampaignHandler {
  return &CampaignHandler{
    log:             log.With("handler", "CampaignHandler"),
    campaignService: campaignService,
  }
}

// POST /api/admin/campaigns
func (ch *CampaignHandler) Dispatch(c *gin.Context) {
  var body struct {
    Scope          string                  `json:"scope"`
    Documents      []string                `json:"documents"`
    RequiresAction bool                    `json:"requires_action"`
    InApp          services.InAppContent   `json:"in_app"`
    Email          *services.EmailContent  `json:"email,omitempty"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  scope, err := parseScope(body.Scope)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_scope", err)
    return
  }
  if body.InApp.Title == "" {
    RespondError(c, http.StatusBadRequest, "invalid_body", fmt.Errorf("in_app.title is required"))
    return
  }

  result, err := ch.campaignService.Dispatch(c.Request.Context(), services.DispatchInput{
    Scope:          scope,
    Documents:      body.Documents,
    RequiresAction: body.RequiresAction,
    InApp:          body.InApp,
    Email:          body.Email,
  })
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "dispatch_failed", err)
    return
  }
  RespondOK(c, result)
}
