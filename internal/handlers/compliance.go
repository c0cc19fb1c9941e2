package handlers

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/services"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

type ComplianceHandler struct {
  log               *logger.Logger
  complianceService services.ComplianceService
}

func NewComplianceHandler(log *logger.Logger, complianceService services.ComplianceService) *ComplianceHandler {
  return &ComplianceHandler{
    log:               log.With("handler", "ComplianceHandler"),
    complianceService: complianceService,
  }
}

func parseScope(raw string) (services.Scope, error) {
  switch strings.ToUpper(strings.TrimSpace(raw)) {
  case "USERS":
    return services.ScopeUsers, nil
  case "VENDORS":
    return services.ScopeVendors, nil
  default:
    return "", fmt.Errorf("scope must be USERS or VENDORS")
  }
}

// GET /api/admin/compliance/preview?scope=VENDORS&documents=VENDOR_TERMS,SHIPPING_ADDENDUM
func (ch *ComplianceHandler) Preview(c *gin.Context) {
  scope, err := parseScope(c.Query("scope"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_scope", err)
    return
  }
  documentsParam := strings.TrimSpace(c.Query("documents"))
  if documentsParam == "" {
    RespondError(c, http.StatusBadRequest, "missing_documents", fmt.Errorf("documents query parameter is required"))
    return
  }

  diff, err := ch.complianceService.FindOutdatedActors(c.Request.Context(), scope, strings.Split(documentsParam, ","))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "scan_failed", err)
    return
  }
  RespondOK(c, gin.H{
    "target_count":      len(diff.Targets),
    "targets":           diff.Targets,
    "versions_snapshot": diff.VersionsSnapshot,
  })
}

// GET /api/admin/compliance/actors/:id/status?actor_kind=VENDOR&documents=...
func (ch *ComplianceHandler) ActorStatus(c *gin.Context) {
  actorID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_id", err)
    return
  }
  actorKind := strings.ToUpper(strings.TrimSpace(c.Query("actor_kind")))
  if actorKind != types.ActorKindUser && actorKind != types.ActorKindVendor {
    RespondError(c, http.StatusBadRequest, "invalid_actor_kind", fmt.Errorf("actor_kind must be USER or VENDOR"))
    return
  }
  documentsParam := strings.TrimSpace(c.Query("documents"))
  if documentsParam == "" {
    RespondError(c, http.StatusBadRequest, "missing_documents", fmt.Errorf("documents query parameter is required"))
    return
  }

  statuses, err := ch.complianceService.ActorStatus(c.Request.Context(), actorID, actorKind, strings.Split(documentsParam, ","))
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "lookup_failed", err)
    return
  }
  RespondOK(c, gin.H{"statuses": statuses})
}
