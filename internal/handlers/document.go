package handlers

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/services"
)

type DocumentHandler struct {
  log             *logger.Logger
  documentService services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documentService services.DocumentService) *DocumentHandler {
  return &DocumentHandler{
    log:             log.With("handler", "DocumentHandler"),
    documentService: documentService,
  }
}

// GET /api/legal/documents?types=VENDOR_TERMS,PRIVACY_POLICY
func (dh *DocumentHandler) GetMetadata(c *gin.Context) {
  typesParam := strings.TrimSpace(c.Query("types"))
  if typesParam == "" {
    RespondError(c, http.StatusBadRequest, "missing_types", fmt.Errorf("types query parameter is required"))
    return
  }
  kinds := strings.Split(typesParam, ",")
  meta := dh.documentService.Metadata(kinds)
  RespondOK(c, gin.H{"documents": meta})
}

// GET /api/legal/documents/:type?version=2
func (dh *DocumentHandler) GetRendered(c *gin.Context) {
  kind := c.Param("type")
  version := c.Query("version")
  doc, err := dh.documentService.Rendered(kind, version)
  if err != nil {
    RespondResolutionError(c, err)
    return
  }
  c.Header("Content-Type", "text/html; charset=utf-8")
  c.String(http.StatusOK, doc.HTML)
}
