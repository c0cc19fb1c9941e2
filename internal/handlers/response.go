package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/marketbridge-backend/internal/apierr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondResolutionError maps an apierr from the document engine to a client
// response without leaking file paths or internals.
func RespondResolutionError(c *gin.Context, err error) {
  var ae *apierr.Error
  if errors.As(err, &ae) {
    status := ae.Status
    if status == 0 {
      status = http.StatusInternalServerError
    }
    c.JSON(status, ErrorEnvelope{
      Error: APIError{
        Message: "document unavailable",
        Code:    ae.Code,
      },
    })
    return
  }
  RespondError(c, http.StatusInternalServerError, "internal", errors.New("document unavailable"))
}
