package middleware

import (
  "fmt"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/yungbote/marketbridge-backend/internal/logger"
  "github.com/yungbote/marketbridge-backend/internal/types"
)

const (
  ContextActorID   = "actor_id"
  ContextActorKind = "actor_kind"
  ContextRole      = "role"
)

// AuthMiddleware validates bearer tokens minted by the auth collaborator.
// Token issuance lives outside this service; only parsing happens here.
type AuthMiddleware struct {
  log       *logger.Logger
  jwtSecret []byte
}

func NewAuthMiddleware(log *logger.Logger, jwtSecret string) *AuthMiddleware {
  middlewareLogger := log.With("middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, jwtSecret: []byte(jwtSecret)}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractBearerToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    actorID, actorKind, role, err := am.parseToken(tokenString)
    if err != nil {
      am.log.Debug("Token rejected", "error", err)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    c.Set(ContextActorID, actorID)
    c.Set(ContextActorKind, actorKind)
    c.Set(ContextRole, role)
    c.Next()
  }
}

func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
  return func(c *gin.Context) {
    role, _ := c.Get(ContextRole)
    if role != "admin" {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}

func (am *AuthMiddleware) parseToken(tokenString string) (uuid.UUID, string, string, error) {
  claims := jwt.MapClaims{}
  token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
    if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
      return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
    }
    return am.jwtSecret, nil
  })
  if err != nil || !token.Valid {
    return uuid.Nil, "", "", fmt.Errorf("invalid token: %w", err)
  }

  sub, _ := claims["sub"].(string)
  actorID, err := uuid.Parse(sub)
  if err != nil {
    return uuid.Nil, "", "", fmt.Errorf("invalid subject claim")
  }
  actorKind, _ := claims["actor_kind"].(string)
  if actorKind != types.ActorKindUser && actorKind != types.ActorKindVendor {
    return uuid.Nil, "", "", fmt.Errorf("invalid actor_kind claim")
  }
  role, _ := claims["role"].(string)
  return actorID, actorKind, role, nil
}

func extractBearerToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  return ""
}

// ActorFromContext pulls the authenticated actor out of the gin context.
func ActorFromContext(c *gin.Context) (uuid.UUID, string, bool) {
  rawID, ok := c.Get(ContextActorID)
  if !ok {
    return uuid.Nil, "", false
  }
  actorID, ok := rawID.(uuid.UUID)
  if !ok || actorID == uuid.Nil {
    return uuid.Nil, "", false
  }
  rawKind, _ := c.Get(ContextActorKind)
  actorKind, _ := rawKind.(string)
  if actorKind == "" {
    return uuid.Nil, "", false
  }
  return actorID, actorKind, true
}
