package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"foodmarket/internal/auth"
)

const claimsKey = "claims"

// logMiddleware пишет строку лога на каждый запрос
func logMiddleware(logger log.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(log.Fields{
			"method":     c.Request.Method,
			"url":        c.Request.URL.String(),
			"status":     c.Writer.Status(),
			"remoteAddr": c.ClientIP(),
			"userAgent":  c.Request.UserAgent(),
			"duration":   time.Since(start).String(),
		}).Info("got a new request")
	}
}

// authenticate проверяет Bearer токен и роль; claims кладутся в контекст gin
func (s *Server) authenticate(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		claims, err := s.issuer.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		if !hasRole(claims.Role, roles) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func hasRole(role auth.Role, allowed []auth.Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// subject id владельца токена; middleware гарантирует наличие claims
func subject(c *gin.Context) string {
	v, ok := c.Get(claimsKey)
	if !ok {
		return ""
	}
	claims, _ := v.(*auth.Claims)
	if claims == nil {
		return ""
	}
	return claims.Subject
}
