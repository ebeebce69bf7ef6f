package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamelog/internal/apperr"
)

// Middleware rejects requests whose bearer token the verifier does not
// accept. It is attached per route group, so health routes stay open.
func Middleware(v *Verifier, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		err := v.Verify(bearerToken(c.GetHeader("Authorization")))
		if err == nil {
			c.Next()
			return
		}
		if apperr.KindOf(err) == apperr.KindConfig {
			logger.Error("auth misconfigured", zap.Error(err))
		}
		c.AbortWithStatusJSON(apperr.Status(err), gin.H{"error": apperr.PublicMessage(err)})
	}
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
