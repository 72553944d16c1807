package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/LavaJover/voltz-checkout-service/internal/delivery/http/dto/checkout/response"
)

const (
	HeaderOwnerID   = "X-Owner-ID"
	HeaderSessionID = "X-Session-ID"

	contextKeyOwnerID = "owner_id"
)

// OwnerMiddleware requires the owner id set by the authenticating gateway.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := strings.TrimSpace(c.GetHeader(HeaderOwnerID))
		if owner == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("MISSING_OWNER", HeaderOwnerID+" header is required"))
			return
		}
		c.Set(contextKeyOwnerID, owner)
		c.Next()
	}
}

func ownerID(c *gin.Context) string {
	return c.GetString(contextKeyOwnerID)
}

func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if owner := ownerID(c); owner != "" {
			fields = append(fields, zap.String("owner_id", owner))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request rejected", fields...)
		default:
			log.Debug("request served", fields...)
		}
	}
}
