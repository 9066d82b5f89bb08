package middleware

import (
	"context"
	"net/http"
	"strings"

	appredis "quickchat/internal/redis"
	"quickchat/internal/services"
	"quickchat/internal/transport/httpdto"
	"quickchat/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware is the gate in front of every protected route. It
// resolves the bearer token, attaches the caller's identity to the
// request context, and refreshes their presence heartbeat. On any
// token problem the handler never runs.
func AuthMiddleware(service *services.AuthService, presence *appredis.PresenceStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		claims, err := service.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			c.Abort()
			return
		}

		ctx := services.WithUserContext(c.Request.Context(), userID)
		ctx = context.WithValue(ctx, logger.UserIdKey, userID.String())
		c.Request = c.Request.WithContext(ctx)

		if presence != nil {
			_ = presence.Heartbeat(ctx, userID.String())
		}

		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
