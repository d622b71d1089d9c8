package realtime

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ArmaanM08/WikiDoCollab/internal/tokens"
	"github.com/ArmaanM08/WikiDoCollab/pkg/logger"
	"github.com/ArmaanM08/WikiDoCollab/pkg/metrics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// origin policy is handled by the reverse proxy / CORS layer
		return true
	},
}

// Handler upgrades authenticated requests to collaboration sockets.
// Authentication happens exactly once, before the upgrade; a connection
// without a valid, unexpired token never reaches the hub.
func Handler(hub *Hub, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerFromRequest(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		id, err := tokens.VerifyAccessToken(secret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Errorf("websocket upgrade failed: %v", err)
			return
		}

		client := NewClient(hub, conn, id.UserID)
		metrics.SocketConnections.Inc()
		logger.Debugf("socket connected: client=%s user=%s", client.ID, client.UserID)

		go client.WritePump()
		go client.ReadPump()
	}
}

// bearerFromRequest accepts the credential from the Authorization header or,
// for browser clients that cannot set headers on websocket handshakes, a
// `token` query parameter.
func bearerFromRequest(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if raw := strings.TrimPrefix(auth, "Bearer "); raw != auth {
			return raw
		}
	}
	return c.Query("token")
}
