package routes

import (
	"dirscan/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the token status check and the WebSocket
// endpoint, which authenticates through its token query parameter.
// Tokens are issued only through the CLI (no HTTP endpoint).
func RegisterAuthRoutes(r *gin.RouterGroup, authEnabled bool) {
	r.GET("/api/auth/status", controllers.HandleTokenStatus)
	r.GET("/ws", controllers.HandleWebSocket(authEnabled))
}
