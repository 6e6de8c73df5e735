package controllers

import (
	"log"
	"net/http"

	"dirscan/internal/middleware"
	"dirscan/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Access is controlled by the token, not the origin
		return true
	},
}

// HandleWebSocket upgrades the request to a scan session. Each "scan"
// message is answered with a "result" or an "error"; user errors keep the
// session open so the client can ask again.
func HandleWebSocket(authEnabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := "anonymous"
		if authEnabled {
			token := middleware.ExtractToken(c)
			if token == "" {
				middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "missing token")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
				return
			}

			claims, err := services.ValidateToken(token)
			if err != nil {
				middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			subject = claims.Subject
		}

		hub := services.GetWebSocketHub()
		if hub == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "websocket hub not running"})
			return
		}

		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}
		middleware.GlobalSecurityLogger.LogWebSocketConnected(c.ClientIP(), subject)

		client := services.NewClientConnection(services.NextClientID(c.ClientIP()), ws)
		hub.Register(client)

		go readPump(client, hub)
		go writePump(client)
	}
}

// readPump reads scan requests from the WebSocket client
func readPump(client *services.ClientConnection, hub *services.WebSocketHub) {
	defer func() {
		hub.Unregister(client.ID)
		client.Shutdown()
	}()

	client.Conn.SetReadLimit(maxMessageSize)

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			return
		}

		var reply services.WebSocketMessage
		switch msg.Type {
		case services.MessageScan:
			reply = services.ScanMessage(msg.Path)

		case services.MessagePing:
			reply = services.WebSocketMessage{Type: services.MessagePong}

		case services.MessageClose:
			return

		default:
			log.Printf("[WS] Unknown message type from %s: %q", client.ID, msg.Type)
			reply = services.WebSocketMessage{
				Type:  services.MessageError,
				Code:  services.CodeBadRequest,
				Error: "unknown message type: " + msg.Type,
			}
		}

		if !client.Deliver(reply) {
			return
		}
	}
}

// writePump writes queued messages to the WebSocket client
func writePump(client *services.ClientConnection) {
	defer client.Conn.Close()

	for {
		select {
		case msg := <-client.Send:
			if err := client.Conn.WriteJSON(msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[WS] Write error: %v", err)
				}
				client.Shutdown()
				return
			}

		case <-client.Close:
			client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// HandleTokenStatus reports whether the presented token is valid
func HandleTokenStatus(c *gin.Context) {
	token := middleware.ExtractToken(c)
	if token == "" {
		middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "missing token in header or query")
		c.JSON(http.StatusBadRequest, gin.H{"error": "token required in Authorization header or query parameter"})
		return
	}

	claims, err := services.ValidateToken(token)
	if err != nil {
		middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "error": "invalid token"})
		return
	}

	log.Printf("[AUTH] Token valid for %s from %s", claims.Subject, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{
		"valid":      true,
		"subject":    claims.Subject,
		"expires_at": claims.ExpiresAt.Time,
		"issued_at":  claims.IssuedAt.Time,
	})
}
