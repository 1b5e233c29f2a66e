package websocket

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/princekumarofficial/upload-service/internal/utils/jwt"
	"github.com/princekumarofficial/upload-service/internal/utils/response"
	wsClient "github.com/princekumarofficial/upload-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Watchers authenticate with a token, not with cookies
		return true
	},
}

// OutcomeFeed streams upload outcomes to a WebSocket watcher
// @Summary Watch upload outcomes
// @Description Upgrade to a WebSocket that receives an upload.outcome event for every handled upload
// @Tags uploads
// @Param token query string true "Bearer token"
// @Success 101 "Switching protocols"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /ws/outcomes [get]
func OutcomeFeed(hub *wsClient.Hub, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Get JWT token from query parameter
		token := r.URL.Query().Get("token")
		if token == "" {
			slog.Warn("WebSocket connection attempted without token")
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("token required")))
			return
		}

		subject, err := jwt.ExtractSubjectFromToken(token, jwtSecret)
		if err != nil {
			slog.Warn("WebSocket connection attempted with invalid token", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid token")))
			return
		}

		// Upgrade connection to WebSocket
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, subject, hub)
		if !hub.RegisterClient(client) {
			conn.Close()
			return
		}

		client.Start()

		slog.Info("WebSocket connection established",
			slog.String("client_id", client.ID()),
			slog.String("subject", client.Subject()))
	}
}
