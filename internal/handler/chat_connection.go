package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"PilatesStudioManager/internal/auth"
	"PilatesStudioManager/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleChatSession godoc
// @Summary      Live assistant conversation (WebSocket)
// @Description  Opens a WebSocket conversation with the consultant model.
// @Description  <br>
// @Description  **Note: this is not a standard HTTP API.**
// @Description  Connect with the `ws://` or `wss://` scheme. Authentication is done
// @Description  through the **query parameter `token`**, not the HTTP header.
// @Description  The conversation buffer lives only for the connection and is
// @Description  discarded on disconnect.
// @Tags         WebSocket (Assistant)
// @Param        token query string true "JWT issued at login"
// @Success      101 {string} string "101 Switching Protocols"
// @Failure      401 {object} handler.ErrorResponse "missing or invalid token"
// @Failure      500 {object} handler.ErrorResponse "WebSocket upgrade failed"
// @Router       /ws/assistant [get]
func (h *AssistantHandler) HandleChatSession(c *gin.Context) {
	tokenString := c.Query("token")

	claims, err := auth.ValidateToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	user, err := h.store.GetUserByID(claims.UserID)
	if err != nil {
		log.Printf("HandleChatSession(): failed to get user info for websocket: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		return
	}

	// studio context is loaded once per session, best effort
	var studio *models.Studio
	if s, err := h.store.GetStudioByOwner(user.ID); err == nil {
		studio = &s
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("error: failed to upgrade to WebSocket: user %s with %v", user.Email, err)
		return
	}
	defer conn.Close()

	sessionID := uuid.NewString()
	log.Printf("WebSocket connection established for user %s (session %s)", user.Email, sessionID)

	h.manageChatSession(conn, user, studio, sessionID)
}

func (h *AssistantHandler) manageChatSession(conn *websocket.Conn, user models.User, studio *models.Studio, sessionID string) {
	defer conn.Close()
	log.Printf("Chat session %s started for user: %s", sessionID, user.Email)

	// the transient conversation buffer; gone when the session ends
	var history []models.ChatMessage

	greeting := models.ChatMessage{
		Role: models.RoleModel,
		Text: fmt.Sprintf("Olá, %s! Sou seu assistente virtual especializado em gestão de Pilates. "+
			"Posso ajudar com dicas de marketing, retenção de alunos ou organização do estúdio. "+
			"Como posso ajudar hoje?", user.Name),
		Timestamp: time.Now().UnixMilli(),
	}
	history = append(history, greeting)
	if err := conn.WriteJSON(greeting); err != nil {
		log.Printf("Error sending greeting to user %s: %v", user.Email, err)
		return
	}

ReadLoop:
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %s: %v", user.Email, err)
			break ReadLoop
		}

		if messageType != websocket.TextMessage {
			log.Printf("Unsupported message type from user %s: %d", user.Email, messageType)
			continue
		}

		userText := strings.TrimSpace(string(message))
		if userText == "" {
			continue
		}
		history = append(history, models.ChatMessage{
			Role:      models.RoleUser,
			Text:      userText,
			Timestamp: time.Now().UnixMilli(),
		})

		reply := models.ChatMessage{
			Role:      models.RoleModel,
			Text:      h.llm.Ask(context.Background(), userText, studio),
			Timestamp: time.Now().UnixMilli(),
		}
		history = append(history, reply)

		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("Error sending message to user %s: %v", user.Email, err)
			break ReadLoop
		}
	}
	log.Printf("Chat session %s ended for user %s after %d turns", sessionID, user.Email, len(history))
}
