package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"PilatesStudioManager/internal/llm"
	"PilatesStudioManager/internal/models"
	"PilatesStudioManager/internal/storage"

	"github.com/gin-gonic/gin"
)

type AssistantHandler struct {
	store *storage.Store
	llm   *llm.Client
}

func NewAssistantHandler(store *storage.Store, client *llm.Client) *AssistantHandler {
	return &AssistantHandler{store: store, llm: client}
}

type AskRequest struct {
	Message string `json:"message" example:"Como atrair mais alunos?"`
}

type AskResponse struct {
	Reply models.ChatMessage `json:"reply"`
}

// Ask godoc
// @Summary      Single-turn assistant question
// @Description  Forwards one question to the consultant model with studio context.
// @Description  The reply is always presentable text; model failures surface as a fixed fallback message.
// @Tags         Assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.AskRequest true "the question"
// @Success      200 {object} handler.AskResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/assistant [post]
func (h *AssistantHandler) Ask(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem não pode ser vazia."})
		return
	}

	// studio context is best effort: the chat works without it
	var studio *models.Studio
	if s, err := h.store.GetStudioByOwner(ownerID); err == nil {
		studio = &s
	} else {
		log.Printf("[WARN] assistant: failed to load studio context: %v", err)
	}

	reply := h.llm.Ask(c.Request.Context(), req.Message, studio)

	c.JSON(http.StatusOK, AskResponse{Reply: models.ChatMessage{
		Role:      models.RoleModel,
		Text:      reply,
		Timestamp: time.Now().UnixMilli(),
	}})
}
