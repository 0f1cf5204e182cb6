package handler

import (
	"errors"
	"log"
	"net/http"

	"PilatesStudioManager/internal/storage"

	"github.com/gin-gonic/gin"
)

type StudioHandler struct {
	store *storage.Store
}

func NewStudioHandler(store *storage.Store) *StudioHandler {
	return &StudioHandler{store: store}
}

// Get godoc
// @Summary      Studio record of the logged-in owner
// @Description  Returns the owner's studio record, creating a blank one on first read.
// @Tags         Studio
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.Studio
// @Failure      401 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /api/studio [get]
func (h *StudioHandler) Get(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	studio, err := h.store.GetStudioByOwner(ownerID)
	if err != nil {
		log.Printf("[ERROR] GetStudioByOwner failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro de conexão ao buscar estúdio."})
		return
	}

	c.JSON(http.StatusOK, studio)
}

// Update godoc
// @Summary      Update the owner's studio record
// @Description  Applies only the fields present in the body (name, cnpj, address, phone).
// @Tags         Studio
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body storage.StudioPatch true "fields to change"
// @Success      200 {object} models.Studio
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse
// @Failure      404 {object} handler.ErrorResponse "no studio record for this account"
// @Failure      500 {object} handler.ErrorResponse
// @Router       /api/studio [put]
func (h *StudioHandler) Update(c *gin.Context) {
	ownerID := c.GetInt64("user_id")

	var patch storage.StudioPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	studio, err := h.store.UpdateStudio(ownerID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrStudioNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Estúdio não encontrado."})
			return
		}
		log.Printf("[ERROR] UpdateStudio failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro de conexão ao salvar estúdio."})
		return
	}

	c.JSON(http.StatusOK, studio)
}
