/**
* Name: 			auth_handler.go
* Description: 		HTTP handlers for account registration, login and session lookup
 */
package handler

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strings"

	"PilatesStudioManager/internal/auth"
	"PilatesStudioManager/internal/models"
	"PilatesStudioManager/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	store *storage.Store
}

func NewAuthHandler(store *storage.Store) *AuthHandler {
	return &AuthHandler{store: store}
}

// /signup request body
type SignupRequest struct {
	Name     string `json:"name" example:"Maria"`
	Email    string `json:"email" example:"maria@estudio.com"`
	Password string `json:"password" example:"password123"`
}

// /login request body
type LoginRequest struct {
	Email    string `json:"email" example:"maria@estudio.com"`
	Password string `json:"password" example:"password123"`
}

type ErrorResponse struct {
	Error string `json:"error" example:"error cause"`
}

// login/signup success response: session token plus the account
type AuthResponse struct {
	Token string      `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	User  models.User `json:"user"`
}

// Signup godoc
// @Summary      Register a studio-owner account
// @Description  Creates an account and logs it in, returning a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handler.SignupRequest true "registration payload"
// @Success      200 {object} handler.AuthResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var credentials SignupRequest

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// reject " " style inputs as well
	if strings.TrimSpace(credentials.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nome é obrigatório."})
		return
	}
	if strings.TrimSpace(credentials.Email) == "" || strings.TrimSpace(credentials.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-mail e senha são obrigatórios."})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credentials.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user, err := h.store.CreateUser(credentials.Email, string(hashedPassword), credentials.Name)
	if err != nil {
		if errors.Is(err, storage.ErrEmailExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Este e-mail já está cadastrado."})
		} else {
			log.Printf("[ERROR] Failed to create user (database error): %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user (database error)"})
		}
		return
	}

	// registration logs the account in right away
	tokenString, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: tokenString, User: user})
}

// Login godoc
// @Summary      Log in with email and password
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handler.LoginRequest true "login payload"
// @Success      200 {object} handler.AuthResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      401 {object} handler.ErrorResponse "bad credentials"
// @Failure      500 {object} handler.ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var credentials LoginRequest

	if err := c.ShouldBindJSON(&credentials); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if credentials.Email == "" || credentials.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha incorretos."})
		return
	}

	user, err := h.store.GetUserByEmail(credentials.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha incorretos."})
			return
		}
		log.Printf("[ERROR] GetUserByEmail failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credentials.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha incorretos."})
		return
	}

	tokenString, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: tokenString, User: user})
}

// Session godoc
// @Summary      Current session account
// @Description  Returns the account behind the presented token.
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.User
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.store.GetUserByID(userID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Sessão não detectada. Tente fazer login novamente."})
			return
		}
		log.Printf("[ERROR] GetUserByID failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}
