package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/services"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// @Summary      Register
// @Description  Creates an account and returns the user with an access/refresh token pair
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][register][bind][err] %v", err)
		respondBadRequest(c, err.Error())
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		log.Printf("[auth][register][err] email=%s: %v", req.Email, err)
		respondError(c, err)
		return
	}
	log.Printf("[auth][register][ok] userID=%d", res.User.ID)
	respondData(c, http.StatusCreated, res)
}

// @Summary      Login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	res, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("[auth][login][err] email=%s: %v", req.Email, err)
		respondError(c, err)
		return
	}
	log.Printf("[auth][login][ok] userID=%d", res.User.ID)
	respondData(c, http.StatusOK, res)
}

// POST /auth/refresh — ротация refresh-токена.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	pair, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		log.Printf("[auth][refresh][err] %v", err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, pair)
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("[auth][logout][err] %v", err)
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Logged out")
}

// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID := getUserID(c)
	user, err := h.service.Me(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[auth][me][err] userID=%d: %v", userID, err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}
