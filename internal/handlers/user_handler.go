package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// GET /users/search?q=...
func (h *UserHandler) Search(c *gin.Context) {
	query := c.Query("q")
	users, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		log.Printf("[user][search][err] q=%q: %v", query, err)
		respondError(c, err)
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	respondData(c, http.StatusOK, users)
}

// GET /users/:id
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, profile)
}

// PUT /users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID := getUserID(c)

	var req struct {
		FullName *string `json:"full_name" binding:"omitempty,max=100"`
		Avatar   *string `json:"avatar" binding:"omitempty,max=500"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req.FullName, req.Avatar)
	if err != nil {
		log.Printf("[user][update][err] userID=%d: %v", userID, err)
		respondError(c, err)
		return
	}
	log.Printf("[user][update][ok] userID=%d", userID)
	respondData(c, http.StatusOK, profile)
}
