package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/services"
)

type BoardHandler struct {
	service services.BoardService
}

func NewBoardHandler(service services.BoardService) *BoardHandler {
	return &BoardHandler{service: service}
}

// GET /projects/:id/boards
func (h *BoardHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	boards, err := h.service.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	if boards == nil {
		boards = []models.Board{}
	}
	respondData(c, http.StatusOK, boards)
}

// GET /boards/:id — доска вместе с её задачами.
func (h *BoardHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	board, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, board)
}

// POST /projects/:id/boards
func (h *BoardHandler) Create(c *gin.Context) {
	actorID := getUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	board, err := h.service.Create(c.Request.Context(), projectID, req.Name, actorID)
	if err != nil {
		log.Printf("[board][create][err] project=%d: %v", projectID, err)
		respondError(c, err)
		return
	}
	log.Printf("[board][create][ok] id=%d project=%d", board.ID, projectID)
	respondData(c, http.StatusCreated, board)
}

// PUT /boards/:id
func (h *BoardHandler) Rename(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	board, err := h.service.Rename(c.Request.Context(), id, req.Name, actorID)
	if err != nil {
		log.Printf("[board][rename][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, board)
}

// DELETE /boards/:id — отклоняется, пока на доске остаются задачи.
func (h *BoardHandler) Delete(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, actorID); err != nil {
		log.Printf("[board][delete][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[board][delete][ok] id=%d", id)
	respondMessage(c, http.StatusOK, "Board deleted")
}
