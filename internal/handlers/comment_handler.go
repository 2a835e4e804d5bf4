package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/services"
)

type CommentHandler struct {
	service services.CommentService
}

func NewCommentHandler(service services.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// GET /tasks/:id/comments
func (h *CommentHandler) ListByTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.service.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	if comments == nil {
		comments = []models.CommentView{}
	}
	respondData(c, http.StatusOK, comments)
}

// @Summary      Add comment
// @Description  Creates the comment and a COMMENT_ADDED activity in one transaction
// @Tags         Comments
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Task ID"
// @Success      201  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /tasks/{id}/comments [post]
func (h *CommentHandler) Create(c *gin.Context) {
	authorID := getUserID(c)
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comment, err := h.service.Create(c.Request.Context(), taskID, req.Content, authorID)
	if err != nil {
		log.Printf("[comment][create][err] task=%d: %v", taskID, err)
		respondError(c, err)
		return
	}
	log.Printf("[comment][create][ok] id=%d task=%d", comment.ID, taskID)
	respondData(c, http.StatusCreated, comment)
}

// PUT /comments/:id — только автор; ставит флаг edited навсегда.
func (h *CommentHandler) Update(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Content string `json:"content" binding:"required,max=5000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	comment, err := h.service.Update(c.Request.Context(), id, req.Content, actorID)
	if err != nil {
		log.Printf("[comment][update][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, comment)
}

// DELETE /comments/:id — только автор.
func (h *CommentHandler) Delete(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, actorID); err != nil {
		log.Printf("[comment][delete][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Comment deleted")
}
