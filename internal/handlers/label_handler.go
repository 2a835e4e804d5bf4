package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/services"
)

type LabelHandler struct {
	service services.LabelService
}

func NewLabelHandler(service services.LabelService) *LabelHandler {
	return &LabelHandler{service: service}
}

// GET /projects/:id/labels
func (h *LabelHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	labels, err := h.service.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}
	if labels == nil {
		labels = []models.Label{}
	}
	respondData(c, http.StatusOK, labels)
}

// POST /projects/:id/labels
func (h *LabelHandler) Create(c *gin.Context) {
	actorID := getUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name  string `json:"name" binding:"required,max=50"`
		Color string `json:"color" binding:"required,max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	label, err := h.service.Create(c.Request.Context(), projectID, req.Name, req.Color, actorID)
	if err != nil {
		log.Printf("[label][create][err] project=%d name=%q: %v", projectID, req.Name, err)
		respondError(c, err)
		return
	}
	log.Printf("[label][create][ok] id=%d project=%d", label.ID, projectID)
	respondData(c, http.StatusCreated, label)
}

// PUT /labels/:id
func (h *LabelHandler) Update(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
		Color *string `json:"color" binding:"omitempty,min=1,max=20"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	label, err := h.service.Update(c.Request.Context(), id, req.Name, req.Color, actorID)
	if err != nil {
		log.Printf("[label][update][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, label)
}

// DELETE /labels/:id
func (h *LabelHandler) Delete(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, actorID); err != nil {
		log.Printf("[label][delete][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Label deleted")
}

// POST /tasks/:id/labels
func (h *LabelHandler) AddToTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		LabelID int64 `json:"label_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	label, err := h.service.AddToTask(c.Request.Context(), taskID, req.LabelID)
	if err != nil {
		log.Printf("[label][attach][err] task=%d label=%d: %v", taskID, req.LabelID, err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, label)
}

// DELETE /tasks/:id/labels/:labelId
func (h *LabelHandler) RemoveFromTask(c *gin.Context) {
	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "labelId")
	if !ok {
		return
	}
	if err := h.service.RemoveFromTask(c.Request.Context(), taskID, labelID); err != nil {
		log.Printf("[label][detach][err] task=%d label=%d: %v", taskID, labelID, err)
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "Label removed from task")
}
