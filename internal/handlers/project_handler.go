package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/services"
)

type ProjectHandler struct {
	service services.ProjectService
}

func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

// GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	userID := getUserID(c)
	projects, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[project][list][err] userID=%d: %v", userID, err)
		respondError(c, err)
		return
	}
	if projects == nil {
		projects = []models.ProjectView{}
	}
	respondData(c, http.StatusOK, projects)
}

// GET /projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	userID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	project, err := h.service.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, project)
}

// @Summary      Create project
// @Description  Creates the project, adds the owner as an ADMIN member and a default Main Board in one transaction
// @Tags         Projects
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	userID := getUserID(c)

	var req struct {
		Name        string            `json:"name" binding:"required,max=100"`
		Key         string            `json:"key" binding:"required"`
		Description *string           `json:"description" binding:"omitempty,max=2000"`
		Visibility  models.Visibility `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[project][create][bind][err] %v", err)
		respondBadRequest(c, err.Error())
		return
	}

	input := services.CreateProjectInput{
		Name:        strings.TrimSpace(req.Name),
		Key:         strings.ToUpper(strings.TrimSpace(req.Key)),
		Description: req.Description,
		Visibility:  req.Visibility,
	}
	project, err := h.service.Create(c.Request.Context(), input, userID)
	if err != nil {
		log.Printf("[project][create][err] key=%s: %v", input.Key, err)
		respondError(c, err)
		return
	}
	log.Printf("[project][create][ok] id=%d key=%s", project.ID, project.Key)
	respondData(c, http.StatusCreated, project)
}

// PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	userID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string            `json:"name" binding:"omitempty,min=1,max=100"`
		Description *string            `json:"description" binding:"omitempty,max=2000"`
		Visibility  *models.Visibility `json:"visibility" binding:"omitempty,oneof=PUBLIC PRIVATE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	input := services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  req.Visibility,
	}
	project, err := h.service.Update(c.Request.Context(), id, input, userID)
	if err != nil {
		log.Printf("[project][update][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[project][update][ok] id=%d", id)
	respondData(c, http.StatusOK, project)
}

// DELETE /projects/:id — только владелец.
func (h *ProjectHandler) Delete(c *gin.Context) {
	userID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, userID); err != nil {
		log.Printf("[project][delete][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[project][delete][ok] id=%d", id)
	respondMessage(c, http.StatusOK, "Project deleted")
}

// === участники ===

// GET /projects/:id/members
func (h *ProjectHandler) ListMembers(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	members, err := h.service.ListMembers(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if members == nil {
		members = []models.ProjectMember{}
	}
	respondData(c, http.StatusOK, members)
}

// POST /projects/:id/members
func (h *ProjectHandler) AddMember(c *gin.Context) {
	userID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		UserID int64             `json:"user_id" binding:"required"`
		Role   models.MemberRole `json:"role" binding:"omitempty,oneof=ADMIN MEMBER VIEWER"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), id, req.UserID, req.Role, userID)
	if err != nil {
		log.Printf("[project][member][add][err] project=%d target=%d: %v", id, req.UserID, err)
		respondError(c, err)
		return
	}
	log.Printf("[project][member][add][ok] project=%d target=%d role=%s", id, req.UserID, member.Role)
	respondData(c, http.StatusCreated, member)
}

// DELETE /projects/:id/members/:userId
func (h *ProjectHandler) RemoveMember(c *gin.Context) {
	userID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), id, targetID, userID); err != nil {
		log.Printf("[project][member][remove][err] project=%d target=%d: %v", id, targetID, err)
		respondError(c, err)
		return
	}
	log.Printf("[project][member][remove][ok] project=%d target=%d", id, targetID)
	respondMessage(c, http.StatusOK, "Member removed")
}
