package handlers

import (
	"encoding/json"
	"html"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
	"taskcontrol/internal/services"
)

type TaskHandler struct {
	service services.TaskService

	// уведомления исполнителю (оба могут быть nil)
	tg    *services.TelegramService
	email services.EmailService
	users repositories.UserRepository
}

func NewTaskHandler(service services.TaskService, tg *services.TelegramService, email services.EmailService, users repositories.UserRepository) *TaskHandler {
	return &TaskHandler{service: service, tg: tg, email: email, users: users}
}

// @Summary      Create task
// @Description  Creates a task in the project: allocates the next key, appends it to the end of its column and logs a CREATED activity
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "Project ID"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /projects/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actorID := getUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log.Printf("[task][create] call by userID=%d project=%d", actorID, projectID)

	var req struct {
		Title       string              `json:"title" binding:"required,max=200"`
		Description *string             `json:"description" binding:"omitempty,max=5000"`
		Type        models.TaskType     `json:"type" binding:"omitempty,oneof=TASK BUG FEATURE STORY"`
		Priority    models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
		Status      models.TaskStatus   `json:"status" binding:"omitempty,oneof=TO_DO IN_PROGRESS IN_REVIEW DONE"`
		AssigneeID  *int64              `json:"assignee_id"`
		BoardID     int64               `json:"board_id" binding:"required"`
		DueDate     *string             `json:"due_date"` // RFC3339
		LabelIDs    []int64             `json:"label_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] %v", err)
		respondBadRequest(c, err.Error())
		return
	}

	var due *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		t, err := time.Parse(time.RFC3339, *req.DueDate)
		if err != nil {
			log.Printf("[task][create][err] invalid due_date=%q: %v", *req.DueDate, err)
			respondBadRequest(c, "invalid due_date (RFC3339)")
			return
		}
		due = &t
	}

	input := services.CreateTaskInput{
		BoardID:     req.BoardID,
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
		DueDate:     due,
		LabelIDs:    req.LabelIDs,
	}
	task, err := h.service.Create(c.Request.Context(), projectID, input, actorID)
	if err != nil {
		log.Printf("[task][create][err] project=%d: %v", projectID, err)
		respondError(c, err)
		return
	}
	log.Printf("[task][create][ok] id=%d key=%s position=%d", task.ID, task.Key, task.Position)
	respondData(c, http.StatusCreated, task)

	h.notifyAssignee(c, task, "📌 New task assigned to you")
}

// GET /projects/:id/tasks
func (h *TaskHandler) ListByProject(c *gin.Context) {
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var filter models.TaskFilter
	if v, ok := c.GetQuery("status"); ok {
		st := models.TaskStatus(v)
		if !models.IsValidTaskStatus(st) {
			respondBadRequest(c, "invalid status")
			return
		}
		filter.Status = &st
	}
	if v, ok := c.GetQuery("priority"); ok {
		p := models.TaskPriority(v)
		if !models.IsValidTaskPriority(p) {
			respondBadRequest(c, "invalid priority")
			return
		}
		filter.Priority = &p
	}
	if v, ok := c.GetQuery("type"); ok {
		t := models.TaskType(v)
		if !models.IsValidTaskType(t) {
			respondBadRequest(c, "invalid type")
			return
		}
		filter.Type = &t
	}
	if v, ok := c.GetQuery("assignee_id"); ok {
		var id int64
		if err := json.Unmarshal([]byte(v), &id); err == nil {
			filter.AssigneeID = &id
		} else {
			log.Printf("[task][list][warn] bad assignee_id=%q: %v", v, err)
		}
	}
	if v, ok := c.GetQuery("search"); ok {
		filter.Search = &v
	}

	tasks, err := h.service.ListByProject(c.Request.Context(), projectID, filter)
	if err != nil {
		log.Printf("[task][list][err] project=%d: %v", projectID, err)
		respondError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.TaskView{}
	}
	respondData(c, http.StatusOK, tasks)
}

// GET /tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, task)
}

// @Summary      Update task
// @Description  Partial update; real changes of status/priority/assignee each produce their own activity record
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        id  path  int  true  "Task ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log.Printf("[task][update] call by userID=%d id=%d", actorID, id)

	upd, ok := h.bindUpdate(c)
	if !ok {
		return
	}

	task, err := h.service.Update(c.Request.Context(), id, upd, actorID)
	if err != nil {
		log.Printf("[task][update][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[task][update][ok] id=%d", id)
	respondData(c, http.StatusOK, task)

	if upd.AssigneeID != nil {
		h.notifyAssignee(c, task, "👤 Task assigned to you")
	}
}

// bindUpdate разбирает частичное обновление. Поля с явным null очищаются,
// отсутствующие не трогаются.
func (h *TaskHandler) bindUpdate(c *gin.Context) (repositories.TaskUpdate, bool) {
	var req struct {
		Title       *string              `json:"title" binding:"omitempty,min=1,max=200"`
		Description json.RawMessage      `json:"description"`
		Type        *models.TaskType     `json:"type" binding:"omitempty,oneof=TASK BUG FEATURE STORY"`
		Priority    *models.TaskPriority `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
		Status      *models.TaskStatus   `json:"status" binding:"omitempty,oneof=TO_DO IN_PROGRESS IN_REVIEW DONE"`
		AssigneeID  json.RawMessage      `json:"assignee_id"`
		DueDate     json.RawMessage      `json:"due_date"` // RFC3339 или null
		Position    *int                 `json:"position" binding:"omitempty,min=0"`
	}
	var upd repositories.TaskUpdate

	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][update][bind][err] %v", err)
		respondBadRequest(c, err.Error())
		return upd, false
	}

	upd.Title = req.Title
	upd.Type = req.Type
	upd.Priority = req.Priority
	upd.Status = req.Status
	upd.Position = req.Position

	var err error
	if upd.Description, upd.ClearDescription, err = nullableString(req.Description); err != nil {
		respondBadRequest(c, "invalid description")
		return upd, false
	}
	if upd.AssigneeID, upd.ClearAssignee, err = nullableInt64(req.AssigneeID); err != nil {
		respondBadRequest(c, "invalid assignee_id")
		return upd, false
	}
	if upd.DueDate, upd.ClearDueDate, err = nullableTime(req.DueDate); err != nil {
		respondBadRequest(c, "invalid due_date (RFC3339)")
		return upd, false
	}
	return upd, true
}

// PATCH /tasks/:id/status
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status models.TaskStatus `json:"status" binding:"required,oneof=TO_DO IN_PROGRESS IN_REVIEW DONE"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][status][bind][err] %v", err)
		respondBadRequest(c, err.Error())
		return
	}

	task, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, actorID)
	if err != nil {
		log.Printf("[task][status][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[task][status][ok] id=%d new=%q", id, req.Status)
	respondData(c, http.StatusOK, task)
}

// PATCH /tasks/:id/move — смена колонки и/или позиции. Позиции соседей
// не пересчитываются.
func (h *TaskHandler) Move(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status   *models.TaskStatus `json:"status" binding:"omitempty,oneof=TO_DO IN_PROGRESS IN_REVIEW DONE"`
		Position *int               `json:"position" binding:"required,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][move][bind][err] %v", err)
		respondBadRequest(c, err.Error())
		return
	}

	task, err := h.service.Move(c.Request.Context(), id, req.Status, *req.Position, actorID)
	if err != nil {
		log.Printf("[task][move][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[task][move][ok] id=%d status=%q position=%d", id, task.Status, task.Position)
	respondData(c, http.StatusOK, task)
}

// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	actorID := getUserID(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	log.Printf("[task][delete] call by userID=%d id=%d", actorID, id)

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		log.Printf("[task][delete][err] id=%d: %v", id, err)
		respondError(c, err)
		return
	}
	log.Printf("[task][delete][ok] id=%d", id)
	respondMessage(c, http.StatusOK, "Task deleted")
}

// === уведомления ===

func (h *TaskHandler) notifyAssignee(c *gin.Context, t *models.TaskView, prefix string) {
	if h.users == nil || t == nil || t.AssigneeID == nil {
		return
	}
	chatID, tgOn, emailOn, email, err := h.users.GetNotifySettings(c.Request.Context(), *t.AssigneeID)
	if err != nil {
		log.Printf("[task][notify] get settings failed: assignee=%d err=%v", *t.AssigneeID, err)
		return
	}
	if h.tg != nil && tgOn && chatID != 0 {
		_ = h.tg.SendMessage(chatID, h.formatTask(prefix, t))
	}
	if h.email != nil && emailOn && email != "" {
		if err := h.email.SendTaskAssignedEmail(email, t.Key, t.Title); err != nil {
			log.Printf("[task][notify] email to %s failed: %v", email, err)
		}
	}
}

func (h *TaskHandler) formatTask(prefix string, t *models.TaskView) string {
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Format("2006-01-02 15:04")
	}
	title := html.EscapeString(t.Title) // parse_mode=HTML
	return prefix + "\n" +
		"• <b>" + t.Key + " " + title + "</b>\n" +
		"• Status: <code>" + string(t.Status) + "</code>\n" +
		"• Priority: <code>" + string(t.Priority) + "</code>\n" +
		"• Due: <code>" + due + "</code>"
}
