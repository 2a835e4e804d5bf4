package services

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

// CreateTaskInput is the service-level payload for creating a task.
type CreateTaskInput struct {
	BoardID     int64
	Title       string
	Description *string
	Type        models.TaskType
	Priority    models.TaskPriority
	Status      models.TaskStatus
	AssigneeID  *int64
	DueDate     *time.Time
	LabelIDs    []int64
}

// TaskService owns the task lifecycle: key allocation, column positioning,
// diff-tracked updates and the activity records derived from them. Every
// mutation runs in a single transaction.
type TaskService interface {
	Create(ctx context.Context, projectID int64, input CreateTaskInput, actorID int64) (*models.TaskView, error)
	GetByID(ctx context.Context, id int64) (*models.TaskDetail, error)
	ListByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.TaskView, error)
	Update(ctx context.Context, id int64, upd repositories.TaskUpdate, actorID int64) (*models.TaskView, error)
	UpdateStatus(ctx context.Context, id int64, status models.TaskStatus, actorID int64) (*models.TaskView, error)
	Move(ctx context.Context, id int64, status *models.TaskStatus, position int, actorID int64) (*models.TaskView, error)
	Delete(ctx context.Context, id int64) error
}

type taskService struct {
	txr        repositories.TxRunner
	tasks      repositories.TaskRepository
	projects   repositories.ProjectRepository
	labels     repositories.LabelRepository
	comments   repositories.CommentRepository
	activities repositories.ActivityRepository
}

// activityFeedLimit — сколько последних записей истории отдаём в деталях задачи.
const activityFeedLimit = 20

func NewTaskService(
	txr repositories.TxRunner,
	tasks repositories.TaskRepository,
	projects repositories.ProjectRepository,
	labels repositories.LabelRepository,
	comments repositories.CommentRepository,
	activities repositories.ActivityRepository,
) TaskService {
	return &taskService{
		txr:        txr,
		tasks:      tasks,
		projects:   projects,
		labels:     labels,
		comments:   comments,
		activities: activities,
	}
}

func (s *taskService) Create(ctx context.Context, projectID int64, input CreateTaskInput, actorID int64) (*models.TaskView, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}

	if input.Type == "" {
		input.Type = models.TypeTask
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if input.Status == "" {
		input.Status = models.StatusToDo
	}

	var task *models.Task
	err = s.txr.InTx(ctx, func(tx *sql.Tx) error {
		// счётчик ключей: один атомарный инкремент на задачу, значения
		// никогда не переиспользуются
		n, err := s.projects.IncrementTaskCounterTx(ctx, tx, projectID)
		if err != nil {
			return err
		}

		// хвост колонки (board, status)
		position, err := s.tasks.NextPositionTx(ctx, tx, input.BoardID, input.Status)
		if err != nil {
			return err
		}

		task = &models.Task{
			ProjectID:   projectID,
			BoardID:     input.BoardID,
			Key:         fmt.Sprintf("%s-%d", project.Key, n),
			Title:       input.Title,
			Description: input.Description,
			Type:        input.Type,
			Priority:    input.Priority,
			Status:      input.Status,
			AssigneeID:  input.AssigneeID,
			CreatorID:   actorID,
			DueDate:     input.DueDate,
			Position:    position,
		}
		if err := s.tasks.InsertTx(ctx, tx, task); err != nil {
			return err
		}

		if len(input.LabelIDs) > 0 {
			if err := s.labels.AttachTx(ctx, tx, task.ID, input.LabelIDs); err != nil {
				return err
			}
		}

		return s.activities.AppendTx(ctx, tx, models.NewCreatedActivity(task.ID, actorID, task.Title))
	})
	if err != nil {
		return nil, err
	}
	return s.tasks.GetView(ctx, task.ID)
}

func (s *taskService) GetByID(ctx context.Context, id int64) (*models.TaskDetail, error) {
	view, err := s.tasks.GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperr.NotFound("Task not found")
	}

	detail := &models.TaskDetail{TaskView: *view}
	if detail.Comments, err = s.comments.ListByTask(ctx, id); err != nil {
		return nil, err
	}
	if detail.Activities, err = s.activities.ListRecentByTask(ctx, id, activityFeedLimit); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.TaskView, error) {
	return s.tasks.ListByProject(ctx, projectID, filter)
}

func (s *taskService) Update(ctx context.Context, id int64, upd repositories.TaskUpdate, actorID int64) (*models.TaskView, error) {
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperr.NotFound("Task not found")
	}

	queued := diffActivities(existing, upd, actorID)

	err = s.txr.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.tasks.UpdateTx(ctx, tx, id, upd); err != nil {
			return err
		}
		for _, a := range queued {
			if err := s.activities.AppendTx(ctx, tx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.tasks.GetView(ctx, id)
}

// diffActivities compares the proposed partial update against the stored
// task and queues one activity per real change. The status/priority/assignee
// diffs and the edited marker are independent: any subset can fire from a
// single update call.
func diffActivities(existing *models.Task, upd repositories.TaskUpdate, actorID int64) []*models.Activity {
	var out []*models.Activity

	if upd.Status != nil && *upd.Status != existing.Status {
		out = append(out, models.NewFieldChangeActivity(existing.ID, actorID, models.ActionStatusChanged,
			strPtr(string(existing.Status)), strPtr(string(*upd.Status))))
	}
	if upd.Priority != nil && *upd.Priority != existing.Priority {
		out = append(out, models.NewFieldChangeActivity(existing.ID, actorID, models.ActionPriorityChanged,
			strPtr(string(existing.Priority)), strPtr(string(*upd.Priority))))
	}

	if upd.AssigneeID != nil || upd.ClearAssignee {
		proposed := upd.AssigneeID // nil при явном сбросе
		if !int64PtrEqual(proposed, existing.AssigneeID) {
			out = append(out, models.NewFieldChangeActivity(existing.ID, actorID, models.ActionAssigneeChanged,
				int64PtrString(existing.AssigneeID), int64PtrString(proposed)))
		}
	}

	// правка текста логируется отдельно и не дублирует диффы выше
	var edited []string
	if upd.Title != nil {
		edited = append(edited, "title")
	}
	if upd.Description != nil || upd.ClearDescription {
		edited = append(edited, "description")
	}
	if len(edited) > 0 {
		out = append(out, models.NewTaskEditedActivity(existing.ID, actorID, edited))
	}

	return out
}

func (s *taskService) UpdateStatus(ctx context.Context, id int64, status models.TaskStatus, actorID int64) (*models.TaskView, error) {
	return s.Update(ctx, id, repositories.TaskUpdate{Status: &status}, actorID)
}

// Move changes the column and/or position of one task. Positions of sibling
// tasks are NOT renumbered: the caller supplies a coherent position.
func (s *taskService) Move(ctx context.Context, id int64, status *models.TaskStatus, position int, actorID int64) (*models.TaskView, error) {
	return s.Update(ctx, id, repositories.TaskUpdate{Status: status, Position: &position}, actorID)
}

func (s *taskService) Delete(ctx context.Context, id int64) error {
	existing, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperr.NotFound("Task not found")
	}
	return s.tasks.Delete(ctx, id)
}

func strPtr(s string) *string { return &s }

func int64PtrEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func int64PtrString(v *int64) *string {
	if v == nil {
		return nil
	}
	s := strconv.FormatInt(*v, 10)
	return &s
}
