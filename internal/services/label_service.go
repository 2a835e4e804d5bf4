package services

import (
	"context"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

type LabelService interface {
	ListByProject(ctx context.Context, projectID int64) ([]models.Label, error)
	Create(ctx context.Context, projectID int64, name, color string, actorID int64) (*models.Label, error)
	Update(ctx context.Context, labelID int64, name, color *string, actorID int64) (*models.Label, error)
	Delete(ctx context.Context, labelID int64, actorID int64) error

	AddToTask(ctx context.Context, taskID, labelID int64) (*models.Label, error)
	RemoveFromTask(ctx context.Context, taskID, labelID int64) error
}

type labelService struct {
	labels   repositories.LabelRepository
	tasks    repositories.TaskRepository
	projects ProjectService
}

func NewLabelService(labels repositories.LabelRepository, tasks repositories.TaskRepository, projects ProjectService) LabelService {
	return &labelService{labels: labels, tasks: tasks, projects: projects}
}

func (s *labelService) ListByProject(ctx context.Context, projectID int64) ([]models.Label, error) {
	return s.labels.ListByProject(ctx, projectID)
}

func (s *labelService) Create(ctx context.Context, projectID int64, name, color string, actorID int64) (*models.Label, error) {
	if err := s.projects.CheckMemberRole(ctx, projectID, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	existing, err := s.labels.FindByName(ctx, projectID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Label with this name already exists in the project")
	}

	label := &models.Label{ProjectID: projectID, Name: name, Color: color}
	if err := s.labels.Create(ctx, label); err != nil {
		return nil, apperr.MapUnique(err, "Label with this name already exists in the project")
	}
	return label, nil
}

func (s *labelService) Update(ctx context.Context, labelID int64, name, color *string, actorID int64) (*models.Label, error) {
	label, err := s.labels.FindByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, apperr.NotFound("Label not found")
	}
	if err := s.projects.CheckMemberRole(ctx, label.ProjectID, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}

	if name != nil && *name != label.Name {
		existing, err := s.labels.FindByName(ctx, label.ProjectID, *name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, apperr.Conflict("Label with this name already exists")
		}
		label.Name = *name
	}
	if color != nil {
		label.Color = *color
	}
	if err := s.labels.Update(ctx, label); err != nil {
		return nil, apperr.MapUnique(err, "Label with this name already exists")
	}
	return label, nil
}

func (s *labelService) Delete(ctx context.Context, labelID int64, actorID int64) error {
	label, err := s.labels.FindByID(ctx, labelID)
	if err != nil {
		return err
	}
	if label == nil {
		return apperr.NotFound("Label not found")
	}
	if err := s.projects.CheckMemberRole(ctx, label.ProjectID, actorID, models.RoleAdmin); err != nil {
		return err
	}
	return s.labels.Delete(ctx, labelID)
}

// AddToTask вешает метку на задачу; как и остальные мутации задач,
// ролевой проверки здесь нет.
func (s *labelService) AddToTask(ctx context.Context, taskID, labelID int64) (*models.Label, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("Task not found")
	}
	label, err := s.labels.FindByID(ctx, labelID)
	if err != nil {
		return nil, err
	}
	if label == nil {
		return nil, apperr.NotFound("Label not found")
	}
	if err := s.labels.Attach(ctx, taskID, labelID); err != nil {
		return nil, apperr.MapUnique(err, "Label is already attached to this task")
	}
	return label, nil
}

func (s *labelService) RemoveFromTask(ctx context.Context, taskID, labelID int64) error {
	return s.labels.Detach(ctx, taskID, labelID)
}
