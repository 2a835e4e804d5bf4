package services

import (
	"context"
	"database/sql"
	"regexp"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/authz"
	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

// Большие латинские буквы/цифры, первая — буква. Ключ неизменяем после создания.
var projectKeyRe = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

type CreateProjectInput struct {
	Name        string
	Key         string
	Description *string
	Visibility  models.Visibility
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Visibility  *models.Visibility
}

type ProjectService interface {
	List(ctx context.Context, userID int64) ([]models.ProjectView, error)
	GetByID(ctx context.Context, projectID, userID int64) (*models.ProjectView, error)
	Create(ctx context.Context, input CreateProjectInput, userID int64) (*models.ProjectView, error)
	Update(ctx context.Context, projectID int64, input UpdateProjectInput, userID int64) (*models.ProjectView, error)
	Delete(ctx context.Context, projectID, userID int64) error

	AddMember(ctx context.Context, projectID, targetUserID int64, role models.MemberRole, userID int64) (*models.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, targetUserID, userID int64) error
	ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error)

	// CheckMemberRole answers the authorization question "does actor hold
	// at least this role on this project". The owner always passes.
	CheckMemberRole(ctx context.Context, projectID, userID int64, min models.MemberRole) error
}

type projectService struct {
	txr      repositories.TxRunner
	projects repositories.ProjectRepository
	boards   repositories.BoardRepository
	users    repositories.UserRepository
}

func NewProjectService(
	txr repositories.TxRunner,
	projects repositories.ProjectRepository,
	boards repositories.BoardRepository,
	users repositories.UserRepository,
) ProjectService {
	return &projectService{txr: txr, projects: projects, boards: boards, users: users}
}

func (s *projectService) List(ctx context.Context, userID int64) ([]models.ProjectView, error) {
	return s.projects.ListForUser(ctx, userID)
}

func (s *projectService) GetByID(ctx context.Context, projectID, userID int64) (*models.ProjectView, error) {
	view, err := s.projects.GetView(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, apperr.NotFound("Project not found")
	}

	isMember := view.OwnerID == userID
	for _, m := range view.Members {
		if m.UserID == userID {
			isMember = true
			break
		}
	}
	if !isMember && view.Visibility == models.VisibilityPrivate {
		return nil, apperr.Forbidden("You do not have access to this project")
	}
	return view, nil
}

func (s *projectService) Create(ctx context.Context, input CreateProjectInput, userID int64) (*models.ProjectView, error) {
	if len(input.Key) < 2 || len(input.Key) > 10 || !projectKeyRe.MatchString(input.Key) {
		return nil, apperr.BadRequest("Key must be uppercase letters/numbers, starting with a letter")
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityPrivate
	}

	existing, err := s.projects.FindByKey(ctx, input.Key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("Project key already exists")
	}

	project := &models.Project{
		Key:         input.Key,
		Name:        input.Name,
		Description: input.Description,
		Visibility:  input.Visibility,
		OwnerID:     userID,
	}
	err = s.txr.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.projects.CreateTx(ctx, tx, project); err != nil {
			return apperr.MapUnique(err, "Project key already exists")
		}
		// владелец сразу ADMIN-участник
		member := &models.ProjectMember{ProjectID: project.ID, UserID: userID, Role: models.RoleAdmin}
		if err := s.projects.AddMemberTx(ctx, tx, member); err != nil {
			return err
		}
		// дефолтная kanban-доска
		board := &models.Board{ProjectID: project.ID, Name: "Main Board", Type: models.BoardKanban}
		return s.boards.CreateTx(ctx, tx, board)
	})
	if err != nil {
		return nil, err
	}
	return s.projects.GetView(ctx, project.ID)
}

func (s *projectService) Update(ctx context.Context, projectID int64, input UpdateProjectInput, userID int64) (*models.ProjectView, error) {
	if err := s.CheckMemberRole(ctx, projectID, userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}

	if input.Name != nil {
		project.Name = *input.Name
	}
	if input.Description != nil {
		project.Description = input.Description
	}
	if input.Visibility != nil {
		project.Visibility = *input.Visibility
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.projects.GetView(ctx, projectID)
}

func (s *projectService) Delete(ctx context.Context, projectID, userID int64) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return apperr.NotFound("Project not found")
	}
	if project.OwnerID != userID {
		return apperr.Forbidden("Only the owner can delete this project")
	}
	return s.projects.Delete(ctx, projectID)
}

func (s *projectService) AddMember(ctx context.Context, projectID, targetUserID int64, role models.MemberRole, userID int64) (*models.ProjectMember, error) {
	if err := s.CheckMemberRole(ctx, projectID, userID, models.RoleAdmin); err != nil {
		return nil, err
	}

	target, err := s.users.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperr.NotFound("User not found")
	}

	existing, err := s.projects.GetMember(ctx, projectID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("User is already a member")
	}

	if role == "" {
		role = models.RoleMember
	}
	member := &models.ProjectMember{ProjectID: projectID, UserID: targetUserID, Role: role}
	if err := s.projects.AddMember(ctx, member); err != nil {
		return nil, apperr.MapUnique(err, "User is already a member")
	}
	member.User = target.Summary()
	return member, nil
}

func (s *projectService) RemoveMember(ctx context.Context, projectID, targetUserID, userID int64) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return apperr.NotFound("Project not found")
	}
	if project.OwnerID == targetUserID {
		return apperr.BadRequest("Cannot remove the project owner")
	}
	if err := s.CheckMemberRole(ctx, projectID, userID, models.RoleAdmin); err != nil {
		return err
	}
	return s.projects.RemoveMember(ctx, projectID, targetUserID)
}

func (s *projectService) ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	return s.projects.ListMembers(ctx, projectID)
}

func (s *projectService) CheckMemberRole(ctx context.Context, projectID, userID int64, min models.MemberRole) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return apperr.NotFound("Project not found")
	}

	// владелец авторизован всегда, даже без строки участника
	if project.OwnerID == userID {
		return nil
	}

	member, err := s.projects.GetMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if member != nil && authz.AtLeast(member.Role, min) {
		return nil
	}
	return apperr.Forbidden("Insufficient permissions")
}
