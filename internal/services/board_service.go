package services

import (
	"context"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

type BoardService interface {
	ListByProject(ctx context.Context, projectID int64) ([]models.Board, error)
	GetByID(ctx context.Context, boardID int64) (*models.BoardView, error)
	Create(ctx context.Context, projectID int64, name string, actorID int64) (*models.Board, error)
	Rename(ctx context.Context, boardID int64, name string, actorID int64) (*models.Board, error)
	Delete(ctx context.Context, boardID int64, actorID int64) error
}

type boardService struct {
	boards   repositories.BoardRepository
	tasks    repositories.TaskRepository
	projects ProjectService
}

func NewBoardService(boards repositories.BoardRepository, tasks repositories.TaskRepository, projects ProjectService) BoardService {
	return &boardService{boards: boards, tasks: tasks, projects: projects}
}

func (s *boardService) ListByProject(ctx context.Context, projectID int64) ([]models.Board, error) {
	return s.boards.ListByProject(ctx, projectID)
}

func (s *boardService) GetByID(ctx context.Context, boardID int64) (*models.BoardView, error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperr.NotFound("Board not found")
	}
	tasks, err := s.tasks.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	return &models.BoardView{Board: *board, Tasks: tasks}, nil
}

func (s *boardService) Create(ctx context.Context, projectID int64, name string, actorID int64) (*models.Board, error) {
	if err := s.projects.CheckMemberRole(ctx, projectID, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}
	board := &models.Board{ProjectID: projectID, Name: name, Type: models.BoardKanban}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *boardService) Rename(ctx context.Context, boardID int64, name string, actorID int64) (*models.Board, error) {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperr.NotFound("Board not found")
	}
	if err := s.projects.CheckMemberRole(ctx, board.ProjectID, actorID, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := s.boards.Rename(ctx, boardID, name); err != nil {
		return nil, err
	}
	board.Name = name
	return board, nil
}

// Delete refuses to drop a board that still owns tasks: это защитный
// барьер, не каскад.
func (s *boardService) Delete(ctx context.Context, boardID int64, actorID int64) error {
	board, err := s.boards.FindByID(ctx, boardID)
	if err != nil {
		return err
	}
	if board == nil {
		return apperr.NotFound("Board not found")
	}
	if err := s.projects.CheckMemberRole(ctx, board.ProjectID, actorID, models.RoleAdmin); err != nil {
		return err
	}

	count, err := s.tasks.CountByBoard(ctx, boardID)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.BadRequest("Cannot delete a board that has tasks. Move or delete tasks first.")
	}
	return s.boards.Delete(ctx, boardID)
}
