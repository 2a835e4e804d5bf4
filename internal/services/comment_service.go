package services

import (
	"context"
	"database/sql"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

// CommentService: замечания к задаче. Создание пишет COMMENT_ADDED в
// историю в той же транзакции; правка и удаление доступны только автору.
type CommentService interface {
	ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error)
	Create(ctx context.Context, taskID int64, content string, authorID int64) (*models.CommentView, error)
	Update(ctx context.Context, commentID int64, content string, actorID int64) (*models.CommentView, error)
	Delete(ctx context.Context, commentID int64, actorID int64) error
}

type commentService struct {
	txr        repositories.TxRunner
	comments   repositories.CommentRepository
	tasks      repositories.TaskRepository
	activities repositories.ActivityRepository
}

func NewCommentService(
	txr repositories.TxRunner,
	comments repositories.CommentRepository,
	tasks repositories.TaskRepository,
	activities repositories.ActivityRepository,
) CommentService {
	return &commentService{txr: txr, comments: comments, tasks: tasks, activities: activities}
}

func (s *commentService) ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error) {
	return s.comments.ListByTask(ctx, taskID)
}

func (s *commentService) Create(ctx context.Context, taskID int64, content string, authorID int64) (*models.CommentView, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, apperr.NotFound("Task not found")
	}

	comment := &models.Comment{TaskID: taskID, AuthorID: authorID, Content: content}
	err = s.txr.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.comments.InsertTx(ctx, tx, comment); err != nil {
			return err
		}
		return s.activities.AppendTx(ctx, tx, models.NewCommentAddedActivity(taskID, authorID, comment.ID))
	})
	if err != nil {
		return nil, err
	}
	return s.comments.GetView(ctx, comment.ID)
}

func (s *commentService) Update(ctx context.Context, commentID int64, content string, actorID int64) (*models.CommentView, error) {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, apperr.NotFound("Comment not found")
	}
	if comment.AuthorID != actorID {
		return nil, apperr.Forbidden("You can only edit your own comments")
	}

	// правки истории не пишут; edited после этого уже не сбросить
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.comments.GetView(ctx, commentID)
}

func (s *commentService) Delete(ctx context.Context, commentID int64, actorID int64) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return apperr.NotFound("Comment not found")
	}
	if comment.AuthorID != actorID {
		return apperr.Forbidden("You can only delete your own comments")
	}
	return s.comments.Delete(ctx, commentID)
}
