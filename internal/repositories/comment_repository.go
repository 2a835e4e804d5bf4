package repositories

import (
	"context"
	"database/sql"

	"taskcontrol/internal/models"
)

type CommentRepository interface {
	InsertTx(ctx context.Context, tx *sql.Tx, comment *models.Comment) error
	FindByID(ctx context.Context, id int64) (*models.Comment, error)
	GetView(ctx context.Context, id int64) (*models.CommentView, error)
	ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) InsertTx(ctx context.Context, tx *sql.Tx, c *models.Comment) error {
	const q = `INSERT INTO comments (task_id, author_id, content) VALUES ($1,$2,$3)
		RETURNING id, edited, created_at`
	return tx.QueryRowContext(ctx, q, c.TaskID, c.AuthorID, c.Content).Scan(&c.ID, &c.Edited, &c.CreatedAt)
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*models.Comment, error) {
	const q = `SELECT id, task_id, author_id, content, edited, created_at FROM comments WHERE id=$1`
	c := &models.Comment{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.TaskID, &c.AuthorID, &c.Content, &c.Edited, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

const commentViewQuery = `
	SELECT c.id, c.task_id, c.author_id, c.content, c.edited, c.created_at,
	       u.id, u.username, u.full_name, u.avatar
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func (r *commentRepository) GetView(ctx context.Context, id int64) (*models.CommentView, error) {
	row := r.db.QueryRowContext(ctx, commentViewQuery+` WHERE c.id = $1`, id)
	v, err := scanCommentView(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return v, err
}

// ListByTask: все комментарии задачи, старые сверху.
func (r *commentRepository) ListByTask(ctx context.Context, taskID int64) ([]models.CommentView, error) {
	rows, err := r.db.QueryContext(ctx, commentViewQuery+` WHERE c.task_id = $1 ORDER BY c.created_at ASC`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.CommentView
	for rows.Next() {
		v, err := scanCommentView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

func scanCommentView(row rowScanner) (*models.CommentView, error) {
	var v models.CommentView
	var u models.UserSummary
	var avatar sql.NullString
	err := row.Scan(&v.ID, &v.TaskID, &v.AuthorID, &v.Content, &v.Edited, &v.CreatedAt,
		&u.ID, &u.Username, &u.FullName, &avatar)
	if err != nil {
		return nil, err
	}
	if avatar.Valid {
		s := avatar.String
		u.Avatar = &s
	}
	v.Author = &u
	return &v, nil
}

// UpdateContent помечает комментарий как отредактированный навсегда:
// edited обратно в false никогда не сбрасывается.
func (r *commentRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE comments SET content=$1, edited=TRUE WHERE id=$2`, content, id)
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id=$1`, id)
	return err
}
