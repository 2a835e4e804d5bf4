package repositories

import (
	"context"
	"database/sql"

	"taskcontrol/internal/models"
)

type BoardRepository interface {
	Create(ctx context.Context, board *models.Board) error
	CreateTx(ctx context.Context, tx *sql.Tx, board *models.Board) error
	FindByID(ctx context.Context, id int64) (*models.Board, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Board, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type boardRepository struct {
	db *sql.DB
}

func NewBoardRepository(db *sql.DB) BoardRepository {
	return &boardRepository{db: db}
}

const boardInsert = `INSERT INTO boards (project_id, name, type) VALUES ($1,$2,$3) RETURNING id, created_at`

func (r *boardRepository) Create(ctx context.Context, b *models.Board) error {
	return r.db.QueryRowContext(ctx, boardInsert, b.ProjectID, b.Name, b.Type).Scan(&b.ID, &b.CreatedAt)
}

func (r *boardRepository) CreateTx(ctx context.Context, tx *sql.Tx, b *models.Board) error {
	return tx.QueryRowContext(ctx, boardInsert, b.ProjectID, b.Name, b.Type).Scan(&b.ID, &b.CreatedAt)
}

func (r *boardRepository) FindByID(ctx context.Context, id int64) (*models.Board, error) {
	const q = `SELECT id, project_id, name, type, created_at FROM boards WHERE id = $1`
	b := &models.Board{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.ProjectID, &b.Name, &b.Type, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

func (r *boardRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Board, error) {
	const q = `SELECT id, project_id, name, type, created_at FROM boards WHERE project_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Board
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &b.Type, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *boardRepository) Rename(ctx context.Context, id int64, name string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE boards SET name=$1 WHERE id=$2`, name, id)
	return err
}

func (r *boardRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id=$1`, id)
	return err
}
