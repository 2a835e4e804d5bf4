package repositories

import (
	"context"
	"database/sql"

	"taskcontrol/internal/models"
)

type LabelRepository interface {
	Create(ctx context.Context, label *models.Label) error
	FindByID(ctx context.Context, id int64) (*models.Label, error)
	FindByName(ctx context.Context, projectID int64, name string) (*models.Label, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Label, error)
	Update(ctx context.Context, label *models.Label) error
	Delete(ctx context.Context, id int64) error

	AttachTx(ctx context.Context, tx *sql.Tx, taskID int64, labelIDs []int64) error
	Attach(ctx context.Context, taskID, labelID int64) error
	Detach(ctx context.Context, taskID, labelID int64) error
}

type labelRepository struct {
	db *sql.DB
}

func NewLabelRepository(db *sql.DB) LabelRepository {
	return &labelRepository{db: db}
}

func (r *labelRepository) Create(ctx context.Context, l *models.Label) error {
	const q = `INSERT INTO labels (project_id, name, color) VALUES ($1,$2,$3) RETURNING id`
	return r.db.QueryRowContext(ctx, q, l.ProjectID, l.Name, l.Color).Scan(&l.ID)
}

func (r *labelRepository) FindByID(ctx context.Context, id int64) (*models.Label, error) {
	return r.findOne(ctx, `SELECT id, project_id, name, color FROM labels WHERE id=$1`, id)
}

func (r *labelRepository) FindByName(ctx context.Context, projectID int64, name string) (*models.Label, error) {
	return r.findOne(ctx, `SELECT id, project_id, name, color FROM labels WHERE project_id=$1 AND name=$2`, projectID, name)
}

func (r *labelRepository) findOne(ctx context.Context, q string, args ...interface{}) (*models.Label, error) {
	l := &models.Label{}
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&l.ID, &l.ProjectID, &l.Name, &l.Color)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

func (r *labelRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Label, error) {
	const q = `SELECT id, project_id, name, color FROM labels WHERE project_id=$1 ORDER BY name ASC`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Label
	for rows.Next() {
		var l models.Label
		if err := rows.Scan(&l.ID, &l.ProjectID, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *labelRepository) Update(ctx context.Context, l *models.Label) error {
	_, err := r.db.ExecContext(ctx, `UPDATE labels SET name=$1, color=$2 WHERE id=$3`, l.Name, l.Color, l.ID)
	return err
}

func (r *labelRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM labels WHERE id=$1`, id)
	return err
}

func (r *labelRepository) AttachTx(ctx context.Context, tx *sql.Tx, taskID int64, labelIDs []int64) error {
	const q = `INSERT INTO task_labels (task_id, label_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`
	for _, labelID := range labelIDs {
		if _, err := tx.ExecContext(ctx, q, taskID, labelID); err != nil {
			return err
		}
	}
	return nil
}

func (r *labelRepository) Attach(ctx context.Context, taskID, labelID int64) error {
	const q = `INSERT INTO task_labels (task_id, label_id) VALUES ($1,$2)`
	_, err := r.db.ExecContext(ctx, q, taskID, labelID)
	return err
}

func (r *labelRepository) Detach(ctx context.Context, taskID, labelID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM task_labels WHERE task_id=$1 AND label_id=$2`, taskID, labelID)
	return err
}
