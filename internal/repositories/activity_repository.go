package repositories

import (
	"context"
	"database/sql"

	"taskcontrol/internal/models"
)

// ActivityRepository is append-only: there is no update or delete on
// purpose. Rows are written from inside task/comment transactions and read
// back for the task detail feed.
type ActivityRepository interface {
	AppendTx(ctx context.Context, tx *sql.Tx, activity *models.Activity) error
	ListRecentByTask(ctx context.Context, taskID int64, limit int) ([]models.Activity, error)
}

type activityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) AppendTx(ctx context.Context, tx *sql.Tx, a *models.Activity) error {
	const q = `INSERT INTO activities (task_id, user_id, action, changes) VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q, a.TaskID, a.UserID, a.Action, []byte(a.Changes)).
		Scan(&a.ID, &a.CreatedAt)
}

func (r *activityRepository) ListRecentByTask(ctx context.Context, taskID int64, limit int) ([]models.Activity, error) {
	const q = `
		SELECT a.id, a.task_id, a.user_id, a.action, a.changes, a.created_at,
		       u.id, u.username, u.full_name, u.avatar
		FROM activities a
		JOIN users u ON u.id = a.user_id
		WHERE a.task_id = $1
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, taskID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Activity
	for rows.Next() {
		var a models.Activity
		var u models.UserSummary
		var avatar sql.NullString
		var changes []byte
		if err := rows.Scan(&a.ID, &a.TaskID, &a.UserID, &a.Action, &changes, &a.CreatedAt,
			&u.ID, &u.Username, &u.FullName, &avatar); err != nil {
			return nil, err
		}
		a.Changes = changes
		if avatar.Valid {
			s := avatar.String
			u.Avatar = &s
		}
		a.User = &u
		out = append(out, a)
	}
	return out, rows.Err()
}
