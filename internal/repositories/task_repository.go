package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"taskcontrol/internal/models"
)

// TaskUpdate carries a partial update: nil pointer — поле не трогаем,
// Clear* — явный null в запросе, сбрасываем значение.
type TaskUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Type             *models.TaskType
	Priority         *models.TaskPriority
	Status           *models.TaskStatus
	AssigneeID       *int64
	ClearAssignee    bool
	DueDate          *time.Time
	ClearDueDate     bool
	Position         *int
}

type TaskRepository interface {
	InsertTx(ctx context.Context, tx *sql.Tx, task *models.Task) error
	NextPositionTx(ctx context.Context, tx *sql.Tx, boardID int64, status models.TaskStatus) (int, error)
	UpdateTx(ctx context.Context, tx *sql.Tx, id int64, upd TaskUpdate) error

	FindByID(ctx context.Context, id int64) (*models.Task, error)
	GetView(ctx context.Context, id int64) (*models.TaskView, error)
	ListByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.TaskView, error)
	ListByBoard(ctx context.Context, boardID int64) ([]models.TaskView, error)
	CountByBoard(ctx context.Context, boardID int64) (int, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
	Delete(ctx context.Context, id int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) InsertTx(ctx context.Context, tx *sql.Tx, task *models.Task) error {
	const q = `
		INSERT INTO tasks (
			project_id, board_id, key, title, description, type, priority,
			status, assignee_id, creator_id, due_date, position
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		RETURNING id, created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		task.ProjectID, task.BoardID, task.Key, task.Title, task.Description,
		task.Type, task.Priority, task.Status, task.AssigneeID, task.CreatorID,
		task.DueDate, task.Position,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

// NextPositionTx appends to the end of the (board, status) column:
// max существующих позиций + 1, либо 0 для пустой колонки.
func (r *taskRepository) NextPositionTx(ctx context.Context, tx *sql.Tx, boardID int64, status models.TaskStatus) (int, error) {
	const q = `SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE board_id=$1 AND status=$2`
	var pos int
	if err := tx.QueryRowContext(ctx, q, boardID, status).Scan(&pos); err != nil {
		return 0, err
	}
	return pos, nil
}

func (r *taskRepository) UpdateTx(ctx context.Context, tx *sql.Tx, id int64, upd TaskUpdate) error {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argID := 1

	add := func(col string, v interface{}) {
		sets = append(sets, fmt.Sprintf("%s=$%d", col, argID))
		args = append(args, v)
		argID++
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.ClearDescription {
		sets = append(sets, "description=NULL")
	} else if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Type != nil {
		add("type", *upd.Type)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.ClearAssignee {
		sets = append(sets, "assignee_id=NULL")
	} else if upd.AssigneeID != nil {
		add("assignee_id", *upd.AssigneeID)
	}
	if upd.ClearDueDate {
		sets = append(sets, "due_date=NULL")
	} else if upd.DueDate != nil {
		add("due_date", *upd.DueDate)
	}
	if upd.Position != nil {
		add("position", *upd.Position)
	}

	q := fmt.Sprintf("UPDATE tasks SET %s WHERE id=$%d", strings.Join(sets, ", "), argID)
	args = append(args, id)
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	const q = `
		SELECT id, project_id, board_id, key, title, description, type, priority,
		       status, assignee_id, creator_id, due_date, position, created_at, updated_at
		FROM tasks WHERE id = $1`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&task.ID, &task.ProjectID, &task.BoardID, &task.Key, &task.Title, &task.Description,
		&task.Type, &task.Priority, &task.Status, &task.AssigneeID, &task.CreatorID,
		&task.DueDate, &task.Position, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

const taskViewColumns = `
	t.id, t.project_id, t.board_id, t.key, t.title, t.description, t.type, t.priority,
	t.status, t.assignee_id, t.creator_id, t.due_date, t.position, t.created_at, t.updated_at,
	a.id, a.username, a.full_name, a.avatar,
	c.id, c.username, c.full_name, c.avatar,
	(SELECT COUNT(*) FROM comments cm WHERE cm.task_id = t.id)`

const taskViewJoins = `
	LEFT JOIN users a ON a.id = t.assignee_id
	JOIN users c ON c.id = t.creator_id`

func (r *taskRepository) GetView(ctx context.Context, id int64) (*models.TaskView, error) {
	q := `SELECT ` + taskViewColumns + ` FROM tasks t` + taskViewJoins + ` WHERE t.id = $1`
	row := r.db.QueryRowContext(ctx, q, id)
	view, err := scanTaskView(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if err := r.loadLabels(ctx, []*models.TaskView{view}); err != nil {
		return nil, err
	}
	return view, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int64, filter models.TaskFilter) ([]models.TaskView, error) {
	conditions := []string{"t.project_id = $1"}
	args := []interface{}{projectID}
	argID := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Priority != nil {
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", argID))
		args = append(args, *filter.Priority)
		argID++
	}
	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("t.type = $%d", argID))
		args = append(args, *filter.Type)
		argID++
	}
	if filter.AssigneeID != nil {
		conditions = append(conditions, fmt.Sprintf("t.assignee_id = $%d", argID))
		args = append(args, *filter.AssigneeID)
		argID++
	}
	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(t.title ILIKE $%d OR t.key ILIKE $%d)", argID, argID))
		args = append(args, "%"+*filter.Search+"%")
		argID++
	}

	q := `SELECT ` + taskViewColumns + ` FROM tasks t` + taskViewJoins +
		` WHERE ` + strings.Join(conditions, " AND ") + ` ORDER BY t.position ASC`
	return r.queryViews(ctx, q, args...)
}

func (r *taskRepository) ListByBoard(ctx context.Context, boardID int64) ([]models.TaskView, error) {
	q := `SELECT ` + taskViewColumns + ` FROM tasks t` + taskViewJoins +
		` WHERE t.board_id = $1 ORDER BY t.position ASC`
	return r.queryViews(ctx, q, boardID)
}

func (r *taskRepository) CountByBoard(ctx context.Context, boardID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE board_id=$1`, boardID).Scan(&n)
	return n, err
}

func (r *taskRepository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id=$1`, projectID).Scan(&n)
	return n, err
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	// метки/комментарии/активности снимает каскад внешних ключей
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *taskRepository) queryViews(ctx context.Context, q string, args ...interface{}) ([]models.TaskView, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.TaskView
	var ptrs []*models.TaskView
	for rows.Next() {
		v, err := scanTaskView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range views {
		ptrs = append(ptrs, &views[i])
	}
	if err := r.loadLabels(ctx, ptrs); err != nil {
		return nil, err
	}
	return views, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTaskView(row rowScanner) (*models.TaskView, error) {
	var v models.TaskView
	var (
		aID              sql.NullInt64
		aName, aFull     sql.NullString
		aAvatar, cAvatar sql.NullString
		cID              sql.NullInt64
		cName, cFull     sql.NullString
	)
	err := row.Scan(
		&v.ID, &v.ProjectID, &v.BoardID, &v.Key, &v.Title, &v.Description, &v.Type, &v.Priority,
		&v.Status, &v.AssigneeID, &v.CreatorID, &v.DueDate, &v.Position, &v.CreatedAt, &v.UpdatedAt,
		&aID, &aName, &aFull, &aAvatar,
		&cID, &cName, &cFull, &cAvatar,
		&v.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	if aID.Valid {
		v.Assignee = &models.UserSummary{ID: aID.Int64, Username: aName.String, FullName: aFull.String}
		if aAvatar.Valid {
			s := aAvatar.String
			v.Assignee.Avatar = &s
		}
	}
	if cID.Valid {
		v.Creator = &models.UserSummary{ID: cID.Int64, Username: cName.String, FullName: cFull.String}
		if cAvatar.Valid {
			s := cAvatar.String
			v.Creator.Avatar = &s
		}
	}
	v.Labels = []models.Label{}
	return &v, nil
}

// loadLabels подтягивает метки одним запросом на весь список задач.
func (r *taskRepository) loadLabels(ctx context.Context, views []*models.TaskView) error {
	if len(views) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(views))
	byID := make(map[int64]*models.TaskView, len(views))
	for _, v := range views {
		ids = append(ids, v.ID)
		byID[v.ID] = v
	}

	const q = `
		SELECT tl.task_id, l.id, l.project_id, l.name, l.color
		FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id = ANY($1)
		ORDER BY l.name ASC`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(ids))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID int64
		var l models.Label
		if err := rows.Scan(&taskID, &l.ID, &l.ProjectID, &l.Name, &l.Color); err != nil {
			return err
		}
		if v, ok := byID[taskID]; ok {
			v.Labels = append(v.Labels, l)
		}
	}
	return rows.Err()
}
