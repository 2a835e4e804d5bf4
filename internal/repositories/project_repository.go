package repositories

import (
	"context"
	"database/sql"

	"taskcontrol/internal/models"
)

type ProjectRepository interface {
	CreateTx(ctx context.Context, tx *sql.Tx, project *models.Project) error
	AddMemberTx(ctx context.Context, tx *sql.Tx, member *models.ProjectMember) error
	IncrementTaskCounterTx(ctx context.Context, tx *sql.Tx, projectID int64) (int64, error)

	FindByID(ctx context.Context, id int64) (*models.Project, error)
	FindByKey(ctx context.Context, key string) (*models.Project, error)
	ListForUser(ctx context.Context, userID int64) ([]models.ProjectView, error)
	GetView(ctx context.Context, id int64) (*models.ProjectView, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error

	AddMember(ctx context.Context, member *models.ProjectMember) error
	GetMember(ctx context.Context, projectID, userID int64) (*models.ProjectMember, error)
	ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID int64) error
}

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) CreateTx(ctx context.Context, tx *sql.Tx, p *models.Project) error {
	const q = `
		INSERT INTO projects (key, name, description, visibility, owner_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id, task_counter, created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		p.Key, p.Name, p.Description, p.Visibility, p.OwnerID,
	).Scan(&p.ID, &p.TaskCounter, &p.CreatedAt, &p.UpdatedAt)
}

func (r *projectRepository) AddMemberTx(ctx context.Context, tx *sql.Tx, m *models.ProjectMember) error {
	const q = `INSERT INTO project_members (project_id, user_id, role) VALUES ($1,$2,$3)`
	_, err := tx.ExecContext(ctx, q, m.ProjectID, m.UserID, m.Role)
	return err
}

// IncrementTaskCounterTx atomically bumps the counter and returns the new
// value. The single UPDATE..RETURNING is what keeps concurrent creators from
// ever seeing the same number.
func (r *projectRepository) IncrementTaskCounterTx(ctx context.Context, tx *sql.Tx, projectID int64) (int64, error) {
	const q = `UPDATE projects SET task_counter = task_counter + 1, updated_at = NOW()
		WHERE id = $1 RETURNING task_counter`
	var n int64
	if err := tx.QueryRowContext(ctx, q, projectID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

const projectColumns = `id, key, name, description, visibility, owner_id, task_counter, created_at, updated_at`

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*models.Project, error) {
	return r.findOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

func (r *projectRepository) FindByKey(ctx context.Context, key string) (*models.Project, error) {
	return r.findOne(ctx, `SELECT `+projectColumns+` FROM projects WHERE key = $1`, key)
}

func (r *projectRepository) findOne(ctx context.Context, q string, arg interface{}) (*models.Project, error) {
	p := &models.Project{}
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&p.ID, &p.Key, &p.Name, &p.Description, &p.Visibility, &p.OwnerID,
		&p.TaskCounter, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListForUser returns projects the user owns or is a member of, newest
// activity first, with owner summary and counts.
func (r *projectRepository) ListForUser(ctx context.Context, userID int64) ([]models.ProjectView, error) {
	const q = `
		SELECT p.id, p.key, p.name, p.description, p.visibility, p.owner_id,
		       p.task_counter, p.created_at, p.updated_at,
		       o.id, o.username, o.full_name, o.avatar,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id),
		       (SELECT COUNT(*) FROM project_members m WHERE m.project_id = p.id)
		FROM projects p
		JOIN users o ON o.id = p.owner_id
		WHERE p.owner_id = $1
		   OR EXISTS (SELECT 1 FROM project_members m WHERE m.project_id = p.id AND m.user_id = $1)
		ORDER BY p.updated_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProjectView
	for rows.Next() {
		var v models.ProjectView
		var owner models.UserSummary
		var avatar sql.NullString
		if err := rows.Scan(
			&v.ID, &v.Key, &v.Name, &v.Description, &v.Visibility, &v.OwnerID,
			&v.TaskCounter, &v.CreatedAt, &v.UpdatedAt,
			&owner.ID, &owner.Username, &owner.FullName, &avatar,
			&v.TaskCount, &v.MemberCount,
		); err != nil {
			return nil, err
		}
		if avatar.Valid {
			s := avatar.String
			owner.Avatar = &s
		}
		v.Owner = &owner
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *projectRepository) GetView(ctx context.Context, id int64) (*models.ProjectView, error) {
	const q = `
		SELECT p.id, p.key, p.name, p.description, p.visibility, p.owner_id,
		       p.task_counter, p.created_at, p.updated_at,
		       o.id, o.username, o.full_name, o.avatar,
		       (SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id)
		FROM projects p
		JOIN users o ON o.id = p.owner_id
		WHERE p.id = $1`
	var v models.ProjectView
	var owner models.UserSummary
	var avatar sql.NullString
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.Key, &v.Name, &v.Description, &v.Visibility, &v.OwnerID,
		&v.TaskCounter, &v.CreatedAt, &v.UpdatedAt,
		&owner.ID, &owner.Username, &owner.FullName, &avatar,
		&v.TaskCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if avatar.Valid {
		s := avatar.String
		owner.Avatar = &s
	}
	v.Owner = &owner

	if v.Members, err = r.ListMembers(ctx, id); err != nil {
		return nil, err
	}
	v.MemberCount = len(v.Members)

	const bq = `SELECT id, project_id, name, type, created_at FROM boards WHERE project_id=$1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, bq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var b models.Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &b.Type, &b.CreatedAt); err != nil {
			return nil, err
		}
		v.Boards = append(v.Boards, b)
	}
	return &v, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, p *models.Project) error {
	const q = `UPDATE projects SET name=$1, description=$2, visibility=$3, updated_at=NOW() WHERE id=$4`
	_, err := r.db.ExecContext(ctx, q, p.Name, p.Description, p.Visibility, p.ID)
	return err
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
	return err
}

func (r *projectRepository) AddMember(ctx context.Context, m *models.ProjectMember) error {
	const q = `INSERT INTO project_members (project_id, user_id, role) VALUES ($1,$2,$3)`
	_, err := r.db.ExecContext(ctx, q, m.ProjectID, m.UserID, m.Role)
	return err
}

func (r *projectRepository) GetMember(ctx context.Context, projectID, userID int64) (*models.ProjectMember, error) {
	const q = `SELECT project_id, user_id, role FROM project_members WHERE project_id=$1 AND user_id=$2`
	m := &models.ProjectMember{}
	err := r.db.QueryRowContext(ctx, q, projectID, userID).Scan(&m.ProjectID, &m.UserID, &m.Role)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	const q = `
		SELECT m.project_id, m.user_id, m.role, u.id, u.username, u.full_name, u.avatar
		FROM project_members m
		JOIN users u ON u.id = m.user_id
		WHERE m.project_id = $1
		ORDER BY m.user_id ASC`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ProjectMember
	for rows.Next() {
		var m models.ProjectMember
		var u models.UserSummary
		var avatar sql.NullString
		if err := rows.Scan(&m.ProjectID, &m.UserID, &m.Role, &u.ID, &u.Username, &u.FullName, &avatar); err != nil {
			return nil, err
		}
		if avatar.Valid {
			s := avatar.String
			u.Avatar = &s
		}
		m.User = &u
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id=$1 AND user_id=$2`, projectID, userID)
	return err
}
