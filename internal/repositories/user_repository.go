package repositories

import (
	"context"
	"database/sql"
	"time"

	"taskcontrol/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error)
	UpdateProfile(ctx context.Context, id int64, fullName string, avatar *string) error

	// refresh helpers
	UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)
	ClearRefresh(ctx context.Context, userID int64) error

	// настройки уведомлений исполнителя
	GetNotifySettings(ctx context.Context, userID int64) (chatID int64, tgOn, emailOn bool, email string, err error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	const q = `
		INSERT INTO users (email, username, password_hash, full_name, avatar, is_active)
		VALUES ($1,$2,$3,$4,$5,TRUE)
		RETURNING id, is_active, created_at`
	return r.db.QueryRowContext(ctx, q,
		u.Email, u.Username, u.PasswordHash, u.FullName, u.Avatar,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt)
}

const userColumns = `
	id, email, username, password_hash, full_name, avatar, is_active, created_at,
	refresh_token, refresh_expires_at,
	COALESCE(telegram_chat_id, 0), COALESCE(notify_telegram, TRUE), COALESCE(notify_email, TRUE)`

func (r *userRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *userRepository) findOne(ctx context.Context, q string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	var (
		avatar sql.NullString
		rt     sql.NullString
		rte    sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.FullName, &avatar, &u.IsActive, &u.CreatedAt,
		&rt, &rte,
		&u.TelegramChatID, &u.NotifyTelegram, &u.NotifyEmail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	if avatar.Valid {
		s := avatar.String
		u.Avatar = &s
	}
	if rt.Valid {
		s := rt.String
		u.RefreshToken = &s
	}
	if rte.Valid {
		t := rte.Time
		u.RefreshExpiresAt = &t
	}
	return u, nil
}

func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]models.UserSummary, error) {
	const q = `
		SELECT id, username, full_name, avatar
		FROM users
		WHERE is_active = TRUE
		  AND (username ILIKE $1 OR full_name ILIKE $1 OR email ILIKE $1)
		ORDER BY username ASC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UserSummary
	for rows.Next() {
		var u models.UserSummary
		var avatar sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &u.FullName, &avatar); err != nil {
			return nil, err
		}
		if avatar.Valid {
			s := avatar.String
			u.Avatar = &s
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, id int64, fullName string, avatar *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET full_name=$1, avatar=$2 WHERE id=$3`, fullName, avatar, id)
	return err
}

func (r *userRepository) UpdateRefresh(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	const q = `UPDATE users SET refresh_token=$1, refresh_expires_at=$2 WHERE id=$3`
	_, err := r.db.ExecContext(ctx, q, token, expiresAt, userID)
	return err
}

func (r *userRepository) FindByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE refresh_token = $1`, token)
}

func (r *userRepository) ClearRefresh(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET refresh_token=NULL, refresh_expires_at=NULL WHERE id=$1`, userID)
	return err
}

func (r *userRepository) GetNotifySettings(ctx context.Context, userID int64) (int64, bool, bool, string, error) {
	const q = `
		SELECT COALESCE(telegram_chat_id,0), COALESCE(notify_telegram,TRUE), COALESCE(notify_email,TRUE), email
		FROM users WHERE id=$1`
	var chatID int64
	var tgOn, emailOn bool
	var email string
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&chatID, &tgOn, &emailOn, &email)
	if err != nil {
		return 0, false, false, "", err
	}
	return chatID, tgOn, emailOn, email, nil
}
