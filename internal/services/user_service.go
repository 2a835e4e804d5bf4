package services

import (
	"context"
	"strings"
	"time"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
	"taskcontrol/internal/repositories"
)

// PublicProfile is what other users see: без email и внутренних полей.
type PublicProfile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UserService interface {
	Search(ctx context.Context, query string) ([]models.UserSummary, error)
	GetProfile(ctx context.Context, userID int64) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, userID int64, fullName *string, avatar *string) (*PublicProfile, error)
}

type userService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) UserService {
	return &userService{users: users}
}

const searchLimit = 20

func (s *userService) Search(ctx context.Context, query string) ([]models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.UserSummary{}, nil
	}
	return s.users.Search(ctx, query, searchLimit)
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (*PublicProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return profileOf(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, fullName *string, avatar *string) (*PublicProfile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if fullName != nil {
		user.FullName = *fullName
	}
	if avatar != nil {
		user.Avatar = avatar
	}
	if err := s.users.UpdateProfile(ctx, userID, user.FullName, user.Avatar); err != nil {
		return nil, err
	}
	return profileOf(user), nil
}

func profileOf(u *models.User) *PublicProfile {
	return &PublicProfile{
		ID:        u.ID,
		Username:  u.Username,
		FullName:  u.FullName,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}
