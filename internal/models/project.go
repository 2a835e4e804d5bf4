package models

import "time"

// Visibility controls who can see a project.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// MemberRole is the per-project role of a member.
type MemberRole string

const (
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
	RoleViewer MemberRole = "VIEWER"
)

// Project owns boards, tasks, labels and members. TaskCounter is the
// monotonic source of task keys: it only ever goes up, one increment per
// created task.
type Project struct {
	ID          int64      `json:"id"`
	Key         string     `json:"key"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Visibility  Visibility `json:"visibility"`
	OwnerID     int64      `json:"owner_id"`
	TaskCounter int64      `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectView hydrates a project for list/detail responses.
type ProjectView struct {
	Project
	Owner       *UserSummary    `json:"owner,omitempty"`
	Members     []ProjectMember `json:"members,omitempty"`
	Boards      []Board         `json:"boards,omitempty"`
	TaskCount   int             `json:"task_count"`
	MemberCount int             `json:"member_count"`
}

type ProjectMember struct {
	ProjectID int64        `json:"project_id"`
	UserID    int64        `json:"user_id"`
	Role      MemberRole   `json:"role"`
	User      *UserSummary `json:"user,omitempty"`
}

func IsValidMemberRole(r MemberRole) bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}
