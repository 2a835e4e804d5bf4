package models

import "time"

// TaskStatus defines the Kanban columns a task can live in.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "TO_DO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusInReview   TaskStatus = "IN_REVIEW"
	StatusDone       TaskStatus = "DONE"
)

type TaskType string

const (
	TypeTask    TaskType = "TASK"
	TypeBug     TaskType = "BUG"
	TypeFeature TaskType = "FEATURE"
	TypeStory   TaskType = "STORY"
)

type TaskPriority string

const (
	PriorityLow      TaskPriority = "LOW"
	PriorityMedium   TaskPriority = "MEDIUM"
	PriorityHigh     TaskPriority = "HIGH"
	PriorityCritical TaskPriority = "CRITICAL"
)

// Task represents one tracked work item. Key is "<projectKey>-<n>" where n
// comes from the project's task counter. Position orders the task inside
// its (board, status) column only; it means nothing across columns.
type Task struct {
	ID          int64        `json:"id"`
	ProjectID   int64        `json:"project_id"`
	BoardID     int64        `json:"board_id"`
	Key         string       `json:"key"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Type        TaskType     `json:"type"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	AssigneeID  *int64       `json:"assignee_id,omitempty"`
	CreatorID   int64        `json:"creator_id"`
	DueDate     *time.Time   `json:"due_date,omitempty"`
	Position    int          `json:"position"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TaskView is the hydrated task returned by the API.
type TaskView struct {
	Task
	Assignee     *UserSummary `json:"assignee,omitempty"`
	Creator      *UserSummary `json:"creator,omitempty"`
	Labels       []Label      `json:"labels"`
	CommentCount int          `json:"comment_count"`
}

// TaskDetail additionally carries comments and the recent activity feed.
type TaskDetail struct {
	TaskView
	Comments   []CommentView `json:"comments"`
	Activities []Activity    `json:"activities"`
}

// TaskFilter defines the available parameters for filtering a project's tasks.
type TaskFilter struct {
	Status     *TaskStatus
	Priority   *TaskPriority
	Type       *TaskType
	AssigneeID *int64
	Search     *string // по title и key
}

func IsValidTaskStatus(s TaskStatus) bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

func IsValidTaskType(t TaskType) bool {
	switch t {
	case TypeTask, TypeBug, TypeFeature, TypeStory:
		return true
	}
	return false
}

func IsValidTaskPriority(p TaskPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
