package models

import (
	"encoding/json"
	"time"
)

// ActivityAction tags the shape of the Changes payload.
type ActivityAction string

const (
	ActionCreated         ActivityAction = "CREATED"
	ActionStatusChanged   ActivityAction = "STATUS_CHANGED"
	ActionPriorityChanged ActivityAction = "PRIORITY_CHANGED"
	ActionAssigneeChanged ActivityAction = "ASSIGNEE_CHANGED"
	ActionTaskEdited      ActivityAction = "TASK_EDITED"
	ActionCommentAdded    ActivityAction = "COMMENT_ADDED"
)

// Activity is one immutable audit record for a task. Rows are only ever
// appended; nothing in the system updates or deletes them.
type Activity struct {
	ID        int64           `json:"id"`
	TaskID    int64           `json:"task_id"`
	UserID    int64           `json:"user_id"`
	Action    ActivityAction  `json:"action"`
	Changes   json.RawMessage `json:"changes"`
	CreatedAt time.Time       `json:"created_at"`
	User      *UserSummary    `json:"user,omitempty"`
}

// Payload variants, one per action. Constructors below are the only way
// activities get built, so every action keeps its declared shape.

// FieldChange is the {from,to} payload of *_CHANGED actions.
type FieldChange struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// TitleSnapshot is the CREATED payload.
type TitleSnapshot struct {
	Title string `json:"title"`
}

// EditedFields is the TASK_EDITED payload: which request fields were touched.
type EditedFields struct {
	Fields []string `json:"fields"`
}

// CommentRef is the COMMENT_ADDED payload.
type CommentRef struct {
	CommentID int64 `json:"comment_id"`
}

func NewCreatedActivity(taskID, userID int64, title string) *Activity {
	return newActivity(taskID, userID, ActionCreated, TitleSnapshot{Title: title})
}

func NewFieldChangeActivity(taskID, userID int64, action ActivityAction, from, to *string) *Activity {
	return newActivity(taskID, userID, action, FieldChange{From: from, To: to})
}

func NewTaskEditedActivity(taskID, userID int64, fields []string) *Activity {
	return newActivity(taskID, userID, ActionTaskEdited, EditedFields{Fields: fields})
}

func NewCommentAddedActivity(taskID, userID, commentID int64) *Activity {
	return newActivity(taskID, userID, ActionCommentAdded, CommentRef{CommentID: commentID})
}

func newActivity(taskID, userID int64, action ActivityAction, payload any) *Activity {
	raw, _ := json.Marshal(payload) // payload-типы выше не могут не сериализоваться
	return &Activity{TaskID: taskID, UserID: userID, Action: action, Changes: raw}
}
