package models

import "time"

// Comment is a remark on a task. Edited flips to true on the first
// successful edit and never resets.
type Comment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Content   string    `json:"content"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"created_at"`
}

type CommentView struct {
	Comment
	Author *UserSummary `json:"author,omitempty"`
}
