package models

import "time"

type BoardType string

const (
	BoardKanban BoardType = "KANBAN"
)

type Board struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	Type      BoardType `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// BoardView is a board hydrated with its tasks in column order.
type BoardView struct {
	Board
	Tasks []TaskView `json:"tasks"`
}
