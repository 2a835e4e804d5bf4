package models

import "time"

// ProjectReport aggregates a project's task counts for the report endpoint
// and the PDF export.
type ProjectReport struct {
	ProjectID   int64                `json:"project_id"`
	ProjectKey  string               `json:"project_key"`
	ProjectName string               `json:"project_name"`
	Total       int                  `json:"total"`
	Done        int                  `json:"done"`
	Overdue     int                  `json:"overdue"`
	ByStatus    map[TaskStatus]int   `json:"by_status"`
	ByPriority  map[TaskPriority]int `json:"by_priority"`
	ByType      map[TaskType]int     `json:"by_type"`
	GeneratedAt time.Time            `json:"generated_at"`
}
