package repositories

import (
	"context"
	"database/sql"

	"taskcontrol/internal/models"
)

type ReportRepository interface {
	ProjectTaskStats(ctx context.Context, projectID int64) (*models.ProjectReport, error)
}

type reportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) ProjectTaskStats(ctx context.Context, projectID int64) (*models.ProjectReport, error) {
	report := &models.ProjectReport{
		ProjectID:  projectID,
		ByStatus:   map[models.TaskStatus]int{},
		ByPriority: map[models.TaskPriority]int{},
		ByType:     map[models.TaskType]int{},
	}

	const q = `
		SELECT status, priority, type, COUNT(*)
		FROM tasks
		WHERE project_id = $1
		GROUP BY status, priority, type`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.TaskStatus
		var priority models.TaskPriority
		var typ models.TaskType
		var n int
		if err := rows.Scan(&status, &priority, &typ, &n); err != nil {
			return nil, err
		}
		report.Total += n
		report.ByStatus[status] += n
		report.ByPriority[priority] += n
		report.ByType[typ] += n
		if status == models.StatusDone {
			report.Done += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const oq = `
		SELECT COUNT(*) FROM tasks
		WHERE project_id = $1 AND due_date IS NOT NULL AND due_date < NOW() AND status <> 'DONE'`
	if err := r.db.QueryRowContext(ctx, oq, projectID).Scan(&report.Overdue); err != nil {
		return nil, err
	}
	return report, nil
}
