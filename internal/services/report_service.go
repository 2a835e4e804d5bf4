package services

import (
	"context"
	"time"

	"taskcontrol/internal/apperr"
	"taskcontrol/internal/models"
	"taskcontrol/internal/pdf"
	"taskcontrol/internal/repositories"
)

type ReportService interface {
	ProjectSummary(ctx context.Context, projectID, userID int64) (*models.ProjectReport, error)
	ProjectSummaryPDF(ctx context.Context, projectID, userID int64) (string, error)
}

type reportService struct {
	reports  repositories.ReportRepository
	projects repositories.ProjectRepository
	members  ProjectService
	pdfGen   pdf.Generator
}

func NewReportService(
	reports repositories.ReportRepository,
	projects repositories.ProjectRepository,
	members ProjectService,
	pdfGen pdf.Generator,
) ReportService {
	return &reportService{reports: reports, projects: projects, members: members, pdfGen: pdfGen}
}

// ProjectSummary is read-only, so any project role (включая VIEWER) passes.
func (s *reportService) ProjectSummary(ctx context.Context, projectID, userID int64) (*models.ProjectReport, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, apperr.NotFound("Project not found")
	}
	if project.Visibility == models.VisibilityPrivate {
		if err := s.members.CheckMemberRole(ctx, projectID, userID, models.RoleViewer); err != nil {
			return nil, err
		}
	}

	report, err := s.reports.ProjectTaskStats(ctx, projectID)
	if err != nil {
		return nil, err
	}
	report.ProjectKey = project.Key
	report.ProjectName = project.Name
	report.GeneratedAt = time.Now()
	return report, nil
}

func (s *reportService) ProjectSummaryPDF(ctx context.Context, projectID, userID int64) (string, error) {
	report, err := s.ProjectSummary(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	return s.pdfGen.GenerateProjectReport(report)
}
