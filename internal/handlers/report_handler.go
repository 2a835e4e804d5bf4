package handlers

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"taskcontrol/internal/services"
)

type ReportHandler struct {
	service services.ReportService
}

func NewReportHandler(service services.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GET /projects/:id/report
func (h *ReportHandler) ProjectSummary(c *gin.Context) {
	userID := getUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	report, err := h.service.ProjectSummary(c.Request.Context(), projectID, userID)
	if err != nil {
		log.Printf("[report][summary][err] project=%d: %v", projectID, err)
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, report)
}

// GET /projects/:id/report/pdf — генерирует и отдаёт PDF-файл.
func (h *ReportHandler) ProjectSummaryPDF(c *gin.Context) {
	userID := getUserID(c)
	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	path, err := h.service.ProjectSummaryPDF(c.Request.Context(), projectID, userID)
	if err != nil {
		log.Printf("[report][pdf][err] project=%d: %v", projectID, err)
		respondError(c, err)
		return
	}
	log.Printf("[report][pdf][ok] project=%d file=%s", projectID, path)
	c.FileAttachment(path, filepath.Base(path))
}
