package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"taskcontrol/internal/models"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateProjectReport(report *models.ProjectReport) (string, error)
}

// ReportGenerator renders a one-page project summary sheet.
type ReportGenerator struct {
	RootDir string // корень хранения, например "./files"
}

func NewReportGenerator(rootDir string) *ReportGenerator {
	return &ReportGenerator{RootDir: filepath.Clean(rootDir)}
}

func (g *ReportGenerator) GenerateProjectReport(report *models.ProjectReport) (string, error) {
	filename := fmt.Sprintf("report_%s_%s.pdf", report.ProjectKey, report.GeneratedAt.Format("20060102_150405"))
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Project report %s", report.ProjectKey), false)
	pdf.SetAuthor("TaskControl", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s — %s", report.ProjectKey, report.ProjectName), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	sub := fmt.Sprintf("Generated %s", report.GeneratedAt.Format("02.01.2006 15:04"))
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)
	pdf.Ln(3)

	// ===== Итоги
	g.sectionTitle(pdf, "Totals")
	g.kvLine(pdf, "Tasks", fmt.Sprintf("%d", report.Total))
	g.kvLine(pdf, "Done", fmt.Sprintf("%d", report.Done))
	g.kvLine(pdf, "Overdue", fmt.Sprintf("%d", report.Overdue))
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Разрезы
	g.sectionTitle(pdf, "By status")
	for _, s := range []models.TaskStatus{models.StatusToDo, models.StatusInProgress, models.StatusInReview, models.StatusDone} {
		g.kvLine(pdf, string(s), fmt.Sprintf("%d", report.ByStatus[s]))
	}
	pdf.Ln(2)

	g.sectionTitle(pdf, "By priority")
	for _, p := range []models.TaskPriority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityCritical} {
		g.kvLine(pdf, string(p), fmt.Sprintf("%d", report.ByPriority[p]))
	}
	pdf.Ln(2)

	g.sectionTitle(pdf, "By type")
	for _, t := range []models.TaskType{models.TypeTask, models.TypeBug, models.TypeFeature, models.TypeStory} {
		g.kvLine(pdf, string(t), fmt.Sprintf("%d", report.ByType[t]))
	}

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return absPath, nil
}

func (g *ReportGenerator) ensureTarget(filename string) (string, error) {
	dir := filepath.Join(g.RootDir, "reports")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return filepath.Join(dir, filepath.Base(filename)), nil
}

func (g *ReportGenerator) hr(pdf *gofpdf.Fpdf) {
	x, y := pdf.GetXY()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	pdf.SetDrawColor(180, 180, 180)
	pdf.Line(left, y, pageW-right, y)
	pdf.SetXY(x, y+2)
}

func (g *ReportGenerator) sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func (g *ReportGenerator) kvLine(pdf *gofpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(60, 6, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}
