package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/export"
)

// ExportFormat names a supported rendering.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

type syllabusReader interface {
	Get(ctx context.Context, courseCode string) (*models.Syllabus, error)
}

type csvRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

type pdfRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ExportResult is a rendered syllabus ready to be sent as an attachment.
type ExportResult struct {
	Filename    string
	ContentType string
	Format      ExportFormat
	Payload     []byte
}

// ExportService renders syllabi into downloadable documents.
type ExportService struct {
	syllabi syllabusReader
	csv     csvRenderer
	pdf     pdfRenderer
	logger  *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(syllabi syllabusReader, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{syllabi: syllabi, csv: csv, pdf: pdf, logger: logger}
}

// ParseExportFormat maps a query value onto a format. Empty defaults to CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatPDF:
		return ExportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
}

// Export renders the current syllabus of courseCode.
func (s *ExportService) Export(ctx context.Context, courseCode string, format ExportFormat) (*ExportResult, error) {
	syllabus, err := s.syllabi.Get(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	return s.Render(syllabus, format)
}

// Render converts syllabus into the requested format.
func (s *ExportService) Render(syllabus *models.Syllabus, format ExportFormat) (*ExportResult, error) {
	doc := BuildSyllabusDocument(syllabus)

	var (
		payload     []byte
		contentType string
		err         error
	)
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(doc)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		s.logger.Error("render syllabus export failed", zap.String("course_code", syllabus.CourseCode), zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportResult{
		Filename:    exportFilename(syllabus.CourseCode, format),
		ContentType: contentType,
		Format:      format,
		Payload:     payload,
	}, nil
}

// BuildSyllabusDocument lays a syllabus out as titled sections.
func BuildSyllabusDocument(s *models.Syllabus) export.Document {
	info := export.Dataset{Title: "Course Information", Headers: []string{"Field", "Value"}}
	for _, kv := range [][2]string{
		{"Course Code", s.CourseCode},
		{"Course Name", s.CourseName},
		{"Semester", s.Semester},
		{"Theory Hours", strconv.Itoa(s.TheoryHours)},
		{"Lab Hours", strconv.Itoa(s.LabHours)},
		{"Local Credit", strconv.Itoa(s.LocalCredit)},
		{"ECTS", strconv.Itoa(s.ECTS)},
		{"Prerequisites", s.Prerequisites},
		{"Language", s.Language},
		{"Course Type", s.CourseType},
		{"Course Level", s.CourseLevel},
		{"Teaching Methods", s.TeachingMethods},
		{"Coordinator", s.Coordinator},
		{"Lecturer", s.Lecturer},
		{"Assistant", s.Assistant},
		{"Objectives", s.Objectives},
		{"Description", s.Description},
		{"Sustainable Development Goals", s.SustainableDevelopmentGoals},
	} {
		info.Rows = append(info.Rows, map[string]string{"Field": kv[0], "Value": kv[1]})
	}

	sections := []export.Dataset{
		info,
		listSection("Learning Outcomes", "Outcome", s.LearningOutcomes),
	}

	weekly := export.Dataset{Title: "Weekly Plan", Headers: []string{"Week", "Topics", "Preparation"}}
	for _, w := range s.WeeklyPlan {
		weekly.Rows = append(weekly.Rows, map[string]string{
			"Week":        strconv.Itoa(w.WeekNumber),
			"Topics":      w.Topics,
			"Preparation": w.Preparation,
		})
	}
	sections = append(sections, weekly,
		listSection("Textbooks", "Title", s.Textbooks),
		listSection("Suggested Readings", "Title", s.SuggestedReadings),
	)

	assessments := export.Dataset{Title: "Assessments", Headers: []string{"Activity", "Count", "Percentage"}}
	for _, a := range s.Assessments {
		assessments.Rows = append(assessments.Rows, map[string]string{
			"Activity":   a.Activity,
			"Count":      strconv.Itoa(a.Count),
			"Percentage": strconv.Itoa(a.Percentage),
		})
	}

	workload := export.Dataset{Title: "ECTS Workload", Headers: []string{"Activity", "Count", "Duration", "Workload"}}
	for _, w := range s.WorkloadTable {
		workload.Rows = append(workload.Rows, map[string]string{
			"Activity": w.Activity,
			"Count":    strconv.Itoa(w.Count),
			"Duration": strconv.Itoa(w.Duration),
			"Workload": strconv.Itoa(w.Workload()),
		})
	}
	workload.Rows = append(workload.Rows, map[string]string{"Activity": "Total", "Workload": strconv.Itoa(s.TotalWorkload())})

	competencies := export.Dataset{Title: "Program Competencies", Headers: []string{"#", "Description", "Level"}}
	for _, c := range s.ProgramCompetencies {
		competencies.Rows = append(competencies.Rows, map[string]string{
			"#":           strconv.Itoa(c.ID),
			"Description": c.Description,
			"Level":       strconv.Itoa(c.Level),
		})
	}

	sections = append(sections, assessments, workload, competencies)
	return export.Document{
		Title:    strings.TrimSpace(s.CourseCode + " " + s.CourseName),
		Sections: sections,
	}
}

func listSection(title, header string, values []string) export.Dataset {
	ds := export.Dataset{Title: title, Headers: []string{header}}
	for _, v := range values {
		ds.Rows = append(ds.Rows, map[string]string{header: v})
	}
	return ds
}

func exportFilename(courseCode string, format ExportFormat) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, courseCode)
	if name == "" {
		name = "syllabus"
	}
	return fmt.Sprintf("%s_syllabus.%s", name, format)
}
