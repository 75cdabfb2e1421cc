package models

import (
	"strings"
	"time"
)

// DefaultSyllabusLanguage is applied when a syllabus omits its language.
const DefaultSyllabusLanguage = "English"

// Syllabus is the current state of a course syllabus, keyed by CourseCode.
type Syllabus struct {
	CourseCode string `json:"course_code" validate:"required,excludes=/"`
	CourseName string `json:"course_name"`

	Semester    string `json:"semester"`
	TheoryHours int    `json:"theory_hours" validate:"gte=0"`
	LabHours    int    `json:"lab_hours" validate:"gte=0"`
	LocalCredit int    `json:"local_credit" validate:"gte=0"`
	ECTS        int    `json:"ects" validate:"gte=0"`

	Prerequisites   string `json:"prerequisites"`
	Language        string `json:"language"`
	CourseType      string `json:"course_type"`
	CourseLevel     string `json:"course_level"`
	TeachingMethods string `json:"teaching_methods"`

	Coordinator string `json:"coordinator"`
	Lecturer    string `json:"lecturer"`
	Assistant   string `json:"assistant"`

	Objectives                  string `json:"objectives"`
	Description                 string `json:"description"`
	SustainableDevelopmentGoals string `json:"sustainable_development_goals"`

	LearningOutcomes    []string                `json:"learning_outcomes"`
	WeeklyPlan          []WeeklyItem            `json:"weekly_plan" validate:"dive"`
	Textbooks           []string                `json:"textbooks"`
	SuggestedReadings   []string                `json:"suggested_readings"`
	Assessments         []AssessmentItem        `json:"assessments" validate:"dive"`
	WorkloadTable       []WorkloadItem          `json:"workload_table" validate:"dive"`
	ProgramCompetencies []ProgramCompetencyItem `json:"program_competencies" validate:"dive"`

	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// WeeklyItem is one row of the weekly plan.
type WeeklyItem struct {
	WeekNumber  int    `json:"week_number" validate:"gte=0"`
	Topics      string `json:"topics"`
	Preparation string `json:"preparation"`
}

// AssessmentItem describes a graded activity and its weight.
type AssessmentItem struct {
	Activity   string `json:"activity"`
	Count      int    `json:"count" validate:"gte=0"`
	Percentage int    `json:"percentage" validate:"gte=0,lte=100"`
}

// WorkloadItem is one row of the ECTS workload table.
type WorkloadItem struct {
	Activity string `json:"activity"`
	Count    int    `json:"count" validate:"gte=0"`
	Duration int    `json:"duration" validate:"gte=0"`
}

// Workload is the derived effort in hours for the row.
func (w WorkloadItem) Workload() int {
	return w.Count * w.Duration
}

// ProgramCompetencyItem maps the course onto a program competency.
type ProgramCompetencyItem struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Level       int    `json:"level" validate:"gte=0,lte=5"`
}

// TotalWorkload sums the workload table.
func (s *Syllabus) TotalWorkload() int {
	total := 0
	for _, item := range s.WorkloadTable {
		total += item.Workload()
	}
	return total
}

// Normalize drops sub-collection entries whose primary text is blank and
// replaces nil collections with empty ones.
func (s *Syllabus) Normalize() {
	if strings.TrimSpace(s.Language) == "" {
		s.Language = DefaultSyllabusLanguage
	}
	s.LearningOutcomes = nonBlank(s.LearningOutcomes)
	s.Textbooks = nonBlank(s.Textbooks)
	s.SuggestedReadings = nonBlank(s.SuggestedReadings)

	weekly := make([]WeeklyItem, 0, len(s.WeeklyPlan))
	for _, item := range s.WeeklyPlan {
		if isBlank(item.Topics) {
			continue
		}
		weekly = append(weekly, item)
	}
	s.WeeklyPlan = weekly

	assessments := make([]AssessmentItem, 0, len(s.Assessments))
	for _, item := range s.Assessments {
		if isBlank(item.Activity) {
			continue
		}
		assessments = append(assessments, item)
	}
	s.Assessments = assessments

	workload := make([]WorkloadItem, 0, len(s.WorkloadTable))
	for _, item := range s.WorkloadTable {
		if isBlank(item.Activity) {
			continue
		}
		workload = append(workload, item)
	}
	s.WorkloadTable = workload

	competencies := make([]ProgramCompetencyItem, 0, len(s.ProgramCompetencies))
	for _, item := range s.ProgramCompetencies {
		if isBlank(item.Description) {
			continue
		}
		competencies = append(competencies, item)
	}
	s.ProgramCompetencies = competencies
}

func nonBlank(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if isBlank(v) {
			continue
		}
		result = append(result, v)
	}
	return result
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
