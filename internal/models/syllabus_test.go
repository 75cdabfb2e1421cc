package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyllabusNormalizeDropsBlankEntries(t *testing.T) {
	s := Syllabus{
		CourseCode:        "SE 307",
		LearningOutcomes:  []string{"Understand OOP", " ", ""},
		Textbooks:         []string{"", "C# 10 and .NET 6"},
		SuggestedReadings: nil,
		WeeklyPlan: []WeeklyItem{
			{WeekNumber: 1, Topics: "Intro", Preparation: "Ch1"},
			{WeekNumber: 2, Topics: "  ", Preparation: "Ch2"},
		},
		Assessments:   []AssessmentItem{{Activity: "Midterm", Count: 1, Percentage: 30}, {Activity: ""}},
		WorkloadTable: []WorkloadItem{{Activity: "Lectures", Count: 14, Duration: 2}, {Activity: " ", Count: 3}},
		ProgramCompetencies: []ProgramCompetencyItem{
			{ID: 1, Description: "Analyse problems", Level: 4},
			{ID: 2, Description: ""},
		},
	}

	s.Normalize()

	assert.Equal(t, []string{"Understand OOP"}, s.LearningOutcomes)
	assert.Equal(t, []string{"C# 10 and .NET 6"}, s.Textbooks)
	assert.NotNil(t, s.SuggestedReadings)
	assert.Empty(t, s.SuggestedReadings)
	assert.Len(t, s.WeeklyPlan, 1)
	assert.Len(t, s.Assessments, 1)
	assert.Len(t, s.WorkloadTable, 1)
	assert.Len(t, s.ProgramCompetencies, 1)
	assert.Equal(t, DefaultSyllabusLanguage, s.Language)
}

func TestSyllabusNormalizeKeepsLanguage(t *testing.T) {
	s := Syllabus{Language: "Turkish"}
	s.Normalize()
	assert.Equal(t, "Turkish", s.Language)
}

func TestWorkloadDerived(t *testing.T) {
	item := WorkloadItem{Activity: "Lectures", Count: 14, Duration: 2}
	assert.Equal(t, 28, item.Workload())

	s := Syllabus{WorkloadTable: []WorkloadItem{item, {Activity: "Project", Count: 1, Duration: 40}}}
	assert.Equal(t, 68, s.TotalWorkload())
}

func TestCommitIsDeletion(t *testing.T) {
	assert.True(t, (&Commit{Message: CommitMessageDeleted}).IsDeletion())
	assert.False(t, (&Commit{Message: "fix typo"}).IsDeletion())
	var nilCommit *Commit
	assert.False(t, nilCommit.IsDeletion())
}

func TestCommitSnapshotIntact(t *testing.T) {
	c := &Commit{Snapshot: []byte(`{"course_code":"SE 307"}`)}
	assert.True(t, c.SnapshotIntact())

	c.Checksum = SnapshotChecksum(c.Snapshot)
	assert.Len(t, c.Checksum, 64)
	assert.True(t, c.SnapshotIntact())

	c.Snapshot = append(c.Snapshot, ' ')
	assert.False(t, c.SnapshotIntact())
}
