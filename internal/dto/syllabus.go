package dto

import (
	"time"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// UpdateSyllabusRequest is the syllabus body plus the message recorded on the
// commit of the previous state.
type UpdateSyllabusRequest struct {
	models.Syllabus
	CommitMessage string `json:"commit_message"`
}

// CommitView is a commit without its snapshot payload.
type CommitView struct {
	CommitID   string    `json:"commit_id"`
	CourseCode string    `json:"course_code"`
	Timestamp  time.Time `json:"timestamp"`
	AuthorName string    `json:"author_name"`
	Message    string    `json:"message"`
	Deleted    bool      `json:"deleted"`
}

// CommitDetail pairs a commit with the syllabus it captured.
type CommitDetail struct {
	CommitView
	Syllabus *models.Syllabus `json:"syllabus"`
}

// UpdateSyllabusResponse reports the stored syllabus, the commit created for
// the previous state and who was notified.
type UpdateSyllabusResponse struct {
	Syllabus     *models.Syllabus          `json:"syllabus"`
	Commit       *CommitView               `json:"commit,omitempty"`
	Notification models.NotificationResult `json:"notification"`
}

// DeleteSyllabusResponse reports the outcome of a delete.
type DeleteSyllabusResponse struct {
	Deleted      bool                       `json:"deleted"`
	Commit       *CommitView                `json:"commit,omitempty"`
	Notification *models.NotificationResult `json:"notification,omitempty"`
}

// NewCommitView drops the snapshot from c.
func NewCommitView(c *models.Commit) *CommitView {
	if c == nil {
		return nil
	}
	return &CommitView{
		CommitID:   c.CommitID,
		CourseCode: c.CourseCode,
		Timestamp:  c.Timestamp,
		AuthorName: c.AuthorName,
		Message:    c.Message,
		Deleted:    c.IsDeletion(),
	}
}

// NewCommitViews maps a history listing.
func NewCommitViews(commits []models.Commit) []CommitView {
	views := make([]CommitView, 0, len(commits))
	for i := range commits {
		views = append(views, *NewCommitView(&commits[i]))
	}
	return views
}
