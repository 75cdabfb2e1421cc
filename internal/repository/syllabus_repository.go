package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// SyllabusRepository persists syllabi and their commits in PostgreSQL.
type SyllabusRepository struct {
	db *sqlx.DB
}

// syllabusRow carries the payload as text since lib/pq sends []byte as bytea.
type syllabusRow struct {
	CourseCode string    `db:"course_code"`
	Payload    string    `db:"payload"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// NewSyllabusRepository constructs the repository.
func NewSyllabusRepository(db *sqlx.DB) *SyllabusRepository {
	return &SyllabusRepository{db: db}
}

// List returns every current syllabus ordered by course code.
func (r *SyllabusRepository) List(ctx context.Context) ([]models.Syllabus, error) {
	const query = `SELECT course_code, payload, updated_at FROM syllabi ORDER BY course_code ASC`
	var rows []syllabusRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list syllabi: %w", err)
	}
	result := make([]models.Syllabus, 0, len(rows))
	for _, row := range rows {
		var s models.Syllabus
		if err := json.Unmarshal([]byte(row.Payload), &s); err != nil {
			return nil, fmt.Errorf("decode syllabus %s: %w", row.CourseCode, err)
		}
		result = append(result, s)
	}
	return result, nil
}

// Get fetches the current syllabus for courseCode.
func (r *SyllabusRepository) Get(ctx context.Context, courseCode string) (*models.Syllabus, error) {
	const query = `SELECT course_code, payload, updated_at FROM syllabi WHERE course_code = $1`
	var row syllabusRow
	if err := r.db.GetContext(ctx, &row, query, courseCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get syllabus %s: %w", courseCode, err)
	}
	var s models.Syllabus
	if err := json.Unmarshal([]byte(row.Payload), &s); err != nil {
		return nil, fmt.Errorf("decode syllabus %s: %w", courseCode, err)
	}
	return &s, nil
}

// Save inserts or replaces the current syllabus.
func (r *SyllabusRepository) Save(ctx context.Context, s *models.Syllabus) error {
	const query = `INSERT INTO syllabi (course_code, payload, updated_at)
VALUES (:course_code, CAST(:payload AS JSONB), :updated_at)
ON CONFLICT (course_code)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode syllabus %s: %w", s.CourseCode, err)
	}
	row := syllabusRow{CourseCode: s.CourseCode, Payload: string(payload), UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save syllabus %s: %w", s.CourseCode, err)
	}
	return nil
}

// Delete removes the current syllabus. Commits are kept.
func (r *SyllabusRepository) Delete(ctx context.Context, courseCode string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM syllabi WHERE course_code = $1`, courseCode); err != nil {
		return fmt.Errorf("delete syllabus %s: %w", courseCode, err)
	}
	return nil
}

// CreateCommit appends a commit row.
func (r *SyllabusRepository) CreateCommit(ctx context.Context, c *models.Commit) error {
	const query = `INSERT INTO syllabus_commits (commit_id, course_code, created_at, author_name, message, snapshot, checksum)
VALUES (:commit_id, :course_code, :created_at, :author_name, :message, :snapshot, :checksum)`
	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return fmt.Errorf("create commit %s: %w", c.CommitID, err)
	}
	return nil
}

// ListCommits returns the commits of courseCode, newest first.
func (r *SyllabusRepository) ListCommits(ctx context.Context, courseCode string) ([]models.Commit, error) {
	const query = `SELECT commit_id, course_code, created_at, author_name, message, snapshot, checksum
FROM syllabus_commits WHERE course_code = $1 ORDER BY created_at DESC, commit_id DESC`
	var commits []models.Commit
	if err := r.db.SelectContext(ctx, &commits, query, courseCode); err != nil {
		return nil, fmt.Errorf("list commits %s: %w", courseCode, err)
	}
	if commits == nil {
		commits = []models.Commit{}
	}
	return commits, nil
}
