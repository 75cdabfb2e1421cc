package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/pkg/storage"
)

const (
	syllabiDir = "syllabi"
	commitsDir = "commits"
	jsonSuffix = ".json"
)

// SyllabusFileRepository keeps one JSON document per course code and an
// append-only directory of commit documents per course.
type SyllabusFileRepository struct {
	store *storage.LocalStorage
}

// NewSyllabusFileRepository constructs the repository on top of store.
func NewSyllabusFileRepository(store *storage.LocalStorage) *SyllabusFileRepository {
	return &SyllabusFileRepository{store: store}
}

// List returns every current syllabus ordered by file name.
func (r *SyllabusFileRepository) List(ctx context.Context) ([]models.Syllabus, error) {
	names, err := r.store.List(syllabiDir, jsonSuffix)
	if err != nil {
		return nil, fmt.Errorf("list syllabi: %w", err)
	}
	result := make([]models.Syllabus, 0, len(names))
	for _, name := range names {
		var s models.Syllabus
		if err := r.store.ReadJSON(path.Join(syllabiDir, name), &s); err != nil {
			return nil, fmt.Errorf("load syllabus %s: %w", name, err)
		}
		result = append(result, s)
	}
	return result, nil
}

// Get loads the current syllabus for courseCode.
func (r *SyllabusFileRepository) Get(ctx context.Context, courseCode string) (*models.Syllabus, error) {
	var s models.Syllabus
	if err := r.store.ReadJSON(syllabusFile(courseCode), &s); err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load syllabus %s: %w", courseCode, err)
	}
	return &s, nil
}

// Save overwrites the current syllabus document.
func (r *SyllabusFileRepository) Save(ctx context.Context, s *models.Syllabus) error {
	if err := r.store.SaveJSON(syllabusFile(s.CourseCode), s); err != nil {
		return fmt.Errorf("save syllabus %s: %w", s.CourseCode, err)
	}
	return nil
}

// Delete removes the current syllabus document. Commits are kept.
func (r *SyllabusFileRepository) Delete(ctx context.Context, courseCode string) error {
	if err := r.store.Delete(syllabusFile(courseCode)); err != nil {
		return fmt.Errorf("delete syllabus %s: %w", courseCode, err)
	}
	return nil
}

// CreateCommit appends a commit document. File names sort by creation time.
func (r *SyllabusFileRepository) CreateCommit(ctx context.Context, c *models.Commit) error {
	name := fmt.Sprintf("%020d_%s%s", c.Timestamp.UnixNano(), c.CommitID, jsonSuffix)
	filename := path.Join(commitsDir, escapeCode(c.CourseCode), name)
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal commit %s: %w", c.CommitID, err)
	}
	if err := r.store.Save(filename, payload); err != nil {
		return fmt.Errorf("save commit %s: %w", c.CommitID, err)
	}
	return nil
}

// ListCommits returns the commits of courseCode, newest first.
func (r *SyllabusFileRepository) ListCommits(ctx context.Context, courseCode string) ([]models.Commit, error) {
	dir := path.Join(commitsDir, escapeCode(courseCode))
	names, err := r.store.List(dir, jsonSuffix)
	if err != nil {
		return nil, fmt.Errorf("list commits %s: %w", courseCode, err)
	}
	commits := make([]models.Commit, 0, len(names))
	for _, name := range names {
		var c models.Commit
		if err := r.store.ReadJSON(path.Join(dir, name), &c); err != nil {
			return nil, fmt.Errorf("load commit %s: %w", name, err)
		}
		commits = append(commits, c)
	}
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.After(commits[j].Timestamp)
	})
	return commits, nil
}

func syllabusFile(courseCode string) string {
	return path.Join(syllabiDir, escapeCode(courseCode)+jsonSuffix)
}

// escapeCode keeps course codes usable as single path segments.
func escapeCode(courseCode string) string {
	escaped := url.PathEscape(courseCode)
	if strings.HasPrefix(escaped, ".") {
		escaped = "%2E" + escaped[1:]
	}
	return escaped
}
