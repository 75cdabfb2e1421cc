package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/repository"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

const (
	syllabusCacheKeyAll  = "syllabus:all"
	syllabusCachePrefix  = "syllabus:"
	syllabusCachePattern = "syllabus:*"
	deletedNotifyMessage = "Course deleted permanently."
)

type syllabusRepository interface {
	List(ctx context.Context) ([]models.Syllabus, error)
	Get(ctx context.Context, courseCode string) (*models.Syllabus, error)
	Save(ctx context.Context, s *models.Syllabus) error
	Delete(ctx context.Context, courseCode string) error
	CreateCommit(ctx context.Context, c *models.Commit) error
	ListCommits(ctx context.Context, courseCode string) ([]models.Commit, error)
}

// ChangeNotifier announces syllabus changes.
type ChangeNotifier interface {
	Notify(ctx context.Context, courseCode string, action models.NotificationAction, authorName, message string) models.NotificationResult
}

// SyllabusServiceParams groups constructor dependencies.
type SyllabusServiceParams struct {
	Repo      syllabusRepository
	Notifier  ChangeNotifier
	Cache     *CacheService
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	CacheTTL  time.Duration
}

// SyllabusService manages current syllabi and their commit history.
type SyllabusService struct {
	repo      syllabusRepository
	notifier  ChangeNotifier
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	// fillMu guards generation, which every write bumps before invalidating.
	// A read only fills the cache when no write happened since it started.
	fillMu     sync.Mutex
	generation uint64
}

// UpdateResult reports what an update produced. Commit is nil when the course
// did not exist before.
type UpdateResult struct {
	Syllabus     *models.Syllabus          `json:"syllabus"`
	Commit       *models.Commit            `json:"commit,omitempty"`
	Notification models.NotificationResult `json:"notification"`
}

// DeleteResult reports what a delete produced. Deleted is false when the
// course did not exist.
type DeleteResult struct {
	Deleted      bool                       `json:"deleted"`
	Commit       *models.Commit             `json:"commit,omitempty"`
	Notification *models.NotificationResult `json:"notification,omitempty"`
}

// NewSyllabusService constructs the service.
func NewSyllabusService(params SyllabusServiceParams) *SyllabusService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SyllabusService{
		repo:      params.Repo,
		notifier:  params.Notifier,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cacheTTL:  ttl,
		now:       func() time.Time { return time.Now().UTC() },
		locks:     make(map[string]*sync.Mutex),
	}
}

// GetAll returns every current syllabus.
func (s *SyllabusService) GetAll(ctx context.Context) ([]models.Syllabus, error) {
	var cached []models.Syllabus
	if s.readCache(ctx, syllabusCacheKeyAll, &cached) {
		return cached, nil
	}
	gen := s.cacheGeneration()
	start := time.Now()
	items, err := s.repo.List(ctx)
	s.metrics.ObserveStoreOperation("syllabus_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list syllabi")
	}
	if items == nil {
		items = []models.Syllabus{}
	}
	s.writeCache(ctx, syllabusCacheKeyAll, items, gen)
	return items, nil
}

// Get returns the current syllabus for courseCode.
func (s *SyllabusService) Get(ctx context.Context, courseCode string) (*models.Syllabus, error) {
	key := syllabusCachePrefix + courseCode
	var cached models.Syllabus
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}
	gen := s.cacheGeneration()
	item, err := s.load(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "syllabus not found")
	}
	s.writeCache(ctx, key, item, gen)
	return item, nil
}

// Create stores syllabus as the current state for its course code. Creation
// is not versioned and does not notify anyone.
func (s *SyllabusService) Create(ctx context.Context, syllabus *models.Syllabus) (*models.Syllabus, error) {
	if err := s.validate(syllabus); err != nil {
		return nil, err
	}
	lock := s.lockFor(syllabus.CourseCode)
	lock.Lock()
	defer lock.Unlock()

	if err := s.save(ctx, syllabus); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.logger.Info("syllabus created", zap.String("course_code", syllabus.CourseCode))
	return syllabus, nil
}

// Update replaces the current state of syllabus.CourseCode. The previous state,
// when present, is committed before the new state is written. Subscribers are
// notified afterwards.
func (s *SyllabusService) Update(ctx context.Context, syllabus *models.Syllabus, commitMessage string, actor *models.Actor) (*UpdateResult, error) {
	if err := s.validate(syllabus); err != nil {
		return nil, err
	}
	lock := s.lockFor(syllabus.CourseCode)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.load(ctx, syllabus.CourseCode)
	if err != nil {
		return nil, err
	}

	result := &UpdateResult{Syllabus: syllabus}
	if current != nil {
		commit, err := s.newCommit(uuid.NewString(), current, commitMessage, actor)
		if err != nil {
			return nil, err
		}
		if err := s.appendCommit(ctx, commit); err != nil {
			return nil, err
		}
		s.metrics.RecordCommit(models.NotificationActionUpdated)
		result.Commit = commit
	}

	// A failure here leaves the commit above without a matching live state.
	if err := s.save(ctx, syllabus); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	result.Notification = s.notify(ctx, syllabus.CourseCode, models.NotificationActionUpdated, actorName(actor), commitMessage)
	s.logger.Info("syllabus updated",
		zap.String("course_code", syllabus.CourseCode),
		zap.String("author", actorName(actor)),
		zap.Bool("committed", result.Commit != nil),
	)
	return result, nil
}

// Delete removes the current state of courseCode after committing it. Missing
// courses are a no-op.
func (s *SyllabusService) Delete(ctx context.Context, courseCode string, actor *models.Actor) (*DeleteResult, error) {
	lock := s.lockFor(courseCode)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.load(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return &DeleteResult{Deleted: false}, nil
	}

	commit, err := s.newCommit(models.DeleteCommitIDPrefix+uuid.NewString(), current, models.CommitMessageDeleted, actor)
	if err != nil {
		return nil, err
	}
	if err := s.appendCommit(ctx, commit); err != nil {
		return nil, err
	}
	s.metrics.RecordCommit(models.NotificationActionDeleted)

	start := time.Now()
	err = s.repo.Delete(ctx, courseCode)
	s.metrics.ObserveStoreOperation("syllabus_delete", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete syllabus")
	}
	s.invalidate(ctx)

	notification := s.notify(ctx, courseCode, models.NotificationActionDeleted, actorName(actor), deletedNotifyMessage)
	s.logger.Info("syllabus deleted", zap.String("course_code", courseCode), zap.String("author", actorName(actor)))
	return &DeleteResult{Deleted: true, Commit: commit, Notification: &notification}, nil
}

// History returns the commits of courseCode, newest first.
func (s *SyllabusService) History(ctx context.Context, courseCode string) ([]models.Commit, error) {
	start := time.Now()
	commits, err := s.repo.ListCommits(ctx, courseCode)
	s.metrics.ObserveStoreOperation("commit_list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load history")
	}
	sort.SliceStable(commits, func(i, j int) bool {
		return commits[i].Timestamp.After(commits[j].Timestamp)
	})
	if commits == nil {
		commits = []models.Commit{}
	}
	return commits, nil
}

// GetCommit finds commitID among the commits of courseCode.
func (s *SyllabusService) GetCommit(ctx context.Context, courseCode, commitID string) (*models.Commit, error) {
	commits, err := s.History(ctx, courseCode)
	if err != nil {
		return nil, err
	}
	for i := range commits {
		if commits[i].CommitID == commitID {
			return &commits[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "commit not found")
}

// DecodeSnapshot restores the syllabus captured by commit. Unknown fields in
// the snapshot are ignored.
func DecodeSnapshot(commit *models.Commit) (*models.Syllabus, error) {
	if commit == nil || len(commit.Snapshot) == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "commit has no snapshot")
	}
	if !commit.SnapshotIntact() {
		return nil, appErrors.Clone(appErrors.ErrInternal, "snapshot checksum mismatch")
	}
	var syllabus models.Syllabus
	if err := json.Unmarshal(commit.Snapshot, &syllabus); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode snapshot")
	}
	return &syllabus, nil
}

// ArchiveView keeps the newest commit of each calendar year, newest first.
func ArchiveView(history []models.Commit) []models.Commit {
	newest := make(map[int]models.Commit)
	for _, c := range history {
		year := c.Timestamp.Year()
		if existing, ok := newest[year]; !ok || c.Timestamp.After(existing.Timestamp) {
			newest[year] = c
		}
	}
	result := make([]models.Commit, 0, len(newest))
	for _, c := range newest {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.After(result[j].Timestamp)
	})
	return result
}

// EnsureSeedData stores the sample SE 307 syllabus when it is missing.
func (s *SyllabusService) EnsureSeedData(ctx context.Context) error {
	seed := SeedSyllabus()
	current, err := s.load(ctx, seed.CourseCode)
	if err != nil {
		return err
	}
	if current != nil {
		return nil
	}
	if _, err := s.Create(ctx, seed); err != nil {
		return err
	}
	s.logger.Info("seed syllabus written", zap.String("course_code", seed.CourseCode))
	return nil
}

// SeedSyllabus returns the sample syllabus written on first start.
func SeedSyllabus() *models.Syllabus {
	return &models.Syllabus{
		CourseCode:          "SE 307",
		CourseName:          "Concepts of Object-Oriented Programming",
		Semester:            "Fall/Spring",
		TheoryHours:         2,
		LabHours:            2,
		LocalCredit:         3,
		ECTS:                7,
		Prerequisites:       "CE 221",
		Language:            models.DefaultSyllabusLanguage,
		CourseType:          "Elective",
		CourseLevel:         "First Cycle",
		TeachingMethods:     "Discussion, Project, Lab",
		Coordinator:         "Dr. Kutluhan Erol",
		Lecturer:            "Doc. Dr. Kaya Oguz",
		Assistant:           "Hamza Cekirdek",
		Objectives:          "OOP concepts with C#",
		Description:         "Deep dive into OOP.",
		LearningOutcomes:    []string{"Understand OOP", "Apply Inheritance"},
		WeeklyPlan:          []models.WeeklyItem{{WeekNumber: 1, Topics: "Intro", Preparation: "Ch1"}},
		Textbooks:           []string{"C# 10 and .NET 6"},
		SuggestedReadings:   []string{"Clean Code"},
		Assessments:         []models.AssessmentItem{{Activity: "Midterm", Count: 1, Percentage: 30}},
		WorkloadTable:       []models.WorkloadItem{{Activity: "Lectures", Count: 14, Duration: 2}},
		ProgramCompetencies: []models.ProgramCompetencyItem{},
	}
}

func (s *SyllabusService) validate(syllabus *models.Syllabus) error {
	if syllabus == nil {
		return appErrors.Clone(appErrors.ErrValidation, "syllabus is required")
	}
	if err := s.validator.Struct(syllabus); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid syllabus payload")
	}
	return nil
}

// load returns nil without error when the course has no current state.
func (s *SyllabusService) load(ctx context.Context, courseCode string) (*models.Syllabus, error) {
	start := time.Now()
	item, err := s.repo.Get(ctx, courseCode)
	s.metrics.ObserveStoreOperation("syllabus_get", time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load syllabus")
	}
	return item, nil
}

func (s *SyllabusService) save(ctx context.Context, syllabus *models.Syllabus) error {
	syllabus.UpdatedAt = s.now()
	start := time.Now()
	err := s.repo.Save(ctx, syllabus)
	s.metrics.ObserveStoreOperation("syllabus_save", time.Since(start))
	if err != nil {
		s.logger.Error("persist syllabus failed", zap.String("course_code", syllabus.CourseCode), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save syllabus")
	}
	return nil
}

func (s *SyllabusService) newCommit(id string, previous *models.Syllabus, message string, actor *models.Actor) (*models.Commit, error) {
	snapshot, err := json.Marshal(previous)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to snapshot syllabus")
	}
	return &models.Commit{
		CommitID:   id,
		CourseCode: previous.CourseCode,
		Timestamp:  s.now(),
		AuthorName: actorName(actor),
		Message:    message,
		Snapshot:   snapshot,
		Checksum:   models.SnapshotChecksum(snapshot),
	}, nil
}

func (s *SyllabusService) appendCommit(ctx context.Context, commit *models.Commit) error {
	start := time.Now()
	err := s.repo.CreateCommit(ctx, commit)
	s.metrics.ObserveStoreOperation("commit_create", time.Since(start))
	if err != nil {
		s.logger.Error("persist commit failed", zap.String("course_code", commit.CourseCode), zap.String("commit_id", commit.CommitID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save commit")
	}
	return nil
}

func (s *SyllabusService) notify(ctx context.Context, courseCode string, action models.NotificationAction, author, message string) models.NotificationResult {
	if s.notifier == nil {
		return models.NotificationResult{CourseCode: courseCode, Action: action}
	}
	return s.notifier.Notify(ctx, courseCode, action, author, message)
}

func (s *SyllabusService) lockFor(courseCode string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.locks[courseCode]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[courseCode] = lock
	}
	return lock
}

func (s *SyllabusService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("syllabus cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *SyllabusService) cacheGeneration() uint64 {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	return s.generation
}

func (s *SyllabusService) writeCache(ctx context.Context, key string, value interface{}, gen uint64) {
	if s.cache == nil {
		return
	}
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	if s.generation != gen {
		s.logger.Debug("syllabus cache fill skipped after concurrent write", zap.String("key", key))
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn("syllabus cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *SyllabusService) invalidate(ctx context.Context) {
	s.fillMu.Lock()
	defer s.fillMu.Unlock()
	s.generation++
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, syllabusCachePattern); err != nil {
		s.logger.Warn("syllabus cache invalidation failed", zap.Error(err))
	}
}

func actorName(actor *models.Actor) string {
	if actor == nil {
		return ""
	}
	if actor.DisplayName != "" {
		return actor.DisplayName
	}
	return actor.ID
}
