package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/internal/repository"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
)

type subscriptionRepository interface {
	Load(ctx context.Context) ([]models.Subscription, bool, error)
	Save(ctx context.Context, subs []models.Subscription) error
}

// SubscriptionService keeps the subscription collection in memory and
// rewrites it in full after every mutation.
type SubscriptionService struct {
	repo   subscriptionRepository
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	subs   []models.Subscription
	loaded bool
}

// NewSubscriptionService constructs the service. The collection is loaded on
// first use.
func NewSubscriptionService(repo subscriptionRepository, logger *zap.Logger) *SubscriptionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscriptionService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Load reads the stored collection, writing the default entries when nothing
// is stored yet.
func (s *SubscriptionService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLoaded(ctx)
}

// ListForUser returns the subscriptions owned by userID, compared
// case-insensitively.
func (s *SubscriptionService) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	result := make([]models.Subscription, 0)
	for _, sub := range s.subs {
		if strings.EqualFold(sub.UserID, userID) {
			result = append(result, sub)
		}
	}
	return result, nil
}

// ListSubscribersForCourse returns every subscription whose pattern matches
// courseCode.
func (s *SubscriptionService) ListSubscribersForCourse(ctx context.Context, courseCode string) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	result := make([]models.Subscription, 0)
	for _, sub := range s.subs {
		if sub.MatchesCourse(courseCode) {
			result = append(result, sub)
		}
	}
	return result, nil
}

// ListAll returns a copy of the whole collection.
func (s *SubscriptionService) ListAll(ctx context.Context) ([]models.Subscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	result := make([]models.Subscription, len(s.subs))
	copy(result, s.subs)
	return result, nil
}

// Subscribe stores sub. An existing entry for the same user and pattern has
// its channel flags overwritten; otherwise a new entry is appended.
func (s *SubscriptionService) Subscribe(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	sub.UserID = strings.TrimSpace(sub.UserID)
	sub.CourseCodePattern = strings.TrimSpace(sub.CourseCodePattern)
	if sub.UserID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	idx := -1
	for i := range s.subs {
		if s.subs[i].SameTarget(sub) {
			idx = i
			break
		}
	}
	if idx >= 0 {
		s.subs[idx].NotifyByEmail = sub.NotifyByEmail
		s.subs[idx].NotifyBySMS = sub.NotifyBySMS
	} else {
		sub.ID = uuid.NewString()
		sub.CreatedAt = s.now()
		s.subs = append(s.subs, sub)
		idx = len(s.subs) - 1
	}
	stored := s.subs[idx]

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("subscription stored",
		zap.String("subscription_id", stored.ID),
		zap.String("user_id", stored.UserID),
		zap.String("pattern", stored.CourseCodePattern),
		zap.Bool("email", stored.NotifyByEmail),
		zap.Bool("sms", stored.NotifyBySMS),
	)
	return &stored, nil
}

// Unsubscribe removes the entry with id. Unknown ids are ignored.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	for i := range s.subs {
		if s.subs[i].ID == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			if err := s.persist(ctx); err != nil {
				return err
			}
			s.logger.Info("subscription removed", zap.String("subscription_id", id))
			return nil
		}
	}
	return nil
}

// ensureLoaded must be called with s.mu held.
func (s *SubscriptionService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	subs, found, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, repository.ErrMalformedRecord):
		s.logger.Warn("stored subscriptions unreadable, starting empty", zap.Error(err))
		subs = []models.Subscription{}
	case err != nil:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subscriptions")
	case !found:
		s.subs = s.defaultSubscriptions()
		if err := s.persist(ctx); err != nil {
			return err
		}
		s.loaded = true
		s.logger.Info("default subscriptions written", zap.Int("count", len(s.subs)))
		return nil
	}
	s.subs = subs
	s.loaded = true
	return nil
}

// persist must be called with s.mu held.
func (s *SubscriptionService) persist(ctx context.Context) error {
	snapshot := make([]models.Subscription, len(s.subs))
	copy(snapshot, s.subs)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.Error("persist subscriptions failed", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist subscriptions")
	}
	return nil
}

func (s *SubscriptionService) defaultSubscriptions() []models.Subscription {
	now := s.now()
	seeds := make([]models.Subscription, 0, 2)
	for _, pattern := range []string{"SE*", "CE*"} {
		sub := models.NewSubscription("kaya.oguz", "Doç. Dr. Kaya Oğuz", pattern)
		sub.ID = uuid.NewString()
		sub.NotifyBySMS = true
		sub.CreatedAt = now
		seeds = append(seeds, sub)
	}
	return seeds
}
