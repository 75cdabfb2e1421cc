package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/syllabus-api/internal/models"
)

const (
	instructorPhone      = "+90 555 999 88 77"
	studentPhone         = "+90 555 111 22 33"
	unknownContactPhone  = "+90 555 000 00 00"
	unknownContactEmail  = "notification@ieu.edu.tr"
	notificationTemplate = "Notification sent to %s via SMS and Email."
)

// SubscriberSource resolves the subscriptions matching a course.
type SubscriberSource interface {
	ListSubscribersForCourse(ctx context.Context, courseCode string) ([]models.Subscription, error)
}

// ContactDirectory resolves directory entries for contact lookup.
type ContactDirectory interface {
	Lookup(ctx context.Context, ekoid string) (*models.User, error)
}

type deliveryRecorder interface {
	RecordDelivery(channel models.NotificationChannel, fallback bool)
}

// FallbackRecipients names who is notified when no subscription matches.
type FallbackRecipients struct {
	HODName     string
	HODPhone    string
	HODEmail    string
	HODPrefixes []string
	AdminName   string
	AdminPhone  string
	AdminEmail  string
}

// DefaultFallbackRecipients returns the department head for SE and CE courses
// and the general administrator for everything else.
func DefaultFallbackRecipients() FallbackRecipients {
	return FallbackRecipients{
		HODName:     "Doc. Dr. Kaya Oguz",
		HODPhone:    "+90 555 999 88 77",
		HODEmail:    "kaya.oguz@ieu.edu.tr",
		HODPrefixes: []string{"SE", "CE"},
		AdminName:   "General Admin",
		AdminPhone:  "+90 555 000 00 00",
		AdminEmail:  "admin@ieu.edu.tr",
	}
}

// NotificationService simulates SMS and email alerts about syllabus changes.
type NotificationService struct {
	subscribers SubscriberSource
	directory   ContactDirectory
	fallback    FallbackRecipients
	metrics     deliveryRecorder
	logger      *zap.Logger
}

// NotificationServiceParams groups constructor dependencies. Subscribers and
// Directory are optional.
type NotificationServiceParams struct {
	Subscribers SubscriberSource
	Directory   ContactDirectory
	Fallback    FallbackRecipients
	Metrics     *MetricsService
	Logger      *zap.Logger
}

// NewNotificationService constructs the dispatcher.
func NewNotificationService(params NotificationServiceParams) *NotificationService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fallback := params.Fallback
	defaults := DefaultFallbackRecipients()
	if fallback.HODName == "" {
		fallback.HODName, fallback.HODPhone, fallback.HODEmail = defaults.HODName, defaults.HODPhone, defaults.HODEmail
	}
	if fallback.HODPrefixes == nil {
		fallback.HODPrefixes = defaults.HODPrefixes
	}
	if fallback.AdminName == "" {
		fallback.AdminName, fallback.AdminPhone, fallback.AdminEmail = defaults.AdminName, defaults.AdminPhone, defaults.AdminEmail
	}
	svc := &NotificationService{
		subscribers: params.Subscribers,
		directory:   params.Directory,
		fallback:    fallback,
		logger:      logger,
	}
	if params.Metrics != nil {
		svc.metrics = params.Metrics
	}
	return svc
}

// Notify announces a change to courseCode. Subscribers matching the course are
// alerted over their chosen channels; when there are none, or no subscriber
// source is configured, the fallback recipient is alerted instead.
func (s *NotificationService) Notify(ctx context.Context, courseCode string, action models.NotificationAction, authorName, message string) models.NotificationResult {
	if s.subscribers == nil {
		return s.notifyFallback(ctx, courseCode, action, authorName, message)
	}
	subs, err := s.subscribers.ListSubscribersForCourse(ctx, courseCode)
	if err != nil {
		s.logger.Warn("subscriber lookup failed, using fallback recipient", zap.String("course_code", courseCode), zap.Error(err))
		return s.notifyFallback(ctx, courseCode, action, authorName, message)
	}
	if len(subs) == 0 {
		return s.notifyFallback(ctx, courseCode, action, authorName, message)
	}
	return s.notifySubscribers(ctx, subs, courseCode, action, authorName, message)
}

func (s *NotificationService) notifySubscribers(ctx context.Context, subs []models.Subscription, courseCode string, action models.NotificationAction, authorName, message string) models.NotificationResult {
	result := models.NotificationResult{CourseCode: courseCode, Action: action}
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		name := sub.UserDisplayName
		if name == "" {
			name = sub.UserID
		}
		user := s.lookup(ctx, sub.UserID)
		if sub.NotifyBySMS {
			result.Deliveries = append(result.Deliveries, s.sendSMS(name, phoneFor(user), courseCode, action, authorName, false))
		}
		if sub.NotifyByEmail {
			result.Deliveries = append(result.Deliveries, s.sendEmail(name, emailFor(user), courseCode, action, authorName, message, false))
		}
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			result.Recipients = append(result.Recipients, name)
		}
	}
	result.Summary = fmt.Sprintf(notificationTemplate, strings.Join(result.Recipients, ", "))
	return result
}

// notifyFallback alerts the department head for courses with a configured
// prefix and the general administrator otherwise, always by SMS and email.
func (s *NotificationService) notifyFallback(ctx context.Context, courseCode string, action models.NotificationAction, authorName, message string) models.NotificationResult {
	name, phone, email := s.fallback.AdminName, s.fallback.AdminPhone, s.fallback.AdminEmail
	for _, prefix := range s.fallback.HODPrefixes {
		if prefix != "" && strings.HasPrefix(strings.ToLower(courseCode), strings.ToLower(prefix)) {
			name, phone, email = s.fallback.HODName, s.fallback.HODPhone, s.fallback.HODEmail
			break
		}
	}
	return models.NotificationResult{
		CourseCode: courseCode,
		Action:     action,
		Recipients: []string{name},
		Deliveries: []models.Delivery{
			s.sendSMS(name, phone, courseCode, action, authorName, true),
			s.sendEmail(name, email, courseCode, action, authorName, message, true),
		},
		Fallback: true,
		Summary:  fmt.Sprintf(notificationTemplate, name),
	}
}

func (s *NotificationService) sendSMS(recipient, phone, courseCode string, action models.NotificationAction, authorName string, fallback bool) models.Delivery {
	s.logger.Info("sms_simulated",
		zap.String("recipient", recipient),
		zap.String("phone", phone),
		zap.String("course_code", courseCode),
		zap.String("action", string(action)),
		zap.String("author", authorName),
		zap.String("text", fmt.Sprintf("%s has been %s by %s.", courseCode, action, authorName)),
	)
	s.record(models.ChannelSMS, fallback)
	return models.Delivery{Recipient: recipient, Channel: models.ChannelSMS, Address: phone}
}

func (s *NotificationService) sendEmail(recipient, email, courseCode string, action models.NotificationAction, authorName, message string, fallback bool) models.Delivery {
	s.logger.Info("email_simulated",
		zap.String("recipient", recipient),
		zap.String("email", email),
		zap.String("course_code", courseCode),
		zap.String("action", string(action)),
		zap.String("author", authorName),
		zap.String("subject", "Syllabus Update Alert: "+courseCode),
		zap.String("body", fmt.Sprintf("Course %s has been %s by %s.", courseCode, action, authorName)),
		zap.String("details", message),
	)
	s.record(models.ChannelEmail, fallback)
	return models.Delivery{Recipient: recipient, Channel: models.ChannelEmail, Address: email}
}

func (s *NotificationService) record(channel models.NotificationChannel, fallback bool) {
	if s.metrics != nil {
		s.metrics.RecordDelivery(channel, fallback)
	}
}

func (s *NotificationService) lookup(ctx context.Context, userID string) *models.User {
	if s.directory == nil {
		return nil
	}
	user, err := s.directory.Lookup(ctx, userID)
	if err != nil {
		return nil
	}
	return user
}

func phoneFor(user *models.User) string {
	switch {
	case user == nil:
		return unknownContactPhone
	case user.Role == models.RoleInstructor:
		return instructorPhone
	default:
		return studentPhone
	}
}

func emailFor(user *models.User) string {
	if user == nil || user.Email == "" {
		return unknownContactEmail
	}
	return user.Email
}
