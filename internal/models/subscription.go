package models

import (
	"strings"
	"time"
)

// WildcardPattern matches every course code.
const WildcardPattern = "*"

// Subscription asks for notifications about courses matching CourseCodePattern.
type Subscription struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	UserDisplayName   string    `db:"user_display_name" json:"user_display_name"`
	CourseCodePattern string    `db:"course_code_pattern" json:"course_code_pattern"`
	NotifyByEmail     bool      `db:"notify_by_email" json:"notify_by_email"`
	NotifyBySMS       bool      `db:"notify_by_sms" json:"notify_by_sms"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
}

// NewSubscription applies the default channels: email on, SMS off.
func NewSubscription(userID, displayName, pattern string) Subscription {
	return Subscription{
		UserID:            userID,
		UserDisplayName:   displayName,
		CourseCodePattern: pattern,
		NotifyByEmail:     true,
		NotifyBySMS:       false,
	}
}

// MatchesCourse reports whether the subscription pattern covers courseCode.
func (s Subscription) MatchesCourse(courseCode string) bool {
	return MatchCoursePattern(s.CourseCodePattern, courseCode)
}

// SameTarget reports whether two subscriptions share user and pattern,
// ignoring case.
func (s Subscription) SameTarget(other Subscription) bool {
	return strings.EqualFold(s.UserID, other.UserID) &&
		strings.EqualFold(s.CourseCodePattern, other.CourseCodePattern)
}

// MatchCoursePattern evaluates a course-code pattern. An empty pattern or "*"
// matches everything, a trailing "*" is a case-insensitive prefix match and
// anything else is a case-insensitive exact match.
func MatchCoursePattern(pattern, courseCode string) bool {
	if pattern == "" || pattern == WildcardPattern {
		return true
	}
	if strings.HasSuffix(pattern, WildcardPattern) {
		prefix := strings.TrimRight(pattern, WildcardPattern)
		return strings.HasPrefix(strings.ToLower(courseCode), strings.ToLower(prefix))
	}
	return strings.EqualFold(courseCode, pattern)
}
