package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/syllabus-api/internal/models"
)

// SubscriptionRepository persists subscriptions in PostgreSQL.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository constructs the repository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Load returns every subscription. found is false only until the first Save
// marks the collection as initialised, so an emptied table stays empty.
func (r *SubscriptionRepository) Load(ctx context.Context) ([]models.Subscription, bool, error) {
	const query = `SELECT id, user_id, user_display_name, course_code_pattern, notify_by_email, notify_by_sms, created_at
FROM subscriptions ORDER BY created_at ASC, id ASC`
	var subs []models.Subscription
	if err := r.db.SelectContext(ctx, &subs, query); err != nil {
		return nil, false, fmt.Errorf("load subscriptions: %w", err)
	}
	if len(subs) > 0 {
		return subs, true, nil
	}

	var initialised bool
	if err := r.db.GetContext(ctx, &initialised, `SELECT EXISTS (SELECT 1 FROM subscription_state WHERE id = 1)`); err != nil {
		return nil, false, fmt.Errorf("load subscription state: %w", err)
	}
	return []models.Subscription{}, initialised, nil
}

// Save replaces the collection inside a single transaction.
func (r *SubscriptionRepository) Save(ctx context.Context, subs []models.Subscription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin subscriptions tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM subscriptions`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear subscriptions: %w", err)
	}
	const insert = `INSERT INTO subscriptions (id, user_id, user_display_name, course_code_pattern, notify_by_email, notify_by_sms, created_at)
VALUES (:id, :user_id, :user_display_name, :course_code_pattern, :notify_by_email, :notify_by_sms, :created_at)`
	for i := range subs {
		if _, err := tx.NamedExecContext(ctx, insert, subs[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert subscription %s: %w", subs[i].ID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO subscription_state (id, initialized_at) VALUES (1, NOW()) ON CONFLICT (id) DO NOTHING`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("mark subscriptions initialised: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscriptions tx: %w", err)
	}
	return nil
}
