package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/pkg/storage"
)

const subscriptionsFile = "subscriptions.json"

// SubscriptionFileRepository stores the whole subscription collection as a
// single JSON document.
type SubscriptionFileRepository struct {
	store *storage.LocalStorage
}

// NewSubscriptionFileRepository constructs the repository on top of store.
func NewSubscriptionFileRepository(store *storage.LocalStorage) *SubscriptionFileRepository {
	return &SubscriptionFileRepository{store: store}
}

// Load returns the stored collection. found is false when nothing has been
// persisted yet. Undecodable content yields ErrMalformedRecord.
func (r *SubscriptionFileRepository) Load(ctx context.Context) ([]models.Subscription, bool, error) {
	raw, err := r.store.Read(subscriptionsFile)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load subscriptions: %w", err)
	}
	var subs []models.Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, true, fmt.Errorf("decode subscriptions: %w: %v", ErrMalformedRecord, err)
	}
	if subs == nil {
		subs = []models.Subscription{}
	}
	return subs, true, nil
}

// Save replaces the stored collection.
func (r *SubscriptionFileRepository) Save(ctx context.Context, subs []models.Subscription) error {
	if subs == nil {
		subs = []models.Subscription{}
	}
	if err := r.store.SaveJSON(subscriptionsFile, subs); err != nil {
		return fmt.Errorf("save subscriptions: %w", err)
	}
	return nil
}
