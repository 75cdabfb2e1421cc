package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/models"
	"github.com/noah-isme/syllabus-api/pkg/storage"
)

var subscriptionColumns = []string{"id", "user_id", "user_display_name", "course_code_pattern", "notify_by_email", "notify_by_sms", "created_at"}

func TestSubscriptionFileRepositoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := NewSubscriptionFileRepository(store)
	ctx := context.Background()

	subs, found, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, subs)

	require.NoError(t, repo.Save(ctx, nil))
	subs, found, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, subs)

	sub := models.NewSubscription("kaya.oguz", "Kaya", "SE*")
	sub.ID = "s1"
	require.NoError(t, repo.Save(ctx, []models.Subscription{sub}))
	subs, found, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, subs, 1)
	assert.Equal(t, "SE*", subs[0].CourseCodePattern)
}

func TestSubscriptionFileRepositoryMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, subscriptionsFile), []byte("{not json"), 0o644))
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	_, found, err := NewSubscriptionFileRepository(store).Load(context.Background())
	assert.True(t, found)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestSubscriptionRepositoryLoad(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("SELECT id, user_id").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns))
	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM subscription_state").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	subs, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, subs)

	mock.ExpectQuery("SELECT id, user_id").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns).
			AddRow("s1", "kaya.oguz", "Kaya", "SE*", true, true, time.Now()))
	subs, found, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	require.Len(t, subs, 1)
	assert.True(t, subs[0].NotifyBySMS)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositoryLoadKeepsEmptiedCollection(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectQuery("SELECT id, user_id").
		WillReturnRows(sqlmock.NewRows(subscriptionColumns))
	mock.ExpectQuery("SELECT EXISTS \\(SELECT 1 FROM subscription_state").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	subs, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.NotNil(t, subs)
	assert.Empty(t, subs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositorySaveEmptyMarksInitialised(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM subscriptions").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO subscription_state").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositorySaveReplacesAll(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	sub := models.NewSubscription("ali.veli", "Ali Veli", "CE 221")
	sub.ID = "s2"
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM subscriptions").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs("s2", "ali.veli", "Ali Veli", "CE 221", true, false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO subscription_state").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), []models.Subscription{sub}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubscriptionRepositorySaveRollsBack(t *testing.T) {
	db, mock, cleanup := newSQLMock(t)
	defer cleanup()
	repo := NewSubscriptionRepository(db)

	sub := models.NewSubscription("ali.veli", "Ali Veli", "CE 221")
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM subscriptions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO subscriptions").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), []models.Subscription{sub})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
