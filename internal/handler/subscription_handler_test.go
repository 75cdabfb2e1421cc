package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
)

type subscriptionServiceMock struct {
	subs       []models.Subscription
	subscribed *models.Subscription
	removed    []string
}

func (m *subscriptionServiceMock) ListForUser(ctx context.Context, userID string) ([]models.Subscription, error) {
	result := []models.Subscription{}
	for _, sub := range m.subs {
		if strings.EqualFold(sub.UserID, userID) {
			result = append(result, sub)
		}
	}
	return result, nil
}

func (m *subscriptionServiceMock) ListAll(ctx context.Context) ([]models.Subscription, error) {
	return m.subs, nil
}

func (m *subscriptionServiceMock) Subscribe(ctx context.Context, sub models.Subscription) (*models.Subscription, error) {
	sub.ID = "sub-new"
	m.subscribed = &sub
	return &sub, nil
}

func (m *subscriptionServiceMock) Unsubscribe(ctx context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

var studentClaims = &models.JWTClaims{UserID: "ali.veli", Role: models.RoleStudent, FullName: "Ali Veli"}

func subscriptionFixture() []models.Subscription {
	return []models.Subscription{
		{ID: "sub-1", UserID: "kaya.oguz", CourseCodePattern: "SE*", NotifyByEmail: true},
		{ID: "sub-2", UserID: "ali.veli", CourseCodePattern: "SE 307", NotifyByEmail: true},
	}
}

func TestSubscriptionHandlerSubscribeDefaults(t *testing.T) {
	svc := &subscriptionServiceMock{}
	handler := NewSubscriptionHandler(svc)
	c, w := newTestContext(http.MethodPost, "/subscriptions", []byte(`{"pattern":" CE* "}`))
	c.Set(middleware.ContextUserKey, studentClaims)

	handler.Subscribe(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.subscribed)
	assert.Equal(t, "ali.veli", svc.subscribed.UserID)
	assert.Equal(t, "Ali Veli", svc.subscribed.UserDisplayName)
	assert.Equal(t, "CE*", svc.subscribed.CourseCodePattern)
	assert.True(t, svc.subscribed.NotifyByEmail)
	assert.False(t, svc.subscribed.NotifyBySMS)
}

func TestSubscriptionHandlerSubscribeExplicitChannels(t *testing.T) {
	svc := &subscriptionServiceMock{}
	handler := NewSubscriptionHandler(svc)
	c, w := newTestContext(http.MethodPost, "/subscriptions", []byte(`{"pattern":"*","notify_email":false,"notify_sms":true}`))
	c.Set(middleware.ContextUserKey, studentClaims)

	handler.Subscribe(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, svc.subscribed.NotifyByEmail)
	assert.True(t, svc.subscribed.NotifyBySMS)

	var stored models.Subscription
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &stored))
	assert.Equal(t, "sub-new", stored.ID)
}

func TestSubscriptionHandlerSubscribeRequiresPattern(t *testing.T) {
	svc := &subscriptionServiceMock{}
	handler := NewSubscriptionHandler(svc)
	c, w := newTestContext(http.MethodPost, "/subscriptions", []byte(`{"pattern":""}`))
	c.Set(middleware.ContextUserKey, studentClaims)

	handler.Subscribe(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.subscribed)
}

func TestSubscriptionHandlerListMine(t *testing.T) {
	handler := NewSubscriptionHandler(&subscriptionServiceMock{subs: subscriptionFixture()})
	c, w := newTestContext(http.MethodGet, "/subscriptions", nil)
	c.Set(middleware.ContextUserKey, studentClaims)

	handler.ListMine(c)
	require.Equal(t, http.StatusOK, w.Code)
	var subs []models.Subscription
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, w).Data, &subs))
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-2", subs[0].ID)
}

func TestSubscriptionHandlerUnsubscribeForeignEntry(t *testing.T) {
	svc := &subscriptionServiceMock{subs: subscriptionFixture()}
	handler := NewSubscriptionHandler(svc)
	c, w := newTestContext(http.MethodDelete, "/subscriptions/sub-1", nil)
	c.Params = []gin.Param{{Key: "id", Value: "sub-1"}}
	c.Set(middleware.ContextUserKey, studentClaims)

	handler.Unsubscribe(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.removed)
}

func TestSubscriptionHandlerUnsubscribeOwnAndUnknown(t *testing.T) {
	svc := &subscriptionServiceMock{subs: subscriptionFixture()}
	handler := NewSubscriptionHandler(svc)

	for _, id := range []string{"sub-2", "missing"} {
		c, _ := newTestContext(http.MethodDelete, "/subscriptions/"+id, nil)
		c.Params = []gin.Param{{Key: "id", Value: id}}
		c.Set(middleware.ContextUserKey, studentClaims)

		handler.Unsubscribe(c)
		assert.Equal(t, http.StatusNoContent, c.Writer.Status(), id)
	}
	assert.Equal(t, []string{"sub-2", "missing"}, svc.removed)
}

func TestSubscriptionHandlerInstructorMayRemoveAny(t *testing.T) {
	svc := &subscriptionServiceMock{subs: subscriptionFixture()}
	handler := NewSubscriptionHandler(svc)
	c, _ := newTestContext(http.MethodDelete, "/subscriptions/sub-2", nil)
	c.Params = []gin.Param{{Key: "id", Value: "sub-2"}}
	c.Set(middleware.ContextUserKey, instructorClaims)

	handler.Unsubscribe(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, []string{"sub-2"}, svc.removed)
}
