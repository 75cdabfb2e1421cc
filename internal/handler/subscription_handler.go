package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/syllabus-api/internal/dto"
	"github.com/noah-isme/syllabus-api/internal/middleware"
	"github.com/noah-isme/syllabus-api/internal/models"
	appErrors "github.com/noah-isme/syllabus-api/pkg/errors"
	"github.com/noah-isme/syllabus-api/pkg/response"
)

type subscriptionService interface {
	ListForUser(ctx context.Context, userID string) ([]models.Subscription, error)
	ListAll(ctx context.Context) ([]models.Subscription, error)
	Subscribe(ctx context.Context, sub models.Subscription) (*models.Subscription, error)
	Unsubscribe(ctx context.Context, id string) error
}

// SubscriptionHandler manages course change subscriptions of the caller.
type SubscriptionHandler struct {
	service subscriptionService
}

// NewSubscriptionHandler constructs the handler.
func NewSubscriptionHandler(svc subscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: svc}
}

// ListMine godoc
// @Summary List my subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscriptions [get]
func (h *SubscriptionHandler) ListMine(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subs, err := h.service.ListForUser(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, middleware.ResponseMeta(c, map[string]interface{}{"count": len(subs)}))
}

// ListAll godoc
// @Summary List all subscriptions
// @Tags Subscriptions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscriptions/all [get]
func (h *SubscriptionHandler) ListAll(c *gin.Context) {
	subs, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs, middleware.ResponseMeta(c, map[string]interface{}{"count": len(subs)}))
}

// Subscribe godoc
// @Summary Subscribe to course changes
// @Description Patterns are an exact code, a prefix ending in * or a lone *. Re-subscribing to a pattern updates its channels.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param payload body dto.SubscribeRequest true "Subscription payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid subscription payload"))
		return
	}
	pattern := strings.TrimSpace(req.Pattern)
	if pattern == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "pattern is required"))
		return
	}

	displayName := actor.DisplayName
	if displayName == "" {
		displayName = actor.ID
	}
	sub := models.NewSubscription(actor.ID, displayName, pattern)
	if req.NotifyEmail != nil {
		sub.NotifyByEmail = *req.NotifyEmail
	}
	if req.NotifySMS != nil {
		sub.NotifyBySMS = *req.NotifySMS
	}

	stored, err := h.service.Subscribe(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, stored, nil)
}

// Unsubscribe godoc
// @Summary Remove a subscription
// @Description Unknown ids are ignored. Only instructors may remove subscriptions of other users.
// @Tags Subscriptions
// @Param id path string true "Subscription ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /subscriptions/{id} [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	id := c.Param("id")

	if !actor.IsInstructor() {
		owner, err := h.ownerOf(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		if owner != "" && !strings.EqualFold(owner, actor.ID) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "subscription belongs to another user"))
			return
		}
	}

	if err := h.service.Unsubscribe(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ownerOf returns the user owning id, or "" when no such subscription exists.
func (h *SubscriptionHandler) ownerOf(ctx context.Context, id string) (string, error) {
	subs, err := h.service.ListAll(ctx)
	if err != nil {
		return "", err
	}
	for _, sub := range subs {
		if sub.ID == id {
			return sub.UserID, nil
		}
	}
	return "", nil
}
