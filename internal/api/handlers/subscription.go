package handlers

import (
	"net/http"

	"burst-backend/internal/auth"
	"burst-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SubscriptionHandler handles HTTP requests for reader subscriptions
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionServiceInterface
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subscriptionService service.SubscriptionServiceInterface) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// ListSubscriptions handles GET /api/subscriptions/
// @Summary List my subscriptions
// @Tags subscriptions
// @Produce json
// @Success 200 {array} service.SubscriptionResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions/ [get]
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	resp, err := h.subscriptionService.List(auth.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Subscribe handles POST /api/subscriptions/
// @Summary Follow a publisher or a journalist
// @Description Set exactly one of publisher_id and journalist_id. Readers only.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param subscription body service.SubscribeRequest true "Target"
// @Success 201 {object} service.SubscriptionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already subscribed"
// @Security BearerAuth
// @Router /api/subscriptions/ [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req service.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.subscriptionService.Subscribe(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Unsubscribe handles DELETE /api/subscriptions/
// @Summary Stop following a publisher or a journalist
// @Tags subscriptions
// @Accept json
// @Param subscription body service.SubscribeRequest true "Target"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not subscribed"
// @Security BearerAuth
// @Router /api/subscriptions/ [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req service.SubscribeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.subscriptionService.Unsubscribe(auth.CurrentUser(c), &req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteSubscription handles DELETE /api/subscriptions/{id}/
// @Summary Delete one of my subscriptions
// @Tags subscriptions
// @Param id path string true "Subscription ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/subscriptions/{id}/ [delete]
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.subscriptionService.Delete(auth.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
