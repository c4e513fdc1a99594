package handlers

import (
	"net/http"
	"strconv"

	"burst-backend/internal/auth"
	"burst-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationHandler handles HTTP requests for in-app notifications
type NotificationHandler struct {
	notificationService service.NotificationServiceInterface
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService service.NotificationServiceInterface) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// ListNotifications handles GET /api/notifications/
// @Summary List my notifications
// @Tags notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} service.NotificationListResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/notifications/ [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	unread, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	resp, err := h.notificationService.List(auth.CurrentUser(c), unread, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkRead handles POST /api/notifications/{id}/read/
// @Summary Mark a notification as read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} service.NotificationResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/notifications/{id}/read/ [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.notificationService.MarkRead(auth.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
