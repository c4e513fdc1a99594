package handlers

import (
	"net/http"
	"strconv"

	"burst-backend/internal/auth"
	"burst-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// PublisherHandler handles HTTP requests for publishers and the owner dashboard
type PublisherHandler struct {
	publisherService service.PublisherServiceInterface
}

// NewPublisherHandler creates a new publisher handler
func NewPublisherHandler(publisherService service.PublisherServiceInterface) *PublisherHandler {
	return &PublisherHandler{publisherService: publisherService}
}

// ListPublishers handles GET /api/publishers/
// @Summary List publishers
// @Tags publishers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(50)
// @Success 200 {object} service.PublisherListResponse
// @Router /api/publishers/ [get]
func (h *PublisherHandler) ListPublishers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	resp, err := h.publisherService.GetAll(page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPublisher handles GET /api/publishers/{id}/
// @Summary Get a publisher
// @Tags publishers
// @Produce json
// @Param id path string true "Publisher ID"
// @Success 200 {object} service.PublisherResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/publishers/{id}/ [get]
func (h *PublisherHandler) GetPublisher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.publisherService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreatePublisher handles POST /api/publishers/
// @Summary Create a publisher
// @Description Staff only
// @Tags publishers
// @Accept json
// @Produce json
// @Param publisher body service.CreatePublisherRequest true "Publisher"
// @Success 201 {object} service.PublisherResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/publishers/ [post]
func (h *PublisherHandler) CreatePublisher(c *gin.Context) {
	var req service.CreatePublisherRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.publisherService.Create(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdatePublisher handles PUT /api/publishers/{id}/
// @Summary Update a publisher
// @Description Staff or the publisher's owner
// @Tags publishers
// @Accept json
// @Produce json
// @Param id path string true "Publisher ID"
// @Param publisher body service.UpdatePublisherRequest true "Publisher"
// @Success 200 {object} service.PublisherResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/publishers/{id}/ [put]
func (h *PublisherHandler) UpdatePublisher(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdatePublisherRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.publisherService.Update(auth.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard handles GET /api/dashboard/
// @Summary Publisher owner dashboard
// @Tags publishers
// @Produce json
// @Success 200 {object} service.DashboardResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/dashboard/ [get]
func (h *PublisherHandler) Dashboard(c *gin.Context) {
	resp, err := h.publisherService.Dashboard(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddMember handles POST /api/dashboard/members/
// @Summary Add an editor or journalist to my publisher
// @Tags publishers
// @Accept json
// @Produce json
// @Param member body service.AddMemberRequest true "Member"
// @Success 201 {object} service.UserResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/dashboard/members/ [post]
func (h *PublisherHandler) AddMember(c *gin.Context) {
	var req service.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.publisherService.AddMember(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
