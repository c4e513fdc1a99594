package handlers

import (
	"net/http"

	"burst-backend/internal/auth"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/service"
	"burst-backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// NewsletterHandler handles HTTP requests for newsletter operations
type NewsletterHandler struct {
	newsletterService service.NewsletterServiceInterface
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletterService service.NewsletterServiceInterface) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// ListNewsletters handles GET /api/newsletters/
// @Summary List newsletters
// @Description List the newsletters visible to the caller. Anonymous callers see published newsletters only.
// @Tags newsletters
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param q query string false "Search title and body"
// @Param subscribed query bool false "Only content from followed publishers and journalists"
// @Success 200 {object} service.NewsletterListResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/newsletters/ [get]
func (h *NewsletterHandler) ListNewsletters(c *gin.Context) {
	var req service.NewsletterListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, apperrors.NewValidationError("query", err.Error()))
		return
	}

	resp, err := h.newsletterService.List(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetNewsletter handles GET /api/newsletters/{id}/
// @Summary Get a newsletter
// @Tags newsletters
// @Produce json
// @Param id path string true "Newsletter ID"
// @Success 200 {object} service.NewsletterResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/newsletters/{id}/ [get]
func (h *NewsletterHandler) GetNewsletter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.newsletterService.GetByID(auth.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateNewsletter handles POST /api/newsletters/
// @Summary Create a draft newsletter
// @Description Journalists attached to a publisher create drafts
// @Tags newsletters
// @Accept json
// @Produce json
// @Param newsletter body service.CreateNewsletterRequest true "Newsletter"
// @Success 201 {object} service.NewsletterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/newsletters/ [post]
func (h *NewsletterHandler) CreateNewsletter(c *gin.Context) {
	var req service.CreateNewsletterRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.newsletterService.Create(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateNewsletter handles PUT and PATCH /api/newsletters/{id}/
// @Summary Update a newsletter
// @Description PUT replaces title and body, PATCH changes only the given fields. Editing a published newsletter returns it to draft.
// @Tags newsletters
// @Accept json
// @Produce json
// @Param id path string true "Newsletter ID"
// @Param newsletter body service.UpdateNewsletterRequest true "Changes"
// @Success 200 {object} service.NewsletterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Concurrent update"
// @Security BearerAuth
// @Router /api/newsletters/{id}/ [put]
// @Router /api/newsletters/{id}/ [patch]
func (h *NewsletterHandler) UpdateNewsletter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateNewsletterRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && (req.Title == nil || req.Body == nil) {
		respondError(c, apperrors.NewValidationError("body", "PUT requires title and body"))
		return
	}

	resp, err := h.newsletterService.Update(c.Request.Context(), auth.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteNewsletter handles DELETE /api/newsletters/{id}/
// @Summary Delete a newsletter
// @Tags newsletters
// @Param id path string true "Newsletter ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/newsletters/{id}/ [delete]
func (h *NewsletterHandler) DeleteNewsletter(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.newsletterService.Delete(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transition returns the handler for POST /api/newsletters/{id}/{action}/
// @Summary Run a workflow action on a newsletter
// @Description Actions: submit, approve, hold, reject, publish, archive, restore
// @Tags newsletters
// @Accept json
// @Produce json
// @Param id path string true "Newsletter ID"
// @Param action path string true "Workflow action"
// @Param request body TransitionRequest false "Rejection reason"
// @Success 200 {object} service.NewsletterResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Router /api/newsletters/{id}/{action}/ [post]
func (h *NewsletterHandler) Transition(action workflow.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req TransitionRequest
		if !bindOptionalJSON(c, &req) {
			return
		}

		resp, err := h.newsletterService.Transition(c.Request.Context(), auth.CurrentUser(c), id, action, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UploadCover handles POST /api/newsletters/{id}/cover/
// @Summary Upload the cover image
// @Description JPEG, PNG, GIF or WebP up to 5 MiB. The format is detected from the file content.
// @Tags newsletters
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Newsletter ID"
// @Param cover formData file true "Image file"
// @Success 200 {object} service.NewsletterResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/newsletters/{id}/cover/ [post]
func (h *NewsletterHandler) UploadCover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	file, err := openUpload(c, "cover")
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.newsletterService.AttachImage(c.Request.Context(), auth.CurrentUser(c), id, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
