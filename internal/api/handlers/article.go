package handlers

import (
	"net/http"

	"burst-backend/internal/auth"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/service"
	"burst-backend/internal/workflow"

	"github.com/gin-gonic/gin"
)

// TransitionRequest carries the optional reason of a workflow action
type TransitionRequest struct {
	Reason string `json:"reason" example:"needs a second source"`
}

// ArticleHandler handles HTTP requests for article operations
type ArticleHandler struct {
	articleService service.ArticleServiceInterface
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articleService service.ArticleServiceInterface) *ArticleHandler {
	return &ArticleHandler{articleService: articleService}
}

// ListArticles handles GET /api/articles/
// @Summary List articles
// @Description List the articles visible to the caller. Anonymous callers see published articles only.
// @Tags articles
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Param status query string false "Filter by status"
// @Param category query string false "Filter by category name"
// @Param publisher query string false "Filter by publisher name"
// @Param q query string false "Search title and body"
// @Param subscribed query bool false "Only content from followed publishers and journalists"
// @Success 200 {object} service.ArticleListResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/articles/ [get]
func (h *ArticleHandler) ListArticles(c *gin.Context) {
	var req service.ArticleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondError(c, apperrors.NewValidationError("query", err.Error()))
		return
	}

	resp, err := h.articleService.List(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetArticle handles GET /api/articles/{id}/
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} service.ArticleResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/articles/{id}/ [get]
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.articleService.GetByID(auth.CurrentUser(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateArticle handles POST /api/articles/
// @Summary Create a draft article
// @Description Journalists attached to a publisher create drafts
// @Tags articles
// @Accept json
// @Produce json
// @Param article body service.CreateArticleRequest true "Article"
// @Success 201 {object} service.ArticleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/articles/ [post]
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req service.CreateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.articleService.Create(auth.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// UpdateArticle handles PUT and PATCH /api/articles/{id}/
// @Summary Update an article
// @Description PUT replaces title and body, PATCH changes only the given fields. Editing a published article returns it to draft.
// @Tags articles
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param article body service.UpdateArticleRequest true "Changes"
// @Success 200 {object} service.ArticleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Concurrent update"
// @Security BearerAuth
// @Router /api/articles/{id}/ [put]
// @Router /api/articles/{id}/ [patch]
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req service.UpdateArticleRequest
	if !bindJSON(c, &req) {
		return
	}
	if c.Request.Method == http.MethodPut && (req.Title == nil || req.Body == nil) {
		respondError(c, apperrors.NewValidationError("body", "PUT requires title and body"))
		return
	}

	resp, err := h.articleService.Update(c.Request.Context(), auth.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteArticle handles DELETE /api/articles/{id}/
// @Summary Delete an article
// @Tags articles
// @Param id path string true "Article ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/articles/{id}/ [delete]
func (h *ArticleHandler) DeleteArticle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.articleService.Delete(c.Request.Context(), auth.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Transition returns the handler for POST /api/articles/{id}/{action}/
// @Summary Run a workflow action on an article
// @Description Actions: submit, approve, hold, reject, publish, archive, restore
// @Tags articles
// @Accept json
// @Produce json
// @Param id path string true "Article ID"
// @Param action path string true "Workflow action"
// @Param request body TransitionRequest false "Rejection reason"
// @Success 200 {object} service.ArticleResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Invalid transition"
// @Security BearerAuth
// @Router /api/articles/{id}/{action}/ [post]
func (h *ArticleHandler) Transition(action workflow.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		var req TransitionRequest
		if !bindOptionalJSON(c, &req) {
			return
		}

		resp, err := h.articleService.Transition(c.Request.Context(), auth.CurrentUser(c), id, action, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// UploadImage handles POST /api/articles/{id}/image/
// @Summary Upload the hero image
// @Description JPEG, PNG, GIF or WebP up to 5 MiB. The format is detected from the file content.
// @Tags articles
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Article ID"
// @Param image formData file true "Image file"
// @Success 200 {object} service.ArticleResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/articles/{id}/image/ [post]
func (h *ArticleHandler) UploadImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	file, err := openUpload(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.articleService.AttachImage(c.Request.Context(), auth.CurrentUser(c), id, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
