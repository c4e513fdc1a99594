package feed

import (
	"net/http"

	"burst-backend/internal/database/models"
	"burst-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// allPublished lifts the row limit of the published query
const allPublished = -1

// Source lists published articles, newest first
type Source interface {
	LatestPublished(limit int) ([]models.Article, error)
}

// Handler serves /feed/ and /sitemap.xml
type Handler struct {
	source Source
	urls   URLBuilder
}

// NewHandler creates a feed handler
func NewHandler(source Source, urls URLBuilder) *Handler {
	return &Handler{source: source, urls: urls}
}

// Feed handles GET /feed/
func (h *Handler) Feed(c *gin.Context) {
	articles, err := h.source.LatestPublished(FeedSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	body, err := RSS(h.urls, articles)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}

// Sitemap handles GET /sitemap.xml
func (h *Handler) Sitemap(c *gin.Context) {
	articles, err := h.source.LatestPublished(allPublished)
	if err != nil {
		h.fail(c, err)
		return
	}
	body, err := Sitemap(h.urls, articles)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}

func (h *Handler) fail(c *gin.Context, err error) {
	logger.WithContext(c.Request.Context()).WithError(err).Error("Failed to render feed")
	c.String(http.StatusInternalServerError, "internal server error")
}
