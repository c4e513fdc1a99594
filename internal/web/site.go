// Package web serves the server-rendered pages of the site.
package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"burst-backend/internal/auth"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"
	"burst-backend/internal/service"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// SiteName is shown in page titles and the header
const SiteName = "Burst"

// Services are the application services the pages call
type Services struct {
	Articles      service.ArticleServiceInterface
	Newsletters   service.NewsletterServiceInterface
	Subscriptions service.SubscriptionServiceInterface
	Publishers    service.PublisherServiceInterface
	Categories    service.CategoryServiceInterface
	Accounts      service.AccountServiceInterface
}

// Site handles the web routes
type Site struct {
	Services
	sessions *scs.SessionManager
	views    *Renderer
}

// NewSite creates the web handlers
func NewSite(services Services, sessions *scs.SessionManager, views *Renderer) *Site {
	return &Site{Services: services, sessions: sessions, views: views}
}

// Routes mounts the pages on r. Every page loads the session user; pages for
// signed-in users redirect anonymous visitors to the login form.
func (s *Site) Routes(r gin.IRouter, mw *auth.AuthMiddleware) {
	site := r.Group("/", mw.SessionAuth())
	site.GET("/", s.Home)
	site.GET("/search/", s.Search)
	site.GET("/terms/", s.static("terms.html", "Terms of Service"))
	site.GET("/privacy/", s.static("privacy.html", "Privacy Policy"))

	site.GET("/articles/:id/", s.ArticleDetail)
	site.GET("/newsletters/", s.NewsletterList)
	site.GET("/newsletters/:id/", s.NewsletterDetail)

	site.GET("/register/", s.RegisterForm)
	site.POST("/register/", s.Register)
	site.GET("/login/", s.LoginForm)
	site.POST("/login/", s.Login)
	site.GET("/logout/", s.Logout)
	site.POST("/logout/", s.Logout)
	site.GET("/forgot-password/", s.ForgotPasswordForm)
	site.POST("/forgot-password/", s.ForgotPassword)
	site.GET("/reset-password/:token/", s.ResetPasswordForm)
	site.POST("/reset-password/:token/", s.ResetPassword)

	members := site.Group("/", mw.RequireLogin())
	members.GET("/articles/", s.ArticleList)
	members.GET("/newsletters/create/", s.NewsletterForm)
	members.POST("/newsletters/create/", s.CreateNewsletter)
	members.GET("/subscriptions/", s.ManageSubscriptions)
	members.POST("/subscriptions/", s.Subscribe)
	members.GET("/subscriptions/:id/delete/", s.ConfirmDeleteSubscription)
	members.POST("/subscriptions/:id/delete/", s.DeleteSubscription)
	members.GET("/dashboard/publisher/", s.Dashboard)
	members.POST("/dashboard/publisher/", s.AddMember)
}

// render adds the signed-in user and the pending flash message to data
func (s *Site) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["SiteName"] = SiteName
	data["User"] = auth.CurrentUser(c)
	data["Flash"] = auth.PopFlash(c.Request.Context(), s.sessions)
	s.views.HTML(c, status, name, data)
}

func (s *Site) static(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, name, gin.H{"Title": title})
	}
}

// redirect stores message for the next page and sends the browser to target
func (s *Site) redirect(c *gin.Context, target, message string) {
	if message != "" {
		auth.Flash(c.Request.Context(), s.sessions, message)
	}
	c.Redirect(http.StatusSeeOther, target)
}

// NotFound renders the 404 page
func (s *Site) NotFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Page not found"})
}

// fail renders the page matching a service error
func (s *Site) fail(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		s.NotFound(c)
	case apperrors.IsAuthorization(err):
		s.redirect(c, "/", "You do not have permission to do that.")
	default:
		logger.WithContext(c.Request.Context()).WithError(err).
			WithField("path", c.Request.URL.Path).Error("Page failed")
		s.render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Server error"})
	}
}

// formError returns the message to show next to a form, or "" when err is not the user's fault
func formError(err error) string {
	var verr *apperrors.ValidationError
	switch {
	case errors.As(err, &verr):
		if verr.Field == "" {
			return verr.Message
		}
		return verr.Field + ": " + verr.Message
	case apperrors.IsAlreadyExists(err), apperrors.IsAuthentication(err), apperrors.IsNotFound(err):
		return err.Error()
	}
	return ""
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// safeNext accepts only local paths as login redirect targets
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// Pager describes the position in a paginated list
type Pager struct {
	Page    int
	Pages   int
	HasPrev bool
	HasNext bool
	Prev    int
	Next    int
}

func newPager(page, pageSize int, total int64) Pager {
	pages := 1
	if pageSize > 0 && total > 0 {
		pages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Pager{
		Page:    page,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: page < pages,
		Prev:    page - 1,
		Next:    page + 1,
	}
}

func isDenied(err error) bool {
	return apperrors.IsAuthorization(err)
}
