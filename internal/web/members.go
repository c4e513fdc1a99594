package web

import (
	"errors"
	"net/http"
	"strings"

	"burst-backend/internal/auth"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ManageSubscriptions handles GET /subscriptions/
func (s *Site) ManageSubscriptions(c *gin.Context) {
	subs, err := s.Subscriptions.List(auth.CurrentUser(c))
	if err != nil {
		if isDenied(err) {
			s.redirect(c, "/", "Only readers can manage subscriptions.")
			return
		}
		s.fail(c, err)
		return
	}
	publishers, err := s.Publishers.GetAll(1, 200)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "subscriptions.html", gin.H{
		"Title":         "My subscriptions",
		"Subscriptions": subs,
		"Publishers":    publishers.Publishers,
	})
}

// Subscribe handles POST /subscriptions/ from the management page and the
// follow buttons on article pages
func (s *Site) Subscribe(c *gin.Context) {
	req := &service.SubscribeRequest{}
	for field, dst := range map[string]**uuid.UUID{"publisher_id": &req.PublisherID, "journalist_id": &req.JournalistID} {
		raw := strings.TrimSpace(c.PostForm(field))
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			s.redirect(c, "/subscriptions/", "Choose a publisher or a journalist to follow.")
			return
		}
		*dst = &id
	}

	sub, err := s.Subscriptions.Subscribe(auth.CurrentUser(c), req)
	switch {
	case err == nil:
		s.redirect(c, "/subscriptions/", "Successfully subscribed to "+sub.TargetName+".")
	case errors.Is(err, apperrors.ErrAlreadySubscribed):
		s.redirect(c, "/subscriptions/", "You are already subscribed.")
	case isDenied(err):
		s.redirect(c, "/", "Only readers can manage subscriptions.")
	default:
		if msg := formError(err); msg != "" {
			s.redirect(c, "/subscriptions/", msg)
			return
		}
		s.fail(c, err)
	}
}

// ConfirmDeleteSubscription handles GET /subscriptions/:id/delete/
func (s *Site) ConfirmDeleteSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.NotFound(c)
		return
	}
	subs, err := s.Subscriptions.List(auth.CurrentUser(c))
	if err != nil {
		s.fail(c, err)
		return
	}
	for i := range subs {
		if subs[i].ID == id {
			s.render(c, http.StatusOK, "subscription_delete.html", gin.H{
				"Title":        "Remove subscription",
				"Subscription": subs[i],
			})
			return
		}
	}
	s.NotFound(c)
}

// DeleteSubscription handles POST /subscriptions/:id/delete/
func (s *Site) DeleteSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		s.NotFound(c)
		return
	}
	if err := s.Subscriptions.Delete(auth.CurrentUser(c), id); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, "/subscriptions/", "Subscription removed successfully.")
}

// Dashboard handles GET /dashboard/publisher/
func (s *Site) Dashboard(c *gin.Context) {
	dashboard, err := s.Publishers.Dashboard(c.Request.Context(), auth.CurrentUser(c))
	if err != nil {
		if isDenied(err) {
			s.redirect(c, "/", "Only publishers can access this dashboard.")
			return
		}
		s.fail(c, err)
		return
	}
	s.render(c, http.StatusOK, "dashboard.html", gin.H{
		"Title":     dashboard.Publisher.Name,
		"Dashboard": dashboard,
	})
}

// AddMember handles POST /dashboard/publisher/
func (s *Site) AddMember(c *gin.Context) {
	req := &service.AddMemberRequest{
		Username: strings.TrimSpace(c.PostForm("username")),
		Role:     c.PostForm("role"),
	}
	member, err := s.Publishers.AddMember(auth.CurrentUser(c), req)
	switch {
	case err == nil:
		s.redirect(c, "/dashboard/publisher/", "Added "+member.Username+" as "+req.Role+".")
	case isDenied(err):
		s.redirect(c, "/", "Only publishers can access this dashboard.")
	default:
		if msg := formError(err); msg != "" {
			s.redirect(c, "/dashboard/publisher/", msg)
			return
		}
		s.fail(c, err)
	}
}
