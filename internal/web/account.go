package web

import (
	"errors"
	"net/http"
	"strings"

	"burst-backend/internal/auth"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"
	"burst-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const resetRequestedMessage = "If an account exists for that email, a password reset link has been sent."

func (s *Site) registerPage(c *gin.Context, status int, form *service.RegisterRequest, message string) {
	publishers, err := s.Publishers.GetAll(1, 200)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.render(c, status, "register.html", gin.H{
		"Title":      "Create an account",
		"Publishers": publishers.Publishers,
		"Form":       form,
		"Error":      message,
	})
}

// RegisterForm handles GET /register/
func (s *Site) RegisterForm(c *gin.Context) {
	s.registerPage(c, http.StatusOK, &service.RegisterRequest{Role: "reader"}, "")
}

// Register handles POST /register/ and signs the new user in
func (s *Site) Register(c *gin.Context) {
	req := &service.RegisterRequest{
		Username:        strings.TrimSpace(c.PostForm("username")),
		Email:           strings.TrimSpace(c.PostForm("email")),
		FirstName:       strings.TrimSpace(c.PostForm("first_name")),
		LastName:        strings.TrimSpace(c.PostForm("last_name")),
		Password:        c.PostForm("password"),
		PasswordConfirm: c.PostForm("password_confirm"),
		Role:            c.PostForm("role"),
		PublisherName:   strings.TrimSpace(c.PostForm("publisher_name")),
	}
	if raw := c.PostForm("publisher_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.registerPage(c, http.StatusBadRequest, req, "Choose a publisher from the list.")
			return
		}
		req.PublisherID = &id
	}

	user, err := s.Accounts.Register(req)
	if err != nil {
		if msg := formError(err); msg != "" {
			s.registerPage(c, http.StatusBadRequest, req, msg)
			return
		}
		s.fail(c, err)
		return
	}

	if err := auth.Login(c.Request.Context(), s.sessions, user.ID); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, "/", "Account created successfully for "+user.Username+".")
}

// LoginForm handles GET /login/
func (s *Site) LoginForm(c *gin.Context) {
	s.render(c, http.StatusOK, "login.html", gin.H{"Title": "Log in", "Next": c.Query("next"), "Username": ""})
}

// Login handles POST /login/
func (s *Site) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	next := c.PostForm("next")

	user, err := s.Accounts.Authenticate(username, c.PostForm("password"))
	if err != nil {
		if msg := formError(err); msg != "" {
			s.render(c, http.StatusUnauthorized, "login.html", gin.H{
				"Title": "Log in", "Next": next, "Username": username, "Error": msg,
			})
			return
		}
		s.fail(c, err)
		return
	}

	if err := auth.Login(c.Request.Context(), s.sessions, user.ID); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, safeNext(next), "Welcome back, "+user.Username+"!")
}

// Logout handles /logout/
func (s *Site) Logout(c *gin.Context) {
	if err := auth.Logout(c.Request.Context(), s.sessions); err != nil {
		s.fail(c, err)
		return
	}
	s.redirect(c, "/", "You have been logged out.")
}

// ForgotPasswordForm handles GET /forgot-password/
func (s *Site) ForgotPasswordForm(c *gin.Context) {
	s.render(c, http.StatusOK, "forgot_password.html", gin.H{"Title": "Forgot password"})
}

// ForgotPassword handles POST /forgot-password/. The answer is the same whether
// or not the address is known and whether or not the email went out.
func (s *Site) ForgotPassword(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	if email == "" {
		s.render(c, http.StatusBadRequest, "forgot_password.html", gin.H{
			"Title": "Forgot password", "Error": "Enter your email address.",
		})
		return
	}
	if err := s.Accounts.RequestPasswordReset(c.Request.Context(), email); err != nil {
		logger.WithContext(c.Request.Context()).WithError(err).Warn("Password reset request failed")
	}
	s.redirect(c, "/login/", resetRequestedMessage)
}

// ResetPasswordForm handles GET /reset-password/:token/
func (s *Site) ResetPasswordForm(c *gin.Context) {
	s.render(c, http.StatusOK, "reset_password.html", gin.H{"Title": "Choose a new password", "Token": c.Param("token")})
}

// ResetPassword handles POST /reset-password/:token/
func (s *Site) ResetPassword(c *gin.Context) {
	token := c.Param("token")
	req := &service.ResetPasswordRequest{
		Password:        c.PostForm("password"),
		PasswordConfirm: c.PostForm("password_confirm"),
	}

	err := s.Accounts.ResetPassword(token, req)
	switch {
	case err == nil:
		s.redirect(c, "/login/", "Password reset successfully. Please log in.")
	case isInvalidResetLink(err):
		s.redirect(c, "/forgot-password/", "Invalid or expired reset link.")
	default:
		if msg := formError(err); msg != "" {
			s.render(c, http.StatusBadRequest, "reset_password.html", gin.H{
				"Title": "Choose a new password", "Token": token, "Error": msg,
			})
			return
		}
		s.fail(c, err)
	}
}

func isInvalidResetLink(err error) bool {
	return errors.Is(err, apperrors.ErrPasswordResetTokenNotFound) ||
		errors.Is(err, apperrors.ErrResetTokenUsed) ||
		errors.Is(err, apperrors.ErrResetTokenExpired)
}
