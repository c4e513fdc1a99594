package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return t.Entity == "" || e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "with this username"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return t.Entity == "" || e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError is returned when an actor is not permitted to perform an action
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// TransitionError is returned when the requested status change is not an edge of the workflow graph
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrUserNotFound               = &NotFoundError{Entity: "user"}
	ErrPublisherNotFound          = &NotFoundError{Entity: "publisher"}
	ErrCategoryNotFound           = &NotFoundError{Entity: "category"}
	ErrArticleNotFound            = &NotFoundError{Entity: "article"}
	ErrNewsletterNotFound         = &NotFoundError{Entity: "newsletter"}
	ErrSubscriptionNotFound       = &NotFoundError{Entity: "subscription"}
	ErrNotificationNotFound       = &NotFoundError{Entity: "notification"}
	ErrPasswordResetTokenNotFound = &NotFoundError{Entity: "password reset token"}
)

// Already Exists Errors
var (
	ErrUserExists      = &AlreadyExistsError{Entity: "user", Context: "with this username or email"}
	ErrPublisherExists = &AlreadyExistsError{Entity: "publisher", Context: "with this name"}
	ErrCategoryExists  = &AlreadyExistsError{Entity: "category", Context: "with this name"}
)

// Subscription Errors
var (
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
)

// Business Logic Errors
var (
	ErrPermissionDenied        = &AuthorizationError{Message: "permission denied"}
	ErrConcurrentUpdate        = errors.New("content was modified by another request")
	ErrInvalidPaginationParams = errors.New("invalid pagination parameters")
	ErrInvalidAction           = errors.New("invalid workflow action")
)

// Authentication Errors
var (
	ErrInvalidCredentials = &AuthenticationError{Message: "invalid username or password"}
	ErrInactiveAccount    = &AuthenticationError{Message: "account is disabled"}
	ErrInvalidToken       = &AuthenticationError{Message: "invalid or expired token"}
	ErrResetTokenExpired  = &AuthenticationError{Message: "password reset link has expired"}
	ErrResetTokenUsed     = &AuthenticationError{Message: "password reset link has already been used"}
)

// Configuration Errors
var (
	ErrSecretKeyMissing = &ConfigurationError{Message: "SECRET_KEY must be set in production"}
	ErrS3BucketMissing  = &ConfigurationError{Message: "AWS_S3_BUCKET is required for the s3 media backend"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsInvalidTransition checks if an error is a TransitionError
func IsInvalidTransition(err error) bool {
	var transitionErr *TransitionError
	return errors.As(err, &transitionErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewTransitionError creates a new TransitionError
func NewTransitionError(from, to string) error {
	return &TransitionError{From: from, To: to}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
