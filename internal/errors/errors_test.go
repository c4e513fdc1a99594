package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "article"}
		assert.Equal(t, "article not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "article"}
		err2 := &NotFoundError{Entity: "article"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "article"}
		err2 := &NotFoundError{Entity: "newsletter"}
		assert.False(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is with predefined errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrArticleNotFound, ErrArticleNotFound))
		assert.False(t, errors.Is(ErrArticleNotFound, ErrNewsletterNotFound))
	})

	t.Run("wrapped errors", func(t *testing.T) {
		wrapped := fmt.Errorf("failed to get article: %w", ErrArticleNotFound)
		assert.True(t, errors.Is(wrapped, ErrArticleNotFound))
		assert.True(t, IsNotFound(wrapped))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrSubscriptionNotFound))
		assert.False(t, IsNotFound(ErrAlreadySubscribed))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "publisher", Context: "with this name"}
		assert.Equal(t, "publisher already exists with this name", err.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "publisher"}
		assert.Equal(t, "publisher already exists", err.Error())
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrUserExists))
		assert.False(t, IsAlreadyExists(ErrUserNotFound))
	})
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError("draft", "approved")
	assert.Equal(t, "cannot transition from draft to approved", err.Error())
	assert.True(t, IsInvalidTransition(fmt.Errorf("transition: %w", err)))
	assert.False(t, IsInvalidTransition(ErrPermissionDenied))
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := NewValidationError("title", "must not be empty")
		assert.Equal(t, "validation error: title - must not be empty", err.Error())
		assert.True(t, IsValidation(err))
	})

	t.Run("without field", func(t *testing.T) {
		err := NewValidationError("", "passwords do not match")
		assert.Equal(t, "validation error: passwords do not match", err.Error())
	})
}

func TestAuthErrors(t *testing.T) {
	assert.True(t, IsAuthorization(ErrPermissionDenied))
	assert.True(t, IsAuthorization(fmt.Errorf("submit: %w", ErrPermissionDenied)))
	assert.True(t, IsAuthentication(ErrInvalidCredentials))
	assert.False(t, IsAuthentication(ErrPermissionDenied))
	assert.True(t, IsConfiguration(ErrSecretKeyMissing))
}
