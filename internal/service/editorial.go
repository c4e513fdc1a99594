package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"burst-backend/internal/access"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"
	"burst-backend/internal/media"
	"burst-backend/internal/metrics"
	"burst-backend/internal/storage"
	"burst-backend/internal/workflow"
)

// editorialOps is the workflow plumbing shared by the article and newsletter services
type editorialOps struct {
	engine   *workflow.Engine
	notifier NotificationServiceInterface
	images   storage.ImageStore
}

// saveFunc persists content if the stored version still equals expectedVersion
type saveFunc func(expectedVersion int) error

// transition applies action to content and saves it. Entering published notifies
// subscribers; a notification failure is logged and never fails the transition.
func (o *editorialOps) transition(ctx context.Context, actor *models.User, content models.Content, action workflow.Action, reason string, save saveFunc) error {
	to, err := workflow.Target(action)
	if err != nil {
		return err
	}

	core := content.Core()
	from := core.Status
	expected := core.Version
	kind := string(content.Kind())
	log := logger.WithContext(ctx).WithFields(map[string]interface{}{
		"kind":   kind,
		"id":     content.GetID().String(),
		"action": string(action),
	})

	if err := o.engine.Transition(actor, content, to, reason); err != nil {
		metrics.RecordTransitionRejected(kind, rejectionLabel(err))
		log.WithError(err).Info("Workflow transition refused")
		return err
	}

	if err := save(expected); err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}

	metrics.RecordTransition(kind, string(from), string(to))
	log.WithFields(map[string]interface{}{"from": from, "to": to}).Info("Workflow transition applied")

	if to == models.StatusPublished && o.notifier != nil {
		notified, err := o.notifier.OnPublish(ctx, content)
		if err != nil {
			log.WithError(err).Error("Failed to notify subscribers")
		} else {
			log.WithField("notified", notified).Info("Subscribers notified")
		}
	}
	return nil
}

// edit applies a content change on behalf of actor and saves it.
// Editing published content sends it back to draft.
func (o *editorialOps) edit(ctx context.Context, actor *models.User, content models.Content, apply func() error, save saveFunc) error {
	if !access.CanEdit(actor, content) {
		return apperrors.ErrPermissionDenied
	}

	core := content.Core()
	expected := core.Version
	if err := apply(); err != nil {
		return err
	}
	if o.engine.RevertToDraft(content) {
		metrics.RecordTransition(string(content.Kind()), string(models.StatusPublished), string(models.StatusDraft))
		logger.WithContext(ctx).
			WithField("id", content.GetID().String()).
			Info("Published content edited, reverted to draft")
	}
	core.Version++

	if err := save(expected); err != nil {
		return fmt.Errorf("failed to update %s: %w", content.Kind(), err)
	}
	return nil
}

// storeImage sniffs and validates an upload, then writes it to the image store
func (o *editorialOps) storeImage(ctx context.Context, content models.Content, field, name string, r io.Reader) (models.ImageAttachment, error) {
	img, err := media.ReadImage(field, r)
	if err != nil {
		return models.ImageAttachment{}, err
	}

	key := storage.ImageKey(content.Kind(), content.GetID(), name, img.Extension)
	url, err := o.images.Save(ctx, key, img.ContentType, bytes.NewReader(img.Data), img.Size())
	if err != nil {
		return models.ImageAttachment{}, fmt.Errorf("failed to store image: %w", err)
	}

	return models.ImageAttachment{
		Key:         key,
		URL:         url,
		ContentType: img.ContentType,
		Size:        img.Size(),
	}, nil
}

// removeImage deletes a stored image, logging failures
func (o *editorialOps) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := o.images.Delete(ctx, key); err != nil {
		logger.WithContext(ctx).WithError(err).WithField("key", key).Warn("Failed to delete stored image")
	}
}

func rejectionLabel(err error) string {
	switch {
	case apperrors.IsInvalidTransition(err):
		return "invalid_transition"
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return "permission_denied"
	case apperrors.IsValidation(err):
		return "validation"
	}
	return "other"
}
