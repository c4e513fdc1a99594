package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"burst-backend/internal/config"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/logger"
	"burst-backend/internal/metrics"
	"burst-backend/internal/notify"
	"burst-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService fans published content out to subscribers and serves in-app notifications
type NotificationService struct {
	repo          repository.NotificationRepositoryInterface
	subscriptions repository.SubscriptionRepositoryInterface
	dispatcher    notify.Dispatcher
	cfg           *config.Config
	now           func() time.Time
}

// Ensure NotificationService implements NotificationServiceInterface
var _ NotificationServiceInterface = (*NotificationService)(nil)

// NewNotificationService creates a new notification service
func NewNotificationService(
	repo repository.NotificationRepositoryInterface,
	subscriptions repository.SubscriptionRepositoryInterface,
	dispatcher notify.Dispatcher,
	cfg *config.Config,
) *NotificationService {
	return &NotificationService{
		repo:          repo,
		subscriptions: subscriptions,
		dispatcher:    dispatcher,
		cfg:           cfg,
		now:           time.Now,
	}
}

// ContentPath returns the site path of a content item, e.g. /articles/<id>/
func ContentPath(kind models.ContentKind, id uuid.UUID) string {
	return fmt.Sprintf("/%ss/%s/", kind, id)
}

// OnPublish gives every distinct subscriber of the content's publisher or author one
// notification and hands one email to the dispatcher. It returns the number of notifications
// created. Email hand-off failures are logged and counted only.
func (s *NotificationService) OnPublish(ctx context.Context, content models.Content) (int, error) {
	core := content.Core()
	subscribers, err := s.subscriptions.SubscribersOf(core.PublisherID, core.AuthorID)
	if err != nil {
		return 0, fmt.Errorf("failed to load subscribers: %w", err)
	}

	kind := content.Kind()
	path := ContentPath(kind, content.GetID())
	link := s.cfg.AbsoluteURL(path)
	byline := ""
	if core.Author != nil {
		byline = core.Author.FullName()
	}
	log := logger.WithContext(ctx).WithFields(map[string]interface{}{
		"kind": string(kind),
		"id":   content.GetID().String(),
	})

	var errs []error
	created := 0
	for i := range subscribers {
		reader := &subscribers[i]
		n := &models.Notification{
			RecipientID: reader.ID,
			ContentKind: kind,
			ContentID:   content.GetID(),
			Title:       core.Title,
			Message:     fmt.Sprintf("New %s published: %s", kind, core.Title),
			Link:        path,
		}
		if err := s.repo.Create(n); err != nil {
			errs = append(errs, fmt.Errorf("notification for %s: %w", reader.Username, err))
			continue
		}
		created++
		metrics.RecordNotificationCreated()

		if reader.Email == "" {
			continue
		}
		email := notify.PublishedEmail(reader.Email, reader.FullName(), string(kind), core.Title, byline, link)
		if err := s.dispatcher.Dispatch(ctx, email); err != nil {
			metrics.RecordEmail("dropped")
			log.WithError(err).WithField("recipient", reader.Username).Warn("Failed to hand off notification email")
		}
	}

	return created, errors.Join(errs...)
}

// List returns a page of recipient's notifications
func (s *NotificationService) List(recipient *models.User, unreadOnly bool, page, pageSize int) (*NotificationListResponse, error) {
	if recipient == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	page, pageSize, offset := normalizePage(page, pageSize, 20, 100)

	notifications, total, err := s.repo.ListByRecipient(recipient.ID, unreadOnly, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	responses := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = toNotificationResponse(&notifications[i])
	}

	return &NotificationListResponse{
		Notifications: responses,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// MarkRead marks one of recipient's notifications as read
func (s *NotificationService) MarkRead(recipient *models.User, id uuid.UUID) (*NotificationResponse, error) {
	if recipient == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	n, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	if n.RecipientID != recipient.ID {
		return nil, apperrors.ErrNotificationNotFound
	}

	if n.ReadAt == nil {
		now := s.now()
		if err := s.repo.MarkRead(n.ID, now); err != nil {
			return nil, fmt.Errorf("failed to mark notification read: %w", err)
		}
		n.ReadAt = &now
	}

	resp := toNotificationResponse(n)
	return &resp, nil
}
