package service

import (
	"errors"
	"fmt"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubscriptionService links readers to the publishers and journalists they follow
type SubscriptionService struct {
	repo       repository.SubscriptionRepositoryInterface
	publishers repository.PublisherRepositoryInterface
	users      repository.UserRepositoryInterface
}

// Ensure SubscriptionService implements SubscriptionServiceInterface
var _ SubscriptionServiceInterface = (*SubscriptionService)(nil)

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(
	repo repository.SubscriptionRepositoryInterface,
	publishers repository.PublisherRepositoryInterface,
	users repository.UserRepositoryInterface,
) *SubscriptionService {
	return &SubscriptionService{repo: repo, publishers: publishers, users: users}
}

// SubscribeRequest names the subscription target. Exactly one field must be set.
type SubscribeRequest struct {
	PublisherID  *uuid.UUID `json:"publisher_id,omitempty"`
	JournalistID *uuid.UUID `json:"journalist_id,omitempty"`
}

func (r *SubscribeRequest) validate() error {
	if (r.PublisherID == nil) == (r.JournalistID == nil) {
		return apperrors.NewValidationError("target", "set exactly one of publisher_id or journalist_id")
	}
	return nil
}

// Subscribe makes reader follow a publisher or a journalist.
// A second subscription to the same target fails with ErrAlreadySubscribed.
func (s *SubscriptionService) Subscribe(reader *models.User, req *SubscribeRequest) (*SubscriptionResponse, error) {
	if reader == nil || !reader.IsActive || reader.Role != models.RoleReader {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	sub := &models.Subscription{ReaderID: reader.ID}
	var existing *models.Subscription
	var err error

	if req.PublisherID != nil {
		publisher, perr := s.publishers.GetByID(*req.PublisherID)
		if perr != nil {
			if errors.Is(perr, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrPublisherNotFound
			}
			return nil, fmt.Errorf("failed to get publisher: %w", perr)
		}
		sub.PublisherID = &publisher.ID
		sub.Publisher = publisher
		existing, err = s.repo.FindByReaderAndPublisher(reader.ID, publisher.ID)
	} else {
		journalist, jerr := s.users.GetByID(*req.JournalistID)
		if jerr != nil && !errors.Is(jerr, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get journalist: %w", jerr)
		}
		if journalist == nil || journalist.Role != models.RoleJournalist {
			return nil, apperrors.NewNotFoundError("journalist")
		}
		sub.JournalistID = &journalist.ID
		sub.Journalist = journalist
		existing, err = s.repo.FindByReaderAndJournalist(reader.ID, journalist.ID)
	}

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrAlreadySubscribed
	}

	if err := s.repo.Create(sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	resp := toSubscriptionResponse(sub)
	return &resp, nil
}

// Unsubscribe removes reader's subscription to the target, failing with ErrNotSubscribed when there is none
func (s *SubscriptionService) Unsubscribe(reader *models.User, req *SubscribeRequest) error {
	if reader == nil {
		return apperrors.ErrPermissionDenied
	}
	if err := req.validate(); err != nil {
		return err
	}

	var sub *models.Subscription
	var err error
	if req.PublisherID != nil {
		sub, err = s.repo.FindByReaderAndPublisher(reader.ID, *req.PublisherID)
	} else {
		sub, err = s.repo.FindByReaderAndJournalist(reader.ID, *req.JournalistID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotSubscribed
		}
		return fmt.Errorf("failed to find subscription: %w", err)
	}

	if err := s.repo.Delete(sub.ID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

// Delete removes one of reader's subscriptions by ID. Another reader's subscription is reported as not found.
func (s *SubscriptionService) Delete(reader *models.User, id uuid.UUID) error {
	if reader == nil {
		return apperrors.ErrPermissionDenied
	}
	sub, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSubscriptionNotFound
		}
		return fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub.ReaderID != reader.ID {
		return apperrors.ErrSubscriptionNotFound
	}

	if err := s.repo.Delete(sub.ID); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

// List returns reader's subscriptions
func (s *SubscriptionService) List(reader *models.User) ([]SubscriptionResponse, error) {
	if reader == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	subs, err := s.repo.ListByReader(reader.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	responses := make([]SubscriptionResponse, len(subs))
	for i := range subs {
		responses[i] = toSubscriptionResponse(&subs[i])
	}
	return responses, nil
}
