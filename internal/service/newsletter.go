package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"burst-backend/internal/access"
	"burst-backend/internal/database"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/repository"
	"burst-backend/internal/storage"
	"burst-backend/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewsletterService handles business logic for newsletters
type NewsletterService struct {
	repo      repository.NewsletterRepositoryInterface
	validator *validator.Validate
	ops       *editorialOps
}

// Ensure NewsletterService implements NewsletterServiceInterface
var _ NewsletterServiceInterface = (*NewsletterService)(nil)

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(
	repo repository.NewsletterRepositoryInterface,
	engine *workflow.Engine,
	notifier NotificationServiceInterface,
	images storage.ImageStore,
	validator *validator.Validate,
) *NewsletterService {
	return &NewsletterService{
		repo:      repo,
		validator: validator,
		ops:       &editorialOps{engine: engine, notifier: notifier, images: images},
	}
}

// NewsletterListRequest holds the query parameters of a newsletter listing
type NewsletterListRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Status     string `form:"status"`
	Query      string `form:"q"`
	Subscribed bool   `form:"subscribed"`
}

// CreateNewsletterRequest represents the request to create a newsletter
type CreateNewsletterRequest struct {
	Title            string `json:"title" validate:"required,max=200"`
	Body             string `json:"body" validate:"required"`
	ShareTitle       string `json:"share_title" validate:"max=255"`
	ShareDescription string `json:"share_description" validate:"max=1000"`
}

// UpdateNewsletterRequest represents a full or partial newsletter update. Nil fields are left unchanged.
type UpdateNewsletterRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body             *string `json:"body,omitempty" validate:"omitempty,min=1"`
	ShareTitle       *string `json:"share_title,omitempty" validate:"omitempty,max=255"`
	ShareDescription *string `json:"share_description,omitempty" validate:"omitempty,max=1000"`
}

// List returns the newsletters visible to actor
func (s *NewsletterService) List(actor *models.User, req *NewsletterListRequest) (*NewsletterListResponse, error) {
	page, pageSize, offset := normalizePage(req.Page, req.PageSize, 20, 100)

	filter := repository.ContentFilter{
		Scope:  access.VisibilityFor(actor),
		Query:  req.Query,
		Limit:  pageSize,
		Offset: offset,
	}
	if err := applyListOptions(&filter, actor, req.Status, req.Subscribed); err != nil {
		return nil, err
	}

	newsletters, total, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list newsletters: %w", err)
	}

	responses := make([]NewsletterResponse, len(newsletters))
	for i := range newsletters {
		responses[i] = ToNewsletterResponse(&newsletters[i])
	}

	return &NewsletterListResponse{
		Newsletters: responses,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// GetByID returns a newsletter if actor may see it
func (s *NewsletterService) GetByID(actor *models.User, id uuid.UUID) (*NewsletterResponse, error) {
	newsletter, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToNewsletterResponse(newsletter)
	return &resp, nil
}

// Create creates a draft newsletter authored by actor. The share slug is derived from the title.
func (s *NewsletterService) Create(actor *models.User, req *CreateNewsletterRequest) (*NewsletterResponse, error) {
	if !access.CanCreate(actor) {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	id := uuid.New()
	title := strings.TrimSpace(req.Title)
	slug := shareSlug(title, id)
	shareTitle := strings.TrimSpace(req.ShareTitle)
	if shareTitle == "" {
		shareTitle = title
	}

	newsletter := &models.Newsletter{
		BaseModel: models.BaseModel{ID: id},
		Editorial: models.Editorial{
			Title:       title,
			Body:        req.Body,
			PublisherID: *actor.PublisherID,
			AuthorID:    actor.ID,
			Status:      models.StatusDraft,
			Version:     1,
		},
		ShareSlug:        &slug,
		ShareTitle:       shareTitle,
		ShareDescription: strings.TrimSpace(req.ShareDescription),
	}

	if err := s.repo.Create(newsletter); err != nil {
		return nil, fmt.Errorf("failed to create newsletter: %w", err)
	}
	newsletter.Author = actor

	resp := ToNewsletterResponse(newsletter)
	return &resp, nil
}

// Update changes a newsletter's text or sharing metadata
func (s *NewsletterService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateNewsletterRequest) (*NewsletterResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	newsletter, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	apply := func() error {
		if req.Title != nil {
			newsletter.Title = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			newsletter.Body = *req.Body
		}
		if req.ShareTitle != nil {
			newsletter.ShareTitle = strings.TrimSpace(*req.ShareTitle)
		}
		if req.ShareDescription != nil {
			newsletter.ShareDescription = strings.TrimSpace(*req.ShareDescription)
		}
		return nil
	}
	save := func(expected int) error { return s.repo.Update(newsletter, expected) }

	if err := s.ops.edit(ctx, actor, newsletter, apply, save); err != nil {
		return nil, err
	}

	resp := ToNewsletterResponse(newsletter)
	return &resp, nil
}

// Delete removes a newsletter and its cover image
func (s *NewsletterService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	newsletter, err := s.load(actor, id)
	if err != nil {
		return err
	}
	if !access.CanDelete(actor, newsletter) {
		return apperrors.ErrPermissionDenied
	}
	if err := s.repo.Delete(newsletter.ID); err != nil {
		return fmt.Errorf("failed to delete newsletter: %w", err)
	}
	s.ops.removeImage(ctx, newsletter.CoverImage.Key)
	return nil
}

// Transition runs a workflow action on a newsletter
func (s *NewsletterService) Transition(ctx context.Context, actor *models.User, id uuid.UUID, action workflow.Action, reason string) (*NewsletterResponse, error) {
	newsletter, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	save := func(expected int) error { return s.repo.Update(newsletter, expected) }
	if err := s.ops.transition(ctx, actor, newsletter, action, reason, save); err != nil {
		return nil, err
	}

	resp := ToNewsletterResponse(newsletter)
	return &resp, nil
}

// AttachImage stores a new cover image for the newsletter
func (s *NewsletterService) AttachImage(ctx context.Context, actor *models.User, id uuid.UUID, image io.Reader) (*NewsletterResponse, error) {
	newsletter, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(actor, newsletter) {
		return nil, apperrors.ErrPermissionDenied
	}

	previous := newsletter.CoverImage.Key
	attachment, err := s.ops.storeImage(ctx, newsletter, "cover_image", "cover", image)
	if err != nil {
		return nil, err
	}

	apply := func() error {
		newsletter.CoverImage = attachment
		return nil
	}
	save := func(expected int) error { return s.repo.Update(newsletter, expected) }
	if err := s.ops.edit(ctx, actor, newsletter, apply, save); err != nil {
		return nil, err
	}
	if previous != attachment.Key {
		s.ops.removeImage(ctx, previous)
	}

	resp := ToNewsletterResponse(newsletter)
	return &resp, nil
}

func (s *NewsletterService) load(actor *models.User, id uuid.UUID) (*models.Newsletter, error) {
	newsletter, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNewsletterNotFound
		}
		return nil, fmt.Errorf("failed to get newsletter: %w", err)
	}
	if !access.CanView(actor, newsletter) {
		return nil, apperrors.ErrNewsletterNotFound
	}
	return newsletter, nil
}

// shareSlug builds a unique public slug such as "weekly-digest-1a2b3c4d"
func shareSlug(title string, id uuid.UUID) string {
	base := database.Slugify(title)
	if len(base) > 200 {
		base = strings.Trim(base[:200], "-")
	}
	if base == "" {
		return id.String()[:8]
	}
	return base + "-" + id.String()[:8]
}
