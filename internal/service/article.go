package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"burst-backend/internal/access"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/repository"
	"burst-backend/internal/storage"
	"burst-backend/internal/workflow"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleService handles business logic for articles
type ArticleService struct {
	repo       repository.ArticleRepositoryInterface
	categories repository.CategoryRepositoryInterface
	validator  *validator.Validate
	ops        *editorialOps
}

// Ensure ArticleService implements ArticleServiceInterface
var _ ArticleServiceInterface = (*ArticleService)(nil)

// NewArticleService creates a new article service
func NewArticleService(
	repo repository.ArticleRepositoryInterface,
	categories repository.CategoryRepositoryInterface,
	engine *workflow.Engine,
	notifier NotificationServiceInterface,
	images storage.ImageStore,
	validator *validator.Validate,
) *ArticleService {
	return &ArticleService{
		repo:       repo,
		categories: categories,
		validator:  validator,
		ops:        &editorialOps{engine: engine, notifier: notifier, images: images},
	}
}

// ArticleListRequest holds the query parameters of an article listing
type ArticleListRequest struct {
	Page       int    `form:"page"`
	PageSize   int    `form:"page_size"`
	Status     string `form:"status"`
	Category   string `form:"category"`
	Publisher  string `form:"publisher"`
	Query      string `form:"q"`
	Subscribed bool   `form:"subscribed"`
}

// CreateArticleRequest represents the request to create an article
type CreateArticleRequest struct {
	Title      string     `json:"title" validate:"required,max=200"`
	Body       string     `json:"body" validate:"required"`
	Summary    string     `json:"summary" validate:"max=500"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// UpdateArticleRequest represents a full or partial article update. Nil fields are left unchanged.
type UpdateArticleRequest struct {
	Title      *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Body       *string    `json:"body,omitempty" validate:"omitempty,min=1"`
	Summary    *string    `json:"summary,omitempty" validate:"omitempty,max=500"`
	CategoryID *uuid.UUID `json:"category_id,omitempty"`
}

// List returns the articles visible to actor
func (s *ArticleService) List(actor *models.User, req *ArticleListRequest) (*ArticleListResponse, error) {
	page, pageSize, offset := normalizePage(req.Page, req.PageSize, 20, 100)

	filter := repository.ArticleFilter{
		ContentFilter: repository.ContentFilter{
			Scope:  access.VisibilityFor(actor),
			Query:  req.Query,
			Limit:  pageSize,
			Offset: offset,
		},
		CategoryName:  strings.TrimSpace(req.Category),
		PublisherName: strings.TrimSpace(req.Publisher),
	}
	if err := applyListOptions(&filter.ContentFilter, actor, req.Status, req.Subscribed); err != nil {
		return nil, err
	}

	articles, total, err := s.repo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	responses := make([]ArticleResponse, len(articles))
	for i := range articles {
		responses[i] = ToArticleResponse(&articles[i])
	}

	return &ArticleListResponse{
		Articles: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// GetByID returns an article if actor may see it
func (s *ArticleService) GetByID(actor *models.User, id uuid.UUID) (*ArticleResponse, error) {
	article, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	resp := ToArticleResponse(article)
	return &resp, nil
}

// Create creates a draft article authored by actor
func (s *ArticleService) Create(actor *models.User, req *CreateArticleRequest) (*ArticleResponse, error) {
	if !access.CanCreate(actor) {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	article := &models.Article{
		Editorial: models.Editorial{
			Title:       strings.TrimSpace(req.Title),
			Body:        req.Body,
			PublisherID: *actor.PublisherID,
			AuthorID:    actor.ID,
			Status:      models.StatusDraft,
			Version:     1,
		},
		Summary: strings.TrimSpace(req.Summary),
	}
	if req.CategoryID != nil {
		if err := s.setCategory(article, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(article); err != nil {
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	article.Author = actor

	resp := ToArticleResponse(article)
	return &resp, nil
}

// Update changes an article's text or category
func (s *ArticleService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *UpdateArticleRequest) (*ArticleResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	article, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	apply := func() error {
		if req.Title != nil {
			article.Title = strings.TrimSpace(*req.Title)
		}
		if req.Body != nil {
			article.Body = *req.Body
		}
		if req.Summary != nil {
			article.Summary = strings.TrimSpace(*req.Summary)
		}
		if req.CategoryID != nil {
			return s.setCategory(article, *req.CategoryID)
		}
		return nil
	}
	save := func(expected int) error { return s.repo.Update(article, expected) }

	if err := s.ops.edit(ctx, actor, article, apply, save); err != nil {
		return nil, err
	}

	resp := ToArticleResponse(article)
	return &resp, nil
}

// Delete removes an article and its hero image
func (s *ArticleService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	article, err := s.load(actor, id)
	if err != nil {
		return err
	}
	if !access.CanDelete(actor, article) {
		return apperrors.ErrPermissionDenied
	}
	if err := s.repo.Delete(article.ID); err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	s.ops.removeImage(ctx, article.HeroImage.Key)
	return nil
}

// Transition runs a workflow action on an article
func (s *ArticleService) Transition(ctx context.Context, actor *models.User, id uuid.UUID, action workflow.Action, reason string) (*ArticleResponse, error) {
	article, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}

	save := func(expected int) error { return s.repo.Update(article, expected) }
	if err := s.ops.transition(ctx, actor, article, action, reason, save); err != nil {
		return nil, err
	}

	resp := ToArticleResponse(article)
	return &resp, nil
}

// AttachImage stores a new hero image for the article
func (s *ArticleService) AttachImage(ctx context.Context, actor *models.User, id uuid.UUID, image io.Reader) (*ArticleResponse, error) {
	article, err := s.load(actor, id)
	if err != nil {
		return nil, err
	}
	if !access.CanEdit(actor, article) {
		return nil, apperrors.ErrPermissionDenied
	}

	previous := article.HeroImage.Key
	attachment, err := s.ops.storeImage(ctx, article, "hero_image", "hero", image)
	if err != nil {
		return nil, err
	}

	apply := func() error {
		article.HeroImage = attachment
		return nil
	}
	save := func(expected int) error { return s.repo.Update(article, expected) }
	if err := s.ops.edit(ctx, actor, article, apply, save); err != nil {
		return nil, err
	}
	if previous != attachment.Key {
		s.ops.removeImage(ctx, previous)
	}

	resp := ToArticleResponse(article)
	return &resp, nil
}

// LatestPublished returns the newest published articles for feeds and the sitemap
func (s *ArticleService) LatestPublished(limit int) ([]models.Article, error) {
	articles, err := s.repo.ListPublished(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list published articles: %w", err)
	}
	return articles, nil
}

// load fetches an article and hides it from actors who may not see it
func (s *ArticleService) load(actor *models.User, id uuid.UUID) (*models.Article, error) {
	article, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}
	if !access.CanView(actor, article) {
		return nil, apperrors.ErrArticleNotFound
	}
	return article, nil
}

func (s *ArticleService) setCategory(article *models.Article, categoryID uuid.UUID) error {
	category, err := s.categories.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewValidationError("category_id", "unknown category")
		}
		return fmt.Errorf("failed to get category: %w", err)
	}
	article.CategoryID = &category.ID
	article.Category = category
	return nil
}

// applyListOptions validates the status filter and the subscribed-only switch
func applyListOptions(filter *repository.ContentFilter, actor *models.User, status string, subscribed bool) error {
	if status != "" {
		st := models.ContentStatus(status)
		if !st.IsValid() {
			return apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", status))
		}
		filter.Status = st
	}
	if subscribed {
		if actor == nil {
			return apperrors.ErrPermissionDenied
		}
		id := actor.ID
		filter.SubscriberID = &id
	}
	return nil
}
