package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const (
	dashboardArticles    = 10
	dashboardNewsletters = 5
)

// PublisherService handles publishers, their teams and the owner dashboard
type PublisherService struct {
	repo          repository.PublisherRepositoryInterface
	users         repository.UserRepositoryInterface
	articles      repository.ArticleRepositoryInterface
	newsletters   repository.NewsletterRepositoryInterface
	subscriptions repository.SubscriptionRepositoryInterface
	validator     *validator.Validate
}

// Ensure PublisherService implements PublisherServiceInterface
var _ PublisherServiceInterface = (*PublisherService)(nil)

// NewPublisherService creates a new publisher service
func NewPublisherService(
	repo repository.PublisherRepositoryInterface,
	users repository.UserRepositoryInterface,
	articles repository.ArticleRepositoryInterface,
	newsletters repository.NewsletterRepositoryInterface,
	subscriptions repository.SubscriptionRepositoryInterface,
	validator *validator.Validate,
) *PublisherService {
	return &PublisherService{
		repo:          repo,
		users:         users,
		articles:      articles,
		newsletters:   newsletters,
		subscriptions: subscriptions,
		validator:     validator,
	}
}

// CreatePublisherRequest represents the request to create a publisher
type CreatePublisherRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Website     string `json:"website" validate:"omitempty,url,max=200"`
}

// UpdatePublisherRequest represents the request to update a publisher
type UpdatePublisherRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Website     string `json:"website" validate:"omitempty,url,max=200"`
}

// AddMemberRequest attaches an existing editor or journalist to the owner's publisher
type AddMemberRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Role     string `json:"role" form:"role" validate:"required,oneof=editor journalist"`
}

// GetAll retrieves publishers with pagination
func (s *PublisherService) GetAll(page, pageSize int) (*PublisherListResponse, error) {
	page, pageSize, offset := normalizePage(page, pageSize, 50, 200)

	publishers, total, err := s.repo.GetAll(pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get publishers: %w", err)
	}

	responses := make([]PublisherResponse, len(publishers))
	for i := range publishers {
		responses[i] = toPublisherResponse(&publishers[i])
	}

	return &PublisherListResponse{
		Publishers: responses,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// GetByID retrieves a publisher by ID
func (s *PublisherService) GetByID(id uuid.UUID) (*PublisherResponse, error) {
	publisher, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPublisherNotFound
		}
		return nil, fmt.Errorf("failed to get publisher: %w", err)
	}
	resp := toPublisherResponse(publisher)
	return &resp, nil
}

// Create creates a publisher. Staff only.
func (s *PublisherService) Create(actor *models.User, req *CreatePublisherRequest) (*PublisherResponse, error) {
	if actor == nil || !actor.IsStaff {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	publisher := &models.Publisher{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Website:     req.Website,
	}
	if err := s.repo.Create(publisher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPublisherExists
		}
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	resp := toPublisherResponse(publisher)
	return &resp, nil
}

// Update updates a publisher. Allowed for staff and for the publisher's owner.
func (s *PublisherService) Update(actor *models.User, id uuid.UUID, req *UpdatePublisherRequest) (*PublisherResponse, error) {
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}
	publisher, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPublisherNotFound
		}
		return nil, fmt.Errorf("failed to get publisher: %w", err)
	}
	isOwner := actor != nil && publisher.OwnerID != nil && *publisher.OwnerID == actor.ID
	if actor == nil || !(actor.IsStaff || isOwner) {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := s.ensureNameFree(req.Name, publisher.ID); err != nil {
		return nil, err
	}

	publisher.Name = strings.TrimSpace(req.Name)
	publisher.Description = req.Description
	publisher.Website = req.Website
	if err := s.repo.Update(publisher); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrPublisherExists
		}
		return nil, fmt.Errorf("failed to update publisher: %w", err)
	}

	resp := toPublisherResponse(publisher)
	return &resp, nil
}

// Dashboard collects the publisher owner's overview. The queries run concurrently.
func (s *PublisherService) Dashboard(ctx context.Context, owner *models.User) (*DashboardResponse, error) {
	if owner == nil || owner.Role != models.RolePublisher || owner.PublisherID == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	publisherID := *owner.PublisherID

	var (
		publisher       *models.Publisher
		articles        []models.Article
		newsletters     []models.Newsletter
		articleCount    int64
		subscriberCount int64
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		publisher, err = s.repo.GetWithMembers(publisherID)
		return err
	})
	g.Go(func() error {
		var err error
		articles, err = s.articles.LatestByPublisher(publisherID, dashboardArticles)
		return err
	})
	g.Go(func() error {
		var err error
		newsletters, err = s.newsletters.LatestByPublisher(publisherID, dashboardNewsletters)
		return err
	})
	g.Go(func() error {
		var err error
		articleCount, err = s.articles.CountByPublisher(publisherID)
		return err
	})
	g.Go(func() error {
		var err error
		subscriberCount, err = s.subscriptions.CountByPublisher(publisherID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPublisherNotFound
		}
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	resp := &DashboardResponse{
		Publisher:       toPublisherResponse(publisher),
		Team:            make([]UserResponse, 0, len(publisher.Members)),
		Articles:        make([]ArticleResponse, len(articles)),
		Newsletters:     make([]NewsletterResponse, len(newsletters)),
		ArticleCount:    articleCount,
		SubscriberCount: subscriberCount,
	}
	for i := range publisher.Members {
		if publisher.Members[i].ID == owner.ID {
			continue
		}
		resp.Team = append(resp.Team, toUserResponse(&publisher.Members[i]))
	}
	for i := range articles {
		resp.Articles[i] = ToArticleResponse(&articles[i])
	}
	for i := range newsletters {
		resp.Newsletters[i] = ToNewsletterResponse(&newsletters[i])
	}
	return resp, nil
}

// AddMember attaches an existing editor or journalist to the owner's publisher.
// A user who already belongs to a publisher is never moved.
func (s *PublisherService) AddMember(owner *models.User, req *AddMemberRequest) (*UserResponse, error) {
	if owner == nil || owner.Role != models.RolePublisher || owner.PublisherID == nil {
		return nil, apperrors.ErrPermissionDenied
	}
	if err := validateStruct(s.validator, req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if string(user.Role) != req.Role {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("%s is not registered as %s", user.Username, req.Role))
	}
	if user.PublisherID != nil {
		if *user.PublisherID == *owner.PublisherID {
			return nil, apperrors.NewAlreadyExistsError("member", "in this publisher")
		}
		return nil, apperrors.NewValidationError("username", "user already belongs to another publisher")
	}

	publisherID := *owner.PublisherID
	user.PublisherID = &publisherID
	user.Publisher = nil
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *PublisherService) ensureNameFree(name string, self uuid.UUID) error {
	existing, err := s.repo.GetByName(name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check existing publisher: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperrors.ErrPublisherExists
	}
	return nil
}
