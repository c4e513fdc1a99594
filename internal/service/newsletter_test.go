package service_test

import (
	"context"
	"strings"
	"testing"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/mocks"
	"burst-backend/internal/service"
	"burst-backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type NewsletterServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRepo     *mocks.MockNewsletterRepositoryInterface
	mockNotifier *mocks.MockNotificationServiceInterface
	mockImages   *mocks.MockImageStore
	service      *service.NewsletterService

	publisherID uuid.UUID
	journalist  *models.User
	owner       *models.User
}

func (suite *NewsletterServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockNewsletterRepositoryInterface(suite.ctrl)
	suite.mockNotifier = mocks.NewMockNotificationServiceInterface(suite.ctrl)
	suite.mockImages = mocks.NewMockImageStore(suite.ctrl)
	suite.service = service.NewNewsletterService(suite.mockRepo, workflow.NewEngine(), suite.mockNotifier, suite.mockImages, service.NewValidator())

	suite.publisherID = uuid.New()
	suite.journalist = newUser(models.RoleJournalist, &suite.publisherID)
	suite.owner = newUser(models.RolePublisher, &suite.publisherID)
}

func (suite *NewsletterServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *NewsletterServiceTestSuite) newsletter(status models.ContentStatus) *models.Newsletter {
	return &models.Newsletter{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Editorial: models.Editorial{
			Title:       "Weekly Digest",
			Body:        "This week in review.",
			AuthorID:    suite.journalist.ID,
			Author:      suite.journalist,
			PublisherID: suite.publisherID,
			Status:      status,
			Version:     1,
		},
	}
}

func (suite *NewsletterServiceTestSuite) TestCreate_DerivesShareSlug() {
	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(n *models.Newsletter) error {
		assert.NotEqual(suite.T(), uuid.Nil, n.ID)
		assert.Equal(suite.T(), "weekly-digest-"+n.ID.String()[:8], *n.ShareSlug)
		return nil
	})

	resp, err := suite.service.Create(suite.journalist, &service.CreateNewsletterRequest{Title: "Weekly Digest!", Body: "b"})

	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(resp.ShareSlug, "weekly-digest-"))
	suite.Equal("Weekly Digest!", resp.ShareTitle)
}

func (suite *NewsletterServiceTestSuite) TestCreate_ExplicitShareTitleKept() {
	suite.mockRepo.EXPECT().Create(gomock.Any()).Return(nil)

	resp, err := suite.service.Create(suite.journalist, &service.CreateNewsletterRequest{
		Title: "Weekly Digest", Body: "b", ShareTitle: "Read this week's digest",
	})

	suite.Require().NoError(err)
	suite.Equal("Read this week's digest", resp.ShareTitle)
}

func (suite *NewsletterServiceTestSuite) TestPublisherPublishesDraftDirectly() {
	n := suite.newsletter(models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(n.ID).Return(n, nil)
	suite.mockRepo.EXPECT().Update(n, 1).Return(nil)
	suite.mockNotifier.EXPECT().OnPublish(gomock.Any(), n).Return(3, nil)

	resp, err := suite.service.Transition(context.Background(), suite.owner, n.ID, workflow.ActionPublish, "")

	suite.Require().NoError(err)
	suite.Equal(models.StatusPublished, resp.Status)
	suite.NotNil(resp.PublishedAt)
}

func (suite *NewsletterServiceTestSuite) TestArchiveDoesNotNotify() {
	n := suite.newsletter(models.StatusPublished)
	suite.mockRepo.EXPECT().GetByID(n.ID).Return(n, nil)
	suite.mockRepo.EXPECT().Update(n, 1).Return(nil)

	resp, err := suite.service.Transition(context.Background(), suite.owner, n.ID, workflow.ActionArchive, "")

	suite.Require().NoError(err)
	suite.Equal(models.StatusArchived, resp.Status)
}

func (suite *NewsletterServiceTestSuite) TestUpdate_StaleVersion() {
	n := suite.newsletter(models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(n.ID).Return(n, nil)
	suite.mockRepo.EXPECT().Update(n, 1).Return(apperrors.ErrConcurrentUpdate)

	body := "rewritten"
	_, err := suite.service.Update(context.Background(), suite.journalist, n.ID, &service.UpdateNewsletterRequest{Body: &body})

	suite.ErrorIs(err, apperrors.ErrConcurrentUpdate)
}

func (suite *NewsletterServiceTestSuite) TestList_SubscribedRequiresLogin() {
	_, err := suite.service.List(nil, &service.NewsletterListRequest{Subscribed: true})

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func TestNewsletterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NewsletterServiceTestSuite))
}
