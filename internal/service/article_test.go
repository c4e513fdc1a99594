package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"burst-backend/internal/access"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/media"
	"burst-backend/internal/mocks"
	"burst-backend/internal/repository"
	"burst-backend/internal/service"
	"burst-backend/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

// ArticleServiceTestSuite defines the test suite for ArticleService
type ArticleServiceTestSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockRepo       *mocks.MockArticleRepositoryInterface
	mockCategories *mocks.MockCategoryRepositoryInterface
	mockNotifier   *mocks.MockNotificationServiceInterface
	mockImages     *mocks.MockImageStore
	service        *service.ArticleService

	publisherID uuid.UUID
	journalist  *models.User
	editor      *models.User
	owner       *models.User
}

// SetupTest sets up the test suite
func (suite *ArticleServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockArticleRepositoryInterface(suite.ctrl)
	suite.mockCategories = mocks.NewMockCategoryRepositoryInterface(suite.ctrl)
	suite.mockNotifier = mocks.NewMockNotificationServiceInterface(suite.ctrl)
	suite.mockImages = mocks.NewMockImageStore(suite.ctrl)

	suite.service = service.NewArticleService(
		suite.mockRepo,
		suite.mockCategories,
		workflow.NewEngine(),
		suite.mockNotifier,
		suite.mockImages,
		service.NewValidator(),
	)

	suite.publisherID = uuid.New()
	suite.journalist = newUser(models.RoleJournalist, &suite.publisherID)
	suite.editor = newUser(models.RoleEditor, &suite.publisherID)
	suite.owner = newUser(models.RolePublisher, &suite.publisherID)
}

// TearDownTest cleans up after each test
func (suite *ArticleServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *ArticleServiceTestSuite) TestCreate_Success() {
	req := &service.CreateArticleRequest{Title: "  Harbour reopens ", Body: "Details.", Summary: "short"}

	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(a *models.Article) error {
		assert.Equal(suite.T(), "Harbour reopens", a.Title)
		assert.Equal(suite.T(), models.StatusDraft, a.Status)
		assert.Equal(suite.T(), suite.journalist.ID, a.AuthorID)
		assert.Equal(suite.T(), suite.publisherID, a.PublisherID)
		a.ID = uuid.New()
		return nil
	})

	resp, err := suite.service.Create(suite.journalist, req)

	suite.Require().NoError(err)
	suite.Equal(models.StatusDraft, resp.Status)
	suite.Equal(suite.journalist.Username, resp.Author.Username)
}

func (suite *ArticleServiceTestSuite) TestCreate_ReaderDenied() {
	_, err := suite.service.Create(newUser(models.RoleReader, nil), &service.CreateArticleRequest{Title: "t", Body: "b"})

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (suite *ArticleServiceTestSuite) TestCreate_UnknownCategory() {
	categoryID := uuid.New()
	suite.mockCategories.EXPECT().GetByID(categoryID).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.service.Create(suite.journalist, &service.CreateArticleRequest{Title: "t", Body: "b", CategoryID: &categoryID})

	suite.True(apperrors.IsValidation(err))
}

func (suite *ArticleServiceTestSuite) TestCreate_ValidationError() {
	_, err := suite.service.Create(suite.journalist, &service.CreateArticleRequest{Title: "", Body: "b"})

	suite.Require().Error(err)
	suite.True(apperrors.IsValidation(err))
	suite.Contains(err.Error(), "title")
}

func (suite *ArticleServiceTestSuite) TestGetByID_DraftHiddenFromAnonymous() {
	article := newArticle(suite.journalist, models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)

	_, err := suite.service.GetByID(nil, article.ID)

	suite.ErrorIs(err, apperrors.ErrArticleNotFound)
}

func (suite *ArticleServiceTestSuite) TestList_AnonymousUsesPublishedOnlyScope() {
	suite.mockRepo.EXPECT().List(gomock.Any()).DoAndReturn(func(f repository.ArticleFilter) ([]models.Article, int64, error) {
		assert.True(suite.T(), f.Scope.IsPublishedOnly())
		assert.Equal(suite.T(), 20, f.Limit)
		return []models.Article{*newArticle(suite.journalist, models.StatusPublished)}, 1, nil
	})

	resp, err := suite.service.List(nil, &service.ArticleListRequest{})

	suite.Require().NoError(err)
	suite.Equal(int64(1), resp.Total)
	suite.Len(resp.Articles, 1)
}

func (suite *ArticleServiceTestSuite) TestList_EditorScopedToPublisher() {
	suite.mockRepo.EXPECT().List(gomock.Any()).DoAndReturn(func(f repository.ArticleFilter) ([]models.Article, int64, error) {
		assert.Equal(suite.T(), access.VisibilityFor(suite.editor), f.Scope)
		assert.Equal(suite.T(), models.StatusPending, f.Status)
		return nil, 0, nil
	})

	_, err := suite.service.List(suite.editor, &service.ArticleListRequest{Status: "pending"})

	suite.NoError(err)
}

func (suite *ArticleServiceTestSuite) TestList_UnknownStatus() {
	_, err := suite.service.List(nil, &service.ArticleListRequest{Status: "lost"})

	suite.True(apperrors.IsValidation(err))
}

func (suite *ArticleServiceTestSuite) TestUpdate_PublishedRevertsToDraft() {
	article := newArticle(suite.journalist, models.StatusPublished)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)
	suite.mockRepo.EXPECT().Update(gomock.Any(), 1).DoAndReturn(func(a *models.Article, expected int) error {
		assert.Equal(suite.T(), models.StatusDraft, a.Status)
		assert.Nil(suite.T(), a.PublishedAt)
		assert.Equal(suite.T(), 2, a.Version)
		return nil
	})

	title := "Corrected headline"
	resp, err := suite.service.Update(context.Background(), suite.journalist, article.ID, &service.UpdateArticleRequest{Title: &title})

	suite.Require().NoError(err)
	suite.Equal("Corrected headline", resp.Title)
	suite.Equal(models.StatusDraft, resp.Status)
}

func (suite *ArticleServiceTestSuite) TestUpdate_PendingNotEditableByAuthor() {
	article := newArticle(suite.journalist, models.StatusPending)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)

	body := "new body"
	_, err := suite.service.Update(context.Background(), suite.journalist, article.ID, &service.UpdateArticleRequest{Body: &body})

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (suite *ArticleServiceTestSuite) TestTransition_InvalidEdgeNeverSaves() {
	article := newArticle(suite.journalist, models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)

	_, err := suite.service.Transition(context.Background(), suite.journalist, article.ID, workflow.ActionArchive, "")

	suite.True(apperrors.IsInvalidTransition(err))
}

func (suite *ArticleServiceTestSuite) TestTransition_UnknownAction() {
	article := newArticle(suite.journalist, models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)

	_, err := suite.service.Transition(context.Background(), suite.journalist, article.ID, workflow.Action("launch"), "")

	suite.ErrorIs(err, apperrors.ErrInvalidAction)
}

func (suite *ArticleServiceTestSuite) TestTransition_ConcurrentUpdate() {
	article := newArticle(suite.journalist, models.StatusPending)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)
	suite.mockRepo.EXPECT().Update(gomock.Any(), 1).Return(apperrors.ErrConcurrentUpdate)

	_, err := suite.service.Transition(context.Background(), suite.editor, article.ID, workflow.ActionApprove, "")

	suite.ErrorIs(err, apperrors.ErrConcurrentUpdate)
}

func (suite *ArticleServiceTestSuite) TestTransition_NotificationFailureDoesNotFailPublish() {
	article := newArticle(suite.journalist, models.StatusPending)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)
	suite.mockRepo.EXPECT().Update(gomock.Any(), 1).Return(nil)
	suite.mockNotifier.EXPECT().OnPublish(gomock.Any(), article).Return(0, errors.New("smtp down"))

	resp, err := suite.service.Transition(context.Background(), suite.editor, article.ID, workflow.ActionApprove, "")

	suite.Require().NoError(err)
	suite.Equal(models.StatusPublished, resp.Status)
}

func (suite *ArticleServiceTestSuite) TestTransition_RejectThenResubmit() {
	article := newArticle(suite.journalist, models.StatusPending)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil).Times(2)
	suite.mockRepo.EXPECT().Update(gomock.Any(), 1).Return(nil)
	suite.mockRepo.EXPECT().Update(gomock.Any(), 2).Return(nil)

	resp, err := suite.service.Transition(context.Background(), suite.editor, article.ID, workflow.ActionReject, "needs sources")
	suite.Require().NoError(err)
	suite.Equal(models.StatusRejected, resp.Status)
	suite.Equal("needs sources", resp.RejectionReason)

	resp, err = suite.service.Transition(context.Background(), suite.journalist, article.ID, workflow.ActionSubmit, "")
	suite.Require().NoError(err)
	suite.Equal(models.StatusPending, resp.Status)
}

func (suite *ArticleServiceTestSuite) TestAttachImage_StoresSniffedPNG() {
	article := newArticle(suite.journalist, models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)
	suite.mockImages.EXPECT().
		Save(gomock.Any(), "articles/"+article.ID.String()+"/hero.png", "image/png", gomock.Any(), gomock.Any()).
		Return("/media/articles/"+article.ID.String()+"/hero.png", nil)
	suite.mockRepo.EXPECT().Update(gomock.Any(), 1).Return(nil)

	resp, err := suite.service.AttachImage(context.Background(), suite.journalist, article.ID, bytes.NewReader(pngBytes(suite.T())))

	suite.Require().NoError(err)
	suite.True(strings.HasSuffix(resp.HeroImage, "/hero.png"))
}

func (suite *ArticleServiceTestSuite) TestAttachImage_OversizedRejectedBeforeStorage() {
	article := newArticle(suite.journalist, models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)

	data := append(pngBytes(suite.T()), make([]byte, media.MaxImageSize)...)
	_, err := suite.service.AttachImage(context.Background(), suite.journalist, article.ID, bytes.NewReader(data))

	suite.True(apperrors.IsValidation(err))
	suite.Equal(models.StatusDraft, article.Status)
}

func (suite *ArticleServiceTestSuite) TestDelete_OwnerRemovesImage() {
	article := newArticle(suite.journalist, models.StatusPublished)
	article.HeroImage = models.ImageAttachment{Key: "articles/x/hero.png", URL: "/media/articles/x/hero.png"}
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)
	suite.mockRepo.EXPECT().Delete(article.ID).Return(nil)
	suite.mockImages.EXPECT().Delete(gomock.Any(), "articles/x/hero.png").Return(nil)

	err := suite.service.Delete(context.Background(), suite.owner, article.ID)

	suite.NoError(err)
}

func (suite *ArticleServiceTestSuite) TestDelete_EditorDenied() {
	article := newArticle(suite.journalist, models.StatusDraft)
	suite.mockRepo.EXPECT().GetByID(article.ID).Return(article, nil)

	err := suite.service.Delete(context.Background(), suite.editor, article.ID)

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

// TestArticleServiceTestSuite runs the test suite
func TestArticleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceTestSuite))
}

// TestPublishScenario walks an article from draft to published and checks that only
// the subscribed reader is notified.
func TestPublishScenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	articles := mocks.NewMockArticleRepositoryInterface(ctrl)
	notifications := mocks.NewMockNotificationRepositoryInterface(ctrl)
	subscriptions := mocks.NewMockSubscriptionRepositoryInterface(ctrl)
	dispatcher := mocks.NewMockDispatcher(ctrl)

	publisherID := uuid.New()
	journalist := newUser(models.RoleJournalist, &publisherID)
	editor := newUser(models.RoleEditor, &publisherID)
	subscribed := newUser(models.RoleReader, nil)

	notifier := service.NewNotificationService(notifications, subscriptions, dispatcher, testConfig())
	svc := service.NewArticleService(articles, nil, workflow.NewEngine(), notifier, nil, service.NewValidator())

	var stored *models.Article
	articles.EXPECT().Create(gomock.Any()).DoAndReturn(func(a *models.Article) error {
		a.ID = uuid.New()
		stored = a
		return nil
	})
	articles.EXPECT().GetByID(gomock.Any()).DoAndReturn(func(uuid.UUID) (*models.Article, error) {
		return stored, nil
	}).Times(2)
	articles.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	// the unsubscribed reader is simply not among the subscribers
	subscriptions.EXPECT().SubscribersOf(publisherID, journalist.ID).Return([]models.User{*subscribed}, nil)

	var created []*models.Notification
	notifications.EXPECT().Create(gomock.Any()).DoAndReturn(func(n *models.Notification) error {
		created = append(created, n)
		return nil
	})
	dispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil)

	draft, err := svc.Create(journalist, &service.CreateArticleRequest{Title: "Election night", Body: "Results are in."})
	require.NoError(t, err)

	_, err = svc.Transition(context.Background(), journalist, draft.ID, workflow.ActionSubmit, "")
	require.NoError(t, err)

	published, err := svc.Transition(context.Background(), editor, draft.ID, workflow.ActionApprove, "")
	require.NoError(t, err)

	assert.Equal(t, models.StatusPublished, published.Status)
	require.Len(t, created, 1)
	assert.Equal(t, subscribed.ID, created[0].RecipientID)
	assert.Equal(t, "/articles/"+draft.ID.String()+"/", created[0].Link)
}
