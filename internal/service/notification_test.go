package service_test

import (
	"context"
	"errors"
	"testing"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/mocks"
	"burst-backend/internal/notify"
	"burst-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	ctrl              *gomock.Controller
	mockRepo          *mocks.MockNotificationRepositoryInterface
	mockSubscriptions *mocks.MockSubscriptionRepositoryInterface
	mockDispatcher    *mocks.MockDispatcher
	service           *service.NotificationService

	publisherID uuid.UUID
	journalist  *models.User
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockNotificationRepositoryInterface(suite.ctrl)
	suite.mockSubscriptions = mocks.NewMockSubscriptionRepositoryInterface(suite.ctrl)
	suite.mockDispatcher = mocks.NewMockDispatcher(suite.ctrl)
	suite.service = service.NewNotificationService(suite.mockRepo, suite.mockSubscriptions, suite.mockDispatcher, testConfig())

	suite.publisherID = uuid.New()
	suite.journalist = newUser(models.RoleJournalist, &suite.publisherID)
}

func (suite *NotificationServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *NotificationServiceTestSuite) TestOnPublish_OnePerSubscriber() {
	article := newArticle(suite.journalist, models.StatusPublished)
	readers := []models.User{*newUser(models.RoleReader, nil), *newUser(models.RoleReader, nil)}
	suite.mockSubscriptions.EXPECT().SubscribersOf(suite.publisherID, suite.journalist.ID).Return(readers, nil)
	suite.mockRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(n *models.Notification) error {
		assert.Equal(suite.T(), models.KindArticle, n.ContentKind)
		assert.Equal(suite.T(), article.ID, n.ContentID)
		assert.Equal(suite.T(), "New article published: Council votes on budget", n.Message)
		return nil
	}).Times(2)

	var sent []notify.Email
	suite.mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e notify.Email) error {
		sent = append(sent, e)
		return nil
	}).Times(2)

	count, err := suite.service.OnPublish(context.Background(), article)

	suite.Require().NoError(err)
	suite.Equal(2, count)
	suite.Require().Len(sent, 2)
	suite.Equal(readers[0].Email, sent[0].To)
	suite.Contains(sent[0].Body, "https://burst.test/articles/"+article.ID.String()+"/")
}

func (suite *NotificationServiceTestSuite) TestOnPublish_EmailFailureKeepsNotification() {
	article := newArticle(suite.journalist, models.StatusPublished)
	suite.mockSubscriptions.EXPECT().SubscribersOf(suite.publisherID, suite.journalist.ID).
		Return([]models.User{*newUser(models.RoleReader, nil)}, nil)
	suite.mockRepo.EXPECT().Create(gomock.Any()).Return(nil)
	suite.mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(notify.ErrDispatcherClosed)

	count, err := suite.service.OnPublish(context.Background(), article)

	suite.NoError(err)
	suite.Equal(1, count)
}

func (suite *NotificationServiceTestSuite) TestOnPublish_PartialFailureJoinsErrors() {
	article := newArticle(suite.journalist, models.StatusPublished)
	suite.mockSubscriptions.EXPECT().SubscribersOf(suite.publisherID, suite.journalist.ID).
		Return([]models.User{*newUser(models.RoleReader, nil), *newUser(models.RoleReader, nil)}, nil)
	gomock.InOrder(
		suite.mockRepo.EXPECT().Create(gomock.Any()).Return(errors.New("insert failed")),
		suite.mockRepo.EXPECT().Create(gomock.Any()).Return(nil),
	)
	suite.mockDispatcher.EXPECT().Dispatch(gomock.Any(), gomock.Any()).Return(nil)

	count, err := suite.service.OnPublish(context.Background(), article)

	suite.Error(err)
	suite.Equal(1, count)
}

func (suite *NotificationServiceTestSuite) TestOnPublish_NoSubscribers() {
	article := newArticle(suite.journalist, models.StatusPublished)
	suite.mockSubscriptions.EXPECT().SubscribersOf(suite.publisherID, suite.journalist.ID).Return(nil, nil)

	count, err := suite.service.OnPublish(context.Background(), article)

	suite.NoError(err)
	suite.Zero(count)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_OtherRecipientHidden() {
	reader := newUser(models.RoleReader, nil)
	n := &models.Notification{BaseModel: models.BaseModel{ID: uuid.New()}, RecipientID: uuid.New()}
	suite.mockRepo.EXPECT().GetByID(n.ID).Return(n, nil)

	_, err := suite.service.MarkRead(reader, n.ID)

	suite.ErrorIs(err, apperrors.ErrNotificationNotFound)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_Unknown() {
	id := uuid.New()
	suite.mockRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.service.MarkRead(newUser(models.RoleReader, nil), id)

	suite.ErrorIs(err, apperrors.ErrNotificationNotFound)
}

func (suite *NotificationServiceTestSuite) TestMarkRead_Success() {
	reader := newUser(models.RoleReader, nil)
	n := &models.Notification{BaseModel: models.BaseModel{ID: uuid.New()}, RecipientID: reader.ID}
	suite.mockRepo.EXPECT().GetByID(n.ID).Return(n, nil)
	suite.mockRepo.EXPECT().MarkRead(n.ID, gomock.Any()).Return(nil)

	resp, err := suite.service.MarkRead(reader, n.ID)

	suite.Require().NoError(err)
	suite.True(resp.Read)
}

func (suite *NotificationServiceTestSuite) TestList_Unread() {
	reader := newUser(models.RoleReader, nil)
	suite.mockRepo.EXPECT().ListByRecipient(reader.ID, true, 20, 0).
		Return([]models.Notification{{RecipientID: reader.ID, Title: "t"}}, int64(1), nil)

	resp, err := suite.service.List(reader, true, 0, 0)

	suite.Require().NoError(err)
	suite.Equal(int64(1), resp.Total)
	suite.False(resp.Notifications[0].Read)
}

func TestNotificationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}
