package service_test

import (
	"context"
	"errors"
	"testing"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/mocks"
	"burst-backend/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type PublisherServiceTestSuite struct {
	suite.Suite
	ctrl              *gomock.Controller
	mockRepo          *mocks.MockPublisherRepositoryInterface
	mockUsers         *mocks.MockUserRepositoryInterface
	mockArticles      *mocks.MockArticleRepositoryInterface
	mockNewsletters   *mocks.MockNewsletterRepositoryInterface
	mockSubscriptions *mocks.MockSubscriptionRepositoryInterface
	service           *service.PublisherService

	publisher *models.Publisher
	owner     *models.User
}

func (suite *PublisherServiceTestSuite) SetupTest() {
	suite.ctrl = gomock.NewController(suite.T())
	suite.mockRepo = mocks.NewMockPublisherRepositoryInterface(suite.ctrl)
	suite.mockUsers = mocks.NewMockUserRepositoryInterface(suite.ctrl)
	suite.mockArticles = mocks.NewMockArticleRepositoryInterface(suite.ctrl)
	suite.mockNewsletters = mocks.NewMockNewsletterRepositoryInterface(suite.ctrl)
	suite.mockSubscriptions = mocks.NewMockSubscriptionRepositoryInterface(suite.ctrl)
	suite.service = service.NewPublisherService(
		suite.mockRepo, suite.mockUsers, suite.mockArticles, suite.mockNewsletters, suite.mockSubscriptions, service.NewValidator(),
	)

	id := uuid.New()
	suite.owner = newUser(models.RolePublisher, &id)
	suite.publisher = &models.Publisher{BaseModel: models.BaseModel{ID: id}, Name: "Daily Planet", OwnerID: &suite.owner.ID}
}

func (suite *PublisherServiceTestSuite) TearDownTest() {
	suite.ctrl.Finish()
}

func (suite *PublisherServiceTestSuite) TestCreate_StaffOnly() {
	_, err := suite.service.Create(suite.owner, &service.CreatePublisherRequest{Name: "Gotham Gazette"})

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (suite *PublisherServiceTestSuite) TestCreate_DuplicateName() {
	staff := newUser(models.RoleReader, nil)
	staff.IsStaff = true
	suite.mockRepo.EXPECT().GetByName("Daily Planet").Return(suite.publisher, nil)

	_, err := suite.service.Create(staff, &service.CreatePublisherRequest{Name: "Daily Planet"})

	suite.ErrorIs(err, apperrors.ErrPublisherExists)
}

func (suite *PublisherServiceTestSuite) TestUpdate_Owner() {
	suite.mockRepo.EXPECT().GetByID(suite.publisher.ID).Return(suite.publisher, nil)
	suite.mockRepo.EXPECT().GetByName("Daily Planet").Return(suite.publisher, nil)
	suite.mockRepo.EXPECT().Update(suite.publisher).Return(nil)

	resp, err := suite.service.Update(suite.owner, suite.publisher.ID, &service.UpdatePublisherRequest{
		Name: "Daily Planet", Description: "Metropolis news", Website: "https://dailyplanet.test",
	})

	suite.Require().NoError(err)
	suite.Equal("Metropolis news", resp.Description)
}

func (suite *PublisherServiceTestSuite) TestUpdate_OtherUserDenied() {
	suite.mockRepo.EXPECT().GetByID(suite.publisher.ID).Return(suite.publisher, nil)

	_, err := suite.service.Update(newUser(models.RoleEditor, &suite.publisher.ID), suite.publisher.ID, &service.UpdatePublisherRequest{Name: "Daily Planet"})

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (suite *PublisherServiceTestSuite) TestDashboard() {
	journalist := newUser(models.RoleJournalist, &suite.publisher.ID)
	withMembers := *suite.publisher
	withMembers.Members = []models.User{*suite.owner, *journalist}

	suite.mockRepo.EXPECT().GetWithMembers(suite.publisher.ID).Return(&withMembers, nil)
	suite.mockArticles.EXPECT().LatestByPublisher(suite.publisher.ID, 10).
		Return([]models.Article{*newArticle(journalist, models.StatusDraft)}, nil)
	suite.mockNewsletters.EXPECT().LatestByPublisher(suite.publisher.ID, 5).Return(nil, nil)
	suite.mockArticles.EXPECT().CountByPublisher(suite.publisher.ID).Return(int64(7), nil)
	suite.mockSubscriptions.EXPECT().CountByPublisher(suite.publisher.ID).Return(int64(42), nil)

	resp, err := suite.service.Dashboard(context.Background(), suite.owner)

	suite.Require().NoError(err)
	suite.Len(resp.Team, 1)
	suite.Equal(journalist.Username, resp.Team[0].Username)
	suite.Len(resp.Articles, 1)
	suite.Equal(int64(7), resp.ArticleCount)
	suite.Equal(int64(42), resp.SubscriberCount)
}

func (suite *PublisherServiceTestSuite) TestDashboard_QueryFailure() {
	suite.mockRepo.EXPECT().GetWithMembers(gomock.Any()).Return(suite.publisher, nil)
	suite.mockArticles.EXPECT().LatestByPublisher(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
	suite.mockNewsletters.EXPECT().LatestByPublisher(gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()
	suite.mockArticles.EXPECT().CountByPublisher(gomock.Any()).Return(int64(0), nil).AnyTimes()
	suite.mockSubscriptions.EXPECT().CountByPublisher(gomock.Any()).Return(int64(0), nil).AnyTimes()

	_, err := suite.service.Dashboard(context.Background(), suite.owner)

	suite.Error(err)
}

func (suite *PublisherServiceTestSuite) TestDashboard_NonOwnerDenied() {
	_, err := suite.service.Dashboard(context.Background(), newUser(models.RoleEditor, &suite.publisher.ID))

	suite.ErrorIs(err, apperrors.ErrPermissionDenied)
}

func (suite *PublisherServiceTestSuite) TestAddMember() {
	journalist := newUser(models.RoleJournalist, nil)
	suite.mockUsers.EXPECT().GetByUsername(journalist.Username).Return(journalist, nil)
	suite.mockUsers.EXPECT().Update(journalist).Return(nil)

	resp, err := suite.service.AddMember(suite.owner, &service.AddMemberRequest{Username: journalist.Username, Role: "journalist"})

	suite.Require().NoError(err)
	suite.Equal(suite.publisher.ID, *journalist.PublisherID)
	suite.Equal(journalist.Username, resp.Username)
}

func (suite *PublisherServiceTestSuite) TestAddMember_NeverMovesUsers() {
	otherPublisher := uuid.New()
	editor := newUser(models.RoleEditor, &otherPublisher)
	suite.mockUsers.EXPECT().GetByUsername(editor.Username).Return(editor, nil)

	_, err := suite.service.AddMember(suite.owner, &service.AddMemberRequest{Username: editor.Username, Role: "editor"})

	suite.True(apperrors.IsValidation(err))
	suite.Equal(otherPublisher, *editor.PublisherID)
}

func (suite *PublisherServiceTestSuite) TestAddMember_RoleMismatch() {
	reader := newUser(models.RoleReader, nil)
	suite.mockUsers.EXPECT().GetByUsername(reader.Username).Return(reader, nil)

	_, err := suite.service.AddMember(suite.owner, &service.AddMemberRequest{Username: reader.Username, Role: "editor"})

	suite.True(apperrors.IsValidation(err))
}

func (suite *PublisherServiceTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mockRepo.EXPECT().GetByID(id).Return(nil, gorm.ErrRecordNotFound)

	_, err := suite.service.GetByID(id)

	suite.ErrorIs(err, apperrors.ErrPublisherNotFound)
}

func TestPublisherServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherServiceTestSuite))
}
