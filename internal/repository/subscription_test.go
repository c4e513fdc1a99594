//go:build integration
// +build integration

package repository

import (
	"testing"

	"burst-backend/internal/database/models"
	"burst-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// SubscriptionRepositoryTestSuite tests the SubscriptionRepository
type SubscriptionRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *SubscriptionRepository
	users         *UserRepository
	publishers    *PublisherRepository
	factories     *testutils.FactorySet

	publisher  *models.Publisher
	journalist *models.User
	reader     *models.User
}

func (suite *SubscriptionRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewSubscriptionRepository(suite.baseTestSuite.DB)
	suite.users = NewUserRepository(suite.baseTestSuite.DB)
	suite.publishers = NewPublisherRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *SubscriptionRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *SubscriptionRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	suite.publisher = suite.factories.Publisher.Create()
	suite.Require().NoError(suite.publishers.Create(suite.publisher))
	suite.journalist = suite.factories.User.Journalist(suite.publisher.ID)
	suite.Require().NoError(suite.users.Create(suite.journalist))
	suite.reader = suite.factories.User.Reader()
	suite.Require().NoError(suite.users.Create(suite.reader))
}

func (suite *SubscriptionRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *SubscriptionRepositoryTestSuite) toPublisher(reader *models.User) *models.Subscription {
	id := suite.publisher.ID
	return &models.Subscription{ReaderID: reader.ID, PublisherID: &id}
}

func (suite *SubscriptionRepositoryTestSuite) toJournalist(reader *models.User) *models.Subscription {
	id := suite.journalist.ID
	return &models.Subscription{ReaderID: reader.ID, JournalistID: &id}
}

func (suite *SubscriptionRepositoryTestSuite) TestDuplicatePublisherSubscriptionRejected() {
	suite.Require().NoError(suite.repo.Create(suite.toPublisher(suite.reader)))

	err := suite.repo.Create(suite.toPublisher(suite.reader))

	suite.ErrorIs(err, gorm.ErrDuplicatedKey)
}

func (suite *SubscriptionRepositoryTestSuite) TestPublisherAndJournalistTargetsCoexist() {
	suite.NoError(suite.repo.Create(suite.toPublisher(suite.reader)))
	suite.NoError(suite.repo.Create(suite.toJournalist(suite.reader)))

	subs, err := suite.repo.ListByReader(suite.reader.ID)

	suite.NoError(err)
	suite.Len(subs, 2)
	for _, s := range subs {
		suite.NotEmpty(s.TargetName())
	}
}

func (suite *SubscriptionRepositoryTestSuite) TestTargetMustBeExactlyOne() {
	err := suite.repo.Create(&models.Subscription{ReaderID: suite.reader.ID})

	suite.Error(err)
}

func (suite *SubscriptionRepositoryTestSuite) TestSubscribersOfIsDistinct() {
	both := suite.reader
	suite.Require().NoError(suite.repo.Create(suite.toPublisher(both)))
	suite.Require().NoError(suite.repo.Create(suite.toJournalist(both)))

	journalistOnly := suite.factories.User.Reader()
	suite.Require().NoError(suite.users.Create(journalistOnly))
	suite.Require().NoError(suite.repo.Create(suite.toJournalist(journalistOnly)))

	bystander := suite.factories.User.Reader()
	suite.Require().NoError(suite.users.Create(bystander))

	subscribers, err := suite.repo.SubscribersOf(suite.publisher.ID, suite.journalist.ID)

	suite.NoError(err)
	suite.Len(subscribers, 2)
	ids := map[string]bool{}
	for _, u := range subscribers {
		ids[u.ID.String()] = true
	}
	suite.True(ids[both.ID.String()])
	suite.True(ids[journalistOnly.ID.String()])
}

func (suite *SubscriptionRepositoryTestSuite) TestFindAndDelete() {
	sub := suite.toPublisher(suite.reader)
	suite.Require().NoError(suite.repo.Create(sub))

	found, err := suite.repo.FindByReaderAndPublisher(suite.reader.ID, suite.publisher.ID)
	suite.Require().NoError(err)
	suite.Equal(sub.ID, found.ID)

	count, err := suite.repo.CountByPublisher(suite.publisher.ID)
	suite.NoError(err)
	suite.Equal(int64(1), count)

	suite.NoError(suite.repo.Delete(sub.ID))
	_, err = suite.repo.FindByReaderAndPublisher(suite.reader.ID, suite.publisher.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func TestSubscriptionRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionRepositoryTestSuite))
}
