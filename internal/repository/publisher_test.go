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

// PublisherRepositoryTestSuite tests the PublisherRepository
type PublisherRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *PublisherRepository
	users         *UserRepository
	factories     *testutils.FactorySet
}

func (suite *PublisherRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewPublisherRepository(suite.baseTestSuite.DB)
	suite.users = NewUserRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *PublisherRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *PublisherRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

func (suite *PublisherRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *PublisherRepositoryTestSuite) TestCreateWithOwnerAttachesOwner() {
	owner := suite.factories.User.WithRole(models.RolePublisher, nil)
	pub := suite.factories.Publisher.WithName("Daily Planet")

	err := suite.repo.CreateWithOwner(pub, owner)

	suite.Require().NoError(err)
	suite.Require().NotNil(pub.OwnerID)
	suite.Equal(owner.ID, *pub.OwnerID)

	stored, err := suite.users.GetByID(owner.ID)
	suite.Require().NoError(err)
	suite.True(stored.BelongsTo(pub.ID))
}

func (suite *PublisherRepositoryTestSuite) TestCreateWithOwnerRollsBackOnDuplicateName() {
	suite.Require().NoError(suite.repo.Create(suite.factories.Publisher.WithName("Daily Planet")))

	owner := suite.factories.User.WithRole(models.RolePublisher, nil)
	err := suite.repo.CreateWithOwner(suite.factories.Publisher.WithName("DAILY PLANET"), owner)

	suite.ErrorIs(err, gorm.ErrDuplicatedKey)
	_, err = suite.users.GetByID(owner.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *PublisherRepositoryTestSuite) TestGetByNameIgnoresCase() {
	pub := suite.factories.Publisher.WithName("Gotham Gazette")
	suite.Require().NoError(suite.repo.Create(pub))

	found, err := suite.repo.GetByName("  gotham gazette ")

	suite.NoError(err)
	suite.Equal(pub.ID, found.ID)
}

func (suite *PublisherRepositoryTestSuite) TestGetAllPaginates() {
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		suite.Require().NoError(suite.repo.Create(suite.factories.Publisher.WithName(name)))
	}

	page, total, err := suite.repo.GetAll(2, 1)

	suite.NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(page, 2)
	suite.Equal("Bravo", page[0].Name)
}

func (suite *PublisherRepositoryTestSuite) TestGetWithMembers() {
	pub := suite.factories.Publisher.Create()
	suite.Require().NoError(suite.repo.Create(pub))
	suite.Require().NoError(suite.users.Create(suite.factories.User.Journalist(pub.ID)))

	found, err := suite.repo.GetWithMembers(pub.ID)

	suite.NoError(err)
	suite.Len(found.Members, 1)
}

func TestPublisherRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(PublisherRepositoryTestSuite))
}
