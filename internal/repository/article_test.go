//go:build integration
// +build integration

package repository

import (
	"testing"

	"burst-backend/internal/access"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/testutils"

	"github.com/stretchr/testify/suite"
)

// ArticleRepositoryTestSuite tests the ArticleRepository
type ArticleRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *ArticleRepository
	users         *UserRepository
	publishers    *PublisherRepository
	factories     *testutils.FactorySet

	publisher  *models.Publisher
	journalist *models.User
}

func (suite *ArticleRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewArticleRepository(suite.baseTestSuite.DB)
	suite.users = NewUserRepository(suite.baseTestSuite.DB)
	suite.publishers = NewPublisherRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *ArticleRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *ArticleRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()

	suite.publisher = suite.factories.Publisher.Create()
	suite.Require().NoError(suite.publishers.Create(suite.publisher))
	suite.journalist = suite.factories.User.Journalist(suite.publisher.ID)
	suite.Require().NoError(suite.users.Create(suite.journalist))
}

func (suite *ArticleRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *ArticleRepositoryTestSuite) seed(published, drafts int) {
	for i := 0; i < published; i++ {
		suite.Require().NoError(suite.repo.Create(suite.factories.Article.WithStatus(suite.journalist, models.StatusPublished)))
	}
	for i := 0; i < drafts; i++ {
		suite.Require().NoError(suite.repo.Create(suite.factories.Article.WithStatus(suite.journalist, models.StatusDraft)))
	}
}

func (suite *ArticleRepositoryTestSuite) TestAnonymousListingReturnsPublishedOnly() {
	suite.seed(3, 2)

	articles, total, err := suite.repo.List(ArticleFilter{ContentFilter: ContentFilter{Scope: access.PublishedOnly, Limit: 50}})

	suite.NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(articles, 3)
	for _, a := range articles {
		suite.Equal(models.StatusPublished, a.Status)
	}
}

func (suite *ArticleRepositoryTestSuite) TestAuthorSeesOwnDrafts() {
	suite.seed(1, 2)
	colleague := suite.factories.User.Journalist(suite.publisher.ID)
	suite.Require().NoError(suite.users.Create(colleague))
	suite.Require().NoError(suite.repo.Create(suite.factories.Article.WithStatus(colleague, models.StatusDraft)))

	_, total, err := suite.repo.List(ArticleFilter{ContentFilter: ContentFilter{
		Scope: access.VisibilityFor(suite.journalist),
		Limit: 50,
	}})

	suite.NoError(err)
	suite.Equal(int64(3), total)
}

func (suite *ArticleRepositoryTestSuite) TestSearchMatchesTitleAndBody() {
	a := suite.factories.Article.WithStatus(suite.journalist, models.StatusPublished)
	a.Title = "Harbour bridge reopens"
	suite.Require().NoError(suite.repo.Create(a))
	suite.seed(2, 0)

	articles, total, err := suite.repo.List(ArticleFilter{ContentFilter: ContentFilter{
		Scope: access.PublishedOnly,
		Query: "harbour",
		Limit: 10,
	}})

	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal(a.ID, articles[0].ID)
}

func (suite *ArticleRepositoryTestSuite) TestUpdateChecksVersion() {
	a := suite.factories.Article.Create(suite.journalist)
	suite.Require().NoError(suite.repo.Create(a))

	a.Title = "Revised"
	a.Version = 2
	suite.Require().NoError(suite.repo.Update(a, 1))

	a.Title = "Lost update"
	a.Version = 3
	err := suite.repo.Update(a, 1)
	suite.ErrorIs(err, apperrors.ErrConcurrentUpdate)

	stored, err := suite.repo.GetByID(a.ID)
	suite.Require().NoError(err)
	suite.Equal("Revised", stored.Title)
	suite.Equal(2, stored.Version)
}

func (suite *ArticleRepositoryTestSuite) TestCountAndLatestByPublisher() {
	suite.seed(2, 1)

	count, err := suite.repo.CountByPublisher(suite.publisher.ID)
	suite.NoError(err)
	suite.Equal(int64(3), count)

	latest, err := suite.repo.LatestByPublisher(suite.publisher.ID, 2)
	suite.NoError(err)
	suite.Len(latest, 2)
}

func TestArticleRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(ArticleRepositoryTestSuite))
}
