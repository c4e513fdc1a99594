//go:build integration
// +build integration

package repository

import (
	"testing"

	"burst-backend/internal/database/models"
	"burst-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// CategoryRepositoryTestSuite tests the CategoryRepository
type CategoryRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *CategoryRepository
	factory       *testutils.CategoryFactory
}

// SetupSuite runs before all tests in the suite
func (suite *CategoryRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewCategoryRepository(suite.baseTestSuite.DB)
	suite.factory = testutils.NewCategoryFactory()
}

// TearDownSuite runs after all tests in the suite
func (suite *CategoryRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

// SetupTest runs before each test
func (suite *CategoryRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
}

// TearDownTest runs after each test
func (suite *CategoryRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *CategoryRepositoryTestSuite) createCategory(name string) *models.Category {
	c := suite.factory.WithName(name)
	suite.Require().NoError(suite.baseTestSuite.DB.Create(c).Error)
	return c
}

func (suite *CategoryRepositoryTestSuite) TestGetByID() {
	category := suite.createCategory("Technology")

	retrieved, err := suite.repo.GetByID(category.ID)

	suite.NoError(err)
	suite.Equal(category.ID, retrieved.ID)
	suite.Equal("Technology", retrieved.Name)
	suite.Equal(category.Slug, retrieved.Slug)
}

func (suite *CategoryRepositoryTestSuite) TestGetByIDNotFound() {
	cat, err := suite.repo.GetByID(uuid.New())

	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.Nil(cat)
}

func (suite *CategoryRepositoryTestSuite) TestGetByName() {
	suite.createCategory("Science")

	retrieved, err := suite.repo.GetByName("Science")
	suite.NoError(err)
	suite.Equal("Science", retrieved.Name)

	_, err = suite.repo.GetByName("Gardening")
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

// Categories are listed alphabetically
func (suite *CategoryRepositoryTestSuite) TestGetAll() {
	suite.createCategory("Charlie")
	suite.createCategory("Alpha")
	suite.createCategory("Bravo")

	items, total, err := suite.repo.GetAll(10, 0)

	suite.NoError(err)
	suite.Equal(int64(3), total)
	suite.Require().Len(items, 3)
	suite.Equal("Alpha", items[0].Name)
	suite.Equal("Bravo", items[1].Name)
	suite.Equal("Charlie", items[2].Name)
}

func (suite *CategoryRepositoryTestSuite) TestGetAllWithPagination() {
	for _, name := range []string{"One", "Two", "Three", "Four", "Five"} {
		suite.createCategory(name)
	}

	items, total, err := suite.repo.GetAll(2, 0)
	suite.NoError(err)
	suite.Len(items, 2)
	suite.Equal(int64(5), total)

	items, _, err = suite.repo.GetAll(2, 4)
	suite.NoError(err)
	suite.Len(items, 1)
}

func (suite *CategoryRepositoryTestSuite) TestNameIsUnique() {
	suite.createCategory("Sports")
	duplicate := suite.factory.WithName("Sports")
	suite.Error(suite.baseTestSuite.DB.Create(duplicate).Error)
}

// Run the test suite
func TestCategoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepositoryTestSuite))
}
