//go:build integration
// +build integration

package repository

import (
	"testing"
	"time"

	"burst-backend/internal/database/models"
	"burst-backend/internal/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// NotificationRepositoryTestSuite covers notifications, reset tokens and sessions
type NotificationRepositoryTestSuite struct {
	suite.Suite
	baseTestSuite *testutils.BaseTestSuite
	repo          *NotificationRepository
	tokens        *PasswordResetTokenRepository
	sessions      *SessionStore
	users         *UserRepository
	factories     *testutils.FactorySet
	reader        *models.User
}

func (suite *NotificationRepositoryTestSuite) SetupSuite() {
	suite.baseTestSuite = testutils.SetupTestSuite(suite.T())
	suite.repo = NewNotificationRepository(suite.baseTestSuite.DB)
	suite.tokens = NewPasswordResetTokenRepository(suite.baseTestSuite.DB)
	suite.sessions = NewSessionStore(suite.baseTestSuite.DB)
	suite.users = NewUserRepository(suite.baseTestSuite.DB)
	suite.factories = testutils.NewFactorySet()
}

func (suite *NotificationRepositoryTestSuite) TearDownSuite() {
	suite.baseTestSuite.TeardownTestSuite()
}

func (suite *NotificationRepositoryTestSuite) SetupTest() {
	suite.baseTestSuite.SetupTest()
	suite.reader = suite.factories.User.Reader()
	suite.Require().NoError(suite.users.Create(suite.reader))
}

func (suite *NotificationRepositoryTestSuite) TearDownTest() {
	suite.baseTestSuite.TearDownTest()
}

func (suite *NotificationRepositoryTestSuite) notify(title string) *models.Notification {
	n := &models.Notification{
		RecipientID: suite.reader.ID,
		ContentKind: models.KindArticle,
		ContentID:   uuid.New(),
		Title:       title,
		Message:     "New article: " + title,
		Link:        "/articles/x/",
	}
	suite.Require().NoError(suite.repo.Create(n))
	return n
}

func (suite *NotificationRepositoryTestSuite) TestMarkReadAndUnreadFilter() {
	first := suite.notify("one")
	suite.notify("two")

	readAt := time.Now().UTC().Truncate(time.Second)
	suite.Require().NoError(suite.repo.MarkRead(first.ID, readAt))
	// a second mark keeps the first timestamp
	suite.Require().NoError(suite.repo.MarkRead(first.ID, readAt.Add(time.Hour)))

	stored, err := suite.repo.GetByID(first.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(stored.ReadAt)
	suite.True(stored.ReadAt.Equal(readAt))

	unread, total, err := suite.repo.ListByRecipient(suite.reader.ID, true, 10, 0)
	suite.NoError(err)
	suite.Equal(int64(1), total)
	suite.Equal("two", unread[0].Title)
}

func (suite *NotificationRepositoryTestSuite) TestDeleteReadBefore() {
	old := suite.notify("old")
	suite.notify("unread")
	suite.Require().NoError(suite.repo.MarkRead(old.ID, time.Now().Add(-48*time.Hour)))

	deleted, err := suite.repo.DeleteReadBefore(time.Now().Add(-24 * time.Hour))

	suite.NoError(err)
	suite.Equal(int64(1), deleted)
}

func (suite *NotificationRepositoryTestSuite) TestPasswordResetTokenLifecycle() {
	token := &models.PasswordResetToken{
		UserID:    suite.reader.ID,
		Token:     "tok-" + uuid.NewString(),
		ExpiresAt: time.Now().Add(models.PasswordResetTokenTTL),
	}
	suite.Require().NoError(suite.tokens.Create(token))

	found, err := suite.tokens.GetByToken(token.Token)
	suite.Require().NoError(err)
	suite.Equal(suite.reader.Username, found.User.Username)
	suite.True(found.IsValid(time.Now()))

	suite.Require().NoError(suite.tokens.MarkUsed(token.ID))
	deleted, err := suite.tokens.DeleteExpired(time.Now())
	suite.NoError(err)
	suite.Equal(int64(1), deleted)
}

func (suite *NotificationRepositoryTestSuite) TestSessionStore() {
	suite.Require().NoError(suite.sessions.Commit("abc", []byte("v1"), time.Now().Add(time.Hour)))
	suite.Require().NoError(suite.sessions.Commit("abc", []byte("v2"), time.Now().Add(time.Hour)))
	suite.Require().NoError(suite.sessions.Commit("stale", []byte("x"), time.Now().Add(-time.Minute)))

	data, found, err := suite.sessions.Find("abc")
	suite.NoError(err)
	suite.True(found)
	suite.Equal([]byte("v2"), data)

	_, found, err = suite.sessions.Find("stale")
	suite.NoError(err)
	suite.False(found)

	deleted, err := suite.sessions.DeleteExpired(time.Now())
	suite.NoError(err)
	suite.Equal(int64(1), deleted)

	suite.NoError(suite.sessions.Delete("abc"))
	_, found, _ = suite.sessions.Find("abc")
	suite.False(found)
}

func TestNotificationRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(NotificationRepositoryTestSuite))
}
