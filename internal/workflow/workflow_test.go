package workflow

import (
	"testing"
	"time"

	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/media"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type WorkflowTestSuite struct {
	suite.Suite
	engine     *Engine
	now        time.Time
	publisher  uuid.UUID
	journalist *models.User
	editor     *models.User
	owner      *models.User
}

func (suite *WorkflowTestSuite) SetupTest() {
	suite.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	suite.engine = NewEngineWithClock(func() time.Time { return suite.now })
	suite.publisher = uuid.New()
	suite.journalist = suite.user(models.RoleJournalist)
	suite.editor = suite.user(models.RoleEditor)
	suite.owner = suite.user(models.RolePublisher)
}

func (suite *WorkflowTestSuite) user(role models.Role) *models.User {
	pub := suite.publisher
	return &models.User{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		Username:    string(role),
		Role:        role,
		IsActive:    true,
		PublisherID: &pub,
	}
}

func (suite *WorkflowTestSuite) article(status models.ContentStatus) *models.Article {
	return &models.Article{
		BaseModel: models.BaseModel{ID: uuid.New()},
		Editorial: models.Editorial{
			Title:       "Council votes on budget",
			Body:        "The council met on Tuesday.",
			AuthorID:    suite.journalist.ID,
			PublisherID: suite.publisher,
			Status:      status,
			Version:     1,
		},
	}
}

func (suite *WorkflowTestSuite) TestSubmitDraft() {
	a := suite.article(models.StatusDraft)

	err := suite.engine.Transition(suite.journalist, a, models.StatusPending, "")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusPending, a.Status)
	assert.Equal(suite.T(), 2, a.Version)
}

func (suite *WorkflowTestSuite) TestApprovePublishesAndStampsReview() {
	a := suite.article(models.StatusPending)

	err := suite.engine.Transition(suite.editor, a, models.StatusPublished, "")

	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.StatusPublished, a.Status)
	require.NotNil(suite.T(), a.PublishedAt)
	assert.Equal(suite.T(), suite.now, *a.PublishedAt)
	require.NotNil(suite.T(), a.ReviewedByID)
	assert.Equal(suite.T(), suite.editor.ID, *a.ReviewedByID)
}

func (suite *WorkflowTestSuite) TestRejectThenResubmit() {
	a := suite.article(models.StatusPending)

	require.NoError(suite.T(), suite.engine.Transition(suite.editor, a, models.StatusRejected, "  needs sources "))
	assert.Equal(suite.T(), models.StatusRejected, a.Status)
	assert.Equal(suite.T(), "needs sources", a.RejectionReason)

	require.NoError(suite.T(), suite.engine.Transition(suite.journalist, a, models.StatusPending, ""))
	assert.Equal(suite.T(), models.StatusPending, a.Status)
	assert.Empty(suite.T(), a.RejectionReason)
	assert.Nil(suite.T(), a.ReviewedByID)
	assert.Equal(suite.T(), 3, a.Version)
}

func (suite *WorkflowTestSuite) TestHoldThenPublish() {
	a := suite.article(models.StatusPending)

	require.NoError(suite.T(), suite.engine.Transition(suite.editor, a, models.StatusApproved, ""))
	assert.Nil(suite.T(), a.PublishedAt)
	require.NoError(suite.T(), suite.engine.Transition(suite.owner, a, models.StatusPublished, ""))
	assert.Equal(suite.T(), models.StatusPublished, a.Status)
}

func (suite *WorkflowTestSuite) TestArchiveAndRestore() {
	a := suite.article(models.StatusPublished)

	require.NoError(suite.T(), suite.engine.Transition(suite.owner, a, models.StatusArchived, ""))
	require.NoError(suite.T(), suite.engine.Transition(suite.owner, a, models.StatusDraft, ""))
	assert.Equal(suite.T(), models.StatusDraft, a.Status)
	assert.Nil(suite.T(), a.PublishedAt)
}

func (suite *WorkflowTestSuite) TestInvalidEdgeCheckedBeforePermission() {
	a := suite.article(models.StatusDraft)

	// a reader is never allowed anything, but the graph check runs first
	err := suite.engine.Transition(suite.user(models.RoleReader), a, models.StatusApproved, "")

	require.Error(suite.T(), err)
	assert.True(suite.T(), apperrors.IsInvalidTransition(err))
	assert.Contains(suite.T(), err.Error(), "draft")
	assert.Contains(suite.T(), err.Error(), "approved")
	assert.Equal(suite.T(), models.StatusDraft, a.Status)
	assert.Equal(suite.T(), 1, a.Version)
}

func (suite *WorkflowTestSuite) TestEditorOfOtherPublisherDenied() {
	a := suite.article(models.StatusPending)
	other := uuid.New()
	outsider := suite.user(models.RoleEditor)
	outsider.PublisherID = &other

	err := suite.engine.Transition(outsider, a, models.StatusPublished, "")

	assert.ErrorIs(suite.T(), err, apperrors.ErrPermissionDenied)
	assert.Equal(suite.T(), models.StatusPending, a.Status)
}

func (suite *WorkflowTestSuite) TestValidationBeforeAnyStateChange() {
	tests := []struct {
		name   string
		mutate func(a *models.Article)
	}{
		{"empty title", func(a *models.Article) { a.Title = "   " }},
		{"empty body", func(a *models.Article) { a.Body = "" }},
		{"oversized image", func(a *models.Article) {
			a.HeroImage = models.ImageAttachment{Key: "k", ContentType: "image/png", Size: media.MaxImageSize + 1}
		}},
		{"unsupported image", func(a *models.Article) {
			a.HeroImage = models.ImageAttachment{Key: "k", ContentType: "image/tiff", Size: 100}
		}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			a := suite.article(models.StatusDraft)
			tt.mutate(a)

			err := suite.engine.Transition(suite.journalist, a, models.StatusPending, "")

			assert.True(suite.T(), apperrors.IsValidation(err))
			assert.Equal(suite.T(), models.StatusDraft, a.Status)
			assert.Equal(suite.T(), 1, a.Version)
		})
	}
}

func (suite *WorkflowTestSuite) TestRevertToDraft() {
	a := suite.article(models.StatusPublished)
	published := suite.now
	a.PublishedAt = &published

	assert.True(suite.T(), suite.engine.RevertToDraft(a))
	assert.Equal(suite.T(), models.StatusDraft, a.Status)
	assert.Nil(suite.T(), a.PublishedAt)
	assert.False(suite.T(), suite.engine.RevertToDraft(suite.article(models.StatusPending)))
}

func TestWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(WorkflowTestSuite))
}

func TestGraphEdges(t *testing.T) {
	statuses := []models.ContentStatus{
		models.StatusDraft, models.StatusPending, models.StatusApproved,
		models.StatusPublished, models.StatusRejected, models.StatusArchived,
	}
	var got [][2]models.ContentStatus
	for _, from := range statuses {
		for _, to := range statuses {
			if IsEdge(from, to) {
				got = append(got, [2]models.ContentStatus{from, to})
			}
		}
	}

	want := [][2]models.ContentStatus{
		{models.StatusDraft, models.StatusPending},
		{models.StatusDraft, models.StatusPublished},
		{models.StatusPending, models.StatusApproved},
		{models.StatusPending, models.StatusPublished},
		{models.StatusPending, models.StatusRejected},
		{models.StatusApproved, models.StatusPublished},
		{models.StatusApproved, models.StatusRejected},
		{models.StatusPublished, models.StatusArchived},
		{models.StatusRejected, models.StatusPending},
		{models.StatusArchived, models.StatusDraft},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state graph mismatch (-want +got):\n%s", diff)
	}
}

func TestTarget(t *testing.T) {
	to, err := Target(ActionApprove)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, to)

	_, err = Target(Action("explode"))
	assert.ErrorIs(t, err, apperrors.ErrInvalidAction)
}
