// Package workflow implements the editorial state machine shared by articles and newsletters.
package workflow

import (
	"strings"
	"time"

	"burst-backend/internal/access"
	"burst-backend/internal/database/models"
	apperrors "burst-backend/internal/errors"
	"burst-backend/internal/media"
)

// Action names a workflow operation exposed by the API
type Action string

const (
	ActionSubmit  Action = "submit"
	ActionApprove Action = "approve"
	ActionHold    Action = "hold"
	ActionReject  Action = "reject"
	ActionPublish Action = "publish"
	ActionArchive Action = "archive"
	ActionRestore Action = "restore"
)

// actionTargets maps each action to the status it moves content into
var actionTargets = map[Action]models.ContentStatus{
	ActionSubmit:  models.StatusPending,
	ActionApprove: models.StatusPublished,
	ActionHold:    models.StatusApproved,
	ActionReject:  models.StatusRejected,
	ActionPublish: models.StatusPublished,
	ActionArchive: models.StatusArchived,
	ActionRestore: models.StatusDraft,
}

// Target returns the status an action moves content into
func Target(action Action) (models.ContentStatus, error) {
	to, ok := actionTargets[action]
	if !ok {
		return "", apperrors.ErrInvalidAction
	}
	return to, nil
}

// edges is the state graph. A status change that is not listed here is never allowed.
var edges = map[models.ContentStatus][]models.ContentStatus{
	models.StatusDraft:     {models.StatusPending, models.StatusPublished},
	models.StatusRejected:  {models.StatusPending},
	models.StatusPending:   {models.StatusPublished, models.StatusApproved, models.StatusRejected},
	models.StatusApproved:  {models.StatusPublished, models.StatusRejected},
	models.StatusPublished: {models.StatusArchived},
	models.StatusArchived:  {models.StatusDraft},
}

// IsEdge reports whether from -> to is an edge of the state graph
func IsEdge(from, to models.ContentStatus) bool {
	for _, next := range edges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Engine applies transitions to content. It never touches storage; callers persist
// the mutated content and react to the new state.
type Engine struct {
	now func() time.Time
}

// NewEngine creates a new workflow engine
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineWithClock creates an engine that reads the time from now
func NewEngineWithClock(now func() time.Time) *Engine {
	return &Engine{now: now}
}

// Transition moves content to the target status on behalf of actor.
// Checks run in order: graph edge, permission, content validation. Nothing is mutated
// unless all of them pass. On success the version is incremented.
func (e *Engine) Transition(actor *models.User, content models.Content, to models.ContentStatus, reason string) error {
	core := content.Core()
	from := core.Status

	if !IsEdge(from, to) {
		return apperrors.NewTransitionError(string(from), string(to))
	}
	if !access.CanTransition(actor, content, from, to) {
		return apperrors.ErrPermissionDenied
	}
	if to == models.StatusPending || to == models.StatusPublished {
		if err := Validate(content); err != nil {
			return err
		}
	}

	now := e.now()
	switch to {
	case models.StatusPending:
		core.RejectionReason = ""
		core.ReviewedByID = nil
		core.ReviewedAt = nil
	case models.StatusApproved:
		markReviewed(core, actor, now)
	case models.StatusPublished:
		markReviewed(core, actor, now)
		core.RejectionReason = ""
		core.PublishedAt = &now
	case models.StatusRejected:
		markReviewed(core, actor, now)
		core.RejectionReason = strings.TrimSpace(reason)
	case models.StatusDraft:
		core.PublishedAt = nil
	}

	core.Status = to
	core.Version++
	return nil
}

// RevertToDraft returns published content to draft after an edit
func (e *Engine) RevertToDraft(content models.Content) bool {
	core := content.Core()
	if core.Status != models.StatusPublished {
		return false
	}
	core.Status = models.StatusDraft
	core.PublishedAt = nil
	return true
}

func markReviewed(core *models.Editorial, actor *models.User, now time.Time) {
	id := actor.ID
	core.ReviewedByID = &id
	core.ReviewedAt = &now
}

// Validate checks that content is complete enough to be reviewed or published
func Validate(content models.Content) error {
	core := content.Core()
	if strings.TrimSpace(core.Title) == "" {
		return apperrors.NewValidationError("title", "must not be empty")
	}
	if strings.TrimSpace(core.Body) == "" {
		return apperrors.NewValidationError("body", "must not be empty")
	}
	for _, img := range content.Attachments() {
		if err := media.ValidateImage(imageField(content), img.ContentType, img.Size); err != nil {
			return err
		}
	}
	return nil
}

func imageField(content models.Content) string {
	if content.Kind() == models.KindNewsletter {
		return "cover_image"
	}
	return "hero_image"
}
