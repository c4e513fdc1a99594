// Package access decides what a user may do with a piece of content.
// Every function is pure: it looks only at the user and the content passed in.
package access

import (
	"burst-backend/internal/database/models"

	"github.com/google/uuid"
)

// relation is what must hold between the actor and the content for a rule to apply
type relation int

const (
	relAuthor relation = iota + 1
	relSamePublisher
)

type edge struct {
	from models.ContentStatus
	to   models.ContentStatus
}

type rule struct {
	role models.Role
	edge
}

// allowTable lists every permitted (role, from, to) combination. Anything missing is denied.
var allowTable = map[rule]relation{
	{models.RoleJournalist, edge{models.StatusDraft, models.StatusPending}}:    relAuthor,
	{models.RoleJournalist, edge{models.StatusRejected, models.StatusPending}}: relAuthor,

	{models.RoleEditor, edge{models.StatusPending, models.StatusPublished}}:  relSamePublisher,
	{models.RoleEditor, edge{models.StatusPending, models.StatusApproved}}:   relSamePublisher,
	{models.RoleEditor, edge{models.StatusPending, models.StatusRejected}}:   relSamePublisher,
	{models.RoleEditor, edge{models.StatusApproved, models.StatusPublished}}: relSamePublisher,
	{models.RoleEditor, edge{models.StatusApproved, models.StatusRejected}}:  relSamePublisher,

	{models.RolePublisher, edge{models.StatusApproved, models.StatusPublished}}: relSamePublisher,
	{models.RolePublisher, edge{models.StatusDraft, models.StatusPublished}}:    relSamePublisher,
	{models.RolePublisher, edge{models.StatusPublished, models.StatusArchived}}: relSamePublisher,
	{models.RolePublisher, edge{models.StatusArchived, models.StatusDraft}}:     relSamePublisher,
}

func holds(rel relation, user *models.User, core *models.Editorial) bool {
	switch rel {
	case relAuthor:
		return core.AuthorID == user.ID
	case relSamePublisher:
		return user.BelongsTo(core.PublisherID)
	}
	return false
}

func isActive(user *models.User) bool {
	return user != nil && user.IsActive
}

// CanTransition reports whether user may move content from one status to another
func CanTransition(user *models.User, content models.Content, from, to models.ContentStatus) bool {
	if !isActive(user) {
		return false
	}
	rel, ok := allowTable[rule{user.Role, edge{from, to}}]
	if !ok {
		return false
	}
	return holds(rel, user, content.Core())
}

// CanEdit reports whether user may change the title, body or images of content
func CanEdit(user *models.User, content models.Content) bool {
	if !isActive(user) {
		return false
	}
	core := content.Core()
	switch user.Role {
	case models.RoleJournalist:
		if core.AuthorID != user.ID {
			return false
		}
		switch core.Status {
		case models.StatusDraft, models.StatusRejected, models.StatusPublished:
			return true
		}
	case models.RoleEditor:
		if !user.BelongsTo(core.PublisherID) {
			return false
		}
		switch core.Status {
		case models.StatusPending, models.StatusApproved, models.StatusPublished:
			return true
		}
	}
	return false
}

// CanCreate reports whether user may author new content
func CanCreate(user *models.User) bool {
	return isActive(user) && user.Role == models.RoleJournalist && user.PublisherID != nil
}

// CanDelete reports whether user may delete content
func CanDelete(user *models.User, content models.Content) bool {
	if !isActive(user) {
		return false
	}
	core := content.Core()
	switch user.Role {
	case models.RoleJournalist:
		return core.AuthorID == user.ID &&
			(core.Status == models.StatusDraft || core.Status == models.StatusRejected)
	case models.RolePublisher:
		return user.BelongsTo(core.PublisherID)
	}
	return false
}

// Scope describes which content a user may see. Published content is always visible;
// AuthorID and PublisherID widen the scope to unpublished items they match.
type Scope struct {
	AuthorID    *uuid.UUID
	PublisherID *uuid.UUID
}

// PublishedOnly is the scope of anonymous visitors and readers
var PublishedOnly = Scope{}

// IsPublishedOnly reports whether the scope adds nothing beyond published content
func (s Scope) IsPublishedOnly() bool {
	return s.AuthorID == nil && s.PublisherID == nil
}

// VisibilityFor returns the listing scope of user. A nil user is anonymous.
func VisibilityFor(user *models.User) Scope {
	if !isActive(user) {
		return PublishedOnly
	}
	switch user.Role {
	case models.RoleJournalist:
		id := user.ID
		return Scope{AuthorID: &id}
	case models.RoleEditor, models.RolePublisher:
		if user.PublisherID == nil {
			return PublishedOnly
		}
		id := *user.PublisherID
		return Scope{PublisherID: &id}
	}
	return PublishedOnly
}

// Allows reports whether content falls inside the scope
func (s Scope) Allows(content models.Content) bool {
	core := content.Core()
	if core.Status == models.StatusPublished {
		return true
	}
	if s.AuthorID != nil && core.AuthorID == *s.AuthorID {
		return true
	}
	return s.PublisherID != nil && core.PublisherID == *s.PublisherID
}

// CanView reports whether user may see content
func CanView(user *models.User, content models.Content) bool {
	return VisibilityFor(user).Allows(content)
}
