package models

// Role is the single role a user is registered with
type Role string

const (
	RoleReader     Role = "reader"
	RoleJournalist Role = "journalist"
	RoleEditor     Role = "editor"
	RolePublisher  Role = "publisher"
)

// IsValid checks if the Role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleReader, RoleJournalist, RoleEditor, RolePublisher:
		return true
	}
	return false
}

// ContentStatus is the workflow state of an article or newsletter
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPending   ContentStatus = "pending"
	StatusApproved  ContentStatus = "approved"
	StatusPublished ContentStatus = "published"
	StatusRejected  ContentStatus = "rejected"
	StatusArchived  ContentStatus = "archived"
)

// IsValid checks if the ContentStatus is valid
func (s ContentStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPending, StatusApproved, StatusPublished, StatusRejected, StatusArchived:
		return true
	}
	return false
}

// ContentKind distinguishes the two kinds of publishable content
type ContentKind string

const (
	KindArticle    ContentKind = "article"
	KindNewsletter ContentKind = "newsletter"
)
