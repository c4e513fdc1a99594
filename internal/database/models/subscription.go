package models

import "github.com/google/uuid"

// Subscription links a reader to exactly one target: a publisher or a journalist.
// Postgres treats NULLs as distinct, so each composite unique index only constrains
// the rows of its own target kind.
type Subscription struct {
	BaseModel
	ReaderID     uuid.UUID  `json:"reader_id" gorm:"type:uuid;not null;uniqueIndex:idx_subscriptions_reader_publisher;uniqueIndex:idx_subscriptions_reader_journalist"`
	Reader       *User      `json:"-" gorm:"foreignKey:ReaderID"`
	PublisherID  *uuid.UUID `json:"publisher_id,omitempty" gorm:"type:uuid;index;uniqueIndex:idx_subscriptions_reader_publisher;check:chk_subscriptions_one_target,(publisher_id IS NULL) <> (journalist_id IS NULL)"`
	Publisher    *Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
	JournalistID *uuid.UUID `json:"journalist_id,omitempty" gorm:"type:uuid;index;uniqueIndex:idx_subscriptions_reader_journalist"`
	Journalist   *User      `json:"journalist,omitempty" gorm:"foreignKey:JournalistID"`
}

// TableName returns the table name for Subscription
func (Subscription) TableName() string {
	return "subscriptions"
}

// TargetName returns the display name of the subscribed publisher or journalist
func (s *Subscription) TargetName() string {
	switch {
	case s.Publisher != nil:
		return s.Publisher.Name
	case s.Journalist != nil:
		return s.Journalist.FullName()
	}
	return ""
}
