package models

import "github.com/google/uuid"

// Publisher is a publishing house. Its editors and journalists reference it through
// users.publisher_id.
type Publisher struct {
	BaseModel
	Name        string     `json:"name" gorm:"not null;size:200;uniqueIndex:idx_publishers_name_ci,expression:lower(name)" validate:"required,min=1,max=200"`
	Description string     `json:"description" gorm:"type:text"`
	Website     string     `json:"website" gorm:"size:200" validate:"omitempty,url,max=200"`
	OwnerID     *uuid.UUID `json:"owner_id,omitempty" gorm:"type:uuid;index"`
	Members     []User     `json:"members,omitempty" gorm:"foreignKey:PublisherID"`
}

// TableName returns the table name for Publisher
func (Publisher) TableName() string {
	return "publishers"
}
