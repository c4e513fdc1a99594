package models

// Category is a flat label used to filter articles
type Category struct {
	BaseModel
	Name        string `json:"name" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null;size:100" validate:"required,min=1,max=100"`
	Description string `json:"description" gorm:"size:200" validate:"max=200"`
}

// TableName returns the table name for Category
func (Category) TableName() string {
	return "categories"
}
