package models

import "time"

// Session stores web session data for the scs session manager
type Session struct {
	Token  string    `gorm:"primaryKey;size:64"`
	Data   []byte    `gorm:"type:bytea;not null"`
	Expiry time.Time `gorm:"not null;index"`
}

// TableName returns the table name for Session
func (Session) TableName() string {
	return "sessions"
}
