package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is a single quiz item. The answer must always be one of the
// options; services enforce the invariant on create and on every edit of
// the answer field.
type Question struct {
	ID        uint           `gorm:"primaryKey" json:"_id"`
	Question  string         `gorm:"size:500;not null" json:"question"`
	Options   StringArray    `gorm:"type:text;not null" json:"options"`
	Answer    string         `gorm:"size:500;not null" json:"answer"`
	OwnerID   *uint          `gorm:"index" json:"owner"`
	Tags      StringArray    `gorm:"type:text" json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
