package models

import (
	"time"

	"gorm.io/gorm"
)

// Collection groups questions under a name that is unique per owner.
// Question membership lives in collection_questions, a join table with no
// foreign keys: deleting a question leaves its membership rows behind, and
// preloading simply omits entries that no longer resolve.
type Collection struct {
	ID        uint           `gorm:"primaryKey" json:"_id"`
	Name      string         `gorm:"size:100;not null;index" json:"name"`
	Tags      StringArray    `gorm:"type:text" json:"tags"`
	OwnerID   *uint          `gorm:"index" json:"owner"`
	Questions []Question     `gorm:"many2many:collection_questions" json:"questions"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CollectionQuestion maps the join table directly so membership writes and
// the membership filter can address it without going through associations.
type CollectionQuestion struct {
	CollectionID uint `gorm:"primaryKey"`
	QuestionID   uint `gorm:"primaryKey"`
}

func (CollectionQuestion) TableName() string { return "collection_questions" }
