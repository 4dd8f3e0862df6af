package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/internal/permissions"
)

type User struct {
	ID          uint            `gorm:"primaryKey" json:"_id"`
	Name        string          `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Email       string          `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password    string          `gorm:"size:100;not null" json:"-"`
	Score       uint            `gorm:"not null;default:0" json:"score"`
	Permissions permissions.Set `gorm:"not null" json:"permissions"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
