package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	AppID  string `gorm:"size:36;index;not null" json:"app"`
	UserID uint   `gorm:"not null" json:"user"`
	Body   string `gorm:"not null" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
