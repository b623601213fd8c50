package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

type App struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string     `gorm:"size:200;not null" json:"name"`
	Version     float64    `gorm:"not null" json:"version"`
	Description string     `gorm:"not null" json:"description"`
	Rating      float64    `gorm:"default:0" json:"rating"`
	ReleaseDate *time.Time `json:"releasedate,omitempty"`
	Genre       string     `gorm:"size:100;index;not null" json:"genre"`
	Visibility  string     `gorm:"size:16;index;not null;default:public" json:"visibility"`

	// OwnerID is fixed at creation and never updated afterwards.
	OwnerID       uint  `gorm:"index;not null" json:"owner"`
	DownloadCount int64 `gorm:"not null;default:0" json:"-"`
}

func (a *App) BeforeCreate(_ *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// AppDownload records that a user has downloaded an app at least once.
// The composite unique index makes repeated inserts for the same pair no-ops.
type AppDownload struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	AppID  string `gorm:"size:36;uniqueIndex:uniq_app_downloader;not null"`
	UserID uint   `gorm:"uniqueIndex:uniq_app_downloader;not null"`
}
