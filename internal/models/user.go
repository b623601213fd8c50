package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username     string `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email        string `gorm:"uniqueIndex;size:120;not null" json:"email"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         string `gorm:"size:32;index;not null" json:"role"`
}

// WARNING: For demo simplicity we use SHA256 hash. In production use bcrypt/argon2.
func (u *User) SetPassword(plain string) error {
	h := sha256.Sum256([]byte(plain))
	u.PasswordHash = hex.EncodeToString(h[:])
	return nil
}

func (u *User) CheckPassword(plain string) bool {
	h := sha256.Sum256([]byte(plain))
	return u.PasswordHash == hex.EncodeToString(h[:])
}
