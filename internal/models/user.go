package models

import "time"

type UserRole string

const (
    RoleUser  UserRole = "user"
    RoleAdmin UserRole = "admin"
)

type User struct {
    ID           int64    `gorm:"primaryKey" json:"id"`
    GoogleID     string   `gorm:"size:64;index" json:"-"`
    Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
    Name         string   `gorm:"size:200;not null" json:"name"`
    ProfileImage string   `gorm:"size:512" json:"profile_image,omitempty"`
    Role         UserRole `gorm:"size:16;default:user" json:"role"`
    // Level is compared against a room rule's minUserLevel condition.
    Level        int       `gorm:"default:0" json:"level"`
    PasswordHash string    `gorm:"size:255" json:"-"`
    CreatedAt    time.Time `json:"created_at"`
    UpdatedAt    time.Time `json:"updated_at"`
}
