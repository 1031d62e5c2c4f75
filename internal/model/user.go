package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:enum('student','instructor','admin');default:'student'" json:"role"`

	AvatarKey string     `gorm:"size:255" json:"avatarKey"`
	AvatarURL string     `gorm:"size:255" json:"avatarUrl"`
	Bio       string     `gorm:"size:500" json:"bio"`
	Skills    StringList `gorm:"type:json" json:"skills"`
	Points    int        `gorm:"default:0;index" json:"points"`

	LastLoginAt *time.Time `json:"lastLoginAt"`
	LastSeen    time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`

	// Password-reset flow: sha256 of the one-time token plus its expiry.
	ResetPasswordToken  string     `gorm:"size:64;index" json:"-"`
	ResetPasswordExpire *time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}
