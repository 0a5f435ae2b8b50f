package models

import "time"

// User holds profile/auth metadata mirrored from the identity provider.
type User struct {
	UID           string     `gorm:"column:uid;type:varchar(64);primary_key" json:"uid"`
	Email         string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex" json:"email"`
	Name          string     `gorm:"column:name;type:varchar(255)" json:"name"`
	Company       string     `gorm:"column:company;type:varchar(255)" json:"company"`
	EmailVerified bool       `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	VerifiedAt    *time.Time `gorm:"column:verified_at" json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
