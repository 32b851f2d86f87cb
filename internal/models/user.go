package models

import "time"

// ReservedUsername cannot be registered because it addresses the caller's own profile.
const ReservedUsername = "me"

// User represents an account of the recipe site.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"uniqueIndex;size:254;not null"`
	Username  string `gorm:"uniqueIndex;size:150;not null"`
	FirstName string `gorm:"size:150"`
	LastName  string `gorm:"size:150"`
	Password  string `gorm:"size:255;not null"` // bcrypt hash
	IsAdmin   bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
