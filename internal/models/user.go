package models

import (
	"gorm.io/gorm"
)

// Role represents a user's role on the board
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleMember Role = "Member"
	RoleViewer Role = "Viewer"
)

// User represents a user in the system.
// Password holds a bcrypt hash; it is empty for accounts created through
// Google sign-in.
type User struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"not null"`
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-"`
	Role      Role   `json:"role" gorm:"not null;default:'Member'"`
	AvatarURL string `json:"avatarUrl" gorm:"column:avatar_url"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
