package models

import "time"

type UserRole string
type UserStatus string

const (
	RoleSuperadmin UserRole = "superadmin"
	RoleAdmin      UserRole = "admin"
	RoleEmployee   UserRole = "employee"

	UserPending UserStatus = "pending"
	UserActive  UserStatus = "active"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string     `gorm:"size:255;not null" json:"name"`
	Email        string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);not null;index" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Division     string     `gorm:"size:100" json:"division"`
}
