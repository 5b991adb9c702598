package models

import "time"

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Username     string   `gorm:"uniqueIndex;size:80;not null" json:"username"`
	PasswordHash string   `gorm:"size:200;not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:user" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
