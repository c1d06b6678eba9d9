package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// swagger:model User
type User struct {
	BaseModel
	Username  string    `gorm:"size:100;unique;not null" json:"username"`
	Email     string    `gorm:"size:100;not null" json:"email"`
	FirstName string    `gorm:"size:100" json:"firstName"`
	LastName  string    `gorm:"size:100" json:"lastName"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      Role      `gorm:"size:10;not null;default:'student'" json:"role"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
