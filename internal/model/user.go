package model

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// Roles lists the roles accepted at registration, in display order.
var Roles = []string{RoleStudent, RoleMentor}

type User struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"role"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (u *User) IsMentor() bool {
	return u != nil && u.Role == RoleMentor
}

func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleMentor
}
