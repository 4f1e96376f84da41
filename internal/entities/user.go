package entities

import "time"

type User struct {
	ID           uint64
	Fio          string
	Email        string
	Phone        string
	Password     string // bcrypt hash
	RoleID       uint64
	DepartmentID *uint64
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
