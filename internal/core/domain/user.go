package domain

import "time"

// DefaultRoleName is the role attached to users provisioned from a client.
const DefaultRoleName = "client"

// User is the login identity provisioned for a client. Username is the
// client's mail at creation time and is unique.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-"`
	RoleID       string    `json:"roleId"`
	Status       bool      `json:"status"`
	CreationDate time.Time `json:"creationDate"`
}

// Role is a named permission group. It is reference data: looked up, never
// written by the registration workflow.
type Role struct {
	ID       string `json:"id"`
	RoleName string `json:"roleName"`
}
