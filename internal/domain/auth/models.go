package auth

import "time"

type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email,omitempty"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	EmployeeID   string     `json:"employeeId,omitempty"`
	PasswordHash string     `json:"-"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// UserContext is the authenticated caller attached to a request.
type UserContext struct {
	UserID     string
	Username   string
	Role       string
	EmployeeID string
}

func (u UserContext) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}
